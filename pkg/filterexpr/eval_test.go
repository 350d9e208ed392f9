package filterexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func mapRow(values map[string]Value) Row {
	return func(column string) Value {
		if v, ok := values[column]; ok {
			return v
		}
		return NullValue(TypeNumber)
	}
}

func compile(t *testing.T, expression string) *Filter {
	t.Helper()
	filter, verr := Compile(expression, testSchema())
	require.Nil(t, verr)
	return filter
}

func TestMatchComparison(t *testing.T) {
	filter := compile(t, "vs30 > 300")

	match, err := filter.Match(mapRow(map[string]Value{"vs30": NumberValue(420)}))
	require.NoError(t, err)
	require.True(t, match)

	match, err = filter.Match(mapRow(map[string]Value{"vs30": NumberValue(180)}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchNullExcludesRow(t *testing.T) {
	filter := compile(t, "vs30 > 300")

	match, err := filter.Match(mapRow(map[string]Value{"vs30": NullValue(TypeNumber)}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchNegatedNullStillExcludesRow(t *testing.T) {
	// Kleene logic: NOT unknown is still unknown, and unknown never matches.
	filter := compile(t, "not vs30 > 300")

	match, err := filter.Match(mapRow(map[string]Value{"vs30": NullValue(TypeNumber)}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchKleeneOr(t *testing.T) {
	// unknown OR true is true.
	filter := compile(t, "vs30 > 300 or region = 'Canterbury'")

	match, err := filter.Match(mapRow(map[string]Value{
		"vs30":   NullValue(TypeNumber),
		"region": StringValue("Canterbury"),
	}))
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchKleeneAnd(t *testing.T) {
	// unknown AND false is false, unknown AND true is unknown.
	filter := compile(t, "vs30 > 300 and region = 'Canterbury'")

	match, err := filter.Match(mapRow(map[string]Value{
		"vs30":   NullValue(TypeNumber),
		"region": StringValue("Otago"),
	}))
	require.NoError(t, err)
	require.False(t, match)

	match, err = filter.Match(mapRow(map[string]Value{
		"vs30":   NullValue(TypeNumber),
		"region": StringValue("Canterbury"),
	}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchArithmetic(t *testing.T) {
	filter := compile(t, "vs30 * 2 >= 500 and deepest_depth - 1 < 20")

	match, err := filter.Match(mapRow(map[string]Value{
		"vs30":          NumberValue(250),
		"deepest_depth": NumberValue(15),
	}))
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchModulo(t *testing.T) {
	filter := compile(t, "vs30 % 100 = 50")

	match, err := filter.Match(mapRow(map[string]Value{"vs30": NumberValue(250)}))
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchModuloFractionalDivisor(t *testing.T) {
	// Modulo stays in the float domain. A fractional divisor must not
	// degrade into integer arithmetic, where it would truncate to zero
	// and every row would be lost to an evaluation error.
	filter := compile(t, "vs30 % 0.5 = 0")

	match, err := filter.Match(mapRow(map[string]Value{"vs30": NumberValue(250)}))
	require.NoError(t, err)
	require.True(t, match)

	filter = compile(t, "vs30 % 2 > 0.6")
	match, err = filter.Match(mapRow(map[string]Value{"vs30": NumberValue(250.7)}))
	require.NoError(t, err)
	require.True(t, match)
}

func TestMatchModuloByZeroIsNull(t *testing.T) {
	filter := compile(t, "vs30 % deepest_depth = 0")

	match, err := filter.Match(mapRow(map[string]Value{
		"vs30":          NumberValue(250),
		"deepest_depth": NumberValue(0),
	}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchDivisionByZeroIsNull(t *testing.T) {
	filter := compile(t, "vs30 / deepest_depth > 1")

	match, err := filter.Match(mapRow(map[string]Value{
		"vs30":          NumberValue(250),
		"deepest_depth": NumberValue(0),
	}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchStringEquality(t *testing.T) {
	filter := compile(t, "record_name != 'CPT_1'")

	match, err := filter.Match(mapRow(map[string]Value{"record_name": StringValue("SPT_9")}))
	require.NoError(t, err)
	require.True(t, match)

	match, err = filter.Match(mapRow(map[string]Value{"record_name": StringValue("CPT_1")}))
	require.NoError(t, err)
	require.False(t, match)
}

func TestMatchOperatorAliases(t *testing.T) {
	for _, expression := range []string{"vs30 == 300", "vs30 = 300"} {
		filter := compile(t, expression)
		match, err := filter.Match(mapRow(map[string]Value{"vs30": NumberValue(300)}))
		require.NoError(t, err, expression)
		require.True(t, match, expression)
	}

	for _, expression := range []string{"vs30 != 300", "vs30 <> 300"} {
		filter := compile(t, expression)
		match, err := filter.Match(mapRow(map[string]Value{"vs30": NumberValue(301)}))
		require.NoError(t, err, expression)
		require.True(t, match, expression)
	}
}

func TestNumberPtr(t *testing.T) {
	require.True(t, NumberPtr(nil).Null)

	v := 3.5
	value := NumberPtr(&v)
	require.False(t, value.Null)
	require.Equal(t, 3.5, value.Number)
}
