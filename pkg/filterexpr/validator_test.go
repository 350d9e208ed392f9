package filterexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func testSchema() Schema {
	return Schema{
		"vs30":         TypeNumber,
		"deepest_depth": TypeNumber,
		"region":       TypeString,
		"record_name":  TypeString,
	}
}

func TestValidateAcceptsSimplePredicate(t *testing.T) {
	result := Validate("vs30 > 300", testSchema())
	require.True(t, result.OK)
	require.Nil(t, result.Err)
}

func TestValidateAcceptsCompoundPredicate(t *testing.T) {
	result := Validate("region = 'Canterbury' and (vs30 >= 200 or deepest_depth < 10)", testSchema())
	require.True(t, result.OK)
}

func TestValidateRejectsUnknownColumn(t *testing.T) {
	result := Validate("nonexistent_col > 1", testSchema())
	require.False(t, result.OK)
	require.NotNil(t, result.Err)
	require.Equal(t, KindUnknownColumn, result.Err.Kind)
}

func TestValidateRejectsSyntaxError(t *testing.T) {
	result := Validate("vs30 >", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindSyntax, result.Err.Kind)
}

func TestValidateRejectsTypeMismatch(t *testing.T) {
	result := Validate("vs30 > 'deep'", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindTypeIncompatible, result.Err.Kind)
}

func TestValidateRejectsNonBooleanExpression(t *testing.T) {
	result := Validate("vs30 + 10", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindTypeIncompatible, result.Err.Kind)
}

func TestValidateRejectsBooleanOrdering(t *testing.T) {
	result := Validate("(vs30 > 1) < (vs30 > 2)", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindTypeIncompatible, result.Err.Kind)
}

func TestValidateUnterminatedString(t *testing.T) {
	result := Validate("region = 'Canterbury", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindSyntax, result.Err.Kind)
}

func TestValidateEmptyExpression(t *testing.T) {
	result := Validate("", testSchema())
	require.False(t, result.OK)
	require.Equal(t, KindSyntax, result.Err.Kind)
}

func TestValidateTouchesNoData(t *testing.T) {
	// The schema is the only thing validation may consult; a nil row
	// accessor would panic if evaluation ever ran.
	result := Validate("vs30 > 300 and region != 'Otago'", testSchema())
	require.True(t, result.OK)
}
