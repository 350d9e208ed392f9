package filterexpr

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParsePrecedence(t *testing.T) {
	// AND binds tighter than OR.
	expr, err := Parse("a or b and c")
	require.NoError(t, err)

	root, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Or, root.Op)

	right, ok := root.Right.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, And, right.Op)
}

func TestParseArithmeticPrecedence(t *testing.T) {
	// Multiplication binds tighter than addition, comparison looser still.
	expr, err := Parse("a + b * 2 > 10")
	require.NoError(t, err)

	root, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Greater, root.Op)

	sum, ok := root.Left.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Plus, sum.Op)

	product, ok := sum.Right.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, Star, product.Op)
}

func TestParseParenthesesOverridePrecedence(t *testing.T) {
	expr, err := Parse("(a or b) and c")
	require.NoError(t, err)

	root, ok := expr.(*BinaryExpr)
	require.True(t, ok)
	require.Equal(t, And, root.Op)
}

func TestParseRejectsTrailingInput(t *testing.T) {
	_, err := Parse("a > 1 b")
	require.Error(t, err)
}

func TestParseRejectsUnbalancedParen(t *testing.T) {
	_, err := Parse("(a > 1")
	require.Error(t, err)
}

func TestParseStringLiteral(t *testing.T) {
	expr, err := Parse("region = 'Bay of Plenty'")
	require.NoError(t, err)

	root, ok := expr.(*BinaryExpr)
	require.True(t, ok)

	lit, ok := root.Right.(*StringLit)
	require.True(t, ok)
	require.Equal(t, "Bay of Plenty", lit.Value)
}

func TestParseUnaryMinus(t *testing.T) {
	expr, err := Parse("gwl_residual < -1.5")
	require.NoError(t, err)

	root, ok := expr.(*BinaryExpr)
	require.True(t, ok)

	neg, ok := root.Right.(*UnaryExpr)
	require.True(t, ok)
	require.Equal(t, Minus, neg.Op)
}
