package filterexpr

import (
	"fmt"
	"math"
)

// Value is a nullable typed cell handed to the evaluator by a row accessor.
type Value struct {
	Type   Type
	Null   bool
	Number float64
	Str    string
	Bool   bool
}

func NumberValue(v float64) Value { return Value{Type: TypeNumber, Number: v} }
func StringValue(v string) Value  { return Value{Type: TypeString, Str: v} }
func BoolValue(v bool) Value      { return Value{Type: TypeBool, Bool: v} }
func NullValue(t Type) Value      { return Value{Type: t, Null: true} }

// NumberPtr maps an optional column straight from its pointer field.
func NumberPtr(v *float64) Value {
	if v == nil {
		return NullValue(TypeNumber)
	}
	return NumberValue(*v)
}

func StringPtr(v *string) Value {
	if v == nil {
		return NullValue(TypeString)
	}
	return StringValue(*v)
}

// Row resolves a column name to its value for one record. Compile already
// rejected unknown columns, so the accessor is only asked for schema names.
type Row func(column string) Value

// Filter is a compiled, type-checked predicate over unified rows.
type Filter struct {
	expression string
	root       Expr
}

func (f *Filter) Expression() string { return f.expression }

// Match evaluates the predicate for one row. SQL-style three-valued logic:
// a comparison touching a null is null, and a null predicate excludes the
// row. Evaluation cannot reach storage; it only sees the accessor.
func (f *Filter) Match(row Row) (matched bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			matched = false
			err = &ValidationError{
				Kind:       KindInternal,
				Expression: f.expression,
				Message:    fmt.Sprintf("internal error: %v", r),
			}
		}
	}()

	result := eval(f.root, row)
	return !result.Null && result.Bool, nil
}

func eval(expr Expr, row Row) Value {
	switch node := expr.(type) {
	case *NumberLit:
		return NumberValue(node.Value)
	case *StringLit:
		return StringValue(node.Value)
	case *BoolLit:
		return BoolValue(node.Value)
	case *ColumnRef:
		return row(node.Name)
	case *UnaryExpr:
		operand := eval(node.Operand, row)
		switch node.Op {
		case Not:
			if operand.Null {
				return NullValue(TypeBool)
			}
			return BoolValue(!operand.Bool)
		case Minus:
			if operand.Null {
				return NullValue(TypeNumber)
			}
			return NumberValue(-operand.Number)
		}
	case *BinaryExpr:
		return evalBinary(node, row)
	}
	panic(fmt.Sprintf("unexpected node %T", expr))
}

func evalBinary(node *BinaryExpr, row Row) Value {
	switch node.Op {
	case And:
		// Kleene logic: a definite false short-circuits past nulls.
		left := eval(node.Left, row)
		if !left.Null && !left.Bool {
			return BoolValue(false)
		}
		right := eval(node.Right, row)
		if !right.Null && !right.Bool {
			return BoolValue(false)
		}
		if left.Null || right.Null {
			return NullValue(TypeBool)
		}
		return BoolValue(true)
	case Or:
		left := eval(node.Left, row)
		if !left.Null && left.Bool {
			return BoolValue(true)
		}
		right := eval(node.Right, row)
		if !right.Null && right.Bool {
			return BoolValue(true)
		}
		if left.Null || right.Null {
			return NullValue(TypeBool)
		}
		return BoolValue(false)
	}

	left := eval(node.Left, row)
	right := eval(node.Right, row)

	switch node.Op {
	case Plus, Minus, Star, Slash, Percent:
		if left.Null || right.Null {
			return NullValue(TypeNumber)
		}
		switch node.Op {
		case Plus:
			return NumberValue(left.Number + right.Number)
		case Minus:
			return NumberValue(left.Number - right.Number)
		case Star:
			return NumberValue(left.Number * right.Number)
		case Slash:
			if right.Number == 0 {
				return NullValue(TypeNumber)
			}
			return NumberValue(left.Number / right.Number)
		case Percent:
			if right.Number == 0 {
				return NullValue(TypeNumber)
			}
			return NumberValue(math.Mod(left.Number, right.Number))
		}
	case Equal, NotEqual, Less, LessEqual, Greater, GreaterEqual:
		if left.Null || right.Null {
			return NullValue(TypeBool)
		}
		return BoolValue(compare(node.Op, left, right))
	}
	panic(fmt.Sprintf("unexpected operator %s", node.OpLit))
}

func compare(op TokenType, left, right Value) bool {
	switch left.Type {
	case TypeNumber:
		switch op {
		case Equal:
			return left.Number == right.Number
		case NotEqual:
			return left.Number != right.Number
		case Less:
			return left.Number < right.Number
		case LessEqual:
			return left.Number <= right.Number
		case Greater:
			return left.Number > right.Number
		case GreaterEqual:
			return left.Number >= right.Number
		}
	case TypeString:
		switch op {
		case Equal:
			return left.Str == right.Str
		case NotEqual:
			return left.Str != right.Str
		case Less:
			return left.Str < right.Str
		case LessEqual:
			return left.Str <= right.Str
		case Greater:
			return left.Str > right.Str
		case GreaterEqual:
			return left.Str >= right.Str
		}
	case TypeBool:
		switch op {
		case Equal:
			return left.Bool == right.Bool
		case NotEqual:
			return left.Bool != right.Bool
		}
	}
	return false
}
