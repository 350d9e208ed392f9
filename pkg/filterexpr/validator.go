package filterexpr

import (
	"fmt"
)

// Type is the type of a column or expression in the filter grammar.
type Type int

const (
	TypeNumber Type = iota + 1
	TypeString
	TypeBool
)

func (t Type) String() string {
	switch t {
	case TypeNumber:
		return "number"
	case TypeString:
		return "string"
	case TypeBool:
		return "boolean"
	default:
		return "unknown"
	}
}

// Schema maps the queryable column names to their types. It must stay in
// lockstep with the unified table's actual output columns: drift produces
// either false rejections or validated expressions that fail live.
type Schema map[string]Type

// ErrorKind classifies validation failures for user-facing rendering.
type ErrorKind string

const (
	KindSyntax           ErrorKind = "syntax"
	KindUnknownColumn    ErrorKind = "unknown-column"
	KindTypeIncompatible ErrorKind = "type-incompatible"
	KindInternal         ErrorKind = "internal"
)

// ValidationError is a structured, user-facing filter error.
type ValidationError struct {
	Kind       ErrorKind `json:"kind"`
	Expression string    `json:"expression"`
	Message    string    `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s error in filter %q: %s", e.Kind, e.Expression, e.Message)
}

// ValidationResult is the outcome of validating a filter expression against
// the schema alone. No data is ever touched.
type ValidationResult struct {
	OK  bool             `json:"ok"`
	Err *ValidationError `json:"error,omitempty"`
}

// Validate checks a user-typed filter expression against the unified table's
// column schema without running it against real data. Panics anywhere in the
// pipeline are recovered and reported; a malformed expression must never take
// down a live request.
func Validate(expression string, schema Schema) (result ValidationResult) {
	defer func() {
		if r := recover(); r != nil {
			result = ValidationResult{OK: false, Err: &ValidationError{
				Kind:       KindInternal,
				Expression: expression,
				Message:    fmt.Sprintf("internal error: %v", r),
			}}
		}
	}()

	if _, err := Compile(expression, schema); err != nil {
		return ValidationResult{OK: false, Err: err}
	}
	return ValidationResult{OK: true}
}

// Compile parses and type-checks an expression, returning a filter ready to
// run against unified rows. The compiled form is what the live filtering
// step executes, so validation and execution can never diverge.
func Compile(expression string, schema Schema) (*Filter, *ValidationError) {
	expr, err := Parse(expression)
	if err != nil {
		return nil, &ValidationError{Kind: KindSyntax, Expression: expression, Message: err.Error()}
	}

	resultType, verr := typeCheck(expr, schema)
	if verr != nil {
		verr.Expression = expression
		return nil, verr
	}
	if resultType != TypeBool {
		return nil, &ValidationError{
			Kind:       KindTypeIncompatible,
			Expression: expression,
			Message:    fmt.Sprintf("filter must be a boolean predicate, got %s", resultType),
		}
	}

	return &Filter{expression: expression, root: expr}, nil
}

func typeCheck(expr Expr, schema Schema) (Type, *ValidationError) {
	switch node := expr.(type) {
	case *NumberLit:
		return TypeNumber, nil
	case *StringLit:
		return TypeString, nil
	case *BoolLit:
		return TypeBool, nil
	case *ColumnRef:
		t, ok := schema[node.Name]
		if !ok {
			return 0, &ValidationError{
				Kind:    KindUnknownColumn,
				Message: fmt.Sprintf("unknown column %q", node.Name),
			}
		}
		return t, nil
	case *UnaryExpr:
		operand, err := typeCheck(node.Operand, schema)
		if err != nil {
			return 0, err
		}
		switch node.Op {
		case Not:
			if operand != TypeBool {
				return 0, typeMismatch("NOT", operand)
			}
			return TypeBool, nil
		case Minus:
			if operand != TypeNumber {
				return 0, typeMismatch("-", operand)
			}
			return TypeNumber, nil
		}
		return 0, &ValidationError{Kind: KindSyntax, Message: "unsupported unary operator"}
	case *BinaryExpr:
		left, err := typeCheck(node.Left, schema)
		if err != nil {
			return 0, err
		}
		right, err := typeCheck(node.Right, schema)
		if err != nil {
			return 0, err
		}
		switch node.Op {
		case And, Or:
			if left != TypeBool || right != TypeBool {
				return 0, binaryMismatch(node.OpLit, left, right)
			}
			return TypeBool, nil
		case Equal, NotEqual:
			if left != right {
				return 0, binaryMismatch(node.OpLit, left, right)
			}
			return TypeBool, nil
		case Less, LessEqual, Greater, GreaterEqual:
			if left != right || left == TypeBool {
				return 0, binaryMismatch(node.OpLit, left, right)
			}
			return TypeBool, nil
		case Plus, Minus, Star, Slash, Percent:
			if left != TypeNumber || right != TypeNumber {
				return 0, binaryMismatch(node.OpLit, left, right)
			}
			return TypeNumber, nil
		}
		return 0, &ValidationError{Kind: KindSyntax, Message: "unsupported binary operator"}
	default:
		return 0, &ValidationError{Kind: KindInternal, Message: fmt.Sprintf("unexpected node %T", expr)}
	}
}

func typeMismatch(op string, operand Type) *ValidationError {
	return &ValidationError{
		Kind:    KindTypeIncompatible,
		Message: fmt.Sprintf("operator %s cannot be applied to %s", op, operand),
	}
}

func binaryMismatch(op string, left, right Type) *ValidationError {
	return &ValidationError{
		Kind:    KindTypeIncompatible,
		Message: fmt.Sprintf("operator %s cannot be applied to %s and %s", op, left, right),
	}
}
