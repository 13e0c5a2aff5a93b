package statement

import "fmt"

// UnsupportedStatementError reports a statement whose syntactic kind is
// outside the supported subset (INSERT, SELECT, UPDATE, DELETE, CREATE).
type UnsupportedStatementError struct {
	Detail string
}

func (e *UnsupportedStatementError) Error() string {
	return fmt.Sprintf("unsupported statement: %s", e.Detail)
}

// MalformedStatementError reports a statement of a supported kind that
// is missing a structurally required clause or cannot be parsed.
type MalformedStatementError struct {
	Kind   Kind
	Reason string
}

func (e *MalformedStatementError) Error() string {
	if e.Kind == "" || e.Kind == KindUnknown {
		return fmt.Sprintf("malformed statement: %s", e.Reason)
	}
	return fmt.Sprintf("malformed %s statement: %s", e.Kind, e.Reason)
}

// UnsupportedExpressionError reports an expression node outside the
// supported WHERE grammar (a bare comparison, or exactly one top-level
// AND of two comparisons).
type UnsupportedExpressionError struct {
	Node string
}

func (e *UnsupportedExpressionError) Error() string {
	return fmt.Sprintf("unsupported expression: %s", e.Node)
}

// INSERT arity diagnostics. The two directions carry distinct messages
// so callers can tell which side of the statement to fix.
const (
	reasonMoreProperties = "the number of properties is larger than the number of values; " +
		"ensure each property has a corresponding value"
	reasonMoreValues = "the number of values is larger than the number of properties; " +
		"ensure each value maps to a property"
)
