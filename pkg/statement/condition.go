package statement

import (
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// operatorNames normalizes the parser's comparison operator tokens to
// the names carried by Condition records. Tokens outside this table
// pass through uppercased; whether they are usable is decided when a
// remote filter is built.
var operatorNames = map[string]string{
	sqlparser.EqualStr:        OpEQ,
	sqlparser.GreaterThanStr:  OpGT,
	sqlparser.LessThanStr:     OpLT,
	sqlparser.LessEqualStr:    OpLE,
	sqlparser.GreaterEqualStr: OpGE,
	sqlparser.LikeStr:         OpLike,
}

// compileWhere turns a WHERE expression tree into an ordered condition
// list. The supported grammar is narrow: a bare comparison
// predicate, or exactly one top-level AND of two comparison predicates.
// OR, NOT and nested boolean trees are rejected.
func compileWhere(expr sqlparser.Expr) ([]Condition, error) {
	switch e := unwrapParens(expr).(type) {
	case *sqlparser.AndExpr:
		left, err := compileComparison(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := compileComparison(e.Right)
		if err != nil {
			return nil, err
		}
		return []Condition{left, right}, nil
	case *sqlparser.ComparisonExpr:
		cond, err := compileComparison(e)
		if err != nil {
			return nil, err
		}
		return []Condition{cond}, nil
	default:
		return nil, &UnsupportedExpressionError{Node: sqlparser.String(expr)}
	}
}

// compileComparison extracts one Condition from a simple comparison
// predicate of the form <identifier> <op> <literal>.
func compileComparison(expr sqlparser.Expr) (Condition, error) {
	cmp, ok := unwrapParens(expr).(*sqlparser.ComparisonExpr)
	if !ok {
		return Condition{}, &UnsupportedExpressionError{Node: sqlparser.String(expr)}
	}

	col, ok := cmp.Left.(*sqlparser.ColName)
	if !ok {
		return Condition{}, &UnsupportedExpressionError{Node: sqlparser.String(cmp.Left)}
	}

	val, ok := cmp.Right.(*sqlparser.SQLVal)
	if !ok {
		return Condition{}, &UnsupportedExpressionError{Node: sqlparser.String(cmp.Right)}
	}

	operator, ok := operatorNames[cmp.Operator]
	if !ok {
		operator = strings.ToUpper(strings.TrimSpace(cmp.Operator))
	}

	return Condition{
		Parameter: strings.TrimSpace(col.Name.String()),
		Operator:  operator,
		Value:     conditionValue(val),
	}, nil
}

func unwrapParens(expr sqlparser.Expr) sqlparser.Expr {
	for {
		paren, ok := expr.(*sqlparser.ParenExpr)
		if !ok {
			return expr
		}
		expr = paren.Expr
	}
}
