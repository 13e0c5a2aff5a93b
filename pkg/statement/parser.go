package statement

import (
	"strconv"
	"strings"

	"github.com/blastrain/vitess-sqlparser/sqlparser"
)

// Parse builds a normalized Statement from a single SQL statement. It
// returns *UnsupportedStatementError when the statement's kind is
// outside the supported subset and *MalformedStatementError when a
// supported kind is missing a structurally required clause.
func Parse(sql string) (Statement, error) {
	node, err := sqlparser.Parse(sql)
	if err != nil {
		supported, kind := Classify(sql)
		if !supported {
			return nil, &UnsupportedStatementError{Detail: err.Error()}
		}
		return nil, &MalformedStatementError{Kind: kind, Reason: err.Error()}
	}

	switch stmt := node.(type) {
	case *sqlparser.Insert:
		return parseInsert(stmt)
	case *sqlparser.Select:
		return parseSelect(stmt)
	case *sqlparser.Update:
		return parseUpdate(stmt)
	case *sqlparser.Delete:
		return parseDelete(stmt)
	case *sqlparser.CreateTable:
		return parseCreate(stmt)
	default:
		return nil, &UnsupportedStatementError{Detail: sqlparser.String(node)}
	}
}

func parseInsert(stmt *sqlparser.Insert) (*Insert, error) {
	values, ok := stmt.Rows.(sqlparser.Values)
	if !ok || len(values) == 0 {
		return nil, &MalformedStatementError{Kind: KindInsert, Reason: "missing VALUES list"}
	}

	// Only the first tuple is used; one statement inserts one record.
	row := values[0]

	if len(stmt.Columns) > len(row) {
		return nil, &MalformedStatementError{Kind: KindInsert, Reason: reasonMoreProperties}
	}
	if len(row) > len(stmt.Columns) {
		return nil, &MalformedStatementError{Kind: KindInsert, Reason: reasonMoreValues}
	}

	data := make([]Assignment, 0, len(stmt.Columns))
	for i, col := range stmt.Columns {
		value, err := literalValue(row[i], false)
		if err != nil {
			return nil, err
		}
		data = append(data, Assignment{Property: col.String(), Value: value})
	}

	return &Insert{Table: stmt.Table.Name.String(), Data: data}, nil
}

func parseSelect(stmt *sqlparser.Select) (*Select, error) {
	table, err := singleTableName(stmt.From, KindSelect)
	if err != nil {
		return nil, err
	}

	columns, err := projectionColumns(stmt.SelectExprs)
	if err != nil {
		return nil, err
	}

	var conditions []Condition
	if stmt.Where != nil {
		conditions, err = compileWhere(stmt.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	return &Select{Table: table, Columns: columns, Conditions: conditions}, nil
}

// projectionColumns collects named projection columns in statement
// order. SELECT * yields nil, meaning the full schema is resolved
// downstream.
func projectionColumns(exprs sqlparser.SelectExprs) ([]string, error) {
	if len(exprs) == 1 {
		if _, ok := exprs[0].(*sqlparser.StarExpr); ok {
			return nil, nil
		}
	}

	columns := make([]string, 0, len(exprs))
	for _, expr := range exprs {
		aliased, ok := expr.(*sqlparser.AliasedExpr)
		if !ok {
			return nil, &UnsupportedExpressionError{Node: sqlparser.String(expr)}
		}
		col, ok := aliased.Expr.(*sqlparser.ColName)
		if !ok {
			return nil, &UnsupportedExpressionError{Node: sqlparser.String(aliased.Expr)}
		}
		columns = append(columns, col.Name.String())
	}

	return columns, nil
}

func parseUpdate(stmt *sqlparser.Update) (*Update, error) {
	table, err := singleTableName(stmt.TableExprs, KindUpdate)
	if err != nil {
		return nil, err
	}

	if len(stmt.Exprs) == 0 {
		return nil, &MalformedStatementError{Kind: KindUpdate, Reason: "missing SET clause"}
	}

	setValues := make([]Assignment, 0, len(stmt.Exprs))
	for _, expr := range stmt.Exprs {
		value, err := literalValue(expr.Expr, true)
		if err != nil {
			return nil, err
		}
		setValues = append(setValues, Assignment{
			Property: expr.Name.Name.String(),
			Value:    value,
		})
	}

	var where []Condition
	if stmt.Where != nil {
		where, err = compileWhere(stmt.Where.Expr)
		if err != nil {
			return nil, err
		}
	}

	return &Update{Table: table, SetValues: setValues, Where: where}, nil
}

func parseDelete(stmt *sqlparser.Delete) (*Delete, error) {
	table, err := singleTableName(stmt.TableExprs, KindDelete)
	if err != nil {
		return nil, err
	}

	var rawWhere string
	if stmt.Where != nil {
		// Validate the clause eagerly, but keep the SQL text: deletes
		// are compiled lazily through the SELECT path.
		if _, err := compileWhere(stmt.Where.Expr); err != nil {
			return nil, err
		}
		rawWhere = sqlparser.String(stmt.Where.Expr)
	}

	return &Delete{Table: table, RawWhere: rawWhere}, nil
}

func parseCreate(stmt *sqlparser.CreateTable) (*Create, error) {
	if len(stmt.Columns) == 0 {
		return nil, &MalformedStatementError{Kind: KindCreate, Reason: "missing column definitions"}
	}

	columns := make([]ColumnDef, 0, len(stmt.Columns))
	for _, col := range stmt.Columns {
		typ, err := columnType(col.Type)
		if err != nil {
			return nil, err
		}
		columns = append(columns, ColumnDef{Name: col.Name, Type: typ})
	}

	return &Create{Table: stmt.NewName.Name.String(), Columns: columns}, nil
}

// columnType maps a declared type token to the closed column-type
// vocabulary. Length suffixes such as VARCHAR(255) are ignored;
// unrecognized tokens are a hard error.
func columnType(token string) (ColumnType, error) {
	if i := strings.IndexByte(token, '('); i >= 0 {
		token = token[:i]
	}
	switch strings.ToUpper(strings.TrimSpace(token)) {
	case "INT", "INTEGER":
		return TypeInt, nil
	case "VARCHAR":
		return TypeVarchar, nil
	case "TEXT", "TITLE":
		// Every table needs exactly one title property; TEXT declares
		// it, since "title" is not a type token the SQL grammar knows.
		return TypeTitle, nil
	default:
		return "", &MalformedStatementError{
			Kind:   KindCreate,
			Reason: "unsupported column type " + strconv.Quote(token),
		}
	}
}

// singleTableName extracts the table identifier from a one-element
// FROM/target list. Joins and derived tables are unsupported.
func singleTableName(exprs sqlparser.TableExprs, kind Kind) (string, error) {
	if len(exprs) != 1 {
		return "", &MalformedStatementError{Kind: kind, Reason: "exactly one target table is required"}
	}

	aliased, ok := exprs[0].(*sqlparser.AliasedTableExpr)
	if !ok {
		return "", &UnsupportedExpressionError{Node: sqlparser.String(exprs[0])}
	}

	table, ok := aliased.Expr.(sqlparser.TableName)
	if !ok {
		return "", &UnsupportedExpressionError{Node: sqlparser.String(aliased.Expr)}
	}

	return table.Name.String(), nil
}

// literalValue extracts a Go value from a literal expression node.
// Integer-shaped content coerces to int64; when allowFloat is set,
// decimal-shaped content additionally coerces to float64; everything
// else stays a string. The coercion inspects the literal's content
// whether or not it was quoted: callers needing string-typed numeric
// identifiers must keep them non-numeric upstream.
func literalValue(expr sqlparser.Expr, allowFloat bool) (interface{}, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return nil, &UnsupportedExpressionError{Node: sqlparser.String(expr)}
	}
	return coerceLiteral(string(val.Val), allowFloat), nil
}

// conditionValue applies the condition literal typing rule: integer
// pattern coerces to int64, everything else stays a string.
func conditionValue(val *sqlparser.SQLVal) interface{} {
	return coerceLiteral(string(val.Val), false)
}

func coerceLiteral(content string, allowFloat bool) interface{} {
	if isDigits(content) {
		n, err := strconv.ParseInt(content, 10, 64)
		if err == nil {
			return n
		}
	}
	if allowFloat && isDecimal(content) {
		f, err := strconv.ParseFloat(content, 64)
		if err == nil {
			return f
		}
	}
	return content
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// isDecimal reports whether s is all digits once a single decimal
// point is removed.
func isDecimal(s string) bool {
	return isDigits(strings.Replace(s, ".", "", 1))
}
