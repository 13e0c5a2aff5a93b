// Package statement parses the supported SQL subset into normalized
// intermediate statements.
package statement

// Kind identifies the syntactic kind of a SQL statement.
type Kind string

// Statement kinds.
const (
	KindInsert  Kind = "insert"
	KindSelect  Kind = "select"
	KindUpdate  Kind = "update"
	KindDelete  Kind = "delete"
	KindCreate  Kind = "create"
	KindUnknown Kind = "unknown"
)

// Statement is the normalized form of one parsed SQL statement. It is
// immutable after Parse returns.
type Statement interface {
	// Kind reports the statement kind.
	Kind() Kind

	// TableName reports the target table.
	TableName() string
}

// Assignment is one property/value pair from an INSERT column list or
// an UPDATE SET clause. Value is int64, float64 or string depending on
// the literal's shape.
type Assignment struct {
	Property string
	Value    interface{}
}

// Condition is one normalized WHERE predicate.
type Condition struct {
	// Parameter is the left-hand identifier, trimmed.
	Parameter string

	// Operator is the normalized comparison operator (OpEQ, OpGT, ...).
	// Operators outside the supported set pass through verbatim and are
	// rejected later, when a remote filter is built from them.
	Operator string

	// Value is int64 when the literal's content is all digits,
	// otherwise the string content.
	Value interface{}
}

// Normalized comparison operators.
const (
	OpEQ   = "EQ"
	OpGT   = "GT"
	OpLT   = "LT"
	OpLE   = "LE"
	OpGE   = "GE"
	OpLike = "LIKE"
)

// ColumnType is a declared column type in a CREATE TABLE statement.
type ColumnType string

// The closed vocabulary of column types.
const (
	TypeInt     ColumnType = "INT"
	TypeVarchar ColumnType = "VARCHAR"
	TypeTitle   ColumnType = "TITLE"
)

// ColumnDef is one column declaration from a CREATE TABLE statement.
type ColumnDef struct {
	Name string
	Type ColumnType
}

// Insert is a parsed INSERT statement. Data pairs each property with
// its value in source order; the two lists are guaranteed to have had
// equal length.
type Insert struct {
	Table string
	Data  []Assignment
}

// Kind implements Statement.
func (s *Insert) Kind() Kind { return KindInsert }

// TableName implements Statement.
func (s *Insert) TableName() string { return s.Table }

// Select is a parsed SELECT statement. Columns is nil for SELECT *,
// meaning every property of the table's schema.
type Select struct {
	Table      string
	Columns    []string
	Conditions []Condition
}

// Kind implements Statement.
func (s *Select) Kind() Kind { return KindSelect }

// TableName implements Statement.
func (s *Select) TableName() string { return s.Table }

// Update is a parsed UPDATE statement.
type Update struct {
	Table     string
	SetValues []Assignment
	Where     []Condition
}

// Kind implements Statement.
func (s *Update) Kind() Kind { return KindUpdate }

// TableName implements Statement.
func (s *Update) TableName() string { return s.Table }

// Delete is a parsed DELETE statement. RawWhere carries the WHERE
// expression as SQL text; it is compiled later through the SELECT
// path, since deletes are implemented as select-then-trash.
type Delete struct {
	Table    string
	RawWhere string
}

// Kind implements Statement.
func (s *Delete) Kind() Kind { return KindDelete }

// TableName implements Statement.
func (s *Delete) TableName() string { return s.Table }

// Create is a parsed CREATE TABLE statement.
type Create struct {
	Table   string
	Columns []ColumnDef
}

// Kind implements Statement.
func (s *Create) Kind() Kind { return KindCreate }

// TableName implements Statement.
func (s *Create) TableName() string { return s.Table }
