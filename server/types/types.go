// Package types holds request and response DTOs for the HTTP surface.
package types

import "github.com/notionsql/notionsql/pkg/engine"

// SubmitStatementRequest is the body of POST /api/v1/statements.
type SubmitStatementRequest struct {
	Statement string        `json:"statement"`
	Args      []interface{} `json:"args,omitempty"`
}

// StatementResponse is the success body of a submitted statement.
type StatementResponse struct {
	Success         bool           `json:"success"`
	StatementHandle string         `json:"statementHandle"`
	Result          *engine.Result `json:"result"`
}

// TablesResponse is the body of GET /api/v1/tables.
type TablesResponse struct {
	Success bool     `json:"success"`
	Tables  []string `json:"tables"`
}
