// Package handlers implements the HTTP handlers of the SQL gateway.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/notionsql/notionsql/pkg/engine"
	"github.com/notionsql/notionsql/server/apierror"
	"github.com/notionsql/notionsql/server/types"
)

// StatementHandler executes submitted SQL statements.
type StatementHandler struct {
	engine *engine.Engine
}

// NewStatementHandler creates a statement handler.
func NewStatementHandler(eng *engine.Engine) *StatementHandler {
	return &StatementHandler{engine: eng}
}

// SubmitStatement handles POST /api/v1/statements.
func (h *StatementHandler) SubmitStatement(w http.ResponseWriter, r *http.Request) {
	var req types.SubmitStatementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.sendError(w, &apierror.GatewayError{
			Status:  http.StatusBadRequest,
			Class:   apierror.ClassParse,
			Message: "invalid request body",
		})
		return
	}

	if req.Statement == "" {
		h.sendError(w, &apierror.GatewayError{
			Status:  http.StatusBadRequest,
			Class:   apierror.ClassParse,
			Message: "statement is required",
		})
		return
	}

	result, err := h.engine.Execute(r.Context(), req.Statement, req.Args...)
	if err != nil {
		h.sendError(w, apierror.FromError(err))
		return
	}

	resp := types.StatementResponse{
		Success:         true,
		StatementHandle: uuid.NewString(),
		Result:          result,
	}
	writeJSON(w, http.StatusOK, resp)
}

// ListTables handles GET /api/v1/tables.
func (h *StatementHandler) ListTables(w http.ResponseWriter, r *http.Request) {
	tables, err := h.engine.Tables(r.Context())
	if err != nil {
		h.sendError(w, apierror.FromError(err))
		return
	}

	writeJSON(w, http.StatusOK, types.TablesResponse{Success: true, Tables: tables})
}

// InvalidateSchema handles POST /api/v1/schema/invalidate. With a
// table query parameter one table is refreshed; without it the whole
// cache is dropped.
func (h *StatementHandler) InvalidateSchema(w http.ResponseWriter, r *http.Request) {
	table := r.URL.Query().Get("table")
	if table == "" {
		h.engine.Resolver().Reset()
	} else {
		h.engine.Resolver().Invalidate(table)
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *StatementHandler) sendError(w http.ResponseWriter, gwErr *apierror.GatewayError) {
	writeJSON(w, gwErr.Status, gwErr.ToResponse())
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
