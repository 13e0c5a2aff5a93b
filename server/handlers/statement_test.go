package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/notionsql/notionsql/pkg/config"
	"github.com/notionsql/notionsql/pkg/engine"
	"github.com/notionsql/notionsql/pkg/notion"
	"github.com/notionsql/notionsql/server/apierror"
	"github.com/notionsql/notionsql/server/types"
)

// stubAPI serves a single table named "officials".
type stubAPI struct{}

const officialsDoc = `{
	"id": "db-officials",
	"title": [{"plain_text": "officials"}],
	"properties": {
		"name": {"id": "p1", "type": "title"},
		"col1": {"id": "p2", "type": "number"}
	}
}`

func (s *stubAPI) SearchDatabases(_ context.Context, _ notion.SearchRequest) (*notion.SearchResponse, error) {
	var db notion.Database
	if err := json.Unmarshal([]byte(officialsDoc), &db); err != nil {
		return nil, err
	}
	return &notion.SearchResponse{Results: []notion.Database{db}}, nil
}

func (s *stubAPI) Database(_ context.Context, _ string) (*notion.Database, error) {
	var db notion.Database
	if err := json.Unmarshal([]byte(officialsDoc), &db); err != nil {
		return nil, err
	}
	return &db, nil
}

func (s *stubAPI) CreateDatabase(_ context.Context, _ interface{}) (*notion.Database, error) {
	return &notion.Database{ID: "db-new"}, nil
}

func (s *stubAPI) QueryDatabase(_ context.Context, _ string, _ interface{}) (*notion.QueryResponse, error) {
	return &notion.QueryResponse{}, nil
}

func (s *stubAPI) CreatePage(_ context.Context, _ interface{}) (*notion.Page, error) {
	return &notion.Page{ID: "page-1"}, nil
}

func (s *stubAPI) UpdatePage(_ context.Context, pageID string, _ interface{}) (*notion.Page, error) {
	return &notion.Page{ID: pageID}, nil
}

func newTestHandler() *StatementHandler {
	eng := engine.New(&stubAPI{}, config.Config{Token: "t", ParentPage: "parent-1"})
	return NewStatementHandler(eng)
}

func submit(t *testing.T, h *StatementHandler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/statements", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.SubmitStatement(rec, req)
	return rec
}

func TestSubmitStatement_Success(t *testing.T) {
	h := newTestHandler()

	rec := submit(t, h, `{"statement": "INSERT INTO officials (name) VALUES ('Pam')"}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var resp types.StatementResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success {
		t.Errorf("Success = false, want true")
	}
	if resp.StatementHandle == "" {
		t.Errorf("StatementHandle is empty")
	}
	if resp.Result == nil || len(resp.Result.PageIDs) != 1 {
		t.Errorf("Result = %+v, want one page id", resp.Result)
	}
}

func TestSubmitStatement_WithArgs(t *testing.T) {
	h := newTestHandler()

	rec := submit(t, h, `{"statement": "INSERT INTO officials (name) VALUES (%s)", "args": ["Pam"]}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d, body %s", rec.Code, http.StatusOK, rec.Body.String())
	}
}

func TestSubmitStatement_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantClass  string
	}{
		{
			name:       "invalid json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantClass:  apierror.ClassParse,
		},
		{
			name:       "missing statement",
			body:       `{"args": []}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  apierror.ClassParse,
		},
		{
			name:       "unsupported statement",
			body:       `{"statement": "DROP TABLE officials"}`,
			wantStatus: http.StatusBadRequest,
			wantClass:  apierror.ClassParse,
		},
		{
			name:       "unknown table",
			body:       `{"statement": "SELECT * FROM ghosts"}`,
			wantStatus: http.StatusNotFound,
			wantClass:  apierror.ClassSchema,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			rec := submit(t, h, tt.body)

			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d, body %s", rec.Code, tt.wantStatus, rec.Body.String())
			}

			var resp apierror.ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal error response: %v", err)
			}
			if resp.Success {
				t.Errorf("Success = true, want false")
			}
			if resp.Error == nil || resp.Error.Class != tt.wantClass {
				t.Errorf("Error = %+v, want class %q", resp.Error, tt.wantClass)
			}
		})
	}
}

func TestListTables(t *testing.T) {
	h := newTestHandler()

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables", nil)
	rec := httptest.NewRecorder()
	h.ListTables(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var resp types.TablesResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if !resp.Success || fmt.Sprint(resp.Tables) != "[officials]" {
		t.Errorf("response = %+v, want tables [officials]", resp)
	}
}

func TestInvalidateSchema(t *testing.T) {
	tests := []struct {
		name   string
		target string
	}{
		{name: "one table", target: "/api/v1/schema/invalidate?table=officials"},
		{name: "whole cache", target: "/api/v1/schema/invalidate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHandler()
			req := httptest.NewRequest(http.MethodPost, tt.target, nil)
			rec := httptest.NewRecorder()
			h.InvalidateSchema(rec, req)

			if rec.Code != http.StatusOK {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
			}

			var resp map[string]bool
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if !resp["success"] {
				t.Errorf("success = false, want true")
			}
		})
	}
}
