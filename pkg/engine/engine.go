// Package engine executes SQL statements against the remote document
// service: parse, translate, call, project.
package engine

import (
	"context"
	"fmt"
	"sort"

	"github.com/notionsql/notionsql/pkg/config"
	"github.com/notionsql/notionsql/pkg/notion"
	"github.com/notionsql/notionsql/pkg/schema"
	"github.com/notionsql/notionsql/pkg/statement"
	"github.com/notionsql/notionsql/pkg/translate"
)

// API is the remote-service surface the engine depends on. The
// concrete *notion.Client satisfies it; tests substitute stubs.
type API interface {
	SearchDatabases(ctx context.Context, req notion.SearchRequest) (*notion.SearchResponse, error)
	Database(ctx context.Context, databaseID string) (*notion.Database, error)
	CreateDatabase(ctx context.Context, payload interface{}) (*notion.Database, error)
	QueryDatabase(ctx context.Context, databaseID string, payload interface{}) (*notion.QueryResponse, error)
	CreatePage(ctx context.Context, payload interface{}) (*notion.Page, error)
	UpdatePage(ctx context.Context, pageID string, payload interface{}) (*notion.Page, error)
}

// Engine turns SQL statements into remote calls. It is synchronous and
// request-per-call; update and delete perform an internal read followed
// by sequential writes with no atomicity across the batch.
type Engine struct {
	api        API
	resolver   *schema.Resolver
	parentPage string
	pageSize   int
}

// Result is the outcome of one executed statement. Rows is set for
// SELECT; PageIDs for INSERT; Affected for UPDATE and DELETE; TableID
// for CREATE.
type Result struct {
	Kind     statement.Kind       `json:"kind"`
	Rows     *translate.ResultSet `json:"rows,omitempty"`
	PageIDs  []string             `json:"page_ids,omitempty"`
	Affected int                  `json:"affected,omitempty"`
	TableID  string               `json:"table_id,omitempty"`
}

// New creates an engine on top of an existing API client.
func New(api API, cfg config.Config) *Engine {
	cfg = cfg.WithDefaults()
	return &Engine{
		api:        api,
		resolver:   schema.NewResolver(api),
		parentPage: cfg.ParentPage,
		pageSize:   cfg.PageSize,
	}
}

// NewFromConfig creates an engine with its own HTTP client.
func NewFromConfig(cfg config.Config) *Engine {
	return New(notion.NewClient(cfg), cfg)
}

// Resolver exposes the schema cache so callers can invalidate it when
// schema drift is suspected.
func (e *Engine) Resolver() *schema.Resolver { return e.resolver }

// Execute runs one SQL statement. Optional args are bound into %s
// placeholders, each substituted as a quoted literal, before parsing.
func (e *Engine) Execute(ctx context.Context, sql string, args ...interface{}) (*Result, error) {
	if len(args) > 0 {
		bound, err := bindPlaceholders(sql, args)
		if err != nil {
			return nil, err
		}
		sql = bound
	}

	stmt, err := statement.Parse(sql)
	if err != nil {
		return nil, err
	}

	switch s := stmt.(type) {
	case *statement.Insert:
		return e.insert(ctx, s)
	case *statement.Select:
		return e.query(ctx, s)
	case *statement.Update:
		return e.update(ctx, s)
	case *statement.Delete:
		return e.delete(ctx, s)
	case *statement.Create:
		return e.create(ctx, s)
	default:
		return nil, &statement.UnsupportedStatementError{Detail: sql}
	}
}

// ExecuteMany runs one INSERT per argument row, sequentially and
// independently. There is no cross-row transaction: a failure on row k
// aborts the remaining rows, and rows already written stay written.
func (e *Engine) ExecuteMany(ctx context.Context, sql string, rows [][]interface{}) ([]*Result, error) {
	results := make([]*Result, 0, len(rows))
	for i, args := range rows {
		result, err := e.Execute(ctx, sql, args...)
		if err != nil {
			return results, fmt.Errorf("row %d: %w", i, err)
		}
		results = append(results, result)
	}
	return results, nil
}

// Tables lists the remote table names, sorted for stable output.
func (e *Engine) Tables(ctx context.Context) ([]string, error) {
	names, err := e.resolver.TableNames(ctx)
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

func (e *Engine) insert(ctx context.Context, stmt *statement.Insert) (*Result, error) {
	databaseID, header, err := e.resolveTable(ctx, stmt.Table)
	if err != nil {
		return nil, err
	}

	payload, err := translate.BuildPagePayload(stmt, databaseID, header)
	if err != nil {
		return nil, err
	}

	page, err := e.api.CreatePage(ctx, payload)
	if err != nil {
		return nil, err
	}

	return &Result{Kind: statement.KindInsert, PageIDs: []string{page.ID}}, nil
}

func (e *Engine) query(ctx context.Context, stmt *statement.Select) (*Result, error) {
	databaseID, header, err := e.resolveTable(ctx, stmt.Table)
	if err != nil {
		return nil, err
	}

	// SELECT * projects the full schema in header order.
	names := stmt.Columns
	if names == nil {
		names, err = e.resolver.HeaderNames(ctx, stmt.Table)
		if err != nil {
			return nil, err
		}
	}

	payload, err := translate.BuildQueryPayload(stmt.Conditions, header, e.pageSize)
	if err != nil {
		return nil, err
	}

	resp, err := e.api.QueryDatabase(ctx, databaseID, payload)
	if err != nil {
		return nil, err
	}

	return &Result{Kind: statement.KindSelect, Rows: translate.Project(resp, names)}, nil
}

// update finds every matching record with an internal SELECT over the
// same table and WHERE, then issues one patch per record id.
func (e *Engine) update(ctx context.Context, stmt *statement.Update) (*Result, error) {
	_, header, err := e.resolveTable(ctx, stmt.Table)
	if err != nil {
		return nil, err
	}

	payload, err := translate.BuildUpdatePayload(stmt.SetValues, header)
	if err != nil {
		return nil, err
	}

	matches, err := e.query(ctx, &statement.Select{Table: stmt.Table, Conditions: stmt.Where})
	if err != nil {
		return nil, err
	}

	affected := 0
	for _, row := range matches.Rows.Data {
		pageID, ok := row["id"].(string)
		if !ok {
			continue
		}
		if _, err := e.api.UpdatePage(ctx, pageID, payload); err != nil {
			return nil, err
		}
		affected++
	}

	return &Result{Kind: statement.KindUpdate, Affected: affected}, nil
}

// delete reuses the SELECT path on the statement's raw WHERE text,
// then soft-deletes each matching record. Records are never hard
// deleted.
func (e *Engine) delete(ctx context.Context, stmt *statement.Delete) (*Result, error) {
	selectSQL := "SELECT * FROM " + stmt.Table
	if stmt.RawWhere != "" {
		selectSQL += " WHERE " + stmt.RawWhere
	}

	parsed, err := statement.Parse(selectSQL)
	if err != nil {
		return nil, err
	}
	sel, ok := parsed.(*statement.Select)
	if !ok {
		return nil, &statement.MalformedStatementError{Kind: statement.KindDelete, Reason: "where clause did not compile"}
	}

	matches, err := e.query(ctx, sel)
	if err != nil {
		return nil, err
	}

	affected := 0
	for _, row := range matches.Rows.Data {
		pageID, ok := row["id"].(string)
		if !ok {
			continue
		}
		if _, err := e.api.UpdatePage(ctx, pageID, &translate.TrashPayload{InTrash: true}); err != nil {
			return nil, err
		}
		affected++
	}

	return &Result{Kind: statement.KindDelete, Affected: affected}, nil
}

func (e *Engine) create(ctx context.Context, stmt *statement.Create) (*Result, error) {
	payload, err := translate.BuildDatabasePayload(stmt, e.parentPage)
	if err != nil {
		return nil, err
	}

	db, err := e.api.CreateDatabase(ctx, payload)
	if err != nil {
		return nil, err
	}

	// The table-name cache predates the new table.
	e.resolver.Reset()

	return &Result{Kind: statement.KindCreate, TableID: db.ID}, nil
}

func (e *Engine) resolveTable(ctx context.Context, table string) (string, map[string]schema.PropertyMeta, error) {
	databaseID, err := e.resolver.TableID(ctx, table)
	if err != nil {
		return "", nil, err
	}
	header, err := e.resolver.HeaderInfo(ctx, table)
	if err != nil {
		return "", nil, err
	}
	return databaseID, header, nil
}
