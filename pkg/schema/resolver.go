// Package schema resolves remote table and property metadata, caching
// it per resolver instance.
package schema

import (
	"context"
	"fmt"
	"sync"

	"github.com/notionsql/notionsql/pkg/notion"
)

// listPageSize is the page size used when listing remote databases.
const listPageSize = 100

// API is the slice of the remote client the resolver depends on. It
// is the seam across which the core reaches the document service and
// is substituted in tests.
type API interface {
	SearchDatabases(ctx context.Context, req notion.SearchRequest) (*notion.SearchResponse, error)
	Database(ctx context.Context, databaseID string) (*notion.Database, error)
}

// PropertyMeta is the remote metadata of one property: its opaque id
// and its remote type name (number, rich_text, title, url, ...).
type PropertyMeta struct {
	ID   string
	Type string
}

// UnknownTableError reports a table name absent from the remote
// database listing.
type UnknownTableError struct {
	Table string
}

func (e *UnknownTableError) Error() string {
	return fmt.Sprintf("unknown table %q", e.Table)
}

// Resolver fetches and caches schema metadata. Caches are populated
// lazily, live for the lifetime of the resolver, and are refreshed
// only when a caller asks for it via Invalidate or Reset. Racing
// fills are last-writer-wins; the values are idempotent to recompute.
type Resolver struct {
	api API

	mu       sync.Mutex
	tableIDs map[string]string           // table name -> database id
	headers  map[string]*notion.Database // table name -> schema document
}

// NewResolver creates a resolver backed by api.
func NewResolver(api API) *Resolver {
	return &Resolver{
		api:      api,
		tableIDs: make(map[string]string),
		headers:  make(map[string]*notion.Database),
	}
}

// TableID resolves a table name to its remote database id, listing all
// remote databases once and memoizing the name-to-id map.
func (r *Resolver) TableID(ctx context.Context, table string) (string, error) {
	r.mu.Lock()
	id, ok := r.tableIDs[table]
	populated := len(r.tableIDs) > 0
	r.mu.Unlock()
	if ok {
		return id, nil
	}
	if populated {
		return "", &UnknownTableError{Table: table}
	}

	ids, err := r.listTables(ctx)
	if err != nil {
		return "", err
	}

	r.mu.Lock()
	r.tableIDs = ids
	id, ok = r.tableIDs[table]
	r.mu.Unlock()

	if !ok {
		return "", &UnknownTableError{Table: table}
	}
	return id, nil
}

// TableNames lists the remote table names, following the listing
// cursor to the end.
func (r *Resolver) TableNames(ctx context.Context) ([]string, error) {
	r.mu.Lock()
	if len(r.tableIDs) > 0 {
		names := make([]string, 0, len(r.tableIDs))
		for name := range r.tableIDs {
			names = append(names, name)
		}
		r.mu.Unlock()
		return names, nil
	}
	r.mu.Unlock()

	ids, err := r.listTables(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.tableIDs = ids
	r.mu.Unlock()

	names := make([]string, 0, len(ids))
	for name := range ids {
		names = append(names, name)
	}
	return names, nil
}

// listTables walks every page of the remote database listing.
func (r *Resolver) listTables(ctx context.Context) (map[string]string, error) {
	ids := make(map[string]string)
	cursor := ""

	for {
		req := notion.SearchRequest{
			Filter:      notion.SearchFilter{Value: "database", Property: "object"},
			PageSize:    listPageSize,
			StartCursor: cursor,
		}

		resp, err := r.api.SearchDatabases(ctx, req)
		if err != nil {
			return nil, err
		}

		for i := range resp.Results {
			db := &resp.Results[i]
			if title := db.TitleText(); title != "" {
				ids[title] = db.ID
			}
		}

		if !resp.HasMore || resp.NextCursor == nil {
			return ids, nil
		}
		cursor = *resp.NextCursor
	}
}

// header fetches and caches the schema document for table.
func (r *Resolver) header(ctx context.Context, table string) (*notion.Database, error) {
	r.mu.Lock()
	db, ok := r.headers[table]
	r.mu.Unlock()
	if ok {
		return db, nil
	}

	id, err := r.TableID(ctx, table)
	if err != nil {
		return nil, err
	}

	db, err = r.api.Database(ctx, id)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	r.headers[table] = db
	r.mu.Unlock()
	return db, nil
}

// HeaderInfo returns the property name to metadata mapping for table.
func (r *Resolver) HeaderInfo(ctx context.Context, table string) (map[string]PropertyMeta, error) {
	db, err := r.header(ctx, table)
	if err != nil {
		return nil, err
	}

	info := make(map[string]PropertyMeta, db.Properties.Len())
	for _, name := range db.Properties.Names() {
		prop, _ := db.Properties.Get(name)
		info[name] = PropertyMeta{ID: prop.ID, Type: prop.Type}
	}
	return info, nil
}

// HeaderNames returns the property names of table in schema order. It
// is used to expand SELECT * projections.
func (r *Resolver) HeaderNames(ctx context.Context, table string) ([]string, error) {
	db, err := r.header(ctx, table)
	if err != nil {
		return nil, err
	}
	return db.Properties.Names(), nil
}

// Invalidate drops the cached metadata for one table. The table-id map
// is dropped with it so a renamed or recreated table resolves again.
func (r *Resolver) Invalidate(table string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.headers, table)
	r.tableIDs = make(map[string]string)
}

// Reset drops every cached entry.
func (r *Resolver) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.headers = make(map[string]*notion.Database)
	r.tableIDs = make(map[string]string)
}
