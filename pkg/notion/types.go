// Package notion is the HTTP collaborator for the remote document
// service. It owns the wire types, the request helper, and the typed
// remote error.
package notion

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// RichText is one text run inside a title or rich_text property.
type RichText struct {
	Type      string    `json:"type,omitempty"`
	Text      *TextData `json:"text,omitempty"`
	PlainText string    `json:"plain_text,omitempty"`
}

// TextData is the content node of a text run.
type TextData struct {
	Content string `json:"content"`
}

// Property describes one schema property of a remote database.
type Property struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Name string `json:"name"`
}

// PropertyMap is a name-keyed property collection that preserves the
// key order of the JSON document it was decoded from. Projection of
// SELECT * depends on that order staying stable.
type PropertyMap struct {
	names   []string
	entries map[string]Property
}

// UnmarshalJSON decodes the map while recording key order.
func (m *PropertyMap) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	m.names = nil
	m.entries = make(map[string]Property)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("properties: expected string key, got %v", keyTok)
		}

		var prop Property
		if err := dec.Decode(&prop); err != nil {
			return err
		}

		m.names = append(m.names, key)
		m.entries[key] = prop
	}

	// Consume the closing brace.
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// Names returns the property names in document order.
func (m *PropertyMap) Names() []string {
	names := make([]string, len(m.names))
	copy(names, m.names)
	return names
}

// Get returns the property for name.
func (m *PropertyMap) Get(name string) (Property, bool) {
	prop, ok := m.entries[name]
	return prop, ok
}

// Len returns the number of properties.
func (m *PropertyMap) Len() int { return len(m.names) }

// Database is the schema document of one remote table.
type Database struct {
	ID             string      `json:"id"`
	CreatedTime    string      `json:"created_time"`
	LastEditedTime string      `json:"last_edited_time"`
	Title          []RichText  `json:"title"`
	Description    []RichText  `json:"description"`
	Properties     PropertyMap `json:"properties"`
}

// TitleText returns the plain text of the database title, or "" when
// the title has no runs.
func (d *Database) TitleText() string {
	if len(d.Title) == 0 {
		return ""
	}
	return d.Title[0].PlainText
}

// SearchRequest is the body of a database listing call.
type SearchRequest struct {
	Filter      SearchFilter `json:"filter"`
	PageSize    int          `json:"page_size"`
	StartCursor string       `json:"start_cursor,omitempty"`
}

// SearchFilter restricts a search to one object type.
type SearchFilter struct {
	Value    string `json:"value"`
	Property string `json:"property"`
}

// SearchResponse is one page of a database listing.
type SearchResponse struct {
	Results    []Database `json:"results"`
	HasMore    bool       `json:"has_more"`
	NextCursor *string    `json:"next_cursor"`
}

// PropertyValue is one typed value on a result page. Exactly one of
// the type-specific fields is populated, named by Type.
type PropertyValue struct {
	ID       string     `json:"id,omitempty"`
	Type     string     `json:"type"`
	Title    []RichText `json:"title,omitempty"`
	RichText []RichText `json:"rich_text,omitempty"`
	Number   *float64   `json:"number,omitempty"`
	URL      *string    `json:"url,omitempty"`
}

// PlainText returns the first text run's plain content for title and
// rich_text values, or "" when there is none.
func (v *PropertyValue) PlainText() string {
	runs := v.Title
	if v.Type == "rich_text" {
		runs = v.RichText
	}
	if len(runs) == 0 {
		return ""
	}
	return runs[0].PlainText
}

// Page is one record within a remote table.
type Page struct {
	ID             string                   `json:"id"`
	CreatedTime    string                   `json:"created_time"`
	LastEditedTime string                   `json:"last_edited_time"`
	Properties     map[string]PropertyValue `json:"properties"`
}

// QueryResponse is one cursor-delimited page of query results.
type QueryResponse struct {
	Results    []Page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}
