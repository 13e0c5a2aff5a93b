// Package translate compiles intermediate statements plus resolved
// schema metadata into the request payloads the remote document
// service expects, and projects result pages back into flat rows.
package translate

import (
	"fmt"
	"log"
	"strconv"

	"github.com/notionsql/notionsql/pkg/config"
	"github.com/notionsql/notionsql/pkg/notion"
	"github.com/notionsql/notionsql/pkg/schema"
	"github.com/notionsql/notionsql/pkg/statement"
)

// Remote property type names appearing in schema metadata.
const (
	propertyNumber   = "number"
	propertyTitle    = "title"
	propertyRichText = "rich_text"
	propertyURL      = "url"
)

// conditionMapping translates normalized comparison operators to the
// remote filter operator vocabulary. An operator outside this table is
// a hard error at request-build time.
var conditionMapping = map[string]string{
	statement.OpEQ: "equals",
	statement.OpGT: "greater_than",
	statement.OpLT: "less_than",
	statement.OpLE: "less_than_or_equal_to",
	statement.OpGE: "greater_than_or_equal_to",
}

// Parent addresses the container a new page or database is created in.
type Parent struct {
	DatabaseID string `json:"database_id,omitempty"`
	PageID     string `json:"page_id,omitempty"`
}

// PagePayload is a create-record or update-record body. Parent is nil
// for updates.
type PagePayload struct {
	Parent     *Parent                `json:"parent,omitempty"`
	Properties map[string]interface{} `json:"properties"`
}

// QueryPayload is a query-database body: a page size plus a flat
// conjunction of filters.
type QueryPayload struct {
	PageSize int         `json:"page_size"`
	Filter   Conjunction `json:"filter"`
}

// Conjunction is the remote filter tree restricted to one "and" list.
type Conjunction struct {
	And []map[string]interface{} `json:"and"`
}

// TrashPayload marks a record as removed. Deletes are always soft.
type TrashPayload struct {
	InTrash bool `json:"in_trash"`
}

// DatabasePayload is a create-database body.
type DatabasePayload struct {
	Parent     Parent                 `json:"parent"`
	Title      []notion.RichText      `json:"title"`
	Properties map[string]interface{} `json:"properties"`
}

// BuildPagePayload compiles an INSERT into a create-record body. Every
// property's remote type is resolved through the header; properties of
// an unsupported remote type are logged and dropped from the payload
// rather than failing the insert.
func BuildPagePayload(stmt *statement.Insert, databaseID string, header map[string]schema.PropertyMeta) (*PagePayload, error) {
	properties, err := propertyNodes(stmt.Data, header)
	if err != nil {
		return nil, err
	}
	return &PagePayload{
		Parent:     &Parent{DatabaseID: databaseID},
		Properties: properties,
	}, nil
}

// BuildUpdatePayload compiles UPDATE set-values into an update-record
// body. It is the create-record builder minus the parent key.
func BuildUpdatePayload(setValues []statement.Assignment, header map[string]schema.PropertyMeta) (*PagePayload, error) {
	properties, err := propertyNodes(setValues, header)
	if err != nil {
		return nil, err
	}
	return &PagePayload{Properties: properties}, nil
}

// propertyNodes builds the type-tagged value node for each assignment.
func propertyNodes(data []statement.Assignment, header map[string]schema.PropertyMeta) (map[string]interface{}, error) {
	properties := make(map[string]interface{}, len(data))

	for _, item := range data {
		meta, ok := header[item.Property]
		if !ok {
			return nil, &UnknownPropertyError{Property: item.Property}
		}

		switch meta.Type {
		case propertyNumber:
			n, err := numericValue(item.Value)
			if err != nil {
				return nil, &TranslationError{
					Reason: fmt.Sprintf("property %q: %v", item.Property, err),
				}
			}
			properties[item.Property] = map[string]interface{}{propertyNumber: n}
		case propertyTitle, propertyRichText:
			properties[item.Property] = map[string]interface{}{
				meta.Type: []notion.RichText{textRun(stringValue(item.Value))},
			}
		case propertyURL:
			properties[item.Property] = map[string]interface{}{
				propertyURL: stringValue(item.Value),
			}
		default:
			log.Printf("unsupported property type %q for %q, dropping from payload", meta.Type, item.Property)
		}
	}

	return properties, nil
}

// BuildQueryPayload compiles a SELECT's conditions into a query body.
// The reserved page_size pseudo-condition controls pagination and is
// never forwarded as a filter; when absent the default page size is
// requested.
func BuildQueryPayload(conditions []statement.Condition, header map[string]schema.PropertyMeta, defaultPageSize int) (*QueryPayload, error) {
	payload := &QueryPayload{
		PageSize: defaultPageSize,
		Filter:   Conjunction{And: []map[string]interface{}{}},
	}

	for _, cond := range conditions {
		if cond.Parameter == config.PageSizeParameter {
			size, ok := cond.Value.(int64)
			if !ok {
				return nil, &TranslationError{Reason: "page_size must be an integer"}
			}
			payload.PageSize = int(size)
			continue
		}

		filter, err := conditionFilter(cond, header)
		if err != nil {
			return nil, err
		}
		payload.Filter.And = append(payload.Filter.And, filter)
	}

	return payload, nil
}

// conditionFilter builds one filter entry. LIKE becomes a text-contains
// filter; every other operator becomes a type-keyed comparison filter.
func conditionFilter(cond statement.Condition, header map[string]schema.PropertyMeta) (map[string]interface{}, error) {
	if cond.Operator == statement.OpLike {
		return map[string]interface{}{
			"property":    cond.Parameter,
			propertyTitle: map[string]interface{}{"contains": cond.Value},
		}, nil
	}

	meta, ok := header[cond.Parameter]
	if !ok {
		return nil, &UnknownPropertyError{Property: cond.Parameter}
	}

	operator, ok := conditionMapping[cond.Operator]
	if !ok {
		return nil, &UnsupportedOperatorError{Operator: cond.Operator}
	}

	return map[string]interface{}{
		"property": cond.Parameter,
		meta.Type:  map[string]interface{}{operator: cond.Value},
	}, nil
}

// BuildDatabasePayload compiles a CREATE TABLE into a create-database
// body. parentPage is the configured container page; without it the
// statement cannot be translated.
func BuildDatabasePayload(stmt *statement.Create, parentPage string) (*DatabasePayload, error) {
	if parentPage == "" {
		return nil, &ConfigError{Reason: "a parent page for new tables must be configured"}
	}

	properties := make(map[string]interface{}, len(stmt.Columns))
	for _, col := range stmt.Columns {
		descriptor, err := propertyDescriptor(col.Type)
		if err != nil {
			return nil, err
		}
		properties[col.Name] = descriptor
	}

	return &DatabasePayload{
		Parent:     Parent{PageID: parentPage},
		Title:      []notion.RichText{{Text: &notion.TextData{Content: stmt.Table}}},
		Properties: properties,
	}, nil
}

// propertyDescriptor maps a declared column type to the remote
// property-type descriptor.
func propertyDescriptor(t statement.ColumnType) (map[string]interface{}, error) {
	switch t {
	case statement.TypeInt:
		return map[string]interface{}{propertyNumber: struct{}{}}, nil
	case statement.TypeVarchar:
		return map[string]interface{}{propertyRichText: struct{}{}}, nil
	case statement.TypeTitle:
		return map[string]interface{}{propertyTitle: struct{}{}}, nil
	default:
		return nil, &TranslationError{Reason: fmt.Sprintf("no property descriptor for column type %q", t)}
	}
}

func textRun(content string) notion.RichText {
	return notion.RichText{
		Type:      "text",
		Text:      &notion.TextData{Content: content},
		PlainText: content,
	}
}

// numericValue coerces an assignment value into a number.
func numericValue(v interface{}) (interface{}, error) {
	switch n := v.(type) {
	case int64:
		return n, nil
	case float64:
		return n, nil
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, nil
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("value %q is not numeric", n)
	default:
		return nil, fmt.Errorf("value %v is not numeric", v)
	}
}

func stringValue(v interface{}) string {
	switch s := v.(type) {
	case string:
		return s
	case int64:
		return strconv.FormatInt(s, 10)
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", v)
	}
}
