package translate

import (
	"strings"

	"github.com/notionsql/notionsql/pkg/notion"
)

// Row is one projected result record: the requested properties keyed
// by lowercased name, plus id, created_time and last_edited_time.
type Row map[string]interface{}

// ResultSet is the caller-facing shape of a SELECT result page.
type ResultSet struct {
	Data           []Row   `json:"data"`
	NextCursor     *string `json:"next_cursor"`
	PreviousCursor *string `json:"previous_cursor"`
	HasMore        bool    `json:"has_more"`
}

// Project maps one remote result page into flat rows, applying
// per-type value extraction. A row whose projected property values are
// all empty is dropped from the result even though its id and
// timestamps are set; that filter defines the observable row count.
func Project(resp *notion.QueryResponse, propertyNames []string) *ResultSet {
	result := &ResultSet{
		Data:       []Row{},
		NextCursor: resp.NextCursor,
		HasMore:    resp.HasMore,
	}

	for i := range resp.Results {
		entry := &resp.Results[i]

		row := Row{}
		populated := false

		for _, name := range propertyNames {
			value := extractValue(entry.Properties[name])
			row[strings.ToLower(name)] = value
			if !isEmpty(value) {
				populated = true
			}
		}

		if !populated {
			continue
		}

		row["id"] = entry.ID
		row["created_time"] = entry.CreatedTime
		row["last_edited_time"] = entry.LastEditedTime
		result.Data = append(result.Data, row)
	}

	return result
}

// extractValue pulls the Go value out of a type-tagged property value.
// Types without an extraction rule project to nil.
func extractValue(pv notion.PropertyValue) interface{} {
	switch pv.Type {
	case propertyTitle, propertyRichText:
		return pv.PlainText()
	case propertyNumber:
		if pv.Number == nil {
			return nil
		}
		return *pv.Number
	case propertyURL:
		if pv.URL == nil {
			return nil
		}
		return *pv.URL
	default:
		return nil
	}
}

func isEmpty(v interface{}) bool {
	switch value := v.(type) {
	case nil:
		return true
	case string:
		return value == ""
	case float64:
		return value == 0
	case int64:
		return value == 0
	case bool:
		return !value
	default:
		return false
	}
}
