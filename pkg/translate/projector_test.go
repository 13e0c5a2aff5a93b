package translate

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/notionsql/notionsql/pkg/notion"
)

func queryResponse(t *testing.T, literal string) *notion.QueryResponse {
	t.Helper()

	var resp notion.QueryResponse
	if err := json.Unmarshal([]byte(literal), &resp); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	return &resp
}

func TestProject(t *testing.T) {
	resp := queryResponse(t, `{
		"results": [
			{
				"id": "page-1",
				"created_time": "2024-01-01T00:00:00.000Z",
				"last_edited_time": "2024-01-02T00:00:00.000Z",
				"properties": {
					"Name": {"type": "title", "title": [{"type": "text", "plain_text": "Pam"}]},
					"Age": {"type": "number", "number": 30},
					"Site": {"type": "url", "url": "https://example.com"}
				}
			}
		],
		"has_more": true,
		"next_cursor": "cursor-1"
	}`)

	got := Project(resp, []string{"Name", "Age", "Site"})

	cursor := "cursor-1"
	want := &ResultSet{
		Data: []Row{
			{
				"name":             "Pam",
				"age":              float64(30),
				"site":             "https://example.com",
				"id":               "page-1",
				"created_time":     "2024-01-01T00:00:00.000Z",
				"last_edited_time": "2024-01-02T00:00:00.000Z",
			},
		},
		NextCursor: &cursor,
		HasMore:    true,
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Project() mismatch (-want +got):\n%s", diff)
	}
}

func TestProject_DropsRowsWithOnlyEmptyValues(t *testing.T) {
	// The second entry has id and timestamps but every projected value
	// is empty; it must not appear in the output.
	resp := queryResponse(t, `{
		"results": [
			{
				"id": "page-1",
				"created_time": "t1",
				"last_edited_time": "t2",
				"properties": {
					"Name": {"type": "title", "title": [{"type": "text", "plain_text": "Pam"}]}
				}
			},
			{
				"id": "page-2",
				"created_time": "t3",
				"last_edited_time": "t4",
				"properties": {
					"Name": {"type": "title", "title": []}
				}
			}
		],
		"has_more": false,
		"next_cursor": null
	}`)

	got := Project(resp, []string{"Name"})

	if len(got.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(got.Data))
	}
	if got.Data[0]["id"] != "page-1" {
		t.Errorf("Data[0][id] = %v, want page-1", got.Data[0]["id"])
	}
}

func TestProject_TypesWithoutExtractionRuleProjectToNil(t *testing.T) {
	resp := queryResponse(t, `{
		"results": [
			{
				"id": "page-1",
				"created_time": "t1",
				"last_edited_time": "t2",
				"properties": {
					"Name": {"type": "title", "title": [{"type": "text", "plain_text": "Pam"}]},
					"Who": {"type": "people"}
				}
			}
		],
		"has_more": false
	}`)

	got := Project(resp, []string{"Name", "Who"})

	if len(got.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(got.Data))
	}
	if got.Data[0]["who"] != nil {
		t.Errorf("Data[0][who] = %v, want nil", got.Data[0]["who"])
	}
}

func TestProject_MissingPropertyProjectsToNil(t *testing.T) {
	resp := queryResponse(t, `{
		"results": [
			{
				"id": "page-1",
				"created_time": "t1",
				"last_edited_time": "t2",
				"properties": {
					"Age": {"type": "number", "number": 1}
				}
			}
		],
		"has_more": false
	}`)

	got := Project(resp, []string{"Age", "Ghost"})

	if len(got.Data) != 1 {
		t.Fatalf("len(Data) = %d, want 1", len(got.Data))
	}
	if got.Data[0]["ghost"] != nil {
		t.Errorf("Data[0][ghost] = %v, want nil", got.Data[0]["ghost"])
	}
}

func TestProject_EmptyPage(t *testing.T) {
	resp := queryResponse(t, `{"results": [], "has_more": false, "next_cursor": null}`)

	got := Project(resp, []string{"Name"})

	if got.Data == nil || len(got.Data) != 0 {
		t.Errorf("Data = %v, want empty non-nil slice", got.Data)
	}
	if got.HasMore {
		t.Errorf("HasMore = true, want false")
	}
}
