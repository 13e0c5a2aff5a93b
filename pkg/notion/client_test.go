package notion

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/notionsql/notionsql/pkg/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewClient(config.Config{
		Token:   "secret-token",
		BaseURL: srv.URL,
	})
}

func TestClient_SetsAuthAndVersionHeaders(t *testing.T) {
	var gotAuth, gotVersion, gotContentType string

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotVersion = r.Header.Get("Notion-Version")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"results": [], "has_more": false}`))
	})

	_, err := client.SearchDatabases(context.Background(), SearchRequest{
		Filter:   SearchFilter{Value: "database", Property: "object"},
		PageSize: 20,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, config.DefaultNotionVersion, gotVersion)
	assert.Equal(t, "application/json", gotContentType)
}

func TestClient_QueryDatabase(t *testing.T) {
	var gotPath, gotMethod string
	var gotBody map[string]interface{}

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotMethod = r.Method
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		_, _ = w.Write([]byte(`{
			"results": [{"id": "page-1", "created_time": "t", "last_edited_time": "t", "properties": {}}],
			"has_more": false,
			"next_cursor": null
		}`))
	})

	resp, err := client.QueryDatabase(context.Background(), "db-1", map[string]interface{}{"page_size": 20})
	require.NoError(t, err)

	assert.Equal(t, "/v1/databases/db-1/query", gotPath)
	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Equal(t, float64(20), gotBody["page_size"])
	require.Len(t, resp.Results, 1)
	assert.Equal(t, "page-1", resp.Results[0].ID)
}

func TestClient_UpdatePageUsesPatch(t *testing.T) {
	var gotMethod, gotPath string

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"id": "page-1"}`))
	})

	_, err := client.UpdatePage(context.Background(), "page-1", map[string]bool{"in_trash": true})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPatch, gotMethod)
	assert.Equal(t, "/v1/pages/page-1", gotPath)
}

func TestClient_NonSuccessBecomesAPIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "object_not_found", "message": "Could not find database"}`))
	})

	_, err := client.Database(context.Background(), "missing")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "error = %v, want *APIError", err)
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.Equal(t, "Could not find database", apiErr.Message)
}

func TestClient_UnparsableErrorBodyDegradesGracefully(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.Database(context.Background(), "db-1")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr), "error = %v, want *APIError", err)
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
	assert.Equal(t, "unknown_code", apiErr.Code)
}
