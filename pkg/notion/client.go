package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/notionsql/notionsql/pkg/config"
)

// API endpoint paths.
const (
	pathSearch    = "/v1/search"
	pathPages     = "/v1/pages"
	pathPage      = "/v1/pages/%s"
	pathDatabases = "/v1/databases"
	pathDatabase  = "/v1/databases/%s"
	pathQuery     = "/v1/databases/%s/query"
)

// Client issues JSON requests to the remote document service. Requests
// carry the bearer token and API version headers; non-2xx responses
// are translated into *APIError.
type Client struct {
	httpClient *http.Client
	baseURL    string
	token      string
	version    string
}

// NewClient creates a client from configuration.
func NewClient(cfg config.Config) *Client {
	cfg = cfg.WithDefaults()
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    cfg.BaseURL,
		token:      cfg.Token,
		version:    cfg.NotionVersion,
	}
}

// do issues one request. payload is marshaled as the JSON body when
// non-nil; the response body is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Notion-Version", c.version)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}

// decodeAPIError builds an *APIError from an error response. Bodies
// that cannot be parsed degrade to a generic message rather than
// masking the status code.
func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{
		StatusCode: resp.StatusCode,
		Code:       "unknown_code",
		Message:    "unable to parse error response",
	}

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err == nil {
		if body.Code != "" {
			apiErr.Code = body.Code
		}
		if body.Message != "" {
			apiErr.Message = body.Message
		}
	}
	return apiErr
}

// SearchDatabases lists remote databases, one cursor page per call.
func (c *Client) SearchDatabases(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	var out SearchResponse
	if err := c.do(ctx, http.MethodPost, pathSearch, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Database fetches the schema document of one database.
func (c *Client) Database(ctx context.Context, databaseID string) (*Database, error) {
	var out Database
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf(pathDatabase, databaseID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateDatabase provisions a new database from a creation payload.
func (c *Client) CreateDatabase(ctx context.Context, payload interface{}) (*Database, error) {
	var out Database
	if err := c.do(ctx, http.MethodPost, pathDatabases, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// QueryDatabase runs one filtered, cursor-paginated query.
func (c *Client) QueryDatabase(ctx context.Context, databaseID string, payload interface{}) (*QueryResponse, error) {
	var out QueryResponse
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf(pathQuery, databaseID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreatePage creates one record.
func (c *Client) CreatePage(ctx context.Context, payload interface{}) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodPost, pathPages, payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdatePage patches one record's properties.
func (c *Client) UpdatePage(ctx context.Context, pageID string, payload interface{}) (*Page, error) {
	var out Page
	if err := c.do(ctx, http.MethodPatch, fmt.Sprintf(pathPage, pageID), payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
