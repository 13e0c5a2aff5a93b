// Package config provides configuration for the Notion SQL gateway.
package config

// Remote API defaults.
const (
	DefaultBaseURL       = "https://api.notion.com"
	DefaultNotionVersion = "2022-06-28"
)

// DefaultPageSize is the page size requested by SELECT statements that
// do not carry an explicit page_size condition.
const DefaultPageSize = 20

// PageSizeParameter is the reserved WHERE-clause parameter name that
// controls pagination instead of becoming a remote filter.
const PageSizeParameter = "page_size"

// Environment variable names read by Load.
const (
	EnvToken      = "NOTION_TOKEN"
	EnvParentPage = "NOTION_PARENT_PAGE"
	EnvBaseURL    = "NOTION_BASE_URL"
	EnvVersion    = "NOTION_VERSION"
)
