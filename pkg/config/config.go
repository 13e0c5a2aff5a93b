package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Config holds the settings required to talk to the remote document
// service.
type Config struct {
	// Token is the integration access token. Required.
	Token string

	// ParentPage is the identifier of the container page under which
	// CREATE TABLE provisions new databases. Required only for CREATE.
	ParentPage string

	// BaseURL is the remote API root, overridable for tests.
	BaseURL string

	// NotionVersion is the API version header value.
	NotionVersion string

	// PageSize is the default page size for SELECT statements.
	PageSize int
}

// Load reads configuration from the environment. A .env file in the
// working directory is honored when present.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		Token:         os.Getenv(EnvToken),
		ParentPage:    os.Getenv(EnvParentPage),
		BaseURL:       os.Getenv(EnvBaseURL),
		NotionVersion: os.Getenv(EnvVersion),
		PageSize:      DefaultPageSize,
	}

	if cfg.Token == "" {
		return Config{}, fmt.Errorf("%s is required", EnvToken)
	}

	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.NotionVersion == "" {
		c.NotionVersion = DefaultNotionVersion
	}
	if c.PageSize <= 0 {
		c.PageSize = DefaultPageSize
	}
}

// WithDefaults returns a copy of c with unset fields filled in. It is
// used by constructors that accept a hand-built Config.
func (c Config) WithDefaults() Config {
	c.applyDefaults()
	return c
}
