// Package provider wraps the external multi-source content collection
// API. Collection is the only operation in the system that blocks for
// non-trivial wall-clock time, so every call carries a bounded timeout.
package provider

import (
	"context"
	"fmt"
	"time"

	"trend-intel/pkg/models"
)

// ContentProvider is the external collection capability. A failed call
// returns an error; the orchestrator recovers with placeholder data and
// never surfaces the failure to its caller.
type ContentProvider interface {
	Search(ctx context.Context, keywords []string, cfg models.ScrapeConfig) ([]models.RawItem, error)
}

// APIError is a structured error returned by the provider API.
type APIError struct {
	StatusCode int    `json:"status_code"`
	Code       string `json:"code"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("provider error code: %s, description: %s", e.Code, e.Message)
}

// Config configuration for the HTTP provider client
type Config struct {
	BaseURL        string        `mapstructure:"base_url"`
	APIKey         string        `mapstructure:"api_key"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:        "http://localhost:9090",
		RequestTimeout: 20 * time.Second,
	}
}
