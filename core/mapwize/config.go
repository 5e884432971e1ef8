package mapwize

import (
	"net/http"
	"time"

	"go.uber.org/zap"
)

// DefaultURL is the production API server.
const DefaultURL = "https://api.mapwize.io"

// Config configures the API client.
type Config struct {
	// URL is the API server base URL.
	URL string `mapstructure:"url" default:"https://api.mapwize.io"`

	// APIKey is sent as the api_key query parameter.
	APIKey string `mapstructure:"key" default:""`

	// OrganizationID is sent as the organizationId query parameter.
	OrganizationID string `mapstructure:"organization_id" default:""`

	// Email and Password open a session with SignIn when both are set.
	Email    string `mapstructure:"email" default:""`
	Password string `mapstructure:"password" default:""`

	// Timeout bounds a single request attempt (default: 30s).
	Timeout time.Duration `mapstructure:"timeout" default:"30s"`

	// MaxRetries for rate-limited or failed requests (default: 3). Zero disables retries.
	MaxRetries int `mapstructure:"max_retries" default:"3"`

	// RetryDelay is the base of the exponential backoff (default: 100ms).
	RetryDelay time.Duration `mapstructure:"retry_delay" default:"100ms"`

	// RateLimit in requests per second (default: 10).
	RateLimit float64 `mapstructure:"rate_limit" default:"10"`

	// RateBurst is the maximum burst size (default: 5).
	RateBurst int `mapstructure:"rate_burst" default:"5"`

	// Transport allows injecting a custom HTTP transport.
	Transport http.RoundTripper `mapstructure:"-"`

	// Logger receives retry diagnostics. Nil disables logging.
	Logger *zap.Logger `mapstructure:"-"`
}

func (c *Config) applyDefaults() {
	if c.URL == "" {
		c.URL = DefaultURL
	}
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = 0
	}
	if c.RetryDelay == 0 {
		c.RetryDelay = 100 * time.Millisecond
	}
	if c.RateLimit == 0 {
		c.RateLimit = 10
	}
	if c.RateBurst == 0 {
		c.RateBurst = 5
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
}
