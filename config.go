package capsolver

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Default configuration values.
const (
	DefaultBaseURL      = "https://api.capsolver.com"
	DefaultPollInterval = 3000 * time.Millisecond
	DefaultPollTimeout  = 120 * time.Second

	defaultUA = "capsolver-go/1.0"
)

// Config holds the session configuration.
type Config struct {
	APIKey  string
	BaseURL string
	// PollInterval is the pause between two getTaskResult attempts.
	PollInterval time.Duration
	// PollTimeout bounds the total time GetTaskResult waits. Negative
	// disables the bound; the context still applies.
	PollTimeout time.Duration
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.PollInterval <= 0 {
		c.PollInterval = DefaultPollInterval
	}
	if c.PollTimeout == 0 {
		c.PollTimeout = DefaultPollTimeout
	}
	return c
}

// Doer sends HTTP requests. *http.Client satisfies it.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

type options struct {
	http      Doer
	log       zerolog.Logger
	userAgent string
}

// Option configures a Session.
type Option func(*options)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(d Doer) Option {
	return func(o *options) {
		o.http = d
	}
}

// WithLogger sets the logger used for request and poll events.
func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		o.userAgent = ua
	}
}
