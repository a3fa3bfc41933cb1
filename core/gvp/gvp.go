// Package gvp links volcanoes to their Global Volcanism Program pages.
package gvp

import (
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strconv"

	"github.com/pkg/browser"

	verrors "github.com/adalundhe/volcans/core/errors"
)

// DefaultBaseURL is the GVP volcano page.
const DefaultBaseURL = "https://volcano.si.edu/volcano.cfm"

// URL returns the General Info page of the volcano numbered vnum.
func URL(baseURL string, vnum int) (string, error) {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("invalid website base URL %q: %w", baseURL, err)
	}
	q := url.Values{}
	q.Set("vn", strconv.Itoa(vnum))
	q.Set("vtab", "GeneralInfo")
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// Opener shows a URL to the user.
type Opener func(url string) error

// Browser opens URLs with the system browser, discarding its console output.
func Browser(u string) error {
	browser.Stdout = io.Discard
	browser.Stderr = io.Discard
	return browser.OpenURL(u)
}

// Client opens GVP pages.
type Client struct {
	baseURL string
	open    Opener
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithOpener replaces the system browser.
func WithOpener(open Opener) Option {
	return func(c *Client) {
		if open != nil {
			c.open = open
		}
	}
}

// WithLogger sets the logger used for debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a client for baseURL (DefaultBaseURL if empty).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		open:    Browser,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open shows the page of vnum and returns its URL. A browser failure is a
// non-fatal BrowserUnavailable error.
func (c *Client) Open(vnum int) (string, error) {
	u, err := URL(c.baseURL, vnum)
	if err != nil {
		return "", verrors.Wrap(verrors.KindInvalidInput, "cannot build GVP link", err)
	}

	c.logger.Debug("opening GVP website", "url", u)
	if err := c.open(u); err != nil {
		return u, verrors.Newf(verrors.KindBrowserUnavailable, "No suitable browser to open %s", u).
			WithContext("cause", err.Error())
	}
	return u, nil
}
