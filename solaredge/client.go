// Package solaredge is a client for the SolarEdge site monitoring API.
//
// A Client is bound to a single site. New resolves the site id with a
// details request, after which every method issues exactly one GET and
// returns the decoded JSON body as-is.
package solaredge

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// BaseURL is the public monitoring API host.
const BaseURL = "https://monitoringapi.solaredge.com"

// Client is safe for concurrent use once New has returned.
type Client struct {
	token   string
	siteID  string
	baseURL string
	http    *resty.Client
	logger  *slog.Logger

	httpClient *http.Client
	timeout    time.Duration
}

// Option configures a Client during New.
type Option func(*Client)

// WithBaseURL overrides the API host, e.g. for a proxy or a test server.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		c.baseURL = baseURL
	}
}

// WithSiteID sets the site id used for the details request made by New.
// The id stored on the Client is always the one reported by that request.
func WithSiteID(siteID string) Option {
	return func(c *Client) {
		c.siteID = siteID
	}
}

// WithHTTPClient makes the Client send requests through hc.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithTimeout bounds each request. Without it no timeout is applied.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger enables debug logging of outgoing requests.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// New creates a Client for the site that token belongs to. It performs the
// details request synchronously and fails if that request fails or the
// response carries no site id.
func New(token string, opts ...Option) (*Client, error) {
	c := &Client{
		token:   token,
		baseURL: BaseURL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.httpClient != nil {
		c.http = resty.NewWithClient(c.httpClient)
	} else {
		c.http = resty.New()
	}
	if c.timeout > 0 {
		c.http.SetTimeout(c.timeout)
	}

	details, err := c.Details()
	if err != nil {
		return nil, fmt.Errorf("solaredge: resolve site: %w", err)
	}

	siteID, err := siteIDFromDetails(details)
	if err != nil {
		return nil, err
	}
	c.siteID = siteID

	c.logger.Debug("site resolved", slog.String("site_id", c.siteID))
	return c, nil
}

// SiteID returns the site id resolved by New.
func (c *Client) SiteID() string {
	return c.siteID
}

// get performs a GET on /site/{siteId}/{endpoint} and decodes the body.
func (c *Client) get(endpoint string, params url.Values) (any, error) {
	u := URLJoin(c.baseURL, "site", c.siteID, endpoint)
	params.Set("api_key", c.token)

	resp, err := c.http.R().
		SetQueryParamsFromValues(params).
		Get(u)
	if err != nil {
		// url.Error carries the full URL, token included
		var urlErr *url.Error
		if errors.As(err, &urlErr) {
			err = &url.Error{Op: urlErr.Op, URL: u, Err: urlErr.Err}
		}
		return nil, fmt.Errorf("solaredge: do request %s: %w", endpoint, err)
	}

	c.logger.Debug("solaredge request",
		slog.String("endpoint", endpoint),
		slog.String("site_id", c.siteID),
		slog.Int("status", resp.StatusCode()),
		slog.Duration("duration", resp.Time()),
	)

	if resp.IsError() {
		return nil, &StatusError{
			StatusCode: resp.StatusCode(),
			Body:       resp.Body(),
			URL:        u,
		}
	}

	var body any
	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return nil, fmt.Errorf("solaredge: decode response from %s: %w", endpoint, err)
	}
	return body, nil
}

var errNoSiteID = errors.New("solaredge: details response has no site id")

// siteIDFromDetails reads details.id from a details response.
func siteIDFromDetails(body any) (string, error) {
	root, ok := body.(map[string]any)
	if !ok {
		return "", errNoSiteID
	}
	details, ok := root["details"].(map[string]any)
	if !ok {
		return "", errNoSiteID
	}

	switch id := details["id"].(type) {
	case float64:
		return strconv.FormatFloat(id, 'f', -1, 64), nil
	case string:
		if id != "" {
			return id, nil
		}
	}
	return "", errNoSiteID
}
