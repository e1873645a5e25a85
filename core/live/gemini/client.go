// Package gemini implements the live session boundary against Gemini's
// bidirectional generation websocket API.
package gemini

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/koscakluka/vela-core/core/live"
)

const (
	defaultHost  = "generativelanguage.googleapis.com"
	defaultModel = "gemini-2.0-flash-live-001"

	bidiGeneratePath = "/ws/google.ai.generativelanguage.v1beta.GenerativeService.BidiGenerateContent"
)

var _ live.Client = (*Client)(nil)

// Client opens live dialog sessions against the Gemini API.
type Client struct {
	apiKey string
	host   string
}

type ClientOption func(*Client)

// WithAPIKey overrides the GEMINI_API_KEY environment lookup.
func WithAPIKey(apiKey string) ClientOption {
	return func(c *Client) { c.apiKey = apiKey }
}

// WithHost points the client at a non-default API host.
func WithHost(host string) ClientOption {
	return func(c *Client) { c.host = host }
}

func NewClient(opts ...ClientOption) (*Client, error) {
	client := &Client{host: defaultHost}
	for _, opt := range opts {
		opt(client)
	}

	if client.apiKey == "" {
		apiKey, ok := os.LookupEnv("GEMINI_API_KEY")
		if !ok {
			return nil, fmt.Errorf("gemini api key not found")
		}
		client.apiKey = apiKey
	}

	return client, nil
}

func (c *Client) sessionURL() string {
	urlValues := url.Values{}
	urlValues.Set("key", c.apiKey)

	return (&url.URL{
		Scheme:   "wss",
		Host:     c.host,
		Path:     bidiGeneratePath,
		RawQuery: urlValues.Encode(),
	}).String()
}

// Connect dials the websocket endpoint, performs the setup handshake, and
// starts the read loop that feeds callbacks.
func (c *Client) Connect(ctx context.Context, config live.SessionConfig, callbacks live.Callbacks) (live.Session, error) {
	ctx, span := tracer.Start(ctx, "connect live session")
	defer span.End()

	session, err := connectSession(ctx, c.sessionURL(), http.Header{}, config, callbacks)
	if err != nil {
		return nil, fmt.Errorf("failed to open live session: %w", err)
	}

	return session, nil
}
