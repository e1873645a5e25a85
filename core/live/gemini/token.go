package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// EphemeralToken mints a short-lived auth token that a less trusted frontend
// can use to open its own live session without holding the API key.
func (c *Client) EphemeralToken(ctx context.Context, uses int) (string, error) {
	ctx, span := tracer.Start(ctx, "create ephemeral token")
	defer span.End()

	if uses <= 0 {
		uses = 1
	}

	body, err := json.Marshal(struct {
		Uses int `json:"uses"`
	}{Uses: uses})
	if err != nil {
		return "", fmt.Errorf("failed to marshal token request: %w", err)
	}

	tokenURL := (&url.URL{
		Scheme: "https",
		Host:   c.host,
		Path:   "/v1alpha/auth_tokens",
	}).String()

	request, err := http.NewRequestWithContext(ctx, http.MethodPost, tokenURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build token request: %w", err)
	}
	request.Header.Set("Content-Type", "application/json")
	request.Header.Set("x-goog-api-key", c.apiKey)

	client := &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
	response, err := client.Do(request)
	if err != nil {
		return "", fmt.Errorf("failed to request ephemeral token: %w", err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(response.Body)
		return "", fmt.Errorf("ephemeral token request failed with status %d: %s", response.StatusCode, string(payload))
	}

	var parsedResponse struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(response.Body).Decode(&parsedResponse); err != nil {
		return "", fmt.Errorf("failed to decode ephemeral token response: %w", err)
	}
	if parsedResponse.Name == "" {
		return "", fmt.Errorf("ephemeral token response missing token name")
	}

	return parsedResponse.Name, nil
}
