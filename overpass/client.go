package overpass

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hexmaps/hexmaps/env"
)

// DefaultEndpoint is the public Overpass interpreter queried by default.
const DefaultEndpoint = "https://overpass.kumi.systems/api/interpreter"

// Service defines the interface for running Overpass queries.
// It allows the CLI commands to be tested against a mock implementation.
type Service interface {
	Query(ctx context.Context, query string) (*Result, error)
}

// client is the concrete implementation of Service that talks to an Overpass
// interpreter over HTTP.
type client struct {
	httpClient *http.Client
	endpoint   string
}

// NewClient creates a Service with a default HTTP client suitable for
// production use. The endpoint can be overridden through the environment
// (HEXMAPS_OVERPASS_URL).
func NewClient() Service {
	endpoint := DefaultEndpoint
	if override, ok := env.OverpassEndpoint(); ok {
		endpoint = override
	}
	return &client{
		httpClient: &http.Client{
			// Queries carry their own [timeout] setting; leave headroom on
			// top of the largest default.
			Timeout: DefaultTimeout + 30*time.Second,
		},
		endpoint: endpoint,
	}
}

// NewClientWithHTTP allows injecting a custom HTTP client and endpoint.
// This is primarily useful for unit tests where a mock server URL can be
// provided.
func NewClientWithHTTP(httpClient *http.Client, endpoint string) Service {
	return &client{
		httpClient: httpClient,
		endpoint:   endpoint,
	}
}

// envelope is the internal struct for decoding the Overpass JSON response.
type envelope struct {
	Version   json.Number `json:"version"`
	Generator string      `json:"generator"`
	Remark    string      `json:"remark"`
	Elements  []Element   `json:"elements"`
}

// Query posts an Overpass QL query and decodes the response into a Result.
// Failures reported inside an otherwise successful payload (the "remark"
// member) are surfaced as errors.
func (c *client) Query(ctx context.Context, query string) (*Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}

	form := url.Values{"data": {query}}
	request, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		c.endpoint,
		strings.NewReader(form.Encode()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	request.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	response, err := c.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request to overpass: %w", err)
	}
	defer func() { _ = response.Body.Close() }()

	bodyBytes, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body from overpass: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("overpass returned status %d: %s (body: %s)",
			response.StatusCode, response.Status, string(bodyBytes))
	}

	var payload envelope
	if err := json.Unmarshal(bodyBytes, &payload); err != nil {
		return nil, fmt.Errorf("failed to parse overpass response: %w", err)
	}
	if payload.Remark != "" {
		return nil, fmt.Errorf("overpass remark: %s", payload.Remark)
	}

	result := newResult(c)
	for _, element := range payload.Elements {
		result.Add(element)
	}
	return result, nil
}
