package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"modelbridge/cli/internal/errors"
)

// Endpoint paths on the generation server.
const (
	pathVersion  = "/api/version"
	pathGenerate = "/api/generate"
	pathScore    = "/api/score"
)

// HTTP implements API over the generation server's REST endpoints.
type HTTP struct {
	// baseURL is the base URL for all HTTP requests (e.g., "http://127.0.0.1:7860")
	baseURL string
	// apiKey is sent as X-Api-Key when non-empty
	apiKey string
	// client is the underlying HTTP client with configured timeout
	client *http.Client
}

// newHTTP creates a new HTTP client with the given base URL.
// Generation can take a while on a loaded GPU, hence the generous timeout.
func newHTTP(baseURL, apiKey string) *HTTP {
	return &HTTP{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		client:  &http.Client{Timeout: 120 * time.Second},
	}
}

// GetVersion calls GET /api/version and returns the version string when available.
// No authentication required. This can be used to check connectivity to the server.
func (h *HTTP) GetVersion(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.baseURL+pathVersion, nil)
	if err != nil {
		return "", err
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "unknown", nil
	}
	var out struct {
		Version string `json:"version"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Version == "" {
		return "unknown", nil
	}
	return out.Version, nil
}

// Generate calls POST /api/generate and returns the raw response mapping.
func (h *HTTP) Generate(ctx context.Context, greq GenerateRequest) (map[string]any, error) {
	return h.postJSON(ctx, pathGenerate, greq)
}

// Score calls POST /api/score. The score field is extracted when present;
// the raw payload is always preserved.
func (h *HTTP) Score(ctx context.Context, sreq ScoreRequest) (ScoreResult, error) {
	raw, err := h.postJSON(ctx, pathScore, sreq)
	if err != nil {
		return ScoreResult{}, err
	}
	res := ScoreResult{Raw: raw}
	if v, ok := raw["score"].(float64); ok {
		res.Score = v
	} else {
		return res, errors.New(errors.GateFailed, "scoring response carries no numeric score field")
	}
	return res, nil
}

// postJSON marshals body, posts it and decodes the JSON response mapping.
func (h *HTTP) postJSON(ctx context.Context, path string, body any) (map[string]any, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if h.apiKey != "" {
		req.Header.Set("X-Api-Key", h.apiKey)
	}

	resp, err := h.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.RenderFailed, "POST "+path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(errors.RenderFailed, "read response for "+path, err)
	}

	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.RenderFailed,
			fmt.Sprintf("response for %s is not a JSON object (HTTP %d)", path, resp.StatusCode), err)
	}
	// Non-2xx with a JSON body is still returned: wrappers print the server's
	// own error payload rather than translating it.
	return out, nil
}
