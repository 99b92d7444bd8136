// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

// Package render provides the client for the image-generation server.
// It defines the API contract for generation, scoring and version checking,
// together with an HTTP-based implementation. The server's JSON responses are
// passed through to callers untouched; wrappers print them verbatim.
package render

import "context"

// GenerateRequest carries the parameters forwarded to the generation endpoint.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	Style  string `json:"style,omitempty"`
	Seed   int64  `json:"seed,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
}

// ScoreRequest asks the server to score a previously generated image,
// optionally with a specific third-party model.
type ScoreRequest struct {
	ImagePath string `json:"image_path"`
	Model     string `json:"model,omitempty"`
}

// ScoreResult is the parsed scoring response. Raw preserves the server's
// full payload for verbatim printing.
type ScoreResult struct {
	Score float64
	Raw   map[string]any
}

// API defines the render server operations the CLI depends on.
// Implementations may call the real HTTP endpoints or provide mocks for tests.
type API interface {
	// GetVersion calls the version endpoint; no authentication required.
	GetVersion(ctx context.Context) (string, error)
	// Generate submits one generation request and returns the raw response.
	Generate(ctx context.Context, req GenerateRequest) (map[string]any, error)
	// Score evaluates one image and returns its quality score with the raw payload.
	Score(ctx context.Context, req ScoreRequest) (ScoreResult, error)
}

// New creates a render API implementation talking to baseURL.
// apiKey may be empty for servers that do not require one.
func New(baseURL, apiKey string) API {
	return newHTTP(baseURL, apiKey)
}
