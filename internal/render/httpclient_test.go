// Copyright (c) 2025 Modelbridge
// Licensed under the MIT License. See LICENSE file in the project root for details.

package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	mberrors "modelbridge/cli/internal/errors"
)

func TestGetVersion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != pathVersion {
			t.Errorf("path = %s, want %s", r.URL.Path, pathVersion)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"version": "2.4.1"})
	}))
	defer srv.Close()

	v, err := New(srv.URL, "").GetVersion(context.Background())
	if err != nil {
		t.Fatalf("GetVersion() error: %v", err)
	}
	if v != "2.4.1" {
		t.Errorf("version = %q, want 2.4.1", v)
	}
}

func TestGetVersionNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	v, err := New(srv.URL, "").GetVersion(context.Background())
	if err != nil {
		t.Fatalf("GetVersion() error: %v", err)
	}
	if v != "unknown" {
		t.Errorf("version = %q, want unknown", v)
	}
}

func TestGenerateForwardsParamsAndAPIKey(t *testing.T) {
	var gotKey string
	var gotBody GenerateRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"image":  "/out/knight_001.png",
		})
	}))
	defer srv.Close()

	resp, err := New(srv.URL, "sk-test").Generate(context.Background(), GenerateRequest{
		Prompt: "armored knight, concept art",
		Style:  "painterly",
		Seed:   42,
	})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if gotKey != "sk-test" {
		t.Errorf("X-Api-Key = %q, want sk-test", gotKey)
	}
	if gotBody.Prompt != "armored knight, concept art" || gotBody.Seed != 42 {
		t.Errorf("forwarded body = %+v", gotBody)
	}
	if resp["image"] != "/out/knight_001.png" {
		t.Errorf("response = %#v, want image path passthrough", resp)
	}
}

func TestGenerateReturnsServerErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "error", "error": "prompt required"})
	}))
	defer srv.Close()

	// Remote-side error payloads are returned for verbatim printing, not
	// turned into client errors.
	resp, err := New(srv.URL, "").Generate(context.Background(), GenerateRequest{})
	if err != nil {
		t.Fatalf("Generate() error: %v", err)
	}
	if resp["error"] != "prompt required" {
		t.Errorf("response = %#v, want server error payload", resp)
	}
}

func TestScore(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req ScoreRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Model != "aesthetic-v2" {
			t.Errorf("model = %q, want aesthetic-v2", req.Model)
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "score": 0.87})
	}))
	defer srv.Close()

	res, err := New(srv.URL, "").Score(context.Background(), ScoreRequest{
		ImagePath: "/out/knight_001.png",
		Model:     "aesthetic-v2",
	})
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if res.Score != 0.87 {
		t.Errorf("score = %v, want 0.87", res.Score)
	}
	if res.Raw["status"] != "ok" {
		t.Errorf("raw payload = %#v", res.Raw)
	}
}

func TestScoreMissingScoreField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok"})
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Score(context.Background(), ScoreRequest{ImagePath: "x.png"})
	if kind := mberrors.KindOf(err); kind != mberrors.GateFailed {
		t.Errorf("error kind = %q, want %q (err: %v)", kind, mberrors.GateFailed, err)
	}
}

func TestNonJSONResponseIsRenderFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>proxy error</html>"))
	}))
	defer srv.Close()

	_, err := New(srv.URL, "").Generate(context.Background(), GenerateRequest{Prompt: "x"})
	if kind := mberrors.KindOf(err); kind != mberrors.RenderFailed {
		t.Errorf("error kind = %q, want %q (err: %v)", kind, mberrors.RenderFailed, err)
	}
}
