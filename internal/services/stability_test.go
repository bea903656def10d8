package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sightreel/sightreel/internal/models"
)

func TestStabilityGenerateImage(t *testing.T) {
	imageBytes := []byte("fake-image-data")

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/generation/sdxl-1.0/text-to-image" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer stability-key" {
			t.Errorf("missing bearer auth")
		}

		var req stabilityRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Width != 768 || req.Height != 1344 {
			t.Errorf("9:16 size = %dx%d, want 768x1344", req.Width, req.Height)
		}
		if req.CfgScale != 7 || req.Steps != 30 || req.Samples != 1 {
			t.Errorf("unexpected sampling params: %+v", req)
		}
		if len(req.TextPrompts) != 1 || req.TextPrompts[0].Text != "a castle" {
			t.Errorf("unexpected prompts: %+v", req.TextPrompts)
		}

		fmt.Fprintf(w, `{"artifacts":[{"base64":%q,"finishReason":"SUCCESS"}]}`,
			base64.StdEncoding.EncodeToString(imageBytes))
	}))
	defer server.Close()

	svc := NewStabilityService("stability-key", "")
	svc.baseURL = server.URL

	data, err := svc.GenerateImage(context.Background(), "a castle", models.AspectRatio9x16)
	if err != nil {
		t.Fatalf("GenerateImage failed: %v", err)
	}
	if string(data) != string(imageBytes) {
		t.Errorf("decoded image = %q, want %q", data, imageBytes)
	}
}

func TestStabilityGenerateImageNoArtifacts(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"artifacts":[]}`)
	}))
	defer server.Close()

	svc := NewStabilityService("key", "sdxl-1.0")
	svc.baseURL = server.URL

	if _, err := svc.GenerateImage(context.Background(), "prompt", models.AspectRatio1x1); err == nil {
		t.Fatal("expected error for empty artifacts")
	}
}

func TestStabilityGenerateImageAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"invalid key"}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	svc := NewStabilityService("bad-key", "sdxl-1.0")
	svc.baseURL = server.URL

	if _, err := svc.GenerateImage(context.Background(), "prompt", models.AspectRatio16x9); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
