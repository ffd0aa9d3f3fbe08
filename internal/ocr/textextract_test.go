package ocr

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestExtractTextPlainPassthrough(t *testing.T) {
	t.Parallel()
	svc := &Service{}

	got, err := svc.ExtractText(context.Background(), []byte("Glicemie 95"), "text/plain", "reteta.txt")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Glicemie 95" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractTextImageWithoutClient(t *testing.T) {
	t.Parallel()
	svc := &Service{}

	_, err := svc.ExtractText(context.Background(), []byte{0x89, 0x50}, "image/png", "scan.png")
	if !errors.Is(err, ErrOCRUnavailable) {
		t.Fatalf("expected ErrOCRUnavailable, got %v", err)
	}
}

func TestExtractTextRoutesImagesToRecognizer(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/recognize" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("parse multipart: %v", err)
		}
		if got := r.FormValue("languages"); got != "ron+eng" {
			t.Errorf("languages = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"Colesterol 180"}`))
	}))
	defer server.Close()

	svc := &Service{Client: NewHTTPClient(server.URL, "")}
	got, err := svc.ExtractText(context.Background(), []byte{0x89, 0x50}, "image/png", "scan.png")
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if got != "Colesterol 180" {
		t.Fatalf("unexpected text %q", got)
	}
}

func TestExtractTextRecognizerFailure(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "engine crashed", http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := &Service{Client: NewHTTPClient(server.URL, "ron")}
	if _, err := svc.ExtractText(context.Background(), []byte{0x89}, "image/jpeg", "scan.jpg"); err == nil {
		t.Fatalf("expected error from failing recognizer")
	}
}

func TestNormalizeMimeType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mime string
		file string
		want string
	}{
		{"application/pdf", "x", "application/pdf"},
		{"application/pdf; charset=binary", "x", "application/pdf"},
		{"", "reteta.PDF", "application/pdf"},
		{"application/octet-stream", "reteta.txt", "text/plain"},
		{"", "scan.JPG", "image/jpeg"},
		{"", "scan.png", "image/png"},
		{"", "unknown.bin", ""},
		{"image/png", "whatever.txt", "image/png"},
	}
	for _, tt := range tests {
		if got := normalizeMimeType(tt.mime, tt.file); got != tt.want {
			t.Fatalf("normalizeMimeType(%q, %q) = %q, want %q", tt.mime, tt.file, got, tt.want)
		}
	}
}

func TestProcessCountsCandidates(t *testing.T) {
	t.Parallel()
	svc := &Service{}

	result := svc.Process("Glicemie 95\nColesterol 180")
	if result.FoundCount != len(result.Analyses) {
		t.Fatalf("found_count mismatch: %+v", result)
	}
	if result.RawText == "" || result.FoundCount == 0 {
		t.Fatalf("expected raw text and candidates, got %+v", result)
	}
}
