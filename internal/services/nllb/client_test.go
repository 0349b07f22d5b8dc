package nllb_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"lingokit/internal/services/nllb"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, cfg nllb.Config) (*nllb.Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	cfg.BaseURL = server.URL
	client := nllb.NewClient(cfg,
		nllb.WithRetryBackoff(time.Millisecond, 5*time.Millisecond),
		nllb.WithSleeper(func(time.Duration) {}),
	)
	return client, server
}

func TestTranslateSuccess(t *testing.T) {
	var got map[string]string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Fatalf("unexpected path: %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer secret" {
			t.Fatalf("unexpected auth header: %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"translation": "नमस्ते"}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}, nllb.Config{Model: "facebook/nllb-200-distilled-600M", APIKey: "secret"})

	out, err := client.Translate(context.Background(), "Hello", "eng_Latn", "hin_Deva")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "नमस्ते" {
		t.Fatalf("unexpected translation: %q", out)
	}
	if got["source_lang"] != "eng_Latn" || got["target_lang"] != "hin_Deva" {
		t.Fatalf("unexpected codes in request: %+v", got)
	}
}

func TestTranslateRetriesServerErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		if err := json.NewEncoder(w).Encode(map[string]string{"translated_text": "ok"}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}, nllb.Config{})

	out, err := client.Translate(context.Background(), "Hello", "eng_Latn", "fra_Latn")
	if err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if out != "ok" {
		t.Fatalf("unexpected translation: %q", out)
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestTranslateDoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}, nllb.Config{})

	_, err := client.Translate(context.Background(), "Hello", "eng_Latn", "fra_Latn")
	if err == nil {
		t.Fatal("expected error")
	}
	if attempts != 1 {
		t.Fatalf("expected a single attempt, got %d", attempts)
	}
}

func TestTranslateTruncatesOversizedInput(t *testing.T) {
	var received string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var req map[string]string
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode request: %v", err)
		}
		received = req["text"]
		if err := json.NewEncoder(w).Encode(map[string]string{"translation": "ok"}); err != nil {
			t.Fatalf("encode response: %v", err)
		}
	}, nllb.Config{MaxChars: 10})

	if _, err := client.Translate(context.Background(), strings.Repeat("a", 50), "eng_Latn", "fra_Latn"); err != nil {
		t.Fatalf("Translate failed: %v", err)
	}
	if len(received) != 10 {
		t.Fatalf("expected truncation to 10 chars, got %d", len(received))
	}
}

func TestTranslateRejectsEmptyText(t *testing.T) {
	client := nllb.NewClient(nllb.Config{BaseURL: "http://127.0.0.1:1"})
	if _, err := client.Translate(context.Background(), "   ", "eng_Latn", "fra_Latn"); err == nil {
		t.Fatal("expected error for empty text")
	}
}
