package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := New("key-test", "", 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.BaseURL = srv.URL
	c.HTTPClient = srv.Client()

	return c
}

func TestGenerateJoinsTextBlocks(t *testing.T) {
	var got messagesRequest

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != messagesURI {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if key := r.Header.Get("x-api-key"); key != "key-test" {
			t.Errorf("unexpected api key header: %q", key)
		}
		if v := r.Header.Get("anthropic-version"); v != apiVersion {
			t.Errorf("unexpected version header: %q", v)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode request: %v", err)
		}

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"CORRECT: NO"},{"type":"tool_use"},{"type":"text","text":"EVALUATION: vague"}]}`))
	})

	out, err := c.Generate(context.Background(), "evaluate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != "CORRECT: NO\nEVALUATION: vague" {
		t.Fatalf("unexpected output: %q", out)
	}

	if got.Model != defaultModel || got.MaxTokens != defaultMaxTokens {
		t.Fatalf("unexpected request: %+v", got)
	}
	if len(got.Messages) != 1 || got.Messages[0].Content != "evaluate" {
		t.Fatalf("unexpected messages: %+v", got.Messages)
	}
}

func TestGenerateReportsAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"type":"error","error":{"type":"rate_limit_error","message":"Number of requests has exceeded your rate limit"}}`))
	})

	_, err := c.Generate(context.Background(), "prompt")
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "rate limit") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateRejectsEmptyContent(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[]}`))
	})

	if _, err := c.Generate(context.Background(), "prompt"); err == nil {
		t.Fatal("expected error for empty content")
	}
}

func TestGenerateReturnsEmptyText(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"  "}]}`))
	})

	out, err := c.Generate(context.Background(), "prompt")
	if err != nil {
		t.Fatalf("empty text must not be an error: %v", err)
	}
	if out != "" {
		t.Fatalf("expected empty output, got %q", out)
	}
}

func TestNewRequiresKey(t *testing.T) {
	if _, err := New("", "", 0.7); err == nil {
		t.Fatal("expected error for missing key")
	}

	c, err := New("key", "", 0.7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.HTTPClient.Timeout != 0 {
		t.Fatalf("requests must be bounded by the context only, got timeout %s", c.HTTPClient.Timeout)
	}
}
