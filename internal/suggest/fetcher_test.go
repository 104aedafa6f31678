package suggest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestFetcher_Fetch(t *testing.T) {
	var gotQuery, gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`[{"phrase":"cat"}]`))
	}))
	defer server.Close()

	f := NewFetcher("omnisuggest-test", 0)
	body, err := f.Fetch(context.Background(), server.URL+"/ac/?type=json&q=", "cat & dog")
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if body != `[{"phrase":"cat"}]` {
		t.Errorf("Unexpected body %q", body)
	}
	if gotQuery != "type=json&q=cat%20%26%20dog" {
		t.Errorf("Expected escaped query, got %q", gotQuery)
	}
	if gotAgent != "omnisuggest-test" {
		t.Errorf("Expected user agent, got %q", gotAgent)
	}
}

func TestFetcher_Errors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "slow down", http.StatusTooManyRequests)
	}))
	defer server.Close()

	closed := httptest.NewServer(http.NotFoundHandler())
	closed.Close()

	tests := []struct {
		name     string
		endpoint string
	}{
		{"non-2xx status", server.URL + "/?q="},
		{"connection refused", closed.URL + "/?q="},
		{"invalid url", "://bad\x7f?q="},
	}

	f := NewFetcher("", time.Second)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.Fetch(context.Background(), tt.endpoint, "cat")
			var qe *QueryError
			if !errors.As(err, &qe) {
				t.Fatalf("Expected *QueryError, got %v", err)
			}
			if qe.Kind != NetworkError {
				t.Errorf("Expected NetworkError, got %v", qe.Kind)
			}
			if qe.Op != "query the Search Suggestions API" {
				t.Errorf("Unexpected op %q", qe.Op)
			}
		})
	}
}

func TestFetcher_ContextCanceled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewFetcher("", 0).Fetch(ctx, server.URL+"/?q=", "cat")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
}
