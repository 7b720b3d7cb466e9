package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithTokenSource(func() string { return "tok123" }))
	if err := c.get(context.Background(), "/auth/profile", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClient_OmitsHeaderWithoutToken(t *testing.T) {
	var gotAuth string
	var present bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, present = r.Header["Authorization"]
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, WithTokenSource(func() string { return "" }))
	if err := c.get(context.Background(), "/auth/profile", nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if present || gotAuth != "" {
		t.Fatalf("expected no Authorization header, got %q", gotAuth)
	}
}

func TestClient_UnauthorizedFiresHookOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"token expired"}`))
	}))
	defer srv.Close()

	var hookCalls int
	c := NewClient(srv.URL, time.Second, WithUnauthorizedHook(func() { hookCalls++ }))

	err := c.get(context.Background(), "/api/user", nil, nil)
	if !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if hookCalls != 1 {
		t.Fatalf("expected hook to fire once, fired %d times", hookCalls)
	}
}

func TestClient_APIErrorCarriesBackendMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"success":false,"message":"role name already exists"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.post(context.Background(), "/role", map[string]string{}, nil)

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Status != http.StatusConflict || apiErr.Message != "role name already exists" {
		t.Fatalf("unexpected error contents: %+v", apiErr)
	}
	if got := DisplayMessage(err, "fallback"); got != "role name already exists" {
		t.Fatalf("expected backend message, got %q", got)
	}
}

func TestClient_DisplayMessageFallback(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second)
	err := c.get(context.Background(), "/role", nil, nil)
	if got := DisplayMessage(err, "Failed to fetch roles"); got != "Failed to fetch roles" {
		t.Fatalf("expected fallback, got %q", got)
	}
}

func TestClient_TimeoutIsAnOrdinaryError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"success":true}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, 20*time.Millisecond)
	err := c.get(context.Background(), "/api/tasks", nil, nil)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if errors.Is(err, ErrUnauthorized) {
		t.Fatal("timeout must not look like an auth failure")
	}
}
