package gateway

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/rs/zerolog"

	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/session"
)

type recordingNavigator struct {
	loginCalls int
}

func (n *recordingNavigator) NavigateToLogin() { n.loginCalls++ }

func newTestGateway(t *testing.T, handler http.Handler) (*Gateway, session.Store, *recordingNavigator, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	store := session.NewMemStore()
	nav := &recordingNavigator{}
	gw := New(Options{
		BaseURL:   srv.URL,
		Sessions:  store,
		Navigator: nav,
		Logger:    zerolog.Nop(),
	})
	return gw, store, nav, srv
}

func TestDo_NoCredentialSendsNoAuthHeader(t *testing.T) {
	var gotHeader string
	gw, store, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))

	if store.IsAuthenticated() {
		t.Fatalf("no credential expected")
	}
	var out map[string]any
	if err := gw.Get(context.Background(), "/ping", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotHeader != "" {
		t.Fatalf("expected no Authorization header, got %q", gotHeader)
	}
}

func TestDo_CredentialAttachedAsBearer(t *testing.T) {
	var gotHeader string
	gw, store, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}))

	if err := store.Set(domain.Credential{Token: "tok-abc"}); err != nil {
		t.Fatalf("set session: %v", err)
	}
	var out map[string]any
	if err := gw.Get(context.Background(), "/ping", nil, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotHeader != "Bearer tok-abc" {
		t.Fatalf("expected bearer header, got %q", gotHeader)
	}
}

func TestDo_AuthFailureClearsSessionAndNavigatesOnce(t *testing.T) {
	gw, store, nav, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"detail":"Could not validate credentials"}`))
	}))

	if err := store.Set(domain.Credential{Token: "stale"}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	err := gw.Get(context.Background(), "/wallets", nil, nil)
	if err == nil {
		t.Fatalf("expected error, got nil")
	}
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if store.IsAuthenticated() {
		t.Fatalf("session should be cleared after 401")
	}
	if nav.loginCalls != 1 {
		t.Fatalf("expected exactly one login navigation, got %d", nav.loginCalls)
	}
}

func TestDo_DomainErrorCarriesServerMessageVerbatim(t *testing.T) {
	gw, store, nav, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"detail":"Insufficient funds"}`))
	}))
	if err := store.Set(domain.Credential{Token: "tok"}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	err := gw.Post(context.Background(), "/wallets/1/transfer", map[string]any{}, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "Insufficient funds" {
		t.Fatalf("message must be verbatim, got %q", apiErr.Message)
	}

	// A domain error must not touch the session.
	if !store.IsAuthenticated() {
		t.Fatalf("session must survive a domain error")
	}
	if nav.loginCalls != 0 {
		t.Fatalf("no navigation expected, got %d", nav.loginCalls)
	}
}

func TestDo_ErrorEnvelopeFallbackKey(t *testing.T) {
	gw, _, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"error":"user already exists"}`))
	}))

	err := gw.Post(context.Background(), "/users/register", map[string]any{}, nil)
	var apiErr *domain.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected APIError, got %v", err)
	}
	if apiErr.Message != "user already exists" {
		t.Fatalf("expected message from error key, got %q", apiErr.Message)
	}
}

func TestDo_ServerErrorIsTransport(t *testing.T) {
	gw, store, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	if err := store.Set(domain.Credential{Token: "tok"}); err != nil {
		t.Fatalf("set session: %v", err)
	}

	err := gw.Get(context.Background(), "/wallets", nil, nil)
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if !store.IsAuthenticated() {
		t.Fatalf("session must survive a transport error")
	}
}

func TestDo_NetworkFailureIsTransport(t *testing.T) {
	store := session.NewMemStore()
	gw := New(Options{
		BaseURL:  "http://127.0.0.1:1", // nothing listens here
		Sessions: store,
		Logger:   zerolog.Nop(),
	})

	err := gw.Get(context.Background(), "/wallets", nil, nil)
	var transportErr *domain.TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected TransportError, got %v", err)
	}
}

func TestDo_QueryParamsEncoded(t *testing.T) {
	var gotQuery url.Values
	gw, _, _, _ := newTestGateway(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Write([]byte(`[]`))
	}))

	query := url.Values{}
	query.Set("wallet_id", "7")
	query.Set("limit", "25")
	var out []any
	if err := gw.Get(context.Background(), "/transactions", query, &out); err != nil {
		t.Fatalf("get: %v", err)
	}
	if gotQuery.Get("wallet_id") != "7" || gotQuery.Get("limit") != "25" {
		t.Fatalf("unexpected query: %v", gotQuery)
	}
}
