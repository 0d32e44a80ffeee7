// Package gateway is the single chokepoint for every call the client makes
// to the RosePay API. The outbound stage attaches the stored credential, the
// inbound stage classifies failures and centrally invalidates the session on
// an authorization rejection. No other component touches the credential
// except the login flow and explicit logout.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/rosepay/client-go/domain"
	"github.com/rosepay/client-go/session"
)

const defaultTimeout = 15 * time.Second

// Navigator is told to move the user to the login surface after the session
// has been invalidated. Implementations must tolerate repeated calls.
type Navigator interface {
	NavigateToLogin()
}

// Options configures a Gateway.
type Options struct {
	// BaseURL is the API root, e.g. "http://127.0.0.1:8000/api/v1".
	BaseURL string
	// Sessions supplies the credential for the outbound stage and is cleared
	// by the inbound stage on authorization failure.
	Sessions session.Store
	// Navigator receives the forced navigation on authorization failure.
	// May be nil.
	Navigator Navigator
	// HTTPClient defaults to a client with a 15s timeout. The timeout bounds
	// how long a submission can sit in flight.
	HTTPClient *http.Client
	Logger     zerolog.Logger
}

// Gateway issues authenticated JSON requests against the API.
type Gateway struct {
	baseURL  string
	http     *http.Client
	sessions session.Store
	nav      Navigator
	log      zerolog.Logger
}

func New(opts Options) *Gateway {
	client := opts.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	return &Gateway{
		baseURL:  strings.TrimRight(opts.BaseURL, "/"),
		http:     client,
		sessions: opts.Sessions,
		nav:      opts.Navigator,
		log:      opts.Logger,
	}
}

// Get issues a GET and decodes the JSON response into out (unless nil).
func (g *Gateway) Get(ctx context.Context, path string, query url.Values, out any) error {
	return g.do(ctx, http.MethodGet, path, query, nil, out)
}

// Post issues a POST with a JSON body and decodes the response into out
// (unless nil).
func (g *Gateway) Post(ctx context.Context, path string, body, out any) error {
	return g.do(ctx, http.MethodPost, path, nil, body, out)
}

// errorEnvelope covers both the API's FastAPI-style {"detail": ...} envelope
// and the {"error": ...} shape some deployments emit.
type errorEnvelope struct {
	Detail string `json:"detail"`
	Error  string `json:"error"`
}

func (e errorEnvelope) message() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Error
}

func (g *Gateway) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := g.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	// Outbound stage: attach the credential when one exists. Absence is not
	// an error; the server decides whether the endpoint needs one.
	if cred, ok := g.sessions.Get(); ok {
		req.Header.Set("Authorization", "Bearer "+cred.Token)
	}

	start := time.Now()
	resp, err := g.http.Do(req)
	requestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
	if err != nil {
		requestsTotal.WithLabelValues(method, "error").Inc()
		g.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return &domain.TransportError{Err: err}
	}
	defer resp.Body.Close()

	requestsTotal.WithLabelValues(method, fmt.Sprintf("%d", resp.StatusCode)).Inc()

	return g.inbound(resp, method, path, out)
}

// inbound classifies the response. This is the only place the session is
// invalidated outside explicit logout.
func (g *Gateway) inbound(resp *http.Response, method, path string, out any) error {
	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		if out == nil {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return &domain.TransportError{Err: fmt.Errorf("decode response: %w", err)}
		}
		return nil

	case resp.StatusCode == http.StatusUnauthorized:
		authFailuresTotal.Inc()
		g.log.Warn().Str("method", method).Str("path", path).Msg("credential rejected, clearing session")
		if err := g.sessions.Clear(); err != nil {
			g.log.Error().Err(err).Msg("failed to clear session")
		}
		if g.nav != nil {
			g.nav.NavigateToLogin()
		}
		return &domain.APIError{Status: resp.StatusCode, Message: g.decodeMessage(resp)}

	case resp.StatusCode >= 400 && resp.StatusCode < 500:
		return &domain.APIError{Status: resp.StatusCode, Message: g.decodeMessage(resp)}

	default:
		g.log.Error().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg("server error")
		return &domain.TransportError{Err: fmt.Errorf("server returned status %d", resp.StatusCode)}
	}
}

func (g *Gateway) decodeMessage(resp *http.Response) string {
	var env errorEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return ""
	}
	return env.message()
}
