package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dmitrijs2005/snapline/internal/client/session"
)

// DefaultTokenFetchTimeout bounds the wait for the token read during
// interception. A stuck storage read fails the request instead of hanging it.
const DefaultTokenFetchTimeout = 3 * time.Second

// Transport is an http.RoundTripper that attaches "Authorization: Bearer
// <token>" to every request for which the Store holds a token. Requests made
// while logged out are forwarded unmodified.
//
// The token read is storage-backed and therefore asynchronous underneath, but
// RoundTrip is synchronous by contract, so the read blocks the dispatching
// goroutine (never the caller's event loop) with a bounded wait.
//
// If the read fails, the request fails closed: it is sent unauthenticated
// only when the store legitimately reports "no token", never on error.
//
// When the server answers 401, Transport announces the invalid session on the
// Bus so the shell can force a logout. The response is still returned to the
// caller.
type Transport struct {
	Base   http.RoundTripper
	Tokens session.Store
	Bus    *session.Bus // optional

	// TokenFetchTimeout overrides DefaultTokenFetchTimeout when positive.
	TokenFetchTimeout time.Duration
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}

func (t *Transport) fetchTimeout() time.Duration {
	if t.TokenFetchTimeout > 0 {
		return t.TokenFetchTimeout
	}
	return DefaultTokenFetchTimeout
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx, cancel := context.WithTimeout(req.Context(), t.fetchTimeout())
	token, err := t.Tokens.Get(ctx)
	cancel()
	if err != nil {
		return nil, fmt.Errorf("token fetch failed: %w", err)
	}

	// RoundTrippers must not mutate the caller's request.
	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base().RoundTrip(out)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && t.Bus != nil {
		t.Bus.Send(session.Event{Reason: session.ReasonTokenExpired, At: time.Now()})
	}
	return resp, nil
}
