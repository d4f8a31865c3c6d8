package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dmitrijs2005/snapline/internal/client/session"
	"github.com/stretchr/testify/require"
)

// memStore is an in-memory session.Store for tests.
type memStore struct {
	token string
	err   error
}

func (s *memStore) Save(ctx context.Context, token string) error { s.token = token; return s.err }
func (s *memStore) Get(ctx context.Context) (string, error)      { return s.token, s.err }
func (s *memStore) Clear(ctx context.Context) error              { s.token = ""; return s.err }

func TestTransport_AttachesBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{Tokens: &memStore{token: "h.p.s"}}}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.Equal(t, "Bearer h.p.s", gotAuth)
}

func TestTransport_ForwardsUnmodifiedWhenLoggedOut(t *testing.T) {
	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
	}))
	defer srv.Close()

	client := &http.Client{Transport: &Transport{Tokens: &memStore{}}}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	require.False(t, sawAuthHeader)
}

func TestTransport_FailsClosedOnStoreError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("request must not reach the server when the token fetch fails")
	}))
	defer srv.Close()

	store := &memStore{err: errors.New("disk failure")}
	client := &http.Client{Transport: &Transport{Tokens: store}}

	_, err := client.Get(srv.URL) //nolint:bodyclose // request never dispatched
	require.Error(t, err)
}

func TestTransport_DoesNotMutateCallerRequest(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	req, err := http.NewRequest(http.MethodGet, srv.URL, nil)
	require.NoError(t, err)

	tr := &Transport{Tokens: &memStore{token: "h.p.s"}}
	resp, err := tr.RoundTrip(req)
	require.NoError(t, err)
	resp.Body.Close()

	require.Empty(t, req.Header.Get("Authorization"))
}

func TestTransport_AnnouncesExpiredSessionOn401(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	bus := session.NewBus()
	client := &http.Client{Transport: &Transport{Tokens: &memStore{token: "h.p.s"}, Bus: bus}}

	resp, err := client.Get(srv.URL)
	require.NoError(t, err)
	resp.Body.Close()

	// A subscriber attaching after the 401 still observes the event once.
	ch, cancel := bus.Subscribe()
	defer cancel()
	select {
	case e := <-ch:
		require.Equal(t, session.ReasonTokenExpired, e.Reason)
	case <-time.After(time.Second):
		t.Fatal("expected session-expired announcement")
	}
}
