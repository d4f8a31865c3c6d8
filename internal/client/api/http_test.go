package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL, nil, 5*time.Second)
}

func writeEnvelope(w http.ResponseWriter, code int, msg string, data any) {
	w.Header().Set("Content-Type", "application/json")
	raw, _ := json.Marshal(data)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":    code,
		"message": msg,
		"data":    json.RawMessage(raw),
	})
}

func TestHTTPClient_Login_Success(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/v1/auth/login", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(t, "alice", body["login"])
		require.Equal(t, "s3cret", body["password"])

		writeEnvelope(w, 200, "ok", map[string]any{
			"token": "h.p.s",
			"user":  map[string]any{"id": "u1", "username": "alice"},
		})
	})

	result, err := client.Login(context.Background(), "alice", "s3cret")
	require.NoError(t, err)
	require.Equal(t, "h.p.s", result.Token)
	require.Equal(t, "u1", result.User.ID)
}

func TestHTTPClient_LogicalFailureCode(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Transport success, logical failure: both must be checked.
		writeEnvelope(w, 409, "Username is already taken", nil)
	})

	_, err := client.Register(context.Background(), RegisterInput{Username: "alice"})
	require.Error(t, err)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, KindAPI, apiErr.Kind)
	require.Equal(t, 409, apiErr.Code)
	require.Equal(t, "Username is already taken", apiErr.Message)
}

func TestHTTPClient_UnauthorizedKind(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.GetFriends(context.Background())
	require.ErrorIs(t, err, ErrUnauthorized)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, KindUnauthorized, apiErr.Kind)
}

func TestHTTPClient_TransportKindOnServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gateway timeout", http.StatusGatewayTimeout)
	})

	_, err := client.GetFriends(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, KindTransport, apiErr.Kind)
	require.Equal(t, http.StatusGatewayTimeout, apiErr.HTTPStatus)
}

func TestHTTPClient_DecodeKindOnGarbage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not json</html>")
	})

	_, err := client.GetFriends(context.Background())
	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	require.Equal(t, KindDecode, apiErr.Kind)
}

func TestHTTPClient_EmailExists_EscapesPath(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/email/a+b@example.com", r.URL.Path)
		writeEnvelope(w, 200, "ok", map[string]any{"exists": true})
	})

	exists, err := client.EmailExists(context.Background(), "a+b@example.com")
	require.NoError(t, err)
	require.True(t, exists)
}

func TestHTTPClient_UploadSnap_Multipart(t *testing.T) {
	image := []byte{0xFF, 0xD8, 0xFF, 0xE0} // JPEG magic

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/snaps", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))

		require.Equal(t, "sunset", r.FormValue("caption"))

		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "sunset.jpg", header.Filename)

		got, err := io.ReadAll(file)
		require.NoError(t, err)
		require.Equal(t, image, got)

		writeEnvelope(w, 200, "ok", map[string]any{
			"snap": map[string]any{"id": "s1", "caption": "sunset"},
		})
	})

	snap, err := client.UploadSnap(context.Background(), "sunset", "sunset.jpg", image)
	require.NoError(t, err)
	require.Equal(t, "s1", snap.ID)
}

func TestHTTPClient_Logout_NoBody(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/v1/auth/logout", r.URL.Path)
		writeEnvelope(w, 200, "ok", nil)
	})

	require.NoError(t, client.Logout(context.Background()))
}
