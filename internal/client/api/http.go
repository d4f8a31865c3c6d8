package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/snapline/internal/models"
)

// envelope is the JSON wrapper every API response carries. Code == 200 is
// logical success even when the transport status is 200 OK; callers must
// check both.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

const codeOK = 200

// HTTPClient is the HTTP/JSON implementation of Client.
type HTTPClient struct {
	baseURL string
	http    *http.Client
}

// NewHTTPClient builds a client for the API at baseURL. transport normally is
// an *api.Transport so the bearer token is attached; timeout bounds each
// whole request.
func NewHTTPClient(baseURL string, transport http.RoundTripper, timeout time.Duration) *HTTPClient {
	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Transport: transport, Timeout: timeout},
	}
}

func (c *HTTPClient) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return transportError(0, "invalid request", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.send(req, out)
}

func (c *HTTPClient) send(req *http.Request, out any) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(0, "server unreachable", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportError(resp.StatusCode, "failed to read response", err)
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return &Error{Kind: KindUnauthorized, HTTPStatus: resp.StatusCode, Message: "session expired"}
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return transportError(resp.StatusCode, resp.Status, nil)
		}
		return decodeError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return transportError(resp.StatusCode, env.Message, nil)
	}
	if env.Code != codeOK {
		return &Error{Kind: KindAPI, HTTPStatus: resp.StatusCode, Code: env.Code, Message: env.Message}
	}

	if out == nil {
		return nil
	}
	if len(env.Data) == 0 {
		return decodeError(fmt.Errorf("response data missing"))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return decodeError(err)
	}
	return nil
}

func (c *HTTPClient) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", input, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Login(ctx context.Context, login, password string) (*AuthResult, error) {
	body := map[string]string{"login": login, "password": password}
	var result AuthResult
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/api/v1/auth/logout", nil, nil)
}

func (c *HTTPClient) EmailExists(ctx context.Context, email string) (bool, error) {
	var result struct {
		Exists bool `json:"exists"`
	}
	path := "/api/v1/auth/email/" + url.PathEscape(email)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

func (c *HTTPClient) UsernameExists(ctx context.Context, username string) (bool, error) {
	var result struct {
		Exists bool `json:"exists"`
	}
	path := "/api/v1/auth/username/" + url.PathEscape(username)
	if err := c.do(ctx, http.MethodGet, path, nil, &result); err != nil {
		return false, err
	}
	return result.Exists, nil
}

func (c *HTTPClient) GetUser(ctx context.Context, id string) (*models.User, error) {
	var result struct {
		User models.User `json:"user"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/"+url.PathEscape(id), nil, &result); err != nil {
		return nil, err
	}
	return &result.User, nil
}

func (c *HTTPClient) GetFriends(ctx context.Context) ([]models.User, error) {
	var result struct {
		Friends []models.User `json:"friends"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/v1/users/me/friends", nil, &result); err != nil {
		return nil, err
	}
	return result.Friends, nil
}

func (c *HTTPClient) UploadSnap(ctx context.Context, caption, filename string, image []byte) (*models.Snap, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	part, err := mw.CreateFormFile("image", filename)
	if err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.WriteField("caption", caption); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}
	if err := mw.Close(); err != nil {
		return nil, fmt.Errorf("failed to build multipart body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/v1/snaps", &buf)
	if err != nil {
		return nil, transportError(0, "invalid request", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	var result struct {
		Snap models.Snap `json:"snap"`
	}
	if err := c.send(req, &result); err != nil {
		return nil, err
	}
	return &result.Snap, nil
}

func (c *HTTPClient) RequestPasswordReset(ctx context.Context, email string) error {
	body := map[string]string{"email": email}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/otp/request", body, nil)
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, otp, newPassword string) error {
	body := map[string]string{"email": email, "otp": otp, "password": newPassword}
	return c.do(ctx, http.MethodPost, "/api/v1/auth/otp/reset", body, nil)
}
