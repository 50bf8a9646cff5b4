package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/socialhub/internal/client/models"
)

// maxBodySize caps how much of a response body is read.
const maxBodySize = 1 << 20

// HTTPClient implements Client over the backend's JSON API.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client

	mu   sync.RWMutex
	sess Session
}

// New builds a client for the backend at baseURL. timeout bounds every
// request; zero means no client-side limit.
func New(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}

	c := &HTTPClient{baseURL: u}
	c.http = &http.Client{
		Timeout:   timeout,
		Transport: &bearerTransport{base: http.DefaultTransport, client: c},
	}
	return c, nil
}

// Attach binds the session that supplies bearer tokens and receives 401
// notifications. Until a session is attached, authenticated requests go out
// without a token.
func (c *HTTPClient) Attach(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sess = s
}

func (c *HTTPClient) session() Session {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.sess
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (string, error) {
	body, err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password})
	if err != nil {
		return "", err
	}

	token := parseToken(body)
	if token == "" {
		return "", newError(ErrMissingToken, http.StatusOK, MsgMissingToken, nil)
	}
	return token, nil
}

func (c *HTTPClient) Register(ctx context.Context, reg models.Registration) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/register", newRegisterRequest(reg))
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/reset-password", resetPasswordRequest{Email: email, NewPassword: newPassword})
	return err
}

func (c *HTTPClient) Me(ctx context.Context) (models.Profile, error) {
	var p models.Profile
	body, err := c.do(withAuth(ctx), http.MethodGet, "/auth/me", nil)
	if err != nil {
		return p, err
	}
	if err := decode(body, &p); err != nil {
		return models.Profile{}, err
	}
	return p, nil
}

func (c *HTTPClient) ListPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(ctx, "/postagens")
}

func (c *HTTPClient) ListMyPosts(ctx context.Context) ([]models.Post, error) {
	return c.listPosts(withAuth(ctx), "/postagens/usuario")
}

func (c *HTTPClient) listPosts(ctx context.Context, path string) ([]models.Post, error) {
	body, err := c.do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}
	var dtos []postDTO
	if err := decode(body, &dtos); err != nil {
		return nil, err
	}
	return postsFromDTO(dtos), nil
}

// CreatePost submits a post. When the backend answers without a body the
// submitted post is returned unchanged.
func (c *HTTPClient) CreatePost(ctx context.Context, post models.Post) (models.Post, error) {
	req := createPostRequest{Title: post.Title, Body: post.Body, OrganizationName: post.OrganizationName}
	body, err := c.do(withAuth(ctx), http.MethodPost, "/postagens", req)
	if err != nil {
		return models.Post{}, err
	}
	return mergeResponse(post, body)
}

func (c *HTTPClient) UpdatePost(ctx context.Context, id string, patch models.Patch) (models.Post, error) {
	body, err := c.do(withAuth(ctx), http.MethodPut, "/postagens/"+url.PathEscape(id), patch)
	if err != nil {
		return models.Post{}, err
	}
	return mergeResponse(models.Post{ID: id}, body)
}

func (c *HTTPClient) DeletePost(ctx context.Context, id string) error {
	_, err := c.do(withAuth(ctx), http.MethodDelete, "/postagens/"+url.PathEscape(id), nil)
	return err
}

// Ping reports whether the backend answers at all; any HTTP status below
// 500 counts as reachable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+"/", nil)
	if err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return newError(ErrUnavailable, 0, MsgUnavailable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

	if resp.StatusCode >= http.StatusInternalServerError {
		return newError(ErrServer, resp.StatusCode, MsgServer, nil)
	}
	return nil
}

// do sends a JSON request and returns the raw body of a 2xx response.
// Any other outcome is normalized into an *Error.
func (c *HTTPClient) do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var reqBody io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newError(ErrUnavailable, 0, MsgUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, newError(ErrUnavailable, resp.StatusCode, MsgUnavailable, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return body, nil
	}

	if resp.StatusCode == http.StatusUnauthorized && needsAuth(ctx) {
		return nil, newError(ErrStaleSession, resp.StatusCode, MsgStaleSession, nil)
	}
	return nil, classify(resp.StatusCode, body)
}

func decode(body []byte, out any) error {
	if err := json.Unmarshal(body, out); err != nil {
		return newError(ErrUnexpected, http.StatusOK, "unexpected response from server", err)
	}
	return nil
}

func mergeResponse(fallback models.Post, body []byte) (models.Post, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return fallback, nil
	}
	var dto postDTO
	if err := decode(body, &dto); err != nil {
		return models.Post{}, err
	}
	post := dto.model()
	if post.ID == "" {
		post.ID = fallback.ID
	}
	return post, nil
}

// parseToken accepts {"token": "..."}, a JSON string, or the token as plain
// text.
func parseToken(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	switch text[0] {
	case '{':
		var r loginResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return ""
		}
		return strings.TrimSpace(r.Token)
	case '"':
		var s string
		if err := json.Unmarshal(body, &s); err != nil {
			return ""
		}
		return strings.TrimSpace(s)
	case '[':
		return ""
	}

	if strings.ContainsAny(text, " \t\r\n") {
		return ""
	}
	return text
}
