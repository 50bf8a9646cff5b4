package client

import (
	"context"
	"net/http"
)

type authKey struct{}

// withAuth marks a request as one that must carry the bearer token.
func withAuth(ctx context.Context) context.Context {
	return context.WithValue(ctx, authKey{}, true)
}

func needsAuth(ctx context.Context) bool {
	v, _ := ctx.Value(authKey{}).(bool)
	return v
}

// bearerTransport attaches the session token to authenticated requests and
// invalidates the session when the backend answers 401 to one of them.
// Requests that are not marked (login, register, password reset) pass
// through untouched, so a failed login never drops an existing session.
type bearerTransport struct {
	base   http.RoundTripper
	client *HTTPClient
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if !needsAuth(req.Context()) {
		return t.base.RoundTrip(req)
	}

	session := t.client.session()
	var token string
	if session != nil {
		token = session.Token()
	}

	if token != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.base.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized && session != nil && token != "" {
		session.InvalidateToken(req.Context(), token)
	}

	return resp, nil
}
