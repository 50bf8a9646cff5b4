package token

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a token.
type Claims map[string]any

// Subject returns the standard "sub" claim, which the backend fills with the
// account e-mail. It is "" when absent or not a string.
func (c Claims) Subject() string {
	sub, err := jwt.MapClaims(c).GetSubject()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(sub)
}

// DisplayName returns the user's name ("nome", or "name").
func (c Claims) DisplayName() string {
	return c.firstString("nome", "name")
}

// Role returns the account type ("tipo", or "role").
func (c Claims) Role() string {
	return c.firstString("tipo", "role")
}

// UserID returns the numeric user id ("id", or "userId"), 0 when absent.
func (c Claims) UserID() int64 {
	id, _ := c.firstInt("id", "userId")
	return id
}

// OrganizationID returns the organization id ("ongId", or "organizationId")
// and whether it was present.
func (c Claims) OrganizationID() (int64, bool) {
	return c.firstInt("ongId", "organizationId")
}

func (c Claims) firstString(keys ...string) string {
	for _, k := range keys {
		if s, ok := c[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func (c Claims) firstInt(keys ...string) (int64, bool) {
	for _, k := range keys {
		if n, ok := toInt64(c[k]); ok {
			return n, true
		}
	}
	return 0, false
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	case string:
		if i, err := strconv.ParseInt(strings.TrimSpace(n), 10, 64); err == nil {
			return i, true
		}
	}
	return 0, false
}
