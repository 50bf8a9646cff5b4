package token

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mint(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return s
}

func withPayload(enc *base64.Encoding, payload string) string {
	return "eyJhbGciOiJIUzI1NiJ9." + enc.EncodeToString([]byte(payload)) + ".sig"
}

func TestDecode_SignedToken(t *testing.T) {
	raw := mint(t, jwt.MapClaims{
		"sub":   "a@b.com",
		"nome":  "Ana",
		"id":    42,
		"ongId": 7,
		"tipo":  "ONG",
	})

	c, err := Decode(raw)
	require.NoError(t, err)

	assert.Equal(t, "a@b.com", c.Subject())
	assert.Equal(t, "Ana", c.DisplayName())
	assert.Equal(t, int64(42), c.UserID())
	assert.Equal(t, "ONG", c.Role())

	org, ok := c.OrganizationID()
	assert.True(t, ok)
	assert.Equal(t, int64(7), org)
}

func TestDecode_FallbackClaimNames(t *testing.T) {
	c, err := Decode(mint(t, jwt.MapClaims{
		"sub":    "x@y.z",
		"name":   "Xavier",
		"userId": "15",
		"role":   "USUARIO",
	}))
	require.NoError(t, err)

	assert.Equal(t, "Xavier", c.DisplayName())
	assert.Equal(t, int64(15), c.UserID())
	assert.Equal(t, "USUARIO", c.Role())

	_, ok := c.OrganizationID()
	assert.False(t, ok)
}

func TestDecode_PaddingAndAlphabetVariants(t *testing.T) {
	payload := `{"sub":"` + strings.Repeat("~", 30) + `"}`

	for name, raw := range map[string]string{
		"raw url":      withPayload(base64.RawURLEncoding, payload),
		"padded url":   withPayload(base64.URLEncoding, payload),
		"std alphabet": withPayload(base64.StdEncoding, payload),
	} {
		t.Run(name, func(t *testing.T) {
			c, err := Decode(raw)
			require.NoError(t, err)
			assert.Equal(t, strings.Repeat("~", 30), c.Subject())
		})
	}
	require.Contains(t, base64.StdEncoding.EncodeToString([]byte(payload)), "+")
}

func TestDecode_UnicodePayload(t *testing.T) {
	c, err := Decode(withPayload(base64.RawURLEncoding, `{"sub":"joão@ex.com","nome":"João Conceição"}`))
	require.NoError(t, err)
	assert.Equal(t, "joão@ex.com", c.Subject())
	assert.Equal(t, "João Conceição", c.DisplayName())
}

func TestDecode_Failures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"empty", ""},
		{"one segment", "abc"},
		{"two segments", "abc.def"},
		{"four segments", "a.b.c.d"},
		{"bad base64", "a.!!!.c"},
		{"not json", withPayload(base64.RawURLEncoding, "hello")},
		{"json array", withPayload(base64.RawURLEncoding, `["sub"]`)},
		{"json null", withPayload(base64.RawURLEncoding, `null`)},
		{"trailing data", withPayload(base64.RawURLEncoding, `{"sub":"a"}{"sub":"b"}`)},
		{"invalid utf8", withPayload(base64.RawURLEncoding, "{\"sub\":\"\xff\xfe\"}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := Decode(tt.raw)
			require.ErrorIs(t, err, ErrMalformed)
			assert.Nil(t, c)
		})
	}
}

func TestClaims_SubjectMissingOrWrongType(t *testing.T) {
	c, err := Decode(withPayload(base64.RawURLEncoding, `{"nome":"Ana"}`))
	require.NoError(t, err)
	assert.Empty(t, c.Subject())

	c, err = Decode(withPayload(base64.RawURLEncoding, `{"sub":12}`))
	require.NoError(t, err)
	assert.Empty(t, c.Subject())

	c, err = Decode(withPayload(base64.RawURLEncoding, `{"sub":"   "}`))
	require.NoError(t, err)
	assert.Empty(t, c.Subject())
}

func TestDecode_IsDeterministic(t *testing.T) {
	raw := mint(t, jwt.MapClaims{"sub": "a@b.com", "id": 1})

	a, err := Decode(raw)
	require.NoError(t, err)
	b, err := Decode(raw)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}
