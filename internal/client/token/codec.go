// Package token decodes the claims carried by the backend's bearer token.
//
// The client has no key to verify the signature, so the claims are only
// hints for display and authorization decisions; the backend remains the
// authority and answers 401 when a token is no longer acceptable.
package token

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/golang-jwt/jwt/v5"
)

// ErrMalformed is returned for any token whose structure or payload cannot
// be decoded. Callers treat it exactly like "no claims".
var ErrMalformed = errors.New("malformed token")

var segmentParser = jwt.NewParser(jwt.WithPaddingAllowed())

// standard → URL-safe alphabet, so payloads encoded either way decode.
var alphabet = strings.NewReplacer("+", "-", "/", "_")

// Decode splits raw into header, payload and signature and returns the JSON
// object carried by the payload. Numbers are kept as json.Number.
func Decode(raw string) (Claims, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 3 {
		return nil, fmt.Errorf("%w: expected 3 segments, got %d", ErrMalformed, len(parts))
	}

	payload, err := segmentParser.DecodeSegment(alphabet.Replace(parts[1]))
	if err != nil {
		return nil, fmt.Errorf("%w: payload is not base64: %v", ErrMalformed, err)
	}
	if !utf8.Valid(payload) {
		return nil, fmt.Errorf("%w: payload is not valid UTF-8", ErrMalformed)
	}

	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()

	var claims Claims
	if err := dec.Decode(&claims); err != nil {
		return nil, fmt.Errorf("%w: payload is not a JSON object: %v", ErrMalformed, err)
	}
	if claims == nil {
		return nil, fmt.Errorf("%w: payload is null", ErrMalformed)
	}
	if dec.More() {
		return nil, fmt.Errorf("%w: trailing data after payload", ErrMalformed)
	}

	return claims, nil
}
