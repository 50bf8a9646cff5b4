package client

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
)

// classify maps a non-2xx response to an *Error.
func classify(status int, body []byte) *Error {
	switch {
	case status == http.StatusUnauthorized:
		return newError(ErrUnauthorized, status, MsgInvalidCreds, nil)
	case status == http.StatusBadRequest:
		msg := extractMessage(body)
		if msg == "" {
			msg = MsgValidationDefault
		}
		return newError(ErrValidation, status, msg, nil)
	case status == http.StatusConflict:
		return newError(ErrConflict, status, MsgConflict, nil)
	case status == http.StatusNotFound:
		return newError(ErrNotFound, status, MsgNotFound, nil)
	case status >= http.StatusInternalServerError:
		return newError(ErrServer, status, MsgServer, nil)
	default:
		msg := extractMessage(body)
		if msg == "" {
			msg = http.StatusText(status)
		}
		return newError(ErrUnexpected, status, msg, nil)
	}
}

// messageKeys are tried in order on object bodies.
var messageKeys = []string{"message", "mensagem", "error", "erro", "errors", "erros"}

// extractMessage pulls human-readable text out of an error body. It accepts
// a bare string (JSON or plain text), an object with one of messageKeys, an
// array of strings, or an object whose values are arrays of strings (field
// errors). Multiple messages are joined with "; ".
func extractMessage(body []byte) string {
	text := strings.TrimSpace(string(body))
	if text == "" {
		return ""
	}

	var v any
	if err := json.Unmarshal(body, &v); err != nil {
		if strings.HasPrefix(text, "<") {
			return ""
		}
		return text
	}
	return strings.Join(collect(v, 0), "; ")
}

func collect(v any, depth int) []string {
	if depth > 3 {
		return nil
	}
	switch x := v.(type) {
	case string:
		if s := strings.TrimSpace(x); s != "" {
			return []string{s}
		}
	case []any:
		var out []string
		for _, item := range x {
			out = append(out, collect(item, depth+1)...)
		}
		return out
	case map[string]any:
		for _, k := range messageKeys {
			if inner, ok := x[k]; ok {
				if out := collect(inner, depth+1); len(out) > 0 {
					return out
				}
			}
		}
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		var out []string
		for _, k := range keys {
			switch x[k].(type) {
			case []any, map[string]any:
				out = append(out, collect(x[k], depth+1)...)
			}
		}
		return out
	}
	return nil
}
