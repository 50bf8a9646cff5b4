// Package client talks to the SocialHub backend.
//
// # Overview
//
// The package provides:
//  1. The request contract of the backend (see Client): login, register,
//     password reset, current identity, and post listing/mutation.
//  2. An HTTP implementation (see HTTPClient). Authenticated requests carry
//     the session token as a bearer header, attached by a RoundTripper; an
//     HTTP 401 on such a request invalidates the session that issued it.
//  3. Local database bootstrap (InitDatabase, RunMigrations) applying the
//     embedded goose migrations to the client's SQLite file.
//
// # Error Handling
//
// Every failure is normalized into an *Error whose Error() text is fit for
// display and whose kind can be matched with errors.Is: ErrMissingToken,
// ErrUnauthorized, ErrValidation, ErrConflict, ErrNotFound, ErrServer,
// ErrUnavailable, ErrStaleSession, ErrUnexpected.
//
// # Concurrency
//
// HTTPClient is safe for concurrent use. All operations honor context
// cancellation and the configured request timeout.
package client
