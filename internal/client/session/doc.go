// Package session owns the credential lifecycle of the client: it restores a
// persisted token at start, logs users in and out, registers new accounts,
// and derives the current identity and role from the token claims.
//
// A Store is created once per running client and passed to its consumers.
// Readers (State, Identity, Token, ...) never block on I/O; the lock that
// guards the state is never held across a network or storage call, so two
// concurrent logins are applied in the order their responses arrive.
//
// Lifecycle:
//
//	s := session.New(api, repo, nav, log)
//	_ = s.Restore(ctx) // exactly once, before protected views render
//	...
//	s.Teardown(ctx)
package session
