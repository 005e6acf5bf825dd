// Package tokenstore persists the single bearer token the SDK holds
// between runs. Exactly one token exists at a time; an absent token is
// reported as a blank string, never as an error, so callers test
// blankness instead of handling a missing-value failure.
package tokenstore

import "context"

// Key under which the token is stored.
const tokenKey = "token"

// Store is the token persistence contract. All operations are
// idempotent: saving overwrites, removing an absent token succeeds.
type Store interface {
	Save(ctx context.Context, token string) error
	Get(ctx context.Context) (string, error)
	Remove(ctx context.Context) error
}
