// Package gateway performs the remote account operations. It owns no
// session state: it reads and writes the persisted token through the
// token store and translates transport failures into the typed errors
// in errors.go.
package gateway

import (
	"context"

	"github.com/weesnerdevelopment/authkit/internal/models"
)

// Auth is the remote account surface the session layer builds on.
//
// Contract:
//   - GetUser: fetch the account behind the stored bearer token.
//   - SignUp: create an account, persist the returned token, then fetch
//     and return the account.
//   - Login: authenticate, persist the returned token, then fetch and
//     return the account.
//   - Update: authenticated account update; never touches the token.
//   - Logout: local only — remove the stored token.
//
// All methods honor context cancellation.
type Auth interface {
	GetUser(ctx context.Context) (*models.User, error)
	SignUp(ctx context.Context, user models.User) (*models.User, error)
	Login(ctx context.Context, user models.HashedUser) (*models.User, error)
	Update(ctx context.Context, user models.User) (*models.User, error)
	Logout(ctx context.Context) error
}
