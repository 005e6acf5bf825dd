// Package session owns the current authenticated user. It coordinates
// every account operation through the auth gateway, keeps the single
// user cell consistent, and broadcasts each change to subscribers.
//
// State machine: Anonymous <-> Authenticated. Any successful operation
// that yields a user moves to Authenticated; logout, any failure, or an
// unrecoverable empty account moves to Anonymous. All session-mutating
// operations are serialized behind one mutex, so two concurrent
// operations can never interleave their update and publish steps.
package session

import (
	"context"
	"errors"
	"sync"

	"github.com/weesnerdevelopment/authkit/internal/client/gateway"
	"github.com/weesnerdevelopment/authkit/internal/client/identity"
	"github.com/weesnerdevelopment/authkit/internal/client/tokenstore"
	"github.com/weesnerdevelopment/authkit/internal/logging"
	"github.com/weesnerdevelopment/authkit/internal/models"
)

// subscriberBuffer is the per-subscriber queue depth. Publishing never
// blocks: when a subscriber falls this far behind, its oldest pending
// value is dropped in favor of the newest.
const subscriberBuffer = 8

// Manager is the session coordinator. Create one per process with
// NewManager; the zero value is not usable.
type Manager struct {
	auth   gateway.Auth
	tokens tokenstore.Store
	log    logging.Logger

	// mu serializes session-mutating operations and guards current.
	mu      sync.Mutex
	current *models.User

	subMu  sync.Mutex
	subs   map[int]chan *models.User
	nextID int
}

func NewManager(auth gateway.Auth, tokens tokenstore.Store, log logging.Logger) *Manager {
	return &Manager{
		auth:   auth,
		tokens: tokens,
		log:    logging.OrNop(log),
		subs:   make(map[int]chan *models.User),
	}
}

// CurrentUser returns the user of the active session, or nil when
// anonymous.
func (m *Manager) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.current
}

// Subscribe registers an observer of user-state changes. Every
// transition delivers the new current user (nil for anonymous) on the
// returned channel. The cancel function unregisters the observer and
// closes the channel.
func (m *Manager) Subscribe() (<-chan *models.User, func()) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	id := m.nextID
	m.nextID++

	ch := make(chan *models.User, subscriberBuffer)
	m.subs[id] = ch

	cancel := func() {
		m.subMu.Lock()
		defer m.subMu.Unlock()
		if _, ok := m.subs[id]; ok {
			delete(m.subs, id)
			close(ch)
		}
	}
	return ch, cancel
}

// GetCurrentUser refreshes the session from the backend.
//
// An empty account payload combined with a cached token triggers one
// silent re-authentication: the identity hint embedded in the token is
// replayed through Login and its outcome is adopted. Without a usable
// token the session simply becomes anonymous. Any other failure clears
// the session and is surfaced.
func (m *Manager) GetCurrentUser(ctx context.Context) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, err := m.auth.GetUser(ctx)
	switch {
	case err == nil:
		m.setCurrent(u)
		return u, nil
	case errors.Is(err, gateway.ErrEmptyPayload):
		return m.reauthenticate(ctx)
	default:
		m.setCurrent(nil)
		return nil, err
	}
}

// Login authenticates with already-encoded credentials.
func (m *Manager) Login(ctx context.Context, user models.HashedUser) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.auth.Login(ctx, user)
	return m.finish(ctx, u, err)
}

// SignUp creates an account and opens a session for it.
func (m *Manager) SignUp(ctx context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.auth.SignUp(ctx, user)
	return m.finish(ctx, u, err)
}

// Update replaces the account record in place; the session stays
// authenticated on success.
func (m *Manager) Update(ctx context.Context, user models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, err := m.auth.Update(ctx, user)
	return m.finish(ctx, u, err)
}

// Logout ends the session. The current user is cleared and nil is
// published before control returns, regardless of the gateway outcome.
func (m *Manager) Logout(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.auth.Logout(ctx)
	m.setCurrent(nil)
	return err
}

// reauthenticate replays the identity hint from the cached token through
// Login, exactly once. Callers hold m.mu.
func (m *Manager) reauthenticate(ctx context.Context) (*models.User, error) {
	token, err := m.tokens.Get(ctx)
	if err != nil {
		m.setCurrent(nil)
		return nil, err
	}
	if token == "" {
		m.setCurrent(nil)
		return nil, nil
	}

	hint, err := identity.FromToken(token)
	if err != nil {
		m.log.Warn(ctx, "cached token carries no usable identity", "err", err)
		m.setCurrent(nil)
		return nil, err
	}

	m.log.Info(ctx, "attempting silent re-authentication")
	u, err := m.auth.Login(ctx, hint.Hashed())
	return m.finish(ctx, u, err)
}

// finish applies the shared completion contract: success installs and
// publishes the user, an empty payload counts as "no user", and every
// failure clears the session before being surfaced. Callers hold m.mu.
func (m *Manager) finish(ctx context.Context, u *models.User, err error) (*models.User, error) {
	switch {
	case err == nil:
		m.setCurrent(u)
		return u, nil
	case errors.Is(err, gateway.ErrEmptyPayload):
		m.log.Info(ctx, "operation completed without account data")
		m.setCurrent(nil)
		return nil, nil
	default:
		m.setCurrent(nil)
		return nil, err
	}
}

// setCurrent installs the new user and broadcasts it. Callers hold m.mu.
func (m *Manager) setCurrent(u *models.User) {
	m.current = u
	m.publish(u)
}

// publish fans the value out to all subscribers without ever blocking:
// a full queue loses its oldest entry so the newest state always lands.
func (m *Manager) publish(u *models.User) {
	m.subMu.Lock()
	defer m.subMu.Unlock()

	for _, ch := range m.subs {
		select {
		case ch <- u:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- u:
			default:
			}
		}
	}
}
