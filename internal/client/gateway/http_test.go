package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weesnerdevelopment/authkit/internal/client/tokenstore"
	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/models"
)

func sealBody(t *testing.T, status int, payload any) []byte {
	t.Helper()
	r, err := envelope.Seal(status, payload)
	require.NoError(t, err)
	body, err := json.Marshal(r)
	require.NoError(t, err)
	return body
}

// recordingBackend captures every request the gateway makes and serves
// canned envelope responses per method+path.
type recordingBackend struct {
	t        *testing.T
	requests []*http.Request
	handlers map[string]http.HandlerFunc
}

func newBackend(t *testing.T) *recordingBackend {
	return &recordingBackend{t: t, handlers: map[string]http.HandlerFunc{}}
}

func (b *recordingBackend) on(method, path string, h http.HandlerFunc) {
	b.handlers[method+" "+path] = h
}

func (b *recordingBackend) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	b.requests = append(b.requests, r.Clone(r.Context()))
	h, ok := b.handlers[r.Method+" "+r.URL.Path]
	if !ok {
		b.t.Fatalf("unexpected request: %s %s", r.Method, r.URL.Path)
		return
	}
	h(w, r)
}

func serveUser(t *testing.T, u models.User) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write(sealBody(t, 200, u))
	}
}

func serveToken(t *testing.T, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Write(sealBody(t, 200, models.TokenResponse{Token: token}))
	}
}

func newGateway(t *testing.T, backend *recordingBackend) (*HTTPGateway, *tokenstore.MemoryStore, *httptest.Server) {
	srv := httptest.NewServer(backend)
	t.Cleanup(srv.Close)
	tokens := tokenstore.NewMemoryStore()
	return NewHTTPGateway(srv.URL+"/user", srv.Client(), tokens, nil), tokens, srv
}

func TestGetUser_RequiresToken(t *testing.T) {
	backend := newBackend(t)
	g, _, _ := newGateway(t, backend)

	_, err := g.GetUser(context.Background())
	require.ErrorIs(t, err, ErrAuthRequired)
	assert.Empty(t, backend.requests, "no network call may happen without a token")
}

func TestGetUser_SendsBearerToken(t *testing.T) {
	ctx := context.Background()
	alice := models.User{Name: "Alice", Email: "a@example.com", Username: "YWxpY2U="}

	backend := newBackend(t)
	backend.on(http.MethodGet, "/user/account", serveUser(t, alice))

	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "tok-123"))

	u, err := g.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, alice, *u)

	require.Len(t, backend.requests, 1)
	assert.Equal(t, "Bearer tok-123", backend.requests[0].Header.Get("Authorization"))
}

func TestLogin_PersistsTokenThenFetchesAccount(t *testing.T) {
	ctx := context.Background()
	alice := models.User{Name: "Alice", Username: "YWxpY2U="}

	backend := newBackend(t)
	backend.on(http.MethodPost, "/user/login", serveToken(t, "issued-token"))
	backend.on(http.MethodGet, "/user/account", serveUser(t, alice))

	g, tokens, _ := newGateway(t, backend)

	u, err := g.Login(ctx, models.Hashed("alice", "secret"))
	require.NoError(t, err)
	assert.Equal(t, alice, *u)

	stored, err := tokens.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "issued-token", stored, "stored token must equal the envelope token")

	require.Len(t, backend.requests, 2)
	assert.Empty(t, backend.requests[0].Header.Get("Authorization"), "login itself is unauthenticated")
	assert.Equal(t, "Bearer issued-token", backend.requests[1].Header.Get("Authorization"),
		"the follow-up account fetch must use the freshly issued token")
}

func TestSignUp_SameContractAsLogin(t *testing.T) {
	ctx := context.Background()
	bob := models.User{Name: "Bob", Username: "Ym9i"}

	backend := newBackend(t)
	backend.on(http.MethodPost, "/user/signUp", serveToken(t, "signup-token"))
	backend.on(http.MethodGet, "/user/account", serveUser(t, bob))

	g, tokens, _ := newGateway(t, backend)

	u, err := g.SignUp(ctx, models.User{Name: "Bob", Username: "bob", Password: "pw"}.Obfuscated())
	require.NoError(t, err)
	assert.Equal(t, bob, *u)

	stored, _ := tokens.Get(ctx)
	assert.Equal(t, "signup-token", stored)
}

func TestLogin_TokenMissing(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
	}{
		{"blank token field", func(w http.ResponseWriter, r *http.Request) {
			w.Write(sealBody(t, 200, models.TokenResponse{}))
		}},
		{"empty message", func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"status":200,"message":""}`))
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			backend := newBackend(t)
			backend.on(http.MethodPost, "/user/login", tt.handler)
			g, tokens, _ := newGateway(t, backend)

			_, err := g.Login(context.Background(), models.Hashed("a", "b"))
			require.ErrorIs(t, err, ErrTokenMissing)

			stored, _ := tokens.Get(context.Background())
			assert.Equal(t, "", stored, "no token may be persisted on a failed login")
		})
	}
}

func TestGetUser_EmptyPayloadIsTyped(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	backend.on(http.MethodGet, "/user/account", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":""}`))
	})

	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "tok"))

	u, err := g.GetUser(ctx)
	assert.Nil(t, u)
	require.ErrorIs(t, err, ErrEmptyPayload)
}

func TestGetUser_ServerRejection(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	backend.on(http.MethodGet, "/user/account", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"status":401,"message":"{\"reasonCode\":2}"}`))
	})

	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "stale"))

	_, err := g.GetUser(ctx)

	var se *envelope.ServerError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, 401, se.Status)
	assert.Equal(t, envelope.ReasonInvalidUserInfo, se.Reason())
}

func TestGetUser_ParseFailureSurfaced(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	backend.on(http.MethodGet, "/user/account", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":200,"message":"not json at all"}`))
	})

	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "tok"))

	_, err := g.GetUser(ctx)
	require.ErrorIs(t, err, envelope.ErrMessageDecode)
}

func TestTransportFailureIsUnavailable(t *testing.T) {
	backend := newBackend(t)
	srv := httptest.NewServer(backend)
	tokens := tokenstore.NewMemoryStore()
	g := NewHTTPGateway(srv.URL+"/user", nil, tokens, nil)
	srv.Close() // connection refused from here on

	_, err := g.Login(context.Background(), models.Hashed("a", "b"))
	require.ErrorIs(t, err, ErrUnavailable)
}

func TestUpdate_DoesNotTouchToken(t *testing.T) {
	ctx := context.Background()
	updated := models.User{Name: "Alice Updated", Username: "YWxpY2U="}

	backend := newBackend(t)
	backend.on(http.MethodPut, "/user", serveUser(t, updated))

	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "keep-me"))

	u, err := g.Update(ctx, models.User{Name: "Alice Updated"})
	require.NoError(t, err)
	assert.Equal(t, updated, *u)

	stored, _ := tokens.Get(ctx)
	assert.Equal(t, "keep-me", stored)

	require.Len(t, backend.requests, 1)
	assert.Equal(t, "Bearer keep-me", backend.requests[0].Header.Get("Authorization"))
}

func TestLogout_IdempotentAndLocal(t *testing.T) {
	ctx := context.Background()
	backend := newBackend(t)
	g, tokens, _ := newGateway(t, backend)
	require.NoError(t, tokens.Save(ctx, "tok"))

	require.NoError(t, g.Logout(ctx))
	stored, _ := tokens.Get(ctx)
	assert.Equal(t, "", stored)

	// a second logout succeeds and still leaves the store empty
	require.NoError(t, g.Logout(ctx))
	stored, _ = tokens.Get(ctx)
	assert.Equal(t, "", stored)

	assert.Empty(t, backend.requests, "logout never makes a remote call")
}
