package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weesnerdevelopment/authkit/internal/client/gateway"
	"github.com/weesnerdevelopment/authkit/internal/client/tokenstore"
	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/models"
	"github.com/weesnerdevelopment/authkit/internal/server/users"
)

type memRepo struct {
	byUsername map[string]*users.User
}

func newMemRepo() *memRepo {
	return &memRepo{byUsername: make(map[string]*users.User)}
}

func (m *memRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	if _, ok := m.byUsername[u.Username]; ok {
		return nil, users.ErrDuplicateUsername
	}
	cp := *u
	m.byUsername[u.Username] = &cp
	return &cp, nil
}

func (m *memRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	u, ok := m.byUsername[username]
	if !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) Update(ctx context.Context, u *users.User) (*users.User, error) {
	if _, ok := m.byUsername[u.Username]; !ok {
		return nil, users.ErrNotFound
	}
	cp := *u
	m.byUsername[u.Username] = &cp
	return &cp, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	h := NewHandler(users.NewService(newMemRepo()), []byte("test-secret"), time.Minute, zerolog.Nop())
	return Router(h, nil)
}

func doJSON(t *testing.T, router http.Handler, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func tokenFrom(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	env, err := envelope.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	tr, err := envelope.Parse[models.TokenResponse](env)
	require.NoError(t, err)
	require.NotEmpty(t, tr.Token)
	return tr.Token
}

func reasonFrom(t *testing.T, rec *httptest.ResponseRecorder) envelope.Reason {
	t.Helper()
	se := envelope.DecodeServerError(rec.Code, rec.Body.Bytes())
	return se.Reason()
}

func TestSignUpThenGetAccount(t *testing.T) {
	router := newTestRouter(t)

	signUp := models.User{Name: "Ada", Email: "ada@example.com", Username: "ada", Password: "secret"}.Obfuscated()
	rec := doJSON(t, router, http.MethodPost, "/user/signUp", "", signUp)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	token := tokenFrom(t, rec)

	rec = doJSON(t, router, http.MethodGet, "/user/account", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env, err := envelope.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	u, err := envelope.Parse[models.User](env)
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)
	assert.Equal(t, "Ada", u.Name)
	assert.Empty(t, u.Password)
}

func TestLogin_WrongPassword(t *testing.T) {
	router := newTestRouter(t)

	signUp := models.User{Username: "ada", Password: "secret"}.Obfuscated()
	rec := doJSON(t, router, http.MethodPost, "/user/signUp", "", signUp)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/user/login", "", models.Hashed("ada", "wrong"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, envelope.ReasonInvalidUserInfo, reasonFrom(t, rec))
}

func TestLogin_UnknownUser(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/user/login", "", models.Hashed("ghost", "pw"))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, envelope.ReasonNoUserFound, reasonFrom(t, rec))
}

func TestGetAccount_RequiresToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/user/account", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, envelope.ReasonNoUserFound, reasonFrom(t, rec))
}

func TestGetAccount_GarbageToken(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/user/account", "not.a.jwt", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSignUp_DuplicateUsername(t *testing.T) {
	router := newTestRouter(t)

	signUp := models.User{Username: "ada", Password: "secret"}.Obfuscated()
	rec := doJSON(t, router, http.MethodPost, "/user/signUp", "", signUp)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/user/signUp", "", signUp)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, envelope.ReasonInvalidUserInfo, reasonFrom(t, rec))
}

func TestUpdate_ChangesNameAndEmail(t *testing.T) {
	router := newTestRouter(t)

	signUp := models.User{Name: "Ada", Email: "ada@example.com", Username: "ada", Password: "secret"}.Obfuscated()
	rec := doJSON(t, router, http.MethodPost, "/user/signUp", "", signUp)
	require.Equal(t, http.StatusOK, rec.Code)
	token := tokenFrom(t, rec)

	update := models.User{Name: "Ada Lovelace", Email: "ada@new.example.com"}
	rec = doJSON(t, router, http.MethodPut, "/user", token, update)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	env, err := envelope.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	u, err := envelope.Parse[models.User](env)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", u.Name)
	assert.Equal(t, "ada@new.example.com", u.Email)
	assert.Equal(t, "ada", u.Username)
}

// Error envelopes must match the documented wire shape exactly.
func TestErrorEnvelopeShape(t *testing.T) {
	router := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/user/login", "", models.Hashed("ghost", "pw"))

	want := fmt.Sprintf(`{"status":401,"message":"{\"reasonCode\":%d}"}`, int(envelope.ReasonNoUserFound))
	assert.JSONEq(t, want, rec.Body.String())
}

// The real client gateway should be able to run a full signup, account
// fetch, and login cycle against this server.
func TestClientGatewayRoundTrip(t *testing.T) {
	srv := httptest.NewServer(newTestRouter(t))
	defer srv.Close()

	ctx := context.Background()
	tokens := tokenstore.NewMemoryStore()
	g := gateway.NewHTTPGateway(srv.URL+"/user", srv.Client(), tokens, nil)

	u, err := g.SignUp(ctx, models.User{Name: "Ada", Email: "ada@example.com", Username: "ada", Password: "secret"}.Obfuscated())
	require.NoError(t, err)
	require.NotNil(t, u)
	assert.Equal(t, "ada", u.Username)

	u, err = g.GetUser(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Ada", u.Name)

	require.NoError(t, g.Logout(ctx))

	u, err = g.Login(ctx, models.Hashed("ada", "secret"))
	require.NoError(t, err)
	assert.Equal(t, "ada", u.Username)

	_, err = g.Login(ctx, models.Hashed("ada", "wrong"))
	require.Error(t, err)
}
