// Package httpapi exposes the account service over the envelope-based
// HTTP wire contract.
package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/models"
	"github.com/weesnerdevelopment/authkit/internal/server/auth"
	"github.com/weesnerdevelopment/authkit/internal/server/users"
)

type Handler struct {
	users    *users.Service
	secret   []byte
	validity time.Duration
	log      zerolog.Logger
}

func NewHandler(us *users.Service, secret []byte, validity time.Duration, log zerolog.Logger) *Handler {
	return &Handler{users: us, secret: secret, validity: validity, log: log}
}

// view strips the account record down to what leaves the server. The
// password never comes back, and the username comes back plain.
func view(u *users.User) models.User {
	return models.User{
		Name:     u.Name,
		Email:    u.Email,
		Username: u.Username,
	}
}

// GetAccount returns the account bound to the bearer token.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	username, ok := identityFromContext(r.Context())
	if !ok {
		respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
		return
	}

	u, err := h.users.Get(r.Context(), username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
			return
		}
		h.log.Error().Err(err).Msg("account lookup failed")
		respondReason(w, http.StatusInternalServerError, envelope.ReasonUnknown)
		return
	}

	respond(w, http.StatusOK, view(u))
}

// Login verifies wire-encoded credentials and hands out a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var body models.HashedUser
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}

	username, err := models.Deobfuscate(body.Username)
	if err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}
	password, err := models.Deobfuscate(body.Password)
	if err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}

	if _, err := h.users.Login(r.Context(), username, password); err != nil {
		switch {
		case errors.Is(err, users.ErrNotFound):
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
		case errors.Is(err, users.ErrInvalidCredentials):
			respondReason(w, http.StatusUnauthorized, envelope.ReasonInvalidUserInfo)
		default:
			h.log.Error().Err(err).Msg("login failed")
			respondReason(w, http.StatusInternalServerError, envelope.ReasonUnknown)
		}
		return
	}

	h.issueToken(w, body.Username, body.Password)
}

// SignUp creates an account from a wire-encoded record and hands out a
// bearer token for the fresh session.
func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var body models.User
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}

	username, err := models.Deobfuscate(body.Username)
	if err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}
	password, err := models.Deobfuscate(body.Password)
	if err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}

	if _, err := h.users.SignUp(r.Context(), body.Name, body.Email, username, password); err != nil {
		switch {
		case errors.Is(err, users.ErrInvalidUserData), errors.Is(err, users.ErrDuplicateUsername):
			respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		default:
			h.log.Error().Err(err).Msg("signup failed")
			respondReason(w, http.StatusInternalServerError, envelope.ReasonUnknown)
		}
		return
	}

	h.issueToken(w, body.Username, body.Password)
}

// Update rewrites the account bound to the bearer token. The username in
// the body is ignored; the token decides which account changes.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	username, ok := identityFromContext(r.Context())
	if !ok {
		respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
		return
	}

	var body models.User
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
		return
	}

	password := ""
	if body.Password != "" {
		p, err := models.Deobfuscate(body.Password)
		if err != nil {
			respondReason(w, http.StatusBadRequest, envelope.ReasonInvalidUserInfo)
			return
		}
		password = p
	}

	u, err := h.users.Update(r.Context(), username, body.Name, body.Email, password)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			respondReason(w, http.StatusUnauthorized, envelope.ReasonNoUserFound)
			return
		}
		h.log.Error().Err(err).Msg("account update failed")
		respondReason(w, http.StatusInternalServerError, envelope.ReasonUnknown)
		return
	}

	respond(w, http.StatusOK, view(u))
}

// issueToken mints a bearer token carrying the wire-encoded credentials
// and writes the token response envelope.
func (h *Handler) issueToken(w http.ResponseWriter, wireUsername, wirePassword string) {
	token, err := auth.GenerateToken(wireUsername, wirePassword, h.secret, h.validity)
	if err != nil {
		h.log.Error().Err(err).Msg("token generation failed")
		respondReason(w, http.StatusInternalServerError, envelope.ReasonUnknown)
		return
	}

	respond(w, http.StatusOK, models.TokenResponse{Token: token})
}
