package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/weesnerdevelopment/authkit/internal/client/tokenstore"
	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/logging"
	"github.com/weesnerdevelopment/authkit/internal/models"
)

// Endpoint paths relative to the auth base URL.
const (
	pathAccount = "/account"
	pathLogin   = "/login"
	pathSignUp  = "/signUp"
)

// HTTPGateway implements Auth over the backend's JSON envelope surface.
type HTTPGateway struct {
	baseURL string
	http    *http.Client
	tokens  tokenstore.Store
	log     logging.Logger
}

// NewHTTPGateway builds a gateway for the given auth base URL (e.g.
// "https://api.example.com/user"). A nil httpClient falls back to a
// default client; timeouts are the transport's business, not ours.
func NewHTTPGateway(baseURL string, httpClient *http.Client, tokens tokenstore.Store, log logging.Logger) *HTTPGateway {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &HTTPGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		tokens:  tokens,
		log:     logging.OrNop(log),
	}
}

func (g *HTTPGateway) GetUser(ctx context.Context) (*models.User, error) {
	resp, err := g.do(ctx, http.MethodGet, g.baseURL+pathAccount, true, nil)
	if err != nil {
		return nil, err
	}
	return g.parseUser(ctx, resp)
}

func (g *HTTPGateway) SignUp(ctx context.Context, user models.User) (*models.User, error) {
	return g.authenticate(ctx, pathSignUp, user)
}

func (g *HTTPGateway) Login(ctx context.Context, user models.HashedUser) (*models.User, error) {
	return g.authenticate(ctx, pathLogin, user)
}

func (g *HTTPGateway) Update(ctx context.Context, user models.User) (*models.User, error) {
	resp, err := g.do(ctx, http.MethodPut, g.baseURL, true, user)
	if err != nil {
		return nil, err
	}
	return g.parseUser(ctx, resp)
}

// Logout removes the stored token. Purely local, safe to repeat.
func (g *HTTPGateway) Logout(ctx context.Context) error {
	if err := g.tokens.Remove(ctx); err != nil {
		return err
	}
	g.log.Info(ctx, "logged out, stored token removed")
	return nil
}

// authenticate is the shared login/signUp flow: submit credentials,
// persist the token from the response, then fetch the account with it.
func (g *HTTPGateway) authenticate(ctx context.Context, path string, body any) (*models.User, error) {
	resp, err := g.do(ctx, http.MethodPost, g.baseURL+path, false, body)
	if err != nil {
		return nil, err
	}

	tr, err := envelope.Parse[models.TokenResponse](resp)
	if errors.Is(err, envelope.ErrEmptyMessage) {
		return nil, ErrTokenMissing
	}
	if err != nil {
		return nil, err
	}
	if tr.Token == "" {
		return nil, ErrTokenMissing
	}

	if err := g.tokens.Save(ctx, tr.Token); err != nil {
		return nil, fmt.Errorf("persist token: %w", err)
	}

	return g.GetUser(ctx)
}

func (g *HTTPGateway) parseUser(ctx context.Context, resp *envelope.Response) (*models.User, error) {
	u, err := envelope.Parse[models.User](resp)
	if errors.Is(err, envelope.ErrEmptyMessage) {
		// Expected "no data" case: logged, not raised as a failure.
		g.log.Info(ctx, "account response carried no payload")
		return nil, ErrEmptyPayload
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// do performs one HTTP round trip and hands back the decoded envelope.
// Non-2xx responses come back as *envelope.ServerError; connection and
// timeout failures as ErrUnavailable.
func (g *HTTPGateway) do(ctx context.Context, method, url string, authed bool, body any) (*envelope.Response, error) {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authed {
		token, err := g.tokens.Get(ctx)
		if err != nil {
			return nil, fmt.Errorf("read token: %w", err)
		}
		if token == "" {
			return nil, ErrAuthRequired
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return nil, classifyTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		serverErr := envelope.DecodeServerError(resp.StatusCode, raw)
		g.log.Warn(ctx, "request rejected",
			"method", method, "url", url,
			"status", resp.StatusCode, "reason", serverErr.Reason().String())
		return nil, serverErr
	}

	return envelope.Decode(raw)
}

// classifyTransport separates "the server cannot be reached" from other
// transport problems.
func classifyTransport(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var nerr net.Error
	if errors.As(err, &nerr) && nerr.Timeout() {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	return err
}
