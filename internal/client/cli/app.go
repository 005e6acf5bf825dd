// Package cli is the interactive front end of the authkit client: a
// small REPL over the session manager.
package cli

import (
	"bufio"
	"context"
	"log/slog"
	"os"

	"github.com/weesnerdevelopment/authkit/internal/client/config"
	"github.com/weesnerdevelopment/authkit/internal/client/gateway"
	"github.com/weesnerdevelopment/authkit/internal/client/session"
	"github.com/weesnerdevelopment/authkit/internal/client/tokenstore"
	"github.com/weesnerdevelopment/authkit/internal/logging"
	"github.com/weesnerdevelopment/authkit/internal/models"
)

// sessions is the slice of the session manager the CLI needs; tests
// substitute a stub.
type sessions interface {
	CurrentUser() *models.User
	GetCurrentUser(ctx context.Context) (*models.User, error)
	Login(ctx context.Context, user models.HashedUser) (*models.User, error)
	SignUp(ctx context.Context, user models.User) (*models.User, error)
	Update(ctx context.Context, user models.User) (*models.User, error)
	Logout(ctx context.Context) error
}

type App struct {
	config  *config.Config
	session sessions
	log     logging.Logger
	reader  *bufio.Reader
}

func NewApp(c *config.Config) (*App, error) {
	ctx := context.Background()

	db, err := tokenstore.Open(ctx, c.CredentialsDB)
	if err != nil {
		return nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, nil)))
	tokens := tokenstore.NewSQLiteStore(db)
	gw := gateway.NewHTTPGateway(c.AuthBaseURL, nil, tokens, logger)

	return &App{
		config:  c,
		session: session.NewManager(gw, tokens, logger),
		log:     logger,
		reader:  bufio.NewReader(os.Stdin),
	}, nil
}

func (a *App) isLoggedIn() bool {
	return a.session.CurrentUser() != nil
}

func (a *App) Run(ctx context.Context) {
	// Resume a previous session if a cached token still works.
	if _, err := a.session.GetCurrentUser(ctx); err != nil {
		a.log.Debug(ctx, "no session to resume", "err", err)
	}

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) status() string {
	if u := a.session.CurrentUser(); u != nil {
		return u.Name
	}
	return "anonymous"
}
