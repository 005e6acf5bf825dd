package cli

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/weesnerdevelopment/authkit/internal/client/gateway"
	"github.com/weesnerdevelopment/authkit/internal/envelope"
	"github.com/weesnerdevelopment/authkit/internal/models"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for account details and creates a new account via the
// session manager. On success the session is established immediately.
// The password byte slice is securely wiped before returning.
func (a *App) Register(ctx context.Context) error {
	name, err := getSimpleText(a.reader, "Enter name", os.Stdout)
	if err != nil {
		return err
	}

	email, err := getSimpleText(a.reader, "Enter email", os.Stdout)
	if err != nil {
		return err
	}

	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	u := models.User{
		Name:     name,
		Email:    email,
		Username: userName,
		Password: string(password),
	}
	if _, err := a.session.SignUp(ctx, u.Obfuscated()); err != nil {
		printlnFn(envelope.UserMessage(err))
		return err
	}

	printlnFn("Success!")
	return nil
}

// Login prompts for credentials and authenticates against the server.
// Failures are reported with the human-readable message for the server's
// reason code; the password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	userName, err := getSimpleText(a.reader, "Enter username", os.Stdout)
	if err != nil {
		return err
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	creds := models.Hashed(userName, string(password))

	if _, err := a.session.Login(ctx, creds); err != nil {
		if errors.Is(err, gateway.ErrUnavailable) {
			printlnFn("Server unavailable, try again later")
		} else {
			printlnFn(envelope.UserMessage(err))
		}
		return err
	}

	printlnFn("Success!")
	return nil
}

// Whoami prints the cached account without touching the network.
func (a *App) Whoami(ctx context.Context) error {
	u := a.session.CurrentUser()
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (username %s)", u.Name, u.Email, u.Username))
	return nil
}

// Refresh re-fetches the account from the server, re-authenticating
// silently from the stored token if the server reports no session.
func (a *App) Refresh(ctx context.Context) error {
	u, err := a.session.GetCurrentUser(ctx)
	if err != nil {
		printlnFn(envelope.UserMessage(err))
		return err
	}
	if u == nil {
		printlnFn("Not logged in")
		return nil
	}
	printlnFn(fmt.Sprintf("%s <%s> (username %s)", u.Name, u.Email, u.Username))
	return nil
}

// Update prompts for new account details. Blank answers keep the current
// value; an entered password replaces the stored one.
func (a *App) Update(ctx context.Context) error {
	cur := a.session.CurrentUser()
	if cur == nil {
		printlnFn("Not logged in")
		return nil
	}

	name, err := getSimpleText(a.reader, "Enter name (blank to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if name == "" {
		name = cur.Name
	}

	email, err := getSimpleText(a.reader, "Enter email (blank to keep)", os.Stdout)
	if err != nil {
		return err
	}
	if email == "" {
		email = cur.Email
	}

	password, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer wipeBytes(password)

	u := models.User{
		Name:     name,
		Email:    email,
		Username: cur.Username,
		Password: string(password),
	}
	if _, err := a.session.Update(ctx, u.Obfuscated()); err != nil {
		printlnFn(envelope.UserMessage(err))
		return err
	}

	printlnFn("Success!")
	return nil
}

// Logout ends the session and removes the stored token. Local state is
// cleared even when the server call fails.
func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		printlnFn(envelope.UserMessage(err))
		return err
	}
	printlnFn("Logged out")
	return nil
}
