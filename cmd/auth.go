package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"muselib/internal/models"
	"muselib/internal/session"
	"muselib/internal/shared"
)

// AuthLogin exchanges credentials for a session token and stores it on disk.
func (r *Runner) AuthLogin(ctx context.Context, cmd *cli.Command) error {
	username := cmd.StringArg("username")
	password := cmd.StringArg("password")

	if err := models.ValidateLogin(username, password); err != nil {
		return err
	}

	r.logger.Info("logging in", "username", username)

	token, err := r.client.Login(ctx, username, password)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAuthFailed, err)
	}

	if err := r.store.Set(token); err != nil {
		return fmt.Errorf("failed to store session token: %w", err)
	}

	r.logger.Info("session token stored")
	return r.writePlain("✓ Logged in as %s\n", username)
}

// AuthRegister creates a new account. Registration never logs in; the new
// credentials go through the login flow.
func (r *Runner) AuthRegister(ctx context.Context, cmd *cli.Command) error {
	profile := models.Registration{
		FirstName: cmd.String("first-name"),
		LastName:  cmd.String("last-name"),
		Username:  cmd.String("username"),
		Password:  cmd.String("password"),
	}

	if err := profile.Validate(); err != nil {
		return err
	}

	r.logger.Info("registering account", "username", profile.Username)

	if err := r.client.Register(ctx, profile); err != nil {
		return fmt.Errorf("registration failed: %w", err)
	}

	r.writePlain("✓ Account created for %s\n", profile.Username)
	return r.writePlain("Run 'muselib auth login %s <password>' to sign in\n", profile.Username)
}

// AuthLogout removes the stored session token.
func (r *Runner) AuthLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.store.Clear(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}

	r.logger.Info("session cleared")
	return r.writePlain("✓ Logged out\n")
}

// AuthStatus reports whether a session token is stored.
func (r *Runner) AuthStatus(ctx context.Context, cmd *cli.Command) error {
	if session.Authenticated(r.store) {
		return r.writePlain("✓ Logged in\n")
	}
	return r.writePlain("✗ Not logged in\n")
}
