package session

import (
	"context"
	"fmt"
	"log/slog"

	"expensetracker/internal/data"
)

// Authenticator checks credentials against the user list of the data
// endpoint. Passwords are compared as stored.
type Authenticator struct {
	users  data.UserLister
	state  *State
	logger *slog.Logger
}

func NewAuthenticator(users data.UserLister, state *State, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{users: users, state: state, logger: logger}
}

// Login fetches every user and signs the state in on an exact match. The
// error is non-nil only when the user list could not be fetched.
func (a *Authenticator) Login(ctx context.Context, username, password string) (bool, error) {
	users, err := a.users.ListUsers(ctx)
	if err != nil {
		return false, fmt.Errorf("fetch users: %w", err)
	}
	for _, u := range users {
		if u.Matches(username, password) {
			a.state.SignIn()
			a.logger.InfoContext(ctx, "User logged in", "component", "session", "username", username)
			return true, nil
		}
	}
	a.logger.InfoContext(ctx, "Login rejected", "component", "session", "username", username)
	return false, nil
}

// Logout returns the state to logged out.
func (a *Authenticator) Logout(ctx context.Context) {
	a.state.SignOut()
	a.logger.InfoContext(ctx, "User logged out", "component", "session")
}
