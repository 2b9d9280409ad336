package api

import (
	"context"
	"net/http"

	"github.com/TechyShie/ecopulse/internal/apierror"
	"github.com/TechyShie/ecopulse/internal/domain/account"
	"go.uber.org/zap"
)

// AuthAPI covers /auth.
type AuthAPI struct {
	c *core
}

// Login exchanges credentials for a token and stores the session. When the
// response carries no user, /auth/me is fetched once; a failure there leaves
// the session authenticated without a user.
func (a *AuthAPI) Login(ctx context.Context, email, password string) (*account.User, error) {
	req := account.LoginRequest{Email: email, Password: password}
	if err := a.c.check(req); err != nil {
		return nil, err
	}

	var resp account.AuthResponse
	if err := a.c.send(ctx, http.MethodPost, "/auth/login", req, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, &apierror.Error{Kind: apierror.KindServer, Status: http.StatusOK, Message: "The server did not return an access token."}
	}
	if err := a.c.session.SetAuth(ctx, resp.AccessToken, resp.User); err != nil {
		return nil, err
	}
	if resp.User != nil {
		return resp.User, nil
	}

	user, err := a.Me(ctx)
	if err != nil {
		if apierror.IsAuthExpired(err) {
			return nil, err
		}
		a.c.logger.Warn("fetching user after login", zap.Error(err))
		return nil, nil
	}
	return user, nil
}

type signupResponse struct {
	ID          int64         `json:"id"`
	Email       string        `json:"email"`
	Username    string        `json:"username"`
	FullName    string        `json:"full_name"`
	AccessToken string        `json:"access_token"`
	User        *account.User `json:"user"`
}

// Signup creates an account. The session is stored only when the server
// returns a token with the created user.
func (a *AuthAPI) Signup(ctx context.Context, email, password, fullName, confirmPassword string) (*account.User, error) {
	req := account.SignupRequest{
		Email:           email,
		Password:        password,
		FullName:        fullName,
		ConfirmPassword: confirmPassword,
	}
	if err := a.c.check(req); err != nil {
		return nil, err
	}

	var resp signupResponse
	if err := a.c.send(ctx, http.MethodPost, "/auth/signup", req, &resp); err != nil {
		return nil, err
	}

	created := account.User{ID: resp.ID, Email: resp.Email, Username: resp.Username, FullName: resp.FullName}
	if resp.User != nil {
		created = *resp.User
	}
	if resp.AccessToken != "" {
		if err := a.c.session.SetAuth(ctx, resp.AccessToken, &created); err != nil {
			return nil, err
		}
	}
	return &created, nil
}

// Me fetches the current user and refreshes the stored copy.
func (a *AuthAPI) Me(ctx context.Context) (*account.User, error) {
	var user account.User
	if err := a.c.get(ctx, "/auth/me", nil, &user); err != nil {
		return nil, err
	}
	if err := a.c.session.SetUser(ctx, user); err != nil {
		a.c.logger.Warn("storing current user", zap.Error(err))
	}
	return &user, nil
}

// Logout clears the local session. The server keeps no session state.
func (a *AuthAPI) Logout(ctx context.Context) error {
	return a.c.session.ClearAuth(ctx)
}
