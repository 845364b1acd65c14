package client

import (
	"context"
)

// LoginRequest is the full credential set sent with do=login.
type LoginRequest struct {
	Username   string
	Password   string
	RememberMe bool
	TwoFactor  string
	Captcha    string
	Salt       string
}

// PasswordChange carries the three password fields of do=updatePassword.
type PasswordChange struct {
	Current string
	New     string
	Confirm string
}

type Client interface {
	Login(ctx context.Context, req LoginRequest) (*Response, error)
	Logout(ctx context.Context) (*Response, error)
	Change2Factor(ctx context.Context, force bool) (*Response, error)
	Update2Factor(ctx context.Context, secret, code string) (*Response, error)
	UpdatePassword(ctx context.Context, req PasswordChange) (*Response, error)
	Disable2Factor(ctx context.Context) (*Response, error)
	LostPassword(ctx context.Context, email string) (*Response, error)
	ResetPassword(ctx context.Context, params map[string]string) (*Response, error)
}
