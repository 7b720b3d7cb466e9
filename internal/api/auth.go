package api

import (
	"context"

	"github.com/AKASH-DEV-23/taskctl/pkg/models"
)

// AuthClient wraps the /auth endpoints.
type AuthClient struct {
	client *Client
}

// NewAuthClient creates an AuthClient on top of the shared HTTP wrapper.
func NewAuthClient(c *Client) *AuthClient {
	return &AuthClient{client: c}
}

// Register creates an account. A response flagged RequiresVerification
// carries no token; the caller proceeds to the verification screen.
func (a *AuthClient) Register(ctx context.Context, creds models.SignupCredentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.client.post(ctx, "/auth/register", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Login exchanges credentials for a token.
func (a *AuthClient) Login(ctx context.Context, creds models.LoginCredentials) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.client.post(ctx, "/auth/login", creds, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GoogleAuth exchanges a Google OAuth authorization code for a token.
func (a *AuthClient) GoogleAuth(ctx context.Context, code string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"code": code}
	if err := a.client.post(ctx, "/auth/google-auth", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Profile fetches the current user for the stored token.
func (a *AuthClient) Profile(ctx context.Context) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.client.get(ctx, "/auth/profile", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// VerifyEmail submits the six-digit one-time code.
func (a *AuthClient) VerifyEmail(ctx context.Context, email, code string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	if err := a.client.post(ctx, "/auth/verify-email", models.VerifyEmailCredentials{Email: email, Code: code}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ResendOTP requests a fresh verification code for email.
func (a *AuthClient) ResendOTP(ctx context.Context, email string) (*models.AuthResponse, error) {
	var resp models.AuthResponse
	body := map[string]string{"email": email}
	if err := a.client.post(ctx, "/auth/resend-otp", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
