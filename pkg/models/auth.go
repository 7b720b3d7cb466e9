package models

// AuthResponse is the envelope returned by every auth endpoint.
type AuthResponse struct {
	Success              bool   `json:"success"`
	Token                string `json:"token,omitempty"`
	User                 *User  `json:"user,omitempty"`
	Message              string `json:"message,omitempty"`
	RequiresVerification bool   `json:"requiresVerification,omitempty"`
	Email                string `json:"email,omitempty"`
}

// LoginCredentials is the payload for POST /auth/login.
type LoginCredentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignupCredentials is the payload for POST /auth/register.
type SignupCredentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// VerifyEmailCredentials is the payload for POST /auth/verify-email.
type VerifyEmailCredentials struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}
