package auth

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidToken        = errors.New("invalid or expired token")
	ErrTokenExpired        = errors.New("token has expired")
	ErrRefreshTokenRevoked = errors.New("refresh token has been revoked")
	ErrUserNotFound        = errors.New("user not found")
	ErrOAuthNotConfigured  = errors.New("google sign-in is not configured")
	ErrInvalidOAuthState   = errors.New("invalid oauth state")
	ErrEmailNotVerified    = errors.New("email not verified")
	ErrNotAnAdmin          = errors.New("account is not registered as an admin")
)
