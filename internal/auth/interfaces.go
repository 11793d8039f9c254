// File: internal/auth/interfaces.go
package auth

import (
	"context"

	fbauth "firebase.google.com/go/v4/auth"

	"dentalscope_backend/internal/clerk"
)

// FirebaseVerifier is the slice of the Firebase service the session handler
// uses: ID token verification on sign-in and refresh token revocation on
// sign-out.
type FirebaseVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
	RevokeRefreshTokens(ctx context.Context, uid string) error
}

// ClerkVerifier verifies Clerk session tokens against the instance JWKS.
type ClerkVerifier interface {
	VerifySessionToken(ctx context.Context, token string) (*clerk.SessionClaims, error)
}
