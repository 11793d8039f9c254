// File: internal/clerk/service.go
package clerk

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"gopkg.in/square/go-jose.v2"
	josejwt "gopkg.in/square/go-jose.v2/jwt"

	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/shared"
)

const keysCacheTTL = 24 * time.Hour

// ClerkService verifies Clerk session JWTs against the instance JWKS.
type ClerkService struct {
	jwksURL string
	issuer  string
	logger  *zap.Logger

	keysMu      sync.Mutex
	keys        *jose.JSONWebKeySet
	keysExpiry  time.Time
	httpTimeout time.Duration
}

// SessionClaims are the claims carried by a Clerk session token.
type SessionClaims struct {
	josejwt.Claims
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
	EmailVerified bool   `json:"email_verified,omitempty"`
}

// NewClerkService creates a new Clerk verifier.
func NewClerkService(cfg *config.Config, logger *zap.Logger) (*ClerkService, error) {
	if cfg.ClerkJWKSURL == "" || cfg.ClerkIssuer == "" {
		logger.Error("Clerk JWKS URL or issuer is not configured.")
		return nil, fmt.Errorf("CLERK_JWKS_URL and CLERK_ISSUER are required")
	}
	return &ClerkService{
		jwksURL:     cfg.ClerkJWKSURL,
		issuer:      cfg.ClerkIssuer,
		logger:      logger.Named("clerk_service"),
		httpTimeout: 10 * time.Second,
	}, nil
}

func (s *ClerkService) publicKeys(ctx context.Context) (*jose.JSONWebKeySet, error) {
	s.keysMu.Lock()
	defer s.keysMu.Unlock()

	if s.keys != nil && time.Now().Before(s.keysExpiry) {
		return s.keys, nil
	}

	reqCtx, cancel := context.WithTimeout(ctx, s.httpTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, s.jwksURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building JWKS request: %w", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch Clerk public keys from %s: %w", s.jwksURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("failed to fetch Clerk public keys: status %s, body: %s", resp.Status, string(bodyBytes))
	}

	var jwks jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return nil, fmt.Errorf("failed to decode Clerk public keys JSON: %w", err)
	}

	s.keys = &jwks
	s.keysExpiry = time.Now().Add(keysCacheTTL)
	return s.keys, nil
}

// VerifySessionToken validates a Clerk session JWT and returns its claims.
// The signing key is looked up by the token's kid in the cached JWKS.
func (s *ClerkService) VerifySessionToken(ctx context.Context, tokenStr string) (*SessionClaims, error) {
	if tokenStr == "" {
		return nil, errors.New("session token must not be empty")
	}

	parsedToken, err := josejwt.ParseSigned(tokenStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Clerk session token: %w", err)
	}

	jwks, err := s.publicKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not get Clerk public keys for verification: %w", err)
	}

	var verificationKey interface{}
	var kidUsed string
	for _, header := range parsedToken.Headers {
		if header.KeyID != "" {
			kidUsed = header.KeyID
			keys := jwks.Key(header.KeyID)
			if len(keys) > 0 {
				actualKey := keys[0].Key
				switch actualKey.(type) {
				case *rsa.PublicKey:
					verificationKey = actualKey
				default:
					return nil, fmt.Errorf("unexpected key type in JWKS for kid %s: %T", header.KeyID, actualKey)
				}
				break
			}
		}
	}

	if verificationKey == nil {
		if kidUsed != "" {
			return nil, fmt.Errorf("clerk session signing key with kid '%s' not found in JWKS", kidUsed)
		}
		return nil, errors.New("clerk session token 'kid' header missing or signing key not found in JWKS")
	}

	claims := &SessionClaims{}
	if err := parsedToken.Claims(verificationKey, claims); err != nil {
		return nil, fmt.Errorf("failed to verify Clerk session token signature: %w", err)
	}

	expected := josejwt.Expected{
		Issuer: s.issuer,
		Time:   time.Now(),
	}
	if err := claims.Validate(expected); err != nil {
		return nil, fmt.Errorf("clerk session claims validation failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("clerk session token has no subject")
	}

	s.logger.Debug("Clerk session token verified successfully", zap.String("sub", claims.Subject))
	return claims, nil
}

// ClaimsFromSession normalizes verified Clerk session claims into provider
// claims.
func ClaimsFromSession(claims *SessionClaims) shared.ProviderClaims {
	return shared.ProviderClaims{
		Provider:      shared.ProviderClerk,
		StableID:      claims.Subject,
		Email:         claims.Email,
		Name:          claims.Name,
		EmailVerified: claims.EmailVerified,
	}
}
