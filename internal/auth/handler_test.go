// File: internal/auth/handler_test.go
package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	fbauth "firebase.google.com/go/v4/auth"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dentalscope_backend/internal/clerk"
	"dentalscope_backend/internal/common"
	"dentalscope_backend/internal/config"
	"dentalscope_backend/internal/identity"
	"dentalscope_backend/internal/shared"
)

type fakeFirebaseVerifier struct {
	mu          sync.Mutex
	uid         string
	revokedUIDs []string
}

func (f *fakeFirebaseVerifier) VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error) {
	if idToken == "" {
		return nil, errors.New("empty token")
	}
	return &fbauth.Token{
		UID: f.uid,
		Claims: map[string]interface{}{
			"email":          "pat@example.com",
			"name":           "Pat",
			"email_verified": true,
		},
	}, nil
}

func (f *fakeFirebaseVerifier) RevokeRefreshTokens(ctx context.Context, uid string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revokedUIDs = append(f.revokedUIDs, uid)
	return nil
}

func (f *fakeFirebaseVerifier) revoked() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.revokedUIDs))
	copy(out, f.revokedUIDs)
	return out
}

type fakeClerkVerifier struct{}

func (f *fakeClerkVerifier) VerifySessionToken(ctx context.Context, token string) (*clerk.SessionClaims, error) {
	return nil, errors.New("not a clerk session token")
}

type fakeProfileService struct{}

func (f *fakeProfileService) GetProfileByStableID(ctx context.Context, stableID string) (*shared.Profile, error) {
	return &shared.Profile{
		StableID: stableID,
		Provider: shared.ProviderFirebase,
		Role:     common.RoleUser,
		JoinedAt: time.Now().UTC(),
	}, nil
}

func (f *fakeProfileService) UpsertFromClaims(ctx context.Context, claims shared.ProviderClaims) (*shared.Profile, bool, error) {
	return &shared.Profile{
		StableID: claims.StableID,
		Provider: claims.Provider,
		Role:     common.RoleUser,
		JoinedAt: time.Now().UTC(),
	}, true, nil
}

func setupSessionRouter(t *testing.T, fb *fakeFirebaseVerifier) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{SessionIdleTTL: time.Minute}
	manager := identity.NewManager(cfg, &fakeProfileService{}, zap.NewNop())
	handler := NewHandler(fb, &fakeClerkVerifier{}, &fakeProfileService{}, manager, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1)
	return router
}

func postSessionEvent(t *testing.T, router *gin.Engine, provider string) string {
	t.Helper()
	payload, err := json.Marshal(gin.H{"provider": provider, "token": "verified-token"})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodPost, "/api/v1/auth/sessions", bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			SessionID string `json:"session_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Data.SessionID)
	return resp.Data.SessionID
}

// waitForReady polls the view endpoint until the resolver settles, since
// session events are processed asynchronously.
func waitForReady(t *testing.T, router *gin.Engine, sessionID string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		req, err := http.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		require.NoError(t, err)
		req.Header.Set(common.SessionIDHeader, sessionID)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)

		var resp struct {
			Data struct {
				State string `json:"state"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if resp.Data.State == "ready" {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("resolver did not settle in time")
}

func deleteSession(t *testing.T, router *gin.Engine, sessionID, provider string) *httptest.ResponseRecorder {
	t.Helper()
	payload, err := json.Marshal(gin.H{"provider": provider})
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodDelete, "/api/v1/auth/sessions", bytes.NewBuffer(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(common.SessionIDHeader, sessionID)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSignOutRevokesFirebaseRefreshTokens(t *testing.T) {
	fb := &fakeFirebaseVerifier{uid: "fb-user-1"}
	router := setupSessionRouter(t, fb)

	sessionID := postSessionEvent(t, router, shared.ProviderFirebase)
	waitForReady(t, router, sessionID)

	rec := deleteSession(t, router, sessionID, shared.ProviderFirebase)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, []string{"fb-user-1"}, fb.revoked())
}

func TestSignOutFromOtherProviderDoesNotRevoke(t *testing.T) {
	fb := &fakeFirebaseVerifier{uid: "fb-user-2"}
	router := setupSessionRouter(t, fb)

	sessionID := postSessionEvent(t, router, shared.ProviderFirebase)
	waitForReady(t, router, sessionID)

	rec := deleteSession(t, router, sessionID, shared.ProviderClerk)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, fb.revoked())
}

func TestDeleteSessionRequiresSessionHeader(t *testing.T) {
	fb := &fakeFirebaseVerifier{uid: "fb-user-3"}
	router := setupSessionRouter(t, fb)

	rec := deleteSession(t, router, "", shared.ProviderFirebase)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
