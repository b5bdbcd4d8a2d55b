package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/external/oauth"
	pkgjwt "github.com/johnquangdev/meeting-action-board/pkg/jwt"
)

type fixture struct {
	service   *OAuthService
	store     *cache.MemoryStore
	exchanges *atomic.Int32
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	idToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, pkgjwt.IdentityClaims{
		Email:            "alice@example.com",
		Name:             "Alice",
		RegisteredClaims: jwt.RegisteredClaims{Subject: "42"},
	}).SignedString([]byte("k"))
	require.NoError(t, err)

	exchanges := &atomic.Int32{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if r.Form.Get("code") != "good-code" {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
			return
		}
		exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"access_token":  "access-1",
			"token_type":    "Bearer",
			"refresh_token": "refresh-1",
			"expires_in":    3600,
			"id_token":      idToken,
		})
	}))
	t.Cleanup(srv.Close)

	store := cache.NewMemoryStore(0)
	t.Cleanup(func() { _ = store.Close() })

	provider := oauth.NewGoogleProviderWithEndpoint("id", "secret", "http://localhost/cb", oauth2.Endpoint{
		AuthURL:   srv.URL + "/auth",
		TokenURL:  srv.URL + "/token",
		AuthStyle: oauth2.AuthStyleInParams,
	})
	return fixture{
		service:   NewOAuthService(provider, oauth.NewStateManager(store), store, nil),
		store:     store,
		exchanges: exchanges,
	}
}

func stateOf(t *testing.T, authURL string) string {
	t.Helper()
	u, err := url.Parse(authURL)
	require.NoError(t, err)
	return u.Query().Get("state")
}

func TestOAuthService_ConnectFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	status, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)

	_, err = f.service.Client(ctx)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_UNAUTHENTICATED))

	login, err := f.service.LoginURL(ctx)
	require.NoError(t, err)
	assert.Equal(t, login.State, stateOf(t, login.URL))

	conn, err := f.service.HandleCallback(ctx, "good-code", login.State)
	require.NoError(t, err)
	assert.True(t, conn.Connected)
	assert.Equal(t, "Alice", conn.Name)
	assert.Equal(t, "alice@example.com", conn.Email)
	assert.WithinDuration(t, time.Now().Add(time.Hour), conn.Expiry, time.Minute)

	client, err := f.service.Client(ctx)
	require.NoError(t, err)
	assert.NotNil(t, client)
}

func TestOAuthService_RejectsReplayedState(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	login, err := f.service.LoginURL(ctx)
	require.NoError(t, err)

	_, err = f.service.HandleCallback(ctx, "good-code", login.State)
	require.NoError(t, err)

	_, err = f.service.HandleCallback(ctx, "good-code", login.State)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_AUTH_OAUTH_FAILED))
	assert.Equal(t, int32(1), f.exchanges.Load())
}

func TestOAuthService_FailedExchange(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	login, err := f.service.LoginURL(ctx)
	require.NoError(t, err)

	_, err = f.service.HandleCallback(ctx, "bad-code", login.State)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_AUTH_OAUTH_FAILED))

	status, err := f.service.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}

func TestOAuthService_MissingCode(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.HandleCallback(context.Background(), "", "whatever")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrorCode_INVALID_ARGUMENT))
}

func TestOAuthService_RestoresStoredToken(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	login, err := f.service.LoginURL(ctx)
	require.NoError(t, err)
	_, err = f.service.HandleCallback(ctx, "good-code", login.State)
	require.NoError(t, err)

	restarted := NewOAuthService(nil, oauth.NewStateManager(f.store), f.store, nil)
	status, err := restarted.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status.Connected)
	assert.Equal(t, "Alice", status.Name)

	require.NoError(t, restarted.Disconnect(ctx))
	status, err = restarted.Status(ctx)
	require.NoError(t, err)
	assert.False(t, status.Connected)
}
