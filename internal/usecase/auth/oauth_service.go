package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	apperrors "github.com/johnquangdev/meeting-action-board/errors"
	"github.com/johnquangdev/meeting-action-board/internal/domain/entities"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/cache"
	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/external/oauth"
	pkgjwt "github.com/johnquangdev/meeting-action-board/pkg/jwt"
)

const tokenKey = "oauth:token"

// OAuthService connects the board to one Google account and hands out
// authorized clients for the transcript source.
type OAuthService struct {
	google       *oauth.GoogleProvider
	stateManager *oauth.StateManager
	store        cache.Store
	logger       *zap.Logger

	mu       sync.Mutex
	token    *oauth2.Token
	identity *pkgjwt.IdentityClaims
}

// NewOAuthService creates a new OAuth service
func NewOAuthService(google *oauth.GoogleProvider, stateManager *oauth.StateManager, store cache.Store, logger *zap.Logger) *OAuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OAuthService{
		google:       google,
		stateManager: stateManager,
		store:        store,
		logger:       logger,
	}
}

// AuthURL is the consent page the user is sent to
type AuthURL struct {
	URL   string `json:"url"`
	State string `json:"state"`
}

// Connection describes the connected account
type Connection struct {
	Connected bool      `json:"connected"`
	Name      string    `json:"name,omitempty"`
	Email     string    `json:"email,omitempty"`
	Expiry    time.Time `json:"expiry,omitempty"`
}

type storedToken struct {
	Token    *oauth2.Token          `json:"token"`
	Identity *pkgjwt.IdentityClaims `json:"identity,omitempty"`
}

// LoginURL generates the Google consent URL with a fresh state
func (s *OAuthService) LoginURL(ctx context.Context) (*AuthURL, error) {
	state, err := s.stateManager.GenerateState(ctx)
	if err != nil {
		return nil, apperrors.ErrOAuthFailed("google", fmt.Errorf("failed to generate state: %w", err))
	}
	return &AuthURL{URL: s.google.GetAuthURL(state), State: state}, nil
}

// HandleCallback validates the state, exchanges the code and stores the token
func (s *OAuthService) HandleCallback(ctx context.Context, code, state string) (*Connection, error) {
	if code == "" {
		return nil, apperrors.ErrInvalidArgument("authorization code is required")
	}

	valid, err := s.stateManager.ValidateState(ctx, state)
	if err != nil {
		return nil, apperrors.ErrOAuthFailed("google", err)
	}
	if !valid {
		return nil, apperrors.ErrOAuthFailed("google", entities.ErrOAuthStateMismatch)
	}

	token, err := s.google.ExchangeCode(ctx, code)
	if err != nil {
		return nil, apperrors.ErrOAuthFailed("google", err)
	}

	var identity *pkgjwt.IdentityClaims
	if raw := oauth.IDToken(token); raw != "" {
		identity, err = pkgjwt.ParseIDTokenUnverified(raw)
		if err != nil {
			s.logger.Warn("ignoring unreadable id_token", zap.Error(err))
			identity = nil
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.persistLocked(ctx, token, identity); err != nil {
		return nil, err
	}

	s.logger.Info("google account connected", zap.String("account", displayName(identity)))
	return s.connectionLocked(), nil
}

// Status reports whether an account is connected, loading a stored token first
func (s *OAuthService) Status(ctx context.Context) (*Connection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.restoreLocked(ctx); err != nil {
		return nil, err
	}
	return s.connectionLocked(), nil
}

// Client returns an HTTP client that refreshes and stores the token as needed
func (s *OAuthService) Client(ctx context.Context) (*http.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.restoreLocked(ctx); err != nil {
		return nil, err
	}
	if s.token == nil {
		return nil, apperrors.ErrUnauthenticated().WithDetail("reason", entities.ErrNotConnected.Error())
	}

	src := &persistingSource{
		base:    oauth2.ReuseTokenSource(s.token, s.google.TokenSource(ctx, s.token)),
		service: s,
		last:    s.token.AccessToken,
	}
	return s.google.Client(ctx, src), nil
}

// Disconnect forgets the stored token
func (s *OAuthService) Disconnect(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.Delete(ctx, tokenKey); err != nil {
		return apperrors.ErrInternal(fmt.Errorf("failed to delete token: %w", err))
	}
	s.token = nil
	s.identity = nil
	return nil
}

func (s *OAuthService) restoreLocked(ctx context.Context) error {
	if s.token != nil {
		return nil
	}
	raw, ok, err := s.store.Get(ctx, tokenKey)
	if err != nil {
		return apperrors.ErrInternal(fmt.Errorf("failed to read token: %w", err))
	}
	if !ok {
		return nil
	}
	var stored storedToken
	if err := json.Unmarshal([]byte(raw), &stored); err != nil || stored.Token == nil {
		s.logger.Warn("discarding unreadable stored token", zap.Error(err))
		return nil
	}
	s.token = stored.Token
	s.identity = stored.Identity
	return nil
}

func (s *OAuthService) persistLocked(ctx context.Context, token *oauth2.Token, identity *pkgjwt.IdentityClaims) error {
	data, err := json.Marshal(storedToken{Token: token, Identity: identity})
	if err != nil {
		return apperrors.ErrInternal(err)
	}
	if err := s.store.Set(ctx, tokenKey, string(data), 0); err != nil {
		return apperrors.ErrInternal(fmt.Errorf("failed to store token: %w", err))
	}
	s.token = token
	s.identity = identity
	return nil
}

func (s *OAuthService) connectionLocked() *Connection {
	if s.token == nil {
		return &Connection{}
	}
	conn := &Connection{Connected: true, Expiry: s.token.Expiry}
	if s.identity != nil {
		conn.Name = s.identity.DisplayName()
		conn.Email = s.identity.Email
	}
	return conn
}

// refreshed keeps a renewed access token for later clients
func (s *OAuthService) refreshed(token *oauth2.Token) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if token.RefreshToken == "" && s.token != nil {
		token.RefreshToken = s.token.RefreshToken
	}
	if err := s.persistLocked(context.Background(), token, s.identity); err != nil {
		s.logger.Warn("failed to store refreshed token", zap.Error(err))
	}
}

type persistingSource struct {
	base    oauth2.TokenSource
	service *OAuthService

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	token, err := p.base.Token()
	if err != nil {
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return nil, apperrors.ErrOAuthFailed("google", err)
		}
		return nil, err
	}

	p.mu.Lock()
	changed := token.AccessToken != p.last
	p.last = token.AccessToken
	p.mu.Unlock()

	if changed {
		p.service.refreshed(token)
	}
	return token, nil
}

func displayName(identity *pkgjwt.IdentityClaims) string {
	if identity == nil {
		return ""
	}
	return identity.DisplayName()
}
