package oauth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/johnquangdev/meeting-action-board/internal/infrastructure/cache"
)

// StateManager manages OAuth state tokens for CSRF protection
type StateManager struct {
	store      cache.Store
	expiration time.Duration
}

// NewStateManager creates a new state manager backed by store
func NewStateManager(store cache.Store) *StateManager {
	return &StateManager{
		store:      store,
		expiration: 15 * time.Minute, // State expires in 15 minutes
	}
}

// GenerateState generates a random state token and stores it
func (sm *StateManager) GenerateState(ctx context.Context) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}

	state := base64.URLEncoding.EncodeToString(b)

	if err := sm.store.Set(ctx, stateKey(state), "valid", sm.expiration); err != nil {
		return "", fmt.Errorf("failed to store oauth state: %w", err)
	}

	return state, nil
}

// ValidateState validates a state token (one-time use)
func (sm *StateManager) ValidateState(ctx context.Context, state string) (bool, error) {
	if state == "" {
		return false, nil
	}

	value, exists, err := sm.store.Pop(ctx, stateKey(state))
	if err != nil {
		return false, fmt.Errorf("failed to read oauth state: %w", err)
	}
	return exists && value == "valid", nil
}

func stateKey(state string) string {
	return fmt.Sprintf("oauth:state:%s", state)
}
