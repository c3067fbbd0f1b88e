package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charlesng35/weddingrsvp/internal/cache"
	"github.com/charlesng35/weddingrsvp/internal/models"
)

const sessionCacheKeyPrefix = "auth:sessions:refresh:"

// NewSessionCache wraps a cache.Store (redis or database backed) as a SessionCache.
func NewSessionCache(store cache.Store) SessionCache {
	if store == nil {
		return nil
	}
	return &sessionStoreCache{store: store}
}

type sessionStoreCache struct {
	store cache.Store
}

func (c *sessionStoreCache) Get(ctx context.Context, tokenHash string) (*models.Session, error) {
	key := cacheKey(tokenHash)
	if key == "" {
		return nil, errSessionCacheMiss
	}

	data, found, err := c.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errSessionCacheMiss
	}

	var cached cachedSession
	if err := json.Unmarshal(data, &cached); err != nil {
		return nil, fmt.Errorf("session cache: decode: %w", err)
	}
	cached.Session.RefreshToken = cached.Digest
	return &cached.Session, nil
}

func (c *sessionStoreCache) Set(ctx context.Context, session *models.Session, ttl time.Duration) error {
	if session == nil {
		return errors.New("session cache: session is nil")
	}
	key := cacheKey(session.RefreshToken)
	if key == "" {
		return errors.New("session cache: refresh token missing")
	}

	// RefreshToken carries json:"-", so it is stored explicitly alongside the session.
	payload, err := json.Marshal(cachedSession{Session: *session, Digest: session.RefreshToken})
	if err != nil {
		return fmt.Errorf("session cache: marshal: %w", err)
	}
	if ttl <= 0 {
		ttl = time.Second
	}

	return c.store.Set(ctx, key, payload, ttl)
}

func (c *sessionStoreCache) Delete(ctx context.Context, tokenHash string) error {
	key := cacheKey(tokenHash)
	if key == "" {
		return nil
	}
	return c.store.Delete(ctx, key)
}

type cachedSession struct {
	models.Session
	Digest string `json:"digest"`
}

func cacheKey(tokenHash string) string {
	token := strings.TrimSpace(tokenHash)
	if token == "" {
		return ""
	}
	return sessionCacheKeyPrefix + token
}
