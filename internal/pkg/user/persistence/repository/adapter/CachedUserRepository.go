package adapter

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	cacheport "github.com/ArifMiah07/vibe-chat-backend/internal/infrastructure/cache/port"
	user "github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/domain"
	"github.com/ArifMiah07/vibe-chat-backend/internal/pkg/user/persistence/repository/port"
)

const userCacheTTL = 5 * time.Minute

// CachedUserRepository is a read-through cache decorator over a UserRepository.
// Only FindByID is cached: it sits on the hot path of message enrichment,
// where the same sender/receiver pair is resolved for every relayed message.
// Writes go straight to the inner repository.
type CachedUserRepository struct {
	inner port.UserRepository
	cache cacheport.Cache
}

func NewCachedUserRepository(inner port.UserRepository, cache cacheport.Cache) *CachedUserRepository {
	return &CachedUserRepository{inner: inner, cache: cache}
}

var _ port.UserRepository = (*CachedUserRepository)(nil)

func cacheKey(id string) string { return "user:" + id }

func (r *CachedUserRepository) FindByID(ctx context.Context, id string) (*user.User, error) {
	if raw, err := r.cache.Get(ctx, cacheKey(id)); err == nil {
		var u user.User
		if err := json.Unmarshal([]byte(raw), &u); err == nil {
			return &u, nil
		}
	} else if !errors.Is(err, cacheport.ErrMiss) {
		slog.Warn("user cache read failed", "error", err)
	}

	u, err := r.inner.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(u); err == nil {
		if err := r.cache.Set(ctx, cacheKey(id), string(raw), userCacheTTL); err != nil {
			slog.Warn("user cache write failed", "error", err)
		}
	}
	return u, nil
}

func (r *CachedUserRepository) Create(ctx context.Context, u user.User) (string, error) {
	return r.inner.Create(ctx, u)
}

func (r *CachedUserRepository) FindByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.inner.FindByEmail(ctx, email)
}

func (r *CachedUserRepository) List(ctx context.Context, excludeID string) ([]user.User, error) {
	return r.inner.List(ctx, excludeID)
}
