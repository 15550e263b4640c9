package session

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/cache"
	"github.com/aaravmahajanofficial/storefront/internal/models"
	"github.com/aaravmahajanofficial/storefront/internal/utils"
)

type RedisStore struct {
	cache cache.Cache
}

func NewRedisStore(c cache.Cache) *RedisStore {
	return &RedisStore{cache: c}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*models.Session, bool, error) {
	if id == "" {
		return nil, false, ErrInvalidID
	}

	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	var sess models.Session

	found, err := s.cache.Get(ctx, cache.Key(cache.SessionKeyPrefix, id), &sess)
	if err != nil {
		return nil, false, fmt.Errorf("failed to load session: %w", err)
	}

	if !found {
		return nil, false, nil
	}

	return &sess, true, nil
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	if sess == nil || sess.ID == "" {
		return ErrInvalidID
	}

	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := s.cache.Set(ctx, cache.Key(cache.SessionKeyPrefix, sess.ID), sess, ttl); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrInvalidID
	}

	ctx, cancel := utils.WithStoreTimeout(ctx)
	defer cancel()

	if err := s.cache.Delete(ctx, cache.Key(cache.SessionKeyPrefix, id)); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}
