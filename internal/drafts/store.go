package drafts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	pkgerrors "github.com/minhtdo/vietcart-backend/pkg/errors"
	"github.com/minhtdo/vietcart-backend/pkg/redis"
)

// Store persists draft documents. Save resets the TTL, so a draft stays
// alive as long as the shopper keeps touching it.
type Store interface {
	Save(ctx context.Context, draft *Draft, ttl time.Duration) error
	Find(ctx context.Context, draftID string) (*Draft, error)
	Delete(ctx context.Context, draftID string) error
}

type redisStore struct {
	cache *redis.Client
}

// NewRedisStore builds the redis-backed draft store.
func NewRedisStore(cache *redis.Client) (Store, error) {
	if cache == nil {
		return nil, fmt.Errorf("redis client required")
	}
	return &redisStore{cache: cache}, nil
}

func (s *redisStore) Save(ctx context.Context, draft *Draft, ttl time.Duration) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to encode draft")
	}
	if err := s.cache.Set(ctx, s.cache.DraftKey(draft.ID), payload, ttl); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to save draft")
	}
	return nil
}

func (s *redisStore) Find(ctx context.Context, draftID string) (*Draft, error) {
	payload, err := s.cache.Get(ctx, s.cache.DraftKey(draftID))
	if err != nil {
		if redis.IsNil(err) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "draft not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to load draft")
	}

	var draft Draft
	if err := json.Unmarshal([]byte(payload), &draft); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "failed to decode draft")
	}
	return &draft, nil
}

func (s *redisStore) Delete(ctx context.Context, draftID string) error {
	if err := s.cache.Del(ctx, s.cache.DraftKey(draftID)); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "failed to delete draft")
	}
	return nil
}
