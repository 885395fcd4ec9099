package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"minipay/internal/models"

	"github.com/redis/go-redis/v9"
)

type CacheService struct {
	client *redis.Client
	ttl    time.Duration
}

func NewCacheService(client *redis.Client, defaultTTL time.Duration) *CacheService {
	return &CacheService{
		client: client,
		ttl:    defaultTTL,
	}
}

// Base operations
func (s *CacheService) Set(ctx context.Context, key string, value interface{}) error {
	return s.SetWithTTL(ctx, key, value, s.ttl)
}

func (s *CacheService) SetWithTTL(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal cache value: %w", err)
	}
	return s.client.Set(ctx, key, data, ttl).Err()
}

func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("failed to get cache value: %w", err)
	}

	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cache value: %w", err)
	}
	return true, nil
}

func (s *CacheService) Delete(ctx context.Context, keys ...string) error {
	return s.client.Del(ctx, keys...).Err()
}

// Key generation
func (s *CacheService) GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

// Profile caching. Only the balance-free public profile is ever cached:
// balances must be read inside a storage transaction.
func (s *CacheService) CacheProfile(ctx context.Context, profile *models.PublicProfile) error {
	if profile == nil {
		return errors.New("cannot cache nil profile")
	}

	keys := []string{
		s.GenerateKey("user", "id", profile.ID),
		s.GenerateKey("user", "login", profile.Login),
	}
	for _, key := range keys {
		if err := s.Set(ctx, key, profile); err != nil {
			return err
		}
	}
	return nil
}

func (s *CacheService) GetProfile(ctx context.Context, key string) (*models.PublicProfile, error) {
	var profile models.PublicProfile
	found, err := s.Get(ctx, key, &profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, errors.New("profile not found in cache")
	}
	return &profile, nil
}

// Invalidation
func (s *CacheService) InvalidateUser(ctx context.Context, userID uint, login string) error {
	return s.Delete(ctx,
		s.GenerateKey("user", "id", userID),
		s.GenerateKey("user", "login", login),
	)
}

// FlushAll flushes all keys from the cache
func (s *CacheService) FlushAll(ctx context.Context) error {
	return s.client.FlushAll(ctx).Err()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
