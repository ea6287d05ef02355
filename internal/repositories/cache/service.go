// Package cache is the Redis read-through cache for card lists and
// cardholder profiles.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"cardhub/internal/issuing"
	"cardhub/internal/models"

	"github.com/redis/go-redis/v9"
)

// Client is the subset of *redis.Client the cache uses.
type Client interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
	PoolStats() *redis.PoolStats
	Close() error
}

type CacheService struct {
	client Client
	ttl    time.Duration
}

func NewCacheService(client Client, defaultTTL time.Duration) *CacheService {
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

// Get decodes the value at key into dest. It reports false on a miss.
func (s *CacheService) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
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
func GenerateKey(entityType, keyType string, value interface{}) string {
	return fmt.Sprintf("%s:%s:%v", entityType, keyType, value)
}

func cardsKey(cardholderID string) string {
	return GenerateKey("card", "cardholder", cardholderID)
}

func cardholderKey(cardholderID string) string {
	return GenerateKey("cardholder", "id", cardholderID)
}

// Card list caching
func (s *CacheService) CacheCards(ctx context.Context, cardholderID string, cards []*models.Card) error {
	return s.Set(ctx, cardsKey(cardholderID), cards)
}

func (s *CacheService) GetCards(ctx context.Context, cardholderID string) ([]*models.Card, bool, error) {
	var cards []*models.Card
	found, err := s.Get(ctx, cardsKey(cardholderID), &cards)
	if err != nil || !found {
		return nil, false, err
	}
	return cards, true, nil
}

func (s *CacheService) InvalidateCards(ctx context.Context, cardholderID string) error {
	return s.Delete(ctx, cardsKey(cardholderID))
}

// Cardholder profile caching
func (s *CacheService) CacheCardholder(ctx context.Context, holder *issuing.Cardholder) error {
	if holder == nil {
		return errors.New("cannot cache nil cardholder")
	}
	return s.Set(ctx, cardholderKey(holder.ID), holder)
}

func (s *CacheService) GetCardholder(ctx context.Context, cardholderID string) (*issuing.Cardholder, bool, error) {
	var holder issuing.Cardholder
	found, err := s.Get(ctx, cardholderKey(cardholderID), &holder)
	if err != nil || !found {
		return nil, false, err
	}
	return &holder, true, nil
}

// HealthCheck pings Redis.
func (s *CacheService) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis connection failed: %w", err)
	}
	return nil
}

// GetStats returns connection pool statistics.
func (s *CacheService) GetStats() *redis.PoolStats {
	return s.client.PoolStats()
}

// Close closes the Redis client connection
func (s *CacheService) Close() error {
	return s.client.Close()
}
