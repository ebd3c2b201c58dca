package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/Domenick1991/guestportal/config"
	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/redis/go-redis/v9"
)

var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisCache struct {
	client    *redis.Client
	hotelsTTL time.Duration
	draftTTL  time.Duration
}

func NewRedisCache(cfg config.RedisConfig, hotelsTTL, draftTTL time.Duration) *RedisCache {
	return NewRedisCacheWithClient(
		redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		hotelsTTL, draftTTL,
	)
}

func NewRedisCacheWithClient(client *redis.Client, hotelsTTL, draftTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, hotelsTTL: hotelsTTL, draftTTL: draftTTL}
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

// GetHotels returns nil without an error on a cache miss.
func (c *RedisCache) GetHotels(ctx context.Context) ([]domain.Hotel, error) {
	data, err := c.client.Get(ctx, hotelsKey()).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var hotels []domain.Hotel
	if err := json.Unmarshal(data, &hotels); err != nil {
		return nil, err
	}
	return hotels, nil
}

func (c *RedisCache) SetHotels(ctx context.Context, hotels []domain.Hotel) error {
	payload, err := json.Marshal(hotels)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, hotelsKey(), payload, c.hotelsTTL).Err()
}

// AcquireSubmitLock reports false when another submission for the booking is
// still in flight.
func (c *RedisCache) AcquireSubmitLock(ctx context.Context, bookingID, owner string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, submitLockKey(bookingID), owner, ttl).Result()
}

// ReleaseSubmitLock deletes the lock only while owner still holds it.
func (c *RedisCache) ReleaseSubmitLock(ctx context.Context, bookingID, owner string) error {
	return releaseScript.Run(ctx, c.client, []string{submitLockKey(bookingID)}, owner).Err()
}

// GetDraft returns nil without an error when no draft is stored.
func (c *RedisCache) GetDraft(ctx context.Context, token string) (*domain.GuestDraft, error) {
	data, err := c.client.Get(ctx, draftKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var draft domain.GuestDraft
	if err := json.Unmarshal(data, &draft); err != nil {
		return nil, err
	}
	return &draft, nil
}

func (c *RedisCache) SaveDraft(ctx context.Context, token string, draft domain.GuestDraft) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, draftKey(token), payload, c.draftTTL).Err()
}

func (c *RedisCache) DeleteDraft(ctx context.Context, token string) error {
	return c.client.Del(ctx, draftKey(token)).Err()
}

func hotelsKey() string {
	return "cache:hotels"
}

func submitLockKey(bookingID string) string {
	return "lock:booking:" + bookingID + ":submit"
}

func draftKey(token string) string {
	return "draft:guest:" + token
}
