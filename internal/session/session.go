// internal/session/session.go
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// CheckoutSession snapshots a composition session: the platform fee is
// captured once when communities are selected so a later fee change cannot
// shift an already-quoted total.
type CheckoutSession struct {
	AnnouncementID int     `json:"announcement_id"`
	CommunityIDs   []int   `json:"community_ids"`
	PlatformFee    float64 `json:"platform_fee"`
	Total          float64 `json:"total"`
}

type Store interface {
	Set(ctx context.Context, s CheckoutSession) error
	Get(ctx context.Context, announcementID int) (*CheckoutSession, error)
	Delete(ctx context.Context, announcementID int) error
}

// RedisStore keeps checkout sessions in Redis with a 12h TTL.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore() (*RedisStore, error) {
	url := os.Getenv("REDIS_URL")
	opt, err := redis.ParseURL(strings.TrimSpace(url))
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}
	client := redis.NewClient(opt)

	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	log.Println("✅ Connected to Redis")
	return &RedisStore{Client: client}, nil
}

func sessionKey(announcementID int) string {
	return fmt.Sprintf("checkout_session:%d", announcementID)
}

func (s *RedisStore) Set(ctx context.Context, cs CheckoutSession) error {
	data, err := json.Marshal(cs)
	if err != nil {
		return err
	}
	return s.Client.Set(ctx, sessionKey(cs.AnnouncementID), data, 12*time.Hour).Err()
}

func (s *RedisStore) Get(ctx context.Context, announcementID int) (*CheckoutSession, error) {
	val, err := s.Client.Get(ctx, sessionKey(announcementID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var cs CheckoutSession
	if err := json.Unmarshal([]byte(val), &cs); err != nil {
		return nil, err
	}
	return &cs, nil
}

func (s *RedisStore) Delete(ctx context.Context, announcementID int) error {
	return s.Client.Del(ctx, sessionKey(announcementID)).Err()
}

var _ Store = (*RedisStore)(nil)
