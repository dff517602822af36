package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"tragedy-commons/internal/commons"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "tc:results:"

type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedis(client *redis.Client, ttl time.Duration) *Redis {
	return &Redis{client: client, ttl: ttl}
}

// Connect dials Redis and checks the connection with a ping.
func Connect(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s: %w", addr, err)
	}
	return client, nil
}

func resultsKey(gameID uint) string {
	return fmt.Sprintf("%s%d", keyPrefix, gameID)
}

func (r *Redis) Get(ctx context.Context, gameID uint) ([]commons.RoundResult, bool, error) {
	raw, err := r.client.Get(ctx, resultsKey(gameID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var results []commons.RoundResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, false, err
	}
	return results, true, nil
}

func (r *Redis) Set(ctx context.Context, gameID uint, results []commons.RoundResult) error {
	payload, err := json.Marshal(results)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, resultsKey(gameID), payload, r.ttl).Err()
}

func (r *Redis) Invalidate(ctx context.Context, gameID uint) error {
	return r.client.Del(ctx, resultsKey(gameID)).Err()
}
