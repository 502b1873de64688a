package cache

import (
	"bytes"
	"compress/gzip"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"namecard/internal/domain"
)

const timestampsKey = "namecard_timestamps"

type redisCache struct {
	client *redis.Client
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	UseTLS   bool
}

func NewRedisCache(cfg RedisConfig) domain.CardCache {
	opts := &redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	}

	if cfg.UseTLS {
		opts.TLSConfig = &tls.Config{
			MinVersion: tls.VersionTLS12,
		}
	}

	return NewRedisCacheFromClient(redis.NewClient(opts))
}

func NewRedisCacheFromClient(client *redis.Client) domain.CardCache {
	return &redisCache{client: client}
}

func cardKey(id uuid.UUID) string {
	return fmt.Sprintf("card:%s", id.String())
}

func (r *redisCache) GetCard(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	card := domain.NewCard(id)
	found, err := r.get(ctx, cardKey(id), card)
	if err != nil || !found {
		return nil, err
	}
	return card, nil
}

func (r *redisCache) SetCard(ctx context.Context, card *domain.Card, ttl time.Duration) error {
	return r.set(ctx, cardKey(card.ID), card, ttl)
}

func (r *redisCache) InvalidateCard(ctx context.Context, id uuid.UUID) error {
	key := cardKey(id)
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return err
	}
	return r.client.ZRem(ctx, timestampsKey, key).Err()
}

func (r *redisCache) get(ctx context.Context, key string, dst any) (bool, error) {
	val, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	} else if err != nil {
		return false, err
	}

	decompressed, err := decompress(val)
	if err != nil {
		return false, fmt.Errorf("failed to decompress: %w", err)
	}
	if decompressed == nil {
		return false, nil
	}

	if err := json.Unmarshal(decompressed, dst); err != nil {
		return false, err
	}
	return true, nil
}

func (r *redisCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	val, err := json.Marshal(v)
	if err != nil {
		return err
	}

	compressed, err := compress(val)
	if err != nil {
		return fmt.Errorf("failed to compress: %w", err)
	}

	if err := r.client.Set(ctx, key, compressed, ttl).Err(); err != nil {
		return err
	}

	return r.client.ZAdd(ctx, timestampsKey, redis.Z{
		Score:  float64(time.Now().Unix()),
		Member: key,
	}).Err()
}

func compress(data []byte) ([]byte, error) {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	_, err := w.Write(data)
	if err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func decompress(data []byte) ([]byte, error) {
	if len(data) == 0 {
		return nil, nil
	}
	r, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func (r *redisCache) DeleteOlderThan(ctx context.Context, olderThan time.Duration) error {
	cutoff := time.Now().Add(-olderThan).Unix()

	keys, err := r.client.ZRangeByScore(ctx, timestampsKey, &redis.ZRangeBy{
		Min: "-inf",
		Max: fmt.Sprintf("%d", cutoff),
	}).Result()
	if err != nil {
		return err
	}

	if len(keys) == 0 {
		return nil
	}

	if err := r.client.Del(ctx, keys...).Err(); err != nil {
		return err
	}

	return r.client.ZRem(ctx, timestampsKey, keys).Err()
}
