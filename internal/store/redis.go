package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"backstage/internal/domain"
)

// RedisStore keeps the document as a string at key, version payloads in the
// hash key:versions and their append order in the list key:version_ids.
type RedisStore struct {
	client *redis.Client
	key    string
}

func OpenRedis(ctx context.Context, addr, password string, db int, key string) (*RedisStore, error) {
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewRedis(client, key), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, key string) *RedisStore {
	if key == "" {
		key = DefaultKey
	}
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) versionsKey() string { return s.key + ":versions" }
func (s *RedisStore) orderKey() string    { return s.key + ":version_ids" }

func (s *RedisStore) Load(ctx context.Context) (*domain.State, error) {
	data, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load document: %w", err)
	}
	return decodeState(data)
}

func (s *RedisStore) Save(ctx context.Context, st domain.State) error {
	data, err := encodeState(st)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (s *RedisStore) ListVersions(ctx context.Context) ([]domain.Version, error) {
	ids, err := s.client.LRange(ctx, s.orderKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	out := []domain.Version{}
	if len(ids) == 0 {
		return out, nil
	}
	payloads, err := s.client.HMGet(ctx, s.versionsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("list versions: %w", err)
	}
	for _, p := range payloads {
		raw, ok := p.(string)
		if !ok {
			continue
		}
		v, err := decodeVersion([]byte(raw))
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (s *RedisStore) AppendVersion(ctx context.Context, v domain.Version) error {
	data, err := encodeVersion(v)
	if err != nil {
		return err
	}
	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, s.versionsKey(), v.ID, data)
		p.RPush(ctx, s.orderKey(), v.ID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("append version: %w", err)
	}
	return nil
}

func (s *RedisStore) GetVersion(ctx context.Context, id string) (domain.Version, error) {
	data, err := s.client.HGet(ctx, s.versionsKey(), id).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.Version{}, fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return domain.Version{}, fmt.Errorf("get version: %w", err)
	}
	return decodeVersion(data)
}

func (s *RedisStore) DeleteVersion(ctx context.Context, id string) error {
	n, err := s.client.HDel(ctx, s.versionsKey(), id).Result()
	if err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("version %s: %w", id, ErrNotFound)
	}
	if err := s.client.LRem(ctx, s.orderKey(), 0, id).Err(); err != nil {
		return fmt.Errorf("delete version: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }
