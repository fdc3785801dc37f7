package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisRepository хранит снимок состояния строкой в Redis без TTL.
type RedisRepository struct {
	rdb *redis.Client
	key string
}

// RedisOptions содержит параметры подключения к Redis.
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisRepository подключается к Redis и проверяет соединение.
func NewRedisRepository(opts RedisOptions, key string) (*RedisRepository, error) {
	if key == "" {
		key = DefaultKey
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return NewRedisRepositoryFromClient(rdb, key), nil
}

// NewRedisRepositoryFromClient оборачивает уже созданный клиент.
func NewRedisRepositoryFromClient(rdb *redis.Client, key string) *RedisRepository {
	if key == "" {
		key = DefaultKey
	}
	return &RedisRepository{rdb: rdb, key: key}
}

// Load читает снимок по ключу.
func (r *RedisRepository) Load(ctx context.Context) ([]byte, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("get snapshot: %w", err)
	}
	return data, nil
}

// Save записывает снимок по ключу.
func (r *RedisRepository) Save(ctx context.Context, data []byte) error {
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("set snapshot: %w", err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (r *RedisRepository) Close() error {
	return r.rdb.Close()
}
