package session

import (
	"context"
	"errors"
	"time"

	"github.com/geocoder89/leavetrack/internal/domain/user"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "leavetrack:session:"

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func NewRedisClient(cfg RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
}

// RedisStore shares sessions across replicas; expiry is delegated to the key TTL.
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) Create(ctx context.Context, id user.Identity) (string, error) {
	token := uuid.NewString()

	if err := s.rdb.Set(ctx, redisKeyPrefix+token, encodeIdentity(id), s.ttl).Err(); err != nil {
		return "", err
	}

	return token, nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (user.Identity, error) {
	raw, err := s.rdb.Get(ctx, redisKeyPrefix+token).Result()

	if errors.Is(err, redis.Nil) {
		return user.Identity{}, ErrNoSession
	}
	if err != nil {
		return user.Identity{}, err
	}

	return decodeIdentity(raw)
}

func (s *RedisStore) Destroy(ctx context.Context, token string) error {
	return s.rdb.Del(ctx, redisKeyPrefix+token).Err()
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
