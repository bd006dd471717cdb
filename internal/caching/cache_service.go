package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gymetra/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "gymetra"

type CacheService interface {
	// Plan caching. GetPlan returns (nil, nil) on a miss.
	GetPlan(ctx context.Context, planID int) (*models.MembershipPlan, error)
	SetPlan(ctx context.Context, plan *models.MembershipPlan, ttl time.Duration) error
	DeletePlan(ctx context.Context, planID int) error

	// Generic string operations for token management
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error

	Ping(ctx context.Context) error
	Close() error
}

// ErrCacheMiss is returned by GetString when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

type redisCacheService struct {
	client *redis.Client
	logger zerolog.Logger
}

func NewRedisCacheService(addr, password string, db int, logger zerolog.Logger) CacheService {
	parsedAddr := parseRedisAddr(addr)
	logger = logger.With().Str("component", "cache").Logger()

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		logger.Warn().Err(pingErr).Str("addr", parsedAddr).Msg("redis ping failed on initialization")
	} else {
		logger.Debug().Str("addr", parsedAddr).Msg("redis connection established")
	}

	return &redisCacheService{client: client, logger: logger}
}

// parseRedisAddr strips a redis:// or rediss:// scheme, leaving host:port.
func parseRedisAddr(addr string) string {
	for _, scheme := range []string{"redis://", "rediss://"} {
		if strings.HasPrefix(addr, scheme) {
			return strings.TrimSuffix(strings.TrimPrefix(addr, scheme), "/")
		}
	}
	return addr
}

func PlanKey(planID int) string {
	return fmt.Sprintf("%s:plan:%d", keyPrefix, planID)
}

func ResetTokenKey(token string) string {
	return fmt.Sprintf("%s:password-reset:%s", keyPrefix, token)
}

func RevokedTokenKey(tokenID string) string {
	return fmt.Sprintf("%s:revoked:%s", keyPrefix, tokenID)
}

func (r *redisCacheService) GetPlan(ctx context.Context, planID int) (*models.MembershipPlan, error) {
	data, err := r.client.Get(ctx, PlanKey(planID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var plan models.MembershipPlan
	if err := json.Unmarshal(data, &plan); err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *redisCacheService) SetPlan(ctx context.Context, plan *models.MembershipPlan, ttl time.Duration) error {
	data, err := json.Marshal(plan)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, PlanKey(plan.ID), data, ttl).Err()
}

func (r *redisCacheService) DeletePlan(ctx context.Context, planID int) error {
	return r.client.Del(ctx, PlanKey(planID)).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrCacheMiss
	}
	return value, err
}

func (r *redisCacheService) Exists(ctx context.Context, key string) (bool, error) {
	n, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *redisCacheService) Close() error {
	return r.client.Close()
}
