package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ayame/salon-sync-go/pkg/errors"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Service wraps Redis for the two things the sync pipelines need: a lease
// that serializes concurrent invocations of the same pipeline, and the last
// run's report for the status endpoint. Portal fetches are deliberately
// never cached; every sync works from fresh markup.
type Service struct {
	client *redis.Client
	logger *zap.Logger
}

type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
}

func NewService(cfg Config, logger *zap.Logger) (*Service, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.Info("Redis connected",
		zap.String("addr", fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)),
		zap.Int("db", cfg.DB),
	)

	return &Service{
		client: client,
		logger: logger,
	}, nil
}

// AcquireLease takes the named lease if nobody holds it. The TTL bounds the
// damage of a crashed holder; there is no renewal because a sync batch is
// expected to finish well inside it.
func (s *Service) AcquireLease(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := s.client.SetNX(ctx, key, time.Now().Format(time.RFC3339), ttl).Result()
	if err != nil {
		lockErr := errors.NewLockError("lease acquisition failed", key)
		lockErr.Cause = err
		return false, lockErr
	}
	return ok, nil
}

func (s *Service) ReleaseLease(ctx context.Context, key string) {
	if err := s.client.Del(ctx, key).Err(); err != nil {
		s.logger.Warn("Failed to release lease", zap.String("key", key), zap.Error(err))
	}
}

// StoreReport keeps the last run's outcome for the status endpoint.
func (s *Service) StoreReport(ctx context.Context, key string, report any, ttl time.Duration) error {
	data, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	if err := s.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store report: %w", err)
	}

	return nil
}

// GetReport loads a stored report into dest. Returns false when no report
// exists, which is not an error.
func (s *Service) GetReport(ctx context.Context, key string, dest any) (bool, error) {
	value, err := s.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to load report: %w", err)
	}

	if err := json.Unmarshal([]byte(value), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal report: %w", err)
	}

	return true, nil
}

func (s *Service) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *Service) Close() error {
	return s.client.Close()
}
