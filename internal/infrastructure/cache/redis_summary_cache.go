package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/jhoicas/ledger-api/internal/application/dto"
	"github.com/jhoicas/ledger-api/internal/application/finance"
	"github.com/jhoicas/ledger-api/pkg/config"
)

var _ finance.SummaryCache = (*SummaryCache)(nil)

const (
	summaryKeyPrefix     = "ledger:summary:"
	summaryGenerationKey = "ledger:summary:generation"
)

// SummaryCache agregados financieros en Redis, uno por rango y generación, con expiración.
// Invalidate incrementa la generación: las claves anteriores dejan de leerse y expiran solas.
type SummaryCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisClient abre el cliente y verifica la conexión con PING.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
		MaxRetries:   2,
		DialTimeout:  3 * time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func NewSummaryCache(rdb *redis.Client, ttl time.Duration) *SummaryCache {
	return &SummaryCache{rdb: rdb, ttl: ttl}
}

func summaryKey(generation int64, start, end time.Time) string {
	return fmt.Sprintf("%sg%d:%d:%d", summaryKeyPrefix, generation, start.UTC().UnixNano(), end.UTC().UnixNano())
}

// generation generación vigente; 0 si nunca se invalidó.
func (c *SummaryCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, summaryGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("redis get summary generation: %w", err)
	}
	return gen, nil
}

func (c *SummaryCache) Get(ctx context.Context, start, end time.Time) (*dto.FinancialSummaryResponse, bool, error) {
	gen, err := c.generation(ctx)
	if err != nil {
		return nil, false, err
	}
	raw, err := c.rdb.Get(ctx, summaryKey(gen, start, end)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get summary: %w", err)
	}
	var s dto.FinancialSummaryResponse
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, false, fmt.Errorf("decode cached summary: %w", err)
	}
	return &s, true, nil
}

func (c *SummaryCache) Set(ctx context.Context, start, end time.Time, summary *dto.FinancialSummaryResponse) error {
	raw, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("encode summary: %w", err)
	}
	gen, err := c.generation(ctx)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, summaryKey(gen, start, end), raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set summary: %w", err)
	}
	return nil
}

func (c *SummaryCache) Invalidate(ctx context.Context) error {
	if err := c.rdb.Incr(ctx, summaryGenerationKey).Err(); err != nil {
		return fmt.Errorf("redis incr summary generation: %w", err)
	}
	return nil
}
