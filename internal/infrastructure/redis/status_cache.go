// Package redis caché de instantáneas de estado de marcación sobre Redis.
package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/jhoicas/fieldops-api/internal/application/dto"
	"github.com/jhoicas/fieldops-api/internal/application/timeclock"
	"github.com/jhoicas/fieldops-api/pkg/config"
)

var _ timeclock.StatusCache = (*StatusCache)(nil)

const (
	statusKeyPrefix     = "fieldops:time-status:"
	generationKeyPrefix = "fieldops:time-status-gen:"
)

// setIfGeneration escribe la instantánea solo si la generación no cambió. Una generación
// ausente vale 0.
var setIfGeneration = goredis.NewScript(`
local gen = redis.call('GET', KEYS[2]) or '0'
if gen ~= ARGV[2] then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[3])
return 1
`)

// NewClient crea el cliente Redis y verifica la conexión con Ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("conectar Redis: %w", err)
	}
	log.Info().Str("addr", cfg.Addr).Msg("Redis conectado")
	return rdb, nil
}

// StatusCache guarda el estado de marcación por usuario con un TTL corto. Las marcaciones
// invalidan la entrada; el TTL solo acota el daño si una invalidación se pierde.
type StatusCache struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewStatusCache construye la caché. ttl <= 0 usa 15s.
func NewStatusCache(rdb *goredis.Client, ttl time.Duration) *StatusCache {
	if ttl <= 0 {
		ttl = 15 * time.Second
	}
	return &StatusCache{rdb: rdb, ttl: ttl}
}

// Get devuelve la instantánea cacheada o (nil, nil) si no hay.
func (c *StatusCache) Get(ctx context.Context, userID string) (*dto.TimeStatusResponse, error) {
	raw, err := c.rdb.Get(ctx, statusKey(userID)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get status: %w", err)
	}
	var st dto.TimeStatusResponse
	if err := json.Unmarshal(raw, &st); err != nil {
		return nil, fmt.Errorf("decode status: %w", err)
	}
	return &st, nil
}

// Generation devuelve la generación actual del usuario (0 si nunca se invalidó).
func (c *StatusCache) Generation(ctx context.Context, userID string) (int64, error) {
	gen, err := c.rdb.Get(ctx, generationKey(userID)).Int64()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return 0, nil
		}
		return 0, fmt.Errorf("redis get generation: %w", err)
	}
	return gen, nil
}

// Set guarda la instantánea con el TTL configurado si la generación sigue siendo generation.
func (c *StatusCache) Set(ctx context.Context, status *dto.TimeStatusResponse, generation int64) error {
	raw, err := json.Marshal(status)
	if err != nil {
		return fmt.Errorf("encode status: %w", err)
	}
	keys := []string{statusKey(status.UserID), generationKey(status.UserID)}
	err = setIfGeneration.Run(ctx, c.rdb, keys, raw, strconv.FormatInt(generation, 10), c.ttl.Milliseconds()).Err()
	if err != nil {
		return fmt.Errorf("redis set status: %w", err)
	}
	return nil
}

// Invalidate incrementa la generación y borra la instantánea del usuario en una sola transacción.
func (c *StatusCache) Invalidate(ctx context.Context, userID string) error {
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Incr(ctx, generationKey(userID))
		pipe.Del(ctx, statusKey(userID))
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis invalidate status: %w", err)
	}
	return nil
}

func statusKey(userID string) string {
	return statusKeyPrefix + userID
}

func generationKey(userID string) string {
	return generationKeyPrefix + userID
}
