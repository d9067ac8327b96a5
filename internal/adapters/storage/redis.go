package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/alejandrodnm/storearb/internal/domain"
	"github.com/redis/go-redis/v9"
)

// DefaultRedisKey es la key donde se guarda el documento si no se configura otra.
const DefaultRedisKey = "storearb:opportunities"

// RedisConfig contiene los parámetros de conexión del backend redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
}

// RedisStorage implementa ports.SnapshotStore guardando el documento JSON en una key.
// SET reemplaza el valor completo, así que la escritura es atómica para los lectores.
type RedisStorage struct {
	rdb *redis.Client
	key string
}

// NewRedisStorage conecta con Redis y verifica la conexión con un PING.
func NewRedisStorage(ctx context.Context, cfg RedisConfig) (*RedisStorage, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("storage.NewRedisStorage: ping %s: %w", cfg.Addr, err)
	}
	return newRedisStorage(rdb, cfg.Key), nil
}

func newRedisStorage(rdb *redis.Client, key string) *RedisStorage {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisStorage{rdb: rdb, key: key}
}

// Load lee el documento. redis.Nil (key inexistente) es un set vacío sin error.
func (r *RedisStorage) Load(ctx context.Context) (domain.OpportunitySet, error) {
	data, err := r.rdb.Get(ctx, r.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return domain.OpportunitySet{}, nil
	}
	if err != nil {
		return domain.OpportunitySet{}, fmt.Errorf("storage.RedisStorage.Load: %w: %v", domain.ErrPersistenceRead, err)
	}
	return decodeOpportunities(data)
}

// Save reemplaza el documento con el set dado.
func (r *RedisStorage) Save(ctx context.Context, set domain.OpportunitySet) error {
	data, err := encodeOpportunities(set)
	if err != nil {
		return fmt.Errorf("storage.RedisStorage.Save: %w", err)
	}
	if err := r.rdb.Set(ctx, r.key, data, 0).Err(); err != nil {
		return fmt.Errorf("storage.RedisStorage.Save: set %s: %w", r.key, err)
	}
	return nil
}

// Close cierra el cliente Redis.
func (r *RedisStorage) Close() error {
	return r.rdb.Close()
}
