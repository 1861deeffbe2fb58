package otp

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/stockmaster-api/internal/application/auth"
)

var _ auth.OTPStore = (*RedisStore)(nil)

const keyPrefix = "otp:"

// consumeScript compara y borra en una sola operación del servidor Redis.
// Devuelve 0 = válido, 1 = no coincide, 3 = sin entrada.
var consumeScript = redis.NewScript(`
local code = redis.call('HGET', KEYS[1], 'code')
if not code then
  return 3
end
if code == ARGV[1] then
  redis.call('DEL', KEYS[1])
  return 0
end
local attempts = redis.call('HINCRBY', KEYS[1], 'attempts', 1)
local max = tonumber(ARGV[2])
if max > 0 and attempts >= max then
  redis.call('DEL', KEYS[1])
end
return 1
`)

// RedisStore almacén de OTP compartido entre instancias. El vencimiento lo aplica Redis
// (PEXPIRE), por eso una entrada vencida se reporta como inexistente.
type RedisStore struct {
	rdb         *redis.Client
	maxAttempts int
}

// NewRedisStore construye el almacén sobre un cliente ya conectado.
func NewRedisStore(rdb *redis.Client, maxAttempts int) *RedisStore {
	return &RedisStore{rdb: rdb, maxAttempts: maxAttempts}
}

// NewRedisClient abre el cliente y verifica la conexión.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return rdb, nil
}

// Put reemplaza la entrada del email en una transacción MULTI/EXEC.
func (s *RedisStore) Put(ctx context.Context, email, code string, ttl time.Duration) error {
	key := keyPrefix + email
	_, err := s.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, key)
		p.HSet(ctx, key, "code", code, "attempts", 0)
		p.PExpire(ctx, key, ttl)
		return nil
	})
	if err != nil {
		return fmt.Errorf("guardar OTP: %w", err)
	}
	return nil
}

// Consume ejecuta el script de comparación y borrado.
func (s *RedisStore) Consume(ctx context.Context, email, code string) (auth.ConsumeResult, error) {
	n, err := consumeScript.Run(ctx, s.rdb, []string{keyPrefix + email}, code, s.maxAttempts).Int()
	if err != nil {
		return auth.ConsumeMissing, fmt.Errorf("consumir OTP: %w", err)
	}
	switch n {
	case 0:
		return auth.ConsumeValid, nil
	case 1:
		return auth.ConsumeMismatch, nil
	default:
		return auth.ConsumeMissing, nil
	}
}

// PurgeExpired no tiene trabajo: Redis expira las claves.
func (s *RedisStore) PurgeExpired(context.Context) (int, error) {
	return 0, nil
}
