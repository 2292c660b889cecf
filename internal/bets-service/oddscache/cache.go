package oddscache

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache guarda a odd corrente de cada aposta no Redis. Não-autoritativo:
// serve pra consulta rápida do admin UI, nunca pra derivação de status.
type Cache struct {
	Client *redis.Client
	TTL    time.Duration
}

func New(c *redis.Client, ttl time.Duration) *Cache {
	return &Cache{Client: c, TTL: ttl}
}

func key(betID string) string { return "bets:odds:" + betID }

func (c *Cache) SetCurrent(ctx context.Context, betID string, odds float64) error {
	return c.Client.Set(ctx, key(betID), strconv.FormatFloat(odds, 'f', -1, 64), c.TTL).Err()
}

func (c *Cache) GetCurrent(ctx context.Context, betID string) (float64, error) {
	val, err := c.Client.Get(ctx, key(betID)).Result()
	if err != nil {
		return 0, err
	}
	return strconv.ParseFloat(val, 64)
}
