package setup

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Handshake em múltiplos passos do login do chat (telefone -> código).
// O estado mora num Store injetável com token opaco, TTL e contador de
// tentativas — nada de mapa global em memória, pra suportar múltiplas
// instâncias do serviço.

const (
	DefaultTTL  = 10 * time.Minute
	MaxAttempts = 5
)

// Session é o estado intermediário do handshake.
type Session struct {
	Phone     string    `json:"phone"`
	GroupID   string    `json:"group_id"`
	CodeHash  string    `json:"code_hash"` // referência do provedor, nunca exposta ao cliente
	StartedAt time.Time `json:"started_at"`
}

// Store é o contrato do armazenamento do handshake. A implementação de
// produção é Redis; os testes usam um fake em memória.
type Store interface {
	Begin(ctx context.Context, token string, s Session, ttl time.Duration) error
	Get(ctx context.Context, token string) (Session, error)
	Attempt(ctx context.Context, token string) (int, error)
	Delete(ctx context.Context, token string) error
}

// NewToken gera o token opaco que identifica o handshake.
func NewToken() string { return uuid.NewString() }

// RedisStore guarda cada sessão sob chave própria com TTL; as tentativas são
// um contador separado com o mesmo TTL.
type RedisStore struct {
	Client *redis.Client
}

func NewRedisStore(c *redis.Client) *RedisStore { return &RedisStore{Client: c} }

func sessionKey(token string) string  { return "setup:session:" + token }
func attemptsKey(token string) string { return "setup:attempts:" + token }

func (r *RedisStore) Begin(ctx context.Context, token string, s Session, ttl time.Duration) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return r.Client.Set(ctx, sessionKey(token), b, ttl).Err()
}

func (r *RedisStore) Get(ctx context.Context, token string) (Session, error) {
	val, err := r.Client.Get(ctx, sessionKey(token)).Result()
	if errors.Is(err, redis.Nil) {
		return Session{}, fmt.Errorf("handshake %s expirado ou inexistente: %w", token, apperr.ErrNotFound)
	}
	if err != nil {
		return Session{}, err
	}
	var s Session
	if err := json.Unmarshal([]byte(val), &s); err != nil {
		return Session{}, err
	}
	return s, nil
}

func (r *RedisStore) Attempt(ctx context.Context, token string) (int, error) {
	n, err := r.Client.Incr(ctx, attemptsKey(token)).Result()
	if err != nil {
		return 0, err
	}
	if n == 1 {
		// primeiro attempt fixa o TTL do contador junto com o da sessão
		_ = r.Client.Expire(ctx, attemptsKey(token), DefaultTTL).Err()
	}
	return int(n), nil
}

func (r *RedisStore) Delete(ctx context.Context, token string) error {
	return r.Client.Del(ctx, sessionKey(token), attemptsKey(token)).Err()
}
