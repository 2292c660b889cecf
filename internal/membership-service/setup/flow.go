package setup

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// Flow orquestra o handshake de login do chat sobre o Store injetado.
type Flow struct {
	log   *zap.Logger
	store Store
	chat  ChatClient
	ttl   time.Duration
}

func NewFlow(log *zap.Logger, store Store, chat ChatClient) *Flow {
	return &Flow{log: log, store: store, chat: chat, ttl: DefaultTTL}
}

// Start abre o handshake: envia o código pro telefone e devolve o token opaco
// que identifica a sessão nos passos seguintes.
func (f *Flow) Start(ctx context.Context, phone, groupID string) (string, error) {
	if phone == "" {
		return "", fmt.Errorf("telefone obrigatório: %w", apperr.ErrValidation)
	}

	if err := f.chat.Connect(ctx); err != nil {
		return "", fmt.Errorf("conectar chat: %w", err)
	}
	defer func() { _ = f.chat.Disconnect(ctx) }()

	codeHash, err := f.chat.SendCode(ctx, phone)
	if err != nil {
		return "", fmt.Errorf("enviar código: %w", err)
	}

	token := NewToken()
	sess := Session{Phone: phone, GroupID: groupID, CodeHash: codeHash, StartedAt: time.Now()}
	if err := f.store.Begin(ctx, token, sess, f.ttl); err != nil {
		return "", fmt.Errorf("persistir handshake: %w", err)
	}

	return token, nil
}

// Verify fecha o handshake com o código digitado. Tentativas acima do limite
// invalidam a sessão — o usuário recomeça do Start.
func (f *Flow) Verify(ctx context.Context, token, code string) error {
	if token == "" || code == "" {
		return fmt.Errorf("token e código obrigatórios: %w", apperr.ErrValidation)
	}

	sess, err := f.store.Get(ctx, token)
	if err != nil {
		return err
	}

	n, err := f.store.Attempt(ctx, token)
	if err != nil {
		return err
	}
	if n > MaxAttempts {
		_ = f.store.Delete(ctx, token)
		return fmt.Errorf("tentativas esgotadas: %w", apperr.ErrConflict)
	}

	if err := f.chat.Connect(ctx); err != nil {
		return fmt.Errorf("conectar chat: %w", err)
	}
	defer func() { _ = f.chat.Disconnect(ctx) }()

	if err := f.chat.SignIn(ctx, sess.Phone, sess.CodeHash, code); err != nil {
		f.log.Warn("sign-in falhou", zap.String("token", token), zap.Int("attempt", n), zap.Error(err))
		return fmt.Errorf("código recusado: %w", apperr.ErrValidation)
	}

	return f.store.Delete(ctx, token)
}
