package setup

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

type memStore struct {
	sessions map[string]Session
	attempts map[string]int
}

func newMemStore() *memStore {
	return &memStore{sessions: map[string]Session{}, attempts: map[string]int{}}
}

func (m *memStore) Begin(_ context.Context, token string, s Session, _ time.Duration) error {
	m.sessions[token] = s
	return nil
}

func (m *memStore) Get(_ context.Context, token string) (Session, error) {
	s, ok := m.sessions[token]
	if !ok {
		return Session{}, fmt.Errorf("handshake %s: %w", token, apperr.ErrNotFound)
	}
	return s, nil
}

func (m *memStore) Attempt(_ context.Context, token string) (int, error) {
	m.attempts[token]++
	return m.attempts[token], nil
}

func (m *memStore) Delete(_ context.Context, token string) error {
	delete(m.sessions, token)
	delete(m.attempts, token)
	return nil
}

type fakeChat struct {
	code      string
	signIns   int
	connected bool
}

func (c *fakeChat) Connect(context.Context) error    { c.connected = true; return nil }
func (c *fakeChat) Disconnect(context.Context) error { c.connected = false; return nil }

func (c *fakeChat) SendCode(_ context.Context, phone string) (string, error) {
	return "hash-" + phone, nil
}

func (c *fakeChat) SignIn(_ context.Context, _, _, code string) error {
	c.signIns++
	if code != c.code {
		return errors.New("código inválido")
	}
	return nil
}

func TestFlowHappyPath(t *testing.T) {
	store := newMemStore()
	chat := &fakeChat{code: "12345"}
	f := NewFlow(zap.NewNop(), store, chat)

	token, err := f.Start(context.Background(), "+5511999990000", "g1")
	if err != nil {
		t.Fatal(err)
	}
	if token == "" || store.sessions[token].CodeHash != "hash-+5511999990000" {
		t.Fatalf("start: token=%q sessões=%+v", token, store.sessions)
	}

	if err := f.Verify(context.Background(), token, "12345"); err != nil {
		t.Fatal(err)
	}
	if _, ok := store.sessions[token]; ok {
		t.Fatal("sessão não foi limpa após verificação")
	}
}

func TestFlowAttemptLimit(t *testing.T) {
	store := newMemStore()
	chat := &fakeChat{code: "12345"}
	f := NewFlow(zap.NewNop(), store, chat)

	token, err := f.Start(context.Background(), "+5511999990000", "g1")
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < MaxAttempts; i++ {
		if err := f.Verify(context.Background(), token, "00000"); !errors.Is(err, apperr.ErrValidation) {
			t.Fatalf("tentativa %d: esperado VALIDATION_ERROR, veio %v", i+1, err)
		}
	}

	// acima do limite a sessão é invalidada, mesmo com o código certo
	if err := f.Verify(context.Background(), token, "12345"); !errors.Is(err, apperr.ErrConflict) {
		t.Fatalf("acima do limite: esperado CONFLICT, veio %v", err)
	}
	if _, err := store.Get(context.Background(), token); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatal("sessão estourada não foi removida")
	}
}

func TestFlowValidation(t *testing.T) {
	f := NewFlow(zap.NewNop(), newMemStore(), &fakeChat{})

	if _, err := f.Start(context.Background(), "", "g1"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("telefone vazio: esperado VALIDATION_ERROR, veio %v", err)
	}
	if err := f.Verify(context.Background(), "", "123"); !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("token vazio: esperado VALIDATION_ERROR, veio %v", err)
	}
	if err := f.Verify(context.Background(), "inexistente", "123"); !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("token inexistente: esperado NOT_FOUND, veio %v", err)
	}
}
