package http

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/internal/membership"
	"github.com/radieske/bet-community-platform/internal/membership-service/processor"
	"github.com/radieske/bet-community-platform/internal/shared/apperr"
)

// brokenStore derruba qualquer acesso, simulando banco fora do ar.
type brokenStore struct{}

func (brokenStore) GetByTelegram(context.Context, int64, string) (membership.Member, error) {
	return membership.Member{}, fmt.Errorf("pg down: %w", apperr.ErrDB)
}

func (brokenStore) Get(context.Context, string) (membership.Member, error) {
	return membership.Member{}, fmt.Errorf("pg down: %w", apperr.ErrDB)
}

func (brokenStore) Create(context.Context, membership.Member) (membership.Member, error) {
	return membership.Member{}, fmt.Errorf("pg down: %w", apperr.ErrDB)
}

func (brokenStore) Update(context.Context, membership.Member) error {
	return fmt.Errorf("pg down: %w", apperr.ErrDB)
}

func newTestServer() *Server {
	proc := processor.New(zap.NewNop(), brokenStore{}, nil, 24)
	return NewServer(zap.NewNop(), proc, nil)
}

func TestChatWebhookAlwaysAcks(t *testing.T) {
	srv := newTestServer()

	cases := []string{
		`{"type":"member_joined","telegram_id":111,"group_id":"g1"}`, // falha interna (store quebrado)
		`{na verdade nem é json`,                                     // payload inválido
		`{"type":"member_left","telegram_id":111,"group_id":"g1"}`,   // evento desconhecido
	}
	for _, body := range cases {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/chat", strings.NewReader(body))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("chat webhook respondeu %d pra %q; o transporte exige 200 sempre", rec.Code, body)
		}
	}
}

func TestPaymentWebhookValidates(t *testing.T) {
	srv := newTestServer()

	cases := []struct {
		body string
		want int
	}{
		{`{"event":"purchase_approved","telegram_id":0,"group_id":"g1"}`, http.StatusBadRequest},
		{`{"event":"purchase_approved","telegram_id":111,"group_id":"g1"}`, http.StatusBadRequest}, // sem period_end
		{`{"event":"algo_estranho","telegram_id":111,"group_id":"g1"}`, http.StatusBadRequest},
		{`{"event":"subscription_canceled","telegram_id":111,"group_id":"g1"}`, http.StatusInternalServerError}, // store quebrado propaga
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodPost, "/webhooks/payment", strings.NewReader(c.body))
		rec := httptest.NewRecorder()
		srv.Router().ServeHTTP(rec, req)

		if rec.Code != c.want {
			t.Fatalf("payment webhook %q: status %d, esperado %d", c.body, rec.Code, c.want)
		}
	}
}
