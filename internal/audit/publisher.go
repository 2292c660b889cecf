package audit

import (
	"context"
	"encoding/json"
	"time"

	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// Publisher envia registros de auditoria pro tópico audit_log.
// Best-effort: falha aqui é logada e nunca propaga pra operação primária.
type Publisher struct {
	log    *zap.Logger
	writer *kafkago.Writer
}

func NewPublisher(log *zap.Logger, w *kafkago.Writer) *Publisher {
	return &Publisher{log: log, writer: w}
}

// Record publica a mudança com timeout curto próprio, desacoplado do contexto
// da requisição que originou a mudança.
func (p *Publisher) Record(rec events.AuditRecord) {
	if rec.Ts.IsZero() {
		rec.Ts = time.Now()
	}
	b, err := json.Marshal(rec)
	if err != nil {
		p.log.Warn("audit marshal", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()

	if err := p.writer.WriteMessages(ctx, kafkago.Message{Key: []byte(rec.EntityID), Value: b}); err != nil {
		p.log.Warn("audit publish failed",
			zap.String("entity", rec.Entity),
			zap.String("entity_id", rec.EntityID),
			zap.Error(err),
		)
	}
}
