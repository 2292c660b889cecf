package notifier

import (
	"context"
	"time"

	"go.uber.org/zap"

	skafka "github.com/radieske/bet-community-platform/internal/shared/kafka"
)

// Consumer é o loop de consumo de um tópico: lê, entrega ao Handle e, quando a
// entrega falha, repassa a mensagem intacta pra DLQ em vez de travar a fila.
// Callbacks de métricas podem ser usadas para monitoramento de cada etapa.
type Consumer struct {
	Log    *zap.Logger
	Reader skafka.MessageSource
	DLQ    skafka.MessageSink // nil descarta falhas (só loga)
	Handle func(ctx context.Context, key, value []byte) error

	OnConsumed     func()       // métricas (counter++)
	OnDelivered    func()       // métricas
	OnDeadLettered func()       // métricas
	OnError        func(string) // métricas por fase
}

// Run inicia o loop principal de consumo até o contexto encerrar.
func (c *Consumer) Run(ctx context.Context) error {
	for {
		key, value, err := skafka.ReadNext(ctx, c.Reader)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			c.Log.Warn("kafka read failed", zap.Error(err))
			if c.OnError != nil {
				c.OnError("read")
			}
			time.Sleep(500 * time.Millisecond)
			continue
		}

		if c.OnConsumed != nil {
			c.OnConsumed()
		}

		if err := c.Handle(ctx, key, value); err != nil {
			c.Log.Warn("delivery failed", zap.Error(err))
			if c.OnError != nil {
				c.OnError("deliver")
			}
			c.deadLetter(ctx, key, value)
			continue
		}
		if c.OnDelivered != nil {
			c.OnDelivered()
		}
	}
}

func (c *Consumer) deadLetter(ctx context.Context, key, value []byte) {
	if c.DLQ == nil {
		return
	}
	if err := skafka.WriteJSON(ctx, c.DLQ, string(key), value); err != nil {
		c.Log.Error("dlq write failed", zap.Error(err))
		if c.OnError != nil {
			c.OnError("dlq")
		}
		return
	}
	if c.OnDeadLettered != nil {
		c.OnDeadLettered()
	}
}
