package producer

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// KafkaPublisher publica bet_posted. A chave é o group_id: todas as postagens
// de um grupo caem na mesma partição e chegam na ordem de envio.
type KafkaPublisher struct {
	writer *kafka.Writer
}

func NewKafkaPublisher(w *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{writer: w}
}

func (p *KafkaPublisher) PublishBetPosted(ctx context.Context, e events.BetPosted) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.GroupID),
		Value: payload,
	})
}
