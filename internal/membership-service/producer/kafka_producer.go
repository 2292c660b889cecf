package producer

import (
	"context"
	"encoding/json"
	"strconv"

	"github.com/segmentio/kafka-go"

	"github.com/radieske/bet-community-platform/pkg/contracts/events"
)

// KafkaPublisher publica os eventos de membership consumidos pela camada de
// notificação (transporte de chat externo). Writer nil desativa o evento
// correspondente (ex.: o sweep só publica kicked).
type KafkaPublisher struct {
	JoinedWriter *kafka.Writer
	KickedWriter *kafka.Writer
}

func NewKafkaPublisher(joined, kicked *kafka.Writer) *KafkaPublisher {
	return &KafkaPublisher{JoinedWriter: joined, KickedWriter: kicked}
}

func (p *KafkaPublisher) PublishMemberJoined(ctx context.Context, e events.MemberJoined) error {
	if p.JoinedWriter == nil {
		return nil
	}
	b, _ := json.Marshal(e)
	return p.JoinedWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.TelegramID, 10)),
		Value: b,
	})
}

func (p *KafkaPublisher) PublishMemberKicked(ctx context.Context, e events.MemberKicked) error {
	if p.KickedWriter == nil {
		return nil
	}
	b, _ := json.Marshal(e)
	return p.KickedWriter.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(e.TelegramID, 10)),
		Value: b,
	})
}
