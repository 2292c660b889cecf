package notifier

import (
	"context"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type fakeReader struct {
	msgs []kafka.Message
	stop context.CancelFunc
}

func (f *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	if len(f.msgs) == 0 {
		f.stop()
		return kafka.Message{}, ctx.Err()
	}
	m := f.msgs[0]
	f.msgs = f.msgs[1:]
	return m, nil
}

type fakeSink struct {
	msgs []kafka.Message
	err  error
}

func (f *fakeSink) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if f.err != nil {
		return f.err
	}
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func runConsumer(t *testing.T, c *Consumer, reader *fakeReader) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	reader.stop = cancel
	if err := c.Run(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Run = %v, esperava context.Canceled", err)
	}
}

func TestConsumerEntregaMensagens(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{
		{Key: []byte("g1"), Value: []byte(`{"a":1}`)},
		{Key: []byte("g2"), Value: []byte(`{"a":2}`)},
	}}
	var handled []string
	delivered := 0
	c := &Consumer{
		Log:    zap.NewNop(),
		Reader: reader,
		Handle: func(_ context.Context, key, _ []byte) error {
			handled = append(handled, string(key))
			return nil
		},
		OnDelivered: func() { delivered++ },
	}

	runConsumer(t, c, reader)

	if len(handled) != 2 || handled[0] != "g1" || handled[1] != "g2" {
		t.Fatalf("handled = %v", handled)
	}
	if delivered != 2 {
		t.Fatalf("delivered = %d", delivered)
	}
}

func TestConsumerFalhaVaiPraDLQIntacta(t *testing.T) {
	payload := []byte(`{"bet_id":"b1"}`)
	reader := &fakeReader{msgs: []kafka.Message{
		{Key: []byte("g1"), Value: payload},
		{Key: []byte("g1"), Value: []byte(`{"bet_id":"b2"}`)},
	}}
	dlq := &fakeSink{}
	deadLettered := 0
	c := &Consumer{
		Log:    zap.NewNop(),
		Reader: reader,
		DLQ:    dlq,
		Handle: func(_ context.Context, _, value []byte) error {
			if string(value) == string(payload) {
				return errors.New("gateway fora do ar")
			}
			return nil
		},
		OnDeadLettered: func() { deadLettered++ },
	}

	runConsumer(t, c, reader)

	// a falha não trava a fila: b2 ainda é processada
	if len(dlq.msgs) != 1 || string(dlq.msgs[0].Value) != string(payload) {
		t.Fatalf("dlq = %v, esperava só o payload original de b1", dlq.msgs)
	}
	if string(dlq.msgs[0].Key) != "g1" {
		t.Fatalf("dlq key = %q, a chave original deve ser preservada", dlq.msgs[0].Key)
	}
	if deadLettered != 1 {
		t.Fatalf("deadLettered = %d", deadLettered)
	}
}

func TestConsumerSemDLQSoLoga(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Key: []byte("g1"), Value: []byte(`{}`)}}}
	var stages []string
	c := &Consumer{
		Log:     zap.NewNop(),
		Reader:  reader,
		Handle:  func(_ context.Context, _, _ []byte) error { return errors.New("boom") },
		OnError: func(stage string) { stages = append(stages, stage) },
	}

	runConsumer(t, c, reader)

	if len(stages) != 1 || stages[0] != "deliver" {
		t.Fatalf("stages = %v", stages)
	}
}

func TestConsumerErroNaDLQConta(t *testing.T) {
	reader := &fakeReader{msgs: []kafka.Message{{Key: []byte("g1"), Value: []byte(`{}`)}}}
	var stages []string
	c := &Consumer{
		Log:     zap.NewNop(),
		Reader:  reader,
		DLQ:     &fakeSink{err: errors.New("broker indisponível")},
		Handle:  func(_ context.Context, _, _ []byte) error { return errors.New("boom") },
		OnError: func(stage string) { stages = append(stages, stage) },
	}

	runConsumer(t, c, reader)

	if len(stages) != 2 || stages[0] != "deliver" || stages[1] != "dlq" {
		t.Fatalf("stages = %v", stages)
	}
}
