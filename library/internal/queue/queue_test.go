package queue

import (
	"context"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnqueuer_Enqueue(t *testing.T) {
	cfg := mocks.NewTestConfig()
	cfg.Producer.Return.Successes = true
	producer := mocks.NewSyncProducer(t, cfg)
	defer func() { require.NoError(t, producer.Close()) }()

	want := model.Mail{To: "ann@mail.com", Subject: "hi", Text: "hello"}
	producer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var got model.Mail
		if err := json.Unmarshal(val, &got); err != nil {
			return err
		}
		require.Equal(t, want, got)
		return nil
	})

	q := NewEnqueuer(producer, "library.mail")
	require.NoError(t, q.Enqueue(context.Background(), want))
}

func TestEnqueuer_EnqueueFails(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	defer func() { _ = producer.Close() }()
	producer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	q := NewEnqueuer(producer, "library.mail")
	require.ErrorIs(t, q.Enqueue(context.Background(), model.Mail{To: "a@b.c"}), sarama.ErrOutOfBrokers)
}

type chanSender chan model.Mail

func (c chanSender) Send(_ context.Context, m model.Mail) error {
	c <- m
	return nil
}

func TestDirect_Enqueue(t *testing.T) {
	sent := make(chanSender, 1)
	q := NewDirect(sent, zap.NewExample())

	require.NoError(t, q.Enqueue(context.Background(), model.Mail{To: "ann@mail.com"}))
	select {
	case m := <-sent:
		require.Equal(t, "ann@mail.com", m.To)
	case <-time.After(time.Second):
		t.Fatal("mail was not sent")
	}
}
