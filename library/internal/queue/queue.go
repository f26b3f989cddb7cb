// Package queue hands e-mails off the request path: to Kafka when brokers
// are configured, otherwise to a background goroutine.
package queue

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/IBM/sarama"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Enqueuer interface {
	Enqueue(ctx context.Context, m model.Mail) error
}

func NewEnqueuer(producer sarama.SyncProducer, topic string) Enqueuer {
	return &enqueuerImpl{
		producer: producer,
		topic:    topic,
	}
}

type enqueuerImpl struct {
	producer sarama.SyncProducer
	topic    string
}

func (q *enqueuerImpl) Enqueue(_ context.Context, m model.Mail) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	msg := &sarama.ProducerMessage{
		Topic: q.topic,
		Key:   sarama.StringEncoder(m.To),
		Value: sarama.ByteEncoder(data),
	}
	if _, _, err = q.producer.SendMessage(msg); err != nil {
		return errors.Wrap(err, "produce mail")
	}
	return nil
}

const sendTimeout = 30 * time.Second

// NewDirect sends every mail on its own goroutine. Failures are logged.
func NewDirect(sender mailer.Sender, log *zap.Logger) Enqueuer {
	return &direct{sender: sender, log: log.Named("mail-queue")}
}

type direct struct {
	sender mailer.Sender
	log    *zap.Logger
}

func (q *direct) Enqueue(_ context.Context, m model.Mail) error {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()
		if err := q.sender.Send(ctx, m); err != nil {
			q.log.Error("send mail", zap.String("to", m.To), zap.Error(err))
		}
	}()
	return nil
}
