package handler

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

type sendMail func(ctx context.Context, m model.Mail) error

// MailConsumer delivers mails queued on the mail topic.
type MailConsumer struct {
	sendHandler sendMail
	timeout     time.Duration
	log         *zap.Logger
}

func NewMailConsumer(send sendMail, log *zap.Logger) *MailConsumer {
	return &MailConsumer{
		sendHandler: send,
		timeout:     30 * time.Second,
		log:         log.Named("consumer"),
	}
}

func (consumer *MailConsumer) Setup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *MailConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

func (consumer *MailConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				consumer.log.Warn("message channel was closed")
				return nil
			}
			consumer.handle(session.Context(), message)
			session.MarkMessage(message, "")
		case <-session.Context().Done():
			return nil
		}
	}
}

// handle never blocks the partition on a bad message: undecodable or
// undeliverable mails are logged and skipped.
func (consumer *MailConsumer) handle(ctx context.Context, message *sarama.ConsumerMessage) {
	var m model.Mail
	if err := json.Unmarshal(message.Value, &m); err != nil {
		consumer.log.Error("decode mail", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(ctx, consumer.timeout)
	defer cancel()
	if err := consumer.sendHandler(ctx, m); err != nil {
		consumer.log.Error("send mail", zap.String("to", m.To), zap.Error(err))
		return
	}
	consumer.log.Debug("mail sent",
		zap.String("to", m.To),
		zap.Time("timestamp", message.Timestamp),
		zap.String("topic", message.Topic))
}
