package kafka

import (
	"context"
	"errors"

	"github.com/IBM/sarama"
	"go.uber.org/zap"
)

const (
	MailTopic         = "library.mail"
	MailConsumerGroup = "library-mailer"
)

type Config struct {
	Addrs []string `envconfig:"KAFKA_ADDRS"`
}

func (cfg Config) Enabled() bool {
	return len(cfg.Addrs) > 0
}

func NewProducer(cfg Config) (sarama.SyncProducer, error) {
	defaultCfg := sarama.NewConfig()

	defaultCfg.Producer.RequiredAcks = sarama.WaitForAll
	defaultCfg.Producer.Return.Successes = true

	return sarama.NewSyncProducer(cfg.Addrs, defaultCfg)
}

func NewConsumer(cfg Config, group string) (sarama.ConsumerGroup, error) {
	defaultCfg := sarama.NewConfig()
	defaultCfg.Consumer.Offsets.Initial = sarama.OffsetOldest
	defaultCfg.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}

	return sarama.NewConsumerGroup(cfg.Addrs, group, defaultCfg)
}

// Consume blocks until ctx is done or the group is closed. Consume has to be
// called in a loop because every rebalance ends the current session.
func Consume(ctx context.Context, group sarama.ConsumerGroup, handler sarama.ConsumerGroupHandler, log *zap.Logger, topics ...string) {
	for {
		if err := group.Consume(ctx, topics, handler); err != nil {
			if errors.Is(err, sarama.ErrClosedConsumerGroup) {
				return
			}
			log.Error("consumer group", zap.Error(err))
		}
		if ctx.Err() != nil {
			return
		}
	}
}
