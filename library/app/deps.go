package app

import (
	"context"

	"github.com/Astemirdum/library-lending/library/config"
	"github.com/Astemirdum/library-lending/library/internal/chat"
	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/queue"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/Astemirdum/library-lending/library/internal/repository/memory"
	"github.com/Astemirdum/library-lending/library/internal/repository/mongostore"
	"github.com/Astemirdum/library-lending/library/internal/service"
	"github.com/Astemirdum/library-lending/library/migrations"
	"github.com/Astemirdum/library-lending/pkg/kafka"
	"github.com/Astemirdum/library-lending/pkg/mongodb"
	"github.com/Astemirdum/library-lending/pkg/postgres"
	"github.com/IBM/sarama"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// Core is everything the HTTP server and the admin commands share.
type Core struct {
	Repo    repository.Repository
	Service *service.Service
	Sender  mailer.Sender

	// sql is set for the postgres store only; the chat SQL agent needs it.
	sql      chat.ReadOnlyQuerier
	ebooks   repository.EbookStore
	producer sarama.SyncProducer
	closers  []func()
	log      *zap.Logger
}

// NewCore opens the configured store and mail path. Close releases both.
func NewCore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*Core, error) {
	c := &Core{log: log}
	if err := c.openStore(ctx, cfg); err != nil {
		c.Close()
		return nil, err
	}
	if err := c.openMail(cfg); err != nil {
		c.Close()
		return nil, err
	}

	var mq service.MailQueue
	if c.producer != nil {
		mq = queue.NewEnqueuer(c.producer, kafka.MailTopic)
	} else {
		mq = queue.NewDirect(c.Sender, log)
	}
	c.Service = service.NewService(c.Repo, mq, log,
		service.WithAuth(cfg.Auth),
		service.WithEbooks(c.ebooks),
		service.WithPolicy(service.Policy{
			ReservationLoanDays:   cfg.Lending.ReservationLoanDays,
			ReservationFinePerDay: cfg.Lending.ReservationFinePerDay,
		}),
	)
	return c, nil
}

func (c *Core) openStore(ctx context.Context, cfg *config.Config) error {
	switch cfg.Store {
	case config.StorePostgres:
		db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return errors.Wrap(err, "db init")
		}
		c.closers = append(c.closers, func() { _ = db.Close() })
		repo, err := repository.NewRepository(db, c.log)
		if err != nil {
			return errors.Wrap(err, "repo")
		}
		c.Repo, c.sql, c.ebooks = repo, repo, repo
	case config.StoreMongo:
		client, err := mongodb.NewClient(ctx, cfg.Mongo)
		if err != nil {
			return errors.Wrap(err, "mongo init")
		}
		c.closers = append(c.closers, func() { _ = client.Disconnect(context.Background()) })
		store := mongostore.New(client.Database(cfg.Mongo.Database), c.log)
		if err := store.EnsureIndexes(ctx); err != nil {
			return errors.Wrap(err, "mongo indexes")
		}
		c.Repo, c.ebooks = store, store
	case config.StoreMemory:
		c.log.Warn("in-memory store, data is lost on exit")
		store := memory.New()
		c.Repo, c.ebooks = store, store
	default:
		return errors.Errorf("unknown store %q", cfg.Store)
	}
	return nil
}

func (c *Core) openMail(cfg *config.Config) error {
	if cfg.SMTP.Enabled() {
		sender, err := mailer.NewSMTPSender(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		if err != nil {
			return errors.Wrap(err, "smtp")
		}
		c.Sender = sender
	} else {
		c.Sender = mailer.NewLogSender(c.log)
	}

	if cfg.Kafka.Enabled() {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return errors.Wrap(err, "kafka.NewProducer")
		}
		c.closers = append(c.closers, func() { _ = producer.Close() })
		c.producer = producer
	}
	return nil
}

// Chat builds the assistant. Without a model endpoint it answers from
// keywords and the catalog alone.
func (c *Core) Chat(cfg config.LLM) *chat.Router {
	log := c.log.Named("chat")
	if !cfg.Enabled() {
		return chat.NewRouter(chat.KeywordClassifier{}, chat.NewLookupAgent(c.Service), chat.CannedResponder{}, log)
	}
	llm := chat.NewOpenAIClient(chat.Config{
		BaseURL: cfg.BaseURL,
		APIKey:  cfg.APIKey,
		Model:   cfg.Model,
		Timeout: cfg.Timeout,
	})
	var query chat.QueryAgent = chat.NewLookupAgent(c.Service)
	if c.sql != nil {
		query = chat.NewSQLAgent(llm, c.sql, log)
	}
	return chat.NewRouter(chat.NewLLMClassifier(llm), query, chat.NewLLMResponder(llm), log)
}

func (c *Core) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
	c.closers = nil
}
