package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const dateLayout = "02/01/2006"

type MailQueue interface {
	Enqueue(ctx context.Context, m model.Mail) error
}

// Policy holds the terms of loans the library issues on its own, when a
// returned copy goes straight to the next reservation.
type Policy struct {
	ReservationLoanDays   int
	ReservationFinePerDay decimal.Decimal
}

var DefaultPolicy = Policy{
	ReservationLoanDays:   2,
	ReservationFinePerDay: decimal.NewFromInt(100),
}

type Service struct {
	log    *zap.Logger
	repo   repository.Repository
	ebooks repository.EbookStore
	mail   MailQueue
	auth   auth.Config
	policy Policy
	now    func() time.Time
}

type Option func(*Service)

func WithPolicy(p Policy) Option {
	return func(s *Service) {
		s.policy = p
	}
}

func WithAuth(cfg auth.Config) Option {
	return func(s *Service) {
		s.auth = cfg
	}
}

func WithEbooks(store repository.EbookStore) Option {
	return func(s *Service) {
		s.ebooks = store
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func NewService(repo repository.Repository, mail MailQueue, log *zap.Logger, opts ...Option) *Service {
	s := &Service{
		log:    log.Named("service"),
		repo:   repo,
		mail:   mail,
		policy: DefaultPolicy,
		auth:   auth.Config{Secret: "change-me", TTL: 24 * time.Hour},
		now:    func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// notify stores an in-app message. It runs after the workflow committed, so
// a failure is logged and swallowed.
func (s *Service) notify(ctx context.Context, userID, message string) {
	_, err := s.repo.CreateNotification(ctx, model.Notification{
		ID:      uuid.NewString(),
		UserID:  userID,
		Message: message,
	})
	if err != nil {
		s.log.Warn("notify", zap.String("user_id", userID), zap.Error(err))
	}
}

func (s *Service) sendMail(ctx context.Context, m model.Mail, err error) {
	if err != nil {
		s.log.Warn("render mail", zap.Error(err))
		return
	}
	if s.mail == nil || m.To == "" {
		return
	}
	if err := s.mail.Enqueue(ctx, m); err != nil {
		s.log.Warn("enqueue mail", zap.String("to", m.To), zap.Error(err))
	}
}
