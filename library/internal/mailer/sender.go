// Package mailer renders library e-mails and delivers them over SMTP.
package mailer

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/pkg/errors"
	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

type Sender interface {
	Send(ctx context.Context, m model.Mail) error
}

type Config struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg Config) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithPort(cfg.Port),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if cfg.User != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.User),
			mail.WithPassword(cfg.Password),
		)
	}
	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, errors.Wrap(err, "smtp client")
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, m model.Mail) error {
	msg, err := newMsg(s.from, m)
	if err != nil {
		return err
	}
	return errors.Wrap(s.client.DialAndSendWithContext(ctx, msg), "smtp send")
}

func newMsg(from string, m model.Mail) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(from); err != nil {
		return nil, errors.Wrap(err, "from")
	}
	if err := msg.To(m.To); err != nil {
		return nil, errors.Wrap(err, "to")
	}
	msg.Subject(m.Subject)
	msg.SetBodyString(mail.TypeTextPlain, m.Text)
	if m.HTML != "" {
		msg.AddAlternativeString(mail.TypeTextHTML, m.HTML)
	}
	return msg, nil
}

// LogSender stands in for SMTP when no server is configured.
type LogSender struct {
	log *zap.Logger
}

func NewLogSender(log *zap.Logger) *LogSender {
	return &LogSender{log: log.Named("mailer")}
}

func (s *LogSender) Send(_ context.Context, m model.Mail) error {
	s.log.Info("mail", zap.String("to", m.To), zap.String("subject", m.Subject))
	return nil
}
