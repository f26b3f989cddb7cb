package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"go.uber.org/zap"
)

type Reminder struct {
	svc      *Service
	interval time.Duration
	window   time.Duration
	log      *zap.Logger

	mu sync.Mutex
	// sent maps a loan id to the day it was last reminded about.
	sent map[string]string
}

func NewReminder(svc *Service, interval, window time.Duration, log *zap.Logger) *Reminder {
	return &Reminder{
		svc:      svc,
		interval: interval,
		window:   window,
		log:      log.Named("reminder"),
		sent:     make(map[string]string),
	}
}

// Run scans once right away and then every interval until ctx is done.
func (r *Reminder) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		if n, err := r.RunOnce(ctx); err != nil {
			r.log.Error("reminder scan", zap.Error(err))
		} else {
			r.log.Debug("reminder scan", zap.Int("sent", n))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// RunOnce reminds the borrower of every active loan that is overdue or due
// within the window, and returns how many reminders went out. A loan is
// reminded about at most once per calendar day.
func (r *Reminder) RunOnce(ctx context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.svc.now()
	today := now.Format(dateLayout)
	// due dates are whole days, so the window is rounded up to the next one
	limit := now.Add(r.window).AddDate(0, 0, 1)
	loans, err := r.svc.repo.ListLoans(ctx, model.LoanFilter{Status: model.LoanBorrowed, DueBefore: &limit})
	if err != nil {
		return 0, err
	}

	users := make(map[string]model.User)
	active := make(map[string]struct{}, len(loans))
	sent := 0
	for _, loan := range loans {
		active[loan.ID] = struct{}{}
		if r.sent[loan.ID] == today {
			continue
		}
		user, ok := users[loan.UserID]
		if !ok {
			if user, err = r.svc.repo.GetUser(ctx, loan.UserID); err != nil {
				r.log.Warn("reminder user", zap.String("user_id", loan.UserID), zap.Error(err))
				continue
			}
			users[user.ID] = user
		}

		if days := loan.OverdueDays(now); days > 0 {
			r.svc.notify(ctx, user.ID, fmt.Sprintf("%s is overdue by %d day(s). Please return it.", loan.BookTitle, days))
		} else {
			r.svc.notify(ctx, user.ID, fmt.Sprintf("%s is due on %s", loan.BookTitle, loan.DueDate.Format(dateLayout)))
		}
		m, err := mailer.DueReminder(user, loan, now)
		r.svc.sendMail(ctx, m, err)
		r.sent[loan.ID] = today
		sent++
	}

	// returned loans drop out of the scan
	for id := range r.sent {
		if _, ok := active[id]; !ok {
			delete(r.sent, id)
		}
	}
	return sent, nil
}
