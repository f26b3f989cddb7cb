package service

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// FineSummary reports what the user would owe if every overdue loan came
// back today, next to the running account cost.
func (s *Service) FineSummary(ctx context.Context, userID string) (model.FineSummary, error) {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return model.FineSummary{}, err
	}
	loans, err := s.repo.ListLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanBorrowed})
	if err != nil {
		return model.FineSummary{}, err
	}

	now := s.now()
	summary := model.FineSummary{
		TotalFines:   decimal.Zero,
		AccountCost:  user.Cost,
		OverdueBooks: make([]model.OverdueBook, 0),
	}
	for _, l := range loans {
		days := l.OverdueDays(now)
		if days == 0 {
			continue
		}
		amount := l.OverdueFine(now)
		summary.TotalFines = summary.TotalFines.Add(amount)
		summary.OverdueBooks = append(summary.OverdueBooks, model.OverdueBook{
			Title:       l.BookTitle,
			DueDate:     l.DueDate.Format(dateLayout),
			OverdueDays: days,
			FineAmount:  amount,
		})
	}
	return summary, nil
}

func (s *Service) ListFines(ctx context.Context, filter model.FineFilter) (model.ListFines, error) {
	return s.repo.ListFines(ctx, filter)
}

// PayFine settles a pending fine. A member may only pay their own.
func (s *Service) PayFine(ctx context.Context, fineID string) (model.Fine, error) {
	if caller, err := auth.GetUserID(ctx); err == nil && !auth.IsAdmin(ctx) {
		own, err := s.repo.ListFines(ctx, model.FineFilter{UserID: caller})
		if err != nil {
			return model.Fine{}, err
		}
		if !containsFine(own.Items, fineID) {
			return model.Fine{}, errors.Wrap(errs.ErrNotFound, "fine")
		}
	}
	return s.settleFine(ctx, fineID, model.FinePaid)
}

func (s *Service) WaiveFine(ctx context.Context, fineID string) (model.Fine, error) {
	return s.settleFine(ctx, fineID, model.FineWaived)
}

func (s *Service) settleFine(ctx context.Context, fineID string, status model.FineStatus) (model.Fine, error) {
	fine, err := s.repo.SettleFine(ctx, fineID, status, s.now())
	if err != nil {
		return model.Fine{}, err
	}
	s.notify(ctx, fine.UserID, "Your fine of "+fine.Amount.StringFixed(2)+" was marked "+string(status))
	return fine, nil
}

func containsFine(fines []model.Fine, id string) bool {
	for _, f := range fines {
		if f.ID == id {
			return true
		}
	}
	return false
}
