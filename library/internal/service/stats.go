package service

import (
	"context"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"golang.org/x/sync/errgroup"
)

func (s *Service) UserStats(ctx context.Context, userID string) (model.UserStats, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return model.UserStats{}, err
	}
	today := s.now()

	var stats model.UserStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		stats.Lended, err = s.repo.CountLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanBorrowed})
		return err
	})
	g.Go(func() (err error) {
		stats.Overdue, err = s.repo.CountLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanBorrowed, DueBefore: &today})
		return err
	})
	g.Go(func() (err error) {
		stats.Reserved, err = s.repo.CountReservations(ctx, model.ReservationFilter{UserID: userID})
		return err
	})
	if err := g.Wait(); err != nil {
		return model.UserStats{}, err
	}
	return stats, nil
}

func (s *Service) ChartStats(ctx context.Context, userID string) (model.ChartStats, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return model.ChartStats{}, err
	}
	today := s.now()

	var chart model.ChartStats
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		chart.Returned, err = s.repo.CountLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanReturned})
		return err
	})
	g.Go(func() (err error) {
		chart.Overdue, err = s.repo.CountLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanBorrowed, DueBefore: &today})
		return err
	})
	if err := g.Wait(); err != nil {
		return model.ChartStats{}, err
	}
	return chart, nil
}

// LendingActivity counts the user's loans per calendar month of issue,
// January through December, over all years.
func (s *Service) LendingActivity(ctx context.Context, userID string) ([]model.MonthCount, error) {
	loans, err := s.ListUserLoans(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	var counts [12]int
	for _, l := range loans {
		counts[l.IssuedDate.Month()-1]++
	}
	out := make([]model.MonthCount, 0, len(counts))
	for i, n := range counts {
		out = append(out, model.MonthCount{Month: time.Month(i + 1).String(), Count: n})
	}
	return out, nil
}
