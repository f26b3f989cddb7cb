package service

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func validateLend(req model.LendRequest) error {
	switch {
	case req.BookID == "" || req.UserID == "":
		return errors.Wrap(errs.ErrValidation, "book_id and user_id are required")
	case req.Copies < 1:
		return errors.Wrap(errs.ErrValidation, "copies must be at least 1")
	case req.FinePerDay.IsNegative():
		return errors.Wrap(errs.ErrValidation, "fine_per_day must not be negative")
	case req.IssuedDate.IsZero() || req.DueDate.IsZero():
		return errors.Wrap(errs.ErrValidation, "issued_date and due_date are required")
	case model.DateOf(req.DueDate.Time).Before(model.DateOf(req.IssuedDate.Time)):
		return errors.Wrap(errs.ErrValidation, "due_date is before issued_date")
	}
	return nil
}

// LendBook issues copies of a book to a user and charges the loan to the
// user's balance up front.
func (s *Service) LendBook(ctx context.Context, req model.LendRequest) (model.Loan, error) {
	if err := validateLend(req); err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		user, err := tx.GetUser(ctx, req.UserID)
		if err != nil {
			return err
		}
		book, err := tx.LockBook(ctx, req.BookID)
		if err != nil {
			return err
		}
		book, err = tx.AddAvailableCopies(ctx, book.ID, -req.Copies)
		if err != nil {
			return err
		}
		if err := s.refreshStatus(ctx, tx, book); err != nil {
			return err
		}

		loan, err = tx.CreateLoan(ctx, model.Loan{
			ID:         uuid.NewString(),
			BookID:     book.ID,
			UserID:     user.ID,
			Name:       user.Name,
			BookTitle:  book.Title,
			Author:     book.Author,
			Category:   book.Category,
			IssuedDate: req.IssuedDate.Time,
			DueDate:    req.DueDate.Time,
			CopiesLent: req.Copies,
			FinePerDay: req.FinePerDay,
			Price:      book.Price,
			Status:     model.LoanBorrowed,
		})
		if err != nil {
			return err
		}
		return tx.AddUserCost(ctx, user.ID, loan.Accrual())
	})
	if err != nil {
		return model.Loan{}, err
	}

	s.notify(ctx, loan.UserID, fmt.Sprintf("You have borrowed %s from %s to %s",
		loan.BookTitle, loan.IssuedDate.Format(dateLayout), loan.DueDate.Format(dateLayout)))
	return loan, nil
}

// refreshStatus stores the status derived from stock and the queue.
func (s *Service) refreshStatus(ctx context.Context, tx repository.Tx, book model.Book) error {
	pending, err := tx.CountReservations(ctx, model.ReservationFilter{BookID: book.ID})
	if err != nil {
		return err
	}
	return tx.SetBookStatus(ctx, book.ID, model.DeriveBookStatus(book.AvailableCopies, pending))
}

func (s *Service) ListUserLoans(ctx context.Context, userID string, status model.LoanStatus) ([]model.Loan, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListLoans(ctx, model.LoanFilter{UserID: userID, Status: status})
}
