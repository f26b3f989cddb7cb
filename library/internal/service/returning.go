package service

import (
	"context"
	"fmt"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// ReturnBook closes a loan. The copies go back on the shelf unless someone
// is queued for the book, in which case one copy is issued to the head of
// the queue right away.
func (s *Service) ReturnBook(ctx context.Context, req model.ReturnRequest) (model.ReturnResult, error) {
	if req.UserID == "" || req.BookID == "" || req.BorrowerID == "" {
		return model.ReturnResult{}, errors.Wrap(errs.ErrValidation, "user_id, book_id and borrower_id are required")
	}

	now := s.now()
	var (
		res      model.ReturnResult
		reserver model.User
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		res = model.ReturnResult{}

		book, err := tx.LockBook(ctx, req.BookID)
		if err != nil {
			return err
		}
		loan, err := tx.CloseLoan(ctx, req.UserID, req.BookID, req.BorrowerID, now)
		if err != nil {
			return err
		}
		res.Loan = loan

		if err := tx.AddUserCost(ctx, loan.UserID, loan.Accrual().Neg()); err != nil {
			return err
		}

		if amount := loan.OverdueFine(now); amount.IsPositive() {
			fine, err := tx.CreateFine(ctx, model.Fine{
				ID:     uuid.NewString(),
				LoanID: loan.ID,
				UserID: loan.UserID,
				Amount: amount,
				Reason: fmt.Sprintf("%s returned %d day(s) late", loan.BookTitle, loan.OverdueDays(now)),
				Status: model.FinePending,
			})
			if err != nil {
				return err
			}
			res.Fine = &fine
		}

		restock := loan.CopiesLent
		r, err := tx.PopReservation(ctx, book.ID)
		switch {
		case errors.Is(err, errs.ErrNotFound):
		case err != nil:
			return err
		default:
			reserver, err = tx.GetUser(ctx, r.UserID)
			if err != nil {
				return err
			}
			issued := model.DateOf(now)
			reissued, err := tx.CreateLoan(ctx, model.Loan{
				ID:         uuid.NewString(),
				BookID:     book.ID,
				UserID:     reserver.ID,
				Name:       reserver.Name,
				BookTitle:  book.Title,
				Author:     book.Author,
				Category:   book.Category,
				IssuedDate: issued,
				DueDate:    issued.AddDate(0, 0, s.policy.ReservationLoanDays),
				CopiesLent: 1,
				FinePerDay: s.policy.ReservationFinePerDay,
				Price:      book.Price,
				Status:     model.LoanBorrowed,
			})
			if err != nil {
				return err
			}
			if err := tx.AddUserCost(ctx, reserver.ID, reissued.Accrual()); err != nil {
				return err
			}
			res.ReissuedTo = &reissued
			restock--
		}

		if restock != 0 {
			if book, err = tx.AddAvailableCopies(ctx, book.ID, restock); err != nil {
				return err
			}
		}
		res.Restocked = restock
		return s.refreshStatus(ctx, tx, book)
	})
	if err != nil {
		return model.ReturnResult{}, err
	}

	s.notify(ctx, res.Loan.UserID, fmt.Sprintf("Book %s returned on %s", res.Loan.BookTitle, now.Format(dateLayout)))
	if res.Fine != nil {
		s.notify(ctx, res.Loan.UserID, fmt.Sprintf("A fine of %s was raised for %s", res.Fine.Amount.StringFixed(2), res.Fine.Reason))
	}
	if res.ReissuedTo != nil {
		loan := *res.ReissuedTo
		s.notify(ctx, loan.UserID, fmt.Sprintf("Your reserved book %s has been issued to you until %s",
			loan.BookTitle, loan.DueDate.Format(dateLayout)))
		m, err := mailer.ReservationFulfilled(reserver, loan)
		s.sendMail(ctx, m, err)
		s.log.Info("reservation fulfilled", zap.String("loan_id", loan.ID), zap.String("user_id", loan.UserID))
	}
	return res, nil
}
