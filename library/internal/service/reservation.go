package service

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ReserveBook queues the user for the book. Stock is not checked: a user
// may reserve a book that is on the shelf.
func (s *Service) ReserveBook(ctx context.Context, req model.ReserveRequest) (model.Reservation, error) {
	if req.UserID == "" || req.BookID == "" {
		return model.Reservation{}, errors.Wrap(errs.ErrValidation, "user_id and book_id are required")
	}
	reservedAt := req.ReservationDate.Time
	if reservedAt.IsZero() {
		reservedAt = s.now()
	}

	var (
		created model.Reservation
		user    model.User
		book    model.Book
	)
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		var err error
		if user, err = tx.GetUser(ctx, req.UserID); err != nil {
			return err
		}
		if book, err = tx.LockBook(ctx, req.BookID); err != nil {
			return err
		}

		dup, err := tx.CountReservations(ctx, model.ReservationFilter{UserID: user.ID, BookID: book.ID})
		if err != nil {
			return err
		}
		if dup > 0 {
			return errors.Wrap(errs.ErrConflict, "You have already reserved this book")
		}
		pending, err := tx.CountReservations(ctx, model.ReservationFilter{BookID: book.ID})
		if err != nil {
			return err
		}

		created, err = tx.CreateReservation(ctx, model.Reservation{
			ID:            uuid.NewString(),
			UserID:        user.ID,
			BookID:        book.ID,
			ReservedDate:  reservedAt,
			QueuePosition: pending + 1,
		})
		if err != nil {
			return err
		}
		return tx.SetBookStatus(ctx, book.ID, model.BookReserved)
	})
	if err != nil {
		return model.Reservation{}, err
	}

	s.notify(ctx, user.ID, "Your Book Reservation is Confirmed")
	m, err := mailer.ReservationConfirmed(user, book, created)
	s.sendMail(ctx, m, err)

	created.BookTitle, created.Author = book.Title, book.Author
	return created, nil
}

// CancelReservation drops a reservation. An authenticated caller may only
// cancel their own unless they are an admin.
func (s *Service) CancelReservation(ctx context.Context, reservationID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		r, err := tx.DeleteReservation(ctx, reservationID)
		if err != nil {
			return err
		}
		if caller, err := auth.GetUserID(ctx); err == nil && caller != r.UserID && !auth.IsAdmin(ctx) {
			return errors.Wrap(errs.ErrForbidden, "reservation belongs to another user")
		}
		book, err := tx.LockBook(ctx, r.BookID)
		if err != nil {
			return err
		}
		return s.refreshStatus(ctx, tx, book)
	})
}

func (s *Service) ListUserReservations(ctx context.Context, userID string) ([]model.Reservation, error) {
	if _, err := s.repo.GetUser(ctx, userID); err != nil {
		return nil, err
	}
	return s.repo.ListReservations(ctx, model.ReservationFilter{UserID: userID})
}

// ListBookReservations returns the queue for a book, head first.
func (s *Service) ListBookReservations(ctx context.Context, bookID string) ([]model.Reservation, error) {
	if _, err := s.repo.GetBook(ctx, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListReservations(ctx, model.ReservationFilter{BookID: bookID})
}
