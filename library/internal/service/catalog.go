package service

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

func (s *Service) CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error) {
	if req.Price.IsNegative() {
		return model.Book{}, errors.Wrap(errs.ErrValidation, "price must not be negative")
	}
	return s.repo.CreateBook(ctx, model.Book{
		ID:              uuid.NewString(),
		Title:           req.Title,
		Author:          req.Author,
		Category:        req.Category,
		Language:        req.Language,
		Pages:           req.Pages,
		TotalCopies:     req.TotalCopies,
		AvailableCopies: req.TotalCopies,
		Price:           req.Price,
		Status:          model.BookAvailable,
	})
}

func (s *Service) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.repo.GetBook(ctx, bookID)
}

func (s *Service) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	return s.repo.ListBooks(ctx, filter)
}

// UpdateBook edits the catalog entry. Copies out on loan stay out: the new
// total must cover them.
func (s *Service) UpdateBook(ctx context.Context, bookID string, req model.BookRequest) (model.Book, error) {
	if req.Price.IsNegative() {
		return model.Book{}, errors.Wrap(errs.ErrValidation, "price must not be negative")
	}
	var updated model.Book
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		book, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		onLoan := book.TotalCopies - book.AvailableCopies
		if req.TotalCopies < onLoan {
			return errors.Wrapf(errs.ErrValidation, "%d copies are on loan", onLoan)
		}

		book.Title = req.Title
		book.Author = req.Author
		book.Category = req.Category
		book.Language = req.Language
		book.Pages = req.Pages
		book.Price = req.Price
		book.TotalCopies = req.TotalCopies
		book.AvailableCopies = req.TotalCopies - onLoan

		pending, err := tx.CountReservations(ctx, model.ReservationFilter{BookID: book.ID})
		if err != nil {
			return err
		}
		book.Status = model.DeriveBookStatus(book.AvailableCopies, pending)
		updated, err = tx.UpdateBook(ctx, book)
		return err
	})
	return updated, err
}

func (s *Service) DeleteBook(ctx context.Context, bookID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.LockBook(ctx, bookID); err != nil {
			return err
		}
		active, err := tx.CountLoans(ctx, model.LoanFilter{BookID: bookID, Status: model.LoanBorrowed})
		if err != nil {
			return err
		}
		if active > 0 {
			return errors.Wrap(errs.ErrConflict, "book has active loans")
		}
		return tx.DeleteBook(ctx, bookID)
	})
}
