package memory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, s *Store) {
	t.Helper()
	ctx := context.Background()
	_, err := s.CreateUser(ctx, model.User{ID: "u1", Name: "Ann", Email: "ann@mail.com", Cost: decimal.Zero})
	require.NoError(t, err)
	_, err = s.CreateBook(ctx, model.Book{ID: "b1", Title: "Dune", TotalCopies: 2, AvailableCopies: 2, Status: model.BookAvailable})
	require.NoError(t, err)
}

func TestStore_WithTxRollback(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()
	boom := errors.New("boom")

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.AddAvailableCopies(ctx, "b1", -2); err != nil {
			return err
		}
		if err := tx.AddUserCost(ctx, "u1", decimal.NewFromInt(50)); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	book, err := s.GetBook(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, 2, book.AvailableCopies)

	user, err := s.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.True(t, user.Cost.IsZero())
}

func TestStore_WithTxCommit(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	err := s.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		_, err := tx.AddAvailableCopies(ctx, "b1", -1)
		return err
	})
	require.NoError(t, err)

	book, err := s.GetBook(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, 1, book.AvailableCopies)
}

func TestStore_AddAvailableCopies(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	_, err := s.AddAvailableCopies(ctx, "b1", -3)
	require.ErrorIs(t, err, errs.ErrUnavailable)

	_, err = s.AddAvailableCopies(ctx, "nope", 1)
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_PopReservationFIFO(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()
	_, err := s.CreateUser(ctx, model.User{ID: "u2", Email: "bob@mail.com"})
	require.NoError(t, err)

	_, err = s.CreateReservation(ctx, model.Reservation{ID: "r1", UserID: "u2", BookID: "b1", QueuePosition: 1})
	require.NoError(t, err)
	_, err = s.CreateReservation(ctx, model.Reservation{ID: "r2", UserID: "u1", BookID: "b1", QueuePosition: 2})
	require.NoError(t, err)
	_, err = s.CreateReservation(ctx, model.Reservation{ID: "r3", UserID: "u1", BookID: "b1"})
	require.ErrorIs(t, err, errs.ErrConflict)

	r, err := s.PopReservation(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, "r1", r.ID)

	r, err = s.PopReservation(ctx, "b1")
	require.NoError(t, err)
	require.Equal(t, "r2", r.ID)

	_, err = s.PopReservation(ctx, "b1")
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_CloseLoan(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	_, err := s.CreateLoan(ctx, model.Loan{ID: "l1", UserID: "u1", BookID: "b1", CopiesLent: 1, Status: model.LoanBorrowed})
	require.NoError(t, err)

	loan, err := s.CloseLoan(ctx, "u1", "b1", "l1", s.now())
	require.NoError(t, err)
	require.Equal(t, model.LoanReturned, loan.Status)
	require.NotNil(t, loan.ReturnedAt)

	_, err = s.CloseLoan(ctx, "u1", "b1", "l1", s.now())
	require.ErrorIs(t, err, errs.ErrAlreadyReturned)

	_, err = s.CloseLoan(ctx, "u1", "b2", "l1", s.now())
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestStore_PasswordReset(t *testing.T) {
	s := New()
	seed(t, s)
	ctx := context.Background()

	_, err := s.GetPasswordReset(ctx, "u1")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.ErrorIs(t, s.SavePasswordReset(ctx, model.PasswordReset{UserID: "nobody"}), errs.ErrNotFound)

	require.NoError(t, s.SavePasswordReset(ctx, model.PasswordReset{UserID: "u1", CodeHash: "a"}))
	require.NoError(t, s.SavePasswordReset(ctx, model.PasswordReset{UserID: "u1", CodeHash: "b", Attempts: 1}))
	r, err := s.GetPasswordReset(ctx, "u1")
	require.NoError(t, err)
	require.Equal(t, "b", r.CodeHash)
	require.Equal(t, 1, r.Attempts)

	err = s.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		return tx.DeleteUser(ctx, "u1")
	})
	require.NoError(t, err)
	_, err = s.GetPasswordReset(ctx, "u1")
	require.ErrorIs(t, err, errs.ErrNotFound)
	require.NoError(t, s.DeletePasswordReset(ctx, "u1"))
}

func TestStore_Ebooks(t *testing.T) {
	s := New()
	ctx := context.Background()
	tick := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { tick = tick.Add(time.Minute); return tick }

	for _, e := range []model.Ebook{
		{ID: "e1", Title: "Go", Category: "Programming", Format: "pdf"},
		{ID: "e2", Title: "Dune", Category: "Fiction", Format: "epub"},
		{ID: "e3", Title: "Rust", Category: "Programming", Format: "mobi"},
	} {
		created, err := s.CreateEbook(ctx, e, strings.NewReader("content of "+e.ID))
		require.NoError(t, err)
		require.EqualValues(t, len("content of "+e.ID), created.Size)
	}

	all, err := s.ListEbooks(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	require.Equal(t, "e3", all[0].ID)

	prog, err := s.ListEbooks(ctx, "Programming")
	require.NoError(t, err)
	require.Equal(t, []string{"e3", "e1"}, []string{prog[0].ID, prog[1].ID})

	meta, rc, err := s.OpenEbook(ctx, "e2")
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.Equal(t, "content of e2", string(data))
	require.Equal(t, "Dune.epub", meta.FileName())

	_, _, err = s.OpenEbook(ctx, "missing")
	require.ErrorIs(t, err, errs.ErrNotFound)
}
