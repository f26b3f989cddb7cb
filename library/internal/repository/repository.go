package repository

import (
	"context"
	"database/sql"
	"io"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Tx is the part of the store a lending workflow touches. Every call made
// through a Tx handed out by WithTx commits or rolls back together.
type Tx interface {
	GetUser(ctx context.Context, userID string) (model.User, error)
	AddUserCost(ctx context.Context, userID string, delta decimal.Decimal) error
	DeleteUser(ctx context.Context, userID string) error

	GetBook(ctx context.Context, bookID string) (model.Book, error)
	// LockBook reads the book and holds it against concurrent workflows until
	// the transaction ends.
	LockBook(ctx context.Context, bookID string) (model.Book, error)
	// AddAvailableCopies applies delta atomically and fails with
	// errs.ErrUnavailable instead of going below zero.
	AddAvailableCopies(ctx context.Context, bookID string, delta int) (model.Book, error)
	SetBookStatus(ctx context.Context, bookID string, status model.BookStatus) error
	UpdateBook(ctx context.Context, book model.Book) (model.Book, error)
	DeleteBook(ctx context.Context, bookID string) error

	CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error)
	// CloseLoan marks a Borrowed loan Returned. errs.ErrAlreadyReturned when
	// the loan exists but is closed, errs.ErrNotFound when nothing matches.
	CloseLoan(ctx context.Context, userID, bookID, loanID string, returnedAt time.Time) (model.Loan, error)
	CountLoans(ctx context.Context, filter model.LoanFilter) (int, error)

	CreateFine(ctx context.Context, fine model.Fine) (model.Fine, error)

	CreateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error)
	CountReservations(ctx context.Context, filter model.ReservationFilter) (int, error)
	// PopReservation removes and returns the oldest reservation for the book,
	// errs.ErrNotFound when the queue is empty.
	PopReservation(ctx context.Context, bookID string) (model.Reservation, error)
	DeleteReservation(ctx context.Context, reservationID string) (model.Reservation, error)
}

type Repository interface {
	Tx
	WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error

	CreateBook(ctx context.Context, book model.Book) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)

	CreateUser(ctx context.Context, user model.User) (model.User, error)
	GetUserByEmail(ctx context.Context, email string) (model.User, error)
	ListUsers(ctx context.Context, page, size int) ([]model.User, error)
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	SetRole(ctx context.Context, email, role string) error

	// SavePasswordReset replaces any pending code of the user.
	SavePasswordReset(ctx context.Context, r model.PasswordReset) error
	GetPasswordReset(ctx context.Context, userID string) (model.PasswordReset, error)
	DeletePasswordReset(ctx context.Context, userID string) error

	ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.Loan, error)
	ListReservations(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error)

	CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error)
	ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error)
	DeleteNotifications(ctx context.Context, userID string) error

	ListFines(ctx context.Context, filter model.FineFilter) (model.ListFines, error)
	// SettleFine moves a pending fine to status. errs.ErrConflict when the fine
	// is no longer pending.
	SettleFine(ctx context.Context, fineID string, status model.FineStatus, at time.Time) (model.Fine, error)
}

// EbookStore keeps e-book metadata next to the file content.
type EbookStore interface {
	CreateEbook(ctx context.Context, e model.Ebook, content io.Reader) (model.Ebook, error)
	// ListEbooks returns the newest uploads first; an empty category matches all.
	ListEbooks(ctx context.Context, category string) ([]model.Ebook, error)
	// OpenEbook returns errs.ErrNotFound for an unknown id. The caller closes
	// the reader.
	OpenEbook(ctx context.Context, id string) (model.Ebook, io.ReadCloser, error)
}

const (
	usersTableName         = `users`
	booksTableName         = `books`
	loansTableName         = `loans`
	reservationsTableName  = `reservations`
	notificationsTableName = `notifications`
	finesTableName         = `fines`
	resetsTableName        = `password_resets`
	ebooksTableName        = `ebooks`
)

var qb = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// queries runs against either the pool or an open transaction.
type queries struct {
	db  sqlx.ExtContext
	log *zap.Logger
}

type repository struct {
	queries
	pool *sqlx.DB
}

var (
	_ Repository = (*repository)(nil)
	_ EbookStore = (*repository)(nil)
)

func NewRepository(db *sqlx.DB, log *zap.Logger) (*repository, error) {
	log = log.Named("repo")
	return &repository{
		queries: queries{db: db, log: log},
		pool:    db,
	}, nil
}

func (r *repository) WithTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) (err error) {
	tx, err := r.pool.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return errors.Wrap(err, "begin tx")
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				r.log.Error("rollback", zap.Error(rbErr))
			}
			return
		}
		err = errors.Wrap(tx.Commit(), "commit tx")
	}()

	return fn(ctx, &queries{db: tx, log: r.log})
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

func isCheckViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.CheckViolation
}

// execAffected runs a write and reports errs.ErrNotFound for entity when no
// row matched.
func execAffected(ctx context.Context, db sqlx.ExecerContext, entity, query string, args ...interface{}) error {
	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return errors.Wrap(errs.ErrNotFound, entity)
	}
	return nil
}

func paginate(q sq.SelectBuilder, page, size int) sq.SelectBuilder {
	if page != 0 && size != 0 {
		q = q.Limit(uint64(size)).Offset(uint64((page - 1) * size))
	}
	return q
}
