package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var loanColumns = []string{
	"id", "book_id", "user_id", "name", "book_title", "author", "category",
	"issued_date", "due_date", "copies_lent", "fine_per_day", "price",
	"status", "returned_at", "created_at",
}

func (q *queries) CreateLoan(ctx context.Context, loan model.Loan) (model.Loan, error) {
	query, args, err := qb.Insert(loansTableName).
		Columns(loanColumns[:len(loanColumns)-2]...).
		Values(loan.ID, loan.BookID, loan.UserID, loan.Name, loan.BookTitle, loan.Author, loan.Category,
			model.DateOf(loan.IssuedDate), model.DateOf(loan.DueDate), loan.CopiesLent, loan.FinePerDay, loan.Price,
			loan.Status).
		Suffix("returning " + strings.Join(loanColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var created model.Loan
	if err := sqlx.GetContext(ctx, q.db, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Loan{}, errors.Wrap(errs.ErrConflict, "loan")
		}
		return model.Loan{}, err
	}
	return created, nil
}

func (q *queries) CloseLoan(ctx context.Context, userID, bookID, loanID string, returnedAt time.Time) (model.Loan, error) {
	match := sq.Eq{"id": loanID, "user_id": userID, "book_id": bookID}
	query, args, err := qb.Update(loansTableName).
		Set("status", model.LoanReturned).
		Set("returned_at", returnedAt).
		Where(match).
		Where(sq.Eq{"status": model.LoanBorrowed}).
		Suffix("returning " + strings.Join(loanColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Loan{}, err
	}

	var loan model.Loan
	err = sqlx.GetContext(ctx, q.db, &loan, query, args...)
	if err == nil {
		return loan, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Loan{}, err
	}

	n, err := q.countWhere(ctx, loansTableName, match)
	if err != nil {
		return model.Loan{}, err
	}
	if n > 0 {
		return model.Loan{}, errs.ErrAlreadyReturned
	}
	return model.Loan{}, errors.Wrap(errs.ErrNotFound, "loan")
}

func loanWhere(filter model.LoanFilter) sq.And {
	pred := sq.And{}
	if filter.UserID != "" {
		pred = append(pred, sq.Eq{"user_id": filter.UserID})
	}
	if filter.BookID != "" {
		pred = append(pred, sq.Eq{"book_id": filter.BookID})
	}
	if filter.Status != "" {
		pred = append(pred, sq.Eq{"status": filter.Status})
	}
	if filter.DueBefore != nil {
		pred = append(pred, sq.Lt{"due_date": model.DateOf(*filter.DueBefore)})
	}
	if filter.DueAfter != nil {
		pred = append(pred, sq.GtOrEq{"due_date": model.DateOf(*filter.DueAfter)})
	}
	return pred
}

func (q *queries) CountLoans(ctx context.Context, filter model.LoanFilter) (int, error) {
	return q.countWhere(ctx, loansTableName, loanWhere(filter))
}

func (r *repository) ListLoans(ctx context.Context, filter model.LoanFilter) ([]model.Loan, error) {
	query, args, err := qb.Select(loanColumns...).
		From(loansTableName).
		Where(loanWhere(filter)).
		OrderBy("issued_date desc", "created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	loans := make([]model.Loan, 0)
	if err := sqlx.SelectContext(ctx, r.db, &loans, query, args...); err != nil {
		return nil, err
	}
	return loans, nil
}

func (q *queries) countWhere(ctx context.Context, table string, pred sq.Sqlizer) (int, error) {
	query, args, err := qb.Select("count(*)").
		From(table).
		Where(pred).
		ToSql()
	if err != nil {
		return 0, err
	}
	var n int
	if err := sqlx.GetContext(ctx, q.db, &n, query, args...); err != nil {
		return 0, err
	}
	return n, nil
}
