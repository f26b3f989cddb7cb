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

var fineColumns = []string{"id", "loan_id", "user_id", "amount", "reason", "status", "created_at", "settled_at"}

func (q *queries) CreateFine(ctx context.Context, fine model.Fine) (model.Fine, error) {
	query, args, err := qb.Insert(finesTableName).
		Columns("id", "loan_id", "user_id", "amount", "reason", "status").
		Values(fine.ID, fine.LoanID, fine.UserID, fine.Amount, fine.Reason, fine.Status).
		Suffix("returning " + strings.Join(fineColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Fine{}, err
	}

	var created model.Fine
	if err := sqlx.GetContext(ctx, q.db, &created, query, args...); err != nil {
		return model.Fine{}, err
	}
	return created, nil
}

func (r *repository) ListFines(ctx context.Context, filter model.FineFilter) (model.ListFines, error) {
	pred := sq.Eq{}
	if filter.UserID != "" {
		pred["user_id"] = filter.UserID
	}
	if filter.Status != "" {
		pred["status"] = filter.Status
	}
	query, args, err := paginate(
		qb.Select(fineColumns...).From(finesTableName).Where(pred).OrderBy("created_at desc", "id"),
		filter.Page, filter.Size,
	).ToSql()
	if err != nil {
		return model.ListFines{}, err
	}

	fines := make([]model.Fine, 0)
	if err := sqlx.SelectContext(ctx, r.db, &fines, query, args...); err != nil {
		return model.ListFines{}, err
	}
	return model.ListFines{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(fines),
		},
		Items: fines,
	}, nil
}

func (r *repository) SettleFine(ctx context.Context, fineID string, status model.FineStatus, at time.Time) (model.Fine, error) {
	query, args, err := qb.Update(finesTableName).
		Set("status", status).
		Set("settled_at", at).
		Where(sq.Eq{"id": fineID, "status": model.FinePending}).
		Suffix("returning " + strings.Join(fineColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Fine{}, err
	}

	var fine model.Fine
	err = sqlx.GetContext(ctx, r.db, &fine, query, args...)
	if err == nil {
		return fine, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return model.Fine{}, err
	}
	n, err := r.countWhere(ctx, finesTableName, sq.Eq{"id": fineID})
	if err != nil {
		return model.Fine{}, err
	}
	if n > 0 {
		return model.Fine{}, errors.Wrap(errs.ErrConflict, "fine already settled")
	}
	return model.Fine{}, errors.Wrap(errs.ErrNotFound, "fine")
}
