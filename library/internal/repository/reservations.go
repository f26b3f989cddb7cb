package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

var reservationColumns = []string{
	"id", "seq", "user_id", "book_id", "reserved_date", "queue_position", "created_at",
}

func (q *queries) CreateReservation(ctx context.Context, r model.Reservation) (model.Reservation, error) {
	query, args, err := qb.Insert(reservationsTableName).
		Columns("id", "user_id", "book_id", "reserved_date", "queue_position").
		Values(r.ID, r.UserID, r.BookID, r.ReservedDate, r.QueuePosition).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var created model.Reservation
	if err := sqlx.GetContext(ctx, q.db, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Reservation{}, errors.Wrap(errs.ErrConflict, "You have already reserved this book")
		}
		return model.Reservation{}, err
	}
	return created, nil
}

func reservationWhere(filter model.ReservationFilter) sq.Eq {
	pred := sq.Eq{}
	if filter.UserID != "" {
		pred["user_id"] = filter.UserID
	}
	if filter.BookID != "" {
		pred["book_id"] = filter.BookID
	}
	return pred
}

func (q *queries) CountReservations(ctx context.Context, filter model.ReservationFilter) (int, error) {
	return q.countWhere(ctx, reservationsTableName, reservationWhere(filter))
}

func (q *queries) PopReservation(ctx context.Context, bookID string) (model.Reservation, error) {
	head, headArgs, err := qb.Select("id").
		From(reservationsTableName).
		Where(sq.Eq{"book_id": bookID}).
		OrderBy("seq").
		Limit(1).
		Suffix("for update").
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	query, args, err := qb.Delete(reservationsTableName).
		Where(fmt.Sprintf("id = (%s)", head), headArgs...).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var r model.Reservation
	if err := sqlx.GetContext(ctx, q.db, &r, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "reservation")
		}
		return model.Reservation{}, err
	}
	return r, nil
}

func (q *queries) DeleteReservation(ctx context.Context, reservationID string) (model.Reservation, error) {
	query, args, err := qb.Delete(reservationsTableName).
		Where(sq.Eq{"id": reservationID}).
		Suffix("returning " + strings.Join(reservationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Reservation{}, err
	}

	var r model.Reservation
	if err := sqlx.GetContext(ctx, q.db, &r, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "reservation")
		}
		return model.Reservation{}, err
	}
	return r, nil
}

func (r *repository) ListReservations(ctx context.Context, filter model.ReservationFilter) ([]model.Reservation, error) {
	cols := make([]string, 0, len(reservationColumns)+2)
	for _, c := range reservationColumns {
		cols = append(cols, "r."+c)
	}
	cols = append(cols, "coalesce(b.title, '') as book_title", "coalesce(b.author, '') as author")

	pred := sq.Eq{}
	for k, v := range reservationWhere(filter) {
		pred["r."+k] = v
	}

	query, args, err := qb.Select(cols...).
		From(reservationsTableName + " r").
		LeftJoin(booksTableName + " b on b.id = r.book_id").
		Where(pred).
		OrderBy("r.seq").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Reservation, 0)
	if err := sqlx.SelectContext(ctx, r.db, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}
