package repository

import (
	"context"
	"strings"

	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
)

var notificationColumns = []string{"id", "user_id", "message", "is_read", "created_at"}

func (r *repository) CreateNotification(ctx context.Context, n model.Notification) (model.Notification, error) {
	query, args, err := qb.Insert(notificationsTableName).
		Columns("id", "user_id", "message", "is_read").
		Values(n.ID, n.UserID, n.Message, n.IsRead).
		Suffix("returning " + strings.Join(notificationColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Notification{}, err
	}

	var created model.Notification
	if err := sqlx.GetContext(ctx, r.db, &created, query, args...); err != nil {
		return model.Notification{}, err
	}
	return created, nil
}

func (r *repository) ListNotifications(ctx context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	pred := sq.Eq{"user_id": userID}
	if unreadOnly {
		pred["is_read"] = false
	}
	query, args, err := qb.Select(notificationColumns...).
		From(notificationsTableName).
		Where(pred).
		OrderBy("created_at desc").
		ToSql()
	if err != nil {
		return nil, err
	}

	items := make([]model.Notification, 0)
	if err := sqlx.SelectContext(ctx, r.db, &items, query, args...); err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteNotifications clears the inbox once it has been read.
func (r *repository) DeleteNotifications(ctx context.Context, userID string) error {
	query, args, err := qb.Delete(notificationsTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
