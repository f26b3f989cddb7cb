package repository

import (
	"context"
	"database/sql"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
)

func (r *repository) SavePasswordReset(ctx context.Context, reset model.PasswordReset) error {
	query, args, err := qb.Insert(resetsTableName).
		Columns("user_id", "code_hash", "expires_at", "attempts").
		Values(reset.UserID, reset.CodeHash, reset.ExpiresAt, reset.Attempts).
		Suffix("on conflict (user_id) do update set code_hash = excluded.code_hash, " +
			"expires_at = excluded.expires_at, attempts = excluded.attempts").
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}

func (r *repository) GetPasswordReset(ctx context.Context, userID string) (model.PasswordReset, error) {
	query, args, err := qb.Select("user_id", "code_hash", "expires_at", "attempts").
		From(resetsTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return model.PasswordReset{}, err
	}

	var reset model.PasswordReset
	if err := sqlx.GetContext(ctx, r.db, &reset, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.PasswordReset{}, errors.Wrap(errs.ErrNotFound, "password reset")
		}
		return model.PasswordReset{}, err
	}
	return reset, nil
}

func (r *repository) DeletePasswordReset(ctx context.Context, userID string) error {
	query, args, err := qb.Delete(resetsTableName).
		Where(sq.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, query, args...)
	return err
}
