package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var userColumns = []string{
	"id", "name", "email", "password_hash", "role",
	"membership_type", "status", "cost", "created_at",
}

func (r *repository) CreateUser(ctx context.Context, user model.User) (model.User, error) {
	query, args, err := qb.Insert(usersTableName).
		Columns(userColumns[:len(userColumns)-1]...).
		Values(user.ID, user.Name, user.Email, user.PasswordHash, user.Role,
			user.MembershipType, user.Status, user.Cost).
		Suffix("returning " + strings.Join(userColumns, ", ")).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var created model.User
	if err := sqlx.GetContext(ctx, r.db, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.User{}, errors.Wrap(errs.ErrConflict, "user already exists")
		}
		r.log.Error("CreateUser", zap.Error(err))
		return model.User{}, err
	}
	return created, nil
}

func (q *queries) GetUser(ctx context.Context, userID string) (model.User, error) {
	return q.getUserBy(ctx, sq.Eq{"id": userID})
}

func (r *repository) GetUserByEmail(ctx context.Context, email string) (model.User, error) {
	return r.getUserBy(ctx, sq.Eq{"email": strings.ToLower(email)})
}

func (q *queries) getUserBy(ctx context.Context, pred sq.Eq) (model.User, error) {
	query, args, err := qb.Select(userColumns...).
		From(usersTableName).
		Where(pred).
		ToSql()
	if err != nil {
		return model.User{}, err
	}

	var user model.User
	if err := sqlx.GetContext(ctx, q.db, &user, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.User{}, errors.Wrap(errs.ErrNotFound, "user")
		}
		return model.User{}, err
	}
	return user, nil
}

func (q *queries) AddUserCost(ctx context.Context, userID string, delta decimal.Decimal) error {
	query, args, err := qb.Update(usersTableName).
		Set("cost", sq.Expr("cost + ?", delta)).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, q.db, "user", query, args...)
}

func (q *queries) DeleteUser(ctx context.Context, userID string) error {
	query, args, err := qb.Delete(usersTableName).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, q.db, "user", query, args...)
}

func (r *repository) ListUsers(ctx context.Context, page, size int) ([]model.User, error) {
	query, args, err := paginate(
		qb.Select(userColumns...).From(usersTableName).OrderBy("created_at", "id"),
		page, size,
	).ToSql()
	if err != nil {
		return nil, err
	}

	users := make([]model.User, 0)
	if err := sqlx.SelectContext(ctx, r.db, &users, query, args...); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *repository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	query, args, err := qb.Update(usersTableName).
		Set("password_hash", passwordHash).
		Where(sq.Eq{"id": userID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, r.db, "user", query, args...)
}

func (r *repository) SetRole(ctx context.Context, email, role string) error {
	query, args, err := qb.Update(usersTableName).
		Set("role", role).
		Where(sq.Eq{"email": strings.ToLower(email)}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, r.db, "user", query, args...)
}
