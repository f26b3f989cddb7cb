package repository

import (
	"bytes"
	"context"
	"database/sql"
	"io"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

var ebookColumns = []string{"id", "title", "author", "category", "format", "size", "uploaded_at"}

// CreateEbook keeps the file in a bytea column next to its metadata.
func (r *repository) CreateEbook(ctx context.Context, e model.Ebook, content io.Reader) (model.Ebook, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return model.Ebook{}, errors.Wrap(err, "read e-book")
	}
	e.Size = int64(len(data))

	query, args, err := qb.Insert(ebooksTableName).
		Columns("id", "title", "author", "category", "format", "size", "content").
		Values(e.ID, e.Title, e.Author, e.Category, e.Format, e.Size, data).
		Suffix("returning uploaded_at").
		ToSql()
	if err != nil {
		return model.Ebook{}, err
	}
	if err := sqlx.GetContext(ctx, r.db, &e.UploadedAt, query, args...); err != nil {
		r.log.Error("CreateEbook", zap.Error(err))
		return model.Ebook{}, err
	}
	return e, nil
}

func (r *repository) ListEbooks(ctx context.Context, category string) ([]model.Ebook, error) {
	q := qb.Select(ebookColumns...).From(ebooksTableName).OrderBy("uploaded_at desc", "id")
	if category != "" {
		q = q.Where(sq.Eq{"category": category})
	}
	query, args, err := q.ToSql()
	if err != nil {
		return nil, err
	}

	out := make([]model.Ebook, 0)
	if err := sqlx.SelectContext(ctx, r.db, &out, query, args...); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) OpenEbook(ctx context.Context, id string) (model.Ebook, io.ReadCloser, error) {
	query, args, err := qb.Select(append(ebookColumns, "content")...).
		From(ebooksTableName).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return model.Ebook{}, nil, err
	}

	var row struct {
		model.Ebook
		Content []byte `db:"content"`
	}
	if err := sqlx.GetContext(ctx, r.db, &row, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Ebook{}, nil, errors.Wrap(errs.ErrNotFound, "e-book")
		}
		return model.Ebook{}, nil, err
	}
	return row.Ebook, io.NopCloser(bytes.NewReader(row.Content)), nil
}
