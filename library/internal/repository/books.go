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
	"go.uber.org/zap"
)

var bookColumns = []string{
	"id", "title", "author", "category", "language", "pages",
	"total_copies", "available_copies", "price", "status", "created_at",
}

func (r *repository) CreateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Insert(booksTableName).
		Columns(bookColumns[:len(bookColumns)-1]...).
		Values(book.ID, book.Title, book.Author, book.Category, book.Language, book.Pages,
			book.TotalCopies, book.AvailableCopies, book.Price, book.Status).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}
	var created model.Book
	if err := sqlx.GetContext(ctx, r.db, &created, query, args...); err != nil {
		if isUniqueViolation(err) {
			return model.Book{}, errors.Wrap(errs.ErrConflict, "book already exists")
		}
		r.log.Error("CreateBook", zap.String("q", query), zap.Any("args", args))
		return model.Book{}, err
	}
	return created, nil
}

func (q *queries) GetBook(ctx context.Context, bookID string) (model.Book, error) {
	return q.getBook(ctx, bookID, false)
}

func (q *queries) LockBook(ctx context.Context, bookID string) (model.Book, error) {
	return q.getBook(ctx, bookID, true)
}

func (q *queries) getBook(ctx context.Context, bookID string, forUpdate bool) (model.Book, error) {
	b := qb.Select(bookColumns...).
		From(booksTableName).
		Where(sq.Eq{"id": bookID})
	if forUpdate {
		b = b.Suffix("for update")
	}
	query, args, err := b.ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, q.db, &book, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errors.Wrap(errs.ErrNotFound, "book")
		}
		return model.Book{}, err
	}
	return book, nil
}

func (q *queries) AddAvailableCopies(ctx context.Context, bookID string, delta int) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		Set("available_copies", sq.Expr("available_copies + ?", delta)).
		Where(sq.Eq{"id": bookID}).
		Where(sq.Expr("available_copies + ? >= 0", delta)).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var book model.Book
	if err := sqlx.GetContext(ctx, q.db, &book, query, args...); err != nil {
		if isCheckViolation(err) {
			return model.Book{}, errs.ErrUnavailable
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, err
		}
		if _, err := q.GetBook(ctx, bookID); err != nil {
			return model.Book{}, err
		}
		return model.Book{}, errs.ErrUnavailable
	}
	return book, nil
}

func (q *queries) SetBookStatus(ctx context.Context, bookID string, status model.BookStatus) error {
	query, args, err := qb.Update(booksTableName).
		Set("status", status).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, q.db, "book", query, args...)
}

func (q *queries) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	query, args, err := qb.Update(booksTableName).
		SetMap(map[string]interface{}{
			"title":            book.Title,
			"author":           book.Author,
			"category":         book.Category,
			"language":         book.Language,
			"pages":            book.Pages,
			"total_copies":     book.TotalCopies,
			"available_copies": book.AvailableCopies,
			"price":            book.Price,
			"status":           book.Status,
		}).
		Where(sq.Eq{"id": book.ID}).
		Suffix("returning " + strings.Join(bookColumns, ", ")).
		ToSql()
	if err != nil {
		return model.Book{}, err
	}

	var updated model.Book
	if err := sqlx.GetContext(ctx, q.db, &updated, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Book{}, errors.Wrap(errs.ErrNotFound, "book")
		}
		if isCheckViolation(err) {
			return model.Book{}, errs.ErrUnavailable
		}
		return model.Book{}, err
	}
	return updated, nil
}

func (q *queries) DeleteBook(ctx context.Context, bookID string) error {
	query, args, err := qb.Delete(booksTableName).
		Where(sq.Eq{"id": bookID}).
		ToSql()
	if err != nil {
		return err
	}
	return execAffected(ctx, q.db, "book", query, args...)
}

func (r *repository) ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error) {
	q := qb.Select(bookColumns...).
		From(booksTableName).
		OrderBy("title", "id")

	if filter.Query != "" {
		like := "%" + strings.ToLower(filter.Query) + "%"
		q = q.Where(sq.Or{
			sq.Like{"lower(title)": like},
			sq.Like{"lower(author)": like},
		})
	}
	if filter.Category != "" {
		q = q.Where(sq.Eq{"category": filter.Category})
	}
	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": filter.Status})
	}
	q = paginate(q, filter.Page, filter.Size)

	query, args, err := q.ToSql()
	if err != nil {
		return model.ListBooks{}, err
	}
	r.log.Debug("ListBooks", zap.String("query", query), zap.Any("args", args))

	books := make([]model.Book, 0)
	if err := sqlx.SelectContext(ctx, r.db, &books, query, args...); err != nil {
		return model.ListBooks{}, err
	}

	return model.ListBooks{
		Paging: model.Paging{
			Page:          filter.Page,
			PageSize:      filter.Size,
			TotalElements: len(books),
		},
		Items: books,
	}, nil
}
