package app

import (
	"context"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var sampleBooks = []model.BookRequest{
	{Title: "The Pragmatic Programmer", Author: "Andrew Hunt", Category: "Programming", Language: "English", Pages: 352, TotalCopies: 3, Price: decimal.NewFromInt(450)},
	{Title: "Clean Code", Author: "Robert C. Martin", Category: "Programming", Language: "English", Pages: 464, TotalCopies: 2, Price: decimal.NewFromInt(520)},
	{Title: "Dune", Author: "Frank Herbert", Category: "Fiction", Language: "English", Pages: 688, TotalCopies: 4, Price: decimal.NewFromInt(300)},
	{Title: "War and Peace", Author: "Leo Tolstoy", Category: "Fiction", Language: "Russian", Pages: 1225, TotalCopies: 1, Price: decimal.NewFromInt(380)},
	{Title: "A Brief History of Time", Author: "Stephen Hawking", Category: "Science", Language: "English", Pages: 256, TotalCopies: 2, Price: decimal.NewFromInt(250)},
}

// Seed adds the sample catalog. added is called once per created book.
func Seed(ctx context.Context, c *Core, added func(id, title string)) error {
	for _, req := range sampleBooks {
		book, err := c.Service.CreateBook(ctx, req)
		if err != nil {
			return errors.Wrapf(err, "seed %q", req.Title)
		}
		if added != nil {
			added(book.ID, book.Title)
		}
	}
	return nil
}

// CreateAdmin registers an administrator and returns its id.
func CreateAdmin(ctx context.Context, c *Core, name, email, password string) (string, error) {
	user, err := c.Service.CreateAdmin(ctx, model.RegisterRequest{Name: name, Email: email, Password: password})
	if err != nil {
		return "", err
	}
	return user.ID, nil
}

func Promote(ctx context.Context, c *Core, email string) error {
	return c.Service.Promote(ctx, email)
}
