package mongostore

import (
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func toDecimal128(d decimal.Decimal) primitive.Decimal128 {
	v, err := primitive.ParseDecimal128(d.String())
	if err != nil {
		return primitive.NewDecimal128(0, 0)
	}
	return v
}

func fromDecimal128(v primitive.Decimal128) decimal.Decimal {
	if v == (primitive.Decimal128{}) {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(v.String())
	if err != nil {
		return decimal.Zero
	}
	return d
}

type userDoc struct {
	ID             string               `bson:"_id"`
	Name           string               `bson:"name"`
	Email          string               `bson:"email"`
	PasswordHash   string               `bson:"password_hash"`
	Role           string               `bson:"role"`
	MembershipType string               `bson:"membership_type"`
	Status         string               `bson:"status"`
	Cost           primitive.Decimal128 `bson:"cost"`
	CreatedAt      time.Time            `bson:"created_at"`
}

func newUserDoc(u model.User) userDoc {
	return userDoc{
		ID:             u.ID,
		Name:           u.Name,
		Email:          u.Email,
		PasswordHash:   u.PasswordHash,
		Role:           u.Role,
		MembershipType: u.MembershipType,
		Status:         u.Status,
		Cost:           toDecimal128(u.Cost),
		CreatedAt:      u.CreatedAt,
	}
}

func (d userDoc) model() model.User {
	return model.User{
		ID:             d.ID,
		Name:           d.Name,
		Email:          d.Email,
		PasswordHash:   d.PasswordHash,
		Role:           d.Role,
		MembershipType: d.MembershipType,
		Status:         d.Status,
		Cost:           fromDecimal128(d.Cost),
		CreatedAt:      d.CreatedAt,
	}
}

type bookDoc struct {
	ID              string               `bson:"_id"`
	Title           string               `bson:"title"`
	Author          string               `bson:"author"`
	Category        string               `bson:"category"`
	Language        string               `bson:"language"`
	Pages           int                  `bson:"pages"`
	TotalCopies     int                  `bson:"total_copies"`
	AvailableCopies int                  `bson:"available_copies"`
	Price           primitive.Decimal128 `bson:"price"`
	Status          string               `bson:"status"`
	Version         int64                `bson:"version"`
	CreatedAt       time.Time            `bson:"created_at"`
}

func newBookDoc(b model.Book) bookDoc {
	return bookDoc{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Category:        b.Category,
		Language:        b.Language,
		Pages:           b.Pages,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Price:           toDecimal128(b.Price),
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
	}
}

func (d bookDoc) model() model.Book {
	return model.Book{
		ID:              d.ID,
		Title:           d.Title,
		Author:          d.Author,
		Category:        d.Category,
		Language:        d.Language,
		Pages:           d.Pages,
		TotalCopies:     d.TotalCopies,
		AvailableCopies: d.AvailableCopies,
		Price:           fromDecimal128(d.Price),
		Status:          model.BookStatus(d.Status),
		CreatedAt:       d.CreatedAt,
	}
}

type loanDoc struct {
	ID         string               `bson:"_id"`
	BookID     string               `bson:"book_id"`
	UserID     string               `bson:"user_id"`
	Name       string               `bson:"name"`
	BookTitle  string               `bson:"book_title"`
	Author     string               `bson:"author"`
	Category   string               `bson:"category"`
	IssuedDate time.Time            `bson:"issued_date"`
	DueDate    time.Time            `bson:"due_date"`
	CopiesLent int                  `bson:"copies_lent"`
	FinePerDay primitive.Decimal128 `bson:"fine_per_day"`
	Price      primitive.Decimal128 `bson:"price"`
	Status     string               `bson:"status"`
	ReturnedAt *time.Time           `bson:"returned_at,omitempty"`
	CreatedAt  time.Time            `bson:"created_at"`
}

func newLoanDoc(l model.Loan) loanDoc {
	return loanDoc{
		ID:         l.ID,
		BookID:     l.BookID,
		UserID:     l.UserID,
		Name:       l.Name,
		BookTitle:  l.BookTitle,
		Author:     l.Author,
		Category:   l.Category,
		IssuedDate: model.DateOf(l.IssuedDate),
		DueDate:    model.DateOf(l.DueDate),
		CopiesLent: l.CopiesLent,
		FinePerDay: toDecimal128(l.FinePerDay),
		Price:      toDecimal128(l.Price),
		Status:     string(l.Status),
		ReturnedAt: l.ReturnedAt,
		CreatedAt:  l.CreatedAt,
	}
}

func (d loanDoc) model() model.Loan {
	return model.Loan{
		ID:         d.ID,
		BookID:     d.BookID,
		UserID:     d.UserID,
		Name:       d.Name,
		BookTitle:  d.BookTitle,
		Author:     d.Author,
		Category:   d.Category,
		IssuedDate: d.IssuedDate.UTC(),
		DueDate:    d.DueDate.UTC(),
		CopiesLent: d.CopiesLent,
		FinePerDay: fromDecimal128(d.FinePerDay),
		Price:      fromDecimal128(d.Price),
		Status:     model.LoanStatus(d.Status),
		ReturnedAt: d.ReturnedAt,
		CreatedAt:  d.CreatedAt,
	}
}

type reservationDoc struct {
	ID            string    `bson:"_id"`
	Seq           int64     `bson:"seq"`
	UserID        string    `bson:"user_id"`
	BookID        string    `bson:"book_id"`
	ReservedDate  time.Time `bson:"reserved_date"`
	QueuePosition int       `bson:"queue_position"`
	CreatedAt     time.Time `bson:"created_at"`
}

func (d reservationDoc) model() model.Reservation {
	return model.Reservation{
		ID:            d.ID,
		UserID:        d.UserID,
		BookID:        d.BookID,
		ReservedDate:  d.ReservedDate,
		QueuePosition: d.QueuePosition,
		Seq:           d.Seq,
		CreatedAt:     d.CreatedAt,
	}
}

type notificationDoc struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	Message   string    `bson:"message"`
	IsRead    bool      `bson:"is_read"`
	CreatedAt time.Time `bson:"created_at"`
}

type fineDoc struct {
	ID        string               `bson:"_id"`
	LoanID    string               `bson:"loan_id"`
	UserID    string               `bson:"user_id"`
	Amount    primitive.Decimal128 `bson:"amount"`
	Reason    string               `bson:"reason"`
	Status    string               `bson:"status"`
	CreatedAt time.Time            `bson:"created_at"`
	SettledAt *time.Time           `bson:"settled_at,omitempty"`
}

func (d fineDoc) model() model.Fine {
	return model.Fine{
		ID:        d.ID,
		LoanID:    d.LoanID,
		UserID:    d.UserID,
		Amount:    fromDecimal128(d.Amount),
		Reason:    d.Reason,
		Status:    model.FineStatus(d.Status),
		CreatedAt: d.CreatedAt,
		SettledAt: d.SettledAt,
	}
}

type resetDoc struct {
	UserID    string    `bson:"_id"`
	CodeHash  string    `bson:"code_hash"`
	ExpiresAt time.Time `bson:"expires_at"`
	Attempts  int       `bson:"attempts"`
}

type ebookDoc struct {
	ID         string             `bson:"_id"`
	Title      string             `bson:"title"`
	Author     string             `bson:"author"`
	Category   string             `bson:"category"`
	Format     string             `bson:"format"`
	FileID     primitive.ObjectID `bson:"file_id"`
	Size       int64              `bson:"size"`
	UploadedAt time.Time          `bson:"upload_date"`
}

func newEbookDoc(e model.Ebook, fileID primitive.ObjectID) ebookDoc {
	return ebookDoc{
		ID:         e.ID,
		Title:      e.Title,
		Author:     e.Author,
		Category:   e.Category,
		Format:     e.Format,
		FileID:     fileID,
		Size:       e.Size,
		UploadedAt: e.UploadedAt,
	}
}

func (d ebookDoc) model() model.Ebook {
	return model.Ebook{
		ID:         d.ID,
		Title:      d.Title,
		Author:     d.Author,
		Category:   d.Category,
		Format:     d.Format,
		Size:       d.Size,
		UploadedAt: d.UploadedAt,
	}
}
