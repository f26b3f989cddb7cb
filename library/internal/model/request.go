package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Date accepts "2006-01-02" as well as RFC 3339 timestamps.
type Date struct {
	time.Time
}

func NewDate(t time.Time) Date {
	return Date{Time: t}
}

func (d *Date) UnmarshalJSON(b []byte) (err error) {
	s := strings.Trim(string(b), "\"")
	if s == "" || s == "null" {
		return nil
	}
	date, err := time.Parse(time.DateOnly, s)
	if err != nil {
		if date, err = time.Parse(time.RFC3339, s); err != nil {
			return err
		}
	}
	d.Time = date
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(time.DateOnly) + `"`), nil
}

type LendRequest struct {
	BookID     string          `json:"book_id" validate:"required"`
	UserID     string          `json:"user_id" validate:"required"`
	IssuedDate Date            `json:"issued_date"`
	DueDate    Date            `json:"due_date"`
	Copies     int             `json:"copies" validate:"gte=1"`
	FinePerDay decimal.Decimal `json:"fine_per_day"`
}

type ReturnRequest struct {
	UserID     string `json:"user_id" validate:"required"`
	BookID     string `json:"book_id" validate:"required"`
	BorrowerID string `json:"borrower_id" validate:"required"`
}

type ReturnResult struct {
	Loan       Loan  `json:"loan"`
	Fine       *Fine `json:"fine,omitempty"`
	ReissuedTo *Loan `json:"reissuedTo,omitempty"`
	Restocked  int   `json:"restocked"`
}

type ReserveRequest struct {
	UserID          string `json:"user_id" validate:"required"`
	BookID          string `json:"book_id" validate:"required"`
	ReservationDate Date   `json:"reservation_date"`
}

type BookRequest struct {
	Title       string          `json:"title" validate:"required"`
	Author      string          `json:"author" validate:"required"`
	Category    string          `json:"category"`
	Language    string          `json:"language"`
	Pages       int             `json:"pages" validate:"gte=0"`
	TotalCopies int             `json:"totalCopies" validate:"gte=1"`
	Price       decimal.Decimal `json:"price"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	UserID    string    `json:"user_id"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetCodeRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"otp" validate:"required,len=6,numeric"`
}

type ResetPasswordRequest struct {
	ResetCodeRequest
	NewPassword string `json:"new_password" validate:"required,min=6"`
}

type EbookUpload struct {
	Title    string `form:"title" validate:"required"`
	Author   string `form:"author" validate:"required"`
	Category string `form:"category" validate:"required"`
	FileName string `form:"-" validate:"required"`
}

type ChatRequest struct {
	UserID  string `json:"user_id"`
	Message string `json:"message" validate:"required"`
}

type ChatResponse struct {
	Response string `json:"response"`
}

type Message struct {
	Message string `json:"message"`
}
