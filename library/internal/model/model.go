package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Paging struct {
	Page          int `json:"page"`
	PageSize      int `json:"pageSize"`
	TotalElements int `json:"totalElements"`
}

type BookStatus string

const (
	BookAvailable BookStatus = "Available"
	BookBorrowed  BookStatus = "Borrowed"
	BookReserved  BookStatus = "Reserved"
)

// DeriveBookStatus: a pending reservation wins over stock, an empty shelf
// means Borrowed.
func DeriveBookStatus(availableCopies, pendingReservations int) BookStatus {
	switch {
	case pendingReservations > 0:
		return BookReserved
	case availableCopies <= 0:
		return BookBorrowed
	default:
		return BookAvailable
	}
}

type Book struct {
	ID              string          `json:"id" db:"id"`
	Title           string          `json:"title" db:"title"`
	Author          string          `json:"author" db:"author"`
	Category        string          `json:"category" db:"category"`
	Language        string          `json:"language" db:"language"`
	Pages           int             `json:"pages" db:"pages"`
	TotalCopies     int             `json:"totalCopies" db:"total_copies"`
	AvailableCopies int             `json:"availableCopies" db:"available_copies"`
	Price           decimal.Decimal `json:"price" db:"price"`
	Status          BookStatus      `json:"status" db:"status"`
	CreatedAt       time.Time       `json:"createdAt" db:"created_at"`
}

type ListBooks struct {
	Paging
	Items []Book `json:"items"`
}

type BookFilter struct {
	Query    string
	Category string
	Status   BookStatus
	Page     int
	Size     int
}

type LoanStatus string

const (
	LoanBorrowed LoanStatus = "Borrowed"
	LoanReturned LoanStatus = "Returned"
)

// Loan is a ledger entry. Title, author, category and price are copied from
// the catalog when the loan is written and never follow later edits.
type Loan struct {
	ID         string          `json:"id" db:"id"`
	BookID     string          `json:"bookId" db:"book_id"`
	UserID     string          `json:"userId" db:"user_id"`
	Name       string          `json:"name" db:"name"`
	BookTitle  string          `json:"bookTitle" db:"book_title"`
	Author     string          `json:"author" db:"author"`
	Category   string          `json:"category" db:"category"`
	IssuedDate time.Time       `json:"issuedDate" db:"issued_date"`
	DueDate    time.Time       `json:"dueDate" db:"due_date"`
	CopiesLent int             `json:"copiesLent" db:"copies_lent"`
	FinePerDay decimal.Decimal `json:"finePerDay" db:"fine_per_day"`
	Price      decimal.Decimal `json:"price" db:"price"`
	Status     LoanStatus      `json:"status" db:"status"`
	ReturnedAt *time.Time      `json:"returnedAt,omitempty" db:"returned_at"`
	CreatedAt  time.Time       `json:"createdAt" db:"created_at"`
}

// Days is the loan period in whole days.
func (l Loan) Days() int64 {
	return DaysBetween(l.IssuedDate, l.DueDate)
}

// Accrual is what the loan adds to the borrower balance when written and
// takes back when returned.
func (l Loan) Accrual() decimal.Decimal {
	return decimal.NewFromInt(int64(l.CopiesLent)).
		Mul(l.Price).
		Mul(decimal.NewFromInt(l.Days()))
}

func (l Loan) OverdueDays(at time.Time) int64 {
	if d := DaysBetween(l.DueDate, at); d > 0 {
		return d
	}
	return 0
}

func (l Loan) OverdueFine(at time.Time) decimal.Decimal {
	return decimal.NewFromInt(l.OverdueDays(at)).
		Mul(l.FinePerDay).
		Mul(decimal.NewFromInt(int64(l.CopiesLent)))
}

// DaysBetween counts calendar days from a to b, ignoring the time of day.
func DaysBetween(a, b time.Time) int64 {
	return int64(DateOf(b).Sub(DateOf(a)) / (24 * time.Hour))
}

func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type LoanFilter struct {
	UserID    string
	BookID    string
	Status    LoanStatus
	DueBefore *time.Time
	DueAfter  *time.Time
}

type User struct {
	ID             string          `json:"userId" db:"id"`
	Name           string          `json:"name" db:"name"`
	Email          string          `json:"email" db:"email"`
	PasswordHash   string          `json:"-" db:"password_hash"`
	Role           string          `json:"role" db:"role"`
	MembershipType string          `json:"membershipType" db:"membership_type"`
	Status         string          `json:"status" db:"status"`
	Cost           decimal.Decimal `json:"cost" db:"cost"`
	CreatedAt      time.Time       `json:"createdAt" db:"created_at"`
}

const (
	UserActive        = "Active"
	DefaultMembership = "English"
)

// PasswordReset is a pending one-time code. Only its bcrypt hash is kept.
type PasswordReset struct {
	UserID    string    `db:"user_id"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	Attempts  int       `db:"attempts"`
}

type Reservation struct {
	ID            string    `json:"id" db:"id"`
	UserID        string    `json:"userId" db:"user_id"`
	BookID        string    `json:"bookId" db:"book_id"`
	ReservedDate  time.Time `json:"reservedDate" db:"reserved_date"`
	QueuePosition int       `json:"queuePosition" db:"queue_position"`
	Seq           int64     `json:"-" db:"seq"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`

	BookTitle string `json:"bookTitle,omitempty" db:"book_title"`
	Author    string `json:"author,omitempty" db:"author"`
}

type ReservationFilter struct {
	UserID string
	BookID string
}

type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"userId" db:"user_id"`
	Message   string    `json:"message" db:"message"`
	IsRead    bool      `json:"isRead" db:"is_read"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type FineStatus string

const (
	FinePending FineStatus = "pending"
	FinePaid    FineStatus = "paid"
	FineWaived  FineStatus = "waived"
)

type Fine struct {
	ID        string          `json:"id" db:"id"`
	LoanID    string          `json:"loanId" db:"loan_id"`
	UserID    string          `json:"userId" db:"user_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	Reason    string          `json:"reason" db:"reason"`
	Status    FineStatus      `json:"status" db:"status"`
	CreatedAt time.Time       `json:"createdAt" db:"created_at"`
	SettledAt *time.Time      `json:"settledAt,omitempty" db:"settled_at"`
}

type FineFilter struct {
	UserID string
	Status FineStatus
	Page   int
	Size   int
}

type ListFines struct {
	Paging
	Items []Fine `json:"items"`
}

type OverdueBook struct {
	Title       string          `json:"title"`
	DueDate     string          `json:"dueDate"`
	OverdueDays int64           `json:"overdueDays"`
	FineAmount  decimal.Decimal `json:"fineAmount"`
}

type FineSummary struct {
	TotalFines   decimal.Decimal `json:"totalFines"`
	AccountCost  decimal.Decimal `json:"accountCost"`
	OverdueBooks []OverdueBook   `json:"overdueBooks"`
}

type UserStats struct {
	Lended   int `json:"lended"`
	Overdue  int `json:"overdue"`
	Reserved int `json:"reserved"`
}

type ChartStats struct {
	Returned int `json:"returned"`
	Overdue  int `json:"overdue"`
}

type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

type Mail struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
	HTML    string `json:"html"`
}

type Ebook struct {
	ID         string          `json:"id" db:"id"`
	Title      string          `json:"title" db:"title"`
	Author     string          `json:"author" db:"author"`
	Category   string          `json:"category" db:"category"`
	Format     string          `json:"format" db:"format"`
	Size       int64           `json:"size" db:"size"`
	SizeMB     decimal.Decimal `json:"sizeMb" db:"-"`
	UploadedAt time.Time       `json:"uploadDate" db:"uploaded_at"`
}

// FileName is what a download is saved as.
func (e Ebook) FileName() string {
	return e.Title + "." + e.Format
}

type ListEbooks struct {
	Items []Ebook `json:"ebooks"`
	Total int     `json:"total"`
}
