package handler

import (
	"context"
	"io"

	"github.com/Astemirdum/library-lending/library/internal/model"
)

//go:generate go run github.com/golang/mock/mockgen -source=service.go -destination=mocks/mock.go

type LibraryService interface {
	LendBook(ctx context.Context, req model.LendRequest) (model.Loan, error)
	ReturnBook(ctx context.Context, req model.ReturnRequest) (model.ReturnResult, error)
	ReserveBook(ctx context.Context, req model.ReserveRequest) (model.Reservation, error)
	CancelReservation(ctx context.Context, reservationID string) error
	ListUserReservations(ctx context.Context, userID string) ([]model.Reservation, error)
	ListBookReservations(ctx context.Context, bookID string) ([]model.Reservation, error)

	CreateBook(ctx context.Context, req model.BookRequest) (model.Book, error)
	GetBook(ctx context.Context, bookID string) (model.Book, error)
	ListBooks(ctx context.Context, filter model.BookFilter) (model.ListBooks, error)
	UpdateBook(ctx context.Context, bookID string, req model.BookRequest) (model.Book, error)
	DeleteBook(ctx context.Context, bookID string) error

	Register(ctx context.Context, req model.RegisterRequest) (model.User, error)
	Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error)
	GetUser(ctx context.Context, userID string) (model.User, error)
	ListUsers(ctx context.Context, page, size int) ([]model.User, error)
	DeleteUser(ctx context.Context, userID string) error
	ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error
	ListUserLoans(ctx context.Context, userID string, status model.LoanStatus) ([]model.Loan, error)

	RequestPasswordReset(ctx context.Context, req model.ForgotPasswordRequest) error
	VerifyResetCode(ctx context.Context, req model.ResetCodeRequest) error
	ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error

	UploadEbook(ctx context.Context, req model.EbookUpload, content io.Reader) (model.Ebook, error)
	ListEbooks(ctx context.Context, category string) (model.ListEbooks, error)
	OpenEbook(ctx context.Context, id string) (model.Ebook, io.ReadCloser, error)

	ListNotifications(ctx context.Context, userID string) ([]model.Notification, error)
	MarkNotificationsRead(ctx context.Context, userID string) error

	FineSummary(ctx context.Context, userID string) (model.FineSummary, error)
	ListFines(ctx context.Context, filter model.FineFilter) (model.ListFines, error)
	PayFine(ctx context.Context, fineID string) (model.Fine, error)
	WaiveFine(ctx context.Context, fineID string) (model.Fine, error)

	UserStats(ctx context.Context, userID string) (model.UserStats, error)
	ChartStats(ctx context.Context, userID string) (model.ChartStats, error)
	LendingActivity(ctx context.Context, userID string) ([]model.MonthCount, error)
}

type ChatService interface {
	Handle(ctx context.Context, userID, message string) string
}
