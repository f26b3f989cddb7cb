// Package memory keeps the library in process memory. It backs STORE=memory
// and the service tests. WithTx works on a copy of the state and publishes it
// only when fn succeeds, so a failed workflow leaves nothing behind.
package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

type state struct {
	users         []model.User
	books         map[string]model.Book
	loans         []model.Loan
	reservations  []model.Reservation
	notifications []model.Notification
	fines         []model.Fine
	resets        map[string]model.PasswordReset
	seq           int64
}

func newState() *state {
	return &state{books: make(map[string]model.Book), resets: make(map[string]model.PasswordReset)}
}

func (s *state) clone() *state {
	c := &state{
		users:         append([]model.User(nil), s.users...),
		books:         make(map[string]model.Book, len(s.books)),
		loans:         append([]model.Loan(nil), s.loans...),
		reservations:  append([]model.Reservation(nil), s.reservations...),
		notifications: append([]model.Notification(nil), s.notifications...),
		fines:         append([]model.Fine(nil), s.fines...),
		resets:        make(map[string]model.PasswordReset, len(s.resets)),
		seq:           s.seq,
	}
	for k, v := range s.books {
		c.books[k] = v
	}
	for k, v := range s.resets {
		c.resets[k] = v
	}
	return c
}

type Store struct {
	mu  sync.Mutex
	st  *state
	now func() time.Time

	// e-books live outside the transactional state
	ebooks []storedEbook
}

var (
	_ repository.Repository = (*Store)(nil)
	_ repository.EbookStore = (*Store)(nil)
)

func New() *Store {
	return &Store{st: newState(), now: func() time.Time { return time.Now().UTC() }}
}

func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context, tx repository.Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	work := s.st.clone()
	if err := fn(ctx, &view{st: work, now: s.now}); err != nil {
		return err
	}
	s.st = work
	return nil
}

func (s *Store) do(fn func(v *view) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&view{st: s.st, now: s.now})
}

// view implements repository.Tx over a state without locking.
type view struct {
	st  *state
	now func() time.Time
}

func (v *view) userIndex(userID string) int {
	for i, u := range v.st.users {
		if u.ID == userID {
			return i
		}
	}
	return -1
}

func (v *view) GetUser(_ context.Context, userID string) (model.User, error) {
	i := v.userIndex(userID)
	if i < 0 {
		return model.User{}, errors.Wrap(errs.ErrNotFound, "user")
	}
	return v.st.users[i], nil
}

func (v *view) AddUserCost(_ context.Context, userID string, delta decimal.Decimal) error {
	i := v.userIndex(userID)
	if i < 0 {
		return errors.Wrap(errs.ErrNotFound, "user")
	}
	v.st.users[i].Cost = v.st.users[i].Cost.Add(delta)
	return nil
}

// DeleteUser cascades like the foreign keys of the SQL schema.
func (v *view) DeleteUser(_ context.Context, userID string) error {
	i := v.userIndex(userID)
	if i < 0 {
		return errors.Wrap(errs.ErrNotFound, "user")
	}
	v.st.users = append(v.st.users[:i], v.st.users[i+1:]...)
	v.st.loans = filter(v.st.loans, func(l model.Loan) bool { return l.UserID != userID })
	v.st.reservations = filter(v.st.reservations, func(r model.Reservation) bool { return r.UserID != userID })
	v.st.notifications = filter(v.st.notifications, func(n model.Notification) bool { return n.UserID != userID })
	v.st.fines = filter(v.st.fines, func(f model.Fine) bool { return f.UserID != userID })
	delete(v.st.resets, userID)
	return nil
}

func (v *view) GetBook(_ context.Context, bookID string) (model.Book, error) {
	b, ok := v.st.books[bookID]
	if !ok {
		return model.Book{}, errors.Wrap(errs.ErrNotFound, "book")
	}
	return b, nil
}

func (v *view) LockBook(ctx context.Context, bookID string) (model.Book, error) {
	return v.GetBook(ctx, bookID)
}

func (v *view) AddAvailableCopies(ctx context.Context, bookID string, delta int) (model.Book, error) {
	b, err := v.GetBook(ctx, bookID)
	if err != nil {
		return model.Book{}, err
	}
	if b.AvailableCopies+delta < 0 {
		return model.Book{}, errs.ErrUnavailable
	}
	b.AvailableCopies += delta
	v.st.books[bookID] = b
	return b, nil
}

func (v *view) SetBookStatus(ctx context.Context, bookID string, status model.BookStatus) error {
	b, err := v.GetBook(ctx, bookID)
	if err != nil {
		return err
	}
	b.Status = status
	v.st.books[bookID] = b
	return nil
}

func (v *view) UpdateBook(ctx context.Context, book model.Book) (model.Book, error) {
	old, err := v.GetBook(ctx, book.ID)
	if err != nil {
		return model.Book{}, err
	}
	if book.AvailableCopies < 0 {
		return model.Book{}, errs.ErrUnavailable
	}
	book.CreatedAt = old.CreatedAt
	v.st.books[book.ID] = book
	return book, nil
}

func (v *view) DeleteBook(_ context.Context, bookID string) error {
	if _, ok := v.st.books[bookID]; !ok {
		return errors.Wrap(errs.ErrNotFound, "book")
	}
	delete(v.st.books, bookID)
	v.st.reservations = filter(v.st.reservations, func(r model.Reservation) bool { return r.BookID != bookID })
	return nil
}

func (v *view) CreateLoan(_ context.Context, loan model.Loan) (model.Loan, error) {
	for _, l := range v.st.loans {
		if l.ID == loan.ID {
			return model.Loan{}, errors.Wrap(errs.ErrConflict, "loan")
		}
	}
	loan.IssuedDate = model.DateOf(loan.IssuedDate)
	loan.DueDate = model.DateOf(loan.DueDate)
	loan.CreatedAt = v.now()
	v.st.loans = append(v.st.loans, loan)
	return loan, nil
}

func (v *view) CloseLoan(_ context.Context, userID, bookID, loanID string, returnedAt time.Time) (model.Loan, error) {
	for i, l := range v.st.loans {
		if l.ID != loanID || l.UserID != userID || l.BookID != bookID {
			continue
		}
		if l.Status != model.LoanBorrowed {
			return model.Loan{}, errs.ErrAlreadyReturned
		}
		l.Status = model.LoanReturned
		l.ReturnedAt = &returnedAt
		v.st.loans[i] = l
		return l, nil
	}
	return model.Loan{}, errors.Wrap(errs.ErrNotFound, "loan")
}

func (v *view) matchLoans(f model.LoanFilter) []model.Loan {
	return filter(v.st.loans, func(l model.Loan) bool {
		switch {
		case f.UserID != "" && l.UserID != f.UserID,
			f.BookID != "" && l.BookID != f.BookID,
			f.Status != "" && l.Status != f.Status,
			f.DueBefore != nil && !l.DueDate.Before(model.DateOf(*f.DueBefore)),
			f.DueAfter != nil && l.DueDate.Before(model.DateOf(*f.DueAfter)):
			return false
		}
		return true
	})
}

func (v *view) CountLoans(_ context.Context, f model.LoanFilter) (int, error) {
	return len(v.matchLoans(f)), nil
}

func (v *view) CreateFine(_ context.Context, fine model.Fine) (model.Fine, error) {
	fine.CreatedAt = v.now()
	v.st.fines = append(v.st.fines, fine)
	return fine, nil
}

func (v *view) CreateReservation(_ context.Context, r model.Reservation) (model.Reservation, error) {
	if v.userIndex(r.UserID) < 0 {
		return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "user")
	}
	if _, ok := v.st.books[r.BookID]; !ok {
		return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "book")
	}
	for _, x := range v.st.reservations {
		if x.UserID == r.UserID && x.BookID == r.BookID {
			return model.Reservation{}, errors.Wrap(errs.ErrConflict, "You have already reserved this book")
		}
	}
	v.st.seq++
	r.Seq = v.st.seq
	r.CreatedAt = v.now()
	v.st.reservations = append(v.st.reservations, r)
	return r, nil
}

func (v *view) matchReservations(f model.ReservationFilter) []model.Reservation {
	return filter(v.st.reservations, func(r model.Reservation) bool {
		return (f.UserID == "" || r.UserID == f.UserID) && (f.BookID == "" || r.BookID == f.BookID)
	})
}

func (v *view) CountReservations(_ context.Context, f model.ReservationFilter) (int, error) {
	return len(v.matchReservations(f)), nil
}

// PopReservation relies on reservations being kept in seq order.
func (v *view) PopReservation(_ context.Context, bookID string) (model.Reservation, error) {
	for i, r := range v.st.reservations {
		if r.BookID == bookID {
			v.st.reservations = append(v.st.reservations[:i], v.st.reservations[i+1:]...)
			return r, nil
		}
	}
	return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "reservation")
}

func (v *view) DeleteReservation(_ context.Context, reservationID string) (model.Reservation, error) {
	for i, r := range v.st.reservations {
		if r.ID == reservationID {
			v.st.reservations = append(v.st.reservations[:i], v.st.reservations[i+1:]...)
			return r, nil
		}
	}
	return model.Reservation{}, errors.Wrap(errs.ErrNotFound, "reservation")
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

func page[T any](items []T, p, size int) []T {
	if p == 0 || size == 0 {
		return items
	}
	start := (p - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

// Store side: every call takes the lock and goes through a view of the
// published state.

func (s *Store) GetUser(ctx context.Context, userID string) (u model.User, err error) {
	err = s.do(func(v *view) error { u, err = v.GetUser(ctx, userID); return err })
	return u, err
}

func (s *Store) AddUserCost(ctx context.Context, userID string, delta decimal.Decimal) error {
	return s.do(func(v *view) error { return v.AddUserCost(ctx, userID, delta) })
}

func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	return s.do(func(v *view) error { return v.DeleteUser(ctx, userID) })
}

func (s *Store) GetBook(ctx context.Context, bookID string) (b model.Book, err error) {
	err = s.do(func(v *view) error { b, err = v.GetBook(ctx, bookID); return err })
	return b, err
}

func (s *Store) LockBook(ctx context.Context, bookID string) (model.Book, error) {
	return s.GetBook(ctx, bookID)
}

func (s *Store) AddAvailableCopies(ctx context.Context, bookID string, delta int) (b model.Book, err error) {
	err = s.do(func(v *view) error { b, err = v.AddAvailableCopies(ctx, bookID, delta); return err })
	return b, err
}

func (s *Store) SetBookStatus(ctx context.Context, bookID string, status model.BookStatus) error {
	return s.do(func(v *view) error { return v.SetBookStatus(ctx, bookID, status) })
}

func (s *Store) UpdateBook(ctx context.Context, book model.Book) (b model.Book, err error) {
	err = s.do(func(v *view) error { b, err = v.UpdateBook(ctx, book); return err })
	return b, err
}

func (s *Store) DeleteBook(ctx context.Context, bookID string) error {
	return s.do(func(v *view) error { return v.DeleteBook(ctx, bookID) })
}

func (s *Store) CreateLoan(ctx context.Context, loan model.Loan) (l model.Loan, err error) {
	err = s.do(func(v *view) error { l, err = v.CreateLoan(ctx, loan); return err })
	return l, err
}

func (s *Store) CloseLoan(ctx context.Context, userID, bookID, loanID string, returnedAt time.Time) (l model.Loan, err error) {
	err = s.do(func(v *view) error { l, err = v.CloseLoan(ctx, userID, bookID, loanID, returnedAt); return err })
	return l, err
}

func (s *Store) CountLoans(ctx context.Context, f model.LoanFilter) (n int, err error) {
	err = s.do(func(v *view) error { n, err = v.CountLoans(ctx, f); return err })
	return n, err
}

func (s *Store) CreateFine(ctx context.Context, fine model.Fine) (f model.Fine, err error) {
	err = s.do(func(v *view) error { f, err = v.CreateFine(ctx, fine); return err })
	return f, err
}

func (s *Store) CreateReservation(ctx context.Context, r model.Reservation) (out model.Reservation, err error) {
	err = s.do(func(v *view) error { out, err = v.CreateReservation(ctx, r); return err })
	return out, err
}

func (s *Store) CountReservations(ctx context.Context, f model.ReservationFilter) (n int, err error) {
	err = s.do(func(v *view) error { n, err = v.CountReservations(ctx, f); return err })
	return n, err
}

func (s *Store) PopReservation(ctx context.Context, bookID string) (r model.Reservation, err error) {
	err = s.do(func(v *view) error { r, err = v.PopReservation(ctx, bookID); return err })
	return r, err
}

func (s *Store) DeleteReservation(ctx context.Context, reservationID string) (r model.Reservation, err error) {
	err = s.do(func(v *view) error { r, err = v.DeleteReservation(ctx, reservationID); return err })
	return r, err
}

func (s *Store) CreateBook(_ context.Context, book model.Book) (model.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.st.books[book.ID]; ok {
		return model.Book{}, errors.Wrap(errs.ErrConflict, "book already exists")
	}
	book.CreatedAt = s.now()
	s.st.books[book.ID] = book
	return book, nil
}

func (s *Store) ListBooks(_ context.Context, f model.BookFilter) (model.ListBooks, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	query := strings.ToLower(f.Query)
	books := make([]model.Book, 0, len(s.st.books))
	for _, b := range s.st.books {
		switch {
		case query != "" && !strings.Contains(strings.ToLower(b.Title), query) &&
			!strings.Contains(strings.ToLower(b.Author), query),
			f.Category != "" && b.Category != f.Category,
			f.Status != "" && b.Status != f.Status:
			continue
		}
		books = append(books, b)
	}
	sort.Slice(books, func(i, j int) bool {
		if books[i].Title != books[j].Title {
			return books[i].Title < books[j].Title
		}
		return books[i].ID < books[j].ID
	})
	books = page(books, f.Page, f.Size)

	return model.ListBooks{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(books)},
		Items:  books,
	}, nil
}

func (s *Store) CreateUser(_ context.Context, user model.User) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.st.users {
		if u.ID == user.ID || strings.EqualFold(u.Email, user.Email) {
			return model.User{}, errors.Wrap(errs.ErrConflict, "user already exists")
		}
	}
	user.CreatedAt = s.now()
	s.st.users = append(s.st.users, user)
	return user, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.st.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return model.User{}, errors.Wrap(errs.ErrNotFound, "user")
}

func (s *Store) ListUsers(_ context.Context, p, size int) ([]model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.User{}, page(s.st.users, p, size)...), nil
}

func (s *Store) UpdatePassword(_ context.Context, userID, passwordHash string) error {
	return s.do(func(v *view) error {
		i := v.userIndex(userID)
		if i < 0 {
			return errors.Wrap(errs.ErrNotFound, "user")
		}
		v.st.users[i].PasswordHash = passwordHash
		return nil
	})
}

func (s *Store) SavePasswordReset(_ context.Context, r model.PasswordReset) error {
	return s.do(func(v *view) error {
		if v.userIndex(r.UserID) < 0 {
			return errors.Wrap(errs.ErrNotFound, "user")
		}
		v.st.resets[r.UserID] = r
		return nil
	})
}

func (s *Store) GetPasswordReset(_ context.Context, userID string) (r model.PasswordReset, err error) {
	err = s.do(func(v *view) error {
		var ok bool
		if r, ok = v.st.resets[userID]; !ok {
			return errors.Wrap(errs.ErrNotFound, "password reset")
		}
		return nil
	})
	return r, err
}

func (s *Store) DeletePasswordReset(_ context.Context, userID string) error {
	return s.do(func(v *view) error {
		delete(v.st.resets, userID)
		return nil
	})
}

func (s *Store) SetRole(_ context.Context, email, role string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, u := range s.st.users {
		if strings.EqualFold(u.Email, email) {
			s.st.users[i].Role = role
			return nil
		}
	}
	return errors.Wrap(errs.ErrNotFound, "user")
}

func (s *Store) ListLoans(_ context.Context, f model.LoanFilter) ([]model.Loan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	loans := (&view{st: s.st}).matchLoans(f)
	// newest first; insertion order breaks ties
	for i, j := 0, len(loans)-1; i < j; i, j = i+1, j-1 {
		loans[i], loans[j] = loans[j], loans[i]
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].IssuedDate.After(loans[j].IssuedDate)
	})
	return loans, nil
}

func (s *Store) ListReservations(_ context.Context, f model.ReservationFilter) ([]model.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := (&view{st: s.st}).matchReservations(f)
	for i, r := range items {
		if b, ok := s.st.books[r.BookID]; ok {
			items[i].BookTitle = b.Title
			items[i].Author = b.Author
		}
	}
	return items, nil
}

func (s *Store) CreateNotification(_ context.Context, n model.Notification) (model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n.CreatedAt = s.now()
	s.st.notifications = append(s.st.notifications, n)
	return n, nil
}

func (s *Store) ListNotifications(_ context.Context, userID string, unreadOnly bool) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.Notification, 0)
	for i := len(s.st.notifications) - 1; i >= 0; i-- {
		n := s.st.notifications[i]
		if n.UserID == userID && (!unreadOnly || !n.IsRead) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (s *Store) DeleteNotifications(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.st.notifications = filter(s.st.notifications, func(n model.Notification) bool { return n.UserID != userID })
	return nil
}

func (s *Store) ListFines(_ context.Context, f model.FineFilter) (model.ListFines, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fines := make([]model.Fine, 0)
	for i := len(s.st.fines) - 1; i >= 0; i-- {
		x := s.st.fines[i]
		if (f.UserID == "" || x.UserID == f.UserID) && (f.Status == "" || x.Status == f.Status) {
			fines = append(fines, x)
		}
	}
	fines = page(fines, f.Page, f.Size)
	return model.ListFines{
		Paging: model.Paging{Page: f.Page, PageSize: f.Size, TotalElements: len(fines)},
		Items:  fines,
	}, nil
}

func (s *Store) SettleFine(_ context.Context, fineID string, status model.FineStatus, at time.Time) (model.Fine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, f := range s.st.fines {
		if f.ID != fineID {
			continue
		}
		if f.Status != model.FinePending {
			return model.Fine{}, errors.Wrap(errs.ErrConflict, "fine already settled")
		}
		f.Status = status
		f.SettledAt = &at
		s.st.fines[i] = f
		return f, nil
	}
	return model.Fine{}, errors.Wrap(errs.ErrNotFound, "fine")
}
