package handler_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/handler"
	service_mocks "github.com/Astemirdum/library-lending/library/internal/handler/mocks"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var authCfg = auth.Config{Secret: "test-secret", TTL: time.Hour}

const (
	adminID  = "A1b2c3d4"
	memberID = "M1b2c3d4"
)

func token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, _, err := auth.NewToken(authCfg, userID, strings.ToLower(userID)+"@lib.test", role, time.Now())
	require.NoError(t, err)
	return tok
}

type fixture struct {
	lib  *service_mocks.MockLibraryService
	chat *service_mocks.MockChatService
	e    *echo.Echo
}

func newFixture(t *testing.T) fixture {
	c := gomock.NewController(t)
	t.Cleanup(c.Finish)
	lib := service_mocks.NewMockLibraryService(c)
	chat := service_mocks.NewMockChatService(c)
	h := handler.New(lib, chat, authCfg, zap.NewNop())
	return fixture{lib: lib, chat: chat, e: h.NewRouter()}
}

func (f fixture) do(method, path, body, tok string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, path, strings.NewReader(body))
	r.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if tok != "" {
		r.Header.Set("Authorization", "Bearer "+tok)
	}
	w := httptest.NewRecorder()
	f.e.ServeHTTP(w, r)
	return w
}

func mustJSON(t *testing.T, v interface{}) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestHandler_LendBook(t *testing.T) {
	t.Parallel()
	type mockBehavior func(r *service_mocks.MockLibraryService, req model.LendRequest)
	type response struct {
		expectedCode int
		expectedBody string
	}
	day := func(d int) model.Date {
		return model.NewDate(time.Date(2024, time.May, d, 0, 0, 0, 0, time.UTC))
	}
	req := model.LendRequest{
		BookID:     "B1",
		UserID:     memberID,
		IssuedDate: day(10),
		DueDate:    day(20),
		Copies:     1,
	}
	loan := model.Loan{
		ID:         "L1",
		BookID:     "B1",
		UserID:     memberID,
		IssuedDate: req.IssuedDate.Time,
		DueDate:    req.DueDate.Time,
		CopiesLent: 1,
		FinePerDay: decimal.NewFromInt(10),
		Price:      decimal.NewFromInt(100),
		Status:     model.LoanBorrowed,
	}
	const body = `{"book_id":"B1","user_id":"M1b2c3d4","issued_date":"2024-05-10","due_date":"2024-05-20"}`

	tests := []struct {
		name         string
		mockBehavior mockBehavior
		body         string
		role         string
		response     response
	}{
		{
			name: "ok",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {
				r.EXPECT().LendBook(gomock.Any(), req).Return(loan, nil)
			},
			body: body,
			role: auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusCreated,
				expectedBody: mustJSON(t, loan),
			},
		},
		{
			name: "unavailable",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {
				r.EXPECT().LendBook(gomock.Any(), req).Return(model.Loan{}, errs.ErrUnavailable)
			},
			body: body,
			role: auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusConflict,
				expectedBody: `{"message":"not enough available copies"}`,
			},
		},
		{
			name: "book not found",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {
				r.EXPECT().LendBook(gomock.Any(), req).Return(model.Loan{}, errors.Wrap(errs.ErrNotFound, "book"))
			},
			body: body,
			role: auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusNotFound,
				expectedBody: `{"message":"book: not found"}`,
			},
		},
		{
			name: "validation in service",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {
				r.EXPECT().LendBook(gomock.Any(), req).Return(model.Loan{}, errors.Wrap(errs.ErrValidation, "due date before issue date"))
			},
			body: body,
			role: auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusBadRequest,
				expectedBody: `{"message":"due date before issue date: validation failed"}`,
			},
		},
		{
			name:         "missing book",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {},
			body:         `{"user_id":"M1b2c3d4"}`,
			role:         auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusBadRequest,
			},
		},
		{
			name:         "member forbidden",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {},
			body:         body,
			role:         auth.RoleStandard,
			response: response{
				expectedCode: http.StatusForbidden,
				expectedBody: `{"message":"no admin"}`,
			},
		},
		{
			name: "internal",
			mockBehavior: func(r *service_mocks.MockLibraryService, req model.LendRequest) {
				r.EXPECT().LendBook(gomock.Any(), req).Return(model.Loan{}, errors.New("connection refused"))
			},
			body: body,
			role: auth.RoleAdmin,
			response: response{
				expectedCode: http.StatusInternalServerError,
				expectedBody: `{"message":"internal error"}`,
			},
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f.lib, req)

			userID := adminID
			if tt.role != auth.RoleAdmin {
				userID = memberID
			}
			w := f.do(http.MethodPost, "/api/v1/books/lend", tt.body, token(t, userID, tt.role))

			require.Equal(t, tt.response.expectedCode, w.Code)
			if tt.response.expectedBody != "" {
				require.Equal(t, tt.response.expectedBody, strings.Trim(w.Body.String(), "\n"))
			}
		})
	}
}

func TestHandler_ReturnBook(t *testing.T) {
	t.Parallel()
	req := model.ReturnRequest{UserID: memberID, BookID: "B1", BorrowerID: "L1"}
	body := `{"user_id":"M1b2c3d4","book_id":"B1","borrower_id":"L1"}`

	tests := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "ok",
			expectedCode: http.StatusOK,
			expectedBody: mustJSON(t, model.ReturnResult{Restocked: 1}),
		},
		{
			name:         "already returned",
			err:          errs.ErrAlreadyReturned,
			expectedCode: http.StatusConflict,
			expectedBody: `{"message":"loan already returned"}`,
		},
		{
			name:         "no such loan",
			err:          errors.Wrap(errs.ErrNotFound, "loan"),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"message":"loan: not found"}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			res := model.ReturnResult{}
			if tt.err == nil {
				res.Restocked = 1
			}
			f.lib.EXPECT().ReturnBook(gomock.Any(), req).Return(res, tt.err)

			w := f.do(http.MethodPost, "/api/v1/loans/return", body, token(t, adminID, auth.RoleAdmin))

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_ReserveBook(t *testing.T) {
	t.Parallel()
	t.Run("member reserves for self", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		want := model.Reservation{ID: "R1", UserID: memberID, BookID: "B1", QueuePosition: 1}
		f.lib.EXPECT().
			ReserveBook(gomock.Any(), model.ReserveRequest{UserID: memberID, BookID: "B1"}).
			Return(want, nil)

		w := f.do(http.MethodPost, "/api/v1/reservations", `{"book_id":"B1"}`, token(t, memberID, auth.RoleStandard))

		require.Equal(t, http.StatusCreated, w.Code)
		require.Equal(t, mustJSON(t, want), strings.Trim(w.Body.String(), "\n"))
	})
	t.Run("member cannot reserve for others", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)

		w := f.do(http.MethodPost, "/api/v1/reservations", `{"book_id":"B1","user_id":"X0000000"}`, token(t, memberID, auth.RoleStandard))

		require.Equal(t, http.StatusForbidden, w.Code)
	})
	t.Run("duplicate", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.lib.EXPECT().
			ReserveBook(gomock.Any(), model.ReserveRequest{UserID: memberID, BookID: "B1"}).
			Return(model.Reservation{}, errors.Wrap(errs.ErrConflict, "You have already reserved this book"))

		w := f.do(http.MethodPost, "/api/v1/reservations", `{"book_id":"B1"}`, token(t, memberID, auth.RoleStandard))

		require.Equal(t, http.StatusConflict, w.Code)
		require.Equal(t, `{"message":"You have already reserved this book: conflict"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_Auth(t *testing.T) {
	t.Parallel()
	t.Run("no token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		w := f.do(http.MethodGet, "/api/v1/books", "", "")
		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, `{"message":"No Authorization Header"}`, strings.Trim(w.Body.String(), "\n"))
	})
	t.Run("foreign token", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		tok, _, err := auth.NewToken(auth.Config{Secret: "other", TTL: time.Hour}, memberID, "m@lib.test", auth.RoleStandard, time.Now())
		require.NoError(t, err)
		w := f.do(http.MethodGet, "/api/v1/books", "", tok)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
	t.Run("login sets cookie", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		resp := model.LoginResponse{UserID: memberID, Token: "tok", ExpiresAt: time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)}
		f.lib.EXPECT().
			Login(gomock.Any(), model.LoginRequest{Email: "m@lib.test", Password: "secret"}).
			Return(resp, nil)

		w := f.do(http.MethodPost, "/api/v1/login", `{"email":"m@lib.test","password":"secret"}`, "")

		require.Equal(t, http.StatusOK, w.Code)
		require.Contains(t, w.Header().Get("Set-Cookie"), auth.CookieName+"=tok")
	})
	t.Run("bad credentials", func(t *testing.T) {
		t.Parallel()
		f := newFixture(t)
		f.lib.EXPECT().Login(gomock.Any(), gomock.Any()).Return(model.LoginResponse{}, errs.ErrUnauthorized)

		w := f.do(http.MethodPost, "/api/v1/login", `{"email":"m@lib.test","password":"wrong"}`, "")

		require.Equal(t, http.StatusUnauthorized, w.Code)
		require.Equal(t, `{"message":"invalid credentials"}`, strings.Trim(w.Body.String(), "\n"))
	})
}

func TestHandler_UserScoped(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name         string
		path         string
		userID       string
		role         string
		mockBehavior func(r *service_mocks.MockLibraryService)
		expectedCode int
		expectedBody string
	}{
		{
			name:   "own stats",
			path:   "/api/v1/users/" + memberID + "/stats",
			userID: memberID,
			role:   auth.RoleStandard,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().UserStats(gomock.Any(), memberID).Return(model.UserStats{Lended: 2, Overdue: 1}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"lended":2,"overdue":1,"reserved":0}`,
		},
		{
			name:         "someone else's stats",
			path:         "/api/v1/users/X0000000/stats",
			userID:       memberID,
			role:         auth.RoleStandard,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusForbidden,
			expectedBody: `{"message":"access to another user's data"}`,
		},
		{
			name:   "admin reads any loans",
			path:   "/api/v1/users/" + memberID + "/loans?status=Borrowed",
			userID: adminID,
			role:   auth.RoleAdmin,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().ListUserLoans(gomock.Any(), memberID, model.LoanBorrowed).Return([]model.Loan{}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "bad loan status",
			path:         "/api/v1/users/" + memberID + "/loans?status=Lost",
			userID:       memberID,
			role:         auth.RoleStandard,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"status is invalid"}`,
		},
		{
			name:         "bad page",
			path:         "/api/v1/books?page=x",
			userID:       memberID,
			role:         auth.RoleStandard,
			mockBehavior: func(r *service_mocks.MockLibraryService) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"page is invalid"}`,
		},
		{
			name:   "search books",
			path:   "/api/v1/books?q=dune&page=1&size=5",
			userID: memberID,
			role:   auth.RoleStandard,
			mockBehavior: func(r *service_mocks.MockLibraryService) {
				r.EXPECT().
					ListBooks(gomock.Any(), model.BookFilter{Query: "dune", Page: 1, Size: 5}).
					Return(model.ListBooks{Paging: model.Paging{Page: 1, PageSize: 5}, Items: []model.Book{}}, nil)
			},
			expectedCode: http.StatusOK,
			expectedBody: `{"page":1,"pageSize":5,"totalElements":0,"items":[]}`,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f.lib)

			w := f.do(http.MethodGet, tt.path, "", token(t, tt.userID, tt.role))

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedBody, strings.Trim(w.Body.String(), "\n"))
		})
	}
}

func TestHandler_Chat(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	f.chat.EXPECT().Handle(gomock.Any(), memberID, "do I owe anything?").Return("You have no outstanding fines.")

	w := f.do(http.MethodPost, "/api/v1/chat", `{"message":"do I owe anything?"}`, token(t, memberID, auth.RoleStandard))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, `{"response":"You have no outstanding fines."}`, strings.Trim(w.Body.String(), "\n"))
}

func TestHandler_Health(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	w := f.do(http.MethodGet, "/manage/health", "", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "OK", w.Body.String())
}
