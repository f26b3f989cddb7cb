package handler_test

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	service_mocks "github.com/Astemirdum/library-lending/library/internal/handler/mocks"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/golang/mock/gomock"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type mockLibrary = service_mocks.MockLibraryService

func uploadRequest(t *testing.T, fields map[string]string, fileName, content, tok string) *http.Request {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	r := httptest.NewRequest(http.MethodPost, "/api/v1/ebooks", &body)
	r.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	r.Header.Set("Authorization", "Bearer "+tok)
	return r
}

func TestHandler_UploadEbook(t *testing.T) {
	t.Parallel()
	fields := map[string]string{"title": "Dune", "author": "Frank Herbert", "category": "Fiction"}

	tests := []struct {
		name         string
		role         string
		fields       map[string]string
		fileName     string
		mockBehavior func(r *mockLibrary)
		expectedCode int
		expectedBody string
	}{
		{
			name:     "ok",
			role:     auth.RoleAdmin,
			fields:   fields,
			fileName: "dune.epub",
			mockBehavior: func(r *mockLibrary) {
				want := model.EbookUpload{Title: "Dune", Author: "Frank Herbert", Category: "Fiction", FileName: "dune.epub"}
				r.EXPECT().UploadEbook(gomock.Any(), want, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ model.EbookUpload, content io.Reader) (model.Ebook, error) {
						data, err := io.ReadAll(content)
						if err != nil || string(data) != "epub bytes" {
							return model.Ebook{}, errors.New("unexpected content")
						}
						return model.Ebook{ID: "e1", SizeMB: decimal.RequireFromString("0.01")}, nil
					})
			},
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"E-book uploaded successfully","ebook_id":"e1","file_size_mb":"0.01"}`,
		},
		{
			name:     "bad format",
			role:     auth.RoleAdmin,
			fields:   fields,
			fileName: "dune.txt",
			mockBehavior: func(r *mockLibrary) {
				r.EXPECT().UploadEbook(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(model.Ebook{}, errors.Wrap(errs.ErrValidation, "Invalid file format. Allowed: pdf, epub, mobi"))
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"Invalid file format. Allowed: pdf, epub, mobi: validation failed"}`,
		},
		{
			name:         "missing file",
			role:         auth.RoleAdmin,
			fields:       fields,
			mockBehavior: func(r *mockLibrary) {},
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"message":"file is required"}`,
		},
		{
			name:         "missing title",
			role:         auth.RoleAdmin,
			fields:       map[string]string{"author": "A", "category": "C"},
			fileName:     "a.pdf",
			mockBehavior: func(r *mockLibrary) {},
			expectedCode: http.StatusBadRequest,
		},
		{
			name:         "member",
			role:         auth.RoleStandard,
			fields:       fields,
			fileName:     "dune.epub",
			mockBehavior: func(r *mockLibrary) {},
			expectedCode: http.StatusForbidden,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := newFixture(t)
			tt.mockBehavior(f.lib)

			userID := memberID
			if tt.role == auth.RoleAdmin {
				userID = adminID
			}
			w := httptest.NewRecorder()
			f.e.ServeHTTP(w, uploadRequest(t, tt.fields, tt.fileName, "epub bytes", token(t, userID, tt.role)))
			require.Equal(t, tt.expectedCode, w.Code, w.Body.String())
			if tt.expectedBody != "" {
				require.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestHandler_ListEbooks(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	list := model.ListEbooks{Items: []model.Ebook{{ID: "e1", Title: "Go", Category: "Programming", Format: "pdf"}}, Total: 1}
	f.lib.EXPECT().ListEbooks(gomock.Any(), "Programming").Return(list, nil)

	w := f.do(http.MethodGet, "/api/v1/ebooks?category=Programming", "", token(t, memberID, auth.RoleStandard))
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, mustJSON(t, list), w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/ebooks", "", "")
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandler_DownloadEbook(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	e := model.Ebook{ID: "e1", Title: "Dune", Format: "epub"}
	f.lib.EXPECT().OpenEbook(gomock.Any(), "e1").Return(e, io.NopCloser(strings.NewReader("epub bytes")), nil)
	f.lib.EXPECT().OpenEbook(gomock.Any(), "nope").Return(model.Ebook{}, nil, errors.Wrap(errs.ErrNotFound, "e-book"))

	tok := token(t, memberID, auth.RoleStandard)
	w := f.do(http.MethodGet, "/api/v1/ebooks/e1/download", "", tok)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, echo.MIMEOctetStream, w.Header().Get(echo.HeaderContentType))
	require.Contains(t, w.Header().Get(echo.HeaderContentDisposition), `attachment; filename="Dune.epub"`)
	require.Equal(t, "epub bytes", w.Body.String())

	w = f.do(http.MethodGet, "/api/v1/ebooks/nope/download", "", tok)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestHandler_PasswordReset(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	codeReq := model.ResetCodeRequest{Email: "ann@mail.com", Code: "123456"}
	f.lib.EXPECT().RequestPasswordReset(gomock.Any(), model.ForgotPasswordRequest{Email: "ann@mail.com"}).Return(nil)
	f.lib.EXPECT().VerifyResetCode(gomock.Any(), codeReq).Return(errors.Wrap(errs.ErrUnauthorized, "invalid or expired code"))
	f.lib.EXPECT().ResetPassword(gomock.Any(), model.ResetPasswordRequest{ResetCodeRequest: codeReq, NewPassword: "secret1"}).Return(nil)

	w := f.do(http.MethodPost, "/api/v1/password/forgot", `{"email":"ann@mail.com"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	w = f.do(http.MethodPost, "/api/v1/password/verify", `{"email":"ann@mail.com","otp":"123456"}`, "")
	require.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(http.MethodPost, "/api/v1/password/reset", `{"email":"ann@mail.com","otp":"123456","new_password":"secret1"}`, "")
	require.Equal(t, http.StatusOK, w.Code)

	// malformed codes never reach the service
	w = f.do(http.MethodPost, "/api/v1/password/verify", `{"email":"ann@mail.com","otp":"12ab"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
	w = f.do(http.MethodPost, "/api/v1/password/forgot", `{"email":"not-an-email"}`, "")
	require.Equal(t, http.StatusBadRequest, w.Code)
}
