package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository/memory"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var codeRe = regexp.MustCompile(`\b\d{6}\b`)

func resetFixture(t *testing.T) (*Service, *mailBox, *time.Time) {
	t.Helper()
	store := memory.New()
	mail := &mailBox{}
	clock := testNow
	svc := NewService(store, mail, zap.NewNop(), WithClock(func() time.Time { return clock }))
	_, err := svc.Register(context.Background(), model.RegisterRequest{Name: "Ann", Email: "ann@mail.com", Password: "old-secret"})
	require.NoError(t, err)
	return svc, mail, &clock
}

func lastCode(t *testing.T, mail *mailBox) string {
	t.Helper()
	sent := mail.to("ann@mail.com")
	require.NotEmpty(t, sent)
	code := codeRe.FindString(sent[len(sent)-1].Text)
	require.Len(t, code, 6)
	return code
}

func TestNewResetCode(t *testing.T) {
	for i := 0; i < 100; i++ {
		code, err := newResetCode()
		require.NoError(t, err)
		require.Regexp(t, `^[1-9]\d{5}$`, code)
	}
}

func TestService_ResetPassword(t *testing.T) {
	svc, mail, _ := resetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, model.ForgotPasswordRequest{Email: "ANN@mail.com"}))
	code := lastCode(t, mail)
	codeReq := model.ResetCodeRequest{Email: "ann@mail.com", Code: code}

	require.NoError(t, svc.VerifyResetCode(ctx, codeReq))

	err := svc.ResetPassword(ctx, model.ResetPasswordRequest{ResetCodeRequest: codeReq, NewPassword: "123"})
	require.ErrorIs(t, err, errs.ErrValidation)

	require.NoError(t, svc.ResetPassword(ctx, model.ResetPasswordRequest{ResetCodeRequest: codeReq, NewPassword: "new-secret"}))

	_, err = svc.Login(ctx, model.LoginRequest{Email: "ann@mail.com", Password: "old-secret"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
	_, err = svc.Login(ctx, model.LoginRequest{Email: "ann@mail.com", Password: "new-secret"})
	require.NoError(t, err)

	// the code is single use
	err = svc.ResetPassword(ctx, model.ResetPasswordRequest{ResetCodeRequest: codeReq, NewPassword: "third-secret"})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestService_RequestPasswordResetUnknownEmail(t *testing.T) {
	svc, mail, _ := resetFixture(t)
	require.NoError(t, svc.RequestPasswordReset(context.Background(), model.ForgotPasswordRequest{Email: "nobody@mail.com"}))
	require.Empty(t, mail.to("nobody@mail.com"))
	require.Empty(t, mail.to("ann@mail.com"))
}

func TestService_ResetCodeExpires(t *testing.T) {
	svc, mail, clock := resetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, model.ForgotPasswordRequest{Email: "ann@mail.com"}))
	code := lastCode(t, mail)

	*clock = clock.Add(resetCodeTTL + time.Second)
	err := svc.VerifyResetCode(ctx, model.ResetCodeRequest{Email: "ann@mail.com", Code: code})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestService_ResetCodeAttempts(t *testing.T) {
	svc, mail, _ := resetFixture(t)
	ctx := context.Background()

	require.NoError(t, svc.RequestPasswordReset(ctx, model.ForgotPasswordRequest{Email: "ann@mail.com"}))
	code := lastCode(t, mail)
	wrong := "000000"

	for i := 0; i < resetCodeAttempts; i++ {
		err := svc.VerifyResetCode(ctx, model.ResetCodeRequest{Email: "ann@mail.com", Code: wrong})
		require.ErrorIs(t, err, errs.ErrUnauthorized)
	}
	// the right code no longer helps once the guesses ran out
	err := svc.VerifyResetCode(ctx, model.ResetCodeRequest{Email: "ann@mail.com", Code: code})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	// a new request starts over
	require.NoError(t, svc.RequestPasswordReset(ctx, model.ForgotPasswordRequest{Email: "ann@mail.com"}))
	require.NoError(t, svc.VerifyResetCode(ctx, model.ResetCodeRequest{Email: "ann@mail.com", Code: lastCode(t, mail)}))
}
