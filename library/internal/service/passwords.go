package service

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/mailer"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	resetCodeTTL      = 10 * time.Minute
	resetCodeAttempts = 5
)

var errInvalidCode = errors.Wrap(errs.ErrUnauthorized, "invalid or expired code")

// newResetCode returns a six digit code in [100000, 999999].
func newResetCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", errors.Wrap(err, "reset code")
	}
	return n.Add(n, big.NewInt(100000)).String(), nil
}

// RequestPasswordReset mails a one-time code to the account owner. An unknown
// address is not an error, so the endpoint does not reveal who is a member.
func (s *Service) RequestPasswordReset(ctx context.Context, req model.ForgotPasswordRequest) error {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			s.log.Debug("password reset for unknown e-mail")
			return nil
		}
		return err
	}

	code, err := newResetCode()
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash code")
	}
	err = s.repo.SavePasswordReset(ctx, model.PasswordReset{
		UserID:    user.ID,
		CodeHash:  string(hash),
		ExpiresAt: s.now().Add(resetCodeTTL),
	})
	if err != nil {
		return err
	}

	m, err := mailer.PasswordResetCode(user, code, resetCodeTTL)
	s.sendMail(ctx, m, err)
	return nil
}

// VerifyResetCode checks a code without using it up.
func (s *Service) VerifyResetCode(ctx context.Context, req model.ResetCodeRequest) error {
	_, err := s.checkResetCode(ctx, req)
	return err
}

// ResetPassword sets a new password once the code checks out. The code
// works only once.
func (s *Service) ResetPassword(ctx context.Context, req model.ResetPasswordRequest) error {
	if len(req.NewPassword) < 6 {
		return errors.Wrap(errs.ErrValidation, "password must be at least 6 characters")
	}
	user, err := s.checkResetCode(ctx, req.ResetCodeRequest)
	if err != nil {
		return err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, user.ID, string(hash)); err != nil {
		return err
	}
	if err := s.repo.DeletePasswordReset(ctx, user.ID); err != nil {
		s.log.Warn("drop reset code", zap.String("user_id", user.ID), zap.Error(err))
	}
	s.notify(ctx, user.ID, "Your password has been reset")
	return nil
}

// checkResetCode counts every wrong guess and drops the code after too many
// of them or once it expires.
func (s *Service) checkResetCode(ctx context.Context, req model.ResetCodeRequest) (model.User, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errInvalidCode
		}
		return model.User{}, err
	}
	reset, err := s.repo.GetPasswordReset(ctx, user.ID)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.User{}, errInvalidCode
		}
		return model.User{}, err
	}

	if s.now().After(reset.ExpiresAt) || reset.Attempts >= resetCodeAttempts {
		if err := s.repo.DeletePasswordReset(ctx, user.ID); err != nil {
			return model.User{}, err
		}
		return model.User{}, errInvalidCode
	}
	if bcrypt.CompareHashAndPassword([]byte(reset.CodeHash), []byte(req.Code)) != nil {
		reset.Attempts++
		if reset.Attempts >= resetCodeAttempts {
			err = s.repo.DeletePasswordReset(ctx, user.ID)
		} else {
			err = s.repo.SavePasswordReset(ctx, reset)
		}
		if err != nil {
			return model.User{}, err
		}
		return model.User{}, errInvalidCode
	}
	return user, nil
}
