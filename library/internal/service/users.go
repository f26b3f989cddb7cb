package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/library/internal/repository"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// newUserID prefixes a short random id with the first letter of the name.
func newUserID(name string) string {
	r, _ := utf8.DecodeRuneInString(strings.TrimSpace(name))
	prefix := "U"
	if r != utf8.RuneError {
		prefix = strings.ToUpper(string(r))
	}
	return prefix + strings.ReplaceAll(uuid.NewString(), "-", "")[:7]
}

func (s *Service) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return s.createUser(ctx, req, auth.RoleStandard)
}

// CreateAdmin registers an account with the admin role.
func (s *Service) CreateAdmin(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	return s.createUser(ctx, req, auth.RoleAdmin)
}

func (s *Service) createUser(ctx context.Context, req model.RegisterRequest, role string) (model.User, error) {
	if len(req.Password) < 6 {
		return model.User{}, errors.Wrap(errs.ErrValidation, "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return model.User{}, errors.Wrap(err, "hash password")
	}
	return s.repo.CreateUser(ctx, model.User{
		ID:             newUserID(req.Name),
		Name:           req.Name,
		Email:          strings.ToLower(req.Email),
		PasswordHash:   string(hash),
		Role:           role,
		MembershipType: model.DefaultMembership,
		Status:         model.UserActive,
		Cost:           decimal.Zero,
	})
}

func (s *Service) Login(ctx context.Context, req model.LoginRequest) (model.LoginResponse, error) {
	user, err := s.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			return model.LoginResponse{}, errs.ErrUnauthorized
		}
		return model.LoginResponse{}, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return model.LoginResponse{}, errs.ErrUnauthorized
	}
	token, expiresAt, err := auth.NewToken(s.auth, user.ID, user.Email, user.Role, s.now())
	if err != nil {
		return model.LoginResponse{}, err
	}
	return model.LoginResponse{UserID: user.ID, Token: token, ExpiresAt: expiresAt}, nil
}

func (s *Service) GetUser(ctx context.Context, userID string) (model.User, error) {
	return s.repo.GetUser(ctx, userID)
}

func (s *Service) ListUsers(ctx context.Context, page, size int) ([]model.User, error) {
	return s.repo.ListUsers(ctx, page, size)
}

// DeleteUser removes a member together with their history. Members holding
// books cannot be removed.
func (s *Service) DeleteUser(ctx context.Context, userID string) error {
	return s.repo.WithTx(ctx, func(ctx context.Context, tx repository.Tx) error {
		if _, err := tx.GetUser(ctx, userID); err != nil {
			return err
		}
		active, err := tx.CountLoans(ctx, model.LoanFilter{UserID: userID, Status: model.LoanBorrowed})
		if err != nil {
			return err
		}
		if active > 0 {
			return errors.Wrap(errs.ErrConflict, "user has active loans")
		}
		return tx.DeleteUser(ctx, userID)
	})
}

func (s *Service) ChangePassword(ctx context.Context, userID string, req model.ChangePasswordRequest) error {
	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.OldPassword)); err != nil {
		return errs.ErrUnauthorized
	}
	if req.OldPassword == req.NewPassword {
		return errors.Wrap(errs.ErrValidation, "new password must differ from the old one")
	}
	if len(req.NewPassword) < 6 {
		return errors.Wrap(errs.ErrValidation, "password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return errors.Wrap(err, "hash password")
	}
	if err := s.repo.UpdatePassword(ctx, userID, string(hash)); err != nil {
		return err
	}
	s.notify(ctx, userID, "Your password has been changed")
	return nil
}

func (s *Service) Promote(ctx context.Context, email string) error {
	return s.repo.SetRole(ctx, email, auth.RoleAdmin)
}
