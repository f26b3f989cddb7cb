package auth

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/pkg/errors"
)

const (
	RoleAdmin    = "Admin"
	RoleStandard = "Standard-User"

	CookieName = "token"
)

var (
	ErrNoUser       = errors.New("user is not authenticated")
	ErrInvalidToken = errors.New("token is invalid")
)

type Config struct {
	Secret string        `envconfig:"JWT_SECRET" default:"change-me" json:"-"`
	TTL    time.Duration `envconfig:"JWT_TTL" default:"24h"`
}

type Claims struct {
	Profile struct {
		UserID string `json:"user_id"`
		Role   string `json:"role"`
	} `json:"profile"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

func NewToken(cfg Config, userID, email, role string, now time.Time) (string, time.Time, error) {
	expiresAt := now.Add(cfg.TTL)
	claims := &Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	claims.Profile.UserID = userID
	claims.Profile.Role = role

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(cfg.Secret))
	if err != nil {
		return "", time.Time{}, errors.Wrap(err, "sign token")
	}
	return signed, expiresAt, nil
}

func ParseToken(cfg Config, tokenStr string) (*Claims, error) {
	claims := new(Claims)
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(cfg.Secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

type ctxKey int

const (
	userIDKey ctxKey = iota + 1
	roleKey
)

func SetAuthContext(ctx context.Context, userID, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return context.WithValue(ctx, roleKey, role)
}

func GetUserID(ctx context.Context) (string, error) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", ErrNoUser
	}
	return userID, nil
}

func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(roleKey).(string)
	return role == RoleAdmin
}
