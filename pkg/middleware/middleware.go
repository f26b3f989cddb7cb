package middleware

import (
	"net/http"
	"strings"

	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/time/rate"
)

const (
	AuthorizationHeader = "Authorization"
	bearer              = "Bearer "
)

// JwtAuthentication accepts the token from the Authorization header or,
// failing that, from the session cookie set at login.
func JwtAuthentication(cfg auth.Config) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			tokenStr := ""
			if authorization := c.Request().Header.Get(AuthorizationHeader); authorization != "" {
				if !strings.HasPrefix(authorization, bearer) {
					return echo.NewHTTPError(http.StatusUnauthorized, "Invalid Authorization Header")
				}
				tokenStr = strings.TrimPrefix(authorization, bearer)
			} else if cookie, err := c.Cookie(auth.CookieName); err == nil {
				tokenStr = cookie.Value
			}
			if tokenStr == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "No Authorization Header")
			}

			claims, err := auth.ParseToken(cfg, tokenStr)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "JwtAccessDenied")
			}

			req := c.Request()
			ctx := auth.SetAuthContext(req.Context(), claims.Profile.UserID, claims.Profile.Role)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

func AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !auth.IsAdmin(c.Request().Context()) {
			return echo.NewHTTPError(http.StatusForbidden, "no admin")
		}
		return next(c)
	}
}

func NewRateLimiter(rps rate.Limit) echo.MiddlewareFunc {
	return middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(rps))
}

func RequestLoggerConfig(log *zap.Logger) middleware.RequestLoggerConfig {
	log = log.Named("echo")
	c := middleware.RequestLoggerConfig{
		LogURI:       true,
		LogMethod:    true,
		LogStatus:    true,
		HandleError:  true,
		LogError:     true,
		LogLatency:   true,
		LogRequestID: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			level := zapcore.InfoLevel
			if v.Error != nil {
				level = zapcore.ErrorLevel
			}
			log.Log(level, "request",
				zap.String("URI", v.URI),
				zap.String("Method", v.Method),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
				zap.Error(v.Error),
				zap.String("request_id", v.RequestID),
			)
			return nil
		},
	}
	return c
}
