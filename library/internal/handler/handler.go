package handler

import (
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-lending/library/internal/errs"
	"github.com/Astemirdum/library-lending/pkg/auth"
	md "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/Astemirdum/library-lending/pkg/validate"
	_ "github.com/Astemirdum/library-lending/swagger"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	librarySvc LibraryService
	chatSvc    ChatService
	auth       auth.Config
	log        *zap.Logger
}

func New(librarySvc LibraryService, chatSvc ChatService, authCfg auth.Config, log *zap.Logger) *Handler {
	return &Handler{
		librarySvc: librarySvc,
		chatSvc:    chatSvc,
		auth:       authCfg,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.JSONSerializer = jsonSerializer{}
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPut, http.MethodPatch, http.MethodPost, http.MethodDelete},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
	)
	api.POST("/register", h.Register)
	api.POST("/login", h.Login)
	api.POST("/logout", h.Logout)
	api.POST("/password/forgot", h.ForgotPassword)
	api.POST("/password/verify", h.VerifyResetCode)
	api.POST("/password/reset", h.ResetPassword)

	api = api.Group("", md.JwtAuthentication(h.auth))
	admin := api.Group("", md.AdminOnly)

	api.GET("/books", h.ListBooks)
	api.GET("/books/:bookId", h.GetBook)
	api.GET("/books/:bookId/reservations", h.ListBookReservations)
	admin.POST("/books", h.CreateBook)
	admin.PUT("/books/:bookId", h.UpdateBook)
	admin.DELETE("/books/:bookId", h.DeleteBook)

	admin.POST("/books/lend", h.LendBook)
	admin.POST("/loans/return", h.ReturnBook)

	api.POST("/reservations", h.ReserveBook)
	api.DELETE("/reservations/:reservationId", h.CancelReservation)

	admin.GET("/users", h.ListUsers)
	api.GET("/users/:userId", h.GetUser)
	admin.DELETE("/users/:userId", h.DeleteUser)
	api.PATCH("/users/:userId/password", h.ChangePassword)
	api.GET("/users/:userId/loans", h.ListUserLoans)
	api.GET("/users/:userId/reservations", h.ListUserReservations)
	api.GET("/users/:userId/notifications", h.ListNotifications)
	api.POST("/users/:userId/notifications/read", h.MarkNotificationsRead)
	api.GET("/users/:userId/fines", h.FineSummary)
	api.GET("/users/:userId/stats", h.UserStats)
	api.GET("/users/:userId/stats/chart", h.ChartStats)
	api.GET("/users/:userId/stats/activity", h.LendingActivity)

	admin.GET("/fines", h.ListFines)
	api.POST("/fines/:fineId/pay", h.PayFine)
	admin.POST("/fines/:fineId/waive", h.WaiveFine)

	api.GET("/ebooks", h.ListEbooks)
	api.GET("/ebooks/:ebookId/download", h.DownloadEbook)
	admin.POST("/ebooks", h.UploadEbook, middleware.BodyLimit(uploadLimit))

	api.POST("/chat", h.Chat)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// httpError maps service errors to responses. Unclassified errors are
// logged and reported without their text.
func (h *Handler) httpError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, errs.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	case errors.Is(err, errs.ErrAlreadyReturned),
		errors.Is(err, errs.ErrConflict),
		errors.Is(err, errs.ErrUnavailable):
		return echo.NewHTTPError(http.StatusConflict, err.Error())
	case errors.Is(err, errs.ErrValidation):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, errs.ErrUnauthorized):
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	case errors.Is(err, errs.ErrForbidden):
		return echo.NewHTTPError(http.StatusForbidden, err.Error())
	}
	h.log.Error("internal", zap.String("path", c.Path()), zap.Error(err))
	return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
}

func (h *Handler) bind(c echo.Context, req interface{}) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// selfOrAdmin lets a member reach only their own records.
func selfOrAdmin(c echo.Context, userID string) error {
	ctx := c.Request().Context()
	if auth.IsAdmin(ctx) {
		return nil
	}
	caller, err := auth.GetUserID(ctx)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, err.Error())
	}
	if caller != userID {
		return echo.NewHTTPError(http.StatusForbidden, "access to another user's data")
	}
	return nil
}

func pageParams(c echo.Context) (page, size int, err error) {
	if pageParam := c.QueryParam("page"); pageParam != "" {
		if page, err = strconv.Atoi(pageParam); err != nil || page < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "page is invalid")
		}
	}
	if sizeParam := c.QueryParam("size"); sizeParam != "" {
		if size, err = strconv.Atoi(sizeParam); err != nil || size < 0 {
			return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "size is invalid")
		}
	}
	return page, size, nil
}
