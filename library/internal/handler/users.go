package handler

import (
	"net/http"
	"time"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/Astemirdum/library-lending/pkg/auth"
	"github.com/labstack/echo/v4"
)

func callerID(c echo.Context) string {
	userID, _ := auth.GetUserID(c.Request().Context())
	return userID
}

func (h *Handler) Register(c echo.Context) error {
	var req model.RegisterRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	user, err := h.librarySvc.Register(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, user)
}

func (h *Handler) Login(c echo.Context) error {
	var req model.LoginRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	resp, err := h.librarySvc.Login(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    resp.Token,
		Path:     "/",
		Expires:  resp.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     auth.CookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
	})
	return c.JSON(http.StatusOK, model.Message{Message: "logged out"})
}

func (h *Handler) ListUsers(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	users, err := h.librarySvc.ListUsers(c.Request().Context(), page, size)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

func (h *Handler) GetUser(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	user, err := h.librarySvc.GetUser(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func (h *Handler) DeleteUser(c echo.Context) error {
	if err := h.librarySvc.DeleteUser(c.Request().Context(), c.Param("userId")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ChangePassword(c echo.Context) error {
	userID := c.Param("userId")
	if callerID(c) != userID {
		return echo.NewHTTPError(http.StatusForbidden, "password can be changed by its owner only")
	}
	var req model.ChangePasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.librarySvc.ChangePassword(c.Request().Context(), userID, req); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.Message{Message: "password changed"})
}

func (h *Handler) ListNotifications(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	list, err := h.librarySvc.ListNotifications(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) MarkNotificationsRead(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	if err := h.librarySvc.MarkNotificationsRead(c.Request().Context(), userID); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ForgotPassword(c echo.Context) error {
	var req model.ForgotPasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.librarySvc.RequestPasswordReset(c.Request().Context(), req); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.Message{Message: "If the address is registered, a reset code has been sent"})
}

func (h *Handler) VerifyResetCode(c echo.Context) error {
	var req model.ResetCodeRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.librarySvc.VerifyResetCode(c.Request().Context(), req); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.Message{Message: "OTP verified successfully"})
}

func (h *Handler) ResetPassword(c echo.Context) error {
	var req model.ResetPasswordRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	if err := h.librarySvc.ResetPassword(c.Request().Context(), req); err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, model.Message{Message: "password has been reset"})
}
