package handler

import (
	"net/http"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) FineSummary(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	summary, err := h.librarySvc.FineSummary(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *Handler) ListFines(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	status := model.FineStatus(c.QueryParam("status"))
	switch status {
	case "", model.FinePending, model.FinePaid, model.FineWaived:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status is invalid")
	}
	fines, err := h.librarySvc.ListFines(c.Request().Context(), model.FineFilter{
		UserID: c.QueryParam("user_id"),
		Status: status,
		Page:   page,
		Size:   size,
	})
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, fines)
}

func (h *Handler) PayFine(c echo.Context) error {
	fine, err := h.librarySvc.PayFine(c.Request().Context(), c.Param("fineId"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) WaiveFine(c echo.Context) error {
	fine, err := h.librarySvc.WaiveFine(c.Request().Context(), c.Param("fineId"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, fine)
}

func (h *Handler) UserStats(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	stats, err := h.librarySvc.UserStats(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) ChartStats(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	stats, err := h.librarySvc.ChartStats(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}

func (h *Handler) LendingActivity(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	months, err := h.librarySvc.LendingActivity(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, months)
}
