package handler

import (
	"net/http"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) LendBook(c echo.Context) error {
	req := model.LendRequest{Copies: 1}
	if err := h.bind(c, &req); err != nil {
		return err
	}
	loan, err := h.librarySvc.LendBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, loan)
}

func (h *Handler) ReturnBook(c echo.Context) error {
	var req model.ReturnRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	res, err := h.librarySvc.ReturnBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

// ReserveBook queues the caller. Members always reserve for themselves.
func (h *Handler) ReserveBook(c echo.Context) error {
	var req model.ReserveRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.UserID == "" {
		req.UserID = callerID(c)
	}
	if err := c.Validate(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err := selfOrAdmin(c, req.UserID); err != nil {
		return err
	}
	r, err := h.librarySvc.ReserveBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, r)
}

func (h *Handler) CancelReservation(c echo.Context) error {
	if err := h.librarySvc.CancelReservation(c.Request().Context(), c.Param("reservationId")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListUserReservations(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	list, err := h.librarySvc.ListUserReservations(c.Request().Context(), userID)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) ListUserLoans(c echo.Context) error {
	userID := c.Param("userId")
	if err := selfOrAdmin(c, userID); err != nil {
		return err
	}
	status := model.LoanStatus(c.QueryParam("status"))
	switch status {
	case "", model.LoanBorrowed, model.LoanReturned:
	default:
		return echo.NewHTTPError(http.StatusBadRequest, "status is invalid")
	}
	loans, err := h.librarySvc.ListUserLoans(c.Request().Context(), userID, status)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, loans)
}
