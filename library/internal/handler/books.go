package handler

import (
	"net/http"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/labstack/echo/v4"
)

func (h *Handler) ListBooks(c echo.Context) error {
	page, size, err := pageParams(c)
	if err != nil {
		return err
	}
	filter := model.BookFilter{
		Query:    c.QueryParam("q"),
		Category: c.QueryParam("category"),
		Status:   model.BookStatus(c.QueryParam("status")),
		Page:     page,
		Size:     size,
	}
	books, err := h.librarySvc.ListBooks(c.Request().Context(), filter)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) GetBook(c echo.Context) error {
	book, err := h.librarySvc.GetBook(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) CreateBook(c echo.Context) error {
	var req model.BookRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.CreateBook(c.Request().Context(), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, book)
}

func (h *Handler) UpdateBook(c echo.Context) error {
	var req model.BookRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	book, err := h.librarySvc.UpdateBook(c.Request().Context(), c.Param("bookId"), req)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, book)
}

func (h *Handler) DeleteBook(c echo.Context) error {
	if err := h.librarySvc.DeleteBook(c.Request().Context(), c.Param("bookId")); err != nil {
		return h.httpError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) ListBookReservations(c echo.Context) error {
	list, err := h.librarySvc.ListBookReservations(c.Request().Context(), c.Param("bookId"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}
