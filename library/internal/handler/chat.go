package handler

import (
	"net/http"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/labstack/echo/v4"
)

// Chat never fails on routing errors; the router answers with an apology
// text instead.
func (h *Handler) Chat(c echo.Context) error {
	var req model.ChatRequest
	if err := h.bind(c, &req); err != nil {
		return err
	}
	userID := callerID(c)
	if userID == "" {
		userID = req.UserID
	}
	answer := h.chatSvc.Handle(c.Request().Context(), userID, req.Message)
	return c.JSON(http.StatusOK, model.ChatResponse{Response: answer})
}
