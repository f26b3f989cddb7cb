package handler

import (
	"fmt"
	"net/http"
	"net/url"

	"github.com/Astemirdum/library-lending/library/internal/model"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// uploadLimit leaves room for the multipart envelope around the file.
const uploadLimit = "52M"

type uploadResponse struct {
	Message    string          `json:"message"`
	EbookID    string          `json:"ebook_id"`
	FileSizeMB decimal.Decimal `json:"file_size_mb"`
}

func (h *Handler) ListEbooks(c echo.Context) error {
	list, err := h.librarySvc.ListEbooks(c.Request().Context(), c.QueryParam("category"))
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusOK, list)
}

func (h *Handler) UploadEbook(c echo.Context) error {
	req := model.EbookUpload{
		Title:    c.FormValue("title"),
		Author:   c.FormValue("author"),
		Category: c.FormValue("category"),
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is required")
	}
	req.FileName = fh.Filename
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	file, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "file is unreadable")
	}
	defer file.Close()

	e, err := h.librarySvc.UploadEbook(c.Request().Context(), req, file)
	if err != nil {
		return h.httpError(c, err)
	}
	return c.JSON(http.StatusCreated, uploadResponse{
		Message:    "E-book uploaded successfully",
		EbookID:    e.ID,
		FileSizeMB: e.SizeMB,
	})
}

func (h *Handler) DownloadEbook(c echo.Context) error {
	e, rc, err := h.librarySvc.OpenEbook(c.Request().Context(), c.Param("ebookId"))
	if err != nil {
		return h.httpError(c, err)
	}
	defer func() {
		if err := rc.Close(); err != nil {
			h.log.Warn("close e-book", zap.String("id", e.ID), zap.Error(err))
		}
	}()

	name := e.FileName()
	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%q; filename*=UTF-8''%s", name, url.PathEscape(name)))
	return c.Stream(http.StatusOK, echo.MIMEOctetStream, rc)
}
