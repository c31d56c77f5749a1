package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/exporter"
)

func (h *Handler) exportProducts(c echo.Context) error {
	format := c.Param("format")

	records, err := h.store.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to query products")
	}

	payload, err := exporter.Export(records, format)
	if errors.Is(err, exporter.ErrUnsupportedFormat) {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Unsupported export format: %s", format))
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Export failed")
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf("attachment; filename=%s", payload.Filename))
	return c.Blob(http.StatusOK, payload.ContentType, payload.Data)
}
