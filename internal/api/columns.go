package api

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockpile/internal/schema"
)

type columnPayload struct {
	ColumnName string `json:"columnName"`
	ColumnType string `json:"columnType"`
}

func (h *Handler) getColumns(c echo.Context) error {
	return ok(c, echo.Map{
		"core":    h.registry.Core(),
		"dynamic": h.registry.Dynamic(),
		"all":     h.registry.All(),
	})
}

func (h *Handler) addColumn(c echo.Context) error {
	var payload columnPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse column parameters")
	}
	if strings.TrimSpace(payload.ColumnName) == "" {
		return fail(c, http.StatusBadRequest, "columnName is required")
	}

	added, err := h.registry.AddDynamic(c.Request().Context(), payload.ColumnName, payload.ColumnType)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to save column")
	}
	name := schema.Sanitize(payload.ColumnName)
	if !added {
		return fail(c, http.StatusBadRequest, fmt.Sprintf("Column %q already exists or is reserved", name))
	}

	h.auditor.RecordAction("column.added", fmt.Sprintf("name=%s", name))
	return ok(c, echo.Map{"message": "Column added", "column": name})
}
