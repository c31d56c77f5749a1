package api

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockpile/internal/domain"
)

func (h *Handler) listOpsLog(c echo.Context) error {
	limit := 100
	if v := c.QueryParam("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
			limit = n
		}
	}
	entries, err := h.store.ListOpsLog(c.Request().Context(), limit)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to query ops log")
	}
	if entries == nil {
		entries = []domain.InvOpsLog{}
	}
	return ok(c, entries)
}
