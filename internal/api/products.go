package api

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
	"github.com/talkincode/stockpile/internal/store"
)

func (h *Handler) listProducts(c echo.Context) error {
	records, err := h.store.List(c.Request().Context())
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to query products")
	}
	if records == nil {
		records = []domain.Record{}
	}
	return ok(c, records)
}

func (h *Handler) getProduct(c echo.Context) error {
	item := c.Param("item")
	rec, err := h.store.Get(c.Request().Context(), item)
	if errors.Is(err, store.ErrNotFound) {
		return fail(c, http.StatusNotFound, "Product not found")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to query product")
	}
	return ok(c, rec)
}

func (h *Handler) upsertProduct(c echo.Context) error {
	payload := make(map[string]interface{})
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse product")
	}
	rec := domain.Record(payload)
	item := rec.Item()
	if item == "" {
		return fail(c, http.StatusBadRequest, "item is required")
	}

	created, err := h.store.Upsert(c.Request().Context(), rec)
	if errors.Is(err, store.ErrInvalidRecord) {
		return fail(c, http.StatusBadRequest, "item is required")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to save product")
	}

	message := "Product updated"
	action := "product.updated"
	if created {
		message = "Product created"
		action = "product.created"
	}
	h.auditor.RecordAction(action, fmt.Sprintf("item=%s", item))
	return ok(c, echo.Map{"message": message, "item": item})
}

func (h *Handler) deleteProduct(c echo.Context) error {
	item := c.Param("item")
	deleted, err := h.store.Delete(c.Request().Context(), item)
	if err != nil {
		return fail(c, http.StatusInternalServerError, "Failed to delete product")
	}
	if !deleted {
		return fail(c, http.StatusNotFound, "Product not found")
	}
	h.auditor.RecordAction("product.deleted", fmt.Sprintf("item=%s", item))
	return ok(c, echo.Map{"message": "Product deleted"})
}
