// Package api exposes the products HTTP API: CRUD by item code, column
// management, bulk import from pasted text or spreadsheet files, bulk
// export and the health check. All responses are JSON; errors are
// {error: message}.
package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/talkincode/stockpile/internal/importer"
	"github.com/talkincode/stockpile/internal/schema"
	"github.com/talkincode/stockpile/internal/store"
)

// Auditor records mutations into the audit trail.
type Auditor interface {
	RecordAction(action, desc string)
}

type nopAuditor struct{}

func (nopAuditor) RecordAction(string, string) {}

type Handler struct {
	store    store.RecordStore
	registry *schema.Registry
	importer *importer.Importer
	auditor  Auditor
}

func NewHandler(recordStore store.RecordStore, registry *schema.Registry,
	imp *importer.Importer, auditor Auditor) *Handler {
	if auditor == nil {
		auditor = nopAuditor{}
	}
	return &Handler{
		store:    recordStore,
		registry: registry,
		importer: imp,
		auditor:  auditor,
	}
}

// Register attaches all routes to the router.
func (h *Handler) Register(e *echo.Echo) {
	e.GET("/health", h.health)

	g := e.Group("/api")
	g.GET("/products", h.listProducts)
	g.GET("/products/:item", h.getProduct)
	g.POST("/products", h.upsertProduct)
	g.DELETE("/products/:item", h.deleteProduct)

	g.GET("/columns", h.getColumns)
	g.POST("/columns", h.addColumn)

	g.POST("/import/paste", h.importPaste)
	g.POST("/import/file", h.importFile)

	g.GET("/export/:format", h.exportProducts)

	g.GET("/logs", h.listOpsLog)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{"error": message})
}
