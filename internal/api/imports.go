package api

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/importer"
)

type pastePayload struct {
	Data      string `json:"data"`
	Delimiter string `json:"delimiter"`
	HasHeader *bool  `json:"hasHeader"`
}

func (h *Handler) importPaste(c echo.Context) error {
	var payload pastePayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse import parameters")
	}
	if strings.TrimSpace(payload.Data) == "" {
		return fail(c, http.StatusBadRequest, "data is required")
	}

	result, err := h.importer.ImportText(c.Request().Context(),
		payload.Data, payload.Delimiter, payload.HasHeader)
	if errors.Is(err, importer.ErrNoData) {
		return fail(c, http.StatusBadRequest, "No data to import")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Import failed")
	}

	h.auditor.RecordAction("import.paste",
		fmt.Sprintf("imported=%d errors=%d", result.Imported, len(result.Errors)))
	return ok(c, result)
}

func (h *Handler) importFile(c echo.Context) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "No file uploaded")
	}
	if !importer.SupportedFile(fileHeader.Filename) {
		return fail(c, http.StatusBadRequest, "Unsupported file type, expected CSV/XLS/XLSX")
	}

	src, err := fileHeader.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "Unable to read uploaded file")
	}
	defer src.Close()
	data, err := io.ReadAll(src)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Unable to read uploaded file")
	}

	rows, err := importer.DecodeFile(fileHeader.Filename, data)
	if err != nil {
		return fail(c, http.StatusBadRequest, "Unable to parse uploaded file")
	}

	result, err := h.importer.ImportRows(c.Request().Context(), rows)
	if errors.Is(err, importer.ErrNoData) {
		return fail(c, http.StatusBadRequest, "No data to import")
	} else if err != nil {
		return fail(c, http.StatusInternalServerError, "Import failed")
	}

	h.auditor.RecordAction("import.file",
		fmt.Sprintf("file=%s imported=%d errors=%d",
			fileHeader.Filename, result.Imported, len(result.Errors)))
	return ok(c, result)
}
