// Package importer implements the tabular import pipeline: header
// detection for pasted text, column-name sanitization, schema
// auto-extension, per-cell normalization and upsert into the record
// store. One row's failure never aborts the batch; only structural
// failures (no data, unreadable file) fail the whole call.
package importer

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
	"github.com/talkincode/stockpile/internal/schema"
	"github.com/talkincode/stockpile/internal/store"
	"github.com/talkincode/stockpile/pkg/common"
	"go.uber.org/zap"
)

// ErrNoData the import payload contained no usable rows.
var ErrNoData = errors.New("no data to import")

const DefaultDelimiter = "\t"

// numericCellRe matches a plain, optionally $-prefixed number. A first
// line whose cells ALL match is treated as data under the default
// header; any non-matching cell makes the first line a header row. The
// heuristic misclassifies data rows containing cells like "N/A" as
// headers; callers can bypass it with an explicit header flag.
var numericCellRe = regexp.MustCompile(`^\$?\d+\.?\d*$`)

// Result reports the outcome of one import batch.
type Result struct {
	Imported        int      `json:"imported"`
	Errors          []string `json:"errors,omitempty"`
	NewColumnsAdded []string `json:"newColumnsAdded"`
}

type Importer struct {
	registry *schema.Registry
	store    store.RecordStore
}

func New(registry *schema.Registry, recordStore store.RecordStore) *Importer {
	return &Importer{registry: registry, store: recordStore}
}

// ImportText imports pasted delimiter-separated text. The first line is
// treated as a header when any of its cells fails to parse as a plain
// number; otherwise the fixed default header is assumed and the first
// line is data. hasHeader, when non-nil, bypasses the heuristic.
func (im *Importer) ImportText(ctx context.Context, data, delimiter string, hasHeader *bool) (*Result, error) {
	if delimiter == "" {
		delimiter = DefaultDelimiter
	}
	data = strings.ReplaceAll(data, "\r\n", "\n")
	data = strings.Trim(data, "\n")
	if strings.TrimSpace(data) == "" {
		return nil, ErrNoData
	}
	lines := strings.Split(data, "\n")

	firstCells := splitCells(lines[0], delimiter)
	headerRow := detectHeader(firstCells)
	if hasHeader != nil {
		headerRow = *hasHeader
	}

	var header []string
	dataLines := lines
	if headerRow {
		header = sanitizeHeader(firstCells)
		dataLines = lines[1:]
	} else {
		header = domain.DefaultHeader()
	}

	rows := make([][]string, 0, len(dataLines))
	for _, line := range dataLines {
		rows = append(rows, splitCells(line, delimiter))
	}

	offset := 1
	if headerRow {
		offset = 2
	}
	return im.run(ctx, header, rows, "line", offset)
}

// ImportRows imports a decoded spreadsheet table. Spreadsheet headers
// are unambiguous, so the first row is always the header.
func (im *Importer) ImportRows(ctx context.Context, rows [][]string) (*Result, error) {
	if len(rows) == 0 {
		return nil, ErrNoData
	}
	header := sanitizeHeader(rows[0])
	return im.run(ctx, header, rows[1:], "row", 2)
}

// run extends the schema from the header, then processes every data row
// independently.
func (im *Importer) run(ctx context.Context, header []string, rows [][]string, refWord string, refOffset int) (*Result, error) {
	batch := common.UUIDstr()
	result := &Result{NewColumnsAdded: []string{}}

	for _, name := range header {
		if name == "" || name == domain.FieldItem || im.registry.Has(name) {
			continue
		}
		added, err := im.registry.AddDynamic(ctx, name, domain.FieldKindText)
		if err != nil {
			return nil, errors.Wrapf(err, "extend schema with %s", name)
		}
		if added {
			result.NewColumnsAdded = append(result.NewColumnsAdded, name)
		}
	}

	for i, cells := range rows {
		ref := fmt.Sprintf("%s %d", refWord, i+refOffset)
		if len(cells) == 0 || strings.TrimSpace(cells[0]) == "" {
			continue
		}

		rec := make(domain.Record)
		for idx, name := range header {
			if idx >= len(cells) || name == "" {
				continue
			}
			rec[name] = Normalize(im.registry, name, cells[idx])
		}

		if rec.Item() == "" {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: missing item code", ref))
			continue
		}

		if _, err := im.store.Upsert(ctx, rec); err != nil {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %s", ref, err.Error()))
			continue
		}
		result.Imported++
	}

	zap.L().Info("import batch completed",
		zap.String("batch", batch),
		zap.Int("imported", result.Imported),
		zap.Int("errors", len(result.Errors)),
		zap.Strings("new_columns", result.NewColumnsAdded))
	return result, nil
}

// detectHeader applies the all-numeric-or-currency rule to the first
// line's cells.
func detectHeader(cells []string) bool {
	for _, cell := range cells {
		if !numericCellRe.MatchString(strings.TrimSpace(cell)) {
			return true
		}
	}
	return false
}

func splitCells(line, delimiter string) []string {
	if strings.TrimSpace(line) == "" {
		return nil
	}
	cells := strings.Split(line, delimiter)
	for i := range cells {
		cells[i] = strings.TrimSpace(cells[i])
	}
	return cells
}

func sanitizeHeader(cells []string) []string {
	header := make([]string, len(cells))
	for i, cell := range cells {
		header[i] = schema.Sanitize(cell)
	}
	return header
}
