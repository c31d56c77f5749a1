package importer

import (
	"bytes"
	"encoding/csv"
	"path/filepath"
	"strings"

	"github.com/360EntSecGroup-Skylar/excelize"
	"github.com/pkg/errors"
)

// SupportedFile reports whether filename has an accepted spreadsheet
// extension.
func SupportedFile(filename string) bool {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv", ".xls", ".xlsx":
		return true
	}
	return false
}

// DecodeFile turns an uploaded CSV or Excel payload into rows of cells.
// An unreadable payload is a structural failure: the whole import is
// rejected, unlike malformed individual rows.
func DecodeFile(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return decodeCSV(data)
	case ".xls", ".xlsx":
		return decodeExcel(data)
	default:
		return nil, errors.Errorf("unsupported file type: %s", filepath.Ext(filename))
	}
}

func decodeCSV(data []byte) ([][]string, error) {
	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "decode csv")
	}
	return rows, nil
}

func decodeExcel(data []byte) ([][]string, error) {
	xf, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, "decode spreadsheet")
	}
	sheet := xf.GetSheetName(1)
	if sheet == "" {
		return nil, errors.New("spreadsheet has no sheets")
	}
	return xf.GetRows(sheet), nil
}
