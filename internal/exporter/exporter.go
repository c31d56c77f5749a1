// Package exporter renders the full record set into JSON, CSV or Excel
// output for download.
package exporter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/360EntSecGroup-Skylar/excelize"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/talkincode/stockpile/internal/domain"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// ErrUnsupportedFormat the requested export format is not one of
// json/csv/excel.
var ErrUnsupportedFormat = errors.New("unsupported export format")

const (
	FormatJSON  = "json"
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

// Payload is a rendered export ready to be served as a download.
type Payload struct {
	ContentType string
	Filename    string
	Data        []byte
}

// Export renders records in the requested format. JSON is the verbatim
// record array; CSV and Excel are tabular with the column set being the
// union of keys across all records, one row per record, missing fields
// rendered empty.
func Export(records []domain.Record, format string) (*Payload, error) {
	if records == nil {
		records = []domain.Record{}
	}
	stamp := time.Now().Format("20060102150405")
	switch format {
	case FormatJSON:
		data, err := json.Marshal(records)
		if err != nil {
			return nil, errors.Wrap(err, "encode json export")
		}
		return &Payload{
			ContentType: "application/json",
			Filename:    fmt.Sprintf("products_%s.json", stamp),
			Data:        data,
		}, nil
	case FormatCSV:
		data, err := renderCSV(records)
		if err != nil {
			return nil, err
		}
		return &Payload{
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("products_%s.csv", stamp),
			Data:        data,
		}, nil
	case FormatExcel:
		data, err := renderExcel(records)
		if err != nil {
			return nil, err
		}
		return &Payload{
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Filename:    fmt.Sprintf("products_%s.xlsx", stamp),
			Data:        data,
		}, nil
	default:
		return nil, ErrUnsupportedFormat
	}
}

// Columns returns the union of keys present across records. Records are
// maps, so "first seen" has no stable meaning; the order is canonical
// instead: core fields first, dynamic fields sorted, timestamps last.
func Columns(records []domain.Record) []string {
	present := make(map[string]bool)
	for _, rec := range records {
		for name := range rec {
			present[name] = true
		}
	}

	var columns []string
	for _, f := range domain.CoreFields {
		if present[f.Name] {
			columns = append(columns, f.Name)
			delete(present, f.Name)
		}
	}
	delete(present, domain.FieldCreatedAt)
	delete(present, domain.FieldUpdatedAt)

	var dynamic []string
	for name := range present {
		dynamic = append(dynamic, name)
	}
	sort.Strings(dynamic)
	columns = append(columns, dynamic...)

	for _, rec := range records {
		if _, ok := rec[domain.FieldCreatedAt]; ok {
			columns = append(columns, domain.FieldCreatedAt, domain.FieldUpdatedAt)
			break
		}
	}
	return columns
}

func cellString(v interface{}) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}

func renderCSV(records []domain.Record) ([]byte, error) {
	columns := Columns(records)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(columns); err != nil {
		return nil, errors.Wrap(err, "write csv header")
	}
	row := make([]string, len(columns))
	for _, rec := range records {
		for i, name := range columns {
			row[i] = cellString(rec[name])
		}
		if err := w.Write(row); err != nil {
			return nil, errors.Wrap(err, "write csv row")
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, errors.Wrap(err, "flush csv")
	}
	return buf.Bytes(), nil
}

func renderExcel(records []domain.Record) ([]byte, error) {
	columns := Columns(records)
	xf := excelize.NewFile()
	const sheet = "Sheet1"
	for i, name := range columns {
		xf.SetCellValue(sheet, excelize.ToAlphaString(i)+"1", name)
	}
	for rowIdx, rec := range records {
		axisRow := strconv.Itoa(rowIdx + 2)
		for i, name := range columns {
			v, ok := rec[name]
			if !ok {
				continue
			}
			xf.SetCellValue(sheet, excelize.ToAlphaString(i)+axisRow, v)
		}
	}
	var buf bytes.Buffer
	if err := xf.Write(&buf); err != nil {
		return nil, errors.Wrap(err, "write spreadsheet")
	}
	return buf.Bytes(), nil
}
