// Package export renders the transaction history read model as downloadable files.
package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/samber/lo"
	"github.com/xuri/excelize/v2"

	apperrors "github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/errors"
	"github.com/Caio-Cesar-Vieira-Cavalcanti/psoft-wallet-sub000/internal/models"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "History"

// File is a rendered export ready to be streamed to the client.
type File struct {
	Name        string
	ContentType string
	Data        []byte
}

var header = []string{
	"id", "type", "asset_id", "asset_name", "asset_kind", "quantity",
	"unit_price", "gross", "tax", "net", "state", "occurred_at",
}

// ParseFormat validates a user-supplied format, defaulting to CSV.
func ParseFormat(raw string) (Format, error) {
	switch Format(raw) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unsupported export format %q", raw))
}

// Render writes entries in the requested format.
func Render(entries []models.HistoryEntry, format Format, now time.Time) (*File, error) {
	base := "history-" + now.Format("20060102-150405")
	switch format {
	case FormatCSV:
		data, err := renderCSV(entries)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &File{Name: base + ".csv", ContentType: "text/csv", Data: data}, nil
	case FormatXLSX:
		data, err := renderXLSX(entries)
		if err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return &File{
			Name:        base + ".xlsx",
			ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
			Data:        data,
		}, nil
	}
	return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, fmt.Sprintf("Unsupported export format %q", format))
}

func record(e models.HistoryEntry) []string {
	return []string{
		e.ID,
		string(e.Type),
		e.AssetID,
		e.AssetName,
		string(e.AssetKind),
		e.Quantity.String(),
		e.UnitPrice.StringFixed(2),
		e.Gross.StringFixed(2),
		e.Tax.StringFixed(2),
		e.Net.StringFixed(2),
		e.State,
		e.OccurredAt.UTC().Format(time.RFC3339),
	}
}

func renderCSV(entries []models.HistoryEntry) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(lo.Map(entries, func(e models.HistoryEntry, _ int) []string { return record(e) })); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderXLSX(entries []models.HistoryEntry) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, err
	}

	headerRow := lo.Map(header, func(h string, _ int) any { return h })
	if err := f.SetSheetRow(sheetName, "A1", &headerRow); err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
	})
	if err != nil {
		return nil, err
	}
	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(sheetName, "A1", lastCol+"1", headerStyle); err != nil {
		return nil, err
	}

	for i, e := range entries {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{
			e.ID,
			string(e.Type),
			e.AssetID,
			e.AssetName,
			string(e.AssetKind),
			e.Quantity.InexactFloat64(),
			e.UnitPrice.InexactFloat64(),
			e.Gross.InexactFloat64(),
			e.Tax.InexactFloat64(),
			e.Net.InexactFloat64(),
			e.State,
			e.OccurredAt.UTC().Format(time.RFC3339),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(sheetName, "A", lastCol, 18); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
