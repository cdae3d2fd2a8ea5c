package xlsx

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/kirillkom/prospect-radar/internal/core/domain"
)

const defaultMaxRows = 5000

var headerAliases = map[string]string{
	"name":           "name",
	"company":        "name",
	"company name":   "name",
	"account":        "name",
	"domain":         "domain",
	"company domain": "domain",
	"website":        "domain",
	"url":            "domain",
	"site":           "domain",
	"notes":          "notes",
	"note":           "notes",
	"comments":       "notes",
	"description":    "notes",
}

type columns struct {
	name   int
	domain int
	notes  int
}

// Reader reads customer rows from the first sheet of an XLSX workbook. A
// header row is recognised by its column names; without one the columns are
// taken as name, domain, notes.
type Reader struct {
	maxRows int
}

func NewReader(maxRows int) *Reader {
	if maxRows <= 0 {
		maxRows = defaultMaxRows
	}
	return &Reader{maxRows: maxRows}
}

func (r *Reader) ReadCustomers(ctx context.Context, body io.Reader) ([]domain.Customer, error) {
	book, err := excelize.OpenReader(body)
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", err)
	}
	defer func() {
		_ = book.Close()
	}()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, domain.WrapError(domain.ErrInvalidInput, "open workbook", errors.New("workbook has no sheets"))
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read rows", err)
	}
	if len(rows) == 0 {
		return []domain.Customer{}, nil
	}

	cols, hasHeader := detectColumns(rows[0])
	if hasHeader {
		rows = rows[1:]
	}
	if len(rows) > r.maxRows {
		return nil, domain.WrapError(domain.ErrInvalidInput, "read rows", fmt.Errorf("workbook has %d rows, limit is %d", len(rows), r.maxRows))
	}

	out := make([]domain.Customer, 0, len(rows))
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		customer := domain.Customer{
			Name:   cell(row, cols.name),
			Domain: cell(row, cols.domain),
			Notes:  cell(row, cols.notes),
		}
		if customer.Name == "" && customer.Domain == "" && customer.Notes == "" {
			continue
		}
		out = append(out, customer)
	}
	return out, nil
}

func detectColumns(header []string) (columns, bool) {
	cols := columns{name: -1, domain: -1, notes: -1}
	found := false
	for i, raw := range header {
		switch headerAliases[strings.ToLower(strings.TrimSpace(raw))] {
		case "name":
			if cols.name < 0 {
				cols.name = i
				found = true
			}
		case "domain":
			if cols.domain < 0 {
				cols.domain = i
				found = true
			}
		case "notes":
			if cols.notes < 0 {
				cols.notes = i
				found = true
			}
		}
	}
	if !found {
		return columns{name: 0, domain: 1, notes: 2}, false
	}
	return cols, true
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
