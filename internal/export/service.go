// Package export writes transaction pages as CSV.
package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type Column string

const (
	ColumnID          Column = "id"
	ColumnDate        Column = "date"
	ColumnAmount      Column = "amount"
	ColumnCategory    Column = "category"
	ColumnStatus      Column = "status"
	ColumnUserID      Column = "user_id"
	ColumnUserProfile Column = "user_profile"
)

// Columns lists every exportable column in display order.
var Columns = []Column{
	ColumnID, ColumnDate, ColumnAmount, ColumnCategory, ColumnStatus, ColumnUserID, ColumnUserProfile,
}

// DefaultColumns are used when the caller selects none.
var DefaultColumns = []Column{
	ColumnDate, ColumnAmount, ColumnCategory, ColumnStatus, ColumnUserID,
}

// ParseColumns reads a comma separated column list. Blank input yields
// DefaultColumns; duplicates are dropped.
func ParseColumns(s string) ([]Column, error) {
	var cols []Column

	for part := range strings.SplitSeq(s, ",") {
		name := Column(strings.ToLower(strings.TrimSpace(part)))
		if name == "" {
			continue
		}

		if !slices.Contains(Columns, name) {
			return nil, apperr.Validation("export.ParseColumns", fmt.Sprintf("Invalid Input: unknown column %q", name))
		}

		if !slices.Contains(cols, name) {
			cols = append(cols, name)
		}
	}

	if len(cols) == 0 {
		return DefaultColumns, nil
	}

	return cols, nil
}

// Lister is the part of transaction.Service the exporter needs.
type Lister interface {
	List(ctx context.Context, filter transaction.Filter, page transaction.Page) (*transaction.ListResult, error)
}

type Service struct {
	transactions Lister
}

func NewService(transactions Lister) *Service {
	return &Service{transactions: transactions}
}

// WriteCSV writes the requested page of matching transactions to w as a header
// row followed by one row per record. It returns the number of data rows.
func (s *Service) WriteCSV(ctx context.Context, w io.Writer, filter transaction.Filter, page transaction.Page, cols []Column) (int, error) {
	if len(cols) == 0 {
		cols = DefaultColumns
	}

	for _, c := range cols {
		if !slices.Contains(Columns, c) {
			return 0, apperr.Validation("export.WriteCSV", fmt.Sprintf("Invalid Input: unknown column %q", c))
		}
	}

	res, err := s.transactions.List(ctx, filter, page)
	if err != nil {
		return 0, fmt.Errorf("listing transactions: %w", err)
	}

	cw := csv.NewWriter(w)

	header := make([]string, len(cols))
	for i, c := range cols {
		header[i] = string(c)
	}

	if err := cw.Write(header); err != nil {
		return 0, fmt.Errorf("writing header: %w", err)
	}

	row := make([]string, len(cols))

	for _, tx := range res.Data {
		for i, c := range cols {
			row[i] = cell(tx, c)
		}

		if err := cw.Write(row); err != nil {
			return 0, fmt.Errorf("writing row: %w", err)
		}
	}

	cw.Flush()

	if err := cw.Error(); err != nil {
		return 0, fmt.Errorf("flushing csv: %w", err)
	}

	return len(res.Data), nil
}

// Filename is the attachment name for an export taken at t.
func Filename(t time.Time) string {
	return fmt.Sprintf("transactions_%s.csv", t.UTC().Format("20060102_150405"))
}

func cell(tx *transaction.Transaction, c Column) string {
	switch c {
	case ColumnID:
		return tx.ID
	case ColumnDate:
		return tx.Date.UTC().Format(time.RFC3339)
	case ColumnAmount:
		return decimal.NewFromFloat(tx.Amount).String()
	case ColumnCategory:
		return string(tx.Category)
	case ColumnStatus:
		return string(tx.Status)
	case ColumnUserID:
		return tx.UserID
	case ColumnUserProfile:
		return tx.UserProfile
	}

	return ""
}
