// Package field parses the individual values of an imported transaction record.
package field

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	time.DateTime,
	time.DateOnly,
	"02-01-2006",
	"02/01/2006",
}

// Date parses s in any of the accepted layouts. Values without a zone are UTC.
// An empty value returns the zero time, which the importer stores as "now".
func Date(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

var errNegativeAmount = errors.New("amount must not be negative")

// Amount parses a decimal amount. With decimalComma set, "1.234,56" reads as
// 1234.56; otherwise "1,234.56" does.
func Amount(s string, decimalComma bool) (float64, error) {
	clean := strings.TrimSpace(s)
	if clean == "" {
		return 0, errors.New("amount is required")
	}

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}

	if d.IsNegative() {
		return 0, errNegativeAmount
	}

	return d.InexactFloat64(), nil
}

func Category(s string) (transaction.Category, error) {
	c, ok := transaction.ParseCategory(s)
	if !ok {
		return "", fmt.Errorf("invalid category %q", s)
	}

	return c, nil
}

func Status(s string) (transaction.Status, error) {
	st, ok := transaction.ParseStatus(s)
	if !ok {
		return "", fmt.Errorf("invalid status %q", s)
	}

	return st, nil
}

// Record holds the raw values of one imported transaction.
type Record struct {
	Date        string
	Amount      string
	Category    string
	Status      string
	UserID      string
	UserProfile string
}

// Params converts r into CreateParams. n is the 1-based record number used in
// error messages.
func (r Record) Params(n int, decimalComma bool) (transaction.CreateParams, error) {
	date, err := Date(r.Date)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("record %d: %w", n, err)
	}

	amount, err := Amount(r.Amount, decimalComma)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("record %d: %w", n, err)
	}

	category, err := Category(r.Category)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("record %d: %w", n, err)
	}

	status, err := Status(r.Status)
	if err != nil {
		return transaction.CreateParams{}, fmt.Errorf("record %d: %w", n, err)
	}

	userID := strings.TrimSpace(r.UserID)
	if userID == "" {
		return transaction.CreateParams{}, fmt.Errorf("record %d: user_id is required", n)
	}

	return transaction.CreateParams{
		Date:        date,
		Amount:      amount,
		Category:    category,
		Status:      status,
		UserID:      userID,
		UserProfile: strings.TrimSpace(r.UserProfile),
	}, nil
}
