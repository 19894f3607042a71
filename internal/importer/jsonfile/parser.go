// Package jsonfile imports transactions from a JSON array of records.
package jsonfile

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/findash/internal/importer/field"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

var errNotArray = errors.New("expected a JSON array of transactions")

type record struct {
	Date        string      `json:"date"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Status      string      `json:"status"`
	UserID      string      `json:"user_id"`
	UserProfile string      `json:"user_profile"`
}

// Parser decodes the array one element at a time.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	dec := json.NewDecoder(r)

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	if delim, ok := tok.(json.Delim); !ok || delim != '[' {
		return nil, errNotArray
	}

	var txs []transaction.CreateParams

	for n := 1; dec.More(); n++ {
		var rec record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("record %d: %w", n, err)
		}

		params, err := field.Record{
			Date:        rec.Date,
			Amount:      rec.Amount.String(),
			Category:    rec.Category,
			Status:      rec.Status,
			UserID:      rec.UserID,
			UserProfile: rec.UserProfile,
		}.Params(n, false)
		if err != nil {
			return nil, err
		}

		txs = append(txs, params)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("read json: %w", err)
	}

	return txs, nil
}
