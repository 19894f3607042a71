// Package csvfile imports transactions from delimited text files.
package csvfile

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	enc "github.com/MrJamesThe3rd/findash/internal/encoding"
	"github.com/MrJamesThe3rd/findash/internal/importer/field"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

var ErrNoHeader = errors.New("no header row found: expected date, amount, category, status and user_id columns")

// Parser reads CSV files in any supported encoding. The delimiter is ',' or
// ';'. Semicolon files use a decimal comma in amounts.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) ([]transaction.CreateParams, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	br := bufio.NewReader(utf8r)

	comma, err := sniffDelimiter(br)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(br)
	reader.Comma = comma
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	profile, cols, headerIdx := detectProfile(rows)
	if profile == nil {
		return nil, ErrNoHeader
	}

	return parseRows(profile, cols, rows[headerIdx+1:], headerIdx+1, comma == ';')
}

// sniffDelimiter picks ';' when the first line has more semicolons than commas.
func sniffDelimiter(br *bufio.Reader) (rune, error) {
	head, err := br.Peek(br.Size())
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return 0, fmt.Errorf("peek: %w", err)
	}

	if i := bytes.IndexByte(head, '\n'); i >= 0 {
		head = head[:i]
	}

	if bytes.Count(head, []byte{';'}) > bytes.Count(head, []byte{','}) {
		return ';', nil
	}

	return ',', nil
}

type colIndex map[string]int

func (c colIndex) get(row []string, name string) string {
	idx, ok := c[name]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func detectProfile(rows [][]string) (*Profile, colIndex, int) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := headerKey(cell); name != "" {
				cols[name] = i
			}
		}

		for i := range profiles {
			if matchesProfile(&profiles[i], cols) {
				return &profiles[i], cols, rowIdx
			}
		}
	}

	return nil, nil, 0
}

func matchesProfile(p *Profile, cols colIndex) bool {
	for _, name := range p.requiredCols() {
		if _, ok := cols[name]; !ok {
			return false
		}
	}

	return true
}

// parseRows converts data rows. firstRow is the 0-based file index of rows[0];
// errors report 1-based file line numbers.
func parseRows(p *Profile, cols colIndex, rows [][]string, firstRow int, decimalComma bool) ([]transaction.CreateParams, error) {
	txs := make([]transaction.CreateParams, 0, len(rows))

	for i, row := range rows {
		if blank(row) {
			continue
		}

		rec := field.Record{
			Date:        cols.get(row, p.DateCol),
			Amount:      cols.get(row, p.AmountCol),
			Category:    cols.get(row, p.CategoryCol),
			Status:      cols.get(row, p.StatusCol),
			UserID:      cols.get(row, p.UserIDCol),
			UserProfile: cols.get(row, p.UserProfileCol),
		}

		params, err := rec.Params(firstRow+i+1, decimalComma)
		if err != nil {
			return nil, err
		}

		txs = append(txs, params)
	}

	return txs, nil
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}

	return true
}
