package importer

import (
	"io"
	"strings"

	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat accepts a format name or a file name with a known extension.
// Empty input means JSON.
func ParseFormat(s string) (Format, bool) {
	s = strings.ToLower(strings.TrimSpace(s))

	switch {
	case s == "", s == string(FormatJSON), strings.HasSuffix(s, ".json"):
		return FormatJSON, true
	case s == string(FormatCSV), strings.HasSuffix(s, ".csv"):
		return FormatCSV, true
	}

	return "", false
}

type Importer interface {
	Parse(r io.Reader) ([]transaction.CreateParams, error)
}
