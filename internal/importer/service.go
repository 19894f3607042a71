package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/findash/internal/apperr"
	"github.com/MrJamesThe3rd/findash/internal/importer/csvfile"
	"github.com/MrJamesThe3rd/findash/internal/importer/jsonfile"
	"github.com/MrJamesThe3rd/findash/internal/transaction"
)

type Service struct {
	importers map[Format]Importer
}

func NewService() *Service {
	return &Service{
		importers: map[Format]Importer{
			FormatJSON: jsonfile.NewParser(),
			FormatCSV:  csvfile.NewParser(),
		},
	}
}

// Import parses r as format. Unknown formats and malformed files are
// validation errors.
func (s *Service) Import(format Format, r io.Reader) ([]transaction.CreateParams, error) {
	importer, ok := s.importers[format]
	if !ok {
		return nil, apperr.Validation("importer.Import", fmt.Sprintf("Invalid Input: unknown format %q", format))
	}

	params, err := importer.Parse(r)
	if err != nil {
		return nil, apperr.Validation("importer.Import", fmt.Sprintf("Invalid Input: %v", err))
	}

	return params, nil
}
