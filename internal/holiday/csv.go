package holiday

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/google/uuid"
)

// ParseCSV reads holiday rows of the form "#,name,date". A header row is
// detected by its unparsable date column and skipped. Two-column rows
// ("name,date") are accepted as well. Dates may be YYYY-MM-DD or YYYYMMDD.
// Rows repeating an earlier date are dropped.
func ParseCSV(r io.Reader) ([]domain.Holiday, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	var out []domain.Holiday
	seen := map[domain.Date]bool{}
	for line := 1; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV: %w", err)
		}
		if line == 1 && len(rec) > 0 {
			rec[0] = strings.TrimPrefix(rec[0], "\ufeff")
		}
		if isBlank(rec) {
			continue
		}
		if len(rec) < 2 {
			return nil, fmt.Errorf("line %d: expected name and date columns, got %d field(s)", line, len(rec))
		}

		name := strings.TrimSpace(rec[len(rec)-2])
		raw := strings.TrimSpace(rec[len(rec)-1])
		d, err := domain.ParseDate(raw)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if seen[d] {
			continue
		}
		seen[d] = true
		out = append(out, domain.Holiday{ID: uuid.NewString(), Date: d, Name: name})
	}
	return out, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
