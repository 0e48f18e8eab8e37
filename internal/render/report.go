package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/guillaume-flambard/pacs-dog-map/internal/domain"
)

var reportHeader = []string{
	"Rank", "ID", "Area", "Location", "Species", "Count", "Sex", "Age",
	"Temperament", "Pregnant", "Resolved", "Contact", "Notes",
}

// WriteFieldReport exports the pending priority list as CSV for printing and
// offline field work. Records are expected in priority order already.
func WriteFieldReport(records []domain.AnimalRecord, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure report directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := FieldReport(records, f); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// FieldReport writes the report CSV to w.
func FieldReport(records []domain.AnimalRecord, w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(reportHeader); err != nil {
		return fmt.Errorf("write report header: %w", err)
	}

	for i, rec := range records {
		row := []string{
			strconv.Itoa(i + 1),
			rec.ID,
			rec.LocationArea,
			rec.LocationText,
			string(rec.Species),
			strconv.Itoa(rec.AnimalCount),
			string(rec.Sex),
			string(rec.AgeClass),
			string(rec.Temperament),
			yesNo(rec.Pregnant),
			yesNo(rec.Resolved),
			rec.Contact,
			rec.Notes,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write report row %d: %w", i+1, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush report: %w", err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
