package extraction

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/Sanaks-uk/EPO-data/internal/domain/patent"
	"github.com/Sanaks-uk/EPO-data/pkg/errors"
)

// DefaultOutputPath names the export file the way downstream consumers
// expect: the extraction year plus a run timestamp.
func DefaultOutputPath(year int, now time.Time) string {
	return fmt.Sprintf("epo_patents_register_%d_%s.csv", year, now.Format("20060102_150405"))
}

// WriteCSV renders the records as CSV with the historical column headers.
func WriteCSV(w io.Writer, records []patent.PatentRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(patent.RecordColumns); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to write CSV header")
	}
	for _, r := range records {
		if err := cw.Write(r.Row()); err != nil {
			return errors.Wrap(err, errors.CodeExportFailed, "failed to write CSV row")
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to flush CSV output")
	}
	return nil
}

// ExportCSV writes the records to path, creating or truncating the file.
func ExportCSV(path string, records []patent.PatentRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to create output file").
			WithDetail("path=" + path)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, errors.CodeExportFailed, "failed to close output file").
			WithDetail("path=" + path)
	}
	return nil
}
