package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"framefix/internal/fileutil"
	"framefix/internal/report"
)

// WriteCSV writes the report matrix to path.
func WriteCSV(path string, r report.Report) error {
	err := fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return EncodeCSV(w, r)
	})
	if err != nil {
		return fmt.Errorf("write csv %s: %w", path, err)
	}
	return nil
}

// EncodeCSV writes the report matrix to w.
func EncodeCSV(w io.Writer, r report.Report) error {
	writer := csv.NewWriter(w)
	if err := writer.WriteAll(r.Matrix()); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
