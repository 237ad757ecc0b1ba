package export

import (
	"fmt"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"framefix/internal/fileutil"
	"framefix/internal/logging"
	"framefix/internal/report"
)

const (
	defaultSheet   = "Sheet1"
	firstDataRow   = 4
	thumbnailRowPt = 60
)

// WorkbookColumns labels the third row of the workbook.
var WorkbookColumns = []string{"Show Location", "Frames to Fix", "Timecodes", "Thumbnail"}

// WorkbookRow is one report row enriched with its media artifacts.
type WorkbookRow struct {
	Row       report.Row
	Timecode  string
	Thumbnail string
	ClipAsset string
}

// Workbook describes the spreadsheet contents.
type Workbook struct {
	Sheet  string
	Header report.Header
	Rows   []WorkbookRow
}

// WriteXLSX writes wb to path. A thumbnail that cannot be embedded is logged
// and its cell left empty; the row itself is still written.
func WriteXLSX(path string, wb Workbook, logger *slog.Logger) error {
	logger = logging.NewComponentLogger(logger, "export")
	file, err := Build(wb, logger)
	if err != nil {
		return err
	}
	defer file.Close()

	err = fileutil.WriteAtomic(path, 0o644, func(w io.Writer) error {
		return file.Write(w)
	})
	if err != nil {
		return fmt.Errorf("write xlsx %s: %w", path, err)
	}
	return nil
}

// Build lays wb out in a new in-memory workbook. The caller closes it.
func Build(wb Workbook, logger *slog.Logger) (*excelize.File, error) {
	sheet := strings.TrimSpace(wb.Sheet)
	if sheet == "" {
		sheet = "output"
	}
	file := excelize.NewFile()
	fail := func(err error) (*excelize.File, error) {
		_ = file.Close()
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	if err := file.SetSheetName(defaultSheet, sheet); err != nil {
		return fail(err)
	}

	header := []string{wb.Header.Producer, wb.Header.Operator, wb.Header.Job, wb.Header.Notes}
	columns := WorkbookColumns
	if hasClipAssets(wb.Rows) {
		columns = append(append([]string(nil), WorkbookColumns...), "Clip Asset")
	}
	for i, values := range [][]string{report.MetadataLabels, header, columns} {
		if err := setRow(file, sheet, i+1, values); err != nil {
			return fail(err)
		}
	}

	for i, row := range wb.Rows {
		rowNum := firstDataRow + i
		values := []string{row.Row.Location, row.Row.Range.String(), row.Timecode}
		if err := setRow(file, sheet, rowNum, values); err != nil {
			return fail(err)
		}
		if row.ClipAsset != "" {
			cell, _ := excelize.CoordinatesToCellName(5, rowNum)
			if err := file.SetCellStr(sheet, cell, row.ClipAsset); err != nil {
				return fail(err)
			}
		}
		if row.Thumbnail == "" {
			continue
		}
		cell, _ := excelize.CoordinatesToCellName(4, rowNum)
		if err := file.AddPicture(sheet, cell, row.Thumbnail, &excelize.GraphicOptions{
			OffsetX:     2,
			OffsetY:     2,
			Positioning: "oneCell",
		}); err != nil {
			logging.WarnWithContext(logger, "thumbnail not embedded", "thumbnail_embed_failed",
				logging.String("cell", cell),
				logging.String("thumbnail", row.Thumbnail),
				logging.Error(err),
				logging.String(logging.FieldImpact, "row written without thumbnail"),
			)
			continue
		}
		if err := file.SetRowHeight(sheet, rowNum, thumbnailRowPt); err != nil {
			return fail(err)
		}
	}

	if err := file.SetColWidth(sheet, "A", "A", 60); err != nil {
		return fail(err)
	}
	if err := file.SetColWidth(sheet, "B", "C", 24); err != nil {
		return fail(err)
	}
	if err := file.SetColWidth(sheet, "D", "D", 16); err != nil {
		return fail(err)
	}
	return file, nil
}

func setRow(file *excelize.File, sheet string, row int, values []string) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return file.SetSheetRow(sheet, cell, &cells)
}

func hasClipAssets(rows []WorkbookRow) bool {
	for _, row := range rows {
		if row.ClipAsset != "" {
			return true
		}
	}
	return false
}
