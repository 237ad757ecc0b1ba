package store

import (
	"time"

	"framefix/internal/frames"
	"framefix/internal/report"
	"framefix/internal/workorder"
)

// WorkOrderRecord is one persisted work-order row. A work order with N
// locations is stored as N records sharing the header fields.
type WorkOrderRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Title     string    `json:"title"`
	Producer  string    `json:"producer"`
	Operator  string    `json:"operator"`
	Job       string    `json:"job"`
	Location  string    `json:"location"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// ShotRecord is one persisted report row.
type ShotRecord struct {
	ID        int64     `json:"id"`
	RunID     string    `json:"run_id"`
	Location  string    `json:"location"`
	Range     string    `json:"range"`
	Start     int       `json:"start"`
	End       int       `json:"end"`
	CreatedAt time.Time `json:"created_at"`
}

// FrameRange returns the stored range.
func (r ShotRecord) FrameRange() frames.Range {
	return frames.Range{Start: r.Start, End: r.End}
}

// WorkOrderRecords flattens a work order into one record per location.
func WorkOrderRecords(runID string, wo workorder.WorkOrder) []WorkOrderRecord {
	records := make([]WorkOrderRecord, 0, len(wo.Locations))
	for _, location := range wo.Locations {
		records = append(records, WorkOrderRecord{
			RunID:    runID,
			Title:    wo.Title,
			Producer: wo.Producer,
			Operator: wo.Operator,
			Job:      wo.Job,
			Location: location,
			Notes:    wo.Notes,
		})
	}
	return records
}

// ShotRecords converts report rows into persisted shot records.
func ShotRecords(runID string, rows []report.Row) []ShotRecord {
	records := make([]ShotRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, ShotRecord{
			RunID:    runID,
			Location: row.Location,
			Range:    row.Range.String(),
			Start:    row.Range.Start,
			End:      row.Range.End,
		})
	}
	return records
}
