package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"framefix/internal/frames"
	"framefix/internal/report"
	"framefix/internal/workorder"
)

const (
	workOrderColumns = "id, run_id, title, producer, operator, job, location, notes, created_at"
	shotColumns      = "id, run_id, location, frame_range, start_frame, end_frame, created_at"
)

// Reset removes every stored record.
func (s *Store) Reset(ctx context.Context) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, table := range []string{"shot_records", "work_orders"} {
			if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("reset records: %w", err)
	}
	return nil
}

// SaveWorkOrder stores one record per work-order location.
func (s *Store) SaveWorkOrder(ctx context.Context, runID string, wo workorder.WorkOrder) error {
	records := WorkOrderRecords(runID, wo)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO work_orders (
            run_id, title, producer, operator, job, location, notes, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, rec.RunID, rec.Title, rec.Producer, rec.Operator, rec.Job, rec.Location, rec.Notes, timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save work order: %w", err)
	}
	return nil
}

// SaveRows stores one shot record per report row, preserving row order.
func (s *Store) SaveRows(ctx context.Context, runID string, rows []report.Row) error {
	records := ShotRecords(runID, rows)
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		stmt, err := tx.PrepareContext(ctx, `INSERT INTO shot_records (
            run_id, location, frame_range, start_frame, end_frame, created_at
        ) VALUES (?, ?, ?, ?, ?, ?)`)
		if err != nil {
			return err
		}
		defer stmt.Close()
		for _, rec := range records {
			if _, err := stmt.ExecContext(ctx, rec.RunID, rec.Location, rec.Range, rec.Start, rec.End, timestamp); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save rows: %w", err)
	}
	return nil
}

// Rows returns every stored shot record in insertion order.
func (s *Store) Rows(ctx context.Context) ([]ShotRecord, error) {
	records, err := s.queryShots(ctx, `SELECT `+shotColumns+` FROM shot_records ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}
	return records, nil
}

// RowsWithinBound returns shot records whose every frame is <= maxFrame.
// Single-frame records are included.
func (s *Store) RowsWithinBound(ctx context.Context, maxFrame int) ([]ShotRecord, error) {
	records, err := s.queryShots(ctx, `SELECT `+shotColumns+` FROM shot_records WHERE end_frame <= ? ORDER BY id`, maxFrame)
	if err != nil {
		return nil, fmt.Errorf("query rows within %d: %w", maxFrame, err)
	}
	return records, nil
}

// WorkOrder returns the stored work-order records in insertion order.
func (s *Store) WorkOrder(ctx context.Context) ([]WorkOrderRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, `SELECT `+workOrderColumns+` FROM work_orders ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list work order: %w", err)
	}
	defer rows.Close()

	var records []WorkOrderRecord
	for rows.Next() {
		var (
			rec        WorkOrderRecord
			createdRaw string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Title, &rec.Producer, &rec.Operator, &rec.Job, &rec.Location, &rec.Notes, &createdRaw); err != nil {
			return nil, fmt.Errorf("scan work order: %w", err)
		}
		rec.CreatedAt = parseTimestamp(createdRaw)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate work order: %w", err)
	}
	return records, nil
}

// LatestRunID returns the run identifier of the stored records, or "" when
// the store is empty.
func (s *Store) LatestRunID(ctx context.Context) (string, error) {
	ctx = ensureContext(ctx)
	var runID sql.NullString
	err := s.db.QueryRowContext(ctx, `SELECT run_id FROM work_orders ORDER BY id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("latest run id: %w", err)
	}
	return runID.String, nil
}

func (s *Store) queryShots(ctx context.Context, query string, args ...any) ([]ShotRecord, error) {
	ctx = ensureContext(ctx)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ShotRecord
	for rows.Next() {
		var (
			rec        ShotRecord
			createdRaw string
		)
		if err := rows.Scan(&rec.ID, &rec.RunID, &rec.Location, &rec.Range, &rec.Start, &rec.End, &createdRaw); err != nil {
			return nil, err
		}
		if err := checkShotRange(rec); err != nil {
			return nil, err
		}
		rec.CreatedAt = parseTimestamp(createdRaw)
		records = append(records, rec)
	}
	return records, rows.Err()
}

// checkShotRange verifies that the stored range text and frame columns
// describe the same range.
func checkShotRange(rec ShotRecord) error {
	rng, err := frames.ParseRange(rec.Range)
	if err != nil {
		return fmt.Errorf("shot record %d: %w: %w", rec.ID, ErrCorruptRecord, err)
	}
	if rng != rec.FrameRange() {
		return fmt.Errorf("shot record %d: %w: range %q stored with frames %d-%d",
			rec.ID, ErrCorruptRecord, rec.Range, rec.Start, rec.End)
	}
	return nil
}

func parseTimestamp(value string) time.Time {
	ts, err := time.Parse(time.RFC3339Nano, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
