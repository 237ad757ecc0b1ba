package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"framefix/internal/logging"
	"framefix/internal/pipeline"
	"framefix/internal/report"
)

type previewRow struct {
	Location string `json:"location"`
	Frames   string `json:"frames"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
	Count    int    `json:"count"`
}

type previewPayload struct {
	Title     string       `json:"title"`
	Producer  string       `json:"producer"`
	Operator  string       `json:"operator"`
	Job       string       `json:"job"`
	Notes     string       `json:"notes"`
	MaxFrame  *int         `json:"max_frame,omitempty"`
	Rows      []previewRow `json:"rows"`
	Unmatched []string     `json:"unmatched"`
	Dropped   []string     `json:"dropped,omitempty"`
}

func newPreviewCommand(ctx *commandContext) *cobra.Command {
	var workOrder, shotLog string
	var maxFrame int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Show the report rows without writing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			runner := pipeline.New(cfg, logging.NewNop())
			req := pipeline.Request{WorkOrderPath: workOrder, ShotLogPath: shotLog}
			if cmd.Flags().Changed("max-frame") {
				if maxFrame < 0 {
					return fmt.Errorf("--max-frame must be non-negative, got %d", maxFrame)
				}
				req.MaxFrame, req.HasMaxFrame = maxFrame, true
			}
			plan, err := runner.Plan(cmd.Context(), req)
			if err != nil {
				return err
			}

			payload := buildPreviewPayload(plan)
			if jsonOut {
				return printJSON(cmd.OutOrStdout(), payload)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s\n", payload.Title)
			fmt.Fprintf(out, "Producer: %s\nOperator: %s\nJob: %s\nNotes: %s\n\n",
				payload.Producer, payload.Operator, payload.Job, payload.Notes)
			if len(payload.Rows) == 0 {
				fmt.Fprintln(out, "No rows")
			} else {
				rows := make([][]string, 0, len(payload.Rows))
				for _, row := range payload.Rows {
					rows = append(rows, []string{row.Location, row.Frames, strconv.Itoa(row.Count)})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Location", "Frames to Fix", "Count"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignRight},
				))
			}
			if len(payload.Dropped) > 0 {
				fmt.Fprintf(out, "Dropped past frame %d:\n", *payload.MaxFrame)
				for _, path := range payload.Dropped {
					fmt.Fprintf(out, "  - %s\n", path)
				}
			}
			printUnmatched(out, payload.Unmatched)
			return nil
		},
	}

	cmd.Flags().StringVarP(&workOrder, "work-order", "w", "", "Work order text file")
	cmd.Flags().StringVarP(&shotLog, "shot-log", "s", "", "Shot log export file")
	cmd.Flags().IntVar(&maxFrame, "max-frame", 0, "Drop entries with frames beyond this number")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")
	_ = cmd.MarkFlagRequired("work-order")
	_ = cmd.MarkFlagRequired("shot-log")

	return cmd
}

func buildPreviewPayload(plan pipeline.Plan) previewPayload {
	rep := plan.Report
	payload := previewPayload{
		Title:     rep.Header.Title,
		Producer:  rep.Header.Producer,
		Operator:  rep.Header.Operator,
		Job:       rep.Header.Job,
		Notes:     rep.Header.Notes,
		Rows:      previewRows(rep.Rows),
		Unmatched: rep.Unmatched,
		Dropped:   plan.Dropped,
	}
	if payload.Unmatched == nil {
		payload.Unmatched = []string{}
	}
	if plan.Bounded {
		bound := plan.MaxFrame
		payload.MaxFrame = &bound
	}
	return payload
}

func previewRows(rows []report.Row) []previewRow {
	out := make([]previewRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, previewRow{
			Location: row.Location,
			Frames:   row.Range.String(),
			Start:    row.Range.Start,
			End:      row.Range.End,
			Count:    row.Range.Len(),
		})
	}
	return out
}
