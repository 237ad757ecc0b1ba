package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"framefix/internal/media/ffprobe"
	"framefix/internal/store"
)

type recordsPayload struct {
	RunID    string                 `json:"run_id"`
	MaxFrame *int                   `json:"max_frame,omitempty"`
	Rows     []store.ShotRecord     `json:"rows"`
	Header   *store.WorkOrderRecord `json:"work_order,omitempty"`
}

func newRecordsCommand(ctx *commandContext) *cobra.Command {
	var maxFrame int
	var media string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "records",
		Short: "List persisted report rows",
		Long: `List the rows persisted by the last run.

With --max-frame or --media, each stored row is bounded on its own: a row is
shown when its end frame is at or below the bound. A run bounds whole shot-log
entries instead, dropping an entry when any of its frames exceeds the bound,
so rows of a partly out-of-bound entry can appear here that the run dropped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("max-frame") && strings.TrimSpace(media) != "" {
				return errors.New("--max-frame and --media are mutually exclusive")
			}
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			if st == nil {
				return errors.New("record store is disabled (set store.enabled = true)")
			}
			defer st.Close()

			var payload recordsPayload
			bounded := false
			switch {
			case cmd.Flags().Changed("max-frame"):
				if maxFrame < 0 {
					return fmt.Errorf("--max-frame must be non-negative, got %d", maxFrame)
				}
				bounded = true
			case strings.TrimSpace(media) != "":
				counter := ffprobe.Counter{Binary: cfg.Media.FFprobeBinary, Timeout: cfg.ProbeTimeout()}
				maxFrame, err = counter.MaxFrame(cmd.Context(), media)
				if err != nil {
					return fmt.Errorf("count frames: %w", err)
				}
				bounded = true
			}

			if bounded {
				bound := maxFrame
				payload.MaxFrame = &bound
				payload.Rows, err = st.RowsWithinBound(cmd.Context(), maxFrame)
			} else {
				payload.Rows, err = st.Rows(cmd.Context())
			}
			if err != nil {
				return err
			}
			if payload.Rows == nil {
				payload.Rows = []store.ShotRecord{}
			}
			if payload.RunID, err = st.LatestRunID(cmd.Context()); err != nil {
				return err
			}
			header, err := st.WorkOrder(cmd.Context())
			if err != nil {
				return err
			}
			if len(header) > 0 {
				payload.Header = &header[0]
			}

			if jsonOut {
				return printJSON(cmd.OutOrStdout(), payload)
			}

			out := cmd.OutOrStdout()
			if payload.RunID == "" {
				fmt.Fprintln(out, "No records stored")
				return nil
			}
			fmt.Fprintf(out, "Run %s", payload.RunID)
			if payload.Header != nil {
				fmt.Fprintf(out, " – %s", payload.Header.Title)
			}
			fmt.Fprintln(out)
			if payload.MaxFrame != nil {
				fmt.Fprintf(out, "Frame bound: %d\n", *payload.MaxFrame)
			}
			if len(payload.Rows) == 0 {
				fmt.Fprintln(out, "No rows")
				return nil
			}
			rows := make([][]string, 0, len(payload.Rows))
			for _, rec := range payload.Rows {
				rows = append(rows, []string{
					strconv.FormatInt(rec.ID, 10),
					rec.Location,
					rec.Range,
					strconv.Itoa(rec.FrameRange().Len()),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Location", "Frames to Fix", "Count"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&maxFrame, "max-frame", 0, "Only show rows with every frame <= this number")
	cmd.Flags().StringVarP(&media, "media", "m", "", "Bound rows by the frame count of this video")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Output as JSON")

	return cmd
}
