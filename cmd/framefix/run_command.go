package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"framefix/internal/config"
	"framefix/internal/pipeline"
	"framefix/internal/report"
)

type runOptions struct {
	workOrder string
	shotLog   string
	media     string
	output    string
	xlsx      bool
	strict    bool
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var opts runOptions

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Build the fix report from a work order and a shot log",
		Long: `Parse the work order and shot log, match shot paths to work-order locations,
and write the consolidated report as CSV. With --media, frames beyond the
reference video's frame count are dropped; add --xlsx to also produce the
spreadsheet with thumbnails and clips.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if output := strings.TrimSpace(opts.output); output != "" {
				expanded, err := config.ExpandPath(output)
				if err != nil {
					return fmt.Errorf("resolve output directory: %w", err)
				}
				cfg.Paths.OutputDir = expanded
				if err := cfg.EnsureDirectories(); err != nil {
					return err
				}
			}

			logger, err := ctx.logger()
			if err != nil {
				return err
			}

			var runnerOpts []pipeline.Option
			st, err := ctx.openStore()
			if err != nil {
				return err
			}
			if st != nil {
				defer st.Close()
				runnerOpts = append(runnerOpts, pipeline.WithStore(st))
			}

			runner := pipeline.New(cfg, logger, runnerOpts...)
			result, err := runner.Run(cmd.Context(), pipeline.Request{
				WorkOrderPath: opts.workOrder,
				ShotLogPath:   opts.shotLog,
				MediaPath:     opts.media,
				XLSX:          opts.xlsx,
				Strict:        opts.strict,
			})
			if err != nil {
				var unmatched *report.UnmatchedPathError
				if errors.As(err, &unmatched) {
					printUnmatched(cmd.ErrOrStderr(), unmatched.Paths)
				}
				return err
			}
			printRunSummary(cmd.OutOrStdout(), result)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.workOrder, "work-order", "w", "", "Work order text file")
	cmd.Flags().StringVarP(&opts.shotLog, "shot-log", "s", "", "Shot log export file")
	cmd.Flags().StringVarP(&opts.media, "media", "m", "", "Reference video used to bound frame numbers")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "Override paths.output_dir for this run")
	cmd.Flags().BoolVar(&opts.xlsx, "xlsx", false, "Also write the spreadsheet (requires --media)")
	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail when a shot path matches no work-order location")
	_ = cmd.MarkFlagRequired("work-order")
	_ = cmd.MarkFlagRequired("shot-log")

	return cmd
}

func printRunSummary(out io.Writer, result pipeline.Result) {
	rep := result.Plan.Report
	fmt.Fprintf(out, "Run %s\n", result.RunID)
	fmt.Fprintf(out, "Rows: %d (%d frames)\n", len(rep.Rows), rep.FrameCount())
	if result.Plan.Bounded {
		fmt.Fprintf(out, "Frame bound: %d\n", result.Plan.MaxFrame)
		if len(result.Plan.Dropped) > 0 {
			fmt.Fprintf(out, "Dropped past bound: %s\n", strings.Join(result.Plan.Dropped, ", "))
		}
	}
	fmt.Fprintf(out, "CSV: %s\n", result.CSVPath)
	if result.XLSXPath != "" {
		art := result.Artifacts
		fmt.Fprintf(out, "Workbook: %s (%s fps)\n", result.XLSXPath, strconv.FormatFloat(result.Plan.FPS, 'f', -1, 64))
		fmt.Fprintf(out, "Artifacts: %d thumbnails, %d clips, %d uploads, %d failures\n",
			art.Thumbnails, art.Clips, art.Uploads, art.Failures)
	}
	fmt.Fprintf(out, "Persisted: %s\n", yesNo(result.Persisted))
	printUnmatched(out, rep.Unmatched)
}

func printUnmatched(out io.Writer, paths []string) {
	if len(paths) == 0 {
		return
	}
	fmt.Fprintf(out, "Unmatched shot paths (%d):\n", len(paths))
	for _, path := range paths {
		fmt.Fprintf(out, "  - %s\n", path)
	}
}
