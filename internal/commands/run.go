package commands

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finroll/internal/config"
	"github.com/cleared-dev/finroll/internal/engine"
	"github.com/cleared-dev/finroll/internal/gitops"
	"github.com/cleared-dev/finroll/internal/model"
	"github.com/cleared-dev/finroll/internal/normalize"
	"github.com/cleared-dev/finroll/internal/runlog"
)

func newRunCommand(s *settings) *cobra.Command {
	var progress, dryRun bool

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Combine months not yet in the combined workbook",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.resolve()
			if err != nil {
				return err
			}
			return runCombine(cmd.OutOrStdout(), cmd.ErrOrStderr(), s.logger, cfg, progress, dryRun)
		},
	}

	f := cmd.Flags()
	f.String("output", "", "combined workbook file name, relative to the base dir")
	f.String("monthly", "", "monthly workbook file name inside each month folder")
	f.StringSlice("pl-sheets", nil, "P&L sheet names to try, in order")
	f.String("bs-sheet", "", "balance sheet name")
	f.String("db-sheet", "", "database result sheet name")
	f.Bool("carry-forward", true, "keep previously combined rows in the rewritten output")
	f.String("run-log", "", "CSV file, relative to the base dir, to append per-sheet outcomes to")
	f.Bool("commit", false, "commit the combined workbook when the base dir is a git repo")
	f.BoolVar(&progress, "progress", false, "show a progress bar")
	f.BoolVar(&dryRun, "dry-run", false, "process months without writing the output")

	s.bind(cmd, "output", "output")
	s.bind(cmd, "monthly", "monthly")
	s.bind(cmd, "sheets.pl", "pl-sheets")
	s.bind(cmd, "sheets.bs", "bs-sheet")
	s.bind(cmd, "sheets.db", "db-sheet")
	s.bind(cmd, "carry_forward", "carry-forward")
	s.bind(cmd, "run_log", "run-log")
	s.bind(cmd, "git.auto_commit", "commit")

	return cmd
}

func engineOptions(cfg *config.Config, logger *slog.Logger) engine.Options {
	names := normalize.SheetNames{PL: cfg.Sheets.PL, BS: cfg.Sheets.BS, DB: cfg.Sheets.DB}
	return engine.Options{
		BaseDir:      cfg.BaseDir,
		Output:       cfg.Output,
		Monthly:      cfg.Monthly,
		CarryForward: cfg.CarryForward,
		Registry:     normalize.DefaultRegistry(names, logger),
		Logger:       logger,
	}
}

func runCombine(out, errOut io.Writer, logger *slog.Logger, cfg *config.Config, progress, dryRun bool) error {
	runID := runlog.NewRunID()
	logger = logger.With("run_id", runID)

	opts := engineOptions(cfg, logger)
	opts.DryRun = dryRun
	e := engine.New(opts)
	logger.Info("combining monthly workbooks", "base_dir", cfg.BaseDir, "output", e.OutputPath())

	if progress {
		months, err := e.Discover()
		if err != nil {
			return err
		}
		bar := newProgressBar(errOut, len(months))
		opts.OnMonth = func(engine.Month) {
			if err := bar.Add(1); err != nil {
				logger.Warn("failed to update progress bar", "error", err)
			}
		}
		e = engine.New(opts)
	}

	sum, err := e.Run()
	if err != nil {
		return err
	}
	printSummary(out, sum)

	if cfg.RunLog != "" && !dryRun {
		path := filepath.Join(cfg.BaseDir, cfg.RunLog)
		if err := runlog.Append(path, logEntries(runID, time.Now().UTC(), sum)); err != nil {
			return fmt.Errorf("writing run log: %w", err)
		}
	}

	if cfg.Git.AutoCommit && sum.Written {
		commitOutput(out, logger, cfg, sum)
	}
	return nil
}

func newProgressBar(w io.Writer, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Combining months"),
		progressbar.OptionOnCompletion(func() {
			_, _ = fmt.Fprintln(w)
		}),
	)
}

func printSummary(w io.Writer, sum *engine.Summary) {
	fmt.Fprintf(w, "Discovered %d months: %d already combined, %d processed\n", sum.Discovered, sum.Skipped, sum.Processed)
	for _, o := range sum.Outcomes {
		switch o.Status {
		case engine.StatusLoaded:
			fmt.Fprintf(w, "  %s %-8s %s (%d rows from %q)\n", o.Source, o.Kind.Label(), o.Status, o.Rows, o.Sheet)
		default:
			fmt.Fprintf(w, "  %s %-8s %s: %v\n", o.Source, o.Kind.Label(), o.Status, o.Err)
		}
	}
	if !sum.Written {
		fmt.Fprintln(w, "No changes written")
		return
	}
	fmt.Fprintf(w, "Wrote %s (new rows: P&L %d, BS %d, DataBase %d)\n", sum.OutputPath,
		sum.NewRows[model.KindPL], sum.NewRows[model.KindBS], sum.NewRows[model.KindDB])
}

func logEntries(runID string, now time.Time, sum *engine.Summary) []runlog.Entry {
	entries := make([]runlog.Entry, 0, len(sum.Outcomes))
	for _, o := range sum.Outcomes {
		detail := "sheet " + o.Sheet
		if o.Err != nil {
			detail = o.Err.Error()
		}
		entries = append(entries, runlog.Entry{
			RunID:     runID,
			Timestamp: now,
			Source:    o.Source,
			File:      o.File,
			Kind:      string(o.Kind),
			Status:    string(o.Status),
			Rows:      o.Rows,
			Detail:    detail,
		})
	}
	return entries
}

// commitOutput records the combined workbook in git. Failures are reported
// but never undo a successful combine.
func commitOutput(out io.Writer, logger *slog.Logger, cfg *config.Config, sum *engine.Summary) {
	if !gitops.IsRepo(cfg.BaseDir) {
		logger.Warn("auto commit enabled but base dir is not a git repository", "base_dir", cfg.BaseDir)
		return
	}
	paths := []string{cfg.Output}
	if cfg.RunLog != "" {
		paths = append(paths, cfg.RunLog)
	}
	msg := fmt.Sprintf("combine: %d new months", sum.LoadedMonths())
	hash, err := gitops.CommitPaths(cfg.BaseDir, msg, cfg.Git.AuthorName, cfg.Git.AuthorEmail, paths...)
	if err != nil {
		logger.Error("committing combined workbook", "error", err)
		return
	}
	if hash != "" {
		fmt.Fprintf(out, "Committed %s\n", hash)
	}
}
