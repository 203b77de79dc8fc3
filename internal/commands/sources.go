package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cleared-dev/finroll/internal/config"
	"github.com/cleared-dev/finroll/internal/engine"
)

func newSourcesCommand(s *settings) *cobra.Command {
	return &cobra.Command{
		Use:   "sources",
		Short: "List month folders and whether they are already combined",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := s.resolve()
			if err != nil {
				return err
			}
			return listSources(cmd.OutOrStdout(), engine.New(engineOptions(cfg, s.logger)), cfg)
		},
	}
}

func listSources(out io.Writer, e *engine.Engine, cfg *config.Config) error {
	months, err := e.Discover()
	if err != nil {
		return err
	}
	if len(months) == 0 {
		fmt.Fprintf(out, "No month folders under %s\n", cfg.BaseDir)
		return nil
	}

	existing := e.LoadExisting()
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "SOURCE\tSTATUS\tFILE")
	for _, m := range months {
		status := "new"
		if existing.Has(m.Key.String()) {
			status = "combined"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.Key, status, m.File)
	}
	return w.Flush()
}
