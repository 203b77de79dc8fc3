package commands

import (
	"github.com/spf13/cobra"

	"github.com/cleared-dev/finroll/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	s := newSettings()

	rootCmd := &cobra.Command{
		Use:     "finroll",
		Short:   "Combine monthly financial workbooks into one rolling workbook",
		Version: buildinfo.String(),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return s.setup(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&s.cfgFile, "config", "", "config file (default: <base-dir>/finroll.yaml)")
	flags.String("base-dir", "", "books directory holding <year>/<month>.<year> folders (default: .)")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console, json)")
	_ = s.v.BindPFlag("base_dir", flags.Lookup("base-dir"))
	_ = s.v.BindPFlag("logging.level", flags.Lookup("log-level"))
	_ = s.v.BindPFlag("logging.format", flags.Lookup("log-format"))

	rootCmd.AddCommand(newRunCommand(s))
	rootCmd.AddCommand(newSourcesCommand(s))
	rootCmd.AddCommand(newInitConfigCommand())

	return rootCmd
}
