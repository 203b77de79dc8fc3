package commands

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/cleared-dev/finroll/internal/config"
)

// envPrefix namespaces environment overrides, e.g. FINROLL_BASE_DIR.
const envPrefix = "FINROLL"

// settings layers finroll.yaml, FINROLL_* variables and flags.
type settings struct {
	v       *viper.Viper
	cfgFile string
	logger  *slog.Logger
}

func newSettings() *settings {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return &settings{v: v, logger: slog.Default()}
}

// bind ties a flag to a config key so an explicitly set flag wins.
func (s *settings) bind(cmd *cobra.Command, key, flag string) {
	_ = s.v.BindPFlag(key, cmd.Flags().Lookup(flag))
}

// setup loads .env and configures logging. It runs before every command.
func (s *settings) setup(cmd *cobra.Command) error {
	_ = godotenv.Load()

	logger, err := newLogger(s.v.GetString("logging.level"), s.v.GetString("logging.format"), cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	s.logger = logger
	slog.SetDefault(logger)
	return nil
}

// resolve builds the effective config. The config file is --config, or
// finroll.yaml in the base directory when present.
func (s *settings) resolve() (*config.Config, error) {
	baseDir := s.v.GetString("base_dir")

	path := s.cfgFile
	if path == "" {
		dir := baseDir
		if dir == "" {
			dir = "."
		}
		candidate := filepath.Join(dir, config.FileName)
		if _, err := os.Stat(candidate); err == nil {
			path = candidate
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("checking config: %w", err)
		}
	}

	cfg := config.Default()
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
		if cfg.BaseDir == "" {
			cfg.BaseDir = filepath.Dir(path)
		} else if !filepath.IsAbs(cfg.BaseDir) {
			cfg.BaseDir = filepath.Join(filepath.Dir(path), cfg.BaseDir)
		}
		s.logger.Debug("loaded config", "path", path)
	}

	if baseDir != "" {
		cfg.BaseDir = baseDir
	}
	if cfg.BaseDir == "" {
		cfg.BaseDir = "."
	}
	if s.v.IsSet("output") {
		cfg.Output = s.v.GetString("output")
	}
	if s.v.IsSet("monthly") {
		cfg.Monthly = s.v.GetString("monthly")
	}
	if s.v.IsSet("sheets.pl") {
		cfg.Sheets.PL = stringList(s.v.Get("sheets.pl"))
	}
	if s.v.IsSet("sheets.bs") {
		cfg.Sheets.BS = s.v.GetString("sheets.bs")
	}
	if s.v.IsSet("sheets.db") {
		cfg.Sheets.DB = s.v.GetString("sheets.db")
	}
	if s.v.IsSet("carry_forward") {
		cfg.CarryForward = s.v.GetBool("carry_forward")
	}
	if s.v.IsSet("run_log") {
		cfg.RunLog = s.v.GetString("run_log")
	}
	if s.v.IsSet("git.auto_commit") {
		cfg.Git.AutoCommit = s.v.GetBool("git.auto_commit")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// stringList accepts a flag's []string or a comma-separated env value.
// Sheet names contain spaces, so values are never split on whitespace.
func stringList(v any) []string {
	var parts []string
	switch x := v.(type) {
	case []string:
		parts = x
	case string:
		parts = strings.Split(x, ",")
	default:
		return nil
	}
	var out []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func newLogger(level, format string, w io.Writer) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "", "info":
		lvl = slog.LevelInfo
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "", "console":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	}
	return nil, fmt.Errorf("invalid log format: %s", format)
}
