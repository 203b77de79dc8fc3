package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name inside a books directory.
const FileName = "finroll.yaml"

// Config represents the finroll.yaml configuration.
type Config struct {
	BaseDir      string       `yaml:"base_dir,omitempty"`
	Output       string       `yaml:"output"`
	Monthly      string       `yaml:"monthly"`
	Sheets       SheetsConfig `yaml:"sheets"`
	CarryForward bool         `yaml:"carry_forward"`
	RunLog       string       `yaml:"run_log,omitempty"` // relative to base_dir; empty disables
	Git          GitConfig    `yaml:"git"`
}

// SheetsConfig names the sheets read from each monthly workbook.
type SheetsConfig struct {
	PL []string `yaml:"pl"` // tried in order
	BS string   `yaml:"bs"`
	DB string   `yaml:"db"`
}

// GitConfig controls committing the combined workbook.
type GitConfig struct {
	AutoCommit  bool   `yaml:"auto_commit"`
	AuthorName  string `yaml:"author_name"`
	AuthorEmail string `yaml:"author_email"`
}

// Load reads a finroll.yaml file from disk. Fields absent from the file keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Output:  "combined.xlsx",
		Monthly: "monthly.xlsx",
		Sheets: SheetsConfig{
			PL: []string{"P&L", "P&L by Month"},
			BS: "BS by Month Condensed",
			DB: "DataBase Result",
		},
		CarryForward: true,
		Git: GitConfig{
			AuthorName:  "Finroll",
			AuthorEmail: "finroll@cleared.dev",
		},
	}
}

const maxSheetName = 31

// Validate checks that file and sheet names are usable.
func (c *Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, errors.New("output file name is empty"))
	}
	if strings.TrimSpace(c.Monthly) == "" {
		errs = append(errs, errors.New("monthly file name is empty"))
	}
	if len(c.Sheets.PL) == 0 {
		errs = append(errs, errors.New("no P&L sheet names configured"))
	}
	for _, name := range c.Sheets.PL {
		if err := checkSheetName("P&L", name); err != nil {
			errs = append(errs, err)
		}
	}
	if err := checkSheetName("BS", c.Sheets.BS); err != nil {
		errs = append(errs, err)
	}
	if err := checkSheetName("DataBase", c.Sheets.DB); err != nil {
		errs = append(errs, err)
	}
	if c.Git.AutoCommit && (c.Git.AuthorName == "" || c.Git.AuthorEmail == "") {
		errs = append(errs, errors.New("git auto_commit needs author_name and author_email"))
	}
	return errors.Join(errs...)
}

func checkSheetName(kind, name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%s sheet name is empty", kind)
	case len([]rune(name)) > maxSheetName:
		return fmt.Errorf("%s sheet name %q is longer than %d characters", kind, name, maxSheetName)
	case strings.ContainsAny(name, `:\/?*[]`):
		return fmt.Errorf("%s sheet name %q contains a character not allowed in sheet names", kind, name)
	}
	return nil
}
