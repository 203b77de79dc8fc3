package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Sheets.PL = []string{"Profit and Loss", "P&L"}
	cfg.RunLog = "logs/finroll-log.csv"
	cfg.Git.AutoCommit = true

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "combined.xlsx", cfg.Output)
	assert.Equal(t, "monthly.xlsx", cfg.Monthly)
	assert.Equal(t, []string{"P&L", "P&L by Month"}, cfg.Sheets.PL)
	assert.Equal(t, "BS by Month Condensed", cfg.Sheets.BS)
	assert.Equal(t, "DataBase Result", cfg.Sheets.DB)
	assert.True(t, cfg.CarryForward)
	assert.False(t, cfg.Git.AutoCommit)
	assert.Empty(t, cfg.RunLog)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("output: books.xlsx\nsheets:\n  bs: Balance\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "books.xlsx", cfg.Output)
	assert.Equal(t, "Balance", cfg.Sheets.BS)
	assert.Equal(t, "monthly.xlsx", cfg.Monthly)
	assert.Equal(t, []string{"P&L", "P&L by Month"}, cfg.Sheets.PL)
	assert.Equal(t, "DataBase Result", cfg.Sheets.DB)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("sheets: [unclosed"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "output: combined.xlsx")
	assert.Contains(t, contents, "bs: BS by Month Condensed")
	assert.Contains(t, contents, "- P&L by Month")
	assert.Contains(t, contents, "carry_forward: true")
	assert.NotContains(t, contents, "run_log")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"empty output", func(c *Config) { c.Output = " " }, "output file name is empty"},
		{"empty monthly", func(c *Config) { c.Monthly = "" }, "monthly file name is empty"},
		{"no pl sheets", func(c *Config) { c.Sheets.PL = nil }, "no P&L sheet names"},
		{"long bs name", func(c *Config) { c.Sheets.BS = "Balance Sheet by Month Condensed!" }, "longer than 31"},
		{"bad db char", func(c *Config) { c.Sheets.DB = "DB/Result" }, "not allowed"},
		{"git author", func(c *Config) { c.Git.AutoCommit = true; c.Git.AuthorEmail = "" }, "author_email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
