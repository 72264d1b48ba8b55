package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "SRM-SM", cfg.Company.Name)
	assert.Equal(t, "Contact@srm-sm.ma", cfg.Company.Email)
	assert.Equal(t, "assets/logo.jpg", cfg.Company.LogoPath)
	assert.Equal(t, "facture_globale", cfg.Statement.FilePrefix)
	assert.Equal(t, "pdf", cfg.Statement.Extension)
	assert.Equal(t, "factures_globales.zip", cfg.Statement.ArchiveName)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{".xlsx", ".xls"}, cfg.Upload.AllowedExtensions)
	assert.Equal(t, "output", cfg.Output.Dir)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
  read_timeout: 5s
company:
  name: ACME
  address: |
    1 Main Street
    Casablanca
statement:
  file_prefix: releve
upload:
  max_bytes: 1024
output:
  dir: /tmp/statements
logger:
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "ACME", cfg.Company.Name)
	assert.Equal(t, "1 Main Street\nCasablanca\n", cfg.Company.Address)
	assert.Equal(t, "05 28 82 96 00", cfg.Company.Phone)
	assert.Equal(t, "releve", cfg.Statement.FilePrefix)
	assert.Equal(t, int64(1024), cfg.Upload.MaxBytes)
	assert.Equal(t, "/tmp/statements", cfg.Output.Dir)
	assert.Equal(t, "console", cfg.Logger.Format)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("COMPANY_NAME", "Env Company")
	t.Setenv("COMPANY_EMAIL", "billing@example.com")
	t.Setenv("OUTPUT_DIR", "env-out")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "Env Company", cfg.Company.Name)
	assert.Equal(t, "billing@example.com", cfg.Company.Email)
	assert.Equal(t, "env-out", cfg.Output.Dir)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{"valid", func(c *Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "server.port"},
		{"no company", func(c *Config) { c.Company.Name = "" }, "company.name"},
		{"no prefix", func(c *Config) { c.Statement.FilePrefix = "" }, "statement.file_prefix"},
		{"archive not zip", func(c *Config) { c.Statement.ArchiveName = "out.tar" }, "statement.archive_name"},
		{"no upload limit", func(c *Config) { c.Upload.MaxBytes = 0 }, "upload.max_bytes"},
		{"csv allowed", func(c *Config) { c.Upload.AllowedExtensions = []string{".csv"} }, "unsupported extension"},
		{"no output dir", func(c *Config) { c.Output.Dir = "" }, "output.dir"},
		{"bad log format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
