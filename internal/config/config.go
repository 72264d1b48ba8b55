package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/garyjia/invoice-bundler/internal/models"
	"github.com/garyjia/invoice-bundler/internal/workbook"
	"github.com/garyjia/invoice-bundler/pkg/utils"
)

// Config holds all application configuration
type Config struct {
	Server    ServerConfig          `mapstructure:"server"`
	Company   models.CompanyProfile `mapstructure:"company"`
	Statement StatementConfig       `mapstructure:"statement"`
	Upload    UploadConfig          `mapstructure:"upload"`
	Output    OutputConfig          `mapstructure:"output"`
	Logger    LoggerConfig          `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// StatementConfig controls output naming
type StatementConfig struct {
	FilePrefix  string `mapstructure:"file_prefix"`
	Extension   string `mapstructure:"extension"`
	ArchiveName string `mapstructure:"archive_name"`
}

// UploadConfig limits accepted workbooks
type UploadConfig struct {
	MaxBytes          int64    `mapstructure:"max_bytes"`
	AllowedExtensions []string `mapstructure:"allowed_extensions"`
}

// OutputConfig holds where the CLI writes run folders
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables.
// An empty configPath uses defaults and environment only.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	bindEnvVars(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 60*time.Second)

	// Company defaults
	company := models.DefaultCompanyProfile()
	v.SetDefault("company.name", company.Name)
	v.SetDefault("company.address", company.Address)
	v.SetDefault("company.phone", company.Phone)
	v.SetDefault("company.email", company.Email)
	v.SetDefault("company.logo_path", company.LogoPath)

	// Statement defaults
	v.SetDefault("statement.file_prefix", "facture_globale")
	v.SetDefault("statement.extension", "pdf")
	v.SetDefault("statement.archive_name", "factures_globales.zip")

	// Upload defaults
	v.SetDefault("upload.max_bytes", 10<<20)
	v.SetDefault("upload.allowed_extensions", []string{".xlsx", ".xls"})

	// Output defaults
	v.SetDefault("output.dir", "output")

	// Logger defaults
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars(v *viper.Viper) {
	// Company identity
	v.BindEnv("company.name", "COMPANY_NAME")
	v.BindEnv("company.address", "COMPANY_ADDRESS")
	v.BindEnv("company.phone", "COMPANY_PHONE")
	v.BindEnv("company.email", "COMPANY_EMAIL")
	v.BindEnv("company.logo_path", "COMPANY_LOGO_PATH")

	v.BindEnv("server.port", "PORT")
	v.BindEnv("output.dir", "OUTPUT_DIR")
	v.BindEnv("logger.level", "LOG_LEVEL")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if c.Company.Name == "" {
		return fmt.Errorf("company.name is required")
	}
	if c.Company.Email != "" {
		if err := utils.ValidateEmail(c.Company.Email); err != nil {
			return fmt.Errorf("company.email: %w", err)
		}
	}

	if c.Statement.FilePrefix == "" {
		return fmt.Errorf("statement.file_prefix is required")
	}
	if !strings.HasSuffix(strings.ToLower(c.Statement.ArchiveName), ".zip") {
		return fmt.Errorf("statement.archive_name must end with .zip")
	}

	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("upload.max_bytes must be positive")
	}
	if len(c.Upload.AllowedExtensions) == 0 {
		return fmt.Errorf("upload.allowed_extensions must not be empty")
	}
	for _, ext := range c.Upload.AllowedExtensions {
		if !isSupported(ext) {
			return fmt.Errorf("upload.allowed_extensions: unsupported extension %q", ext)
		}
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}

	switch c.Logger.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logger.format must be json or console")
	}

	return nil
}

func isSupported(ext string) bool {
	for _, supported := range workbook.SupportedExtensions {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}
