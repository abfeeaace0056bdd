package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	// DefaultConfigFile is looked up in the working directory when no --config is given.
	DefaultConfigFile = "sheettodo.yaml"

	// DefaultServiceAccountFile is read when no inline credentials are set.
	DefaultServiceAccountFile = "service_account.json"

	// DefaultHTTPAddr is the listen address of the web UI.
	DefaultHTTPAddr = ":8080"

	// DefaultMetricsAddr is the listen address of the dedicated metrics server.
	DefaultMetricsAddr = ":9090"

	// DefaultLINEPushEndpoint is the LINE Messaging API push endpoint.
	DefaultLINEPushEndpoint = "https://api.line.me/v2/bot/message/push"
)

// Config holds all process-wide settings. It is built once at startup and
// handed to components by pointer; nothing reads the environment after Load.
type Config struct {
	// Spreadsheet identifies the row store.
	Spreadsheet SpreadsheetConfig `yaml:"spreadsheet"`

	// Credentials holds the Google service account material.
	Credentials CredentialsConfig `yaml:"credentials"`

	// LINE holds the chat push settings used by the reminder.
	LINE LINEConfig `yaml:"line"`

	// Web holds the web UI settings.
	Web WebConfig `yaml:"web"`

	// Metrics holds the dedicated metrics server settings.
	Metrics MetricsConfig `yaml:"metrics"`

	// Debug enables debug logging.
	Debug bool `yaml:"debug"`
}

// SpreadsheetConfig identifies the spreadsheet and worksheet holding the tasks.
type SpreadsheetConfig struct {
	// ID is the spreadsheet key (the long identifier in the sheet URL).
	ID string `yaml:"id"`

	// Worksheet is the worksheet title. Empty selects the first worksheet.
	Worksheet string `yaml:"worksheet"`
}

// CredentialsConfig holds the service account credential sources.
// An inline JSON blob takes precedence over the file path.
type CredentialsConfig struct {
	File string `yaml:"file"`
	JSON string `yaml:"json"`
}

// LINEConfig holds the LINE Messaging API settings.
type LINEConfig struct {
	ChannelAccessToken string `yaml:"channel_access_token"`
	UserID             string `yaml:"user_id"`
	Endpoint           string `yaml:"endpoint"`
}

// WebConfig holds the web UI settings.
type WebConfig struct {
	Addr      string `yaml:"addr"`
	SecretKey string `yaml:"secret_key"`
}

// MetricsConfig holds configuration for the metrics server.
type MetricsConfig struct {
	// Enabled determines whether to start the metrics server.
	Enabled bool `yaml:"enabled"`

	// Addr is the address for the metrics server (e.g., ":9090").
	Addr string `yaml:"addr"`
}

// Default returns a Config populated with defaults only.
func Default() *Config {
	return &Config{
		Credentials: CredentialsConfig{
			File: DefaultServiceAccountFile,
		},
		LINE: LINEConfig{
			Endpoint: DefaultLINEPushEndpoint,
		},
		Web: WebConfig{
			Addr:      DefaultHTTPAddr,
			SecretKey: "replace-me",
		},
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// Load builds the configuration from, in increasing precedence: defaults, the
// YAML file at path (or DefaultConfigFile if path is empty and the file exists),
// a .env file in the working directory, and the process environment.
func Load(path string) (*Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}
	if err := loadFile(cfg, path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	// godotenv never overrides variables that are already set.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("loading .env: %w", err)
	}

	applyEnv(cfg)
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing yaml: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	cfg.Spreadsheet.ID = getEnvOrDefault("SPREADSHEET_ID", cfg.Spreadsheet.ID)
	cfg.Spreadsheet.Worksheet = getEnvOrDefault("WORKSHEET_NAME", cfg.Spreadsheet.Worksheet)

	cfg.Credentials.File = getEnvOrDefault("SERVICE_ACCOUNT_FILE", cfg.Credentials.File)
	cfg.Credentials.JSON = getEnvOrDefault("GOOGLE_SERVICE_ACCOUNT_JSON", cfg.Credentials.JSON)
	cfg.Credentials.JSON = getEnvOrDefault("SERVICE_ACCOUNT_JSON", cfg.Credentials.JSON)

	cfg.LINE.ChannelAccessToken = getEnvOrDefault("LINE_CHANNEL_ACCESS_TOKEN", cfg.LINE.ChannelAccessToken)
	cfg.LINE.UserID = getEnvOrDefault("LINE_USER_ID", cfg.LINE.UserID)
	cfg.LINE.Endpoint = getEnvOrDefault("LINE_PUSH_ENDPOINT", cfg.LINE.Endpoint)

	cfg.Web.Addr = getEnvOrDefault("HTTP_ADDR", cfg.Web.Addr)
	cfg.Web.SecretKey = getEnvOrDefault("SECRET_KEY", cfg.Web.SecretKey)

	cfg.Metrics.Enabled = getEnvBoolOrDefault("METRICS_ENABLED", cfg.Metrics.Enabled)
	cfg.Metrics.Addr = getEnvOrDefault("METRICS_ADDR", cfg.Metrics.Addr)

	cfg.Debug = getEnvBoolOrDefault("DEBUG", cfg.Debug)
}

// ValidateStore checks the settings needed to open the spreadsheet.
func (c *Config) ValidateStore() error {
	if c.Spreadsheet.ID == "" {
		return fmt.Errorf("spreadsheet id is required (set SPREADSHEET_ID)")
	}
	if c.Credentials.JSON == "" && c.Credentials.File == "" {
		return fmt.Errorf("service account credentials are required (set SERVICE_ACCOUNT_JSON or SERVICE_ACCOUNT_FILE)")
	}
	return nil
}

// ValidateNotifier checks the settings needed to push a LINE message.
func (c *Config) ValidateNotifier() error {
	if c.LINE.ChannelAccessToken == "" {
		return fmt.Errorf("LINE channel access token is required (set LINE_CHANNEL_ACCESS_TOKEN)")
	}
	if c.LINE.UserID == "" {
		return fmt.Errorf("LINE recipient is required (set LINE_USER_ID)")
	}
	return nil
}

// getEnvOrDefault returns the value of an environment variable or a default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBoolOrDefault returns the boolean value of an environment variable or a default value.
func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return defaultValue
		}
		return parsed
	}
	return defaultValue
}
