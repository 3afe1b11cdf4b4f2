// Package config provides application configuration loaded from environment
// variables with defaults and validation. It centralizes the bot token and
// spreadsheet identity, catalog cache tuning, journal and server settings,
// notification scheduling, and observability options.
package config

import (
	"encoding/json"
	"errors"
	"os"
	"strconv"
	"strings"
	"time"
)

// SheetsConfig names the worksheets and ranges of the backing spreadsheet.
// The defaults match the production workbook layout.
type SheetsConfig struct {
	SettingsSheet string // key/value settings, admin allowlist, notify window
	SettingsRange string
	GoalsSheet    string // per-chat goal values, "*" row is the shared default
	GoalsRange    string
	CatalogSheet  string // models, questions and question details live here
	ModelsRange   string
	QuestionRange string
	DetailRange   string
	ReportSheet   string // appended report records
	ReportRange   string
	ResultsSheet  string // precomputed aggregates
	ResultsRange  string
}

// OTELConfig defines OpenTelemetry observability settings.
type OTELConfig struct {
	Enabled     bool    // OTEL_ENABLED
	Endpoint    string  // OTEL_EXPORTER_OTLP_ENDPOINT (e.g. "otel:4317")
	Insecure    bool    // OTEL_EXPORTER_OTLP_INSECURE (true if no TLS)
	ServiceName string  // OTEL_SERVICE_NAME
	SampleRatio float64 // OTEL_TRACES_SAMPLER_ARG in [0..1]
}

// Config holds all configuration values for the application.
type Config struct {
	// Credentials / identity
	BotToken        string // BOT_TOKEN; falls back to the key file
	SpreadsheetID   string // SPREADSHEET_ID; falls back to the key file
	CredentialsFile string // path to the service-account JSON key

	// Catalog cache
	CatalogTTL time.Duration // per-table staleness window

	// Journal (local SQLite mirror)
	JournalPath string // DB_PATH

	// Reports
	MessageLimit int // max characters per outbound report message
	RecentCount  int // entries shown by the /last command

	// Notifier
	NotifyPeriod     time.Duration // cadence of the reminder loop
	NotifyRetryDelay time.Duration // back-off after a failed pass

	// Outbound rate limiting (per chat)
	SendRPS   float64 // messages per second (>= 0)
	SendBurst int     // bucket size (>= 1)

	// Ops HTTP server
	Port              string
	ReadTimeout       time.Duration
	ReadHeaderTimeout time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	GinMode           string // debug|release|test

	// Logging
	LogLevel  string // debug|info|warn|error|fatal|panic
	LogPretty bool   // pretty console logs in dev

	Sheets SheetsConfig
	OTEL   OTELConfig
}

// MustLoad loads the configuration and panics if validation fails.
func MustLoad() Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}

// Load reads configuration from environment variables, applies defaults,
// normalizes values, and validates the result.
func Load() (Config, error) {
	cfg := Config{
		BotToken:        getenv("BOT_TOKEN", ""),
		SpreadsheetID:   getenv("SPREADSHEET_ID", ""),
		CredentialsFile: getenv("GOOGLE_CREDENTIALS_FILE", "KEY/service-account.json"),

		CatalogTTL: getdur("CATALOG_TTL", 300*time.Second),

		JournalPath: getenv("DB_PATH", "journal.db"),

		MessageLimit: getint("MESSAGE_LIMIT", 3000),
		RecentCount:  getint("RECENT_COUNT", 3),

		NotifyPeriod:     getdur("NOTIFY_PERIOD", 10*time.Minute),
		NotifyRetryDelay: getdur("NOTIFY_RETRY_DELAY", time.Minute),

		SendRPS:   getfloat("SEND_RPS", 1.0),
		SendBurst: getint("SEND_BURST", 3),

		Port:              getenv("PORT", "8080"),
		ReadTimeout:       getdur("READ_TIMEOUT", 15*time.Second),
		ReadHeaderTimeout: getdur("READ_HEADER_TIMEOUT", 10*time.Second),
		WriteTimeout:      getdur("WRITE_TIMEOUT", 20*time.Second),
		IdleTimeout:       getdur("IDLE_TIMEOUT", 60*time.Second),
		GinMode:           strings.ToLower(getenv("GIN_MODE", "release")),

		LogLevel:  strings.ToLower(getenv("LOG_LEVEL", "info")),
		LogPretty: getbool("LOG_PRETTY", false),

		Sheets: SheetsConfig{
			SettingsSheet: getenv("SHEET_SETTINGS", "Настройки"),
			SettingsRange: getenv("RANGE_SETTINGS", "A2:H"),
			GoalsSheet:    getenv("SHEET_GOALS", "Целевые показатели"),
			GoalsRange:    getenv("RANGE_GOALS", "A2:B"),
			CatalogSheet:  getenv("SHEET_CATALOG", "Операции"),
			ModelsRange:   getenv("RANGE_MODELS", "J2:J"),
			QuestionRange: getenv("RANGE_QUESTIONS", "J2:K"),
			DetailRange:   getenv("RANGE_DETAILS", "U2:AB"),
			ReportSheet:   getenv("SHEET_REPORT", "Отчет"),
			ReportRange:   getenv("RANGE_REPORT", "A2:H"),
			ResultsSheet:  getenv("SHEET_RESULTS", "Результативность"),
			ResultsRange:  getenv("RANGE_RESULTS", "J2:O"),
		},

		OTEL: OTELConfig{
			Enabled:     getbool("OTEL_ENABLED", false),
			Endpoint:    getenv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
			Insecure:    getbool("OTEL_EXPORTER_OTLP_INSECURE", true),
			ServiceName: getenv("OTEL_SERVICE_NAME", "go-report-bot"),
			SampleRatio: getfloat("OTEL_TRACES_SAMPLER_ARG", 1.0),
		},
	}

	// --- normalization ---
	if cfg.LogLevel == "warning" {
		cfg.LogLevel = "warn"
	}
	switch cfg.GinMode {
	case "debug", "release", "test":
	default:
		cfg.GinMode = "release"
	}

	// --- validation ---
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error", "fatal", "panic":
	default:
		return cfg, errors.New("LOG_LEVEL must be one of: debug, info, warn, error, fatal, panic")
	}
	if strings.TrimSpace(cfg.Port) == "" {
		return cfg, errors.New("PORT must not be empty")
	}
	if cfg.ReadTimeout <= 0 || cfg.ReadHeaderTimeout <= 0 || cfg.WriteTimeout <= 0 || cfg.IdleTimeout <= 0 {
		return cfg, errors.New("timeouts must be positive durations")
	}
	if strings.TrimSpace(cfg.CredentialsFile) == "" {
		return cfg, errors.New("GOOGLE_CREDENTIALS_FILE must not be empty")
	}
	if strings.TrimSpace(cfg.JournalPath) == "" {
		return cfg, errors.New("DB_PATH must not be empty")
	}
	if cfg.CatalogTTL <= 0 {
		return cfg, errors.New("CATALOG_TTL must be > 0")
	}
	if cfg.MessageLimit < 100 {
		return cfg, errors.New("MESSAGE_LIMIT must be >= 100")
	}
	if cfg.RecentCount < 1 {
		return cfg, errors.New("RECENT_COUNT must be >= 1")
	}
	if cfg.NotifyPeriod <= 0 || cfg.NotifyRetryDelay <= 0 {
		return cfg, errors.New("notifier durations must be > 0")
	}
	if cfg.SendRPS < 0 {
		return cfg, errors.New("SEND_RPS must be >= 0")
	}
	if cfg.SendBurst < 1 {
		return cfg, errors.New("SEND_BURST must be >= 1")
	}
	if cfg.OTEL.SampleRatio < 0 || cfg.OTEL.SampleRatio > 1 {
		return cfg, errors.New("OTEL_TRACES_SAMPLER_ARG must be in [0,1]")
	}

	return cfg, nil
}

// FillFromKeyFile backfills BotToken and SpreadsheetID from extra fields of
// the service-account key file when the environment did not provide them.
// The production workbook keeps both alongside the credentials.
func (c *Config) FillFromKeyFile() error {
	if c.BotToken != "" && c.SpreadsheetID != "" {
		return nil
	}
	raw, err := os.ReadFile(c.CredentialsFile)
	if err != nil {
		return err
	}
	var extra struct {
		SpreadsheetID string `json:"spreadsheet_id"`
		BotToken      string `json:"botTOKEN"`
	}
	if err := json.Unmarshal(raw, &extra); err != nil {
		return err
	}
	if c.BotToken == "" {
		c.BotToken = extra.BotToken
	}
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = extra.SpreadsheetID
	}
	if c.BotToken == "" {
		return errors.New("BOT_TOKEN not set and missing from key file")
	}
	if c.SpreadsheetID == "" {
		return errors.New("SPREADSHEET_ID not set and missing from key file")
	}
	return nil
}

// ---- helpers (no external deps) ----

func getenv(k, def string) string {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		return v
	}
	return def
}

func getfloat(k string, def float64) float64 {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return def
}

func getint(k string, def int) int {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func getbool(k string, def bool) bool {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		switch strings.ToLower(strings.TrimSpace(v)) {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return def
}

func getdur(k string, def time.Duration) time.Duration {
	if v, ok := os.LookupEnv(k); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
