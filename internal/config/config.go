// Package config loads engine configuration from the environment, with an
// optional YAML file overlay.
package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	// HTTP server
	Port string

	// Database
	DBPath string

	// Identity
	UserID    string
	GuestMode bool

	// AMQP change feed
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Notification checks
	DailyCheckInterval  time.Duration
	PeriodCheckInterval time.Duration

	// Reports (standard five-field cron specs)
	ReportDailyCron   string
	ReportWeeklyCron  string
	ReportMonthlyCron string

	// Optional webhook forwarding of notifications
	WebhookURL string

	// Google Sheets export
	SheetsSpreadsheetID string
	SheetsName          string

	// Export worker
	ExportBatchSize int
	ExportInterval  time.Duration
}

// FileConfig mirrors the YAML overlay; zero values leave the env value in
// place.
type FileConfig struct {
	Port                string `yaml:"port"`
	DBPath              string `yaml:"db_path"`
	UserID              string `yaml:"user_id"`
	AMQPURL             string `yaml:"amqp_url"`
	AMQPExchange        string `yaml:"amqp_exchange"`
	AMQPQueue           string `yaml:"amqp_queue"`
	DailyCheckInterval  string `yaml:"daily_check_interval"`
	PeriodCheckInterval string `yaml:"period_check_interval"`
	ReportDailyCron     string `yaml:"report_daily_cron"`
	ReportWeeklyCron    string `yaml:"report_weekly_cron"`
	ReportMonthlyCron   string `yaml:"report_monthly_cron"`
	WebhookURL          string `yaml:"webhook_url"`
	SheetsSpreadsheetID string `yaml:"sheets_spreadsheet_id"`
	SheetsName          string `yaml:"sheets_name"`
	ExportBatchSize     int    `yaml:"export_batch_size"`
	ExportInterval      string `yaml:"export_interval"`
}

func Load() *Config {
	return &Config{
		Port:   getEnv("PORT", "8082"),
		DBPath: getEnv("SQLITE_DB_PATH", "./data/budgeteer.db"),

		UserID:    getEnv("USER_ID", ""),
		GuestMode: getEnvBool("GUEST_MODE", false),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "budgeteer"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "data_changes"),

		DailyCheckInterval:  getEnvDuration("DAILY_CHECK_INTERVAL", 24*time.Hour),
		PeriodCheckInterval: getEnvDuration("PERIOD_CHECK_INTERVAL", time.Hour),

		ReportDailyCron:   getEnv("REPORT_DAILY_CRON", "0 20 * * *"),
		ReportWeeklyCron:  getEnv("REPORT_WEEKLY_CRON", "0 20 * * 0"),
		ReportMonthlyCron: getEnv("REPORT_MONTHLY_CRON", "0 20 1 * *"),

		WebhookURL: getEnv("WEBHOOK_URL", ""),

		SheetsSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetsName:          getEnv("GOOGLE_SHEET_NAME", "Ledger"),

		ExportBatchSize: getEnvInt("EXPORT_BATCH_SIZE", 10),
		ExportInterval:  getEnvDuration("EXPORT_INTERVAL", 30*time.Second),
	}
}

// ApplyFile overlays values from a YAML file. A missing file is not an
// error; the env-derived config stands.
func (c *Config) ApplyFile(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	overlayString(&c.Port, fc.Port)
	overlayString(&c.DBPath, fc.DBPath)
	overlayString(&c.UserID, fc.UserID)
	overlayString(&c.AMQPURL, fc.AMQPURL)
	overlayString(&c.AMQPExchange, fc.AMQPExchange)
	overlayString(&c.AMQPQueue, fc.AMQPQueue)
	overlayString(&c.ReportDailyCron, fc.ReportDailyCron)
	overlayString(&c.ReportWeeklyCron, fc.ReportWeeklyCron)
	overlayString(&c.ReportMonthlyCron, fc.ReportMonthlyCron)
	overlayString(&c.WebhookURL, fc.WebhookURL)
	overlayString(&c.SheetsSpreadsheetID, fc.SheetsSpreadsheetID)
	overlayString(&c.SheetsName, fc.SheetsName)
	if fc.ExportBatchSize != 0 {
		c.ExportBatchSize = fc.ExportBatchSize
	}
	if err := overlayDuration(&c.DailyCheckInterval, fc.DailyCheckInterval); err != nil {
		return fmt.Errorf("daily_check_interval: %w", err)
	}
	if err := overlayDuration(&c.PeriodCheckInterval, fc.PeriodCheckInterval); err != nil {
		return fmt.Errorf("period_check_interval: %w", err)
	}
	if err := overlayDuration(&c.ExportInterval, fc.ExportInterval); err != nil {
		return fmt.Errorf("export_interval: %w", err)
	}
	return nil
}

// Validate checks the configuration and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.DBPath == "" {
		errs = append(errs, "database path cannot be empty")
	}

	if !c.GuestMode && c.UserID == "" {
		errs = append(errs, "USER_ID is required unless GUEST_MODE is enabled")
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.DailyCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid daily check interval %v: must be at least 1 second", c.DailyCheckInterval))
	}
	if c.PeriodCheckInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid period check interval %v: must be at least 1 second", c.PeriodCheckInterval))
	}

	if c.ExportBatchSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid export batch size %d: must be at least 1", c.ExportBatchSize))
	} else if c.ExportBatchSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid export batch size %d: must be at most 1000", c.ExportBatchSize))
	}
	if c.ExportInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid export interval %v: must be at least 1 second", c.ExportInterval))
	} else if c.ExportInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid export interval %v: must be at most 24 hours", c.ExportInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

func overlayString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func overlayDuration(dst *time.Duration, v string) error {
	if v == "" {
		return nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
