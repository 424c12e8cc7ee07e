package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dario.cat/mergo"
	"github.com/joho/godotenv"
	"github.com/titanous/json5"
	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the configuration file does not exist
var ErrConfigNotFound = errors.New("config file not found")

// NotFoundError names the missing config file and the template to copy it from
type NotFoundError struct {
	Path         string
	TemplatePath string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("config file not found. Copy %s to %s and customize it", e.TemplatePath, e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return ErrConfigNotFound
}

// Config represents the application configuration
type Config struct {
	Monitoring MonitoringConfig `json:"monitoring" yaml:"monitoring"`
	Database   DatabaseConfig   `json:"database" yaml:"database"`
	Logging    LoggingConfig    `json:"logging" yaml:"logging"`
	Scraper    ScraperConfig    `json:"scraper" yaml:"scraper"`
	Server     ServerConfig     `json:"server" yaml:"server"`
}

// MonitoringConfig holds the watched routes and alerting settings
type MonitoringConfig struct {
	Routes               []Route             `json:"routes" yaml:"routes"`
	CheckIntervalMinutes *int                `json:"check_interval_minutes,omitempty" yaml:"check_interval_minutes,omitempty"`
	RoutePauseSeconds    *int                `json:"route_pause_seconds,omitempty" yaml:"route_pause_seconds,omitempty"`
	RepeatAlerts         *bool               `json:"repeat_alerts,omitempty" yaml:"repeat_alerts,omitempty"`
	Notifications        NotificationsConfig `json:"notifications" yaml:"notifications"`
}

// Route is one origin/destination/date combination to watch. Name is its identity.
type Route struct {
	Name                string   `json:"name" yaml:"name"`
	Origin              string   `json:"origin" yaml:"origin"`
	Destination         string   `json:"destination" yaml:"destination"`
	Date                string   `json:"date" yaml:"date"`
	AlertOnAvailability bool     `json:"alert_on_availability" yaml:"alert_on_availability"`
	AlertOnPriceDrop    bool     `json:"alert_on_price_drop" yaml:"alert_on_price_drop"`
	MaxPrice            *float64 `json:"max_price,omitempty" yaml:"max_price,omitempty"`
}

// NotificationsConfig represents the per-channel notification settings
type NotificationsConfig struct {
	Desktop  DesktopConfig  `json:"desktop" yaml:"desktop"`
	Email    EmailConfig    `json:"email" yaml:"email"`
	Telegram TelegramConfig `json:"telegram" yaml:"telegram"`
	Webhook  WebhookConfig  `json:"webhook" yaml:"webhook"`
}

// DesktopConfig represents desktop popup configuration
type DesktopConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	AppName string `json:"app_name,omitempty" yaml:"app_name,omitempty"`
}

// EmailConfig represents SMTP notification configuration
type EmailConfig struct {
	Enabled        bool   `json:"enabled" yaml:"enabled"`
	SMTPServer     string `json:"smtp_server" yaml:"smtp_server"`
	SMTPPort       int    `json:"smtp_port" yaml:"smtp_port"`
	SenderEmail    string `json:"sender_email" yaml:"sender_email"`
	SenderPassword string `json:"sender_password" yaml:"sender_password"`
	RecipientEmail string `json:"recipient_email" yaml:"recipient_email"`
}

// TelegramConfig represents Telegram bot configuration
type TelegramConfig struct {
	Enabled  bool   `json:"enabled" yaml:"enabled"`
	BotToken string `json:"bot_token" yaml:"bot_token"`
	ChatID   string `json:"chat_id" yaml:"chat_id"`
	APIURL   string `json:"api_url,omitempty" yaml:"api_url,omitempty"`
}

// WebhookConfig represents generic webhook configuration
type WebhookConfig struct {
	Enabled bool   `json:"enabled" yaml:"enabled"`
	URL     string `json:"url" yaml:"url"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Path string `json:"path" yaml:"path"`
}

// LoggingConfig represents log output configuration
type LoggingConfig struct {
	File string `json:"file" yaml:"file"`
}

// ScraperConfig controls the headless browser session and result extraction
type ScraperConfig struct {
	BaseURL                  string          `json:"base_url" yaml:"base_url"`
	UserAgent                string          `json:"user_agent" yaml:"user_agent"`
	Headful                  bool            `json:"headful" yaml:"headful"`
	NavigationTimeoutSeconds int             `json:"navigation_timeout_seconds" yaml:"navigation_timeout_seconds"`
	ResultsTimeoutSeconds    int             `json:"results_timeout_seconds" yaml:"results_timeout_seconds"`
	MaxResults               int             `json:"max_results" yaml:"max_results"`
	ScreenshotDir            string          `json:"screenshot_dir" yaml:"screenshot_dir"`
	Selectors                SelectorsConfig `json:"selectors" yaml:"selectors"`
}

// SelectorsConfig holds the CSS selectors used against the booking site
type SelectorsConfig struct {
	Origin        string `json:"origin" yaml:"origin"`
	Destination   string `json:"destination" yaml:"destination"`
	Date          string `json:"date" yaml:"date"`
	SearchButton  string `json:"search_button" yaml:"search_button"`
	SearchText    string `json:"search_text" yaml:"search_text"`
	ResultRow     string `json:"result_row" yaml:"result_row"`
	Price         string `json:"price" yaml:"price"`
	DepartureTime string `json:"departure_time" yaml:"departure_time"`
	ArrivalTime   string `json:"arrival_time" yaml:"arrival_time"`
	TrainNumber   string `json:"train_number" yaml:"train_number"`
}

// ServerConfig represents the history API server configuration
type ServerConfig struct {
	Host string `json:"host" yaml:"host"`
	Port string `json:"port" yaml:"port"`
}

// Defaults returns the values merged into every loaded configuration
func Defaults() Config {
	repeat := true
	interval, pause := 30, 5
	return Config{
		Monitoring: MonitoringConfig{
			CheckIntervalMinutes: &interval,
			RoutePauseSeconds:    &pause,
			RepeatAlerts:         &repeat,
			Notifications: NotificationsConfig{
				Desktop:  DesktopConfig{AppName: "Fare Watch"},
				Email:    EmailConfig{SMTPPort: 587},
				Telegram: TelegramConfig{APIURL: "https://api.telegram.org"},
			},
		},
		Database: DatabaseConfig{Path: "farewatch.db"},
		Logging:  LoggingConfig{File: "monitor.log"},
		Scraper: ScraperConfig{
			BaseURL:                  "https://www.amtrak.com",
			UserAgent:                "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36",
			NavigationTimeoutSeconds: 30,
			ResultsTimeoutSeconds:    30,
			MaxResults:               5,
			ScreenshotDir:            "screenshots",
			Selectors: SelectorsConfig{
				Origin:        `input[name="origin"], input[placeholder*="From"]`,
				Destination:   `input[name="destination"], input[placeholder*="To"]`,
				Date:          `input[type="date"], input[name="departDate"]`,
				SearchButton:  `button[type="submit"]`,
				SearchText:    "Find Trains",
				ResultRow:     `.train-result, .journey-result, [class*="train"]`,
				Price:         `[class*="price"], .fare-price`,
				DepartureTime: `[class*="time"], .departure-time`,
				ArrivalTime:   `[class*="arrival"], .arrival-time`,
				TrainNumber:   `[class*="train-number"]`,
			},
		},
		Server: ServerConfig{Host: "localhost", Port: "8080"},
	}
}

// LoadConfig loads configuration from a JSON, JSON5 or YAML file
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &NotFoundError{
				Path:         filename,
				TemplatePath: TemplatePath(filename),
			}
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json5.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Pointer fields set in the file are kept as-is, including an explicit 0 or false
	if err := mergo.Merge(&config, Defaults(), mergo.WithoutDereference); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	// .env is optional; its absence is not an error
	_ = godotenv.Load(filepath.Join(filepath.Dir(filename), ".env"))
	config.applyEnv()

	return &config, nil
}

// TemplatePath returns the example config expected next to filename
func TemplatePath(filename string) string {
	return filepath.Join(filepath.Dir(filename), "config.example.json")
}

func (c *Config) applyEnv() {
	n := &c.Monitoring.Notifications
	if v := os.Getenv("FAREWATCH_SMTP_PASSWORD"); v != "" {
		n.Email.SenderPassword = v
	}
	if v := os.Getenv("FAREWATCH_TELEGRAM_BOT_TOKEN"); v != "" {
		n.Telegram.BotToken = v
	}
	if v := os.Getenv("FAREWATCH_WEBHOOK_URL"); v != "" {
		n.Webhook.URL = v
	}
}

// CheckInterval returns the configured interval between sweeps. An explicit
// 0 is returned as-is and rejected by the monitor loop.
func (c *Config) CheckInterval() time.Duration {
	return time.Duration(intValue(c.Monitoring.CheckIntervalMinutes)) * time.Minute
}

// RoutePause returns the pause between two route checks within a sweep.
// 0 disables the pause.
func (c *Config) RoutePause() time.Duration {
	return time.Duration(intValue(c.Monitoring.RoutePauseSeconds)) * time.Second
}

func intValue(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}

// ShouldRepeatAlerts reports whether an unchanged alert fires again on every sweep
func (c *Config) ShouldRepeatAlerts() bool {
	return c.Monitoring.RepeatAlerts == nil || *c.Monitoring.RepeatAlerts
}

// SaveConfig writes cfg to filename, as YAML for .yaml/.yml and as indented
// JSON otherwise, so the result loads back through LoadConfig.
func SaveConfig(cfg *Config, filename string) error {
	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		data, err = json.MarshalIndent(cfg, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
