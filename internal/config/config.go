package config

import (
	"fmt"
	"strings"
	"time"
)

type Config struct {
	Wiki          WikiConfig          `yaml:"wiki"`
	HTTP          HttpConfig          `yaml:"http"`
	Backoff       BackoffConfig       `yaml:"backoff"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	Sets          SetsConfig          `yaml:"sets"`
	Observability ObservabilityConfig `yaml:"observability"`
}

type WikiConfig struct {
	// Шаблон URL страницы редактирования, {id} заменяется номером карты
	EditURLTemplate string `yaml:"edit_url_template"`
	LinkURLTemplate string `yaml:"link_url_template"`
	TextboxSelector string `yaml:"textbox_selector"`
}

type HttpConfig struct {
	UserAgent        string `yaml:"user_agent"`
	ConnectTimeoutMS int    `yaml:"connect_timeout_ms"`
	TotalTimeoutMS   int    `yaml:"total_timeout_ms"`
	MaxRetries       int    `yaml:"max_retries"`
}

type BackoffConfig struct {
	MinMS     int `yaml:"min_ms"`
	MaxMS     int `yaml:"max_ms"`
	JitterPct int `yaml:"jitter_pct"`
}

type RateLimitConfig struct {
	DelayMS int `yaml:"delay_ms"`
}

type SetsConfig struct {
	// Пустой путь = встроенная таблица сетов
	File string `yaml:"file"`
}

type ObservabilityConfig struct {
	LogDir     string `yaml:"log_dir"`
	LogLevel   string `yaml:"log_level"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
}

const IDPlaceholder = "{id}"

// Default возвращает конфигурацию, с которой утилита работает без файла
func Default() *Config {
	return &Config{
		Wiki: WikiConfig{
			EditURLTemplate: "https://digimoncardgame.fandom.com/wiki/Card_Rulings:{id}?action=edit",
			LinkURLTemplate: "https://digimoncardgame.fandom.com/wiki/Card_Rulings:{id}",
			TextboxSelector: "#wpTextbox1",
		},
		HTTP: HttpConfig{
			UserAgent:        "rulings-crawler/1.0 (+https://digimoncardgame.fandom.com)",
			ConnectTimeoutMS: 5000,
			TotalTimeoutMS:   20000,
			MaxRetries:       3,
		},
		Backoff: BackoffConfig{
			MinMS:     500,
			MaxMS:     8000,
			JitterPct: 20,
		},
		Observability: ObservabilityConfig{
			LogDir:     ".",
			LogLevel:   "debug",
			MaxSizeMB:  50,
			MaxBackups: 3,
		},
	}
}

// Validation
func (c *Config) Validate() error {
	if !strings.Contains(c.Wiki.EditURLTemplate, IDPlaceholder) {
		return fmt.Errorf("wiki.edit_url_template must contain %s", IDPlaceholder)
	}
	if !strings.Contains(c.Wiki.LinkURLTemplate, IDPlaceholder) {
		return fmt.Errorf("wiki.link_url_template must contain %s", IDPlaceholder)
	}
	if c.Wiki.TextboxSelector == "" {
		return fmt.Errorf("wiki.textbox_selector is required")
	}
	if c.HTTP.UserAgent == "" {
		return fmt.Errorf("http.user_agent is required")
	}
	if c.HTTP.ConnectTimeoutMS <= 0 {
		return fmt.Errorf("http.connect_timeout_ms must be > 0")
	}
	if c.HTTP.TotalTimeoutMS <= 0 {
		return fmt.Errorf("http.total_timeout_ms must be > 0")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must be >= 0")
	}
	if c.Backoff.MinMS <= 0 {
		return fmt.Errorf("backoff.min_ms must be > 0")
	}
	if c.Backoff.MaxMS <= 0 {
		return fmt.Errorf("backoff.max_ms must be > 0")
	}
	if c.Backoff.MinMS > c.Backoff.MaxMS {
		return fmt.Errorf("backoff.min_ms must be <= backoff.max_ms")
	}
	if c.Backoff.JitterPct < 0 || c.Backoff.JitterPct > 100 {
		return fmt.Errorf("backoff.jitter_pct must be between 0 and 100")
	}
	if c.RateLimit.DelayMS < 0 {
		return fmt.Errorf("rate_limit.delay_ms must be >= 0")
	}
	switch c.Observability.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("observability.log_level must be one of debug, info, warn, error")
	}
	if c.Observability.MaxSizeMB < 0 {
		return fmt.Errorf("observability.max_size_mb must be >= 0")
	}
	if c.Observability.MaxBackups < 0 {
		return fmt.Errorf("observability.max_backups must be >= 0")
	}
	return nil
}

// Getters
func (c *Config) GetConnectTimeout() time.Duration {
	return time.Duration(c.HTTP.ConnectTimeoutMS) * time.Millisecond
}

func (c *Config) GetTotalTimeout() time.Duration {
	return time.Duration(c.HTTP.TotalTimeoutMS) * time.Millisecond
}

func (c *Config) GetBackoffMin() time.Duration {
	return time.Duration(c.Backoff.MinMS) * time.Millisecond
}

func (c *Config) GetBackoffMax() time.Duration {
	return time.Duration(c.Backoff.MaxMS) * time.Millisecond
}

func (c *Config) GetDelay() time.Duration {
	return time.Duration(c.RateLimit.DelayMS) * time.Millisecond
}

// EditURL подставляет номер карты в шаблон страницы редактирования
func (c *Config) EditURL(cardID string) string {
	return strings.ReplaceAll(c.Wiki.EditURLTemplate, IDPlaceholder, cardID)
}

// LinkURL подставляет номер карты в шаблон обычной страницы
func (c *Config) LinkURL(cardID string) string {
	return strings.ReplaceAll(c.Wiki.LinkURLTemplate, IDPlaceholder, cardID)
}
