package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"salon-booking-backend/internal/schedule"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Calendar   CalendarConfig   `yaml:"calendar"`
	Store      StoreConfig      `yaml:"store"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Sweeper    SweeperConfig    `yaml:"sweeper"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int      `yaml:"port"`
	Env             string   `yaml:"env"`
	RateLimitPerSec float64  `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int      `yaml:"rate_limit_burst"`
	CacheTTLSeconds int      `yaml:"cache_ttl_seconds"`
	CORSOrigins     []string `yaml:"cors_origins"`
}

// CalendarConfig holds the salon's working hours in whole hours of the day.
type CalendarConfig struct {
	WorkStart              int    `yaml:"work_start"`
	WorkEnd                int    `yaml:"work_end"`
	BreakStart             int    `yaml:"break_start"`
	BreakEnd               int    `yaml:"break_end"`
	SlotGranularityMinutes int    `yaml:"slot_granularity_minutes"`
	Timezone               string `yaml:"timezone"`
}

// StoreConfig selects and configures the booking persistence backend.
type StoreConfig struct {
	Driver                    string `yaml:"driver"` // postgres, sqlite, redis or memory
	DSN                       string `yaml:"dsn"`
	RedisAddr                 string `yaml:"redis_addr"`
	RedisKey                  string `yaml:"redis_key"`
	MaxOpenConns              int    `yaml:"max_open_conns"`
	MaxIdleConns              int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes    int    `yaml:"conn_max_lifetime_minutes"`
	EnableExclusionConstraint bool   `yaml:"enable_exclusion_constraint"`
}

// TelegramConfig holds the bot credentials for new-booking messages.
// An empty token or chat id disables the sender.
type TelegramConfig struct {
	BotToken       string        `yaml:"bot_token"`
	ChatID         string        `yaml:"chat_id"`
	APIBaseURL     string        `yaml:"api_base_url"`
	TimeoutSeconds int           `yaml:"timeout_seconds"`
	Timeout        time.Duration `yaml:"-"`
}

// Enabled reports whether both credentials are present.
func (t TelegramConfig) Enabled() bool {
	return t.BotToken != "" && t.ChatID != ""
}

// PushConfig holds the VAPID keys and the owner's browser subscription for web push notifications.
type PushConfig struct {
	PublicKey    string           `yaml:"vapid_public_key"`
	PrivateKey   string           `yaml:"vapid_private_key"`
	Subject      string           `yaml:"subject"`
	TTL          int              `yaml:"ttl"`
	Subscription PushSubscription `yaml:"subscription"`
}

// PushSubscription is a browser push endpoint with its keys.
type PushSubscription struct {
	Endpoint string `yaml:"endpoint"`
	P256DH   string `yaml:"p256dh"`
	Auth     string `yaml:"auth"`
}

// Enabled reports whether push delivery is fully configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != "" && p.Subscription.Endpoint != ""
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size      int `yaml:"size"`
	QueueSize int `yaml:"queue_size"`
}

// SweeperConfig controls the background completion of past bookings.
type SweeperConfig struct {
	Enabled         bool          `yaml:"enabled"`
	IntervalSeconds int           `yaml:"interval_seconds"`
	Interval        time.Duration `yaml:"-"` // Ignored by YAML parser
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if _, err := cfg.BuildCalendar(); err != nil {
		return nil, err
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyEnv lets secrets live outside the YAML file.
func (c *Config) applyEnv() {
	overrides := []struct {
		env    string
		target *string
	}{
		{"TELEGRAM_BOT_TOKEN", &c.Telegram.BotToken},
		{"TELEGRAM_CHAT_ID", &c.Telegram.ChatID},
		{"DATABASE_DSN", &c.Store.DSN},
		{"REDIS_ADDR", &c.Store.RedisAddr},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.Env == "" {
		c.Server.Env = "development"
	}
	if c.Server.RateLimitPerSec <= 0 {
		c.Server.RateLimitPerSec = 10
	}
	if c.Server.RateLimitBurst <= 0 {
		c.Server.RateLimitBurst = 5
	}
	if c.Server.CacheTTLSeconds <= 0 {
		c.Server.CacheTTLSeconds = 60
	}

	// Hours are only defaulted as a whole block, so a deliberate 0 opening hour survives.
	if c.Calendar.WorkStart == 0 && c.Calendar.WorkEnd == 0 {
		def := schedule.DefaultCalendar()
		c.Calendar.WorkStart = def.WorkStart()
		c.Calendar.WorkEnd = def.WorkEnd()
		c.Calendar.BreakStart = def.BreakStart()
		c.Calendar.BreakEnd = def.BreakEnd()
	}
	if c.Calendar.SlotGranularityMinutes <= 0 {
		c.Calendar.SlotGranularityMinutes = schedule.DefaultCalendar().Granularity()
	}
	if c.Calendar.Timezone == "" {
		c.Calendar.Timezone = "Local"
	}

	if c.Store.Driver == "" {
		c.Store.Driver = "sqlite"
	}
	if c.Store.Driver == "sqlite" && c.Store.DSN == "" {
		c.Store.DSN = "salon.db"
	}

	if c.Telegram.APIBaseURL == "" {
		c.Telegram.APIBaseURL = "https://api.telegram.org"
	}
	if c.Telegram.TimeoutSeconds <= 0 {
		c.Telegram.TimeoutSeconds = 10
	}
	c.Telegram.Timeout = time.Duration(c.Telegram.TimeoutSeconds) * time.Second

	if c.Push.TTL <= 0 {
		c.Push.TTL = 3600
	}

	if c.WorkerPool.Size <= 0 {
		log.Printf("worker_pool.size is not set or invalid; defaulting to 1")
		c.WorkerPool.Size = 1
	}
	if c.WorkerPool.QueueSize <= 0 {
		c.WorkerPool.QueueSize = 64
	}

	if c.Sweeper.IntervalSeconds <= 0 {
		c.Sweeper.IntervalSeconds = 300
	}
	c.Sweeper.Interval = time.Duration(c.Sweeper.IntervalSeconds) * time.Second
}

// BuildCalendar validates the calendar section and returns it as a schedule.Calendar.
func (c *Config) BuildCalendar() (schedule.Calendar, error) {
	cal, err := schedule.NewCalendar(
		c.Calendar.WorkStart,
		c.Calendar.WorkEnd,
		c.Calendar.BreakStart,
		c.Calendar.BreakEnd,
		c.Calendar.SlotGranularityMinutes,
	)
	if err != nil {
		return schedule.Calendar{}, fmt.Errorf("invalid calendar config: %w", err)
	}
	return cal, nil
}

// Location resolves calendar.timezone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Calendar.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid calendar timezone %q: %w", c.Calendar.Timezone, err)
	}
	return loc, nil
}

// IsProduction reports whether server.env selects production logging.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}
