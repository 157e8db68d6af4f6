package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	GRPC      GRPCConfig      `yaml:"grpc"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Kafka     KafkaConfig     `yaml:"kafka"`
	Booking   BookingConfig   `yaml:"booking"`
	Pricing   PricingConfig   `yaml:"pricing"`
	Simulator SimulatorConfig `yaml:"simulator"`
	Worker    WorkerConfig    `yaml:"worker"`
	Log       LogConfig       `yaml:"log"`
	Storage   StorageConfig   `yaml:"storage"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
	// QuoteRatePerSecond and QuoteBurst limit quote requests per client IP.
	QuoteRatePerSecond float64 `yaml:"quote_rate_per_second"`
	QuoteBurst         int     `yaml:"quote_burst"`
}

type GRPCConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	// URL takes precedence over the discrete fields when set.
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int32  `yaml:"max_conns"`
	Migrate  bool   `yaml:"migrate"`
}

func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers"`
	BookingEventsTopic string   `yaml:"booking_events_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	PriceEventsTopic   string   `yaml:"price_events_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	HoldTTLSeconds         int    `yaml:"hold_ttl_seconds"`
	ConfirmRetries         int    `yaml:"confirm_retries"`
	ConfirmRetryDelayMs    int    `yaml:"confirm_retry_delay_ms"`
	ReferenceLength        int    `yaml:"reference_length"`
	ReferenceAttempts      int    `yaml:"reference_attempts"`
	ReferencePrefix        string `yaml:"reference_prefix"`
	FlightsCacheTTLSeconds int    `yaml:"flights_cache_ttl_seconds"`
	QuoteCacheTTLSeconds   int    `yaml:"quote_cache_ttl_seconds"`
}

func (b BookingConfig) HoldTTL() time.Duration {
	return time.Duration(b.HoldTTLSeconds) * time.Second
}

func (b BookingConfig) ConfirmRetryDelay() time.Duration {
	return time.Duration(b.ConfirmRetryDelayMs) * time.Millisecond
}

func (b BookingConfig) FlightsCacheTTL() time.Duration {
	return time.Duration(b.FlightsCacheTTLSeconds) * time.Second
}

func (b BookingConfig) QuoteCacheTTL() time.Duration {
	return time.Duration(b.QuoteCacheTTLSeconds) * time.Second
}

// PricingConfig holds the fare engine knobs. Zero values fall back to the
// engine defaults.
type PricingConfig struct {
	TimeMaxMultiplier    float64 `yaml:"time_max_multiplier"`
	TimeHalfLifeHours    float64 `yaml:"time_half_life_hours"`
	SeatAlpha            float64 `yaml:"seat_alpha"`
	SeatBeta             float64 `yaml:"seat_beta"`
	DemandWeight         float64 `yaml:"demand_weight"`
	MinPriceFactor       float64 `yaml:"min_price_factor"`
	MaxPriceFactor       float64 `yaml:"max_price_factor"`
	ImminentWindowHours  float64 `yaml:"imminent_window_hours"`
	ImminentStep         float64 `yaml:"imminent_step"`
	CooldownSeconds      int     `yaml:"cooldown_seconds"`
	SignificancePct      float64 `yaml:"significance_pct"`
	SignificanceAbsCents int     `yaml:"significance_abs_cents"`
}

type SimulatorConfig struct {
	Enabled           bool    `yaml:"enabled"`
	IntervalSeconds   int     `yaml:"interval_seconds"`
	BatchSize         int     `yaml:"batch_size"`
	WalkUpProbability float64 `yaml:"walk_up_probability"`
	WalkUpMaxSeats    int     `yaml:"walk_up_max_seats"`
}

func (s SimulatorConfig) Interval() time.Duration {
	return time.Duration(s.IntervalSeconds) * time.Second
}

type WorkerConfig struct {
	ExpirationSweepMinutes int `yaml:"expiration_sweep_minutes"`
}

type LogConfig struct {
	Level string `yaml:"level"`
	Env   string `yaml:"env"`
	// File enables rotated file output in addition to stdout.
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type StorageConfig struct {
	Driver string `yaml:"driver"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, err
	}
	cfg.applyEnv(os.LookupEnv)
	return cfg, nil
}

// Parse decodes YAML and fills unset fields with defaults.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration suitable for local runs and tests.
func Default() *Config {
	var cfg Config
	cfg.applyDefaults()
	return &cfg
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	if c.HTTP.QuoteRatePerSecond <= 0 {
		c.HTTP.QuoteRatePerSecond = 5
	}
	if c.HTTP.QuoteBurst <= 0 {
		c.HTTP.QuoteBurst = 10
	}
	if c.GRPC.Address == "" {
		c.GRPC.Address = ":9090"
	}
	if c.Database.Port == 0 {
		c.Database.Port = 5432
	}
	if c.Database.SSLMode == "" {
		c.Database.SSLMode = "disable"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Kafka.BookingEventsTopic == "" {
		c.Kafka.BookingEventsTopic = "booking-events"
	}
	if c.Kafka.PriceEventsTopic == "" {
		c.Kafka.PriceEventsTopic = "price-events"
	}
	if c.Kafka.GroupID == "" {
		c.Kafka.GroupID = "airfare-worker"
	}

	b := &c.Booking
	if b.HoldTTLSeconds <= 0 {
		b.HoldTTLSeconds = 300
	}
	if b.ConfirmRetries <= 0 {
		b.ConfirmRetries = 3
	}
	if b.ConfirmRetryDelayMs <= 0 {
		b.ConfirmRetryDelayMs = 50
	}
	if b.ReferenceLength <= 0 {
		b.ReferenceLength = 6
	}
	if b.ReferenceAttempts <= 0 {
		b.ReferenceAttempts = 8
	}
	if b.FlightsCacheTTLSeconds <= 0 {
		b.FlightsCacheTTLSeconds = 30
	}
	if b.QuoteCacheTTLSeconds <= 0 {
		b.QuoteCacheTTLSeconds = 5
	}

	s := &c.Simulator
	if s.IntervalSeconds <= 0 {
		s.IntervalSeconds = 10
	}
	if s.BatchSize <= 0 {
		s.BatchSize = 6
	}
	if s.WalkUpProbability <= 0 {
		s.WalkUpProbability = 0.25
	}
	if s.WalkUpMaxSeats <= 0 {
		s.WalkUpMaxSeats = 3
	}

	if c.Worker.ExpirationSweepMinutes <= 0 {
		c.Worker.ExpirationSweepMinutes = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Env == "" {
		c.Log.Env = "dev"
	}
	if c.Log.MaxSizeMB <= 0 {
		c.Log.MaxSizeMB = 100
	}
	if c.Storage.Driver == "" {
		c.Storage.Driver = StorageDriverPostgres
	}
}

func (c *Config) validate() error {
	switch c.Storage.Driver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unknown storage driver %q", c.Storage.Driver)
	}
	if c.Simulator.WalkUpProbability > 1 {
		return fmt.Errorf("simulator walk_up_probability must be <= 1, got %v", c.Simulator.WalkUpProbability)
	}
	return nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) {
	if v, ok := lookup("DB_DSN"); ok && v != "" {
		c.Database.URL = v
	}
	if v, ok := lookup("REDIS_ADDR"); ok && v != "" {
		c.Redis.Addr = v
	}
	if v, ok := lookup("KAFKA_BROKERS"); ok && v != "" {
		var brokers []string
		for _, b := range strings.Split(v, ",") {
			if b = strings.TrimSpace(b); b != "" {
				brokers = append(brokers, b)
			}
		}
		c.Kafka.Brokers = brokers
	}
}
