package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	GRPC     GRPCConfig     `yaml:"grpc"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Pricing  PricingConfig  `yaml:"pricing"`
	Reveal   RevealConfig   `yaml:"reveal"`
	Auth     AuthConfig     `yaml:"auth"`
	Email    EmailConfig    `yaml:"email"`
	Worker   WorkerConfig   `yaml:"worker"`
}

type HTTPConfig struct {
	Address     string   `yaml:"address" validate:"required"`
	SwaggerDir  string   `yaml:"swagger_dir"`
	CORSOrigins []string `yaml:"cors_origins"`
}

type GRPCConfig struct {
	Address string `yaml:"address" validate:"required"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host" validate:"required"`
	Port     int    `yaml:"port" validate:"required"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name" validate:"required"`
	SSLMode  string `yaml:"ssl_mode"`
}

func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s", d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode)
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type KafkaConfig struct {
	Brokers            []string `yaml:"brokers" validate:"required,min=1"`
	RankingTopic       string   `yaml:"ranking_topic" validate:"required"`
	NotificationsTopic string   `yaml:"notifications_topic" validate:"required"`
	GroupID            string   `yaml:"group_id" validate:"required"`
	PublishRetries     int      `yaml:"publish_retries" validate:"gte=0,lte=5"`
}

// PricingConfig holds the flight price policy. Durations are Go duration strings ("1h", "8s").
type PricingConfig struct {
	OriginAirport     string        `yaml:"origin_airport" validate:"required,len=3"`
	AmadeusBaseURL    string        `yaml:"amadeus_base_url" validate:"required,url"`
	AmadeusClientID   string        `yaml:"amadeus_client_id"`
	AmadeusSecret     string        `yaml:"amadeus_client_secret"`
	Currency          string        `yaml:"currency" validate:"required,len=3"`
	FreshnessWindow   time.Duration `yaml:"freshness_window" validate:"gt=0"`
	MaxRefreshPerRun  int           `yaml:"max_refresh_per_run" validate:"gt=0"`
	CallTimeout       time.Duration `yaml:"call_timeout" validate:"gt=0"`
	QuoteCacheTTL     time.Duration `yaml:"quote_cache_ttl"`
	DefaultTripNights int           `yaml:"default_trip_nights" validate:"gte=0"`
	BulkLeadDays      int           `yaml:"bulk_refresh_lead_days" validate:"gte=0"`
}

type RevealConfig struct {
	AutoRevealLead time.Duration `yaml:"auto_reveal_lead"`
}

type AuthConfig struct {
	JWTSecret     string   `yaml:"jwt_secret" validate:"required"`
	OperatorRoles []string `yaml:"operator_roles" validate:"required,min=1"`
	ServiceRoles  []string `yaml:"service_roles"`
}

type EmailConfig struct {
	Driver   string `yaml:"driver" validate:"oneof=smtp ses log"`
	From     string `yaml:"from" validate:"required,email"`
	FromName string `yaml:"from_name"`
	SMTPHost string `yaml:"smtp_host" validate:"required_if=Driver smtp"`
	SMTPPort int    `yaml:"smtp_port"`
	SMTPUser string `yaml:"smtp_user"`
	SMTPPass string `yaml:"smtp_password"`
	Region   string `yaml:"ses_region" validate:"required_if=Driver ses"`
}

type WorkerConfig struct {
	BulkRefreshInterval time.Duration `yaml:"bulk_refresh_interval"`
	AutoRevealInterval  time.Duration `yaml:"auto_reveal_interval"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()
	cfg.applyDefaults()

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyEnv lets secrets live outside the YAML file.
func (c *Config) applyEnv() {
	if v := os.Getenv("AMADEUS_CLIENT_ID"); v != "" {
		c.Pricing.AmadeusClientID = v
	}
	if v := os.Getenv("AMADEUS_CLIENT_SECRET"); v != "" {
		c.Pricing.AmadeusSecret = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		c.Auth.JWTSecret = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		c.Email.SMTPPass = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
}

func (c *Config) applyDefaults() {
	if c.Pricing.AmadeusBaseURL == "" {
		c.Pricing.AmadeusBaseURL = "https://test.api.amadeus.com"
	}
	if c.Pricing.Currency == "" {
		c.Pricing.Currency = "EUR"
	}
	if c.Pricing.FreshnessWindow == 0 {
		c.Pricing.FreshnessWindow = time.Hour
	}
	if c.Pricing.MaxRefreshPerRun == 0 {
		c.Pricing.MaxRefreshPerRun = 10
	}
	if c.Pricing.CallTimeout == 0 {
		c.Pricing.CallTimeout = 8 * time.Second
	}
	if c.Pricing.QuoteCacheTTL == 0 {
		c.Pricing.QuoteCacheTTL = 30 * time.Minute
	}
	if c.Pricing.DefaultTripNights == 0 {
		c.Pricing.DefaultTripNights = 3
	}
	if c.Pricing.BulkLeadDays == 0 {
		c.Pricing.BulkLeadDays = 30
	}
	if c.Reveal.AutoRevealLead == 0 {
		c.Reveal.AutoRevealLead = 7 * 24 * time.Hour
	}
	if c.Kafka.PublishRetries == 0 {
		c.Kafka.PublishRetries = 3
	}
	if c.Email.Driver == "" {
		c.Email.Driver = "log"
	}
	if c.Email.SMTPPort == 0 {
		c.Email.SMTPPort = 587
	}
	if c.Worker.BulkRefreshInterval == 0 {
		c.Worker.BulkRefreshInterval = 6 * time.Hour
	}
	if c.Worker.AutoRevealInterval == 0 {
		c.Worker.AutoRevealInterval = 15 * time.Minute
	}
}
