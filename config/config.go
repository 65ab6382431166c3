package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Auth     AuthConfig     `yaml:"auth"`
	Billing  BillingConfig  `yaml:"billing"`
	Venue    VenueConfig    `yaml:"venue"`
}

type HTTPConfig struct {
	Address string `yaml:"address"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
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
	Brokers      []string `yaml:"brokers"`
	BookingTopic string   `yaml:"booking_topic"`
	GroupID      string   `yaml:"group_id"`
}

type AuthConfig struct {
	Secret       string `yaml:"secret"`
	TokenTTLMins int    `yaml:"token_ttl_minutes"`
}

type BillingConfig struct {
	RatePerMinute  float64 `yaml:"rate_per_minute"`
	StopCheckHours int     `yaml:"stop_check_hours"`
	StopCheckMax   float64 `yaml:"stop_check_max"`
}

// VenueConfig describes the operating window used for free-window
// calculations. CloseHour may be less than or equal to OpenHour, which means
// the venue closes past midnight.
type VenueConfig struct {
	OpenHour        int `yaml:"open_hour"`
	CloseHour       int `yaml:"close_hour"`
	LockTTLSeconds  int `yaml:"lock_ttl_seconds"`
	CatalogCacheTTL int `yaml:"catalog_cache_ttl_seconds"`
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

	return &cfg, nil
}
