package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/Domenick1991/guestportal/internal/domain"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Booking  BookingConfig  `yaml:"booking"`
	Storage  StorageConfig  `yaml:"storage"`
	AI       AIConfig       `yaml:"ai"`
	Hotels   []domain.Hotel `yaml:"hotels"`
}

type HTTPConfig struct {
	Address       string   `yaml:"address"`
	SwaggerDir    string   `yaml:"swagger_dir"`
	PublicBaseURL string   `yaml:"public_base_url"`
	CORSOrigins   []string `yaml:"cors_origins"`
}

// DatabaseConfig selects the store. Engine "pgx" talks to Postgres through a
// pgx pool; engine "gorm" opens DSN with gorm (postgres:// or a sqlite path).
type DatabaseConfig struct {
	Engine   string `yaml:"engine"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"ssl_mode"`
	GormDSN  string `yaml:"gorm_dsn"`
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
	Brokers            []string `yaml:"brokers"`
	BookingTopic       string   `yaml:"booking_topic"`
	NotificationsTopic string   `yaml:"notifications_topic"`
	GroupID            string   `yaml:"group_id"`
}

type BookingConfig struct {
	DraftTTLHours       int `yaml:"draft_ttl_hours"`
	SubmitLockSeconds   int `yaml:"submit_lock_seconds"`
	HotelsCacheTTL      int `yaml:"hotels_cache_ttl_seconds"`
	MaxUploadMegabytes  int `yaml:"max_upload_megabytes"`
	RecentActivityLimit int `yaml:"recent_activity_limit"`
}

type StorageConfig struct {
	BaseDir    string `yaml:"base_dir"`
	PublicBase string `yaml:"public_base"`
}

type AIConfig struct {
	APIKey      string  `yaml:"api_key"`
	Model       string  `yaml:"model"`
	Temperature float32 `yaml:"temperature"`
}

const (
	EnginePGX  = "pgx"
	EngineGorm = "gorm"
)

// LoadConfig reads the yaml file at path, loads an optional .env next to the
// process and lets the environment override secrets.
func LoadConfig(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

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

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.AI.APIKey = v
	}
	if v := os.Getenv("DATABASE_PASSWORD"); v != "" {
		c.Database.Password = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.GormDSN = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
}

func (c *Config) applyDefaults() {
	if c.HTTP.Address == "" {
		c.HTTP.Address = ":8080"
	}
	c.HTTP.PublicBaseURL = strings.TrimRight(c.HTTP.PublicBaseURL, "/")
	if c.Database.Engine == "" {
		c.Database.Engine = EnginePGX
	}
	if c.Booking.DraftTTLHours == 0 {
		c.Booking.DraftTTLHours = 72
	}
	if c.Booking.SubmitLockSeconds == 0 {
		c.Booking.SubmitLockSeconds = 120
	}
	if c.Booking.HotelsCacheTTL == 0 {
		c.Booking.HotelsCacheTTL = 300
	}
	if c.Booking.MaxUploadMegabytes == 0 {
		c.Booking.MaxUploadMegabytes = 20
	}
	if c.Booking.RecentActivityLimit == 0 {
		c.Booking.RecentActivityLimit = 5
	}
	if c.Storage.BaseDir == "" {
		c.Storage.BaseDir = "./uploads"
	}
	if c.Storage.PublicBase == "" {
		c.Storage.PublicBase = "/static/uploads"
	}
	if c.AI.Model == "" {
		c.AI.Model = "gemini-2.5-flash"
	}
}

func (c *Config) validate() error {
	switch c.Database.Engine {
	case EnginePGX:
	case EngineGorm:
		if c.Database.GormDSN == "" {
			return errors.New("database.gorm_dsn is required for the gorm engine")
		}
	default:
		return fmt.Errorf("unknown database engine %q", c.Database.Engine)
	}
	for i, h := range c.Hotels {
		if h.ID == "" || h.Name == "" {
			return fmt.Errorf("hotels[%d]: id and name are required", i)
		}
	}
	return nil
}
