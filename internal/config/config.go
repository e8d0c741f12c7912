package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server ServerConfig `json:"server"`

	// Database Configuration
	Database DatabaseConfig `json:"database"`

	// MongoDB holds image attachments (GridFS)
	MongoDB MongoDBConfig `json:"mongodb"`

	// Redis carries the broadcast channel
	Redis RedisConfig `json:"redis"`

	Auth AuthConfig `json:"auth"`

	// Chat engine and admission tuning
	Chat ChatConfig `json:"chat"`

	RateLimits RateLimitsConfig `json:"rate_limits"`

	// Logging Configuration
	Logging LoggingConfig `json:"logging"`
}

// ServerConfig contains server-related configuration
type ServerConfig struct {
	Host            string `json:"host"`
	ChatServicePort string `json:"chat_service_port"` // gRPC
	HTTPPort        string `json:"http_port"`         // gateway, realtime, media
	ReadTimeout     int    `json:"read_timeout"`
	WriteTimeout    int    `json:"write_timeout"`
	Environment     string `json:"environment"` // development, staging, production
	MediaBaseURL    string `json:"media_base_url"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	Host         string `json:"host"`
	Port         string `json:"port"`
	Username     string `json:"username"`
	Password     string `json:"password"`
	DatabaseName string `json:"database_name"`
	MaxOpenConns int    `json:"max_open_conns"`
	MaxIdleConns int    `json:"max_idle_conns"`
}

type MongoDBConfig struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
	Database string `json:"database"`

	// ImageBucket is the GridFS bucket chat image attachments live in
	ImageBucket    string        `json:"image_bucket"`
	ChunkSizeBytes int32         `json:"chunk_size_bytes"`
	ConnectTimeout time.Duration `json:"connect_timeout"`
	MaxPoolSize    uint64        `json:"max_pool_size"`
}

type RedisConfig struct {
	URL string `json:"url"`
}

type AuthConfig struct {
	JWTSecret string `json:"-"`
}

// ChatConfig holds the knobs shared by the admission service and client engines.
type ChatConfig struct {
	PageSize            int           `json:"page_size"`
	MaxContentLength    int           `json:"max_content_length"`
	RoleCacheSize       int           `json:"role_cache_size"`
	RoleCacheTTL        time.Duration `json:"role_cache_ttl"`
	ChangeFeedInterval  time.Duration `json:"change_feed_interval"`
	ChangeFeedBatch     int           `json:"change_feed_batch"`
	ChangeFeedRetention time.Duration `json:"change_feed_retention"`
	JanitorInterval     time.Duration `json:"janitor_interval"`
}

// RateLimitsConfig maps limiter names to quota and window.
type RateLimitsConfig struct {
	Messages          LimitConfig   `json:"messages"`
	Images            LimitConfig   `json:"images"`
	PhoneVerification LimitConfig   `json:"phone_verification"`
	SweepInterval     time.Duration `json:"sweep_interval"`
}

type LimitConfig struct {
	MaxRequests int           `json:"max_requests"`
	Window      time.Duration `json:"window"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level      string `json:"level"`       // debug, info, warn, error
	Format     string `json:"format"`      // json, text
	OutputPath string `json:"output_path"` // stdout, stderr, or file path
}

// LoadConfig reads .env (when present) and the process environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg := &Config{
		Server: ServerConfig{
			Host:            getEnvOrDefault("SERVER_HOST", "0.0.0.0"),
			ChatServicePort: getEnvOrDefault("CHAT_SERVICE_PORT", "7003"),
			HTTPPort:        getEnvOrDefault("HTTP_PORT", "8080"),
			ReadTimeout:     getEnvInt("SERVER_READ_TIMEOUT", 15),
			WriteTimeout:    getEnvInt("SERVER_WRITE_TIMEOUT", 15),
			Environment:     getEnvOrDefault("ENVIRONMENT", "development"),
		},
		Database: DatabaseConfig{
			Host:         getEnvOrDefault("MYSQL_HOST", "localhost"),
			Port:         getEnvOrDefault("MYSQL_PORT", "3306"),
			Username:     getEnvOrDefault("MYSQL_USERNAME", "portal"),
			Password:     getEnvOrDefault("MYSQL_PASSWORD", "portal123"),
			DatabaseName: getEnvOrDefault("MYSQL_DATABASE", "portal"),
			MaxOpenConns: getEnvInt("MYSQL_MAX_OPEN_CONNS", 25),
			MaxIdleConns: getEnvInt("MYSQL_MAX_IDLE_CONNS", 5),
		},
		MongoDB: MongoDBConfig{
			Host:     getEnvOrDefault("MONGO_HOST", "localhost"),
			Port:     getEnvOrDefault("MONGO_PORT", "27017"),
			Username: getEnvOrDefault("MONGO_USERNAME", "admin"),
			Password: getEnvOrDefault("MONGO_PASSWORD", "admin123"),
			Database: getEnvOrDefault("MONGO_DATABASE", "portal_media"),

			ImageBucket:    getEnvOrDefault("MONGO_IMAGE_BUCKET", "chat_images"),
			ChunkSizeBytes: int32(getEnvInt("MONGO_CHUNK_SIZE_BYTES", 255*1024)),
			ConnectTimeout: getEnvDuration("MONGO_CONNECT_TIMEOUT", 5*time.Second),
			MaxPoolSize:    uint64(getEnvInt("MONGO_MAX_POOL_SIZE", 20)),
		},
		Redis: RedisConfig{
			URL: getEnvOrDefault("REDIS_URL", "redis://localhost:6379/0"),
		},
		Auth: AuthConfig{
			JWTSecret: getEnvOrDefault("JWT_SECRET", ""),
		},
		Chat: ChatConfig{
			PageSize:            getEnvInt("CHAT_PAGE_SIZE", 50),
			MaxContentLength:    getEnvInt("CHAT_MAX_CONTENT_LENGTH", 4000),
			RoleCacheSize:       getEnvInt("CHAT_ROLE_CACHE_SIZE", 1024),
			RoleCacheTTL:        getEnvDuration("CHAT_ROLE_CACHE_TTL", 30*time.Second),
			ChangeFeedInterval:  getEnvDuration("CHANGE_FEED_INTERVAL", 250*time.Millisecond),
			ChangeFeedBatch:     getEnvInt("CHANGE_FEED_BATCH", 200),
			ChangeFeedRetention: getEnvDuration("CHANGE_FEED_RETENTION", 24*time.Hour),
			JanitorInterval:     getEnvDuration("JANITOR_INTERVAL", time.Hour),
		},
		RateLimits: RateLimitsConfig{
			Messages: LimitConfig{
				MaxRequests: getEnvInt("RATE_MESSAGES_MAX", 10),
				Window:      getEnvDuration("RATE_MESSAGES_WINDOW", time.Minute),
			},
			Images: LimitConfig{
				MaxRequests: getEnvInt("RATE_IMAGES_MAX", 5),
				Window:      getEnvDuration("RATE_IMAGES_WINDOW", 5*time.Minute),
			},
			PhoneVerification: LimitConfig{
				MaxRequests: getEnvInt("RATE_PHONE_MAX", 3),
				Window:      getEnvDuration("RATE_PHONE_WINDOW", 5*time.Minute),
			},
			SweepInterval: getEnvDuration("RATE_SWEEP_INTERVAL", time.Minute),
		},
		Logging: LoggingConfig{
			Level:      getEnvOrDefault("LOG_LEVEL", "info"),
			Format:     getEnvOrDefault("LOG_FORMAT", "text"),
			OutputPath: getEnvOrDefault("LOG_OUTPUT", "stdout"),
		},
	}

	cfg.Server.MediaBaseURL = getEnvOrDefault("MEDIA_BASE_URL",
		fmt.Sprintf("http://localhost:%s/api/v1/media", cfg.Server.HTTPPort))

	return cfg
}

func (cfg *Config) DSN() string {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "3306"
	}

	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=utf8mb4&parseTime=True&loc=UTC",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DatabaseName,
	)
}

func (cfg *Config) GetMongoURI() string {
	if cfg.MongoDB.Username == "" {
		return fmt.Sprintf("mongodb://%s:%s/%s", cfg.MongoDB.Host, cfg.MongoDB.Port, cfg.MongoDB.Database)
	}
	return fmt.Sprintf("mongodb://%s:%s@%s:%s/%s?authSource=admin",
		cfg.MongoDB.Username,
		cfg.MongoDB.Password,
		cfg.MongoDB.Host,
		cfg.MongoDB.Port,
		cfg.MongoDB.Database,
	)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
		log.Printf("Invalid integer for %s=%q, using %d", key, value, defaultValue)
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Printf("Invalid duration for %s=%q, using %s", key, value, defaultValue)
	}
	return defaultValue
}
