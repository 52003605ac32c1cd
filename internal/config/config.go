package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server  ServerConfig
	Backend BackendConfig
	Redis   RedisConfig
	Session SessionConfig
	Kafka   KafkaConfig
	Media   MediaConfig
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type BackendConfig struct {
	BaseURL        string
	PublicEventURL string
	RequestTimeout time.Duration
}

type RedisConfig struct {
	Addr string
}

type SessionConfig struct {
	Store      string // "redis" or "sqlite"
	SQLitePath string
	TTL        time.Duration
}

type KafkaConfig struct {
	Brokers []string
	Enabled bool
	Topics  TopicConfig
}

type TopicConfig struct {
	DraftCreated   string
	DraftStepSaved string
	EventPublished string
}

type MediaConfig struct {
	Stager           string // "backend" or "cloudinary"
	CloudinaryFolder string
}

func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", ":8085"),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Backend: BackendConfig{
			BaseURL:        getEnv("EVENT_BACKEND_URL", "http://localhost:8080"),
			PublicEventURL: getEnv("PUBLIC_EVENT_URL", "https://ticketly.events/event"),
			RequestTimeout: time.Duration(getEnvInt("BACKEND_TIMEOUT_SECONDS", 30)) * time.Second,
		},
		Redis: RedisConfig{
			Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
		Session: SessionConfig{
			Store:      getEnv("SESSION_STORE", "redis"),
			SQLitePath: getEnv("SESSION_SQLITE_PATH", "composer-sessions.db"),
			TTL:        time.Duration(getEnvInt("DRAFT_SESSION_TTL_HOURS", 72)) * time.Hour,
		},
		Kafka: KafkaConfig{
			Brokers: []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			Enabled: getEnvBool("KAFKA_ENABLED", true),
			Topics: TopicConfig{
				DraftCreated:   getEnv("KAFKA_TOPIC_DRAFT_CREATED", "ticketly.drafts.created"),
				DraftStepSaved: getEnv("KAFKA_TOPIC_STEP_SAVED", "ticketly.drafts.step_saved"),
				EventPublished: getEnv("KAFKA_TOPIC_PUBLISHED", "ticketly.events.published"),
			},
		},
		Media: MediaConfig{
			Stager:           getEnv("MEDIA_STAGER", "backend"),
			CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "events"),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseBool(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}
