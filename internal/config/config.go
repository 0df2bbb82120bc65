package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr        string        `env:"HTTP_ADDR" env-default:"0.0.0.0:8080"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" env-default:"30s"`

	DB      DBConfig
	AI      AIConfig
	Storage StorageConfig
	Log     LogConfig

	GoogleCalendarEndpoint string `env:"GOOGLE_CALENDAR_ENDPOINT"`
	DefaultTimeZone        string `env:"DEFAULT_TIMEZONE" env-default:"UTC"`
	PostMeetingWebhookURL  string `env:"POST_MEETING_WEBHOOK_URL"`
}

type DBConfig struct {
	Driver        string `env:"DB_DRIVER" env-default:"postgres"`
	URL           string `env:"DATABASE_URL"`
	MongoURI      string `env:"MONGODB_URI"`
	MongoDatabase string `env:"MONGODB_DATABASE" env-default:"meetmind"`
}

type AIConfig struct {
	APIKey             string        `env:"GROQ_API_KEY"`
	BaseURL            string        `env:"GROQ_BASE_URL" env-default:"https://api.groq.com/openai/v1"`
	TranscriptionModel string        `env:"TRANSCRIPTION_MODEL" env-default:"whisper-large-v3"`
	SummaryModel       string        `env:"SUMMARY_MODEL" env-default:"openai/gpt-oss-120b"`
	MaxUploadBytes     int64         `env:"MAX_UPLOAD_BYTES" env-default:"4194304"`
	Timeout            time.Duration `env:"AI_TIMEOUT" env-default:"120s"`
}

type StorageConfig struct {
	Driver      string `env:"STORAGE_DRIVER" env-default:"local"`
	LocalPath   string `env:"STORAGE_LOCAL_PATH" env-default:"./data/uploads"`
	PublicURL   string `env:"STORAGE_PUBLIC_URL"`
	S3Bucket    string `env:"S3_BUCKET"`
	S3Region    string `env:"S3_REGION" env-default:"us-east-1"`
	S3Endpoint  string `env:"S3_ENDPOINT"`
	S3AccessKey string `env:"S3_ACCESS_KEY"`
	S3SecretKey string `env:"S3_SECRET_KEY"`
	S3PathStyle bool   `env:"S3_FORCE_PATH_STYLE" env-default:"false"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info"`
	Format string `env:"LOG_FORMAT" env-default:"text"`
	File   string `env:"LOG_FILE"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err.Error())
	}
	return cfg
}

func (c *Config) validate() error {
	switch c.DB.Driver {
	case "postgres":
		if c.DB.URL == "" {
			return fmt.Errorf("DATABASE_URL is required for the postgres driver")
		}
	case "mongo":
		if c.DB.MongoURI == "" {
			return fmt.Errorf("MONGODB_URI is required for the mongo driver")
		}
	default:
		return fmt.Errorf("unknown DB_DRIVER %q", c.DB.Driver)
	}

	switch c.Storage.Driver {
	case "local":
	case "s3":
		if c.Storage.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.Storage.Driver)
	}

	return nil
}
