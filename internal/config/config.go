package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

var ErrMissingAPIKey = errors.New("llm api key is required")

type Config struct {
	App        AppConfig        `toml:"app"`
	LLM        LLMConfig        `toml:"llm"`
	Interview  InterviewConfig  `toml:"interview"`
	Transcript TranscriptConfig `toml:"transcript"`
	MySQL      MySQLConfig      `toml:"mysql"`
	Redis      RedisConfig      `toml:"redis"`
	RabbitMQ   RabbitMQConfig   `toml:"rabbitmq"`
}

type AppConfig struct {
	Name    string `toml:"name"`
	Env     string `toml:"env"`
	Host    string `toml:"host"`
	Port    int    `toml:"port"`
	GinMode string `toml:"gin_mode"`
}

type LLMConfig struct {
	Provider       string `toml:"provider"`
	BaseURL        string `toml:"base_url"`
	APIKey         string `toml:"api_key"`
	Model          string `toml:"model"`
	MaxTokens      int    `toml:"max_tokens"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

type InterviewConfig struct {
	Subject                 string `toml:"subject"`
	TimeLimitMinutes        int    `toml:"time_limit_minutes"`
	SessionTTLMinutes       int    `toml:"session_ttl_minutes"`
	QuestionCacheTTLSeconds int    `toml:"question_cache_ttl_seconds"`
}

// TranscriptConfig selects where finished transcripts are appended.
// Driver is one of "file", "sqlite" or "mysql".
type TranscriptConfig struct {
	Driver     string `toml:"driver"`
	Path       string `toml:"path"`
	SQLitePath string `toml:"sqlite_path"`
}

type MySQLConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	DB       string `toml:"db"`
	Params   string `toml:"params"`
}

// RedisConfig leaves the question cache disabled when Addr is empty.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// RabbitMQConfig leaves transcript publishing disabled when URL is empty.
type RabbitMQConfig struct {
	URL             string `toml:"url"`
	TranscriptQueue string `toml:"transcript_queue"`
	ArchiveToMySQL  bool   `toml:"archive_to_mysql"`
}

func Load() (*Config, error) {
	return LoadFile(getEnv("CONFIG_FILE", "configs/config.toml"))
}

// LoadFile reads configPath when it exists, then applies environment overrides.
func LoadFile(configPath string) (*Config, error) {
	cfg := defaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		if _, err := toml.DecodeFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("decode config file failed: %w", err)
		}
	}

	overrideByEnv(cfg)
	return cfg, nil
}

func (c *Config) Validate() error {
	if strings.TrimSpace(c.LLM.APIKey) == "" {
		return ErrMissingAPIKey
	}
	switch c.Transcript.Driver {
	case "file", "sqlite", "mysql":
	default:
		return fmt.Errorf("unknown transcript driver %q", c.Transcript.Driver)
	}
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("unknown llm provider %q", c.LLM.Provider)
	}
	return nil
}

func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.App.Host, c.App.Port)
}

func (c *Config) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?%s",
		c.MySQL.User,
		c.MySQL.Password,
		c.MySQL.Host,
		c.MySQL.Port,
		c.MySQL.DB,
		c.MySQL.Params,
	)
}

func defaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:    "gopherai-interview",
			Env:     "dev",
			Host:    "0.0.0.0",
			Port:    3000,
			GinMode: "debug",
		},
		LLM: LLMConfig{
			Provider:       "openai",
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai/",
			Model:          "gemini-1.5-flash",
			MaxTokens:      2048,
			TimeoutSeconds: 90,
		},
		Interview: InterviewConfig{
			Subject:                 "Excel",
			TimeLimitMinutes:        30,
			SessionTTLMinutes:       120,
			QuestionCacheTTLSeconds: 3600,
		},
		Transcript: TranscriptConfig{
			Driver:     "file",
			Path:       "transcripts.json",
			SQLitePath: "transcripts.db",
		},
		MySQL: MySQLConfig{
			Host:   "127.0.0.1",
			Port:   3306,
			User:   "root",
			DB:     "gopherai_interview",
			Params: "parseTime=true&loc=Local&charset=utf8mb4",
		},
		RabbitMQ: RabbitMQConfig{
			TranscriptQueue: "interview.transcript.completed",
		},
	}
}

func overrideByEnv(cfg *Config) {
	cfg.App.Name = getEnv("APP_NAME", cfg.App.Name)
	cfg.App.Env = getEnv("APP_ENV", cfg.App.Env)
	cfg.App.Host = getEnv("APP_HOST", cfg.App.Host)
	cfg.App.Port = getEnvAsInt("PORT", getEnvAsInt("APP_PORT", cfg.App.Port))
	cfg.App.GinMode = getEnv("GIN_MODE", cfg.App.GinMode)

	cfg.LLM.Provider = getEnv("LLM_PROVIDER", cfg.LLM.Provider)
	cfg.LLM.BaseURL = getEnv("LLM_BASE_URL", cfg.LLM.BaseURL)
	cfg.LLM.APIKey = firstEnv([]string{"LLM_API_KEY", "GEMINI_API_KEY", "GOOGLE_API_KEY"}, cfg.LLM.APIKey)
	cfg.LLM.Model = getEnv("LLM_MODEL", cfg.LLM.Model)
	cfg.LLM.MaxTokens = getEnvAsInt("LLM_MAX_TOKENS", cfg.LLM.MaxTokens)
	cfg.LLM.TimeoutSeconds = getEnvAsInt("LLM_TIMEOUT_SECONDS", cfg.LLM.TimeoutSeconds)

	cfg.Interview.Subject = getEnv("INTERVIEW_SUBJECT", cfg.Interview.Subject)
	cfg.Interview.TimeLimitMinutes = getEnvAsInt("INTERVIEW_TIME_LIMIT_MINUTES", cfg.Interview.TimeLimitMinutes)
	cfg.Interview.SessionTTLMinutes = getEnvAsInt("INTERVIEW_SESSION_TTL_MINUTES", cfg.Interview.SessionTTLMinutes)
	cfg.Interview.QuestionCacheTTLSeconds = getEnvAsInt("INTERVIEW_QUESTION_CACHE_TTL_SECONDS", cfg.Interview.QuestionCacheTTLSeconds)

	cfg.Transcript.Driver = getEnv("TRANSCRIPT_DRIVER", cfg.Transcript.Driver)
	cfg.Transcript.Path = getEnv("TRANSCRIPT_PATH", cfg.Transcript.Path)
	cfg.Transcript.SQLitePath = getEnv("TRANSCRIPT_SQLITE_PATH", cfg.Transcript.SQLitePath)

	cfg.MySQL.Host = getEnv("MYSQL_HOST", cfg.MySQL.Host)
	cfg.MySQL.Port = getEnvAsInt("MYSQL_PORT", cfg.MySQL.Port)
	cfg.MySQL.User = getEnv("MYSQL_USER", cfg.MySQL.User)
	cfg.MySQL.Password = getEnv("MYSQL_PASSWORD", cfg.MySQL.Password)
	cfg.MySQL.DB = getEnv("MYSQL_DB", cfg.MySQL.DB)
	cfg.MySQL.Params = getEnv("MYSQL_PARAMS", cfg.MySQL.Params)

	cfg.Redis.Addr = getEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvAsInt("REDIS_DB", cfg.Redis.DB)

	cfg.RabbitMQ.URL = getEnv("RABBITMQ_URL", cfg.RabbitMQ.URL)
	cfg.RabbitMQ.TranscriptQueue = getEnv("RABBITMQ_TRANSCRIPT_QUEUE", cfg.RabbitMQ.TranscriptQueue)
	cfg.RabbitMQ.ArchiveToMySQL = getEnvAsBool("RABBITMQ_ARCHIVE_TO_MYSQL", cfg.RabbitMQ.ArchiveToMySQL)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty variable among keys.
func firstEnv(keys []string, fallback string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok || raw == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return parsed
}
