package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Redis     RedisConfig
	JWT       JWTConfig
	Assistant AssistantConfig
}

type AppConfig struct {
	AppName     string
	Environment string
	HTTPPort    string
	LogJSON     bool
	LogDebug    bool
}

type DatabaseConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUser     string
	DBPassword string
	DBSSLMode  string

	ConnectTimeout time.Duration
	PoolMaxConns   int32
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TTL      time.Duration
}

type JWTConfig struct {
	AccessSecret string
}

// AssistantConfig is handed to the assistant gateway at construction.
// An empty ProviderCredential is not a load error; requests fail with a
// configuration error instead.
type AssistantConfig struct {
	Provider           string
	ProviderCredential string
	ModelID            string
	ProviderBaseURL    string
	Temperature        float32
	RequestTimeout     time.Duration
	StreamTimeout      time.Duration
}

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	DefaultTemperature = 0.7
)

var errMissingRequiredEnv = errors.New("missing required environment variables")

var errUnknownProvider = errors.New("unknown assistant provider")

// Load reads configuration from the environment. A .env file in the working
// directory is loaded first when present; CONFIG_FILE may point at a file
// viper understands, with environment values taking precedence.
func Load() (Config, error) {
	_ = godotenv.Load()
	return LoadFrom(newViper())
}

func newViper() *viper.Viper {
	v := viper.New()
	v.AutomaticEnv()

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", "6379")
	v.SetDefault("REDIS_TTL", "60s")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_CONNECT_TIMEOUT", "5s")
	v.SetDefault("AI_PROVIDER", ProviderOpenAI)
	v.SetDefault("AI_MODEL", "gpt-4o-mini")
	v.SetDefault("AI_TEMPERATURE", DefaultTemperature)
	v.SetDefault("AI_REQUEST_TIMEOUT", "60s")
	v.SetDefault("AI_STREAM_TIMEOUT", "5m")

	return v
}

func LoadFrom(v *viper.Viper) (Config, error) {
	if file := strings.TrimSpace(v.GetString("CONFIG_FILE")); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config file %s: %w", file, err)
		}
	}

	cfg := Config{}

	var missing []string
	req := func(key string) string {
		s := strings.TrimSpace(v.GetString(key))
		if s == "" {
			missing = append(missing, key)
		}
		return s
	}
	opt := func(key string) string {
		return strings.TrimSpace(v.GetString(key))
	}

	cfg.App = AppConfig{
		AppName:     req("APP_NAME"),
		Environment: req("APP_ENV"),
		HTTPPort:    req("HTTP_PORT"),
		LogJSON:     v.GetBool("LOG_JSON"),
		LogDebug:    v.GetBool("LOG_DEBUG"),
	}

	cfg.Database = DatabaseConfig{
		DBHost:         opt("DB_HOST"),
		DBPort:         opt("DB_PORT"),
		DBName:         opt("DB_NAME"),
		DBUser:         opt("DB_USER"),
		DBPassword:     opt("DB_PASSWORD"),
		DBSSLMode:      opt("DB_SSL_MODE"),
		ConnectTimeout: v.GetDuration("DB_CONNECT_TIMEOUT"),
		PoolMaxConns:   v.GetInt32("DB_POOL_MAX_CONNS"),
	}

	cfg.Redis = RedisConfig{
		Host:     opt("REDIS_HOST"),
		Port:     opt("REDIS_PORT"),
		Password: opt("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
		TTL:      v.GetDuration("REDIS_TTL"),
	}

	cfg.JWT = JWTConfig{AccessSecret: opt("JWT_ACCESS_SECRET")}

	cfg.Assistant = AssistantConfig{
		Provider:           strings.ToLower(opt("AI_PROVIDER")),
		ProviderCredential: opt("AI_API_KEY"),
		ModelID:            opt("AI_MODEL"),
		ProviderBaseURL:    opt("AI_BASE_URL"),
		Temperature:        float32(v.GetFloat64("AI_TEMPERATURE")),
		RequestTimeout:     v.GetDuration("AI_REQUEST_TIMEOUT"),
		StreamTimeout:      v.GetDuration("AI_STREAM_TIMEOUT"),
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("%w: %s", errMissingRequiredEnv, strings.Join(missing, ", "))
	}

	switch cfg.Assistant.Provider {
	case ProviderOpenAI, ProviderGemini:
	default:
		return Config{}, fmt.Errorf("%w: %q", errUnknownProvider, cfg.Assistant.Provider)
	}

	return cfg, nil
}

func (c DatabaseConfig) Enabled() bool {
	return c.DBHost != "" && c.DBName != ""
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}
