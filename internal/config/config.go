// README: Config loader with env defaults for HTTP, DB, Redis, AI, Places, Firebase and generation settings.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type GenerationConfig struct {
	// Timeout bounds one generate call, backfill and completion included.
	Timeout       time.Duration
	SearchRadiusM uint
	MaxResults    int
	MonthlyQuota  int
}

type Config struct {
	Env  string
	HTTP struct {
		Addr string
	}
	DB struct {
		DSN string
	}
	Redis struct {
		Addr     string
		CacheTTL time.Duration
	}
	AI struct {
		Provider    string // "groq" or "gemini"
		Model       string
		GroqKey     string
		GroqBaseURL string
		GeminiKey   string
		ChatTimeout time.Duration
		Temperature float32
	}
	Places struct {
		APIKey string
	}
	Firebase struct {
		ProjectID       string
		CredentialsFile string
	}
	Telemetry struct {
		ServiceName string
	}
	Generation GenerationConfig
}

var defaults = map[string]any{
	"APP_ENV":                     "development",
	"WAYFARER_HTTP_ADDR":          ":8080",
	"WAYFARER_DB_DSN":             "",
	"WAYFARER_REDIS_ADDR":         "",
	"WAYFARER_CACHE_TTL":          "30m",
	"WAYFARER_AI_PROVIDER":        "groq",
	"WAYFARER_AI_MODEL":           "",
	"GROQ_BASE_URL":               "https://api.groq.com/openai/v1",
	"WAYFARER_CHAT_TIMEOUT":       "60s",
	"WAYFARER_AI_TEMPERATURE":     0.4,
	"WAYFARER_FIREBASE_PROJECT":   "",
	"WAYFARER_FIREBASE_CREDS":     "",
	"WAYFARER_SERVICE_NAME":       "wayfarer",
	"WAYFARER_GENERATE_TIMEOUT":   "90s",
	"WAYFARER_SEARCH_RADIUS_M":    3000,
	"WAYFARER_SEARCH_MAX_RESULTS": 20,
	"WAYFARER_MONTHLY_QUOTA":      30,
}

// Load reads .env (if present) and the process environment.
func Load() (Config, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	v := viper.New()
	for k, def := range defaults {
		v.SetDefault(k, def)
	}
	v.AutomaticEnv()
	return fromViper(v)
}

func fromViper(v *viper.Viper) (Config, error) {
	var cfg Config
	cfg.Env = v.GetString("APP_ENV")
	cfg.HTTP.Addr = v.GetString("WAYFARER_HTTP_ADDR")
	cfg.DB.DSN = v.GetString("WAYFARER_DB_DSN")
	cfg.Redis.Addr = v.GetString("WAYFARER_REDIS_ADDR")
	cfg.Redis.CacheTTL = v.GetDuration("WAYFARER_CACHE_TTL")

	cfg.AI.Provider = strings.ToLower(strings.TrimSpace(v.GetString("WAYFARER_AI_PROVIDER")))
	cfg.AI.Model = v.GetString("WAYFARER_AI_MODEL")
	cfg.AI.GroqKey = v.GetString("GROQ_API_KEY")
	cfg.AI.GroqBaseURL = v.GetString("GROQ_BASE_URL")
	cfg.AI.GeminiKey = v.GetString("GEMINI_API_KEY")
	cfg.AI.ChatTimeout = v.GetDuration("WAYFARER_CHAT_TIMEOUT")
	cfg.AI.Temperature = float32(v.GetFloat64("WAYFARER_AI_TEMPERATURE"))

	cfg.Places.APIKey = v.GetString("GOOGLE_PLACES_API_KEY")
	cfg.Firebase.ProjectID = v.GetString("WAYFARER_FIREBASE_PROJECT")
	cfg.Firebase.CredentialsFile = v.GetString("WAYFARER_FIREBASE_CREDS")
	cfg.Telemetry.ServiceName = v.GetString("WAYFARER_SERVICE_NAME")

	cfg.Generation.Timeout = v.GetDuration("WAYFARER_GENERATE_TIMEOUT")
	cfg.Generation.SearchRadiusM = v.GetUint("WAYFARER_SEARCH_RADIUS_M")
	cfg.Generation.MaxResults = v.GetInt("WAYFARER_SEARCH_MAX_RESULTS")
	cfg.Generation.MonthlyQuota = v.GetInt("WAYFARER_MONTHLY_QUOTA")

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	var errs []error
	switch c.AI.Provider {
	case "groq":
		if c.AI.GroqKey == "" {
			errs = append(errs, errors.New("GROQ_API_KEY is required for the groq provider"))
		}
	case "gemini":
		if c.AI.GeminiKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini provider"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown WAYFARER_AI_PROVIDER %q", c.AI.Provider))
	}
	if c.Places.APIKey == "" {
		errs = append(errs, errors.New("GOOGLE_PLACES_API_KEY is required"))
	}
	if c.Generation.MaxResults <= 0 || c.Generation.MaxResults > 20 {
		errs = append(errs, fmt.Errorf("WAYFARER_SEARCH_MAX_RESULTS must be in 1..20, got %d", c.Generation.MaxResults))
	}
	return errors.Join(errs...)
}
