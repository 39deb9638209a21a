package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// Text-generation backend (OpenAI-compatible chat completions API)
	OpenAIAPIKey  string
	OpenAIBaseURL string
	OpenAIModel   string

	// GitHub access (optional token raises anonymous README rate limits)
	GitHubToken string

	// Record store selection: "rest", "postgres" or "sqlite"
	RecordStore string

	// REST record store (Supabase / PostgREST)
	SupabaseURL string
	SupabaseKey string

	PostgresHost     string
	PostgresPort     string
	PostgresUser     string
	PostgresPassword string
	PostgresDB       string
	PostgresSSLMode  string

	SQLitePath string

	// Run parameters
	DataDir        string
	ViewsFile      string
	TrendingViews  []string
	Since          string
	Limit          int
	MaxConcurrency int
	MaxRetries     int
	MinPauseMs     int
	MaxPauseMs     int
	HTTPTimeoutSec int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", "https://api.openai.com"),
		OpenAIModel:   getEnv("OPENAI_MODEL", "gpt-4"),

		GitHubToken: getEnv("GITHUB_TOKEN", ""),

		RecordStore: getEnv("RECORD_STORE", "rest"),

		SupabaseURL: getEnv("SUPABASE_URL", ""),
		SupabaseKey: getEnv("SUPABASE_SECRET", ""),

		PostgresHost:     getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:     getEnv("POSTGRES_PORT", "5432"),
		PostgresUser:     getEnv("POSTGRES_USER", "githighlight"),
		PostgresPassword: getEnv("POSTGRES_PASSWORD", ""),
		PostgresDB:       getEnv("POSTGRES_DB", "githighlight"),
		PostgresSSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),

		SQLitePath: getEnv("SQLITE_PATH", "./data/githighlight.db"),

		DataDir:        getEnv("DATA_DIR", "./data"),
		ViewsFile:      getEnv("VIEWS_FILE", "views.yaml"),
		TrendingViews:  getEnvList("TRENDING_VIEWS", []string{"", "korean"}),
		Since:          getEnv("TRENDING_SINCE", "daily"),
		Limit:          getEnvInt("TRENDING_LIMIT", 0),
		MaxConcurrency: getEnvInt("MAX_CONCURRENCY", 1),
		MaxRetries:     getEnvInt("MAX_RETRIES", 3),
		MinPauseMs:     getEnvInt("MIN_PAUSE_MS", 1000),
		MaxPauseMs:     getEnvInt("MAX_PAUSE_MS", 3000),
		HTTPTimeoutSec: getEnvInt("HTTP_TIMEOUT_SEC", 10),
	}
}

// DSN returns the PostgreSQL connection string for the postgres record store.
func (c *Config) DSN() string {
	return "host=" + c.PostgresHost +
		" port=" + c.PostgresPort +
		" user=" + c.PostgresUser +
		" password=" + c.PostgresPassword +
		" dbname=" + c.PostgresDB +
		" sslmode=" + c.PostgresSSLMode
}

// Views returns the trending views to fetch, in fetch order. The optional
// views file takes precedence over the TRENDING_VIEWS variable.
func (c *Config) Views() []View {
	if c.ViewsFile != "" {
		if _, err := os.Stat(c.ViewsFile); err == nil {
			views, err := LoadViews(c.ViewsFile)
			if err == nil && len(views) > 0 {
				return views
			}
			if err != nil {
				log.Printf("[config] Ignoring unreadable views file %s: %v", c.ViewsFile, err)
			}
		}
	}

	views := make([]View, 0, len(c.TrendingViews))
	for _, lang := range c.TrendingViews {
		views = append(views, View{Language: lang})
	}
	return views
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	val, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	parts := strings.Split(val, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}
