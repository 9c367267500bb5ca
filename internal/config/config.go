package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port           string        `yaml:"port"`
	GroqAPIKey     string        `yaml:"groq_api_key"`
	GoogleAPIKey   string        `yaml:"google_api_key"`
	ScreenshotPath string        `yaml:"screenshot_path"`
	BrowserWait    time.Duration `yaml:"browser_wait"`
	AllowedOrigins string        `yaml:"allowed_origins"`

	Embedding EmbeddingConfig `yaml:"embedding"`
	Vector    VectorConfig    `yaml:"vector"`

	ModelCacheRedisURL string `yaml:"model_cache_redis_url"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

type EmbeddingConfig struct {
	Backend   string `yaml:"backend"` // ollama | gemini
	OllamaURL string `yaml:"ollama_url"`
	Model     string `yaml:"model"`
}

type VectorConfig struct {
	Backend     string `yaml:"backend"` // memory | postgres
	DatabaseURL string `yaml:"database_url"`
}

// Load reads .env (if any), then the optional YAML file named by CONFIG_FILE, then
// lets environment variables override whatever the file set.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Port = getEnv("PORT", cfg.Port)
	cfg.GroqAPIKey = getEnv("GROQ_API_KEY", cfg.GroqAPIKey)
	cfg.GoogleAPIKey = getEnv("GOOGLE_API_KEY", cfg.GoogleAPIKey)
	cfg.ScreenshotPath = getEnv("SCREENSHOT_PATH", cfg.ScreenshotPath)
	cfg.AllowedOrigins = getEnv("ALLOWED_ORIGINS", cfg.AllowedOrigins)
	cfg.Embedding.Backend = getEnv("EMBEDDING_BACKEND", cfg.Embedding.Backend)
	cfg.Embedding.OllamaURL = getEnv("OLLAMA_URL", cfg.Embedding.OllamaURL)
	cfg.Embedding.Model = getEnv("EMBEDDING_MODEL", cfg.Embedding.Model)
	cfg.Vector.Backend = getEnv("VECTOR_BACKEND", cfg.Vector.Backend)
	cfg.Vector.DatabaseURL = getEnv("DATABASE_URL", cfg.Vector.DatabaseURL)
	cfg.ModelCacheRedisURL = getEnv("MODEL_CACHE_REDIS_URL", cfg.ModelCacheRedisURL)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = getEnv("LOG_FORMAT", cfg.LogFormat)

	if v := os.Getenv("BROWSER_WAIT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid BROWSER_WAIT %q: %w", v, err)
		}
		cfg.BrowserWait = d
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Port:           "8000",
		ScreenshotPath: "page.png",
		BrowserWait:    3 * time.Second,
		AllowedOrigins: "*",
		Embedding: EmbeddingConfig{
			Backend:   "ollama",
			OllamaURL: "http://localhost:11434",
			Model:     "all-minilm",
		},
		Vector: VectorConfig{
			Backend: "memory",
		},
		LogLevel:  "info",
		LogFormat: "console",
	}
}

func (c *Config) validate() error {
	switch c.Embedding.Backend {
	case "ollama", "gemini":
	default:
		return fmt.Errorf("unknown embedding backend %q", c.Embedding.Backend)
	}
	switch c.Vector.Backend {
	case "memory":
	case "postgres":
		if c.Vector.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required with the postgres vector backend")
		}
	default:
		return fmt.Errorf("unknown vector backend %q", c.Vector.Backend)
	}
	if c.Embedding.Backend == "gemini" && c.GoogleAPIKey == "" {
		return fmt.Errorf("GOOGLE_API_KEY is required with the gemini embedding backend")
	}
	return nil
}

func getEnv(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
