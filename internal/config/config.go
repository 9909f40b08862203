// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds the full application configuration. It is constructed once at
// process start and passed into the stores and AI clients.
type Config struct {
	DB       DBConfig
	Server   ServerConfig
	Archive  ArchiveConfig
	Gemini   GeminiConfig
	OpenAI   OpenAIConfig
	Pipeline PipelineConfig
}

// DBConfig holds PostgreSQL connection parameters.
type DBConfig struct {
	Host    string
	Port    int
	User    string
	Pass    string
	DBName  string
	SSLMode string
}

// DSN returns a PostgreSQL connection string.
func (c DBConfig) DSN() string {
	return "postgres://" + c.User + ":" + c.Pass +
		"@" + c.Host + ":" + strconv.Itoa(c.Port) +
		"/" + c.DBName + "?sslmode=" + c.SSLMode
}

// ServerConfig holds HTTP server parameters.
type ServerConfig struct {
	Port string
	Host string
}

// Addr returns the full listen address (host:port).
func (c ServerConfig) Addr() string {
	return c.Host + c.Port
}

// ArchiveConfig holds S3-compatible object storage parameters used to archive
// generated CSV exports. Optional: an empty endpoint disables archiving.
type ArchiveConfig struct {
	Endpoint  string
	Bucket    string
	AccessKey string
	SecretKey string
	Region    string
}

// PipelineConfig holds ingestion and processing parameters. Models lists the
// providers in processing order; each run drains one model fully before the
// next starts.
type PipelineConfig struct {
	Models       []string
	CSVDir       string
	MaxPerSource int
}

// GeminiConfig holds Gemini API parameters.
type GeminiConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// OpenAIConfig holds OpenAI API parameters.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// Load reads configuration from environment variables. A missing database
// password or provider API key is a startup error — provider credentials are
// never validated per-call.
func Load() (Config, error) {
	cfg := Config{
		DB: DBConfig{
			Host:    envOr("DB_HOST", "localhost"),
			Port:    envOrInt("DB_PORT", 5432),
			User:    envOr("DB_USER", "prensa"),
			Pass:    os.Getenv("DB_PASSWORD"),
			DBName:  envOr("DB_NAME", "prensa"),
			SSLMode: envOr("DB_SSLMODE", "disable"),
		},
		Server: ServerConfig{
			Port: envOr("SERVER_PORT", ":8080"),
			Host: envOr("SERVER_HOST", ""),
		},
		Archive: ArchiveConfig{
			Endpoint:  envOr("ARCHIVE_ENDPOINT", ""),
			Bucket:    envOr("ARCHIVE_BUCKET", "prensa-exports"),
			AccessKey: envOr("ARCHIVE_ACCESS_KEY", ""),
			SecretKey: envOr("ARCHIVE_SECRET_KEY", ""),
			Region:    envOr("ARCHIVE_REGION", "us-east-1"),
		},
		Gemini: GeminiConfig{
			APIKey:  os.Getenv("GEMINI_API_KEY"),
			BaseURL: envOr("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com"),
			Model:   envOr("GEMINI_MODEL", "gemini-2.0-flash"),
		},
		Pipeline: PipelineConfig{
			Models:       splitList(envOr("PIPELINE_MODELS", "GEMINI,OPENAI")),
			CSVDir:       envOr("PIPELINE_CSV_DIR", "./data"),
			MaxPerSource: envOrInt("PIPELINE_MAX_PER_SOURCE", 50),
		},
		OpenAI: OpenAIConfig{
			APIKey:  os.Getenv("OPENAI_API_KEY"),
			BaseURL: envOr("OPENAI_BASE_URL", "https://api.openai.com"),
			Model:   envOr("OPENAI_MODEL", "gpt-4o"),
		},
	}

	if cfg.DB.Pass == "" {
		return Config{}, fmt.Errorf("config: DB_PASSWORD is required")
	}
	if cfg.Gemini.APIKey == "" {
		return Config{}, fmt.Errorf("config: GEMINI_API_KEY is required")
	}
	if cfg.OpenAI.APIKey == "" {
		return Config{}, fmt.Errorf("config: OPENAI_API_KEY is required")
	}

	return cfg, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func envOrInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
