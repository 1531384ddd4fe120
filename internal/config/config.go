// Package config provides configuration for the research assistant.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the service configuration.
type Config struct {
	// Server settings
	HTTPPort int `yaml:"http_port"`

	// Database
	DatabaseURL string `yaml:"database_url"`

	// Auth
	JWTSecret string `yaml:"-"`

	// Paper source
	ArxivURL     string        `yaml:"arxiv_url"`
	ArxivTimeout time.Duration `yaml:"arxiv_timeout"`

	// Web source
	SerpURL     string        `yaml:"serp_url"`
	SerpAPIKey  string        `yaml:"-"`
	SerpTimeout time.Duration `yaml:"serp_timeout"`

	// Generation backend
	HFURL      string        `yaml:"hf_url"`
	HFAPIKey   string        `yaml:"-"`
	HFModel    string        `yaml:"hf_model"`
	LLMTimeout time.Duration `yaml:"llm_timeout"`
	Mode       string        `yaml:"mode"`

	// Pipeline limits
	MaxPapers          int `yaml:"max_papers"`
	MaxWebResults      int `yaml:"max_web_results"`
	ContextMessages    int `yaml:"context_messages"`
	HistoryLimit       int `yaml:"history_limit"`
	MaxSearchResults   int `yaml:"max_search_results"`
	SessionListDefault int `yaml:"session_list_default"`

	// Route policy (rego file; empty uses the built-in policy)
	PolicyFile string `yaml:"policy_file"`

	// Retrieval cache
	RedisURL string        `yaml:"redis_url"`
	CacheTTL time.Duration `yaml:"cache_ttl"`

	// Logging
	LogLevel string `yaml:"log_level"`
}

// Load loads configuration from a .env file (if present), the process
// environment and, when CONFIG_FILE is set, a YAML overlay.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:           getEnvInt("HTTP_PORT", 8080),
		DatabaseURL:        getEnv("DATABASE_URL", "file:research_assistant.db?cache=shared&mode=rwc"),
		JWTSecret:          getEnv("JWT_SECRET", "dev-secret-key-change-in-production"),
		ArxivURL:           getEnv("ARXIV_URL", "http://export.arxiv.org"),
		ArxivTimeout:       time.Duration(getEnvInt("ARXIV_TIMEOUT_MS", 15000)) * time.Millisecond,
		SerpURL:            getEnv("SERP_URL", "https://serpapi.com"),
		SerpAPIKey:         getEnv("SERPAPI_API_KEY", ""),
		SerpTimeout:        time.Duration(getEnvInt("SERP_TIMEOUT_MS", 10000)) * time.Millisecond,
		HFURL:              getEnv("HF_URL", "https://api-inference.huggingface.co"),
		HFAPIKey:           getEnv("HUGGINGFACE_API_KEY", ""),
		HFModel:            getEnv("HF_MODEL", "mistralai/Mistral-7B-Instruct-v0.2"),
		LLMTimeout:         time.Duration(getEnvInt("LLM_TIMEOUT_MS", 30000)) * time.Millisecond,
		Mode:               getEnv("QA_MODE", ""),
		MaxPapers:          getEnvInt("MAX_PAPERS", 10),
		MaxWebResults:      getEnvInt("MAX_WEB_RESULTS", 5),
		ContextMessages:    getEnvInt("CONTEXT_MESSAGES", 5),
		HistoryLimit:       getEnvInt("HISTORY_LIMIT", 10),
		MaxSearchResults:   getEnvInt("MAX_SEARCH_RESULTS", 50),
		SessionListDefault: getEnvInt("SESSION_LIST_LIMIT", 10),
		PolicyFile:         getEnv("POLICY_FILE", ""),
		RedisURL:           getEnv("REDIS_URL", ""),
		CacheTTL:           time.Duration(getEnvInt("CACHE_TTL_SECONDS", 600)) * time.Second,
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.overlay(path); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// overlay applies non-zero values from a YAML file on top of cfg.
// Secrets are never read from the file.
func (c *Config) overlay(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}

	setString(&c.DatabaseURL, file.DatabaseURL)
	setString(&c.ArxivURL, file.ArxivURL)
	setString(&c.SerpURL, file.SerpURL)
	setString(&c.HFURL, file.HFURL)
	setString(&c.HFModel, file.HFModel)
	setString(&c.Mode, file.Mode)
	setString(&c.PolicyFile, file.PolicyFile)
	setString(&c.RedisURL, file.RedisURL)
	setString(&c.LogLevel, file.LogLevel)
	setInt(&c.HTTPPort, file.HTTPPort)
	setInt(&c.MaxPapers, file.MaxPapers)
	setInt(&c.MaxWebResults, file.MaxWebResults)
	setInt(&c.ContextMessages, file.ContextMessages)
	setInt(&c.HistoryLimit, file.HistoryLimit)
	setInt(&c.MaxSearchResults, file.MaxSearchResults)
	setInt(&c.SessionListDefault, file.SessionListDefault)
	setDuration(&c.ArxivTimeout, file.ArxivTimeout)
	setDuration(&c.SerpTimeout, file.SerpTimeout)
	setDuration(&c.LLMTimeout, file.LLMTimeout)
	setDuration(&c.CacheTTL, file.CacheTTL)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if intVal, err := strconv.Atoi(val); err == nil {
			return intVal
		}
	}
	return defaultVal
}
