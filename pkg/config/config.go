// Package config loads tripgate settings from ~/.tripgate/config.yaml, a
// .env file and the environment. Environment variables take precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	AnthropicAPIKey string
	OpenAIAPIKey    string
	GoogleAPIKey    string
	DeepSeekAPIKey  string

	Provider string
	Model    string
	Strategy string

	AppEnv         string
	HTTPAddr       string
	MetricsEnabled bool
	RequestTimeout time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CacheTTL      time.Duration

	RateLimitPerMinute int
	ExportDir          string
	ConfigDir          string
}

// FileConfig represents the structure of ~/.tripgate/config.yaml
type FileConfig struct {
	APIKeys            APIKeysConfig `yaml:"api_keys"`
	Provider           string        `yaml:"provider"`
	Model              string        `yaml:"model"`
	Strategy           string        `yaml:"strategy"`
	AppEnv             string        `yaml:"app_env"`
	HTTP               HTTPConfig    `yaml:"http"`
	Redis              RedisConfig   `yaml:"redis"`
	CacheTTL           string        `yaml:"cache_ttl"`
	RateLimitPerMinute int           `yaml:"rate_limit_per_minute"`
	ExportDir          string        `yaml:"export_dir"`
}

// APIKeysConfig holds API key configuration from file.
type APIKeysConfig struct {
	Anthropic string `yaml:"anthropic"`
	OpenAI    string `yaml:"openai"`
	Google    string `yaml:"google"`
	DeepSeek  string `yaml:"deepseek"`
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr           string `yaml:"addr"`
	Metrics        *bool  `yaml:"metrics"`
	RequestTimeout string `yaml:"request_timeout"`
}

// RedisConfig holds the reply cache connection. An empty Addr disables
// the cache.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

const (
	defaultHTTPAddr       = ":8080"
	defaultCacheTTL       = 24 * time.Hour
	defaultRequestTimeout = 90 * time.Second
)

// Load reads configuration from the default config file, a .env file in
// the working directory and environment variables.
func Load() (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return load(configDir, filepath.Join(configDir, "config.yaml"), false)
}

// LoadFile loads configuration with a specific config file, which must
// exist and parse.
func LoadFile(path string) (*Config, error) {
	configDir, err := getConfigDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get config directory: %w", err)
	}
	return load(configDir, path, true)
}

func load(configDir, path string, required bool) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	fileConfig, err := loadFileConfig(path, required)
	if err != nil {
		return nil, err
	}

	cacheTTL, err := durationSetting("CACHE_TTL", fileConfig.CacheTTL, defaultCacheTTL)
	if err != nil {
		return nil, err
	}
	timeout, err := durationSetting("REQUEST_TIMEOUT", fileConfig.HTTP.RequestTimeout, defaultRequestTimeout)
	if err != nil {
		return nil, err
	}
	redisDB, err := intSetting("REDIS_DB", fileConfig.Redis.DB)
	if err != nil {
		return nil, err
	}
	rateLimit, err := intSetting("RATE_LIMIT_PER_MINUTE", fileConfig.RateLimitPerMinute)
	if err != nil {
		return nil, err
	}
	metrics := true
	if fileConfig.HTTP.Metrics != nil {
		metrics = *fileConfig.HTTP.Metrics
	}
	if v := os.Getenv("METRICS_ENABLED"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid METRICS_ENABLED %q: %w", v, err)
		}
		metrics = b
	}

	// Build config with env vars taking precedence over file
	cfg := &Config{
		AnthropicAPIKey:    getEnvOrDefault("ANTHROPIC_API_KEY", fileConfig.APIKeys.Anthropic),
		OpenAIAPIKey:       getEnvOrDefault("OPENAI_API_KEY", fileConfig.APIKeys.OpenAI),
		GoogleAPIKey:       getEnvOrDefault("GOOGLE_API_KEY", fileConfig.APIKeys.Google),
		DeepSeekAPIKey:     getEnvOrDefault("DEEPSEEK_API_KEY", fileConfig.APIKeys.DeepSeek),
		Provider:           getEnvOrDefault("TRIPGATE_PROVIDER", fileConfig.Provider),
		Model:              getEnvOrDefault("TRIPGATE_MODEL", fileConfig.Model),
		Strategy:           getEnvOrDefault("TRIPGATE_STRATEGY", fileConfig.Strategy),
		AppEnv:             getEnvOrDefault("APP_ENV", orDefault(fileConfig.AppEnv, "prod")),
		HTTPAddr:           getEnvOrDefault("HTTP_ADDR", orDefault(fileConfig.HTTP.Addr, defaultHTTPAddr)),
		MetricsEnabled:     metrics,
		RequestTimeout:     timeout,
		RedisAddr:          getEnvOrDefault("REDIS_ADDR", fileConfig.Redis.Addr),
		RedisPassword:      getEnvOrDefault("REDIS_PASSWORD", fileConfig.Redis.Password),
		RedisDB:            redisDB,
		CacheTTL:           cacheTTL,
		RateLimitPerMinute: rateLimit,
		ExportDir:          getEnvOrDefault("TRIPGATE_EXPORT_DIR", fileConfig.ExportDir),
		ConfigDir:          configDir,
	}
	return cfg, nil
}

// APIKey returns the configured key for a provider.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "anthropic":
		return c.AnthropicAPIKey
	case "openai":
		return c.OpenAIAPIKey
	case "google":
		return c.GoogleAPIKey
	case "deepseek":
		return c.DeepSeekAPIKey
	default:
		return ""
	}
}

// HasAdapter returns true if the API key for the given adapter is configured.
// The mock adapter needs none.
func (c *Config) HasAdapter(name string) bool {
	return name == "mock" || c.APIKey(name) != ""
}

// loadFileConfig reads the config file. A missing file yields an empty
// config unless required is set.
func loadFileConfig(path string, required bool) (*FileConfig, error) {
	cfg := &FileConfig{}

	data, err := os.ReadFile(path)
	if err != nil {
		if !required && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return cfg, nil
}

// getEnvOrDefault returns the environment variable value if set,
// otherwise returns the default value.
func getEnvOrDefault(envVar, defaultValue string) string {
	if val := strings.TrimSpace(os.Getenv(envVar)); val != "" {
		return val
	}
	return defaultValue
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

// durationSetting reads envVar, then the file value, as a Go duration. A
// bare number is taken as seconds.
func durationSetting(envVar, fileValue string, def time.Duration) (time.Duration, error) {
	raw := getEnvOrDefault(envVar, fileValue)
	if raw == "" {
		return def, nil
	}
	if n, err := strconv.Atoi(raw); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envVar, raw, err)
	}
	return d, nil
}

func intSetting(envVar string, fileValue int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(envVar))
	if raw == "" {
		return fileValue, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", envVar, raw, err)
	}
	return n, nil
}

func getConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	configDir := filepath.Join(home, ".tripgate")
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return "", err
	}
	return configDir, nil
}
