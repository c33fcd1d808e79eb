package conf

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config is the immutable application configuration, loaded once at startup
// and passed by reference into every component.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Log       LogConfig       `mapstructure:"log"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Search    SearchConfig    `mapstructure:"search"`
	Gemini    GeminiConfig    `mapstructure:"gemini"`
	Fetcher   FetcherConfig   `mapstructure:"fetcher"`
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	Reports   ReportsConfig   `mapstructure:"reports"`
}

type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

type LogConfig struct {
	Level            string        `mapstructure:"level"`
	Format           string        `mapstructure:"format"`
	Output           string        `mapstructure:"output"`
	File             FileLogConfig `mapstructure:"file"`
	EnableCaller     bool          `mapstructure:"enablecaller"`
	EnableStacktrace bool          `mapstructure:"enablestacktrace"`
}

type FileLogConfig struct {
	Filename   string `mapstructure:"filename"`
	MaxSize    int    `mapstructure:"maxsize"`
	MaxAge     int    `mapstructure:"maxage"`
	MaxBackups int    `mapstructure:"maxbackups"`
	Compress   bool   `mapstructure:"compress"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig holds Google Custom Search credentials and tuning.
type SearchConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	CX         string        `mapstructure:"cx"` // programmable search engine id
	Timeout    time.Duration `mapstructure:"timeout"`
	MaxRetries int           `mapstructure:"max_retries"`
}

// GeminiConfig holds the LLM provider settings.
type GeminiConfig struct {
	// When UseBackendAPIKey is true the server-side key is used; otherwise the
	// caller must supply one per request.
	UseBackendAPIKey bool          `mapstructure:"use_backend_api_key"`
	APIKey           string        `mapstructure:"api_key"`
	BaseURL          string        `mapstructure:"base_url"`
	Timeout          time.Duration `mapstructure:"timeout"`
	DefaultModel     string        `mapstructure:"default_model"`
	AllowedModels    []string      `mapstructure:"allowed_models"`
}

// FetcherConfig tunes the page content fetcher.
type FetcherConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	ProxyURL    string        `mapstructure:"proxy_url"` // http://, https:// or socks5://, credentials in URL
	InsecureTLS bool          `mapstructure:"insecure_tls"`
	Locale      string        `mapstructure:"locale"` // "id" or "en", drives Accept-Language
}

type RateLimitConfig struct {
	SearchMax      int           `mapstructure:"search_max"`
	SearchWindow   time.Duration `mapstructure:"search_window"`
	GenerateMax    int           `mapstructure:"generate_max"`
	GenerateWindow time.Duration `mapstructure:"generate_window"`
}

type ReportsConfig struct {
	MaxReports int `mapstructure:"max_reports"`
}

// LoadConfig reads configuration from the given file, with env overrides.
func LoadConfig(path string) (*Config, error) {
	viper.SetConfigFile(path)
	viper.SetEnvPrefix("NEXTMIND")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)

	viper.SetDefault("redis.addr", "localhost:6379")

	viper.SetDefault("search.timeout", 10*time.Second)
	viper.SetDefault("search.max_retries", 3)

	viper.SetDefault("gemini.base_url", "https://generativelanguage.googleapis.com")
	viper.SetDefault("gemini.timeout", 120*time.Second)
	viper.SetDefault("gemini.default_model", "gemini-2.5-pro-exp-03-25")
	viper.SetDefault("gemini.allowed_models", []string{
		"gemini-2.0-flash",
		"gemini-2.0-flash-lite",
		"gemini-2.5-pro-exp-03-25",
		"gemini-2.0-flash-thinking-exp-01-21",
	})

	viper.SetDefault("fetcher.timeout", 15*time.Second)
	viper.SetDefault("fetcher.max_retries", 3)
	viper.SetDefault("fetcher.locale", "en")

	viper.SetDefault("ratelimit.search_max", 10)
	viper.SetDefault("ratelimit.search_window", time.Minute)
	viper.SetDefault("ratelimit.generate_max", 5)
	viper.SetDefault("ratelimit.generate_window", 5*time.Minute)

	viper.SetDefault("reports.max_reports", 50)
}
