package config

import (
	"os"
	"reviewsense/pkg/llm"
	"strconv"

	"github.com/joho/godotenv"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	defaultMaxUploadBytes = 5 << 20
)

type Config struct {
	Port        string
	Host        string
	FrontendURL string

	Provider           string
	Model              string
	OpenAIAPIKey       string
	AnthropicAPIKey    string
	BaseURL            string
	AnthropicMaxTokens int

	MaxUploadBytes int64

	// ReviewsFile is only read by the batch summarizer.
	ReviewsFile string
}

// Load reads configuration from the environment, after loading a .env file if one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "8080"),
		Host:               os.Getenv("HOST"),
		FrontendURL:        os.Getenv("FRONTEND_URL"),
		Provider:           getEnvOrDefault("LLM_PROVIDER", ProviderOpenAI),
		Model:              os.Getenv("LLM_MODEL"),
		OpenAIAPIKey:       os.Getenv("OPENAI_API_KEY"),
		AnthropicAPIKey:    os.Getenv("ANTHROPIC_API_KEY"),
		BaseURL:            os.Getenv("LLM_BASE_URL"),
		AnthropicMaxTokens: getEnvOrDefaultInt("ANTHROPIC_MAX_TOKENS", llm.DefaultAnthropicMaxTokens),
		MaxUploadBytes:     int64(getEnvOrDefaultInt("MAX_UPLOAD_BYTES", defaultMaxUploadBytes)),
		ReviewsFile:        os.Getenv("REVIEWS_FILE"),
	}

	if cfg.Model == "" {
		cfg.Model = llm.DefaultOpenAIModel
		if cfg.Provider == ProviderAnthropic {
			cfg.Model = llm.DefaultAnthropicModel
		}
	}

	return cfg, cfg.validate()
}

func (c *Config) validate() error {
	switch c.Provider {
	case ProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			return &ConfigError{Field: "OPENAI_API_KEY", Message: "OpenAI API key is required"}
		}
	case ProviderAnthropic:
		if c.AnthropicAPIKey == "" {
			return &ConfigError{Field: "ANTHROPIC_API_KEY", Message: "Anthropic API key is required"}
		}
	default:
		return &ConfigError{Field: "LLM_PROVIDER", Message: "must be openai or anthropic, got " + strconv.Quote(c.Provider)}
	}

	if c.MaxUploadBytes <= 0 {
		return &ConfigError{Field: "MAX_UPLOAD_BYTES", Message: "must be positive"}
	}
	return nil
}

// Addr is the listen address for the web server.
func (c *Config) Addr() string {
	return c.Host + ":" + c.Port
}

// AllowedOrigins lists the CORS origins: the local frontend plus FRONTEND_URL.
func (c *Config) AllowedOrigins() []string {
	origins := []string{"http://localhost:3000"}
	if c.FrontendURL != "" {
		origins = append(origins, c.FrontendURL)
	}
	return origins
}

// NewCompleter builds the completion client for the configured provider.
func (c *Config) NewCompleter() llm.Completer {
	if c.Provider == ProviderAnthropic {
		return llm.NewAnthropicClient(c.AnthropicAPIKey, c.BaseURL, c.AnthropicMaxTokens)
	}
	return llm.NewOpenAIClient(c.OpenAIAPIKey, c.BaseURL)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvOrDefaultInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return e.Field + ": " + e.Message
}
