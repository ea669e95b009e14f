package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	LLM       LLMConfig       `yaml:"llm"`
	FAQ       FAQConfig       `yaml:"faq"`
	Assistant AssistantConfig `yaml:"assistant"`
	Session   SessionConfig   `yaml:"session"`
	Postgres  PostgresConfig  `yaml:"postgres"`
	Valkey    ValkeyConfig    `yaml:"valkey"`
	Mail      MailConfig      `yaml:"mail"`
	Archive   ArchiveConfig   `yaml:"archive"`
	Auth      AuthConfig      `yaml:"auth"`
	Tools     ToolsConfig     `yaml:"tools"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
	Retry          RetryConfig     `yaml:"retry"`
	MCPEnabled     bool            `yaml:"mcpEnabled"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// RetryConfig configures best-effort retries for idempotent requests.
type RetryConfig struct {
	Enabled     bool          `yaml:"enabled"`
	MaxAttempts int           `yaml:"maxAttempts"`
	BaseBackoff time.Duration `yaml:"baseBackoff"`
	// Include lists the POST paths that are safe to replay.
	Include []string `yaml:"include"`
}

// LLMConfig contains ChatGPT/OpenAI settings.
type LLMConfig struct {
	APIKey  string `yaml:"apiKey"`
	BaseURL string `yaml:"baseUrl"`
	Model   string `yaml:"model"`
	// EmbeddingModel "deterministic" selects the offline hashing embedder.
	EmbeddingModel string        `yaml:"embeddingModel"`
	Temperature    float32       `yaml:"temperature"`
	RequestTimeout time.Duration `yaml:"requestTimeout"`
}

// FAQConfig controls the knowledge base lookup.
type FAQConfig struct {
	SimilarityThreshold float64       `yaml:"similarityThreshold"`
	CacheTTL            time.Duration `yaml:"cacheTtl"`
	TopRecommendations  int           `yaml:"topRecommendations"`
	TranslationPrompt   string        `yaml:"translationPrompt"`
	AdminName           string        `yaml:"adminName"`
}

// AssistantConfig bounds the tool loop.
type AssistantConfig struct {
	SystemPrompt       string        `yaml:"systemPrompt"`
	MaxToolRounds      int           `yaml:"maxToolRounds"`
	ToolTimeout        time.Duration `yaml:"toolTimeout"`
	ToolConcurrency    int           `yaml:"toolConcurrency"`
	HistoryTokenBudget int           `yaml:"historyTokenBudget"`
}

// SessionConfig selects the conversation store.
type SessionConfig struct {
	Backend  string        `yaml:"backend"`
	Capacity int           `yaml:"capacity"`
	TTL      time.Duration `yaml:"ttl"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// ValkeyConfig contains connection information for cache, sessions and the job queue.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// MailConfig covers SMTP delivery and the address directory.
type MailConfig struct {
	Host      string            `yaml:"host"`
	Port      int               `yaml:"port"`
	Username  string            `yaml:"username"`
	Password  string            `yaml:"password"`
	From      string            `yaml:"from"`
	Signature string            `yaml:"signature"`
	StartTLS  bool              `yaml:"startTls"`
	Directory map[string]string `yaml:"directory"`
	// Fallback names the directory entry used for unknown recipients.
	Fallback string        `yaml:"fallback"`
	Timeout  time.Duration `yaml:"timeout"`
}

// ArchiveConfig points at the S3 compatible transcript bucket.
type ArchiveConfig struct {
	Endpoint        string `yaml:"endpoint"`
	AccessKeyID     string `yaml:"accessKeyId"`
	SecretAccessKey string `yaml:"secretAccessKey"`
	Bucket          string `yaml:"bucket"`
	Region          string `yaml:"region"`
	UseSSL          bool   `yaml:"useSsl"`
}

// AuthConfig configures token issuance.
type AuthConfig struct {
	Secret          string        `yaml:"secret"`
	TokenTTL        time.Duration `yaml:"tokenTtl"`
	RefreshTokenTTL time.Duration `yaml:"refreshTokenTtl"`
	AdminEmails     []string      `yaml:"adminEmails"`
	Google          GoogleConfig  `yaml:"google"`
}

// GoogleConfig holds OAuth client settings.
type GoogleConfig struct {
	ClientID             string `yaml:"clientId"`
	ClientSecret         string `yaml:"clientSecret"`
	RedirectURL          string `yaml:"redirectUrl"`
	TokenEncryptionKey   string `yaml:"tokenEncryptionKey"`
	PostLoginRedirectURL string `yaml:"postLoginRedirectUrl"`
}

// ToolsConfig configures the external tool adapters.
type ToolsConfig struct {
	ArteURL     string        `yaml:"arteUrl"`
	WebTimeout  time.Duration `yaml:"webTimeout"`
	WebMaxChars int           `yaml:"webMaxChars"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	setString(&cfg.HTTP.Address, "HTTP_ADDRESS")
	setList(&cfg.HTTP.AllowedOrigins, "HTTP_ALLOWED_ORIGINS")
	setBool(&cfg.HTTP.RateLimit.Enabled, "HTTP_RATE_LIMIT_ENABLED")
	setInt(&cfg.HTTP.RateLimit.RequestsPerMinute, "HTTP_RATE_LIMIT_RPM")
	setInt(&cfg.HTTP.RateLimit.Burst, "HTTP_RATE_LIMIT_BURST")
	setBool(&cfg.HTTP.Retry.Enabled, "HTTP_RETRY_ENABLED")
	setInt(&cfg.HTTP.Retry.MaxAttempts, "HTTP_RETRY_MAX_ATTEMPTS")
	setDuration(&cfg.HTTP.Retry.BaseBackoff, "HTTP_RETRY_BASE_BACKOFF")
	setBool(&cfg.HTTP.MCPEnabled, "HTTP_MCP_ENABLED")

	setString(&cfg.LLM.APIKey, "LLM_API_KEY")
	setString(&cfg.LLM.BaseURL, "LLM_BASE_URL")
	setString(&cfg.LLM.Model, "LLM_MODEL")
	setString(&cfg.LLM.EmbeddingModel, "LLM_EMBEDDING_MODEL")
	if v := os.Getenv("LLM_TEMPERATURE"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 32); err == nil {
			cfg.LLM.Temperature = float32(parsed)
		}
	}
	setDuration(&cfg.LLM.RequestTimeout, "LLM_REQUEST_TIMEOUT")

	if v := os.Getenv("FAQ_SIMILARITY_THRESHOLD"); v != "" {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.FAQ.SimilarityThreshold = parsed
		}
	}
	setDuration(&cfg.FAQ.CacheTTL, "FAQ_CACHE_TTL")
	setInt(&cfg.FAQ.TopRecommendations, "FAQ_RECOMMENDATIONS")
	setString(&cfg.FAQ.AdminName, "FAQ_ADMIN_NAME")

	setInt(&cfg.Assistant.MaxToolRounds, "ASSISTANT_MAX_TOOL_ROUNDS")
	setDuration(&cfg.Assistant.ToolTimeout, "ASSISTANT_TOOL_TIMEOUT")
	setInt(&cfg.Assistant.HistoryTokenBudget, "ASSISTANT_HISTORY_TOKEN_BUDGET")

	setString(&cfg.Session.Backend, "SESSION_BACKEND")
	setInt(&cfg.Session.Capacity, "SESSION_CAPACITY")
	setDuration(&cfg.Session.TTL, "SESSION_TTL")

	setString(&cfg.Postgres.DSN, "POSTGRES_DSN")
	if v := os.Getenv("POSTGRES_MAX_CONNS"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.MaxConns = int32(parsed)
		}
	}
	setString(&cfg.Valkey.Addr, "VALKEY_ADDR")
	setString(&cfg.Valkey.Prefix, "VALKEY_PREFIX")

	setString(&cfg.Mail.Host, "SMTP_HOST")
	setInt(&cfg.Mail.Port, "SMTP_PORT")
	setString(&cfg.Mail.Username, "SMTP_USERNAME")
	setString(&cfg.Mail.Password, "SMTP_PASSWORD")
	setString(&cfg.Mail.From, "SMTP_FROM")
	setString(&cfg.Mail.Fallback, "MAIL_FALLBACK_NAME")
	setDuration(&cfg.Mail.Timeout, "SMTP_TIMEOUT")

	setString(&cfg.Archive.Endpoint, "ARCHIVE_ENDPOINT")
	setString(&cfg.Archive.AccessKeyID, "ARCHIVE_ACCESS_KEY_ID")
	setString(&cfg.Archive.SecretAccessKey, "ARCHIVE_SECRET_ACCESS_KEY")
	setString(&cfg.Archive.Bucket, "ARCHIVE_BUCKET")

	setString(&cfg.Auth.Secret, "AUTH_SECRET")
	setDuration(&cfg.Auth.TokenTTL, "AUTH_TOKEN_TTL")
	setList(&cfg.Auth.AdminEmails, "AUTH_ADMIN_EMAILS")
	setString(&cfg.Auth.Google.ClientID, "GOOGLE_CLIENT_ID")
	setString(&cfg.Auth.Google.ClientSecret, "GOOGLE_CLIENT_SECRET")
	setString(&cfg.Auth.Google.RedirectURL, "GOOGLE_REDIRECT_URL")
	setString(&cfg.Auth.Google.TokenEncryptionKey, "GOOGLE_TOKEN_ENCRYPTION_KEY")
	setString(&cfg.Auth.Google.PostLoginRedirectURL, "GOOGLE_POST_LOGIN_REDIRECT_URL")

	setString(&cfg.Tools.ArteURL, "TOOLS_ARTE_URL")
	setDuration(&cfg.Tools.WebTimeout, "TOOLS_WEB_TIMEOUT")
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v == "1" || strings.EqualFold(v, "true")
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			*dst = parsed
		}
	}
}

func setList(dst *[]string, key string) {
	v := os.Getenv(key)
	if v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	*dst = out
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 90 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 60,
				Burst:             20,
			},
			Retry: RetryConfig{
				Enabled:     true,
				MaxAttempts: 3,
				BaseBackoff: 150 * time.Millisecond,
				Include: []string{
					"/api/v1/tools/search",
					"/api/v1/tools/invoice",
				},
			},
			MCPEnabled: true,
		},
		LLM: LLMConfig{
			Model:          "gpt-4o-mini",
			EmbeddingModel: "text-embedding-3-small",
			Temperature:    0.2,
			RequestTimeout: 60 * time.Second,
		},
		FAQ: FAQConfig{
			SimilarityThreshold: 0.72,
			CacheTTL:            6 * time.Hour,
			TopRecommendations:  5,
			AdminName:           "Administrador",
		},
		Assistant: AssistantConfig{
			MaxToolRounds:      10,
			ToolTimeout:        20 * time.Second,
			ToolConcurrency:    4,
			HistoryTokenBudget: 3000,
		},
		Session: SessionConfig{
			Backend:  "memory",
			Capacity: 1024,
			TTL:      2 * time.Hour,
		},
		Postgres: PostgresConfig{
			MaxConns: 4,
		},
		Valkey: ValkeyConfig{
			Prefix: "faq",
		},
		Mail: MailConfig{
			Port:      587,
			Signature: "FAQ Agent",
			StartTLS:  true,
			Timeout:   30 * time.Second,
		},
		Auth: AuthConfig{
			TokenTTL:        time.Hour,
			RefreshTokenTTL: 7 * 24 * time.Hour,
		},
		Tools: ToolsConfig{
			WebTimeout:  15 * time.Second,
			WebMaxChars: 8000,
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if strings.TrimSpace(c.LLM.Model) == "" {
		return errors.New("llm.model cannot be empty")
	}
	if strings.TrimSpace(c.LLM.EmbeddingModel) == "" {
		return errors.New("llm.embeddingModel cannot be empty")
	}
	if c.LLM.RequestTimeout <= 0 {
		return errors.New("llm.requestTimeout must be positive")
	}
	if c.FAQ.SimilarityThreshold < 0 || c.FAQ.SimilarityThreshold > 1 {
		return errors.New("faq.similarityThreshold must be within [0, 1]")
	}
	if c.FAQ.CacheTTL < 0 {
		return errors.New("faq.cacheTtl cannot be negative")
	}
	if c.FAQ.TopRecommendations < 0 {
		return errors.New("faq.topRecommendations cannot be negative")
	}
	if c.Assistant.MaxToolRounds <= 0 {
		return errors.New("assistant.maxToolRounds must be positive")
	}
	if c.Assistant.HistoryTokenBudget < 0 {
		return errors.New("assistant.historyTokenBudget cannot be negative")
	}
	switch c.Session.Backend {
	case "memory":
		if c.Session.Capacity <= 0 {
			return errors.New("session.capacity must be positive")
		}
	case "valkey":
		if strings.TrimSpace(c.Valkey.Addr) == "" {
			return errors.New("valkey.addr cannot be empty when session.backend is valkey")
		}
	default:
		return fmt.Errorf("session.backend %q is not supported", c.Session.Backend)
	}
	if c.Session.TTL < 0 {
		return errors.New("session.ttl cannot be negative")
	}
	if c.Mail.Host != "" && strings.TrimSpace(c.Mail.From) == "" {
		return errors.New("mail.from cannot be empty when mail.host is set")
	}
	if c.Archive.Endpoint != "" && strings.TrimSpace(c.Archive.Bucket) == "" {
		return errors.New("archive.bucket cannot be empty when archive.endpoint is set")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if c.HTTP.Retry.Enabled {
		if c.HTTP.Retry.MaxAttempts <= 0 {
			return errors.New("http.retry.maxAttempts must be positive")
		}
		if c.HTTP.Retry.BaseBackoff <= 0 {
			return errors.New("http.retry.baseBackoff must be positive")
		}
	}
	return nil
}
