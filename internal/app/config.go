package app

import (
	"os"
	"time"

	"github.com/cristalhq/aconfig"
	"github.com/cristalhq/aconfig/aconfigyaml"
	"github.com/go-faster/errors"
)

const defaultAddr = "0.0.0.0:8080"

// Config holds the complete application configuration, loadable from
// environment variables (ESTORE_ prefix), flags, or YAML config files.
type Config struct {
	Addr        string `default:"0.0.0.0:8080" usage:"API server listen address"`
	CatalogFile string `usage:"JSON catalog file, gzip when it ends in .gz; built-in seed when empty" flag:"catalog-file"`
	SessionDir  string `usage:"Pebble directory for sessions; in-memory when empty" flag:"session-dir"`
	GenAI       GenAIConfig
	RateLimit   RateLimitConfig
	CORS        CORSConfig
	Graceful    GracefulConfig
}

// GenAIConfig configures the Gemini advisor. No API key disables it.
type GenAIConfig struct {
	APIKey string `usage:"Gemini API key (ESTORE_GENAI_APIKEY, GEMINI_API_KEY or API_KEY)" flag:"genai-api-key"`
	Model  string `default:"gemini-3-flash-preview" usage:"Gemini model" flag:"genai-model"`
}

// RateLimitConfig controls the per-client limiter on AI endpoints.
type RateLimitConfig struct {
	Max    int           `default:"20" usage:"Max AI requests per window, 0 disables"`
	Window time.Duration `default:"1m" usage:"Rate limit window duration"`
}

// CORSConfig controls Cross-Origin Resource Sharing headers.
type CORSConfig struct {
	Origins          []string `default:"*" usage:"Allowed CORS origins"`
	AllowCredentials bool     `default:"false" usage:"Allow credentials (cookies, auth headers)" flag:"cors-credentials"`
}

// GracefulConfig controls graceful shutdown timing.
type GracefulConfig struct {
	ReadinessDelay  time.Duration `default:"3s"  usage:"Delay after readiness=false before shutdown" flag:"readiness-delay"`
	ShutdownTimeout time.Duration `default:"15s" usage:"Maximum shutdown duration" flag:"shutdown-timeout"`
}

// LoadConfig loads configuration from environment variables, YAML config files,
// and applies platform-specific defaults.
func LoadConfig() (*Config, error) {
	var cfg Config
	loader := aconfig.LoaderFor(&cfg, aconfig.Config{
		EnvPrefix: "ESTORE",
		Files:     []string{"config.yaml", "/etc/estore/config.yaml"},
		FileDecoders: map[string]aconfig.FileDecoder{
			".yaml": aconfigyaml.New(),
		},
	})
	if err := loader.Load(); err != nil {
		return nil, errors.Wrap(err, "load config")
	}
	cfg.applyPlatformDefaults(os.Getenv)

	if cfg.RateLimit.Max > 0 && cfg.RateLimit.Window <= 0 {
		return nil, errors.Errorf("rate limit window must be positive, got %s", cfg.RateLimit.Window)
	}
	return &cfg, nil
}

// applyPlatformDefaults maps platform-provided variables with standard names
// (PORT, GEMINI_API_KEY, API_KEY) onto the configuration.
func (c *Config) applyPlatformDefaults(getenv func(string) string) {
	if c.GenAI.APIKey == "" {
		for _, name := range []string{"GEMINI_API_KEY", "API_KEY"} {
			if v := getenv(name); v != "" {
				c.GenAI.APIKey = v
				break
			}
		}
	}
	if port := getenv("PORT"); port != "" && (c.Addr == "" || c.Addr == defaultAddr) {
		c.Addr = "0.0.0.0:" + port
	}
	if c.Addr == "" {
		c.Addr = defaultAddr
	}
}
