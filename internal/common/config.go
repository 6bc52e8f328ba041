package common

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string         `toml:"environment"` // "development" or "production"
	Market      MarketConfig   `toml:"market"`
	Schedule    ScheduleConfig `toml:"schedule"`
	Pipeline    PipelineConfig `toml:"pipeline"`
	Briefing    BriefingConfig `toml:"briefing"`
	LLM         LLMConfig      `toml:"llm"`
	Gemini      GeminiConfig   `toml:"gemini"`
	Claude      ClaudeConfig   `toml:"claude"`
	Speech      SpeechConfig   `toml:"speech"`
	Video       VideoConfig    `toml:"video"`
	Upload      UploadConfig   `toml:"upload"`
	Logging     LoggingConfig  `toml:"logging"`
}

// MarketConfig identifies the index the pipeline reports on
type MarketConfig struct {
	Symbol      string `toml:"symbol" validate:"required"` // Provider symbol (e.g. "^NSEI")
	DisplayName string `toml:"display_name"`               // Human name used in scripts and titles (e.g. "NIFTY 50")
	BaseURL     string `toml:"base_url"`                   // Override market data base URL (tests)
	RateLimit   int    `toml:"rate_limit"`                 // Requests per second to the data provider
}

// ScheduleConfig controls when reports run
type ScheduleConfig struct {
	Policy   string `toml:"policy" validate:"oneof=range exact"` // "range" or "exact" hour matching
	Timezone string `toml:"timezone"`                            // IANA zone for report selection (default: "Asia/Kolkata")
	Cron     string `toml:"cron"`                                // Daemon mode cron expression (default: hourly)
	Daemon   bool   `toml:"daemon"`                              // Run continuously under cron instead of one-shot
}

// PipelineConfig selects the deployment mode and artifact locations
type PipelineConfig struct {
	Mode      string `toml:"mode" validate:"oneof=video script"` // "video" = full render+upload, "script" = narration text only
	OutputDir string `toml:"output_dir"`                         // Audio, scripts and final videos
	AssetsDir string `toml:"assets_dir"`                         // Chart images
}

// BriefingConfig locates hand-authored context files
type BriefingConfig struct {
	Dir string `toml:"dir"` // Directory containing briefing YAML files (defaults used when absent)
}

// LLMProvider represents the AI provider type
type LLMProvider string

const (
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
	// LLMProviderNone disables generation; scripts come from the deterministic fallback
	LLMProviderNone LLMProvider = "none"
)

// LLMConfig selects the script generation provider
type LLMConfig struct {
	Provider LLMProvider `toml:"provider" validate:"oneof=gemini claude none"`
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`     // Google Gemini API key
	Model       string  `toml:"model"`       // Model for script generation (default: "gemini-2.0-flash")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.35)
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`     // Anthropic API key
	Model       string  `toml:"model"`       // Model for script generation (default: "claude-haiku-3-5-20241022")
	Timeout     string  `toml:"timeout"`     // Operation timeout as duration string (default: "2m")
	Temperature float32 `toml:"temperature"` // Completion temperature (default: 0.35)
}

// SpeechConfig contains Amazon Polly configuration.
// All three credential values are required for synthesis; when any is
// missing the synthesizer reports not-configured and the pipeline uses a
// silent placeholder track instead.
type SpeechConfig struct {
	AccessKeyID     string `toml:"access_key_id"`
	SecretAccessKey string `toml:"secret_access_key"`
	Region          string `toml:"region"`
	Voice           string `toml:"voice"` // Polly voice ID (default: "Matthew")
}

// VideoConfig controls the rendered clip
type VideoConfig struct {
	Width       int `toml:"width"`        // Frame width (default: 1080)
	Height      int `toml:"height"`       // Frame height (default: 1920)
	FPS         int `toml:"fps"`          // Frame rate (default: 24)
	MaxDuration int `toml:"max_duration"` // Clip ceiling in seconds (default: 30)
}

// UploadConfig contains video platform upload configuration
type UploadConfig struct {
	Enabled           bool   `toml:"enabled"`             // Publish the rendered video
	ClientSecretsFile string `toml:"client_secrets_file"` // OAuth client secret JSON (default: "client_secret.json")
	TokenFile         string `toml:"token_file"`          // Cached OAuth token (default: "token.json")
	Privacy           string `toml:"privacy"`             // "public", "unlisted" or "private"
	CategoryID        string `toml:"category_id"`         // Platform category (default: "28", Science & Technology)
}

// LoggingConfig controls arbor logger output
type LoggingConfig struct {
	Level  string   `toml:"level"`  // "debug", "info", "warn", "error"
	Output []string `toml:"output"` // "stdout", "file"
}

// NewDefaultConfig creates a configuration with default values.
// Only user-facing settings are exposed in tickercast.toml; rendering
// internals stay hardcoded for output stability.
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Market: MarketConfig{
			Symbol:      "^NSEI",
			DisplayName: "NIFTY 50",
			RateLimit:   5, // Yahoo throttles aggressively; stay conservative
		},
		Schedule: ScheduleConfig{
			Policy:   "range",
			Timezone: "Asia/Kolkata",
			Cron:     "0 * * * *", // Hourly; the plan decides whether anything runs
			Daemon:   false,
		},
		Pipeline: PipelineConfig{
			Mode:      "video",
			OutputDir: "output",
			AssetsDir: "assets",
		},
		Briefing: BriefingConfig{
			Dir: "./briefing",
		},
		LLM: LLMConfig{
			Provider: LLMProviderGemini,
		},
		Gemini: GeminiConfig{
			APIKey:      "",
			Model:       "gemini-2.0-flash",
			Timeout:     "2m",
			Temperature: 0.35,
		},
		Claude: ClaudeConfig{
			APIKey:      "",
			Model:       "claude-haiku-3-5-20241022",
			Timeout:     "2m",
			Temperature: 0.35,
		},
		Speech: SpeechConfig{
			Voice: "Matthew",
		},
		Video: VideoConfig{
			Width:       1080,
			Height:      1920,
			FPS:         24,
			MaxDuration: 30,
		},
		Upload: UploadConfig{
			Enabled:           true,
			ClientSecretsFile: "client_secret.json",
			TokenFile:         "token.json",
			Privacy:           "public",
			CategoryID:        "28",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Output: []string{"stdout", "file"},
		},
	}
}

// LoadFromFiles loads configuration from multiple files with priority:
// defaults -> file1 -> file2 -> ... -> env. Later files override earlier
// files; environment variables override all files.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks configuration constraints
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := time.LoadLocation(c.Schedule.Timezone); err != nil {
		return fmt.Errorf("invalid schedule timezone %q: %w", c.Schedule.Timezone, err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("TICKERCAST_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Market configuration
	if symbol := os.Getenv("TICKERCAST_MARKET_SYMBOL"); symbol != "" {
		config.Market.Symbol = symbol
	}
	if name := os.Getenv("TICKERCAST_MARKET_DISPLAY_NAME"); name != "" {
		config.Market.DisplayName = name
	}

	// Schedule configuration
	if policy := os.Getenv("TICKERCAST_SCHEDULE_POLICY"); policy != "" {
		config.Schedule.Policy = policy
	}
	if tz := os.Getenv("TICKERCAST_SCHEDULE_TIMEZONE"); tz != "" {
		config.Schedule.Timezone = tz
	}
	if cronExpr := os.Getenv("TICKERCAST_SCHEDULE_CRON"); cronExpr != "" {
		config.Schedule.Cron = cronExpr
	}
	if daemon := os.Getenv("TICKERCAST_SCHEDULE_DAEMON"); daemon != "" {
		if d, err := strconv.ParseBool(daemon); err == nil {
			config.Schedule.Daemon = d
		}
	}

	// Pipeline configuration
	if mode := os.Getenv("TICKERCAST_PIPELINE_MODE"); mode != "" {
		config.Pipeline.Mode = mode
	}
	if dir := os.Getenv("TICKERCAST_OUTPUT_DIR"); dir != "" {
		config.Pipeline.OutputDir = dir
	}
	if dir := os.Getenv("TICKERCAST_ASSETS_DIR"); dir != "" {
		config.Pipeline.AssetsDir = dir
	}

	// LLM provider configuration
	if provider := os.Getenv("TICKERCAST_LLM_PROVIDER"); provider != "" {
		config.LLM.Provider = LLMProvider(provider)
	}
	if apiKey := os.Getenv("TICKERCAST_GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	} else if apiKey := os.Getenv("GEMINI_API_KEY"); apiKey != "" {
		config.Gemini.APIKey = apiKey
	}
	if model := os.Getenv("TICKERCAST_GEMINI_MODEL"); model != "" {
		config.Gemini.Model = model
	}
	if apiKey := os.Getenv("ANTHROPIC_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey
	}
	if apiKey := os.Getenv("TICKERCAST_CLAUDE_API_KEY"); apiKey != "" {
		config.Claude.APIKey = apiKey // TICKERCAST_ prefix takes priority
	}
	if model := os.Getenv("TICKERCAST_CLAUDE_MODEL"); model != "" {
		config.Claude.Model = model
	}

	// Speech credentials follow the standard AWS variable names
	if key := os.Getenv("AWS_ACCESS_KEY_ID"); key != "" {
		config.Speech.AccessKeyID = key
	}
	if secret := os.Getenv("AWS_SECRET_ACCESS_KEY"); secret != "" {
		config.Speech.SecretAccessKey = secret
	}
	if region := os.Getenv("AWS_REGION"); region != "" {
		config.Speech.Region = region
	}
	if voice := os.Getenv("TICKERCAST_SPEECH_VOICE"); voice != "" {
		config.Speech.Voice = voice
	}

	// Upload configuration
	if enabled := os.Getenv("TICKERCAST_UPLOAD_ENABLED"); enabled != "" {
		if e, err := strconv.ParseBool(enabled); err == nil {
			config.Upload.Enabled = e
		}
	}
	if path := os.Getenv("TICKERCAST_UPLOAD_CLIENT_SECRETS_FILE"); path != "" {
		config.Upload.ClientSecretsFile = path
	}
	if path := os.Getenv("TICKERCAST_UPLOAD_TOKEN_FILE"); path != "" {
		config.Upload.TokenFile = path
	}

	// Logging configuration
	if level := os.Getenv("TICKERCAST_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
}

// Location resolves the configured report time zone.
// Validate has already checked the zone parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Schedule.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == "production" || c.Environment == "prod"
}
