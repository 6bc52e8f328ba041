package common

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	config := NewDefaultConfig()

	assert.Equal(t, "^NSEI", config.Market.Symbol)
	assert.Equal(t, "NIFTY 50", config.Market.DisplayName)
	assert.Equal(t, "range", config.Schedule.Policy)
	assert.Equal(t, "Asia/Kolkata", config.Schedule.Timezone)
	assert.Equal(t, "video", config.Pipeline.Mode)
	assert.Equal(t, LLMProviderGemini, config.LLM.Provider)
	assert.Equal(t, "Matthew", config.Speech.Voice)
	assert.Equal(t, 1080, config.Video.Width)
	assert.Equal(t, 1920, config.Video.Height)
	assert.Equal(t, 30, config.Video.MaxDuration)
	assert.True(t, config.Upload.Enabled)

	require.NoError(t, config.Validate())
}

func TestLoadFromFiles_NoFiles(t *testing.T) {
	config, err := LoadFromFiles()

	require.NoError(t, err)
	assert.Equal(t, "^NSEI", config.Market.Symbol)
}

func TestLoadFromFiles_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tickercast.toml")
	content := `
environment = "production"

[market]
symbol = "^BSESN"
display_name = "SENSEX"

[schedule]
policy = "exact"

[upload]
enabled = false
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := LoadFromFiles(path)
	require.NoError(t, err)

	assert.Equal(t, "^BSESN", config.Market.Symbol)
	assert.Equal(t, "SENSEX", config.Market.DisplayName)
	assert.Equal(t, "exact", config.Schedule.Policy)
	assert.False(t, config.Upload.Enabled)
	assert.True(t, config.IsProduction())

	// Untouched sections keep their defaults
	assert.Equal(t, "video", config.Pipeline.Mode)
	assert.Equal(t, "Asia/Kolkata", config.Schedule.Timezone)
}

func TestLoadFromFiles_LaterFileWins(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "base.toml")
	second := filepath.Join(dir, "override.toml")

	require.NoError(t, os.WriteFile(first, []byte("[market]\nsymbol = \"^BSESN\"\n"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("[market]\nsymbol = \"^NSEBANK\"\n"), 0644))

	config, err := LoadFromFiles(first, second)
	require.NoError(t, err)
	assert.Equal(t, "^NSEBANK", config.Market.Symbol)
}

func TestLoadFromFiles_MissingFile(t *testing.T) {
	_, err := LoadFromFiles(filepath.Join(t.TempDir(), "absent.toml"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read config file")
}

func TestLoadFromFiles_EnvOverrides(t *testing.T) {
	t.Setenv("TICKERCAST_MARKET_SYMBOL", "^NSEBANK")
	t.Setenv("TICKERCAST_SCHEDULE_POLICY", "exact")
	t.Setenv("TICKERCAST_LLM_PROVIDER", "claude")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")
	t.Setenv("AWS_REGION", "ap-south-1")
	t.Setenv("TICKERCAST_UPLOAD_ENABLED", "false")

	config, err := LoadFromFiles()
	require.NoError(t, err)

	assert.Equal(t, "^NSEBANK", config.Market.Symbol)
	assert.Equal(t, "exact", config.Schedule.Policy)
	assert.Equal(t, LLMProviderClaude, config.LLM.Provider)
	assert.Equal(t, "sk-test", config.Claude.APIKey)
	assert.Equal(t, "ap-south-1", config.Speech.Region)
	assert.False(t, config.Upload.Enabled)
}

func TestValidate_RejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown schedule policy", func(c *Config) { c.Schedule.Policy = "hourly" }},
		{"unknown pipeline mode", func(c *Config) { c.Pipeline.Mode = "audio" }},
		{"unknown llm provider", func(c *Config) { c.LLM.Provider = "openai" }},
		{"empty market symbol", func(c *Config) { c.Market.Symbol = "" }},
		{"bad timezone", func(c *Config) { c.Schedule.Timezone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := NewDefaultConfig()
			tt.mutate(config)
			assert.Error(t, config.Validate())
		})
	}
}

func TestLocation(t *testing.T) {
	config := NewDefaultConfig()
	loc := config.Location()
	require.NotNil(t, loc)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}
