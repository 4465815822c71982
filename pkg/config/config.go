package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
	"go.uber.org/multierr"
)

type Config struct {
	Telegram TelegramConfig `mapstructure:"telegram"`
	Search   SearchConfig   `mapstructure:"search"`
	Joke     JokeConfig     `mapstructure:"joke"`
	AI       AIConfig       `mapstructure:"ai"`
	OpenAI   OpenAIConfig   `mapstructure:"openai"`
	Log      LogConfig      `mapstructure:"log"`
}

type TelegramConfig struct {
	Token string `mapstructure:"token"`
	Debug bool   `mapstructure:"debug"`
}

type SearchConfig struct {
	APIKey   string `mapstructure:"api_key"`
	EngineID string `mapstructure:"engine_id"`
	Endpoint string `mapstructure:"endpoint"`
}

type JokeConfig struct {
	Endpoint string `mapstructure:"endpoint"`
}

type AIConfig struct {
	Provider        string  `mapstructure:"provider"`
	Project         string  `mapstructure:"project"`
	Location        string  `mapstructure:"location"`
	Model           string  `mapstructure:"model"`
	CredentialsFile string  `mapstructure:"credentials_file"`
	Temperature     float64 `mapstructure:"temperature"`
	MaxOutputTokens int     `mapstructure:"max_output_tokens"`
}

type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`
	Model   string `mapstructure:"model"`
	BaseURL string `mapstructure:"base_url"`
}

type LogConfig struct {
	Development bool `mapstructure:"development"`
}

// envBindings maps config keys to the environment variables that override them.
var envBindings = map[string]string{
	"telegram.token":      "TELEGRAM_TOKEN",
	"search.api_key":      "GOOGLE_API_KEY",
	"search.engine_id":    "GOOGLE_CSE_ID",
	"ai.provider":         "AI_PROVIDER",
	"ai.project":          "VERTEX_PROJECT",
	"ai.location":         "VERTEX_LOCATION",
	"ai.model":            "VERTEX_MODEL",
	"ai.credentials_file": "GOOGLE_APPLICATION_CREDENTIALS",
	"openai.api_key":      "OPENAI_API_KEY",
	"openai.model":        "OPENAI_MODEL",
	"log.development":     "LOG_DEVELOPMENT",
}

// LoadConfig reads the optional YAML file at path, then applies environment overrides.
// A .env file in the working directory is loaded first without replacing variables
// that are already set.
func LoadConfig(path string) (*Config, error) {
	if err := gotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()

	// Set default values
	v.SetDefault("ai.provider", "vertex")
	v.SetDefault("ai.temperature", 0.7)
	v.SetDefault("ai.max_output_tokens", 512)
	v.SetDefault("joke.endpoint", "https://official-joke-api.appspot.com/random_joke")
	v.SetDefault("log.development", false)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", env, err)
		}
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	config.AI.Provider = strings.ToLower(strings.TrimSpace(config.AI.Provider))

	return &config, nil
}

// Validate reports every required value that is missing.
func (c *Config) Validate() error {
	var err error
	require := func(value, name string) {
		if strings.TrimSpace(value) == "" {
			err = multierr.Append(err, fmt.Errorf("%s is required", name))
		}
	}

	require(c.Telegram.Token, "telegram.token (TELEGRAM_TOKEN)")
	require(c.Search.APIKey, "search.api_key (GOOGLE_API_KEY)")
	require(c.Search.EngineID, "search.engine_id (GOOGLE_CSE_ID)")

	switch c.AI.Provider {
	case "vertex":
		require(c.AI.CredentialsFile, "ai.credentials_file (GOOGLE_APPLICATION_CREDENTIALS)")
		fallthrough
	case "gemini":
		require(c.AI.Project, "ai.project (VERTEX_PROJECT)")
		require(c.AI.Location, "ai.location (VERTEX_LOCATION)")
		require(c.AI.Model, "ai.model (VERTEX_MODEL)")
	case "openai":
		require(c.OpenAI.APIKey, "openai.api_key (OPENAI_API_KEY)")
	default:
		err = multierr.Append(err, fmt.Errorf("unknown ai.provider %q", c.AI.Provider))
	}

	return err
}
