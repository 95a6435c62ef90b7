package config

import (
	"fmt"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config captures the runtime configuration for the dubbing service.
type Config struct {
	Server        ServerConfig        `mapstructure:"server"`
	Provider      ProviderConfig      `mapstructure:"provider"`
	Audio         AudioConfig         `mapstructure:"audio"`
	Pipeline      PipelineConfig      `mapstructure:"pipeline"`
	Pricing       []PricingEntry      `mapstructure:"pricing"`
	Observability ObservabilityConfig `mapstructure:"observability"`
}

type ServerConfig struct {
	ListenAddr            string        `mapstructure:"listen_addr"`
	BodyLimitMB           int           `mapstructure:"body_limit_mb"`
	ReadHeaderTimeout     time.Duration `mapstructure:"read_header_timeout"`
	SyncTimeout           time.Duration `mapstructure:"sync_timeout"`
	GracefulShutdownDelay time.Duration `mapstructure:"graceful_shutdown_delay"`
}

// ProviderConfig holds the remote completion endpoint settings. The API key
// is read once at startup and injected into the adapter; nothing reads it
// ambiently after that.
type ProviderConfig struct {
	APIKey         string        `mapstructure:"api_key"`
	BaseURL        string        `mapstructure:"base_url"`
	Organization   string        `mapstructure:"organization"`
	Model          string        `mapstructure:"model"`
	Voice          string        `mapstructure:"voice"`
	AudioFormat    string        `mapstructure:"audio_format"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

type AudioConfig struct {
	MaxUploadMB int `mapstructure:"max_upload_mb"`
}

type PipelineConfig struct {
	SourceLanguage string   `mapstructure:"source_language"`
	TargetLanguage string   `mapstructure:"target_language"`
	Glossary       []string `mapstructure:"glossary"`
}

type PricingEntry struct {
	Model         string  `mapstructure:"model"`
	InputPerMUSD  float64 `mapstructure:"input_per_m_usd"`
	OutputPerMUSD float64 `mapstructure:"output_per_m_usd"`
	Currency      string  `mapstructure:"currency"`
}

type ObservabilityConfig struct {
	OTLPEndpoint  string `mapstructure:"otlp_endpoint"`
	EnableOTLP    bool   `mapstructure:"enable_otlp"`
	EnableMetrics bool   `mapstructure:"enable_metrics"`
}

// Options controls the config loader behavior.
type Options struct {
	ConfigFile string
	EnvFile    string
}

// Load returns the merged configuration sourced from YAML and environment
// variables.
func Load(opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		_ = godotenv.Load(opts.EnvFile)
	} else {
		_ = godotenv.Load()
	}

	v := viper.New()
	setDefaults(v)

	explicitFile := false
	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		explicitFile = true
	} else if cfg := os.Getenv("VOXLATE_CONFIG_FILE"); cfg != "" {
		v.SetConfigFile(cfg)
		explicitFile = true
	}

	if !explicitFile {
		// Allow standard lookup locations when no explicit file is provided.
		v.SetConfigName("voxlate")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	v.SetEnvPrefix("VOXLATE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg, viper.DecodeHook(timeStringToDurationHook())); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate ensures required values are set and applies defaults viper cannot
// express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Provider.APIKey) == "" {
		return fmt.Errorf("missing required configuration: VOXLATE_PROVIDER_API_KEY")
	}
	if strings.TrimSpace(c.Provider.Model) == "" {
		return fmt.Errorf("provider.model must be provided")
	}
	switch strings.ToLower(strings.TrimSpace(c.Provider.AudioFormat)) {
	case "wav", "mp3":
		c.Provider.AudioFormat = strings.ToLower(strings.TrimSpace(c.Provider.AudioFormat))
	default:
		return fmt.Errorf("provider.audio_format must be wav or mp3")
	}
	if c.Provider.RequestTimeout <= 0 {
		return fmt.Errorf("provider.request_timeout must be > 0")
	}
	if c.Audio.MaxUploadMB <= 0 {
		c.Audio.MaxUploadMB = 50
	}
	if strings.TrimSpace(c.Pipeline.SourceLanguage) == "" {
		return fmt.Errorf("pipeline.source_language must be provided")
	}
	if strings.TrimSpace(c.Pipeline.TargetLanguage) == "" {
		return fmt.Errorf("pipeline.target_language must be provided")
	}
	c.Pipeline.Glossary = normalizeStringSlice(c.Pipeline.Glossary)

	for i, entry := range c.Pricing {
		if strings.TrimSpace(entry.Model) == "" {
			return fmt.Errorf("pricing[%d].model must be provided", i)
		}
		if entry.InputPerMUSD < 0 || entry.OutputPerMUSD < 0 {
			return fmt.Errorf("pricing[%d] prices must be >= 0", i)
		}
		if entry.Currency == "" {
			c.Pricing[i].Currency = "USD"
		}
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.listen_addr", ":8080")
	v.SetDefault("server.body_limit_mb", 60)
	v.SetDefault("server.read_header_timeout", "5s")
	v.SetDefault("server.sync_timeout", "300s")
	v.SetDefault("server.graceful_shutdown_delay", "5s")

	// Registering empty defaults makes these keys visible to Unmarshal so
	// AutomaticEnv can fill them from VOXLATE_PROVIDER_* variables.
	v.SetDefault("provider.api_key", "")
	v.SetDefault("provider.organization", "")
	v.SetDefault("provider.base_url", "")
	v.SetDefault("provider.model", "gpt-4o-audio-preview")
	v.SetDefault("provider.voice", "alloy")
	v.SetDefault("provider.audio_format", "wav")
	v.SetDefault("provider.request_timeout", "120s")

	v.SetDefault("audio.max_upload_mb", 50)

	v.SetDefault("pipeline.source_language", "English")
	v.SetDefault("pipeline.target_language", "Spanish")
	v.SetDefault("pipeline.glossary", []string{})

	v.SetDefault("observability.enable_otlp", false)
	v.SetDefault("observability.enable_metrics", true)
	v.SetDefault("observability.otlp_endpoint", "http://localhost:4317")
}

func normalizeStringSlice(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	clean := make([]string, 0, len(values))
	for _, v := range values {
		if trimmed := strings.TrimSpace(v); trimmed != "" {
			clean = append(clean, trimmed)
		}
	}
	if len(clean) == 0 {
		return nil
	}
	return clean
}

func timeStringToDurationHook() mapstructure.DecodeHookFunc {
	return func(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
		if to != reflect.TypeOf(time.Duration(0)) {
			return data, nil
		}

		switch v := data.(type) {
		case time.Duration:
			return v, nil
		case string:
			d, err := time.ParseDuration(v)
			if err != nil {
				return nil, err
			}
			return d, nil
		default:
			return nil, fmt.Errorf("cannot decode %T into time.Duration", data)
		}
	}
}
