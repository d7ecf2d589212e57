package config

import (
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	BLS    BLSConfig    `yaml:"bls" mapstructure:"bls"`
	Series SeriesConfig `yaml:"series" mapstructure:"series"`
	Batch  BatchConfig  `yaml:"batch" mapstructure:"batch"`
	Output OutputConfig `yaml:"output" mapstructure:"output"`
	Store  StoreConfig  `yaml:"store" mapstructure:"store"`
	Log    LogConfig    `yaml:"log" mapstructure:"log"`
}

// BLSConfig holds BLS public API v2 settings.
type BLSConfig struct {
	APIKey      string `yaml:"api_key" mapstructure:"api_key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url" validate:"required,url"`
	UserAgent   string `yaml:"user_agent" mapstructure:"user_agent"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs" validate:"min=1"`
	StartYear   string `yaml:"start_year" mapstructure:"start_year" validate:"omitempty,numeric,len=4"`
	EndYear     string `yaml:"end_year" mapstructure:"end_year" validate:"omitempty,numeric,len=4"`
}

// Timeout returns the per-call transport timeout.
func (c BLSConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSecs) * time.Second
}

// SeriesConfig selects which code axes feed the series generator.
type SeriesConfig struct {
	Reference       string   `yaml:"reference" mapstructure:"reference" validate:"required"`
	Prefix          string   `yaml:"prefix" mapstructure:"prefix" validate:"required"`
	Industry        string   `yaml:"industry" mapstructure:"industry" validate:"required"`
	AreaType        string   `yaml:"area_type" mapstructure:"area_type" validate:"required"`
	AreaGroup       string   `yaml:"area_group" mapstructure:"area_group" validate:"required"`
	OccupationGroup string   `yaml:"occupation_group" mapstructure:"occupation_group" validate:"required"`
	DataTypes       []string `yaml:"datatypes" mapstructure:"datatypes" validate:"required,min=1,dive,required"`
	Areas           []string `yaml:"areas" mapstructure:"areas"`
	Occupations     []string `yaml:"occupations" mapstructure:"occupations"`
}

// BatchConfig configures the batch fetcher.
type BatchConfig struct {
	Size        int `yaml:"size" mapstructure:"size" validate:"min=1,max=50"`
	DelayMillis int `yaml:"delay_millis" mapstructure:"delay_millis" validate:"min=0"`
}

// Delay returns the fixed pause between batch submissions.
func (c BatchConfig) Delay() time.Duration {
	return time.Duration(c.DelayMillis) * time.Millisecond
}

// OutputConfig configures report outputs.
type OutputConfig struct {
	CSVPath     string `yaml:"csv_path" mapstructure:"csv_path" validate:"required"`
	XLSXPath    string `yaml:"xlsx_path" mapstructure:"xlsx_path"`
	PreviewRows int    `yaml:"preview_rows" mapstructure:"preview_rows" validate:"min=0"`
}

// StoreConfig configures the optional persistence sinks.
type StoreConfig struct {
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
	RunLogPath  string `yaml:"run_log_path" mapstructure:"run_log_path"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=json console"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("OEWS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("bls.api_key", "OEWS_BLS_API_KEY", "BLS_API_KEY"); err != nil {
		return nil, eris.Wrap(err, "config: bind api key env")
	}

	// Defaults
	v.SetDefault("bls.base_url", "https://api.bls.gov/publicAPI/v2/timeseries/data/")
	v.SetDefault("bls.user_agent", "oews-cli/1.0")
	v.SetDefault("bls.timeout_secs", 30)
	v.SetDefault("series.reference", "reference/series_id_codes.json")
	v.SetDefault("series.prefix", "OEUS")
	v.SetDefault("series.industry", "000000")
	v.SetDefault("series.area_type", "S")
	v.SetDefault("series.area_group", "state_codes")
	v.SetDefault("series.occupation_group", "major_occupational_groups")
	v.SetDefault("series.datatypes", []string{"04", "13"})
	v.SetDefault("batch.size", 50)
	v.SetDefault("batch.delay_millis", 250)
	v.SetDefault("output.csv_path", "oews_batch_results.csv")
	v.SetDefault("output.preview_rows", 10)
	// Empty keys are registered so their OEWS_ env vars are seen by Unmarshal.
	v.SetDefault("store.database_url", "")
	v.SetDefault("store.run_log_path", "")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks field constraints that apply to every command.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return eris.Wrap(err, "config: validate")
	}
	return nil
}

// ValidateFetch checks the settings required before any network activity.
func (c *Config) ValidateFetch() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(c.BLS.APIKey) == "" {
		return eris.New("config: BLS API key is required (set BLS_API_KEY)")
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
