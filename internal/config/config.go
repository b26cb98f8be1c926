package config

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"

	"github.com/sartorproj/goforecast/autoarima"
	"github.com/sartorproj/goforecast/timeseries"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "GOFORECAST"

// Config represents the complete forecasting configuration. Each field is
// read from GOFORECAST_<SECTION>_<FIELD>, for example GOFORECAST_MODEL_MAX_ITER.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Model    ModelConfig    `yaml:"model" envconfig:"MODEL"`
	Forecast ForecastConfig `yaml:"forecast" envconfig:"FORECAST"`
	Data     DataConfig     `yaml:"data" envconfig:"DATA"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level       string `yaml:"level" split_words:"true" validate:"oneof=debug info warn error"`
	Format      string `yaml:"format" split_words:"true" validate:"oneof=json console"`
	Development bool   `yaml:"development" split_words:"true"`
}

// ModelConfig selects the regressor. With Auto set the orders are searched
// and P, D and Q are ignored.
type ModelConfig struct {
	Auto      bool   `yaml:"auto" split_words:"true"`
	P         int    `yaml:"p" split_words:"true" validate:"gte=0"`
	D         int    `yaml:"d" split_words:"true" validate:"gte=0"`
	Q         int    `yaml:"q" split_words:"true" validate:"gte=0"`
	SeasonalP int    `yaml:"seasonal_p" split_words:"true" validate:"gte=0"`
	SeasonalD int    `yaml:"seasonal_d" split_words:"true" validate:"gte=0"`
	SeasonalQ int    `yaml:"seasonal_q" split_words:"true" validate:"gte=0"`
	Period    int    `yaml:"period" split_words:"true" validate:"gte=0,ne=1"`
	Criterion string `yaml:"criterion" split_words:"true" validate:"oneof=aic aicc bic"`
	MaxIter   int    `yaml:"max_iter" split_words:"true" validate:"gte=1"`
}

// ForecastConfig contains prediction settings
type ForecastConfig struct {
	Steps      int     `yaml:"steps" split_words:"true" validate:"gte=1"`
	WindowSize int     `yaml:"window_size" split_words:"true" validate:"gte=0"`
	Alpha      float64 `yaml:"alpha" split_words:"true" validate:"gt=0,lt=1"`
}

// DataConfig describes the input CSV
type DataConfig struct {
	Path        string   `yaml:"path" split_words:"true"`
	DateColumn  string   `yaml:"date_column" split_words:"true"`
	ValueColumn string   `yaml:"value_column" split_words:"true" validate:"required"`
	ExogColumns []string `yaml:"exog_columns" split_words:"true"`
	DateFormat  string   `yaml:"date_format" split_words:"true"`
	Freq        string   `yaml:"freq" split_words:"true" validate:"omitempty,frequency"`
}

// Default returns the configuration used when neither a file nor the
// environment set a value.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Model: ModelConfig{
			P:         1,
			D:         1,
			Q:         1,
			Criterion: autoarima.CriterionAIC,
			MaxIter:   200,
		},
		Forecast: ForecastConfig{
			Steps: 10,
			Alpha: 0.05,
		},
		Data: DataConfig{
			ValueColumn: "y",
			DateFormat:  "2006-01-02",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// path is not empty) and GOFORECAST_* environment variables, in increasing
// order of precedence.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// loadFile overlays the YAML file on cfg. Keys absent from the file keep
// their current values.
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.UnmarshalStrict(data, c)
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
	})
	v.RegisterValidation("frequency", isFrequency) //nolint:errcheck
	return v
}

func isFrequency(fl validator.FieldLevel) bool {
	_, err := timeseries.ParseFrequency(fl.Field().String())
	return err == nil
}

// Validate checks the configuration for values the forecaster would reject.
// Every failing field is reported by its YAML path.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	errs := make([]error, 0, len(verrs))
	for _, fe := range verrs {
		errs = append(errs, fieldError(fe))
	}
	return errors.Join(errs...)
}

func fieldError(fe validator.FieldError) error {
	field := strings.TrimPrefix(fe.Namespace(), "Config.")
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%s is required", field)
	case "oneof":
		return fmt.Errorf("%s must be one of [%s], got %q", field, fe.Param(), fe.Value())
	case "frequency":
		return fmt.Errorf("%s: unsupported frequency %q", field, fe.Value())
	default:
		return fmt.Errorf("%s must satisfy %s=%s, got %v", field, fe.Tag(), fe.Param(), fe.Value())
	}
}

// CSVOptions converts the data section to loader options.
func (d DataConfig) CSVOptions() *timeseries.CSVOptions {
	opts := timeseries.DefaultCSVOptions()
	opts.DateColumn = d.DateColumn
	opts.ValueColumn = d.ValueColumn
	opts.ExogColumns = d.ExogColumns
	opts.Freq = d.Freq
	if d.DateFormat != "" {
		opts.DateFormat = d.DateFormat
	}
	return opts
}

// AutoConfig converts the model section to an order search configuration.
func (m ModelConfig) AutoConfig() *autoarima.Config {
	cfg := autoarima.DefaultConfig()
	cfg.Criterion = m.Criterion
	if m.Period > 1 {
		cfg.Seasonal = true
		cfg.SeasonalM = m.Period
	}
	return cfg
}
