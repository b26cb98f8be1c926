package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sartorproj/goforecast/autoarima"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.False(t, cfg.Model.Auto)
	assert.Equal(t, 1, cfg.Model.P)
	assert.Equal(t, 1, cfg.Model.D)
	assert.Equal(t, 1, cfg.Model.Q)
	assert.Equal(t, autoarima.CriterionAIC, cfg.Model.Criterion)
	assert.Equal(t, 10, cfg.Forecast.Steps)
	assert.Equal(t, 0, cfg.Forecast.WindowSize)
	assert.Equal(t, 0.05, cfg.Forecast.Alpha)
	assert.Equal(t, "y", cfg.Data.ValueColumn)
}

func TestLoadPrecedence(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: debug
model:
  p: 2
  q: 0
  period: 12
  seasonal_d: 1
forecast:
  steps: 24
data:
  path: sales.csv
  date_column: ds
  exog_columns: [price, promo]
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, "debug", cfg.Logging.Level)
		assert.Equal(t, "json", cfg.Logging.Format, "keys absent from the file keep defaults")
		assert.Equal(t, 2, cfg.Model.P)
		assert.Equal(t, 1, cfg.Model.D)
		assert.Equal(t, 0, cfg.Model.Q)
		assert.Equal(t, 12, cfg.Model.Period)
		assert.Equal(t, 1, cfg.Model.SeasonalD)
		assert.Equal(t, 24, cfg.Forecast.Steps)
		assert.Equal(t, "sales.csv", cfg.Data.Path)
		assert.Equal(t, []string{"price", "promo"}, cfg.Data.ExogColumns)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		t.Setenv("GOFORECAST_FORECAST_STEPS", "6")
		t.Setenv("GOFORECAST_MODEL_AUTO", "true")
		t.Setenv("GOFORECAST_DATA_EXOG_COLUMNS", "temp")

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 6, cfg.Forecast.Steps)
		assert.True(t, cfg.Model.Auto)
		assert.Equal(t, []string{"temp"}, cfg.Data.ExogColumns)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
	}{
		{name: "unknown key", content: "model:\n  order: 3\n"},
		{name: "malformed yaml", content: "model: [\n"},
		{name: "invalid env value", env: map[string]string{"GOFORECAST_FORECAST_STEPS": "many"}},
		{name: "invalid alpha", env: map[string]string{"GOFORECAST_FORECAST_ALPHA": "1.5"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			path := ""
			if tt.content != "" {
				path = writeConfig(t, tt.content)
			}
			_, err := Load(path)
			assert.Error(t, err)
		})
	}

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"defaults", func(*Config) {}, ""},
		{"log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level must be one of"},
		{"log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"negative order", func(c *Config) { c.Model.Q = -1 }, "model.q must satisfy gte=0"},
		{"period one", func(c *Config) { c.Model.Period = 1 }, "model.period must satisfy ne=1"},
		{"criterion", func(c *Config) { c.Model.Criterion = "hqic" }, "model.criterion"},
		{"steps", func(c *Config) { c.Forecast.Steps = 0 }, "forecast.steps"},
		{"window", func(c *Config) { c.Forecast.WindowSize = -1 }, "forecast.window_size"},
		{"alpha", func(c *Config) { c.Forecast.Alpha = 0 }, "forecast.alpha must satisfy gt=0"},
		{"value column", func(c *Config) { c.Data.ValueColumn = "" }, "data.value_column is required"},
		{"frequency", func(c *Config) { c.Data.Freq = "fortnight" }, "data.freq: unsupported frequency"},
		{"frequency alias", func(c *Config) { c.Data.Freq = "YE" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestValidateReportsEveryField(t *testing.T) {
	cfg := Default()
	cfg.Forecast.Steps = 0
	cfg.Model.Criterion = ""

	err := cfg.Validate()
	assert.ErrorContains(t, err, "forecast.steps")
	assert.ErrorContains(t, err, "model.criterion")
}

func TestConversions(t *testing.T) {
	cfg := Default()
	cfg.Data.DateColumn = "ds"
	cfg.Data.Freq = "MS"
	cfg.Data.ExogColumns = []string{"x"}

	opts := cfg.Data.CSVOptions()
	assert.Equal(t, "ds", opts.DateColumn)
	assert.Equal(t, "y", opts.ValueColumn)
	assert.Equal(t, "MS", opts.Freq)
	assert.Equal(t, []string{"x"}, opts.ExogColumns)
	assert.True(t, opts.HasHeader)

	auto := cfg.Model.AutoConfig()
	assert.False(t, auto.Seasonal)

	cfg.Model.Period = 4
	cfg.Model.Criterion = autoarima.CriterionBIC
	auto = cfg.Model.AutoConfig()
	assert.True(t, auto.Seasonal)
	assert.Equal(t, 4, auto.SeasonalM)
	assert.Equal(t, autoarima.CriterionBIC, auto.Criterion)
}
