// Package config loads the forecasting CLI configuration.
//
// Values come from Default, then an optional YAML file, then environment
// variables prefixed with GOFORECAST, for example GOFORECAST_MODEL_AUTO or
// GOFORECAST_FORECAST_STEPS. Later sources override earlier ones.
package config
