//-------------------------------------------------------------------------
//
// retail-reports
//
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package config handles configuration management for retail-reports.
// Configuration is loaded from config files and CLI flags; flags take
// precedence over config file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

// Config holds all configuration for retail-reports.
type Config struct {
	// Connection is the PostgreSQL connection string.
	Connection string `mapstructure:"connection"`

	// LogLevel controls logging verbosity (debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Init holds configuration for the init subcommand.
	Init InitConfig `mapstructure:"init"`

	// Run holds configuration for the run subcommand.
	Run RunConfig `mapstructure:"run"`
}

// InitConfig holds configuration for schema creation and dataset seeding.
type InitConfig struct {
	// Customers is the number of customer rows to seed.
	Customers int `mapstructure:"customers"`

	// Products is the number of product rows to seed.
	Products int `mapstructure:"products"`

	// Sales is the number of sales transaction rows to seed.
	Sales int `mapstructure:"sales"`

	// Seed is the RNG seed for the data generator (0 = time-based).
	Seed uint64 `mapstructure:"seed"`

	// SkipSeed creates the schema without generating data.
	SkipSeed bool `mapstructure:"skip_seed"`

	// DropExisting drops existing tables before initialization.
	DropExisting bool `mapstructure:"drop_existing"`
}

// RunConfig holds configuration for report execution.
type RunConfig struct {
	// Output is the directory report files are written to.
	Output string `mapstructure:"output"`

	// Format is the export format: "csv" or "json".
	Format string `mapstructure:"format"`

	// Reports selects which reports to run (empty = all).
	Reports []string `mapstructure:"reports"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Init: InitConfig{
			Customers: 1000,
			Products:  200,
			Sales:     20000,
		},
		Run: RunConfig{
			Output: "reports",
			Format: "csv",
		},
	}
}

// Load reads configuration from config files.
// Config file locations (in order of precedence):
// 1. Path specified by configFile parameter
// 2. ./retail-reports.yaml
// 3. ~/.config/retail-reports/retail-reports.yaml
func Load(configFile string) (*Config, error) {
	v := viper.New()

	v.SetConfigName("retail-reports")
	v.SetConfigType("yaml")

	v.AddConfigPath(".")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".config", "retail-reports"))
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	}

	// Read config file (ignore if not found)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	cfg := DefaultConfig()

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.Connection == "" {
		return fmt.Errorf("connection string is required")
	}
	return nil
}

// ValidateInit checks configuration required for the init command.
func (c *Config) ValidateInit() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Init.SkipSeed {
		return nil
	}
	if c.Init.Customers < 1 {
		return fmt.Errorf("init customers must be at least 1")
	}
	if c.Init.Products < 1 {
		return fmt.Errorf("init products must be at least 1")
	}
	if c.Init.Sales < 1 {
		return fmt.Errorf("init sales must be at least 1")
	}
	return nil
}

// ValidateRun checks configuration required for the run command.
func (c *Config) ValidateRun() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if c.Run.Output == "" {
		return fmt.Errorf("output directory is required")
	}
	if c.Run.Format != "csv" && c.Run.Format != "json" {
		return fmt.Errorf("format must be 'csv' or 'json'")
	}
	return nil
}
