// Package config loads runtime settings from, in rising precedence: an
// optional .env file, an optional YAML config file, YNABEX_* environment
// variables, and command-line flags.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds everything the CLI and executors need.
type Config struct {
	// Token is the YNAB personal access token. Usually supplied via the
	// YNAB_TOKEN environment variable rather than a file.
	Token    string `mapstructure:"token"`
	BudgetID string `mapstructure:"budget_id"`

	// OutputDir overrides where converted CSVs are written; empty means
	// next to the input file.
	OutputDir string `mapstructure:"output_dir"`

	// Duplicate-check bounds for the remote window.
	LookbackDays int `mapstructure:"lookback_days"`
	MaxCount     int `mapstructure:"max_count"`

	// MemoPrefixLen tunes the fuzzy transfer-memo comparison; 0 keeps the
	// engine default.
	MemoPrefixLen int `mapstructure:"memo_prefix_len"`
}

// Build assembles the configuration. cfgFile may be empty, in which case
// config.yaml in the working directory is tried and silently skipped when
// absent. Flags registered on flags override file and env values.
func Build(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	_ = gotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("ynabex")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("token", "YNAB_TOKEN")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	if flags != nil {
		bindings := map[string]string{
			"budget":          "budget_id",
			"output-dir":      "output_dir",
			"lookback-days":   "lookback_days",
			"max-count":       "max_count",
			"memo-prefix-len": "memo_prefix_len",
		}
		for flagName, key := range bindings {
			if f := flags.Lookup(flagName); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, err
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}
