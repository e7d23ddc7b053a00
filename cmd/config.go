package cmd

import (
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

const (
	defaultTimeoutSeconds    = int(constants.DefaultTimeout / time.Second)
	defaultBackoffMaxSeconds = int(constants.DefaultBackoffMax / time.Second)
)

// CLIConfig captures runtime configuration shared across commands.
type CLIConfig struct {
	Defaults DefaultValues
	Scan     ScanRuntimeConfig
	Rating   RatingConfig
}

// DefaultValues represent operator-level defaults, typically derived from env/config.
type DefaultValues struct {
	TimeoutSecs int
}

// ScanRuntimeConfig consolidates flag-driven settings for the scan command.
type ScanRuntimeConfig struct {
	TimeoutSecs     int
	MaxWorkers      int
	RateLimit       int
	BackoffMaxSecs  int
	Tests           []int
	All             bool
	NoParams        bool
	Format          string
	ProgressEnabled bool
}

// RatingConfig points at replacement data files. Empty means the embedded defaults.
type RatingConfig struct {
	TablesFile  string
	MappingFile string
}

type defaultOverrides struct {
	TimeoutSecs    *int
	MaxWorkers     *int
	RateLimit      *int
	BackoffMaxSecs *int
	Progress       *bool
	Format         string
	TablesFile     string
	MappingFile    string
}

var cliConfig = newCLIConfig()

func newCLIConfig() *CLIConfig {
	return &CLIConfig{
		Defaults: DefaultValues{
			TimeoutSecs: defaultTimeoutSeconds,
		},
		Scan: ScanRuntimeConfig{
			TimeoutSecs:    defaultTimeoutSeconds,
			MaxWorkers:     constants.DefaultMaxWorkers,
			RateLimit:      0,
			BackoffMaxSecs: defaultBackoffMaxSeconds,
			Format:         formatText,
		},
	}
}

func loadDefaultOverrides() defaultOverrides {
	overrides := defaultOverrides{}

	if viper.IsSet("defaults.timeout_secs") {
		val := viper.GetInt("defaults.timeout_secs")
		overrides.TimeoutSecs = &val
	}

	if viper.IsSet("runner.max_workers") {
		val := viper.GetInt("runner.max_workers")
		overrides.MaxWorkers = &val
	}

	if viper.IsSet("runner.rate_limit") {
		val := viper.GetInt("runner.rate_limit")
		overrides.RateLimit = &val
	}

	if viper.IsSet("backoff.max_secs") {
		val := viper.GetInt("backoff.max_secs")
		overrides.BackoffMaxSecs = &val
	}

	if viper.IsSet("defaults.progress") {
		val := viper.GetBool("defaults.progress")
		overrides.Progress = &val
	}

	if viper.IsSet("defaults.format") {
		overrides.Format = viper.GetString("defaults.format")
	}

	overrides.TablesFile = viper.GetString("rating.tables_file")
	overrides.MappingFile = viper.GetString("rating.mapping_file")

	return overrides
}

// applyConfigDefaults merges config file defaults into the runtime config when the user
// did not explicitly override the corresponding flag.
func applyConfigDefaults() {
	overrides := loadDefaultOverrides()

	if overrides.TimeoutSecs != nil {
		applyIntDefault(scanCmd.Flags(), "timeout", *overrides.TimeoutSecs, func(v int) {
			cliConfig.Defaults.TimeoutSecs = v
			cliConfig.Scan.TimeoutSecs = v
		})
	}

	if overrides.MaxWorkers != nil {
		applyIntDefault(scanCmd.Flags(), "max-workers", *overrides.MaxWorkers, func(v int) {
			cliConfig.Scan.MaxWorkers = v
		})
	}

	if overrides.RateLimit != nil {
		applyIntDefault(scanCmd.Flags(), "rate-limit", *overrides.RateLimit, func(v int) {
			cliConfig.Scan.RateLimit = v
		})
	}

	if overrides.BackoffMaxSecs != nil {
		cliConfig.Scan.BackoffMaxSecs = *overrides.BackoffMaxSecs
	}

	if overrides.Progress != nil {
		applyBoolDefault(scanCmd.Flags(), "progress", *overrides.Progress, func(v bool) {
			cliConfig.Scan.ProgressEnabled = v
		})
	}

	if overrides.Format != "" {
		setStringFlagIfUnset(scanCmd.Flags(), "format", overrides.Format)
	}

	if overrides.TablesFile != "" {
		cliConfig.Rating.TablesFile = overrides.TablesFile
	}
	if overrides.MappingFile != "" {
		cliConfig.Rating.MappingFile = overrides.MappingFile
	}
}

func applyIntDefault(flags *pflag.FlagSet, name string, value int, setter func(int)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func applyBoolDefault(flags *pflag.FlagSet, name string, value bool, setter func(bool)) {
	if flags == nil || setter == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag != nil && flag.Changed {
		return
	}
	setter(value)
}

func setStringFlagIfUnset(flags *pflag.FlagSet, name, value string) {
	if flags == nil {
		return
	}
	flag := flags.Lookup(name)
	if flag == nil || flag.Changed {
		return
	}
	_ = flag.Value.Set(value)
}
