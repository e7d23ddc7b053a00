package cmd

import (
	"testing"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

func TestApplyIntDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Int("timeout", 0, "")

	var applied int
	applyIntDefault(flags, "timeout", 15, func(v int) {
		applied = v
	})
	if applied != 15 {
		t.Fatalf("expected setter to receive 15, got %d", applied)
	}

	// When flag already set, setter should not run.
	if err := flags.Set("timeout", "7"); err != nil {
		t.Fatalf("failed to set flag: %v", err)
	}
	applied = 0
	applyIntDefault(flags, "timeout", 20, func(v int) {
		applied = v
	})
	if applied != 0 {
		t.Fatalf("setter should not run when flag overridden, got %d", applied)
	}
}

func TestApplyBoolDefault(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.Bool("progress", false, "")

	applied := false
	applyBoolDefault(flags, "progress", true, func(v bool) {
		applied = v
	})
	if !applied {
		t.Fatal("expected setter to run with true")
	}

	if err := flags.Set("progress", "false"); err != nil {
		t.Fatalf("failed to set bool flag: %v", err)
	}
	applied = true
	applyBoolDefault(flags, "progress", true, func(v bool) {
		applied = v
	})
	if !applied {
		t.Fatalf("setter should not change value when flag already set")
	}
}

func TestSetStringFlagIfUnset(t *testing.T) {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("format", formatText, "")

	setStringFlagIfUnset(flags, "format", formatJSON)
	if got := flags.Lookup("format").Value.String(); got != formatJSON {
		t.Fatalf("expected format to be json, got %s", got)
	}

	if err := flags.Set("format", formatText); err != nil {
		t.Fatalf("failed to set format: %v", err)
	}
	setStringFlagIfUnset(flags, "format", formatJSON)
	if got := flags.Lookup("format").Value.String(); got != formatText {
		t.Fatalf("expected format to remain user-provided, got %s", got)
	}
}

func TestNewCLIConfigDefaults(t *testing.T) {
	cfg := newCLIConfig()
	if cfg.Scan.TimeoutSecs != 5 || cfg.Defaults.TimeoutSecs != 5 {
		t.Fatalf("unexpected timeout default: %d", cfg.Scan.TimeoutSecs)
	}
	if cfg.Scan.MaxWorkers != constants.DefaultMaxWorkers {
		t.Fatalf("unexpected max workers: %d", cfg.Scan.MaxWorkers)
	}
	if cfg.Scan.RateLimit != 0 {
		t.Fatalf("expected rate limiting to be disabled by default, got %d", cfg.Scan.RateLimit)
	}
	if cfg.Scan.BackoffMaxSecs != 5 {
		t.Fatalf("unexpected backoff maximum: %d", cfg.Scan.BackoffMaxSecs)
	}
	if cfg.Scan.Format != formatText {
		t.Fatalf("unexpected default format: %s", cfg.Scan.Format)
	}
	if cfg.Rating.TablesFile != "" || cfg.Rating.MappingFile != "" {
		t.Fatalf("expected embedded rating data by default, got %+v", cfg.Rating)
	}
}

func TestLoadDefaultOverrides(t *testing.T) {
	t.Cleanup(viper.Reset)

	viper.Set("defaults.timeout_secs", 30)
	viper.Set("runner.max_workers", 3)
	viper.Set("runner.rate_limit", 2)
	viper.Set("backoff.max_secs", 9)
	viper.Set("defaults.progress", true)
	viper.Set("defaults.format", "json")
	viper.Set("rating.tables_file", "/etc/ssltest/levels.json")

	overrides := loadDefaultOverrides()

	if overrides.TimeoutSecs == nil || *overrides.TimeoutSecs != 30 {
		t.Fatalf("expected timeout override 30, got %+v", overrides.TimeoutSecs)
	}
	if overrides.MaxWorkers == nil || *overrides.MaxWorkers != 3 {
		t.Fatalf("expected max workers override 3, got %+v", overrides.MaxWorkers)
	}
	if overrides.RateLimit == nil || *overrides.RateLimit != 2 {
		t.Fatalf("expected rate limit override 2, got %+v", overrides.RateLimit)
	}
	if overrides.BackoffMaxSecs == nil || *overrides.BackoffMaxSecs != 9 {
		t.Fatalf("expected backoff override 9, got %+v", overrides.BackoffMaxSecs)
	}
	if overrides.Progress == nil || !*overrides.Progress {
		t.Fatalf("expected progress override true, got %+v", overrides.Progress)
	}
	if overrides.Format != "json" {
		t.Fatalf("expected format override json, got %q", overrides.Format)
	}
	if overrides.TablesFile != "/etc/ssltest/levels.json" || overrides.MappingFile != "" {
		t.Fatalf("unexpected rating file overrides: %q %q", overrides.TablesFile, overrides.MappingFile)
	}
}

func TestLoadDefaultOverridesEmpty(t *testing.T) {
	t.Cleanup(viper.Reset)
	viper.Reset()

	overrides := loadDefaultOverrides()
	if overrides.TimeoutSecs != nil || overrides.MaxWorkers != nil || overrides.RateLimit != nil {
		t.Fatalf("expected no overrides, got %+v", overrides)
	}
}

func TestApplyConfigDefaults(t *testing.T) {
	original := cliConfig
	cliConfig = newCLIConfig()
	t.Cleanup(func() {
		cliConfig = original
		viper.Reset()
	})

	viper.Set("runner.max_workers", 2)
	viper.Set("backoff.max_secs", 7)
	viper.Set("rating.mapping_file", "/tmp/mapping.json")

	applyConfigDefaults()

	if cliConfig.Scan.MaxWorkers != 2 {
		t.Fatalf("expected max workers from config, got %d", cliConfig.Scan.MaxWorkers)
	}
	if cliConfig.Scan.BackoffMaxSecs != 7 {
		t.Fatalf("expected backoff from config, got %d", cliConfig.Scan.BackoffMaxSecs)
	}
	if cliConfig.Rating.MappingFile != "/tmp/mapping.json" {
		t.Fatalf("expected mapping file from config, got %q", cliConfig.Rating.MappingFile)
	}
}
