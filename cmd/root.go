package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

var cfgFile string
var debugLogging bool
var infoLogging bool

var rootCmd = &cobra.Command{
	Use:          "ssltest",
	Short:        "Probe a TLS endpoint for known weaknesses and rate its cryptographic parameters",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// init config
		if cfgFile != "" {
			viper.SetConfigFile(cfgFile)
		} else {
			viper.AddConfigPath("$HOME")
			viper.SetConfigName(".ssltest")
			viper.SetConfigType("yaml")
		}
		viper.SetEnvPrefix("SSLTEST")
		viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
		viper.AutomaticEnv()

		if err := viper.ReadInConfig(); err != nil && cfgFile != "" {
			return fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}

		// init logger
		l, err := newLogger(debugLogging, infoLogging)
		if err != nil {
			return fmt.Errorf("failed to initialise logger: %w", err)
		}

		applyConfigDefaults()

		appCtx, err := newAppContext(l.Sugar(), cliConfig)
		if err != nil {
			return err
		}
		storeAppContext(cmd, appCtx)

		appCtx.Logger.Debugw("configuration loaded",
			"config_file", viper.ConfigFileUsed(),
			"timeout_secs", cliConfig.Scan.TimeoutSecs,
			"max_workers", cliConfig.Scan.MaxWorkers,
		)
		return nil
	},
}

// newLogger picks the level from the logging flags. Without either flag
// the tool is silent apart from its report.
func newLogger(debug, info bool) (*zap.Logger, error) {
	switch {
	case debug:
		cfg := zap.NewDevelopmentConfig()
		return cfg.Build()
	case info:
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
		return cfg.Build()
	default:
		return zap.NewNop(), nil
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, colorError(err.Error()))
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.ssltest.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debugLogging, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().BoolVar(&infoLogging, "logging", false, "enable info logging")

	// add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(testsCmd)
	rootCmd.AddCommand(rateCmd)
	rootCmd.AddCommand(versionCmd)
}
