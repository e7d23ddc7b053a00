package cmd

import (
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/ssltest/internal/probe"
	"github.com/khanhnv2901/ssltest/internal/rating"
	"github.com/khanhnv2901/ssltest/internal/shared/constants"
)

var scanCmd = &cobra.Command{
	Use:   "scan <target>",
	Short: "Probe a TLS endpoint and rate its negotiated parameters",
	Long: `Connect to the target, record the negotiated protocol, cipher suite and
certificate, enumerate the accepted protocol versions, run the selected
vulnerability probes and rate every cryptographic parameter.

The target may be a host name, host:port, an IP address or an https:// URL.
Without --tests or --all no probes are run and only the parameters are rated.`,
	Example: `  ssltest scan example.com
  ssltest scan example.com:8443 --tests 1,3
  ssltest scan https://example.com --all --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	flags := scanCmd.Flags()
	flags.IntSliceVar(&cliConfig.Scan.Tests, "tests", cliConfig.Scan.Tests, "comma-separated probe ids to run (see 'ssltest tests')")
	flags.BoolVar(&cliConfig.Scan.All, "all", cliConfig.Scan.All, "run every available probe")
	flags.IntVar(&cliConfig.Scan.TimeoutSecs, "timeout", cliConfig.Scan.TimeoutSecs, "per-connection timeout in seconds")
	flags.IntVar(&cliConfig.Scan.MaxWorkers, "max-workers", cliConfig.Scan.MaxWorkers, "maximum number of probes running at once")
	flags.IntVar(&cliConfig.Scan.RateLimit, "rate-limit", cliConfig.Scan.RateLimit, "probes started per second (0 = unlimited)")
	flags.BoolVar(&cliConfig.Scan.NoParams, "no-params", cliConfig.Scan.NoParams, "skip rating the negotiated parameters")
	flags.StringVar(&cliConfig.Scan.Format, "format", cliConfig.Scan.Format, "output format: text or json")
	flags.BoolVar(&cliConfig.Scan.ProgressEnabled, "progress", cliConfig.Scan.ProgressEnabled, "show probe progress on stderr")
	scanCmd.MarkFlagsMutuallyExclusive("tests", "all")
}

func runScan(cmd *cobra.Command, args []string) error {
	appCtx := getAppContext(cmd)
	cfg := appCtx.Config.Scan

	if cfg.Format != formatText && cfg.Format != formatJSON {
		return &InvalidArgumentError{Name: "format", Value: cfg.Format, Reason: "expected text or json"}
	}

	addr, err := probe.ParseAddress(args[0], constants.DefaultPort)
	if err != nil {
		return err
	}

	selected, err := selectProbes(appCtx.Registry, cfg.Tests, cfg.All)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	conn, err := appCtx.Dialer.Fetch(ctx, addr)
	if err != nil {
		return &TargetUnreachableError{Target: addr.String(), Err: err}
	}

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout <= 0 {
		timeout = appCtx.Dialer.Timeout
	}
	sc := probe.NewScanContext(addr, timeout, conn.Protocol, conn.SupportedProtocols)
	runner := &probe.Runner{
		MaxWorkers: cfg.MaxWorkers,
		RateLimit:  cfg.RateLimit,
		Logger:     appCtx.Logger.Named("runner"),
	}

	var progress *progressPrinter
	if cfg.ProgressEnabled && cfg.Format == formatText && len(selected) > 0 {
		progress = newProgressPrinter(cmd.ErrOrStderr(), len(selected), "probes")
		runner.OnComplete = progress.Observe
		progress.Start()
	}

	outcomes := runner.RunSelected(ctx, selected, sc)
	if progress != nil {
		progress.Stop()
	}

	var params *rating.CryptoParams
	if !cfg.NoParams {
		params = appCtx.Inspector.Inspect(conn.Protocol, conn.CipherSuite, conn.Certificate)
	}

	report := buildScanReport(addr, conn, selected, outcomes, params)
	return writeReport(cmd.OutOrStdout(), report, cfg.Format)
}

// selectProbes resolves the --tests/--all selection. With neither, no
// probes are selected.
func selectProbes(reg *probe.Registry, ids []int, all bool) ([]probe.Descriptor, error) {
	if all {
		return reg.ListAvailable(), nil
	}
	return reg.Select(ids)
}
