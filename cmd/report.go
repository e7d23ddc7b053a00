package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/khanhnv2901/ssltest/internal/handshake"
	"github.com/khanhnv2901/ssltest/internal/probe"
	"github.com/khanhnv2901/ssltest/internal/probe/vulns"
	"github.com/khanhnv2901/ssltest/internal/rating"
)

const (
	formatText = "text"
	formatJSON = "json"

	jsonPrefix = ""
	jsonIndent = "  "
)

const (
	statusOK         = "ok"
	statusSafe       = "not vulnerable"
	statusVulnerable = "vulnerable"
	statusError      = "error"

	noResultEvidence = "no result reported"
)

type scanReport struct {
	Target             string               `json:"target"`
	ScannedAt          time.Time            `json:"scanned_at"`
	Protocol           string               `json:"protocol"`
	CipherSuite        string               `json:"cipher_suite"`
	SupportedProtocols []string             `json:"supported_protocols"`
	Probes             []probeReport        `json:"probes"`
	Parameters         *rating.CryptoParams `json:"parameters,omitempty"`
}

type probeReport struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Evidence   string  `json:"evidence,omitempty"`
	Error      string  `json:"error,omitempty"`
	DurationMs float64 `json:"duration_ms"`
}

// buildScanReport lists probe outcomes in registry order.
func buildScanReport(addr probe.Address, conn *handshake.Connection, selected []probe.Descriptor, outcomes map[string]probe.Outcome, params *rating.CryptoParams) scanReport {
	report := scanReport{
		Target:     addr.String(),
		ScannedAt:  time.Now().UTC(),
		Probes:     make([]probeReport, 0, len(outcomes)),
		Parameters: params,
	}
	if conn != nil {
		report.Protocol = conn.Protocol
		report.CipherSuite = conn.CipherSuite
		report.SupportedProtocols = conn.SupportedProtocols
	}

	for _, d := range selected {
		outcome, ok := outcomes[d.Name]
		if !ok {
			continue
		}
		entry := probeReport{
			ID:         d.ID,
			Name:       d.Name,
			DurationMs: float64(outcome.Duration.Microseconds()) / 1000,
		}
		switch res := outcome.Result.(type) {
		case nil:
			if outcome.Err != nil {
				entry.Status = statusError
				entry.Error = outcome.Err.Error()
			} else {
				entry.Status = statusOK
				entry.Evidence = noResultEvidence
			}
		case vulns.Finding:
			entry.Status = statusSafe
			if res.Vulnerable {
				entry.Status = statusVulnerable
			}
			entry.Evidence = res.Evidence
		default:
			entry.Status = statusOK
			entry.Evidence = fmt.Sprint(res)
		}
		report.Probes = append(report.Probes, entry)
	}
	return report
}

func writeReport(w io.Writer, report scanReport, format string) error {
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(report, jsonPrefix, jsonIndent)
		if err != nil {
			return fmt.Errorf("failed to encode report: %w", err)
		}
		_, err = fmt.Fprintln(w, string(b))
		return err
	case formatText:
		return printScanText(w, report)
	default:
		return &InvalidArgumentError{Name: "format", Value: format, Reason: "expected text or json"}
	}
}

func printScanText(w io.Writer, report scanReport) error {
	fmt.Fprintf(w, "%s %s\n", colorBold("Target:"), report.Target)
	fmt.Fprintf(w, "%s %s\n", colorBold("Protocol:"), report.Protocol)
	fmt.Fprintf(w, "%s %s\n", colorBold("Supported:"), strings.Join(report.SupportedProtocols, ", "))
	cipher := report.CipherSuite
	if report.Parameters != nil && report.Parameters.CipherSuiteOpenSSL() != "" {
		cipher = fmt.Sprintf("%s (OpenSSL: %s)", cipher, report.Parameters.CipherSuiteOpenSSL())
	}
	fmt.Fprintf(w, "%s %s\n", colorBold("Cipher suite:"), cipher)

	if len(report.Probes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, colorInfo("Vulnerability probes"))
		tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tPROBE\tSTATUS\tDURATION\tDETAILS")
		for _, p := range report.Probes {
			details := p.Evidence
			if p.Error != "" {
				details = p.Error
			}
			if details == "" {
				details = "-"
			}
			fmt.Fprintf(tw, "%d\t%s\t%s\t%.0fms\t%s\n", p.ID, p.Name, formatStatusWithColor(p.Status), p.DurationMs, details)
		}
		if err := tw.Flush(); err != nil {
			return err
		}
	}

	if report.Parameters != nil {
		fmt.Fprintln(w)
		printParameters(w, report.Parameters)
	}
	return nil
}

func printParameters(w io.Writer, params *rating.CryptoParams) {
	fmt.Fprintf(w, "%s (overall: %s)\n", colorInfo("Cryptographic parameters"), formatTier(params.Rating()))

	rows := make([]ratedRow, 0, len(rating.AllParameterTypes()))
	for _, p := range rating.AllParameterTypes() {
		if rv, ok := params.Param(p); ok {
			rows = append(rows, ratedRow{Label: p.Alias(), Rated: rv})
		}
	}
	_ = printRatedRows(w, rows)

	if params.CertVersion() == 0 {
		return
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, colorInfo("Certificate"))
	fmt.Fprintf(w, "  Version:  %d\n", params.CertVersion())
	fmt.Fprintf(w, "  Serial:   %s\n", params.SerialNumber())
	fmt.Fprintf(w, "  Valid:    %s to %s\n",
		params.NotBefore().UTC().Format(time.RFC3339), params.NotAfter().UTC().Format(time.RFC3339))
	fmt.Fprintf(w, "  Subject:  %s\n", formatAttributes(params.Subject()))
	fmt.Fprintf(w, "  Issuer:   %s\n", formatAttributes(params.Issuer()))
}

type ratedRow struct {
	Label string
	Rated rating.RatedValue
}

func printRatedRows(w io.Writer, rows []ratedRow) error {
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PARAMETER\tVALUE\tRATING")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Label, r.Rated.Value, formatTier(r.Rated.Tier))
	}
	return tw.Flush()
}

func formatAttributes(attrs []rating.Attribute) string {
	if len(attrs) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(attrs))
	for _, a := range attrs {
		parts = append(parts, a.Name+"="+a.Value)
	}
	return strings.Join(parts, ", ")
}
