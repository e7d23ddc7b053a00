package cmd

import (
	"strings"

	"github.com/fatih/color"

	"github.com/khanhnv2901/ssltest/internal/rating"
)

var (
	colorSuccess = color.New(color.FgGreen).SprintFunc()
	colorInfo    = color.New(color.FgCyan).SprintFunc()
	colorWarn    = color.New(color.FgYellow).SprintFunc()
	colorError   = color.New(color.FgRed).SprintFunc()
	colorBold    = color.New(color.Bold).SprintFunc()
)

func formatStatusWithColor(status string) string {
	switch strings.ToLower(status) {
	case statusOK, statusSafe, "pass":
		return colorSuccess(status)
	case statusVulnerable:
		return colorError(status)
	case statusError, "fail", "failed":
		return colorWarn(status)
	default:
		return status
	}
}

// formatTier colours a tier name by severity.
func formatTier(t rating.Tier) string {
	name := t.String()
	switch t {
	case rating.TierSecure:
		return colorSuccess(name)
	case rating.TierNotRecommended:
		return colorInfo(name)
	case rating.TierWeak:
		return colorWarn(name)
	case rating.TierForbidden:
		return colorError(name)
	default:
		return name
	}
}
