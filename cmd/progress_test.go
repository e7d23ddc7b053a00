package cmd

import (
	"strings"
	"testing"
	"time"

	"github.com/khanhnv2901/ssltest/internal/probe"
)

func TestProgressPrinterLifecycle(t *testing.T) {
	out := &syncBuffer{}
	printer := newProgressPrinter(out, 0, "probes")
	if printer.total != 1 {
		t.Fatalf("expected total to be clamped to 1, got %d", printer.total)
	}

	printer.Start()
	printer.Increment(true, 0.5)
	printer.Observe("BEAST", probe.Outcome{Err: errTestProbe, Duration: time.Second})
	time.Sleep(350 * time.Millisecond) // allow ticker to tick at least once
	printer.Stop()

	output := out.String()
	if !strings.Contains(output, "Progress: 2/2") {
		t.Fatalf("expected summary progress, got %q", output)
	}
	if !strings.Contains(output, "OK:1") || !strings.Contains(output, "Fail:1") {
		t.Fatalf("expected OK/Fail counts in output, got %q", output)
	}
	if !strings.Contains(output, "Avg:0.75s") {
		t.Fatalf("expected average duration in output, got %q", output)
	}
}
