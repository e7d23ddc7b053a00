package cmd

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap/zaptest"
)

// syncBuffer is a bytes.Buffer safe for the progress printer's goroutine.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.buf.String()
}

func disableColor(t *testing.T) {
	t.Helper()
	original := color.NoColor
	color.NoColor = true
	t.Cleanup(func() {
		color.NoColor = original
	})
}

// setupTestAppContext builds a real AppContext from cfg and returns a
// command carrying it whose output goes to the returned buffer.
func setupTestAppContext(t *testing.T, cfg *CLIConfig) (*cobra.Command, *bytes.Buffer) {
	t.Helper()
	disableColor(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	original := globalAppContext
	t.Cleanup(func() {
		globalAppContext = original
	})

	if cfg == nil {
		cfg = newCLIConfig()
	}
	appCtx, err := newAppContext(zaptest.NewLogger(t).Sugar(), cfg)
	if err != nil {
		t.Fatalf("failed to build app context: %v", err)
	}

	out := &bytes.Buffer{}
	c := &cobra.Command{Use: "test"}
	c.SetOut(out)
	c.SetErr(out)
	c.SetContext(context.Background())
	storeAppContext(c, appCtx)
	return c, out
}
