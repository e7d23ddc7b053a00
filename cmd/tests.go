package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/ssltest/internal/probe"
)

var testsCmd = &cobra.Command{
	Use:   "tests",
	Short: "List the available vulnerability probes",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)
		return printProbeList(cmd.OutOrStdout(), appCtx.Registry.ListAvailable())
	},
}

func printProbeList(w io.Writer, descs []probe.Descriptor) error {
	if len(descs) == 0 {
		fmt.Fprintln(w, colorWarn("No probes registered."))
		return nil
	}
	tw := tabwriter.NewWriter(w, 2, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME")
	for _, d := range descs {
		fmt.Fprintf(tw, "%d\t%s\n", d.ID, d.Name)
	}
	return tw.Flush()
}
