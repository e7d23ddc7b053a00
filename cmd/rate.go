package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/khanhnv2901/ssltest/internal/rating"
	sharedErrors "github.com/khanhnv2901/ssltest/internal/shared/errors"
)

var rateCmd = &cobra.Command{
	Use:   "rate",
	Short: "Rate individual cryptographic parameters without connecting",
}

var rateCipherCmd = &cobra.Command{
	Use:   "cipher <name>",
	Short: "Rate a cipher suite given by its IANA or OpenSSL name",
	Example: `  ssltest rate cipher TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256
  ssltest rate cipher DES-CBC3-SHA`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		iana, err := appCtx.Mapping.Normalize(args[0])
		if err != nil {
			if !errors.Is(err, sharedErrors.ErrCipherSuiteMappingNotFound) || !strings.HasPrefix(args[0], "TLS_") {
				return err
			}
			// IANA names missing from the mapping can still be rated.
			iana = args[0]
		}

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "%s %s\n", colorBold("Cipher suite:"), iana)
		if vendor, err := appCtx.Mapping.ToVendorName(iana); err == nil {
			fmt.Fprintf(out, "%s %s\n", colorBold("OpenSSL name:"), vendor)
		}

		rated := appCtx.Engine.RateCipherSuite(iana)
		worst := rating.TierUnrated
		rows := make([]ratedRow, 0, len(rated))
		for _, p := range rating.AllParameterTypes() {
			if rv, ok := rated[p]; ok {
				rows = append(rows, ratedRow{Label: p.Alias(), Rated: rv})
				worst = rating.Worst(worst, rv.Tier)
			}
		}
		fmt.Fprintf(out, "%s %s\n\n", colorBold("Overall:"), formatTier(worst))
		return printRatedRows(out, rows)
	},
}

var rateKeyCmd = &cobra.Command{
	Use:     "key <algorithm> <bits>",
	Short:   "Rate a public key algorithm and length",
	Example: "  ssltest rate key RSA 2048",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		alg := strings.ToUpper(args[0])
		if _, err := strconv.Atoi(args[1]); err != nil {
			return &InvalidArgumentError{Name: "key length", Value: args[1], Reason: "expected a number of bits"}
		}

		rows := []ratedRow{
			{Label: rating.ParamPublicKeyAlgorithm.Alias(), Rated: appCtx.Engine.RateValue(rating.ParamPublicKeyAlgorithm, alg)},
			{Label: rating.ParamPublicKeyLength.Alias(), Rated: rating.RatedValue{
				Value: args[1],
				Tier:  appCtx.Engine.RateKeyLength(rating.ParamPublicKeyLength, alg, args[1]),
			}},
		}
		return printRatedRows(cmd.OutOrStdout(), rows)
	},
}

var rateParamCmd = &cobra.Command{
	Use:     "param <parameter> <value>",
	Short:   "Rate a single categorical parameter value",
	Example: "  ssltest rate param PROTOCOL TLSv1.1",
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		appCtx := getAppContext(cmd)

		p, ok := rating.ParseParameterType(strings.ToUpper(args[0]))
		if !ok {
			return &InvalidArgumentError{Name: "parameter", Value: args[0], Reason: "see 'ssltest rate param --help'"}
		}
		if p.Numeric() {
			return &InvalidArgumentError{Name: "parameter", Value: args[0], Reason: "use 'ssltest rate key' for key lengths"}
		}
		return printRatedRows(cmd.OutOrStdout(), []ratedRow{{Label: p.Alias(), Rated: appCtx.Engine.RateValue(p, args[1])}})
	},
}

func init() {
	names := make([]string, 0, len(rating.AllParameterTypes()))
	for _, p := range rating.AllParameterTypes() {
		if !p.Numeric() {
			names = append(names, p.Name())
		}
	}
	rateParamCmd.Long = "Rate a single categorical parameter value.\n\nParameters: " + strings.Join(names, ", ")

	rateCmd.AddCommand(rateCipherCmd)
	rateCmd.AddCommand(rateKeyCmd)
	rateCmd.AddCommand(rateParamCmd)
}
