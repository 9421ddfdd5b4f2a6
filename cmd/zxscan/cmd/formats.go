package cmd

import (
	"fmt"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/engine"
	"github.com/betarho/zxscan/internal/reader"
	"github.com/spf13/cobra"
)

// formatsCmd lists what the decoder can handle.
var formatsCmd = &cobra.Command{
	Use:          "formats",
	Short:        "List decodable barcode formats and supported frame formats",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		supported := engine.New().SupportedFormats()

		fmt.Fprintln(cmd.OutOrStdout(), "Barcode formats:")
		for _, name := range barcode.FormatNames() {
			f, err := barcode.ParseFormat(name)
			if err != nil {
				return err
			}
			marker := " "
			if supported.Empty() || supported.Has(f) {
				marker = "*"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "  %s %s\n", marker, name)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "\nFrame formats:")
		for _, ff := range reader.SupportedFrameFormats(reader.CapabilityFull) {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", ff)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatsCmd)
}
