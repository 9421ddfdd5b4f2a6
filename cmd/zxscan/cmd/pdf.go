package cmd

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/betarho/zxscan/internal/engine"
	"github.com/betarho/zxscan/internal/output"
	"github.com/betarho/zxscan/internal/pdf"
	"github.com/betarho/zxscan/internal/reader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// pdfCmd represents the pdf command.
var pdfCmd = &cobra.Command{
	Use:   "pdf",
	Short: "Decode barcodes from PDF page images",
	Long: `Extract the embedded images from PDF documents and decode the
barcodes they contain.

Examples:
  zxscan pdf invoice.pdf
  zxscan pdf shipping.pdf --pages 1-3 --format json`,
	Args:         cobra.ArbitraryArgs,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			return errors.New("no input files provided")
		}

		cfg := GetConfig()
		opts, err := cfg.Scan.DecodeOptions()
		if err != nil {
			return err
		}
		pages, _ := cmd.Flags().GetString("pages")

		r, err := reader.New(engine.New(), reader.WithOptions(opts))
		if err != nil {
			return err
		}

		var rendered strings.Builder
		for _, path := range args {
			pageImages, err := pdf.ExtractImages(path, pages)
			if err != nil {
				return err
			}
			base := filepath.Base(path)
			for _, pi := range pageImages {
				for i, img := range pi.Images {
					results, err := r.ReadImage(cmd.Context(), img)
					if err != nil {
						return fmt.Errorf("scan %s page %d: %w", path, pi.Page, err)
					}
					source := fmt.Sprintf("%s#page%d.%d", base, pi.Page, i+1)
					doc := output.NewDocument(source, results)
					body, err := output.Render(doc, cfg.Output.Format)
					if err != nil {
						return err
					}
					rendered.WriteString(body)
				}
			}
		}

		return writeOutput(cmd, cfg.Output.File, rendered.String())
	},
}

func init() {
	rootCmd.AddCommand(pdfCmd)

	pdfCmd.Flags().String("pages", "", "page range to scan, e.g. \"1-5\" or \"1,3,7\" (default all)")
	pdfCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	pdfCmd.Flags().StringP("output", "o", "", "output file (default stdout)")

	_ = viper.BindPFlag("output.format", pdfCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", pdfCmd.Flags().Lookup("output"))
}
