package cmd

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/engine"
	"github.com/betarho/zxscan/internal/imgio"
	"github.com/betarho/zxscan/internal/output"
	"github.com/betarho/zxscan/internal/overlay"
	"github.com/betarho/zxscan/internal/reader"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// scanCmd represents the scan command.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Decode barcodes from image files",
	Long: `Decode barcodes from one or more image files.

Supported formats: JPEG, PNG, BMP, WebP

Examples:
  zxscan scan photo.jpg
  zxscan scan *.png --format json
  zxscan scan label.jpg --formats qrcode,datamatrix --try-harder
  zxscan scan ticket.png --output results.json --overlay-dir debug/`,
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
		if !output.IsValidFormat(cfg.Output.Format) {
			return fmt.Errorf("invalid output format: %s (must be one of: %s)",
				cfg.Output.Format, strings.Join(output.ValidFormats, ", "))
		}

		r, err := reader.New(engine.New(), reader.WithOptions(opts))
		if err != nil {
			return err
		}

		var rendered strings.Builder
		for _, path := range args {
			img, _, err := imgio.Load(path)
			if err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
			results, err := r.ReadImage(cmd.Context(), img)
			if err != nil {
				return fmt.Errorf("scan %s: %w", path, err)
			}

			doc := output.NewDocument(filepath.Base(path), results)
			body, err := output.Render(doc, cfg.Output.Format)
			if err != nil {
				return err
			}
			rendered.WriteString(body)

			if cfg.Output.OverlayDir != "" {
				if err := writeOverlay(cfg.Output.OverlayDir, path, img, results); err != nil {
					return err
				}
			}
		}

		return writeOutput(cmd, cfg.Output.File, rendered.String())
	},
}

func writeOverlay(dir, srcPath string, img image.Image, results []barcode.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create overlay directory: %w", err)
	}
	rendered := overlay.Render(img, results, color.RGBA{R: 255, A: 255})
	base := strings.TrimSuffix(filepath.Base(srcPath), filepath.Ext(srcPath))
	outPath := filepath.Join(dir, base+"_overlay.png")
	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("create overlay file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, rendered); err != nil {
		return fmt.Errorf("encode overlay: %w", err)
	}
	return nil
}

func writeOutput(cmd *cobra.Command, file, body string) error {
	if file == "" {
		_, err := fmt.Fprint(cmd.OutOrStdout(), body)
		return err
	}
	if err := os.WriteFile(file, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().String("formats", "", "comma-separated list of formats to decode (default all)")
	scanCmd.Flags().Bool("try-harder", false, "spend more time searching for symbols")
	scanCmd.Flags().Bool("try-rotate", false, "also search in rotated orientations")
	scanCmd.Flags().Bool("try-invert", false, "also search with inverted luminance")
	scanCmd.Flags().Bool("try-downscale", false, "also search on downscaled images")
	scanCmd.Flags().Bool("pure", false, "assume the image is a clean, unrotated symbol")
	scanCmd.Flags().Int("max-symbols", 0, "maximum number of symbols to decode")
	scanCmd.Flags().String("binarizer", "", "binarizer (LocalAverage, GlobalHistogram, FixedThreshold, BoolCast)")
	scanCmd.Flags().String("text-mode", "", "text rendering mode (Plain, ECI, HRI, Hex, Escaped)")
	scanCmd.Flags().String("ean-add-on", "", "EAN-2/5 add-on handling (Ignore, Read, Require)")
	scanCmd.Flags().StringP("format", "f", "text", "output format (text, json, csv, yaml)")
	scanCmd.Flags().StringP("output", "o", "", "output file (default stdout)")
	scanCmd.Flags().String("overlay-dir", "", "directory for symbol-geometry overlay PNGs")

	_ = viper.BindPFlag("scan.formats", scanCmd.Flags().Lookup("formats"))
	_ = viper.BindPFlag("scan.try_harder", scanCmd.Flags().Lookup("try-harder"))
	_ = viper.BindPFlag("scan.try_rotate", scanCmd.Flags().Lookup("try-rotate"))
	_ = viper.BindPFlag("scan.try_invert", scanCmd.Flags().Lookup("try-invert"))
	_ = viper.BindPFlag("scan.try_downscale", scanCmd.Flags().Lookup("try-downscale"))
	_ = viper.BindPFlag("scan.pure", scanCmd.Flags().Lookup("pure"))
	_ = viper.BindPFlag("scan.max_symbols", scanCmd.Flags().Lookup("max-symbols"))
	_ = viper.BindPFlag("scan.binarizer", scanCmd.Flags().Lookup("binarizer"))
	_ = viper.BindPFlag("scan.text_mode", scanCmd.Flags().Lookup("text-mode"))
	_ = viper.BindPFlag("scan.ean_add_on", scanCmd.Flags().Lookup("ean-add-on"))
	_ = viper.BindPFlag("output.format", scanCmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("output.file", scanCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("output.overlay_dir", scanCmd.Flags().Lookup("overlay-dir"))
}
