// Package support provides the shared state and step definitions for the
// CLI integration suite.
package support

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/betarho/zxscan/cmd/zxscan/cmd"
	"github.com/makiuchi-d/gozxing"
	"github.com/makiuchi-d/gozxing/qrcode"
)

// TestContext carries per-scenario state: the generated input image, the
// captured command output and the last execution error.
type TestContext struct {
	workDir   string
	imagePath string
	output    bytes.Buffer
	lastErr   error
}

// NewTestContext creates a fresh context with its own scratch directory.
func NewTestContext() (*TestContext, error) {
	dir, err := os.MkdirTemp("", "zxscan-cli-*")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	return &TestContext{workDir: dir}, nil
}

// Cleanup removes the scratch directory.
func (tc *TestContext) Cleanup() error {
	return os.RemoveAll(tc.workDir)
}

// writeQRImage renders a QR code with the given text to a PNG file.
func (tc *TestContext) writeQRImage(text string) error {
	writer := qrcode.NewQRCodeWriter()
	bm, err := writer.Encode(text, gozxing.BarcodeFormat_QR_CODE, 200, 200, nil)
	if err != nil {
		return fmt.Errorf("encode qr: %w", err)
	}
	img := image.NewGray(image.Rect(0, 0, bm.GetWidth(), bm.GetHeight()))
	for y := 0; y < bm.GetHeight(); y++ {
		for x := 0; x < bm.GetWidth(); x++ {
			if bm.Get(x, y) {
				img.SetGray(x, y, color.Gray{Y: 0})
			} else {
				img.SetGray(x, y, color.Gray{Y: 255})
			}
		}
	}
	return tc.writePNG(img)
}

// writeBlankImage writes an all-white PNG file.
func (tc *TestContext) writeBlankImage() error {
	img := image.NewGray(image.Rect(0, 0, 100, 100))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	return tc.writePNG(img)
}

func (tc *TestContext) writePNG(img image.Image) error {
	tc.imagePath = filepath.Join(tc.workDir, "input.png")
	f, err := os.Create(tc.imagePath)
	if err != nil {
		return fmt.Errorf("create image file: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// runCommand executes the CLI in-process with the given argument string.
// The {image} placeholder expands to the scenario's generated image path.
func (tc *TestContext) runCommand(argLine string) error {
	argLine = strings.ReplaceAll(argLine, "{image}", tc.imagePath)
	args := strings.Fields(argLine)

	tc.output.Reset()
	root := cmd.GetRootCommand()
	root.SetOut(&tc.output)
	root.SetErr(&tc.output)
	root.SetArgs(args)

	tc.lastErr = root.Execute()
	return nil
}
