package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.Output.Format)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, int64(32), cfg.Server.MaxUploadMB)
	assert.Equal(t, 255, cfg.Scan.MaxSymbols)
	assert.Equal(t, "LocalAverage", cfg.Scan.Binarizer)
	require.NoError(t, cfg.Validate())
}

func TestScanConfigDecodeOptions(t *testing.T) {
	s := ScanConfig{
		Formats:   "QRCode,EAN-13",
		TryHarder: true,
		IsPure:    true,
		Binarizer: "GlobalHistogram",
		TextMode:  "Hex",
		EanAddOn:  "Require",
	}
	opts, err := s.DecodeOptions()
	require.NoError(t, err)
	assert.Equal(t, barcode.NewFormatSet(barcode.FormatQRCode, barcode.FormatEAN13), opts.Formats)
	assert.True(t, opts.TryHarder)
	assert.True(t, opts.IsPure)
	assert.Equal(t, barcode.BinarizerGlobalHistogram, opts.Binarizer)
	assert.Equal(t, barcode.TextHex, opts.TextMode)
	assert.Equal(t, barcode.EanAddOnRequire, opts.EanAddOnSymbol)
	assert.Equal(t, 255, opts.MaxNumberOfSymbols, "zero max symbols falls back to default")
}

func TestScanConfigDecodeOptionsErrors(t *testing.T) {
	_, err := ScanConfig{Formats: "nope"}.DecodeOptions()
	assert.Error(t, err)

	_, err = ScanConfig{Binarizer: "otsu"}.DecodeOptions()
	assert.Error(t, err)

	_, err = ScanConfig{TextMode: "base64"}.DecodeOptions()
	assert.Error(t, err)

	_, err = ScanConfig{EanAddOn: "maybe"}.DecodeOptions()
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Output.Format = "xml"
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.Scan.Binarizer = "otsu"
	assert.Error(t, cfg.Validate())
}

func newTestLoader() *Loader {
	return &Loader{v: viper.New()}
}

func TestLoaderDefaults(t *testing.T) {
	l := newTestLoader()
	cfg, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Scan.MaxSymbols, cfg.Scan.MaxSymbols)
	assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
}

func TestLoaderLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zxscan.yaml")
	content := []byte("log_level: debug\nscan:\n  formats: QRCode\n  try_harder: true\nserver:\n  port: 9999\n")
	require.NoError(t, os.WriteFile(path, content, 0o644))

	cfg, err := newTestLoader().LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "QRCode", cfg.Scan.Formats)
	assert.True(t, cfg.Scan.TryHarder)
	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, 255, cfg.Scan.MaxSymbols, "defaults survive partial files")
}

func TestLoaderLoadFileMissing(t *testing.T) {
	_, err := newTestLoader().LoadFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoaderRejectsInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "zxscan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output:\n  format: xml\n"), 0o644))

	_, err := newTestLoader().LoadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid output format")
}

func TestLoaderEnvironment(t *testing.T) {
	t.Setenv("ZXSCAN_SCAN_TRY_HARDER", "true")
	t.Setenv("ZXSCAN_SERVER_PORT", "1234")

	cfg, err := newTestLoader().Load()
	require.NoError(t, err)
	assert.True(t, cfg.Scan.TryHarder)
	assert.Equal(t, 1234, cfg.Server.Port)
}
