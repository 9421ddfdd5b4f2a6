package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeReader returns canned results and records the options it saw.
type fakeReader struct {
	results []barcode.Result
	err     error
	opts    []barcode.Options
}

func (f *fakeReader) ReadImageOptions(_ context.Context, _ image.Image, opts barcode.Options) ([]barcode.Result, error) {
	f.opts = append(f.opts, opts)
	return f.results, f.err
}

func (f *fakeReader) Options() barcode.Options { return barcode.DefaultOptions() }

func newTestServer(t *testing.T, r barcodeReader) *Server {
	t.Helper()
	s, err := NewServer(r, Config{ScanOptions: barcode.DefaultOptions()})
	require.NoError(t, err)
	return s
}

func pngUpload(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	for y := 0; y < 16; y++ {
		for x := 0; x < 16; x++ {
			img.Set(x, y, color.White)
		}
	}
	var imgBuf bytes.Buffer
	require.NoError(t, png.Encode(&imgBuf, img))

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", "test.png")
	require.NoError(t, err)
	_, err = fw.Write(imgBuf.Bytes())
	require.NoError(t, err)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	require.NoError(t, w.Close())
	return &body, w.FormDataContentType()
}

func TestNewServerRequiresReader(t *testing.T) {
	_, err := NewServer(nil, Config{})
	assert.Error(t, err)
}

func TestHealthHandler(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	s.healthHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	rec := httptest.NewRecorder()
	s.healthHandler(rec, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestFormatsHandler(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	rec := httptest.NewRecorder()
	s.formatsHandler(rec, httptest.NewRequest(http.MethodGet, "/formats", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var resp FormatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, len(resp.Formats), resp.Count)
	assert.Contains(t, resp.Formats, "QRCode")
}

func TestScanHandler(t *testing.T) {
	pos := barcode.PositionFromBounds(image.Rect(1, 1, 10, 10), 0)
	fr := &fakeReader{results: []barcode.Result{{
		Format:              barcode.FormatQRCode,
		Text:                "hello",
		ContentType:         barcode.ContentText,
		Position:            &pos,
		SymbologyIdentifier: "]Q1",
	}}}
	s := newTestServer(t, fr)

	body, contentType := pngUpload(t, map[string]string{"try_harder": "true", "formats": "QRCode"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var resp ScanResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "test.png", resp.Result.Source)
	require.Len(t, resp.Result.Symbols, 1)
	assert.Equal(t, "QRCode", resp.Result.Symbols[0].Format)
	assert.Equal(t, "hello", resp.Result.Symbols[0].Text)

	require.Len(t, fr.opts, 1)
	assert.True(t, fr.opts[0].TryHarder)
	assert.Equal(t, barcode.NewFormatSet(barcode.FormatQRCode), fr.opts[0].Formats)
}

func TestScanHandlerTextOutput(t *testing.T) {
	fr := &fakeReader{results: []barcode.Result{{Format: barcode.FormatEAN13, Text: "4006381333931"}}}
	s := newTestServer(t, fr)

	body, contentType := pngUpload(t, map[string]string{"output": "text"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `test.png: EAN-13 "4006381333931"`)
}

func TestScanHandlerNoFile(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandlerInvalidImage(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	fw, err := w.CreateFormFile("image", "bad.png")
	require.NoError(t, err)
	_, err = fw.Write([]byte("not an image"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/scan", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandlerBadOptions(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	body, contentType := pngUpload(t, map[string]string{"binarizer": "otsu"})
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestScanHandlerDecodeError(t *testing.T) {
	s := newTestServer(t, &fakeReader{err: errors.New("boom")})
	body, contentType := pngUpload(t, nil)
	req := httptest.NewRequest(http.MethodPost, "/scan", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	s.scanHandler(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestScanHandlerMethodNotAllowed(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	rec := httptest.NewRecorder()
	s.scanHandler(rec, httptest.NewRequest(http.MethodGet, "/scan", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestOptionsFromMap(t *testing.T) {
	s := newTestServer(t, &fakeReader{})

	opts, err := s.optionsFromMap(map[string]any{
		"formats":     "QRCode",
		"try_harder":  true,
		"try_invert":  true,
		"max_symbols": float64(4),
		"text_mode":   "Hex",
	})
	require.NoError(t, err)
	assert.Equal(t, barcode.NewFormatSet(barcode.FormatQRCode), opts.Formats)
	assert.True(t, opts.TryHarder)
	assert.True(t, opts.TryInvert)
	assert.Equal(t, 4, opts.MaxNumberOfSymbols)
	assert.Equal(t, barcode.TextHex, opts.TextMode)

	_, err = s.optionsFromMap(map[string]any{"formats": "nope"})
	assert.Error(t, err)

	opts, err = s.optionsFromMap(nil)
	require.NoError(t, err)
	assert.Equal(t, barcode.DefaultOptions(), opts)
}

func TestSetupRoutes(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	mux := http.NewServeMux()
	assert.NotPanics(t, func() { s.SetupRoutes(mux) })

	srv := httptest.NewServer(mux)
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp2, err := http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer func() { _ = resp2.Body.Close() }()
	assert.Equal(t, http.StatusOK, resp2.StatusCode)
}

func TestCORSMiddleware(t *testing.T) {
	s := newTestServer(t, &fakeReader{})
	handler := s.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/x", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodOptions, "/x", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
