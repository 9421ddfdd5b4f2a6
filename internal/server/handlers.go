package server

import (
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/betarho/zxscan/internal/barcode"
	"github.com/betarho/zxscan/internal/imgio"
	"github.com/betarho/zxscan/internal/output"
	"github.com/betarho/zxscan/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	ver, _, _ := version.Info()
	s.writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: ver,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// formatsHandler lists the decodable barcode formats.
func (s *Server) formatsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}
	names := barcode.FormatNames()
	s.writeJSON(w, http.StatusOK, FormatsResponse{Formats: names, Count: len(names)})
}

// scanHandler decodes barcodes from an uploaded image.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)
	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	img, _, err := imgio.Decode(file)
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	opts, err := s.optionsFromForm(r)
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	start := time.Now()
	results, err := s.decode(r.Context(), img, opts)
	duration := time.Since(start)

	if err != nil {
		scanRequestsTotal.WithLabelValues("image", "error").Inc()
		s.writeErrorResponse(w, "Decode failed: "+err.Error(), http.StatusInternalServerError)
		return
	}

	scanRequestsTotal.WithLabelValues("image", "success").Inc()
	scanDuration.WithLabelValues("image").Observe(duration.Seconds())
	symbolsDecoded.WithLabelValues("image").Observe(float64(len(results)))

	doc := output.NewDocument(header.Filename, results)

	if format := r.FormValue("output"); format != "" && format != output.FormatJSON {
		body, rerr := output.Render(doc, format)
		if rerr != nil {
			s.writeErrorResponse(w, rerr.Error(), http.StatusBadRequest)
			return
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = io.WriteString(w, body)
		return
	}

	s.writeJSON(w, http.StatusOK, ScanResponse{Success: true, Result: doc})
}

// optionsFromForm overlays per-request form values onto the server's
// default decode options.
func (s *Server) optionsFromForm(r *http.Request) (barcode.Options, error) {
	opts := s.defaults
	if v := r.FormValue("formats"); v != "" {
		set, err := barcode.ParseFormatSet(v)
		if err != nil {
			return opts, err
		}
		opts.Formats = set
	}
	if v := r.FormValue("try_harder"); v != "" {
		opts.TryHarder = v == "true" || v == "1"
	}
	if v := r.FormValue("try_rotate"); v != "" {
		opts.TryRotate = v == "true" || v == "1"
	}
	if v := r.FormValue("try_invert"); v != "" {
		opts.TryInvert = v == "true" || v == "1"
	}
	if v := r.FormValue("pure"); v != "" {
		opts.IsPure = v == "true" || v == "1"
	}
	if v := r.FormValue("max_symbols"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return opts, fmt.Errorf("invalid max_symbols %q", v)
		}
		opts.MaxNumberOfSymbols = n
	}
	if v := r.FormValue("binarizer"); v != "" {
		b, err := barcode.ParseBinarizer(v)
		if err != nil {
			return opts, err
		}
		opts.Binarizer = b
	}
	if v := r.FormValue("text_mode"); v != "" {
		t, err := barcode.ParseTextMode(v)
		if err != nil {
			return opts, err
		}
		opts.TextMode = t
	}
	if v := r.FormValue("ean_add_on"); v != "" {
		e, err := barcode.ParseEanAddOnSymbol(v)
		if err != nil {
			return opts, err
		}
		opts.EanAddOnSymbol = e
	}
	return opts, nil
}
