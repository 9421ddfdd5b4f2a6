// Package pdf extracts embedded page images from PDF documents so their
// barcodes can be scanned like any other bitmap input.
package pdf

import (
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/betarho/zxscan/internal/imgio"
	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// PageImages holds the images embedded on one page, in extraction order.
type PageImages struct {
	Page   int
	Images []image.Image
}

// ExtractImages pulls the embedded images out of a PDF file, optionally
// limited to a page range like "1-5" or "1,3,7".
func ExtractImages(filename, pageRange string) ([]PageImages, error) {
	pages, err := parsePageRange(pageRange)
	if err != nil {
		return nil, fmt.Errorf("pdf: invalid page range %q: %w", pageRange, err)
	}

	tempDir, err := os.MkdirTemp("", "zxscan-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("pdf: create temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	var selected []string
	for _, p := range pages {
		selected = append(selected, strconv.Itoa(p))
	}
	if err := api.ExtractImagesFile(filename, tempDir, selected, nil); err != nil {
		return nil, fmt.Errorf("pdf: extract images from %s: %w", filename, err)
	}

	byPage, err := collectImages(tempDir)
	if err != nil {
		return nil, fmt.Errorf("pdf: load extracted images: %w", err)
	}

	out := make([]PageImages, 0, len(byPage))
	for page, imgs := range byPage {
		out = append(out, PageImages{Page: page, Images: imgs})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Page < out[j].Page })
	return out, nil
}

// collectImages walks the extraction directory and groups decodable images
// by page number. pdfcpu names files page_<num>_image_<idx>.<ext>.
func collectImages(dir string) (map[int][]image.Image, error) {
	result := make(map[int][]image.Image)
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		page, perr := pageFromFilename(info.Name())
		if perr != nil {
			return nil // not an extracted page image
		}
		img, _, lerr := imgio.Load(path)
		if lerr != nil {
			return nil // skip image flavors we cannot decode
		}
		result[page] = append(result[page], img)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func pageFromFilename(name string) (int, error) {
	if !strings.HasPrefix(name, "page_") {
		return 0, errors.New("not a page file")
	}
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, errors.New("unexpected filename shape")
	}
	return strconv.Atoi(parts[1])
}

// parsePageRange parses "1-5", "3" or "1,3,5" style ranges. Empty input
// selects all pages.
func parsePageRange(pageRange string) ([]int, error) {
	if pageRange == "" {
		return nil, nil
	}
	var pages []int
	for _, token := range strings.Split(pageRange, ",") {
		token = strings.TrimSpace(token)
		expanded, err := parseRangeToken(token)
		if err != nil {
			return nil, err
		}
		pages = append(pages, expanded...)
	}
	return pages, nil
}

func parseRangeToken(token string) ([]int, error) {
	if start, end, ok := strings.Cut(token, "-"); ok {
		lo, err := strconv.Atoi(strings.TrimSpace(start))
		if err != nil {
			return nil, fmt.Errorf("invalid start page %q", start)
		}
		hi, err := strconv.Atoi(strings.TrimSpace(end))
		if err != nil {
			return nil, fmt.Errorf("invalid end page %q", end)
		}
		if lo > hi {
			return nil, fmt.Errorf("start page %d greater than end page %d", lo, hi)
		}
		out := make([]int, 0, hi-lo+1)
		for p := lo; p <= hi; p++ {
			out = append(out, p)
		}
		return out, nil
	}
	p, err := strconv.Atoi(token)
	if err != nil {
		return nil, fmt.Errorf("invalid page number %q", token)
	}
	return []int{p}, nil
}
