// Package render converts finished HTML documents to print formats by
// shelling out to a headless browser. The document is the source of truth;
// conversion never alters markup, so two conversions of the same document
// on the same converter version produce the same pages.
package render

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/lumenwell/capreport/pkg/errors"
)

// chromiumNames lists the browser binaries probed in order. The first one
// on PATH wins.
var chromiumNames = []string{"chromium", "chromium-browser", "google-chrome", "google-chrome-stable"}

// ToPDF converts an HTML document to PDF using a headless Chromium.
// Requires a Chromium-family browser: apt install chromium (Linux),
// brew install --cask chromium (macOS).
func ToPDF(ctx context.Context, html string) ([]byte, error) {
	return convert(ctx, html, "pdf", func(outPath string) []string {
		return []string{
			"--headless",
			"--disable-gpu",
			"--no-sandbox",
			"--print-to-pdf=" + outPath,
			"--no-pdf-header-footer",
		}
	})
}

// ToPNG converts an HTML document to a PNG screenshot at the given viewport
// width. Height follows the document.
func ToPNG(ctx context.Context, html string, width int) ([]byte, error) {
	return convert(ctx, html, "png", func(outPath string) []string {
		return []string{
			"--headless",
			"--disable-gpu",
			"--no-sandbox",
			"--screenshot=" + outPath,
			"--window-size=" + strconv.Itoa(width) + ",1",
			"--hide-scrollbars",
		}
	})
}

// convert writes the document to a temp file, runs the browser against it,
// and reads back the converted output.
func convert(ctx context.Context, html, format string, args func(outPath string) []string) ([]byte, error) {
	browser, err := findBrowser()
	if err != nil {
		return nil, err
	}

	dir, err := os.MkdirTemp("", "capreport-render-")
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "create render workspace")
	}
	defer os.RemoveAll(dir)

	inPath := filepath.Join(dir, "document.html")
	if err := os.WriteFile(inPath, []byte(html), 0o644); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "write document")
	}
	outPath := filepath.Join(dir, "document."+format)

	cmd := exec.CommandContext(ctx, browser, append(args(outPath), "file://"+inPath)...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererFailed, err,
			"%s conversion failed: %s", format, errBuf.String())
	}

	out, err := os.ReadFile(outPath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRendererFailed, err,
			"%s conversion produced no output", format)
	}
	return out, nil
}

// findBrowser locates a usable Chromium-family binary on PATH.
func findBrowser() (string, error) {
	for _, name := range chromiumNames {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	return "", errors.New(errors.ErrCodeRendererNotFound,
		"PDF/PNG export requires a Chromium-family browser. Install with:\n  macOS:  brew install --cask chromium\n  Linux:  apt install chromium")
}
