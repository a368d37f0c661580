// Package ocr wraps the Poppler and Tesseract command-line tools behind
// small interfaces so the document pipeline can be tested without them.
package ocr

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joseph-ayodele/energy-tracker/internal/common"
)

// Reader reads PDF documents through the Poppler utilities (pdfinfo,
// pdftotext, pdftoppm).
type Reader struct {
	cfg    common.OCRConfig
	runner Runner
	logger *slog.Logger
}

func NewReader(cfg common.OCRConfig, logger *slog.Logger) *Reader {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdfinfo == "" {
		cfg.Pdfinfo = "pdfinfo"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Reader{cfg: cfg, runner: newExecRunner(logger), logger: logger}
}

// PageCount parses the "Pages:" line of pdfinfo output.
func (r *Reader) PageCount(ctx context.Context, path string) (int, error) {
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdfinfo, path)
	if err != nil {
		return 0, fmt.Errorf("%w: pdfinfo %q: %v (%s)", common.ErrDocumentRead, path, err, truncate(string(errb), 512))
	}
	for _, line := range strings.Split(string(out), "\n") {
		if !strings.HasPrefix(line, "Pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Pages:")))
		if err != nil {
			return 0, fmt.Errorf("parsing pdfinfo page count: %w", err)
		}
		return n, nil
	}
	return 0, fmt.Errorf("%w: pdfinfo output for %q has no page count", common.ErrDocumentRead, path)
}

// PageText extracts the text layer of pages first..last.
func (r *Reader) PageText(ctx context.Context, path string, first, last int) (string, error) {
	// pdftotext -f <first> -l <last> -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext,
		"-f", strconv.Itoa(first), "-l", strconv.Itoa(last),
		"-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext %q: %v (%s)", common.ErrDocumentRead, path, err, truncate(string(errb), 512))
	}
	return string(out), nil
}

// RenderPage rasterizes one page to a PNG in a temp directory. The
// caller must invoke cleanup once done with the image.
func (r *Reader) RenderPage(ctx context.Context, path string, page int) (string, func(), error) {
	tmpDir, err := os.MkdirTemp("", "et-pp-*")
	if err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			r.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", err)
		}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -f <p> -l <p> -r 300 -png <in.pdf> <tmp/page>
	p := strconv.Itoa(page)
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-f", p, "-l", p, "-r", strconv.Itoa(r.cfg.DPI), "-png", path, prefix)
	if err != nil {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm %q page %d: %w (%s)", path, page, err, truncate(string(errb), 512))
	}

	matches, _ := filepath.Glob(prefix + "-*.png")
	if len(matches) == 0 {
		cleanup()
		return "", nil, fmt.Errorf("pdftoppm produced no image for %q page %d", path, page)
	}
	return matches[0], cleanup, nil
}
