// Package pipeline turns utility-bill documents into review candidates.
// Text extraction is attempted first; pages are rasterized and OCRed
// only when the text layer is missing or too thin to trust.
package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"

	"github.com/joseph-ayodele/energy-tracker/constants"
	"github.com/joseph-ayodele/energy-tracker/internal/entity"
	"github.com/joseph-ayodele/energy-tracker/internal/extract"
)

// DocumentReader is the slice of a PDF toolchain the pipeline needs.
type DocumentReader interface {
	PageCount(ctx context.Context, path string) (int, error)
	PageText(ctx context.Context, path string, first, last int) (string, error)
	RenderPage(ctx context.Context, path string, page int) (imgPath string, cleanup func(), err error)
}

// Recognizer OCRs a rasterized page image.
type Recognizer interface {
	Recognize(ctx context.Context, imagePath string) (string, error)
}

// ProgressFunc reports batch progress for long OCR runs. pct is 0..100.
type ProgressFunc func(pct int, label string)

// Only the opening pages carry the consumption summary; reading further
// costs OCR time without improving hit rate.
const defaultScanPages = 2

// Text shorter than this is treated as a missing text layer (scanned
// bill with a stray header or watermark).
const minTextLen = 120

type Pipeline struct {
	docs         DocumentReader
	ocr          Recognizer
	fallbackYear int
	maxPages     int
	logger       *slog.Logger
}

func New(docs DocumentReader, ocr Recognizer, fallbackYear, maxPages int, logger *slog.Logger) *Pipeline {
	if maxPages <= 0 {
		maxPages = defaultScanPages
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{docs: docs, ocr: ocr, fallbackYear: fallbackYear, maxPages: maxPages, logger: logger}
}

// ExtractBatch processes documents sequentially. A document that cannot
// be read yields a read-error candidate; the batch always runs to the
// end. progress may be nil.
func (p *Pipeline) ExtractBatch(ctx context.Context, paths []string, progress ProgressFunc) []entity.Candidate {
	out := make([]entity.Candidate, 0, len(paths))
	for i, path := range paths {
		if progress != nil {
			progress(i*100/len(paths), filepath.Base(path))
		}
		out = append(out, p.ExtractFile(ctx, path, progress))
	}
	if progress != nil {
		progress(100, "done")
	}
	return out
}

// ExtractFile extracts tariff bands and the billing month from one PDF.
func (p *Pipeline) ExtractFile(ctx context.Context, path string, progress ProgressFunc) entity.Candidate {
	name := filepath.Base(path)

	pages, err := p.docs.PageCount(ctx, path)
	if err != nil {
		p.logger.Error("document unreadable", "path", path, "error", err)
		return readError(name)
	}
	scan := min(pages, p.maxPages)

	text, err := p.docs.PageText(ctx, path, 1, scan)
	if err != nil {
		p.logger.Error("text extraction failed", "path", path, "error", err)
		return readError(name)
	}

	method := constants.MethodText
	bands := extract.TariffBands(text)
	month, monthOK := extract.Period(text, p.fallbackYear)

	// A thin text layer usually means a scanned bill: fall back to OCR.
	if !bands.OK || len(text) < minTextLen {
		method = constants.MethodOCR
		ocrText := p.ocrPages(ctx, path, name, scan, progress)
		text = ocrText
		bands = extract.TariffBands(ocrText)
		if !monthOK {
			month, monthOK = extract.Period(ocrText, p.fallbackYear)
		}
	}

	status := constants.StatusNeedsReview
	if bands.OK {
		status = constants.StatusOKVerify
	}
	conf := extract.Confidence(text, bands, monthOK)

	p.logger.Info("document extracted",
		"path", path, "method", method, "status", status,
		"month", month, "confidence", conf)

	return entity.Candidate{
		Origin:     name,
		Month:      month,
		F1:         bands.F1,
		F2:         bands.F2,
		F3:         bands.F3,
		Valid:      bands.OK && monthOK,
		Method:     method,
		Status:     status,
		Confidence: extract.ConfidenceLabel(conf),
	}
}

// ocrPages rasterizes and recognizes the first pages, concatenating
// whatever succeeds. Per-page failures are logged and skipped.
func (p *Pipeline) ocrPages(ctx context.Context, path, name string, pages int, progress ProgressFunc) string {
	var text string
	for page := 1; page <= pages; page++ {
		if progress != nil {
			progress((page-1)*100/pages, "OCR "+name)
		}
		img, cleanup, err := p.docs.RenderPage(ctx, path, page)
		if err != nil {
			p.logger.Warn("page render failed", "path", path, "page", page, "error", err)
			continue
		}
		pageText, err := p.ocr.Recognize(ctx, img)
		cleanup()
		if err != nil {
			p.logger.Warn("page ocr failed", "path", path, "page", page, "error", err)
			continue
		}
		text += "\n" + pageText
	}
	return text
}

func readError(name string) entity.Candidate {
	return entity.Candidate{
		Origin: name,
		Status: constants.StatusReadError,
	}
}
