package ocr

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/joseph-ayodele/energy-tracker/internal/common"
)

// Recognizer runs Tesseract over rasterized pages.
type Recognizer struct {
	cfg    common.OCRConfig
	runner Runner
}

func NewRecognizer(cfg common.OCRConfig, logger *slog.Logger) *Recognizer {
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "ita"
	}
	return &Recognizer{cfg: cfg, runner: newExecRunner(logger)}
}

// Recognize OCRs one image and returns the decoded text.
func (r *Recognizer) Recognize(ctx context.Context, imagePath string) (string, error) {
	// tesseract <file> stdout -l <lang>
	out, errb, err := r.runner.Run(ctx, r.cfg.Tesseract, imagePath, "stdout", "-l", r.cfg.Language)
	if err != nil {
		return "", fmt.Errorf("%w: tesseract: %v (%s)", common.ErrExtractionFailed, err, truncate(string(errb), 512))
	}
	return string(out), nil
}
