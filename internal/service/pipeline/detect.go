package pipeline

import (
	"context"

	"github.com/campushq/campusbot/internal/core"
	"github.com/campushq/campusbot/pkg/log"
)

// LanguageDetector wraps a core.Detector so the pipeline never has to deal
// with detection failures: anything inconclusive becomes the fallback
// language. The inner detector may be nil when translation is not
// configured, in which case every query is assumed to be in the fallback.
type LanguageDetector struct {
	detector core.Detector
	fallback string
}

func NewLanguageDetector(detector core.Detector, fallback string) *LanguageDetector {
	return &LanguageDetector{detector: detector, fallback: fallback}
}

func (d *LanguageDetector) Detect(ctx context.Context, text string) string {
	if d.detector == nil {
		return d.fallback
	}

	lang, err := d.detector.Detect(ctx, text)
	if err != nil {
		log.FromCtx(ctx).Warn().Err(err).Msg("language detection failed, using fallback")
		return d.fallback
	}
	return lang
}
