package analyzer

import (
	"context"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// Quality weighting and bucket boundaries. Heuristic tunables carried over
// from the original scoring model; do not "improve" without recalibrating the
// verdict thresholds downstream.
const (
	qualityWeightResolution  = 0.25
	qualityWeightSharpness   = 0.35
	qualityWeightLighting    = 0.25
	qualityWeightCompression = 0.15

	minWidth      = 640
	minHeight     = 480
	optimalPixels = 1920 * 1080
)

// QualityAnalyzer scores resolution, sharpness, lighting and compression of a
// proof image. Pure function of its inputs; no side effects.
type QualityAnalyzer struct {
	extractor FeatureExtractor
}

func NewQualityAnalyzer(extractor FeatureExtractor) *QualityAnalyzer {
	return &QualityAnalyzer{extractor: extractor}
}

func (a *QualityAnalyzer) Analyze(ctx context.Context, data []byte, width, height int) (*domain.QualityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	pixels := float64(width * height)
	resolutionScore := 0.0
	compressionScore := 0.0
	if pixels > 0 {
		resolutionScore = min(1.0, pixels/optimalPixels)
		compressionScore = min(1.0, float64(len(data))/(pixels*3)*10)
	}
	adequate := width >= minWidth && height >= minHeight

	signals := a.extractor.QualitySignals(data)
	isBlurry := signals.Sharpness < 0.5

	var lightingIssues []string
	if signals.Lighting < 0.5 {
		lightingIssues = append(lightingIssues, "too_dark")
	} else if signals.Lighting > 0.95 {
		lightingIssues = append(lightingIssues, "overexposed")
	}

	overall := resolutionScore*qualityWeightResolution +
		signals.Sharpness*qualityWeightSharpness +
		signals.Lighting*qualityWeightLighting +
		compressionScore*qualityWeightCompression

	return &domain.QualityResult{
		OverallScore: round3(overall),
		Verdict:      qualityVerdict(overall),
		Resolution: domain.ResolutionScore{
			Width:    width,
			Height:   height,
			Score:    round3(resolutionScore),
			Adequate: adequate,
		},
		Sharpness: domain.SharpnessScore{
			Score:    round3(signals.Sharpness),
			IsBlurry: isBlurry,
		},
		Lighting: domain.LightingScore{
			Score:  round3(signals.Lighting),
			Issues: lightingIssues,
		},
		Compression: domain.CompressionScore{
			Score:      round3(compressionScore),
			FileSizeKB: round1(float64(len(data)) / 1024),
		},
		Suggestions: qualitySuggestions(adequate, isBlurry, lightingIssues),
	}, nil
}

func qualityVerdict(score float64) string {
	switch {
	case score >= 0.8:
		return "excellent"
	case score >= 0.6:
		return "good"
	case score >= 0.4:
		return "acceptable"
	default:
		return "poor"
	}
}

func qualitySuggestions(adequate, blurry bool, lightingIssues []string) []string {
	var suggestions []string
	if !adequate {
		suggestions = append(suggestions, "upload a higher resolution photo")
	}
	if blurry {
		suggestions = append(suggestions, "photo is blurry, retake a sharper one")
	}
	for _, issue := range lightingIssues {
		switch issue {
		case "too_dark":
			suggestions = append(suggestions, "photo is too dark, retake in better light")
		case "overexposed":
			suggestions = append(suggestions, "photo is too bright, avoid direct light")
		}
	}
	return suggestions
}
