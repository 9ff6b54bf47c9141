package analyzer

import (
	"context"
	"math"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// EmbeddingDim is the fixed dimensionality of face embeddings.
const EmbeddingDim = 128

// FaceAnalyzer detects faces and scores quality, liveness and (when a
// reference embedding is supplied) identity match.
type FaceAnalyzer struct {
	extractor FeatureExtractor
}

func NewFaceAnalyzer(extractor FeatureExtractor) *FaceAnalyzer {
	return &FaceAnalyzer{extractor: extractor}
}

func (a *FaceAnalyzer) Analyze(ctx context.Context, data []byte, reference []float64) (*domain.FaceResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signals := a.extractor.FaceSignals(data)
	if !signals.Detected {
		return &domain.FaceResult{FaceDetected: false}, nil
	}

	liveness := round3(signals.Liveness)
	result := &domain.FaceResult{
		FaceDetected:  true,
		FaceCount:     signals.FaceCount,
		QualityScore:  round3(signals.Quality),
		LivenessScore: &liveness,
		Embedding:     signals.Embedding,
	}
	if reference != nil {
		match := round3(CosineSimilarity(signals.Embedding, reference))
		result.MatchScore = &match
	}
	return result, nil
}

// CosineSimilarity is dot(a,b)/(‖a‖·‖b‖), 0 when either norm is zero or the
// vectors differ in length.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// HammingSimilarity is the fraction of positions at which two equal-length
// hash strings agree; 0 for mismatched lengths.
func HammingSimilarity(h1, h2 string) float64 {
	if len(h1) != len(h2) || len(h1) == 0 {
		return 0
	}
	matches := 0
	for i := range h1 {
		if h1[i] == h2[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(h1))
}
