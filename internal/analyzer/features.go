package analyzer

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"math"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// QualitySignals are low-level image statistics backing the quality analyzer.
type QualitySignals struct {
	Sharpness float64 // lower = blurrier
	Lighting  float64 // centered on a brightness midpoint
}

// ForensicSignals back the authenticity analyzer. All values are in [0,1].
type ForensicSignals struct {
	ELA          float64 // error-level-analysis score, higher = cleaner
	AIGenerated  float64 // likelihood the image is AI generated
	Manipulation float64 // likelihood of local manipulation
}

// FaceSignals back the face analyzer.
type FaceSignals struct {
	Detected  bool
	FaceCount int
	Quality   float64
	Liveness  float64
	Embedding []float64 // 128-dimensional
}

// FeatureExtractor produces the raw per-image signals the analyzers score.
// The pipeline contract (weights, thresholds, fusion) is independent of the
// implementation: production plugs in real vision models, tests and local
// development use the deterministic DigestExtractor.
type FeatureExtractor interface {
	QualitySignals(data []byte) QualitySignals
	ForensicSignals(data []byte) ForensicSignals
	FaceSignals(data []byte) FaceSignals
	VisualFeatures(data []byte) map[string]float64
	ObjectConfidence(data []byte, object string) (float64, domain.BoundingBox)
	PerceptualHash(data []byte) string
}

// visualFeatureNames is the fixed vocabulary the digest extractor scores for
// landmark matching.
var visualFeatureNames = []string{
	"hot_air_balloon", "fairy_chimney", "rock_formation",
	"dome", "minaret", "bridge", "water", "boat",
	"white_terraces", "thermal_pools", "beach", "mountain",
}

// DigestExtractor derives every signal from an MD5 digest of the image bytes.
// Deterministic for identical inputs, which is what the pipeline contract and
// the test suite rely on; it stands in for real model inference.
type DigestExtractor struct{}

func NewDigestExtractor() *DigestExtractor { return &DigestExtractor{} }

func (e *DigestExtractor) QualitySignals(data []byte) QualitySignals {
	h := digest(data)
	return QualitySignals{
		Sharpness: 0.7 + hexByte(h, 0)*0.3,
		Lighting:  0.6 + hexByte(h, 2)*0.4,
	}
}

func (e *DigestExtractor) ForensicSignals(data []byte) ForensicSignals {
	h := digest(data)
	return ForensicSignals{
		ELA:          0.85 + hexByte(h, 0)*0.15,
		AIGenerated:  hexByte(h, 2) * 0.3,
		Manipulation: hexByte(h, 4) * 0.25,
	}
}

func (e *DigestExtractor) FaceSignals(data []byte) FaceSignals {
	h := digest(data)
	if hexNibble(h, 0) <= 5 {
		return FaceSignals{}
	}
	emb := make([]float64, 128)
	for i := range emb {
		emb[i] = (float64(hexNibble(h, i%32)) - 8) / 8.0
	}
	return FaceSignals{
		Detected:  true,
		FaceCount: 1 + hexNibble(h, 5)%3,
		Quality:   0.7 + hexByte(h, 1)*0.3,
		Liveness:  0.8 + hexByte(h, 3)*0.2,
		Embedding: emb,
	}
}

func (e *DigestExtractor) VisualFeatures(data []byte) map[string]float64 {
	h := digest(data)
	features := make(map[string]float64, len(visualFeatureNames))
	for i, name := range visualFeatureNames {
		features[name] = round3(float64(hexNibble(h, i%32)) / 15.0)
	}
	return features
}

func (e *DigestExtractor) ObjectConfidence(data []byte, object string) (float64, domain.BoundingBox) {
	h := digest(data)
	oh := digestString(fmt.Sprintf("%s:%s", h, object))
	conf := hexByte(oh, 0)
	bbox := domain.BoundingBox{
		X:      round2(hexByte(oh, 0) * 0.5),
		Y:      round2(hexByte(oh, 2) * 0.5),
		Width:  round2(0.2 + hexByte(oh, 4)*0.3),
		Height: round2(0.2 + hexByte(oh, 6)*0.3),
	}
	return conf, bbox
}

func (e *DigestExtractor) PerceptualHash(data []byte) string {
	return digest(data)[:16]
}

func digest(data []byte) string {
	sum := md5.Sum(data)
	return hex.EncodeToString(sum[:])
}

func digestString(s string) string {
	return digest([]byte(s))
}

// hexNibble returns the value of the i-th hex character of h.
func hexNibble(h string, i int) int {
	c := h[i]
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0')
	default:
		return int(c-'a') + 10
	}
}

// hexByte interprets h[i:i+2] as a byte and normalizes it to [0,1].
func hexByte(h string, i int) float64 {
	return float64(hexNibble(h, i)*16+hexNibble(h, i+1)) / 255.0
}

func round3(v float64) float64 { return math.Round(v*1000) / 1000 }
func round2(v float64) float64 { return math.Round(v*100) / 100 }
func round1(v float64) float64 { return math.Round(v*10) / 10 }
