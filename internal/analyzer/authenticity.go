package analyzer

import (
	"context"
	"strings"

	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// Authenticity gates. An image is authentic only when all three hold.
const (
	authenticityFloor    = 0.75
	aiGeneratedCeiling   = 0.4
	manipulationCeiling  = 0.4
	editingSoftwareBoost = 0.3
)

// editingSoftware are EXIF software markers that raise the manipulation score.
var editingSoftware = []string{"photoshop", "gimp"}

// AuthenticityAnalyzer scores manipulation and AI-generation likelihood and
// cross-checks EXIF consistency. Failing this analyzer routes the whole
// verification to manual review; it is never auto-decided.
type AuthenticityAnalyzer struct {
	extractor FeatureExtractor
}

func NewAuthenticityAnalyzer(extractor FeatureExtractor) *AuthenticityAnalyzer {
	return &AuthenticityAnalyzer{extractor: extractor}
}

func (a *AuthenticityAnalyzer) Analyze(ctx context.Context, data []byte, exif *domain.EXIFMetadata) (*domain.AuthenticityResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	signals := a.extractor.ForensicSignals(data)
	manipulation := signals.Manipulation

	metadataConsistent := true
	flags := []string{}
	if exif != nil {
		if exif.DateTime.IsZero() {
			flags = append(flags, "missing_timestamp")
		}
		if exif.GPSInfo == nil {
			flags = append(flags, "missing_gps")
		}
		if isEditingSoftware(exif.Software) {
			flags = append(flags, "editing_software_detected")
			manipulation = min(1.0, manipulation+editingSoftwareBoost)
		}
		metadataConsistent = len(flags) == 0
	}

	authenticity := signals.ELA*0.4 + (1-signals.AIGenerated)*0.3 + (1-manipulation)*0.3

	isAuthentic := authenticity > authenticityFloor &&
		signals.AIGenerated < aiGeneratedCeiling &&
		manipulation < manipulationCeiling

	return &domain.AuthenticityResult{
		IsAuthentic:        isAuthentic,
		AuthenticityScore:  round3(authenticity),
		ELAScore:           round3(signals.ELA),
		AIGeneratedScore:   round3(signals.AIGenerated),
		ManipulationScore:  round3(manipulation),
		MetadataConsistent: metadataConsistent,
		MetadataFlags:      flags,
		RiskLevel:          authenticityRisk(authenticity, signals.AIGenerated),
	}, nil
}

func isEditingSoftware(software string) bool {
	s := strings.ToLower(software)
	for _, marker := range editingSoftware {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}

func authenticityRisk(authenticity, aiGenerated float64) domain.RiskLevel {
	switch {
	case authenticity < 0.5 || aiGenerated > 0.7:
		return domain.RiskCritical
	case authenticity < 0.7 || aiGenerated > 0.5:
		return domain.RiskHigh
	case authenticity < 0.85 || aiGenerated > 0.3:
		return domain.RiskMedium
	default:
		return domain.RiskLow
	}
}
