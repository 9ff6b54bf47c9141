package duplicate

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sort"
	"time"

	"github.com/weareasocialyazilim/travelmatch/internal/analyzer"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
)

// similarityThreshold is the normalized Hamming similarity above which two
// perceptual hashes are treated as the same image.
const similarityThreshold = 0.9

// ImageFetcher resolves an image reference into raw bytes.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (*domain.ImagePayload, error)
}

// Hasher computes a perceptual hash from image bytes.
type Hasher interface {
	PerceptualHash(data []byte) string
}

// HashIndex is the shared, append-only perceptual-hash set.
type HashIndex interface {
	Add(ctx context.Context, entry domain.ProofHashEntry) error
	All(ctx context.Context) ([]domain.ProofHashEntry, error)
}

// CheckRequest is the payload of a duplicate check.
type CheckRequest struct {
	ImageURL string `json:"image_url" validate:"required"`
	UserID   string `json:"user_id" validate:"required"`
	MomentID string `json:"moment_id"`
}

type Service interface {
	Check(ctx context.Context, req CheckRequest) (*domain.DuplicateResult, error)
}

type service struct {
	fetcher ImageFetcher
	hasher  Hasher
	index   HashIndex
}

func NewService(fetcher ImageFetcher, hasher Hasher, index HashIndex) Service {
	return &service{fetcher: fetcher, hasher: hasher, index: index}
}

// Check compares the image's perceptual hash against every stored hash from
// other users, then appends the new hash. The write happens after the scan so
// a submission never matches itself.
func (s *service) Check(ctx context.Context, req CheckRequest) (*domain.DuplicateResult, error) {
	img, err := s.fetcher.Fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("proof image unavailable: %w", err)
	}
	phash := s.hasher.PerceptualHash(img.Data)

	entries, err := s.index.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("duplicate index scan: %w", err)
	}

	matches := []domain.DuplicateMatch{}
	for _, entry := range entries {
		if entry.UserID == req.UserID {
			continue
		}
		similarity := math.Round(analyzer.HammingSimilarity(phash, entry.PHash)*1000) / 1000
		if similarity > similarityThreshold {
			matches = append(matches, domain.DuplicateMatch{
				OriginalUserID:   entry.UserID,
				OriginalMomentID: entry.MomentID,
				Similarity:       similarity,
				UploadedAt:       entry.UploadedAt,
			})
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Similarity > matches[j].Similarity })

	if err := s.index.Add(ctx, domain.ProofHashEntry{
		PHash:      phash,
		UserID:     req.UserID,
		MomentID:   req.MomentID,
		UploadedAt: time.Now().UTC(),
	}); err != nil {
		slog.Warn("duplicate hash append failed", "user_id", req.UserID, "err", err)
	}

	risk := domain.RiskNone
	if len(matches) > 0 {
		risk = domain.RiskCritical
		slog.Info("duplicate proof detected",
			"user_id", req.UserID,
			"original_user_id", matches[0].OriginalUserID,
			"similarity", matches[0].Similarity,
		)
	}
	return &domain.DuplicateResult{
		IsDuplicate: len(matches) > 0,
		Duplicates:  matches,
		PHash:       phash,
		RiskLevel:   risk,
	}, nil
}
