package verification

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/weareasocialyazilim/travelmatch/internal/config"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
	"github.com/weareasocialyazilim/travelmatch/internal/pkg/id"
)

// User-facing issue and suggestion strings. These cross the API boundary.
const (
	issueQualityTooLow        = "image quality too low"
	issueLowQuality           = "photo quality is low"
	issuePossibleManipulation = "possible manipulation"
	issueLocationNotVerified  = "location not verified"
	issueNoFaceDetected       = "no face detected in photo"
	issueFaceMatchLow         = "face match score is low"

	suggestOriginalPhoto = "upload the original unedited photo"
	suggestManualReview  = "your proof was sent to manual review"
)

// ImageFetcher is the image download + EXIF collaborator.
type ImageFetcher interface {
	Fetch(ctx context.Context, ref string) (*domain.ImagePayload, error)
}

// ResultCache memoizes verdicts per image reference. A nil result with nil
// error is a miss.
type ResultCache interface {
	GetResult(ctx context.Context, key string) (*domain.VerificationResult, error)
	SetResult(ctx context.Context, key string, result *domain.VerificationResult, ttl time.Duration) error
}

// EmbeddingStore persists face embeddings between verifications.
type EmbeddingStore interface {
	Get(ctx context.Context, id string) ([]float64, error)
	Set(ctx context.Context, userID string, embedding []float64, ttl time.Duration) error
}

// AuditLog records completed verifications.
type AuditLog interface {
	Put(ctx context.Context, rec *domain.VerificationRecord) error
	ListByUser(ctx context.Context, userID string, limit int32) ([]domain.VerificationRecord, error)
}

// AlertPublisher notifies moderation when a proof needs human review.
type AlertPublisher interface {
	PublishManualReview(ctx context.Context, rec *domain.VerificationRecord) error
}

// The analyzer capability interfaces. Implementations live in
// internal/analyzer; tests substitute mocks.
type (
	QualityAnalyzer interface {
		Analyze(ctx context.Context, data []byte, width, height int) (*domain.QualityResult, error)
	}
	AuthenticityAnalyzer interface {
		Analyze(ctx context.Context, data []byte, exif *domain.EXIFMetadata) (*domain.AuthenticityResult, error)
	}
	LandmarkMatcher interface {
		Detect(ctx context.Context, features map[string]float64, gps *domain.GPSPoint) (*domain.LandmarkMatchResult, error)
	}
	ObjectMatcher interface {
		Detect(ctx context.Context, data []byte, expectedCategory string) (*domain.ObjectMatchResult, error)
	}
	FaceAnalyzer interface {
		Analyze(ctx context.Context, data []byte, reference []float64) (*domain.FaceResult, error)
	}
	VisualFeatureExtractor interface {
		VisualFeatures(data []byte) map[string]float64
	}
)

// VerifyRequest is the payload of a verification call.
type VerifyRequest struct {
	ImageURL         string           `json:"image_url" validate:"required"`
	ProofType        string           `json:"proof_type" validate:"required,proof_type"`
	UserID           string           `json:"user_id" validate:"required"`
	MomentID         string           `json:"moment_id"`
	ExpectedLocation *domain.GPSPoint `json:"expected_location"`
	ExpectedCategory string           `json:"expected_category"`
	ReferenceFaceID  string           `json:"reference_face_id"`
}

type Service interface {
	Verify(ctx context.Context, req VerifyRequest) (*domain.VerificationResult, error)
	History(ctx context.Context, userID string, limit int32) ([]domain.VerificationRecord, error)
}

// ServiceDeps bundles everything the orchestrator needs.
type ServiceDeps struct {
	Fetcher      ImageFetcher
	Cache        ResultCache
	Embeddings   EmbeddingStore
	Audit        AuditLog
	Alerts       AlertPublisher // optional
	Quality      QualityAnalyzer
	Authenticity AuthenticityAnalyzer
	Landmarks    LandmarkMatcher
	Objects      ObjectMatcher
	Faces        FaceAnalyzer
	Features     VisualFeatureExtractor
	Config       config.VerificationConfig
}

type service struct {
	fetcher      ImageFetcher
	cache        ResultCache
	embeddings   EmbeddingStore
	audit        AuditLog
	alerts       AlertPublisher
	quality      QualityAnalyzer
	authenticity AuthenticityAnalyzer
	landmarks    LandmarkMatcher
	objects      ObjectMatcher
	faces        FaceAnalyzer
	features     VisualFeatureExtractor
	cfg          config.VerificationConfig

	// bg tracks fire-and-forget persistence so tests can wait for it.
	bg sync.WaitGroup
}

func NewService(deps ServiceDeps) Service {
	return &service{
		fetcher:      deps.Fetcher,
		cache:        deps.Cache,
		embeddings:   deps.Embeddings,
		audit:        deps.Audit,
		alerts:       deps.Alerts,
		quality:      deps.Quality,
		authenticity: deps.Authenticity,
		landmarks:    deps.Landmarks,
		objects:      deps.Objects,
		faces:        deps.Faces,
		features:     deps.Features,
		cfg:          deps.Config,
	}
}

// CacheKey derives the memoization key for an image reference.
func CacheKey(imageURL string) string {
	sum := md5.Sum([]byte(imageURL))
	return "proof_verify:" + hex.EncodeToString(sum[:])
}

// Verify runs the full pipeline: quality gate, authenticity gate, conditional
// landmark/object/face analysis, weighted fusion, verdict.
func (s *service) Verify(ctx context.Context, req VerifyRequest) (*domain.VerificationResult, error) {
	proofType := domain.ProofType(req.ProofType)
	if !proofType.Valid() {
		return nil, fmt.Errorf("unknown proof_type %q: %w", req.ProofType, domain.ErrBadRequest)
	}

	cacheKey := CacheKey(req.ImageURL)
	if cached, err := s.cache.GetResult(ctx, cacheKey); err != nil {
		slog.Warn("verification cache read failed, recomputing", "key", cacheKey, "err", err)
	} else if cached != nil {
		slog.Info("verification cache hit", "key", cacheKey)
		return cached, nil
	}

	img, err := s.fetcher.Fetch(ctx, req.ImageURL)
	if err != nil {
		return nil, fmt.Errorf("proof image unavailable: %w", err)
	}

	// EXIF coordinates are the trusted position signal; the caller-asserted
	// location is only a fallback when the image carries none.
	var gps *domain.GPSPoint
	if img.EXIF != nil {
		gps = img.EXIF.GPSInfo
	}
	if gps == nil {
		gps = req.ExpectedLocation
	}

	details := domain.VerificationDetails{}

	// Gate 1: quality. A failure of the analyzer itself counts as failing
	// the gate — rejection is the gate's defined short-circuit outcome.
	quality, err := s.runQualityGate(ctx, img)
	details.Quality = quality
	if err != nil {
		slog.Error("quality analyzer failed, rejecting", "user_id", req.UserID, "err", err)
		result := s.buildResult(domain.StatusRejected, details, 0,
			[]string{issueQualityTooLow, "quality analysis failed"}, nil)
		s.persist(req, proofType, cacheKey, result, nil)
		return result, nil
	}
	if quality.OverallScore < s.cfg.QualityGateThreshold {
		result := s.buildResult(domain.StatusRejected, details, 0,
			[]string{issueQualityTooLow}, quality.Suggestions)
		s.persist(req, proofType, cacheKey, result, nil)
		return result, nil
	}

	// Gate 2: authenticity. Suspected manipulation is never auto-decided;
	// it always goes to a human.
	auth, err := s.runAuthenticityGate(ctx, img)
	details.Authenticity = auth
	if err != nil || !auth.IsAuthentic {
		if err != nil {
			slog.Error("authenticity analyzer failed, routing to manual review", "user_id", req.UserID, "err", err)
		}
		result := s.buildResult(domain.StatusManualReview, details, 0,
			[]string{issuePossibleManipulation}, []string{suggestOriginalPhoto})
		s.persist(req, proofType, cacheKey, result, nil)
		return result, nil
	}

	// Post-gate analyzers have no data dependency on one another and run
	// concurrently, each bounded by its own timeout.
	runLocation := proofType == domain.ProofExperiencePhoto || proofType == domain.ProofLocationCheck
	runFace := proofType == domain.ProofSelfieWithID || proofType == domain.ProofExperiencePhoto

	var (
		wg          sync.WaitGroup
		landmarkRes *domain.LandmarkMatchResult
		landmarkErr error
		objectRes   *domain.ObjectMatchResult
		objectErr   error
		faceRes     *domain.FaceResult
		faceErr     error
	)

	if runLocation {
		wg.Add(2)
		go func() {
			defer wg.Done()
			landmarkRes, landmarkErr = runBounded(ctx, s.cfg.AnalyzerTimeout, func(c context.Context) (*domain.LandmarkMatchResult, error) {
				return s.landmarks.Detect(c, s.features.VisualFeatures(img.Data), gps)
			})
		}()
		go func() {
			defer wg.Done()
			objectRes, objectErr = runBounded(ctx, s.cfg.AnalyzerTimeout, func(c context.Context) (*domain.ObjectMatchResult, error) {
				return s.objects.Detect(c, img.Data, req.ExpectedCategory)
			})
		}()
	}
	if runFace {
		wg.Add(1)
		go func() {
			defer wg.Done()
			faceRes, faceErr = runBounded(ctx, s.cfg.AnalyzerTimeout, func(c context.Context) (*domain.FaceResult, error) {
				var reference []float64
				if req.ReferenceFaceID != "" {
					ref, err := s.embeddings.Get(c, req.ReferenceFaceID)
					if err != nil {
						slog.Warn("reference embedding unavailable", "face_id", req.ReferenceFaceID, "err", err)
					} else {
						reference = ref
					}
				}
				return s.faces.Analyze(c, img.Data, reference)
			})
		}()
	}
	wg.Wait()

	details.Landmarks = landmarkRes
	details.Objects = objectRes
	details.Face = faceRes

	verdict := s.fuse(proofType, quality, auth, fusionInputs{
		landmarkRan: runLocation, landmark: landmarkRes, landmarkErr: landmarkErr,
		objectRan: runLocation, object: objectRes, objectErr: objectErr,
		faceRan: runFace, face: faceRes, faceErr: faceErr,
	})

	result := s.buildResult(verdict.status, details, verdict.score, verdict.issues, verdict.suggestions)
	s.persist(req, proofType, cacheKey, result, faceRes)

	slog.Info("proof verification completed",
		"user_id", req.UserID,
		"proof_type", proofType,
		"status", result.Status,
		"score", result.OverallScore,
	)
	return result, nil
}

func (s *service) History(ctx context.Context, userID string, limit int32) ([]domain.VerificationRecord, error) {
	if userID == "" {
		return nil, fmt.Errorf("user_id required: %w", domain.ErrBadRequest)
	}
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	return s.audit.ListByUser(ctx, userID, limit)
}

func (s *service) runQualityGate(ctx context.Context, img *domain.ImagePayload) (*domain.QualityResult, error) {
	return runBounded(ctx, s.cfg.AnalyzerTimeout, func(c context.Context) (*domain.QualityResult, error) {
		return s.quality.Analyze(c, img.Data, img.Width, img.Height)
	})
}

func (s *service) runAuthenticityGate(ctx context.Context, img *domain.ImagePayload) (*domain.AuthenticityResult, error) {
	return runBounded(ctx, s.cfg.AnalyzerTimeout, func(c context.Context) (*domain.AuthenticityResult, error) {
		return s.authenticity.Analyze(c, img.Data, img.EXIF)
	})
}

// runBounded executes one analyzer call under the per-analyzer timeout. The
// result travels through the buffered channel, never through shared state: an
// analyzer that outlives its deadline keeps running to completion but its late
// result is discarded, so it can never race with the request that gave up on
// it. A timed-out analyzer degrades exactly like a failed one.
func runBounded[T any](ctx context.Context, timeout time.Duration, fn func(ctx context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		result T
		err    error
	}
	done := make(chan outcome, 1)
	go func() {
		result, err := fn(ctx)
		done <- outcome{result: result, err: err}
	}()

	select {
	case out := <-done:
		return out.result, out.err
	case <-ctx.Done():
		var zero T
		return zero, fmt.Errorf("analyzer timed out: %w", ctx.Err())
	}
}

type fusionInputs struct {
	landmarkRan bool
	landmark    *domain.LandmarkMatchResult
	landmarkErr error
	objectRan   bool
	object      *domain.ObjectMatchResult
	objectErr   error
	faceRan     bool
	face        *domain.FaceResult
	faceErr     error
}

type fusionVerdict struct {
	score       float64 // 0-100, one decimal
	status      domain.VerificationStatus
	issues      []string
	suggestions []string
}

type component struct {
	score  float64
	weight float64
}

// fuse computes the weighted average over the components that actually ran
// (weights renormalized) and derives the terminal status.
func (s *service) fuse(proofType domain.ProofType, quality *domain.QualityResult, auth *domain.AuthenticityResult, in fusionInputs) fusionVerdict {
	issues := []string{}
	suggestions := []string{}
	components := []component{{quality.OverallScore, s.cfg.WeightQuality}}

	if quality.OverallScore < s.cfg.LowQualityIssueFloor {
		issues = append(issues, issueLowQuality)
		suggestions = append(suggestions, quality.Suggestions...)
	}

	components = append(components, component{auth.AuthenticityScore, s.cfg.WeightAuthenticity})

	if in.landmarkRan {
		switch {
		case in.landmarkErr != nil:
			slog.Warn("landmark matcher failed, scoring component as zero", "err", in.landmarkErr)
			components = append(components, component{0, s.cfg.WeightLandmark})
			issues = append(issues, "landmark analysis failed")
		case in.landmark.LocationVerified:
			components = append(components, component{1.0, s.cfg.WeightLandmark})
		case in.landmark.TopMatch != nil:
			components = append(components, component{in.landmark.TopMatch.Confidence, s.cfg.WeightLandmark})
		default:
			components = append(components, component{0.3, s.cfg.WeightLandmark})
			issues = append(issues, issueLocationNotVerified)
		}
	}

	if in.objectRan {
		switch {
		case in.objectErr != nil:
			slog.Warn("object matcher failed, scoring component as zero", "err", in.objectErr)
			components = append(components, component{0, s.cfg.WeightObject})
			issues = append(issues, "object analysis failed")
		case in.object.CategoryVerified:
			components = append(components, component{1.0, s.cfg.WeightObject})
		case in.object.PrimaryCategory != "":
			components = append(components, component{0.7, s.cfg.WeightObject})
		}
	}

	// Face feeds the fusion for selfie proofs only. For experience photos a
	// face is optional evidence: analyzed and persisted, but never scored.
	if in.faceRan && proofType == domain.ProofSelfieWithID {
		switch {
		case in.faceErr != nil:
			slog.Warn("face analyzer failed, scoring component as zero", "err", in.faceErr)
			components = append(components, component{0, s.cfg.WeightFace})
			issues = append(issues, "face analysis failed")
		case in.face.FaceDetected:
			combined := in.face.QualityScore
			if in.face.LivenessScore != nil {
				combined = (in.face.QualityScore + *in.face.LivenessScore) / 2
			}
			components = append(components, component{combined, s.cfg.WeightFace})
			if in.face.MatchScore != nil && *in.face.MatchScore < s.cfg.FaceMatchIssueFloor {
				issues = append(issues, issueFaceMatchLow)
			}
		default:
			components = append(components, component{0, s.cfg.WeightFace})
			issues = append(issues, issueNoFaceDetected)
		}
	} else if in.faceRan && in.faceErr != nil {
		slog.Warn("face analyzer failed on non-selfie proof", "err", in.faceErr)
	}

	totalWeight := 0.0
	weighted := 0.0
	for _, c := range components {
		totalWeight += c.weight
		weighted += c.score * c.weight
	}
	overall := 0.0
	if totalWeight > 0 {
		overall = weighted / totalWeight
	}

	var status domain.VerificationStatus
	switch {
	case overall >= s.cfg.ApproveCleanThreshold && len(issues) == 0:
		status = domain.StatusApproved
	case overall >= s.cfg.ApproveMinorThreshold && len(issues) <= 1:
		status = domain.StatusApproved
	case overall >= s.cfg.ManualReviewThreshold:
		status = domain.StatusManualReview
		suggestions = append(suggestions, suggestManualReview)
	default:
		status = domain.StatusRejected
	}

	return fusionVerdict{
		score:       math.Round(overall*1000) / 10,
		status:      status,
		issues:      issues,
		suggestions: suggestions,
	}
}

func (s *service) buildResult(status domain.VerificationStatus, details domain.VerificationDetails, score float64, issues, suggestions []string) *domain.VerificationResult {
	if issues == nil {
		issues = []string{}
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	breakdown := domain.ScoreBreakdown{}
	if details.Quality != nil {
		breakdown.QualityScore = math.Round(details.Quality.OverallScore*1000) / 10
	}
	if details.Authenticity != nil {
		breakdown.AuthenticityScore = math.Round(details.Authenticity.AuthenticityScore*1000) / 10
	}
	if details.Landmarks != nil {
		confidence := 0.0
		if details.Landmarks.TopMatch != nil {
			confidence = details.Landmarks.TopMatch.Confidence
		}
		v := math.Round(confidence*1000) / 10
		breakdown.LandmarkConfidence = &v
	}
	if details.Face != nil {
		v := math.Round(details.Face.QualityScore*1000) / 10
		breakdown.FaceQuality = &v
	}
	return &domain.VerificationResult{
		Approved:     status == domain.StatusApproved,
		Status:       status,
		OverallScore: score,
		Breakdown:    breakdown,
		Details:      details,
		Issues:       issues,
		Suggestions:  suggestions,
		VerifiedAt:   time.Now().UTC(),
	}
}

// persist runs all post-verdict writes fire-and-forget: the verdict is never
// delayed or failed by cache, embedding, audit or alert problems.
func (s *service) persist(req VerifyRequest, proofType domain.ProofType, cacheKey string, result *domain.VerificationResult, face *domain.FaceResult) {
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		ttl := s.cfg.CacheTTLNegative
		if result.Approved {
			ttl = s.cfg.CacheTTLApproved
		}
		if err := s.cache.SetResult(ctx, cacheKey, result, ttl); err != nil {
			slog.Warn("verification cache write failed", "key", cacheKey, "err", err)
		}

		if proofType == domain.ProofSelfieWithID && face != nil && face.FaceDetected && len(face.Embedding) > 0 {
			if err := s.embeddings.Set(ctx, req.UserID, face.Embedding, s.cfg.EmbeddingTTL); err != nil {
				slog.Warn("face embedding write failed", "user_id", req.UserID, "err", err)
			}
		}

		rec := &domain.VerificationRecord{
			VerificationID: id.New(),
			UserID:         req.UserID,
			MomentID:       req.MomentID,
			ProofType:      proofType,
			Status:         result.Status,
			OverallScore:   result.OverallScore,
			IssueCount:     len(result.Issues),
			CreatedAt:      time.Now().Unix(),
		}
		if err := s.audit.Put(ctx, rec); err != nil {
			slog.Warn("verification audit write failed", "user_id", req.UserID, "err", err)
		}
		if result.Status == domain.StatusManualReview && s.alerts != nil {
			if err := s.alerts.PublishManualReview(ctx, rec); err != nil {
				slog.Warn("manual-review alert publish failed", "user_id", req.UserID, "err", err)
			}
		}
	}()
}
