package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/weareasocialyazilim/travelmatch/internal/analyzer"
	"github.com/weareasocialyazilim/travelmatch/internal/application/duplicate"
	"github.com/weareasocialyazilim/travelmatch/internal/application/verification"
	"github.com/weareasocialyazilim/travelmatch/internal/config"
	"github.com/weareasocialyazilim/travelmatch/internal/domain"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/dynamo"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/imagefetch"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/redisstore"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/sns"
	"github.com/weareasocialyazilim/travelmatch/internal/infrastructure/token"
	"github.com/weareasocialyazilim/travelmatch/internal/transport/http/handler"
	appmiddleware "github.com/weareasocialyazilim/travelmatch/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	LandmarkRepo     *dynamo.LandmarkRepo
	VerificationRepo *dynamo.VerificationRepo
	ResultCache      *redisstore.ResultCache
	EmbeddingStore   *redisstore.EmbeddingStore
	HashIndex        *redisstore.HashIndex
	Fetcher          imagefetch.Fetcher
	AlertPublisher   sns.AlertPublisher // nil disables manual-review alerts
	TokenProvider    *token.Provider    // nil disables service auth
	Registry         []domain.Landmark  // landmark registry loaded at startup
}

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	var authMw func(http.Handler) http.Handler
	if deps.TokenProvider != nil {
		authMw = appmiddleware.Auth(deps.TokenProvider)
	} else {
		authMw = func(next http.Handler) http.Handler { return next }
	}

	// Each verify call fans out to several analyzers, so the verify
	// endpoints get a tight budget: 2 requests/second, burst of 5.
	verifyRL := appmiddleware.NewRateLimiter(rate.Limit(2), 5)

	extractor := analyzer.NewDigestExtractor()

	verifySvc := verification.NewService(verification.ServiceDeps{
		Fetcher:      deps.Fetcher,
		Cache:        deps.ResultCache,
		Embeddings:   deps.EmbeddingStore,
		Audit:        deps.VerificationRepo,
		Alerts:       deps.AlertPublisher,
		Quality:      analyzer.NewQualityAnalyzer(extractor),
		Authenticity: analyzer.NewAuthenticityAnalyzer(extractor),
		Landmarks:    analyzer.NewLandmarkMatcher(deps.Registry),
		Objects:      analyzer.NewObjectMatcher(extractor),
		Faces:        analyzer.NewFaceAnalyzer(extractor),
		Features:     extractor,
		Config:       cfg.Verification,
	})
	dupSvc := duplicate.NewService(deps.Fetcher, extractor, deps.HashIndex)

	healthH := handler.NewHealthHandler()
	proofH := handler.NewProofHandler(verifySvc, dupSvc)
	verificationH := handler.NewVerificationHandler(verifySvc)
	landmarkH := handler.NewLandmarkHandler(deps.LandmarkRepo)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/health", healthH.Check)

		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.With(verifyRL.Limit).Post("/proofs/verify", proofH.Verify)
			r.With(verifyRL.Limit).Post("/proofs/duplicate-check", proofH.CheckDuplicate)
			r.Get("/users/{userID}/verifications", verificationH.ListByUser)
			r.Get("/landmarks", landmarkH.List)
		})
	})

	return r
}
