package server

import (
	"context"
	"log"
	"strings"
	"time"

	"anoa.com/vxrank/internal/config"
	"anoa.com/vxrank/internal/jobs"
	"anoa.com/vxrank/internal/middleware"
	"anoa.com/vxrank/pkg/storage"

	catalogService "anoa.com/vxrank/internal/modules/catalog/service"

	challengeHttp "anoa.com/vxrank/internal/modules/challenge/delivery/http"
	challengeService "anoa.com/vxrank/internal/modules/challenge/service"

	clipHttp "anoa.com/vxrank/internal/modules/clip/delivery/http"
	clipService "anoa.com/vxrank/internal/modules/clip/service"
	viewService "anoa.com/vxrank/internal/modules/view/service"

	leaderboardHttp "anoa.com/vxrank/internal/modules/leaderboard/delivery/http"
	leaderboardService "anoa.com/vxrank/internal/modules/leaderboard/service"

	profileHttp "anoa.com/vxrank/internal/modules/profile/delivery/http"
	profileRepo "anoa.com/vxrank/internal/modules/profile/repository"
	profileService "anoa.com/vxrank/internal/modules/profile/service"

	progressionHttp "anoa.com/vxrank/internal/modules/progression/delivery/http"
	progressionService "anoa.com/vxrank/internal/modules/progression/service"

	searchHttp "anoa.com/vxrank/internal/modules/search/delivery/http"
	searchService "anoa.com/vxrank/internal/modules/search/service"

	statHttp "anoa.com/vxrank/internal/modules/stat/delivery/http"
	statService "anoa.com/vxrank/internal/modules/stat/service"

	socialHttp "anoa.com/vxrank/internal/modules/social/delivery/http"
	socialService "anoa.com/vxrank/internal/modules/social/service"

	verificationHttp "anoa.com/vxrank/internal/modules/verification/delivery/http"
	"anoa.com/vxrank/internal/modules/verification/provider"
	verificationService "anoa.com/vxrank/internal/modules/verification/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/meilisearch/meilisearch-go"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Server struct {
	engine      *gin.Engine
	db          *gorm.DB
	redisClient *redis.Client
	scheduler   *jobs.Scheduler
	llm         provider.LLMProvider
}

// NewServer wires every module. Redis, Meilisearch, Cloudinary and Gemini are
// optional: without them the server falls back to in-process state, local
// catalog search, disabled uploads and disabled AI features respectively.
func NewServer(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	catalog, err := catalogService.Load()
	if err != nil {
		return nil, err
	}
	repo := profileRepo.NewProfileRepository(db)

	var media storage.MediaStorage
	if cfg.MediaConfigured() {
		media, err = storage.NewCloudinaryStorage(cfg.CloudinaryUploadFolder)
		if err != nil {
			return nil, err
		}
	} else {
		log.Println("⚠️ CLOUDINARY_URL not set, uploads are disabled")
	}

	var llm provider.LLMProvider
	if cfg.GeminiAPIKey != "" {
		gemini, err := provider.NewGeminiProvider(context.Background(), cfg.GeminiAPIKey, cfg.GeminiModel)
		if err != nil {
			return nil, err
		}
		llm = gemini
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, AI verification is disabled")
	}

	var meiliClient meilisearch.ServiceManager
	if host := cfg.MeiliSearchHost; host != "" {
		if !strings.HasPrefix(host, "http") {
			host = "http://" + host + ":7700"
		}
		meiliClient = meilisearch.New(host, meilisearch.WithAPIKey(cfg.MeiliMasterKey))
	}

	var pending verificationService.PendingStore
	if redisClient != nil {
		pending = verificationService.NewRedisPendingStore(redisClient)
	} else {
		pending = verificationService.NewMemoryPendingStore(time.Now)
	}
	limiter := verificationService.NewRedisRateLimiter(redisClient, cfg.RateLimitAI)

	engine := progressionService.NewEngine(catalog, progressionService.WithLocation(cfg.Location))
	progressionSvc := progressionService.NewProgressionService(repo, catalog, engine)
	progressionHandler := progressionHttp.NewProgressionHandler(progressionSvc, catalog)

	profileSvc := profileService.NewProfileService(repo, media, profileService.TokenConfig{
		Secret: cfg.JWTSecret,
		TTL:    cfg.JWTTTL,
	})
	profileHandler := profileHttp.NewProfileHandler(profileSvc)

	socialHandler := socialHttp.NewSocialHandler(socialService.NewSocialService(repo))

	verificationSvc := verificationService.NewVerificationService(repo, catalog, progressionSvc, llm, media, limiter, pending, verificationService.Config{
		PendingTTL: cfg.PendingVerificationTTL,
	})
	verificationHandler := verificationHttp.NewVerificationHandler(verificationSvc)

	challengeSvc := challengeService.NewChallengeService(repo, progressionSvc, verificationSvc, llm, limiter)
	challengeHandler := challengeHttp.NewChallengeHandler(challengeSvc)

	leaderboardHandler := leaderboardHttp.NewLeaderboardHandler(leaderboardService.NewLeaderboardService(repo))

	viewSvc := viewService.NewViewService(redisClient, repo)
	clipHandler := clipHttp.NewClipHandler(clipService.NewClipService(repo), viewSvc)

	statHandler := statHttp.NewStatHandler(statService.NewStatService(repo))

	searchSvc := searchService.NewTrickSearchService(meiliClient, catalog)
	searchHandler := searchHttp.NewSearchHandler(searchSvc)

	scheduler := jobs.NewScheduler(cfg.Location)
	reindex := jobs.NewCatalogReindexJob(searchSvc, cfg.CatalogReindexSchedule)
	if err := scheduler.Register(reindex); err != nil {
		return nil, err
	}
	if redisClient != nil {
		if err := scheduler.Register(jobs.NewClipViewSyncJob(viewSvc, "@every 1m")); err != nil {
			return nil, err
		}
	}

	router := gin.New()

	setupCORS(router, cfg.AllowedOrigins)

	router.Use(gin.Recovery())
	router.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/api/tricks"},
	}))

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWTSecret)

	api := router.Group("/api")

	// Public routes (no auth required)
	api.POST("/auth/login", profileHandler.Login)
	api.GET("/tricks", progressionHandler.ListTricks)
	api.GET("/tricks/search", searchHandler.SearchTricks)

	// Protected routes (apply auth middleware explicitly)
	protected := api.Group("")
	protected.Use(authMiddleware.RequireAuth())
	{
		// Profile routes
		protected.GET("/profile/me", profileHandler.GetCurrentProfile)
		protected.PUT("/profile", profileHandler.UpdateProfile)
		protected.DELETE("/profile/me", profileHandler.DeleteProfile)
		protected.POST("/profile/onboarding", profileHandler.Onboard)

		// Roster routes
		protected.GET("/profiles", profileHandler.ListProfiles)
		protected.GET("/profiles/:username", profileHandler.GetProfileByUsername)
		protected.GET("/profiles/:username/clips", clipHandler.ListRiderClips)
		protected.POST("/profiles/:username/clips/:id/view", clipHandler.ViewClip)
		protected.POST("/profiles/:username/follow", socialHandler.ToggleFollow)

		// Progression routes
		protected.GET("/progress", progressionHandler.GetProgress)
		protected.POST("/tricks/manual", progressionHandler.LogManualTrick)
		protected.POST("/tricks/verify", verificationHandler.VerifyTrick)
		protected.POST("/tricks/confirm", verificationHandler.ConfirmTrick)
		protected.POST("/rank/promote", progressionHandler.PromoteRank)
		protected.POST("/rank/reset", progressionHandler.ResetProgress)
		protected.POST("/sessions", progressionHandler.CompleteSession)

		// Challenge routes
		protected.POST("/challenges/generate", challengeHandler.GenerateChallenges)
		protected.POST("/challenges/complete", challengeHandler.CompleteChallenge)
		protected.GET("/challenges/daily", progressionHandler.DailyChallengeStatus)
		protected.GET("/challenges/leaderboard", leaderboardHandler.GetLeaderboard)
		protected.GET("/leaderboard", leaderboardHandler.GetLeaderboard)

		// Clip routes
		protected.GET("/clips", clipHandler.ListClips)
		protected.GET("/clips/trending", statHandler.GetTrendingClips)
		protected.GET("/stats/riders", statHandler.GetRiderStats)
		protected.POST("/clips/:id/post", clipHandler.PostClip)
	}

	return &Server{
		engine:      router,
		db:          db,
		redisClient: redisClient,
		scheduler:   scheduler,
		llm:         llm,
	}, nil
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the background jobs, indexes the catalog once and serves HTTP
// until the listener fails.
func (s *Server) Run(addr string) error {
	if err := s.scheduler.RunByName(context.Background(), "catalog-reindex"); err != nil {
		log.Printf("❌ Initial catalog index failed: %v", err)
	}
	s.scheduler.Start()
	defer s.Close()

	return s.engine.Run(addr)
}

func (s *Server) Close() {
	s.scheduler.Stop()
	if s.llm != nil {
		s.llm.Close()
	}
}

func setupCORS(router *gin.Engine, allowedOrigins string) {
	var origins []string
	if allowedOrigins != "" {
		origins = strings.Split(allowedOrigins, ",")
	} else {
		origins = []string{"http://localhost:3000"}
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
}
