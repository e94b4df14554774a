package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/irshad/hiring/config"
	"github.com/irshad/hiring/database"
	"github.com/irshad/hiring/internal/controller"
	"github.com/irshad/hiring/internal/controller/candidate"
	"github.com/irshad/hiring/internal/controller/company"
	"github.com/irshad/hiring/internal/logger"
	"github.com/irshad/hiring/internal/middleware"
	"github.com/irshad/hiring/internal/notify"
	"github.com/irshad/hiring/internal/repository"
	"github.com/irshad/hiring/internal/scoring"
	"github.com/irshad/hiring/internal/service"
	"github.com/irshad/hiring/internal/worker"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

// @title Hiring API
// @version 1.0
// @description Job applications, timed assessments, applicant ranking and interview decisions.
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "hiring",
	Short:         "Application and assessment lifecycle service",
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the expiry sweeper",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var sweepCmd = &cobra.Command{
	Use:   "sweep-expired",
	Short: "Finalize every assessment attempt past its deadline once, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSweep(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(serveCmd, sweepCmd)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	logger.Init(cfg.Log.Level, cfg.Log.Pretty)
	return cfg, nil
}

func runServe() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	app := fx.New(
		fx.Supply(cfg),
		coreModule,

		// Transport
		fx.Provide(
			NewLimiter,
			NewGinEngine,
			candidate.NewCandidateController,
			company.NewCompanyController,
			func(cc *candidate.CandidateController, co *company.CompanyController, limiter middleware.Limiter) *controller.Router {
				return controller.NewRouter(cc, co, limiter, cfg.Server.RateLimitPerMinute)
			},
		),

		fx.Invoke(StartSweeper),
		fx.Invoke(RegisterRoutesAndStartServer),
	)

	if err := app.Start(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to start application")
		return err
	}
	<-app.Done()
	log.Info().Msg("Application shutting down gracefully...")

	stopCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return app.Stop(stopCtx)
}

func runSweep(ctx context.Context) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var sweeper *worker.ExpirySweeper
	app := fx.New(
		fx.Supply(cfg),
		coreModule,
		fx.Populate(&sweeper),
	)
	if err := app.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := app.Stop(context.Background()); err != nil {
			log.Warn().Err(err).Msg("Failed to stop application cleanly")
		}
	}()

	count, err := sweeper.RunOnce(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("finalized", count).Msg("Expired attempts swept")
	return nil
}

// coreModule provides everything below the transport layer.
var coreModule = fx.Options(
	// Storage
	fx.Provide(NewDatabase),

	// Repositories Layer
	fx.Provide(
		repository.NewJobRepository,
		repository.NewCandidateRepository,
		repository.NewQuestionRepository,
		repository.NewApplicationRepository,
		repository.NewExamAttemptRepository,
		repository.NewTestAnswerRepository,
		repository.NewInterviewRepository,
	),

	// Collaborators
	fx.Provide(
		NewScoringMode,
		NewPredictor,
		notify.New,
	),

	// Services Layer
	fx.Provide(
		service.NewSalaryBander,
		service.NewShuffler,
		service.NewApplicationService,
		func(
			db *gorm.DB,
			jobRepo repository.JobRepository,
			appRepo repository.ApplicationRepository,
			attemptRepo repository.ExamAttemptRepository,
			answerRepo repository.TestAnswerRepository,
			shuffler *service.Shuffler,
			cfg *config.Config,
		) service.AssessmentService {
			return service.NewAssessmentService(db, jobRepo, appRepo, attemptRepo, answerRepo, shuffler, cfg.Assessment.DefaultTestDuration)
		},
		func(assessment service.AssessmentService) service.ExpiryChecker { return assessment },
		service.NewRankingService,
		service.NewInterviewService,
		service.NewQuestionService,
	),

	fx.Provide(func(assessment service.AssessmentService, cfg *config.Config) *worker.ExpirySweeper {
		return worker.NewExpirySweeper(assessment, cfg.Assessment.SweepInterval)
	}),
)

func NewDatabase(lc fx.Lifecycle, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return nil, err
	}
	if err := database.AutoMigrate(db); err != nil {
		return nil, err
	}
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		},
	})
	return db, nil
}

func NewScoringMode(cfg *config.Config) (scoring.Mode, error) {
	return scoring.ParseMode(cfg.Scoring.Mode)
}

// NewPredictor selects the score service named by SCORING_PROVIDER.
func NewPredictor(lc fx.Lifecycle, cfg *config.Config, mode scoring.Mode) (scoring.Predictor, error) {
	switch cfg.Scoring.Provider {
	case "", "http":
		log.Info().Str("baseURL", cfg.Scoring.BaseURL).Str("mode", string(mode)).Msg("Using HTTP score service")
		return scoring.NewHTTPPredictor(cfg.Scoring.BaseURL, mode, &http.Client{Timeout: cfg.Scoring.Timeout}), nil
	case "gemini":
		if cfg.Scoring.GeminiApiKey == "" {
			return nil, errors.New("GEMINI_API_KEY is required when SCORING_PROVIDER=gemini")
		}
		predictor, client, err := scoring.NewGeminiPredictor(context.Background(), cfg.Scoring.GeminiApiKey, cfg.Scoring.GeminiModel)
		if err != nil {
			return nil, err
		}
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				return client.Close()
			},
		})
		log.Info().Str("model", cfg.Scoring.GeminiModel).Msg("Using Gemini score service")
		return predictor, nil
	default:
		return nil, errors.Newf("unknown SCORING_PROVIDER %q", cfg.Scoring.Provider)
	}
}

// NewLimiter shares rate-limit counters through redis when REDIS_ADDR is set.
func NewLimiter(lc fx.Lifecycle, cfg *config.Config) middleware.Limiter {
	if cfg.Redis.Addr == "" {
		log.Warn().Msg("REDIS_ADDR is not set. Rate limiting is per instance.")
		return middleware.NewMemoryLimiter()
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := client.Ping(ctx).Err(); err != nil {
				log.Warn().Err(err).Str("addr", cfg.Redis.Addr).Msg("Redis unreachable. Rate limiter fails open until it recovers.")
			}
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return client.Close()
		},
	})
	return middleware.NewRedisLimiter(client)
}

func NewGinEngine() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(gin.LoggerWithFormatter(func(param gin.LogFormatterParams) string {
		log.Info().
			Str("client_ip", param.ClientIP).
			Str("method", param.Method).
			Str("path", param.Path).
			Int("status_code", param.StatusCode).
			Dur("latency", param.Latency).
			Str("user_agent", param.Request.UserAgent()).
			Str("error_message", param.ErrorMessage).
			Msg("gin_request")
		return ""
	}))
	r.Use(gin.Recovery())

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", middleware.CandidateHeader, middleware.CompanyHeader},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}))

	// URL: http://localhost:PORT/swagger/index.html
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	return r
}

func StartSweeper(lc fx.Lifecycle, sweeper *worker.ExpirySweeper) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			sweeper.Start()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return sweeper.Stop(ctx)
		},
	})
}

// RegisterRoutesAndStartServer configures API routes and manages server lifecycle.
func RegisterRoutesAndStartServer(lc fx.Lifecycle, router *gin.Engine, cfg *config.Config, routes *controller.Router) {
	routes.RegisterRoutes(router)

	server := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info().Msgf("Hiring API server starting on port %s", cfg.Server.Port)
			go func() {
				if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal().Err(err).Msg("Server ListenAndServe failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info().Msg("Server shutting down...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	})
}
