package main

import (
	"context"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vytor/flashstudy/internal/api"
	"github.com/vytor/flashstudy/internal/config"
	"github.com/vytor/flashstudy/internal/db"
	"github.com/vytor/flashstudy/internal/logger"
	"github.com/vytor/flashstudy/internal/metrics"
	"github.com/vytor/flashstudy/internal/repository/filestore"
	"github.com/vytor/flashstudy/internal/repository/sqlite"
	"github.com/vytor/flashstudy/internal/services"
	"github.com/vytor/flashstudy/internal/session"
	"github.com/vytor/flashstudy/internal/token"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		logger.Default().Fatalf("failed to load configuration: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logger.Default().Fatalf("invalid configuration: %v", err)
	}

	// Initialize logger
	opts := []logger.Option{logger.WithLevel(logger.ParseLevel(cfg.LogLevel))}
	if cfg.LogFile != "" {
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     28,
			Compress:   true,
		}
		defer rotating.Close()
		opts = append(opts, logger.WithOutput(io.MultiWriter(os.Stdout, rotating)), logger.WithColors(false))
	} else {
		opts = append(opts, logger.WithColors(true))
	}
	log := logger.New(opts...)
	logger.SetDefault(log)

	log.Info("===========================================")
	log.Info("FlashStudy Server Starting")
	log.Info("===========================================")
	log.Info("configuration loaded")
	log.Debug("addr=%s", cfg.Addr)
	log.Debug("data_dir=%s", cfg.DataDir)
	log.Debug("db_driver=%s", cfg.DBDriver)
	log.Debug("db_path=%s", cfg.DBPath)
	log.Debug("log_level=%s", cfg.LogLevel)
	log.Debug("token_ttl=%s", cfg.TokenTTL)
	log.Debug("password_hash=%s", cfg.PasswordHash)
	log.Debug("allow_guest_login=%t", cfg.AllowGuestLogin)
	log.Debug("login_rate_per_minute=%d", cfg.LoginRatePerMinute)
	log.Debug("leaderboard_limit=%d", cfg.LeaderboardLimit)

	dataDir, err := filestore.NewDir(cfg.DataDir)
	if err != nil {
		log.Error("failed to prepare data directory: %v", err)
		os.Exit(1)
	}

	// Open database
	database, err := db.Open(cfg.DBDriver, cfg.DBPath)
	if err != nil {
		log.Error("failed to open database: %v", err)
		os.Exit(1)
	}
	defer func() {
		log.Debug("closing database connection")
		database.Close()
	}()

	// Initialize repositories
	cardRepo := filestore.NewCardRepository(dataDir)
	scoreRepo := filestore.NewScoreRepository(dataDir)
	profileRepo := filestore.NewProfileRepository(dataDir)
	credentialRepo := filestore.NewCredentialRepository(dataDir)
	leaderboardRepo := sqlite.NewLeaderboardRepository(database.DB)
	achievementRepo := sqlite.NewAchievementRepository(database.DB)

	sessions := session.NewManager()
	tokens := token.NewManager(cfg.JWTSecret, cfg.TokenTTL)
	janitor := session.NewJanitor(sessions, cfg.TokenTTL, time.Minute)
	m := metrics.New(func() float64 { return float64(sessions.Len()) })

	// Initialize services
	authService := services.NewAuthService(credentialRepo, sessions, tokens, services.AuthConfig{
		PasswordHash:    cfg.PasswordHash,
		BcryptCost:      cfg.BcryptCost,
		AllowGuestLogin: cfg.AllowGuestLogin,
	})
	cardService := services.NewCardService(cardRepo, nil)
	quizService := services.NewQuizService(scoreRepo, leaderboardRepo, achievementRepo, m, nil)
	statsService := services.NewStatsService(scoreRepo)
	profileService := services.NewProfileService(profileRepo)
	leaderboardService := services.NewLeaderboardService(leaderboardRepo, achievementRepo, cfg.LeaderboardLimit)

	srv := &api.Server{
		AuthService:        authService,
		CardService:        cardService,
		QuizService:        quizService,
		StatsService:       statsService,
		ProfileService:     profileService,
		LeaderboardService: leaderboardService,
		Metrics:            m,
		DB:                 database,
		LoginRatePerMinute: cfg.LoginRatePerMinute,
	}

	// Configure HTTP server
	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      srv.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	janitor.Start(ctx)

	// Start HTTP server
	go func() {
		log.Info("HTTP server listening on %s", cfg.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error: %v", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	sig := <-stop

	log.Info("received signal %v, initiating graceful shutdown", sig)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Debug("shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error: %v", err)
	}

	cancel()
	janitor.Stop()

	log.Info("===========================================")
	log.Info("FlashStudy Server Stopped")
	log.Info("===========================================")
}
