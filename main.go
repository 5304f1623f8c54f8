package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"pickem-app-go/cache"
	"pickem-app-go/config"
	"pickem-app-go/database"
	"pickem-app-go/handlers"
	"pickem-app-go/logging"
	"pickem-app-go/metrics"
	"pickem-app-go/middleware"
	"pickem-app-go/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Configuration error: %v", err)
	}
	logging.Configure(cfg.ToLoggingConfig())
	logger := logging.WithPrefix("Main")
	cfg.LogConfiguration()

	db, err := database.NewMongoConnection(cfg.ToDatabaseConfig())
	if err != nil {
		logger.Fatalf("Database connection failed: %v", err)
	}
	defer db.Close()

	// Repositories
	rawRecordRepo := database.NewMongoRawRecordRepository(db)
	snapshotRepo := database.NewMongoSnapshotRepository(db)
	gameScoreRepo := database.NewMongoGameScoreRepository(db)
	pickRepo := database.NewMongoPickRepository(db)
	weeklyScoreRepo := database.NewMongoWeeklyScoreRepository(db)
	userRepo := database.NewMongoUserRepository(db)
	if err := userRepo.EnsureIndexes(); err != nil {
		logger.Warnf("Failed to ensure user indexes: %v", err)
	}

	// Cache is optional; everything falls through to Mongo without it.
	var redisCache *cache.RedisCache
	if cfg.Cache.Enabled {
		redisCache, err = cache.Connect(cfg.ToCacheConfig())
		if err != nil {
			logger.Warnf("Cache unavailable, continuing without: %v", err)
			redisCache = nil
		} else {
			defer redisCache.Close()
		}
	}

	if cfg.IsDevelopment() {
		seeder := services.NewUserSeeder(userRepo)
		if err := seeder.SeedUsers(); err != nil {
			logger.Warnf("User seeding failed: %v", err)
		}
	}

	// Services
	calendar := cfg.ToSeasonCalendar()
	oddsClient := services.NewOddsAPIClient(services.OddsAPIConfig{
		BaseURL: cfg.Odds.BaseURL,
		APIKey:  cfg.Odds.APIKey,
		Timeout: cfg.Odds.Timeout,
	})
	oddsCollector := services.NewOddsCollector(oddsClient, rawRecordRepo)
	snapshotBuilder := services.NewSnapshotBuilder(rawRecordRepo, snapshotRepo, cfg.Odds.Bookmaker)
	lineLocker := services.NewLineLocker(snapshotRepo, calendar, cfg.League.StrictLineLock, redisCache)
	scoresCollector := services.NewScoresCollector(oddsClient, rawRecordRepo, gameScoreRepo, cfg.Odds.ScoresLookbackDays)
	pickService := services.NewPickService(pickRepo, gameScoreRepo, lineLocker)
	scoringService := services.NewScoringService(pickRepo, gameScoreRepo, weeklyScoreRepo, redisCache)
	standingsService := services.NewStandingsService(weeklyScoreRepo, userRepo, redisCache)
	authService := services.NewAuthService(userRepo, cfg.Auth.JWTSecret)
	emailService := services.NewEmailService(cfg.ToEmailConfig())
	if !emailService.IsConfigured() {
		logger.Info("SMTP not configured; password reset tokens go to the log")
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(authService, emailService, cfg.Server.BehindProxy)
	linesHandler := handlers.NewLinesHandler(lineLocker, cfg.League.Season)
	picksHandler := handlers.NewPicksHandler(pickService, lineLocker, cfg.League.Season)
	standingsHandler := handlers.NewStandingsHandler(standingsService, lineLocker, cfg.League.Season)
	adminHandler := handlers.NewAdminHandler(oddsCollector, snapshotBuilder, scoresCollector, scoringService, cfg.League.Season)
	healthHandler := handlers.NewHealthHandler(db, oddsClient)
	authMiddleware := middleware.NewAuthMiddleware(authService)

	// Routes
	r := mux.NewRouter()
	r.Use(middleware.SecurityHeaders(cfg.Server.BehindProxy))

	r.HandleFunc("/health", healthHandler.Health).Methods("GET")
	r.Handle("/metrics", metrics.Handler()).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/login", authHandler.Login).Methods("POST")
	api.HandleFunc("/logout", authHandler.Logout).Methods("POST")
	api.HandleFunc("/forgot-password", authHandler.ForgotPassword).Methods("POST")
	api.HandleFunc("/reset-password", authHandler.ResetPassword).Methods("POST")
	api.HandleFunc("/lines", linesHandler.GetLines).Methods("GET")
	api.HandleFunc("/scoreboard", standingsHandler.GetScoreboard).Methods("GET")
	api.HandleFunc("/standings", standingsHandler.GetStandings).Methods("GET")

	authed := api.NewRoute().Subrouter()
	authed.Use(mux.MiddlewareFunc(authMiddleware.RequireAuth))
	authed.HandleFunc("/me", authHandler.Me).Methods("GET")
	authed.HandleFunc("/picks", picksHandler.SubmitPicks).Methods("POST")
	authed.HandleFunc("/picks", picksHandler.GetPicks).Methods("GET")

	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(mux.MiddlewareFunc(authMiddleware.RequireAdmin))
	admin.HandleFunc("/collect-odds", adminHandler.CollectOdds).Methods("POST")
	admin.HandleFunc("/collect-scores", adminHandler.CollectScores).Methods("POST")
	admin.HandleFunc("/results", adminHandler.RecordResults).Methods("POST")
	admin.HandleFunc("/rescore", adminHandler.Rescore).Methods("POST")
	admin.HandleFunc("/raw-records", adminHandler.RawRecords).Methods("GET")

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var updater *services.BackgroundUpdater
	if cfg.IsBackgroundUpdaterEnabled() {
		updater = services.NewBackgroundUpdater(oddsCollector, snapshotBuilder, scoresCollector, cfg.Odds.ScoresInterval)
		updater.Start()
	} else {
		logger.Infof("Background updater disabled; rely on the collector commands")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Infof("Shutdown signal received")

	if updater != nil {
		updater.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	logger.Infof("Server stopped")
}
