package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"vantahire/internal/ai"
	"vantahire/internal/config"
	"vantahire/internal/handler"
	"vantahire/internal/notify"
	"vantahire/internal/repository"
	"vantahire/internal/scheduler"
	"vantahire/internal/service"
	"vantahire/internal/upload"
	"vantahire/pkg/database"
	"vantahire/pkg/redis"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("invalid configuration")
	}

	ctx := context.Background()

	db, pool, err := database.NewPostgresConnection(ctx, database.Options{
		URL:             cfg.Database.URL,
		MaxConns:        cfg.Database.MaxConns,
		MinConns:        cfg.Database.MinConns,
		MaxConnLifetime: cfg.Database.MaxConnLifetime,
		MaxConnIdleTime: cfg.Database.MaxConnIdleTime,
		DialTimeout:     cfg.Database.DialTimeout,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer pool.Close()
	defer db.Close()

	if err := database.RunMigrations(db); err != nil {
		log.Fatal().Err(err).Msg("failed to run migrations")
	}

	redisClient, err := redis.NewRedisClient(ctx, cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()

	userRepo := repository.NewUserRepository(db)
	sessionRepo := repository.NewSessionRepository(redisClient)
	jobRepo := repository.NewJobRepository(db)
	appRepo := repository.NewApplicationRepository(db)
	analyticsRepo := repository.NewAnalyticsRepository(db)
	contactRepo := repository.NewContactRepository(db)
	jobCache := repository.NewJobPageCache(redisClient, cfg.JobCacheTTL)

	notifier := newNotifier(cfg)
	defer notifier.Wait()

	analyzer, err := ai.NewOpenAIAnalyzer(cfg.AI.OpenAIAPIKey, cfg.AI.Model, cfg.AI.Timeout)
	if err != nil {
		log.Error().Err(err).Msg("failed to initialise AI analyzer, AI features disabled")
	}
	var aiAnalyzer service.Analyzer
	if analyzer != nil {
		aiAnalyzer = analyzer
	}

	authService := service.NewAuthenticationService(cfg.JWT, userRepo, sessionRepo)
	jobService := service.NewJobService(jobRepo, analyticsRepo, jobCache)
	appService := service.NewApplicationService(appRepo, jobRepo, userRepo, analyticsRepo,
		upload.NewResumeStore(cfg.Cloudinary.URL, cfg.Cloudinary.Folder), notifier)

	router := handler.NewRouter(cfg, redisClient, handler.Services{
		Auth:         authService,
		Jobs:         jobService,
		Applications: appService,
		Users:        service.NewUserService(userRepo, sessionRepo),
		AI:           service.NewAIService(aiAnalyzer, analyticsRepo),
		Contact:      service.NewContactService(contactRepo, notifier),
		Export:       service.NewExportService(analyticsRepo),
	})

	sched, err := scheduler.New(jobService)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to set up scheduler")
	}
	sched.Start()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server startup failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Bool("ai_enabled", aiAnalyzer != nil).
		Bool("email_automation", cfg.Mail.AutomationEnabled).
		Msg("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	sched.Stop(shutdownCtx)
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339
	if !cfg.IsProduction() {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	}
}

// newNotifier tries Mailgun, then SMTP, and always ends with the log mailer.
func newNotifier(cfg *config.Config) *notify.Notifier {
	var mailers []notify.Mailer
	if cfg.Mail.MailgunConfigured() {
		mailers = append(mailers, notify.NewMailgunMailer(cfg.Mail.MailgunDomain, cfg.Mail.MailgunAPIKey, cfg.Mail.FromEmail))
	}
	if cfg.Mail.SMTPConfigured() {
		mailers = append(mailers, notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.Mail.SMTPHost,
			Port:     cfg.Mail.SMTPPort,
			Username: cfg.Mail.SMTPUsername,
			Password: cfg.Mail.SMTPPassword,
			From:     cfg.Mail.FromEmail,
		}))
	}
	mailers = append(mailers, notify.LogMailer{})

	templates, err := notify.LoadTemplates()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load email templates")
	}
	return notify.NewNotifier(notify.NewFallbackMailer(mailers...), templates, notify.NotifierConfig{
		AutomationEnabled: cfg.Mail.AutomationEnabled,
		NotificationEmail: cfg.Mail.NotificationEmail,
	})
}
