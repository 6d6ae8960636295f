package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/vipadmin/vipadmin-api/internal/config"
	"github.com/vipadmin/vipadmin-api/internal/domain/verification"
	"github.com/vipadmin/vipadmin-api/internal/middleware"
	"github.com/vipadmin/vipadmin-api/internal/pkg/captcha"
	"github.com/vipadmin/vipadmin-api/internal/pkg/database"
	"github.com/vipadmin/vipadmin-api/internal/pkg/email"
	"github.com/vipadmin/vipadmin-api/internal/pkg/jwt"
	"github.com/vipadmin/vipadmin-api/internal/pkg/kvstore"
	"github.com/vipadmin/vipadmin-api/internal/pkg/logger"
	"github.com/vipadmin/vipadmin-api/internal/pkg/random"
	pkgresponse "github.com/vipadmin/vipadmin-api/internal/pkg/response"
)

func main() {
	cfg := config.Load()
	logger.Init(logger.Config{Level: cfg.LogLevel, Environment: cfg.Env})

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting VIP Admin API")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := openStore(ctx, cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer closeStore()

	var sender email.Sender = email.LogSender{}
	if cfg.SendGridAPIKey != "" {
		sender = email.NewSendGridClient(email.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.EmailFrom,
			FromName:  cfg.EmailFromName,
		})
	} else if cfg.IsProduction() {
		log.Warn().Msg("SENDGRID_API_KEY is empty, verification emails will only be logged")
	}

	emailService, err := email.NewService(sender, cfg.AppName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load email templates")
	}

	verificationService := verification.NewService(
		store,
		random.NewCryptoGenerator(),
		captcha.NewRenderer(0.5),
		verification.NewEmailNotifier(emailService),
		verification.NewTicketSigner(jwt.NewService(cfg.JWTSecret, cfg.TicketTTL, cfg.AppName)),
		verificationConfig(cfg),
	)

	trustedProxies, err := middleware.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid TRUSTED_PROXIES")
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      newRouter(cfg, trustedProxies, verification.NewHandler(verificationService, cfg.AppName)),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("Server stopped")
}

// openStore connects to Redis when REDIS_URL is set and falls back to process memory otherwise
func openStore(ctx context.Context, cfg *config.Config) (kvstore.Store, func(), error) {
	client, err := database.NewRedis(ctx, cfg.RedisURL, database.RedisOptions{})
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		log.Info().Msg("Using Redis verification store")
		return kvstore.NewRedisStore(client), func() { database.CloseRedis(client) }, nil
	}

	if cfg.IsProduction() {
		log.Warn().Msg("REDIS_URL is empty, verification codes are kept in process memory")
	}
	mem := kvstore.NewMemoryStore()
	go mem.RunCleanup(ctx, time.Minute)
	return mem, func() {}, nil
}

func verificationConfig(cfg *config.Config) verification.Config {
	vc := verification.DefaultConfig()
	vc.CaptchaLength = cfg.CaptchaLength
	vc.CaptchaExpire = cfg.CaptchaExpire
	vc.Image = captcha.Options{
		Width:      cfg.CaptchaWidth,
		Height:     cfg.CaptchaHeight,
		FontSize:   cfg.CaptchaFontSize,
		NoiseLevel: cfg.CaptchaNoise,
	}
	vc.EmailCodeLength = cfg.EmailCodeLength
	vc.EmailCodeExpire = cfg.EmailCodeExpire
	vc.EmailResendWait = cfg.EmailResendWait
	return vc
}

func newRouter(cfg *config.Config, trustedProxies []*net.IPNet, verificationHandler *verification.Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.ClientIP(trustedProxies))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))
	r.Use(middleware.Timeout(20 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.OK(w, map[string]string{
			"status":  "ok",
			"service": cfg.AppName,
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Sanitize)
		r.Mount("/verification", verificationHandler.Routes())
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		pkgresponse.NotFound(w, "Route not found")
	})

	return r
}
