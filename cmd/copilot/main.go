package main

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/calendar-copilot/internal/application"
	"github.com/example/calendar-copilot/internal/config"
	httptransport "github.com/example/calendar-copilot/internal/http"
	"github.com/example/calendar-copilot/internal/llm"
	"github.com/example/calendar-copilot/internal/persistence/sqlite"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; the environment may already be populated.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	storage, err := sqlite.Open(cfg.SQLiteDSN)
	if err != nil {
		logger.Error("failed to open storage", "error", err)
		os.Exit(1)
	}
	defer func() {
		if cerr := storage.Close(); cerr != nil {
			logger.Error("failed to close storage", "error", cerr)
		}
	}()

	if err := storage.Migrate(context.Background()); err != nil {
		logger.Error("failed to apply migrations", "error", err)
		os.Exit(1)
	}

	// Session tokens are random material keyed through the deployment secret,
	// so tokens from different deployments never collide or transfer.
	tokenGenerator := func() string { return signedToken(cfg.SessionSecret) }

	eventRepo := sqlite.NewEventRepository(storage)
	conversationRepo := sqlite.NewConversationRepository(storage)
	templateRepo := sqlite.NewTemplateRepository(storage)
	userRepo := sqlite.NewUserRepository(storage)
	sessionRepo := sqlite.NewSessionRepository(storage)

	completionClient := llm.NewHTTPClient(llm.Config{
		BaseURL: cfg.OpenAIBaseURL,
		APIKey:  cfg.OpenAIAPIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.LLMTimeout,
	})

	eventService := application.NewEventService(eventRepo, nil, logger)
	templateService := application.NewTemplateService(templateRepo, nil, logger)
	copilotService := application.NewCopilotService(completionClient, eventRepo, conversationRepo, templateRepo, nil, nil, cfg.HistoryLimit, logger)
	authService := application.NewAuthService(userRepo, sessionRepo, tokenGenerator, nil, cfg.SessionTTL, logger)

	if err := templateService.SeedDefaults(context.Background()); err != nil {
		logger.Error("failed to seed scenario templates", "error", err)
		os.Exit(1)
	}

	handler := httptransport.NewRouter(httptransport.RouterConfig{
		Auth:      httptransport.NewAuthHandler(authService, logger),
		Events:    httptransport.NewEventHandler(eventService, logger),
		Copilot:   httptransport.NewCopilotHandler(copilotService, logger),
		Templates: httptransport.NewTemplateHandler(templateService, logger),
		Middleware: []httptransport.Middleware{
			httptransport.RequestLogger(logger),
			httptransport.RequireSession(authService, logger),
		},
		Logger: logger,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      2 * cfg.LLMTimeout,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("failed to shutdown server", "error", err)
		}
	}()

	logger.Info("calendar copilot API listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server encountered error", "error", err)
		os.Exit(1)
	}
}

func signedToken(secret string) string {
	buf := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, buf); err != nil {
		buf = fmt.Appendf(buf[:0], "fallback-%d", time.Now().UnixNano())
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(buf)
	return hex.EncodeToString(buf) + "." + hex.EncodeToString(mac.Sum(nil))
}
