package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/tableside/concierge/internal/config"
	"github.com/tableside/concierge/internal/handler"
	"github.com/tableside/concierge/internal/logging"
	"github.com/tableside/concierge/internal/middleware"
	"github.com/tableside/concierge/internal/model/restaurant"
	"github.com/tableside/concierge/internal/service/account"
	"github.com/tableside/concierge/internal/service/ai"
	"github.com/tableside/concierge/internal/service/chat"
	"github.com/tableside/concierge/internal/service/review"
	"github.com/tableside/concierge/internal/service/sentiment"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load .env file
	envErr := godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	zap.ReplaceGlobals(logger)

	if envErr != nil {
		logger.Info("no .env file loaded, continuing with system environment variables only", zap.Error(envErr))
	}

	restaurants := restaurant.NewMemoryStore(restaurant.Seed())

	// Initialize chat model
	var chatModel model.ChatModel
	if cfg.AI.Enabled() {
		chatModel, err = cfg.AI.NewChatModel(ctx)
		if err != nil {
			logger.Warn("failed to initialize chat model, using canned replies", zap.Error(err))
			chatModel = nil
		} else {
			logger.Info("chat model initialized", zap.String("model", cfg.AI.Model))
		}
	} else {
		logger.Info("Ark 凭证未配置，使用预设回复")
	}

	replier, err := ai.NewService(ctx, chatModel, logger)
	if err != nil {
		logger.Fatal("failed to initialize AI service", zap.Error(err))
	}

	classifier, err := sentiment.NewService(ctx, chatModel, sentiment.Config{Enabled: cfg.Sentiment.LLMEnabled}, logger)
	if err != nil {
		logger.Warn("failed to initialize sentiment classifier, falling back to heuristics", zap.Error(err))
		classifier, _ = sentiment.NewService(ctx, nil, sentiment.Config{}, logger)
	} else if classifier.Enabled() {
		logger.Info("review sentiment classifier enabled")
	} else if cfg.Sentiment.LLMEnabled {
		logger.Info("sentiment classifier requested but chat model unavailable, using heuristics")
	}

	router := handler.NewRouter(handler.Deps{
		Restaurants: restaurants,
		Accounts:    account.NewService(0),
		Chat:        chat.NewService(),
		Replier:     replier,
		Reviews:     review.NewService(restaurants, classifier, logger),
		Metrics:     middleware.NewMetrics(),
		Logger:      logger,
	})

	startServer(ctx, cfg.Server, router, logger)
}

func startServer(ctx context.Context, serverCfg config.ServerConfig, router http.Handler, logger *zap.Logger) {
	addr := serverCfg.Addr
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	logger.Info("concierge backend listening", zap.String("addr", addr))
	if err := runServer(ctx, srv); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}

func runServer(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		err := <-errCh
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
