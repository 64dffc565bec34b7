package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"sgf_service/internal/adapters"
	"sgf_service/internal/bootstrap"
	sgfDelivery "sgf_service/internal/delivery/sgf"
	ownMiddleware "sgf_service/internal/middleware"
	"sgf_service/internal/repository"
	sgfUsecase "sgf_service/internal/usecase/sgf"
)

type dataBaseAdapters struct {
	redisAdapter *adapters.AdapterRedis
	mongoAdapter *adapters.AdapterMongo
}

func main() {
	logger := NewLogger()
	defer logger.Sync()

	cfg, err := bootstrap.Setup(".env")
	if err != nil {
		logger.Errorw("Failed to setup configuration", zap.Error(err))
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	databaseAdapters := initDatabaseAdapters(ctx, logger, cfg)
	defer databaseAdapters.mongoAdapter.Close(context.Background())
	defer databaseAdapters.redisAdapter.Close(context.Background())

	r := chi.NewRouter()
	Router(r, cfg, initializeDeliveryHandler(cfg, logger, databaseAdapters))

	srv := &http.Server{Addr: cfg.ServerPort, Handler: r}
	go handleShutdown(cancel, srv, logger)

	logger.Infof("Server is running on port %s", cfg.ServerPort)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalw("Failed to start server", zap.Error(err))
	}
}

func NewLogger() *zap.SugaredLogger {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	return logger.Sugar()
}

func Router(r *chi.Mux, cfg *bootstrap.Config, sgfHandler *sgfDelivery.SgfHandler) {
	if cfg.IsLocalCors {
		r.Use(ownMiddleware.CORS)
	}
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	sgfHandler.Router(r)
}

func initDatabaseAdapters(ctx context.Context, log *zap.SugaredLogger, cfg *bootstrap.Config) *dataBaseAdapters {
	mongoAdapter := adapters.NewAdapterMongo(cfg, log)
	if err := mongoAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize MongoDB", zap.Error(err))
	}

	redisAdapter := adapters.NewAdapterRedis(cfg, log)
	if err := redisAdapter.Init(ctx); err != nil {
		log.Fatalw("Failed to initialize Redis", zap.Error(err))
	}

	log.Info("database adapters initialized")
	return &dataBaseAdapters{
		redisAdapter: redisAdapter,
		mongoAdapter: mongoAdapter,
	}
}

func initializeDeliveryHandler(cfg *bootstrap.Config, log *zap.SugaredLogger, databaseAdapters *dataBaseAdapters) *sgfDelivery.SgfHandler {
	records := repository.NewRecordRepository(log, databaseAdapters.mongoAdapter.Database)
	sources := repository.NewSourceCache(databaseAdapters.redisAdapter.GetClient(), cfg.SourceTTL())
	uc := sgfUsecase.NewSgfUseCase(records, sources, repository.NewSgfFiles(), log, cfg.MaxDepth, cfg.PageLimitRecords)

	return sgfDelivery.NewSgfHandler(log, uc, cfg.MaxBodyBytes)
}

func handleShutdown(cancelFunc context.CancelFunc, srv *http.Server, log *zap.SugaredLogger) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	<-sigs
	log.Info("Received shutdown signal")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("graceful shutdown failed", zap.Error(err))
	}
	cancelFunc()
}
