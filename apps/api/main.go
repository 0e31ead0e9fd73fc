package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	cataloghandler "github.com/freshfleet/backoffice/domains/catalog/be/handler"
	catalogrepo "github.com/freshfleet/backoffice/domains/catalog/be/repo"
	catalogservice "github.com/freshfleet/backoffice/domains/catalog/be/service"
	cateringhandler "github.com/freshfleet/backoffice/domains/catering/be/handler"
	cateringrepo "github.com/freshfleet/backoffice/domains/catering/be/repo"
	cateringservice "github.com/freshfleet/backoffice/domains/catering/be/service"
	suppliershandler "github.com/freshfleet/backoffice/domains/suppliers/be/handler"
	suppliersrepo "github.com/freshfleet/backoffice/domains/suppliers/be/repo"
	suppliersservice "github.com/freshfleet/backoffice/domains/suppliers/be/service"
	usershandler "github.com/freshfleet/backoffice/domains/users/be/handler"
	usersrepo "github.com/freshfleet/backoffice/domains/users/be/repo"
	usersservice "github.com/freshfleet/backoffice/domains/users/be/service"
	platformlogging "github.com/freshfleet/backoffice/platform/go/logging"
	platformmiddleware "github.com/freshfleet/backoffice/platform/go/middleware"
	"github.com/freshfleet/backoffice/platform/go/persistence"
	"github.com/freshfleet/backoffice/platform/go/registry"
)

type config struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
	RequestTimeout  time.Duration `env:"REQUEST_TIMEOUT" envDefault:"15s"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	MongoURI        string        `env:"MONGODB_URI,required"`
	MongoDatabase   string        `env:"MONGODB_DATABASE" envDefault:"freshfleet"`
	MongoTimeout    time.Duration `env:"MONGODB_CONNECT_TIMEOUT" envDefault:"10s"`
	MongoPoolSize   uint64        `env:"MONGODB_MAX_POOL_SIZE" envDefault:"0"`
	StoreOpTimeout  time.Duration `env:"STORE_OP_TIMEOUT" envDefault:"5s"`
}

func main() {
	ctx := context.Background()

	var cfg config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := platformlogging.NewLogger(platformlogging.Config{
		Component: "api-server",
		Level:     cfg.LogLevel,
	})
	if err != nil {
		log.Fatalf("init zap logger: %v", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	client, err := persistence.NewClient(ctx, persistence.ClientConfig{
		URI:            cfg.MongoURI,
		ConnectTimeout: cfg.MongoTimeout,
		MaxPoolSize:    cfg.MongoPoolSize,
	})
	if err != nil {
		logger.Fatal("init mongo client", zap.Error(err))
	}
	defer persistence.CloseClient(context.Background(), client)

	store, err := persistence.NewMongoStore(client, cfg.MongoDatabase, cfg.StoreOpTimeout)
	if err != nil {
		logger.Fatal("init mongo store", zap.Error(err))
	}

	reg, err := registry.Load()
	if err != nil {
		logger.Fatal("load collection registry", zap.Error(err))
	}

	engine := persistence.NewEngine(store, reg)

	catalogRepo, err := catalogrepo.NewEngineRepository(engine)
	if err != nil {
		logger.Fatal("init catalog repository", zap.Error(err))
	}
	catalogHTTPHandler := cataloghandler.New(catalogservice.New(catalogRepo), logger)

	cateringRepo, err := cateringrepo.NewEngineRepository(engine)
	if err != nil {
		logger.Fatal("init catering repository", zap.Error(err))
	}
	cateringHTTPHandler := cateringhandler.New(cateringservice.New(cateringRepo), logger)

	suppliersRepo, err := suppliersrepo.NewEngineRepository(engine)
	if err != nil {
		logger.Fatal("init suppliers repository", zap.Error(err))
	}
	suppliersHTTPHandler := suppliershandler.New(suppliersservice.New(suppliersRepo), logger)

	usersRepo, err := usersrepo.NewEngineRepository(engine)
	if err != nil {
		logger.Fatal("init users repository", zap.Error(err))
	}
	usersHTTPHandler := usershandler.New(usersservice.New(usersRepo), logger)

	rootRouter := chi.NewRouter()

	rootRouter.Use(
		chimw.RequestID,
		chimw.RealIP,
		chimw.Recoverer,
		chimw.Timeout(cfg.RequestTimeout),
		platformmiddleware.DefaultCORS(),
	)

	rootRouter.Use(platformlogging.RequestLogger(logger))

	rootRouter.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	rootRouter.Get("/readyz", func(w http.ResponseWriter, r *http.Request) {
		if err := client.Ping(r.Context(), nil); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	apiRouter := chi.NewRouter()
	apiRouter.Use(platformmiddleware.RequestTrace)

	catalogHTTPHandler.Register(apiRouter)
	cateringHTTPHandler.Register(apiRouter)
	suppliersHTTPHandler.Register(apiRouter)
	usersHTTPHandler.Register(apiRouter)

	rootRouter.Mount("/api/v1", apiRouter)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      rootRouter,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	go func() {
		logger.Info("starting api server", zap.String("port", cfg.Port))
		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server listen failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
