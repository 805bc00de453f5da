package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	grpcAdapter "github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/grpc"
	httpAdapter "github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/http"
	natsAdapter "github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/messaging/nats"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/repository/cache"
	mongoRepo "github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/repository/mongodb"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/search"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/usecase"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/config"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/metrics"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/tracer"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"google.golang.org/grpc"
)

const serviceName = "advert-service"

func main() {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("INFO: .env file not found or error loading: %v. Relying on OS environment variables.\n", err)
	}

	// 1. Logger
	appLogger := logger.NewLogger()
	defer func() { _ = appLogger.Sync() }()
	appLogger.Info("Application starting...", zap.String("service_name", serviceName))

	// 2. Configuration
	cfg, err := config.LoadConfig(appLogger)
	if err != nil {
		appLogger.Fatal("Failed to load configuration", zap.Error(err))
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = serviceName
	}
	appLogger.Info("Configuration loaded successfully",
		zap.String("http_port", cfg.HTTPPort),
		zap.String("grpc_port", cfg.GRPCPort),
		zap.String("mongo_database", cfg.MongoDatabase),
		zap.Bool("redis_enabled", cfg.RedisAddress != ""),
		zap.Bool("nats_enabled", cfg.NATSURL != ""),
		zap.Duration("search_timeout", cfg.SearchTimeout),
	)

	// 3. Tracer
	tp, err := tracer.InitTracer(context.Background(), cfg.ServiceName, cfg.OTExporterOTLPEndpoint, appLogger)
	if err != nil {
		appLogger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			appLogger.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}()

	// 4. MongoDB
	mongoClient, err := mongoRepo.NewMongoDBConnection(context.Background(), cfg.MongoURI, cfg.MongoConnectTimeout)
	if err != nil {
		appLogger.Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		appLogger.Info("Disconnecting from MongoDB...")
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			appLogger.Error("Error disconnecting from MongoDB", zap.Error(err))
		}
	}()
	appLogger.Info("Successfully connected and pinged MongoDB.")
	db := mongoClient.Database(cfg.MongoDatabase)

	// 5. Metrics
	metricsManager := metrics.NewMetricsManager("advert_service")

	// 6. Category cache (optional)
	var categoryCache domain.CategoryTreeCache
	var treeCache *cache.CategoryTreeCache
	if cfg.RedisAddress != "" {
		redisClient, err := cache.NewRedisClient(context.Background(), cfg.RedisAddress, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisClient.Close()
		treeCache = cache.NewCategoryTreeCache(redisClient, cfg.CategoryCacheTTL)
		categoryCache = treeCache
		appLogger.Info("Category cache enabled", zap.String("address", cfg.RedisAddress), zap.Duration("ttl", cfg.CategoryCacheTTL))
	} else {
		appLogger.Info("Category cache disabled (REDIS_ADDRESS not set).")
	}

	// 7. Category events (only useful with a cache to invalidate)
	if cfg.NATSURL != "" && treeCache != nil {
		subscriber, err := natsAdapter.NewCategoryEventSubscriber(cfg.NATSURL, cfg.CategoryEventsSubject, treeCache, appLogger, cfg.ServiceName)
		if err != nil {
			appLogger.Fatal("Failed to initialize NATS subscriber", zap.Error(err))
		}
		defer subscriber.Close()
	} else {
		appLogger.Info("Category event subscriber not started.")
	}

	// 8. Repositories
	advertRepo := mongoRepo.NewAdvertSearchRepository(db, cfg.ReportHideThreshold, appLogger)
	categoryRepo := mongoRepo.NewCategoryRepository(db, appLogger)
	referenceRepo := mongoRepo.NewReferenceRepository(db, appLogger)

	// 9. Usecase
	resolver := search.NewCategoryResolver(categoryRepo, categoryCache, cfg.CategoryMaxDepth, metricsManager, appLogger)
	searchUsecase := usecase.NewSearchUsecase(advertRepo, categoryRepo, resolver, referenceRepo, cfg.SearchTimeout, metricsManager, appLogger)

	// 10. HTTP server
	router := httpAdapter.NewRouter(httpAdapter.NewHandler(searchUsecase, appLogger), appLogger)
	httpServer := httpAdapter.NewServer(cfg.HTTPPort, router)
	go func() {
		appLogger.Info("Starting HTTP server", zap.String("port", cfg.HTTPPort))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// 11. gRPC server
	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		appLogger.Fatal("Failed to listen for gRPC", zap.String("port", cfg.GRPCPort), zap.Error(err))
	}
	grpcSrv, stopGRPC := grpcAdapter.NewGRPCServer(appLogger, grpcAdapter.NewHandler(searchUsecase, appLogger))
	go func() {
		appLogger.Info("Starting gRPC server", zap.String("port", cfg.GRPCPort))
		if err := grpcSrv.Serve(lis); err != nil && !errors.Is(err, grpc.ErrServerStopped) {
			appLogger.Fatal("gRPC server Serve error", zap.Error(err))
		}
	}()

	// 12. Prometheus metrics server
	metricsServer := metrics.NewMetricsServer(cfg.PrometheusMetricsPort, appLogger, metricsManager.Registry)
	if metricsServer != nil {
		go func() {
			appLogger.Info("Starting Prometheus metrics server", zap.String("port", cfg.PrometheusMetricsPort))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				appLogger.Error("Prometheus metrics server failed", zap.Error(err))
			}
		}()
	} else {
		appLogger.Info("Prometheus metrics server not started (PROMETHEUS_METRICS_PORT not set).")
	}

	// 13. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	appLogger.Info("Received shutdown signal", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		appLogger.Error("HTTP server shutdown failed", zap.Error(err))
	}
	if metricsServer != nil {
		if err := metricsServer.Shutdown(ctx); err != nil {
			appLogger.Error("Metrics server shutdown failed", zap.Error(err))
		}
	}
	stopGRPC()

	appLogger.Info("Application shutting down...")
}
