package grpc

import (
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/adapter/grpc/middleware"
	"github.com/Abdurahmanit/GroupProject/advert-service/internal/platform/logger"
	"go.opentelemetry.io/contrib/instrumentation/google.golang.org/grpc/otelgrpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"
)

// NewGRPCServer builds the server with the search service, health and
// reflection registered. The returned cleanup marks the service not serving
// and stops gracefully.
func NewGRPCServer(appLogger *logger.Logger, handler AdvertSearchServer) (*grpc.Server, func()) {
	server := grpc.NewServer(
		grpc.StatsHandler(otelgrpc.NewServerHandler()),
		grpc.ChainUnaryInterceptor(
			middleware.RecoveryInterceptor(appLogger),
			middleware.LoggingInterceptor(appLogger),
		),
	)

	RegisterAdvertSearchServer(server, handler)

	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(server, healthServer)
	healthServer.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)

	reflection.Register(server)

	appLogger.Info("gRPC server configured with interceptors: Recovery, Logging; stats handler: otelgrpc")

	cleanup := func() {
		appLogger.Info("Calling gRPC server's GracefulStop...")
		healthServer.Shutdown()
		server.GracefulStop()
		appLogger.Info("gRPC server GracefulStop completed.")
	}
	return server, cleanup
}
