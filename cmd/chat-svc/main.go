package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/reflection"

	"communitychat/internal/chat/api"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/di"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Chat Service failed: %v", err)
	}
}

func run() error {
	cfg := config.LoadConfig()

	app, cleanup, err := di.InitializeChatService(cfg)
	if err != nil {
		return fmt.Errorf("initialize chat service: %w", err)
	}
	defer cleanup()
	logger := app.Logger

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app.Limits.StartAll()
	defer app.Limits.StopAll()

	go func() {
		if err := app.Bus.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("[BUS] subscriber stopped", "error", err)
		}
	}()

	if err := app.Tailer.Start(ctx); err != nil {
		return fmt.Errorf("start change feed: %w", err)
	}
	defer app.Tailer.Shutdown()

	if err := app.Janitor.Start(); err != nil {
		return fmt.Errorf("start janitor: %w", err)
	}
	defer app.Janitor.Stop()

	grpcServer := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			loggingUnaryInterceptor(logger),
			common.AuthInterceptor(app.Tokens),
		),
	)
	api.RegisterChatServiceServer(grpcServer, app.Handler)
	healthServer := health.NewServer()
	healthpb.RegisterHealthServer(grpcServer, healthServer)
	reflection.Register(grpcServer)

	lis, err := net.Listen("tcp", ":"+cfg.Server.ChatServicePort)
	if err != nil {
		return fmt.Errorf("listen on port %s: %w", cfg.Server.ChatServicePort, err)
	}

	httpServer := &http.Server{
		Addr:         ":" + cfg.Server.HTTPPort,
		Handler:      app.Router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("Chat Service running", "grpc_port", cfg.Server.ChatServicePort)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Error("gRPC server stopped", "error", err)
			stop()
		}
	}()
	go func() {
		logger.Info("HTTP gateway running", "http_port", cfg.Server.HTTPPort)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	logger.Info("Shutting down Chat Service...")
	healthServer.Shutdown()
	app.Hub.Close()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warn("HTTP shutdown incomplete", "error", err)
	}
	grpcServer.GracefulStop()
	logger.Info("Chat Service stopped")
	return nil
}

func loggingUnaryInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		resp, err := handler(ctx, req)
		duration := time.Since(start)

		if err != nil {
			logger.Warn("rpc failed", "method", info.FullMethod, "duration", duration, "error", err)
		} else {
			logger.Debug("rpc completed", "method", info.FullMethod, "duration", duration)
		}
		return resp, err
	}
}
