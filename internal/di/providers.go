// Package di assembles the chat service from configuration.
package di

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/gorilla/mux"
	"github.com/jonboulle/clockwork"
	"gorm.io/gorm"

	"communitychat/internal/changefeed"
	"communitychat/internal/chat/handler"
	"communitychat/internal/chat/repository"
	"communitychat/internal/chat/service"
	"communitychat/internal/common"
	"communitychat/internal/config"
	"communitychat/internal/cron"
	"communitychat/internal/dbmongo"
	"communitychat/internal/dbmysql"
	"communitychat/internal/logging"
	"communitychat/internal/media"
	"communitychat/internal/ratelimit"
	"communitychat/internal/realtime"
	"communitychat/internal/verification"
)

// ChatService is everything cmd/chat-svc starts and stops.
type ChatService struct {
	Config  *config.Config
	Logger  *slog.Logger
	DB      *gorm.DB
	Tokens  *common.TokenManager
	Handler *handler.ChatHandler
	Router  *mux.Router
	Hub     *realtime.Hub
	Bus     *realtime.RedisBus
	Tailer  *changefeed.Tailer
	Limits  *ratelimit.Registry
	Janitor *cron.Janitor
}

var ErrMissingSecret = errors.New("JWT_SECRET is not set")

func ProvideLogger(cfg *config.Config) (*slog.Logger, func(), error) {
	logger, closer, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, nil, err
	}
	return logger, func() { _ = closer.Close() }, nil
}

func ProvideClock() clockwork.Clock {
	return clockwork.NewRealClock()
}

func ProvideDatabase(cfg *config.Config) (*gorm.DB, func(), error) {
	db, err := dbmysql.NewMySQL(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

func ProvideTokens(cfg *config.Config) (*common.TokenManager, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, ErrMissingSecret
	}
	return common.NewTokenManager(cfg.Auth.JWTSecret), nil
}

func ProvideChatConfig(cfg *config.Config) config.ChatConfig {
	return cfg.Chat
}

func ProvideLimits(cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) (*ratelimit.Registry, error) {
	return ratelimit.NewRegistry(cfg.RateLimits, clock, logger)
}

func ProvideRedis(cfg *config.Config) (*redis.Client, func(), error) {
	rdb, err := realtime.NewRedisClient(cfg.Redis.URL)
	if err != nil {
		return nil, nil, err
	}
	return rdb, func() { _ = rdb.Close() }, nil
}

func ProvideMongo(cfg *config.Config) (*dbmongo.MongoClient, func(), error) {
	mc, err := dbmongo.NewMongoConnection(cfg)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mc.Close(ctx)
	}
	return mc, cleanup, nil
}

// ProvideJanitor purges expired mutes and change rows older than the
// change feed retention.
func ProvideJanitor(changes repository.ChangeRepository, cfg *config.Config, clock clockwork.Clock, logger *slog.Logger) *cron.Janitor {
	return cron.NewJanitor(changes, cfg.Chat.JanitorInterval, cfg.Chat.ChangeFeedRetention, clock, logger)
}

func ProvideMediaServer(store media.ImageStore, svc service.ChatService, limits *ratelimit.Registry, cfg *config.Config, logger *slog.Logger) *media.HTTPServer {
	return media.NewHTTPServer(store, svc, limits, cfg.Server.MediaBaseURL, logger)
}

func ProvideGateway(hub *realtime.Hub, bus *realtime.RedisBus, svc service.ChatService, logger *slog.Logger) *realtime.Gateway {
	return realtime.NewGateway(hub, bus, svc, logger)
}

// ProvideCodeSender logs codes until an SMS gateway is configured.
func ProvideCodeSender(logger *slog.Logger) common.CodeSender {
	return verification.NewLogSender(logger)
}

func ProvideRouter(tokens *common.TokenManager, gw *realtime.Gateway, mediaServer *media.HTTPServer, verify *verification.Handler) *mux.Router {
	return handler.NewHTTPRouter(tokens, gw, mediaServer, verify)
}
