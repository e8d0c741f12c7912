//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"communitychat/internal/changefeed"
	"communitychat/internal/chat/handler"
	"communitychat/internal/chat/repository"
	"communitychat/internal/chat/service"
	"communitychat/internal/config"
	"communitychat/internal/dbmongo"
	"communitychat/internal/media"
	"communitychat/internal/realtime"
	"communitychat/internal/verification"
)

// InitializeChatService is a declaration; wire generates the body.
func InitializeChatService(cfg *config.Config) (*ChatService, func(), error) {
	wire.Build(
		ProvideLogger,
		ProvideClock,
		ProvideDatabase,
		ProvideTokens,
		ProvideChatConfig,
		ProvideLimits,
		ProvideRedis,
		ProvideMongo,
		repository.NewChatRepository,
		repository.NewChangeRepository,
		realtime.NewHub,
		realtime.NewRedisBus,
		wire.Bind(new(realtime.Publisher), new(*realtime.RedisBus)),
		realtime.NewBroadcaster,
		wire.Bind(new(service.Broadcaster), new(*realtime.Broadcaster)),
		service.NewChatService,
		handler.NewChatHandler,
		wire.Bind(new(changefeed.Sink), new(*realtime.Hub)),
		changefeed.NewTailer,
		ProvideJanitor,
		dbmongo.NewMediaStorage,
		wire.Bind(new(media.ImageStore), new(*dbmongo.MediaStorage)),
		ProvideMediaServer,
		ProvideGateway,
		verification.NewRepository,
		ProvideCodeSender,
		verification.NewService,
		verification.NewHandler,
		ProvideRouter,
		wire.Struct(new(ChatService), "*"),
	)
	return nil, nil, nil
}
