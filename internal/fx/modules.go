package fx

import (
	"github.com/itsvladii/owcs-nexus-sub000/internal/api"
	"github.com/itsvladii/owcs-nexus-sub000/internal/config"
	"github.com/itsvladii/owcs-nexus-sub000/internal/database"
	"github.com/itsvladii/owcs-nexus-sub000/internal/logger"
	"github.com/itsvladii/owcs-nexus-sub000/internal/rating"
	"github.com/itsvladii/owcs-nexus-sub000/internal/repository"
	"github.com/itsvladii/owcs-nexus-sub000/internal/server"
	"github.com/itsvladii/owcs-nexus-sub000/internal/service"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// rating engine
	fx.Provide(rating.DefaultConfig),
	fx.Provide(rating.NewEngine),
	fx.Provide(rating.NewMarketMapper),
	// repos
	fx.Provide(repository.NewMatchRepository),
	fx.Provide(repository.NewRankingRepository),
	// api client
	fx.Provide(api.NewFeedClient),
	// svc
	fx.Provide(service.NewRankingService),
	fx.Provide(service.NewMarketService),
	// server
	fx.Provide(server.NewNexusServer),
)
