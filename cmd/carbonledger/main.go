package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/carbonledger/internal/cache"
	"github.com/smallbiznis/carbonledger/internal/calculation"
	"github.com/smallbiznis/carbonledger/internal/config"
	"github.com/smallbiznis/carbonledger/internal/emissionfactor"
	"github.com/smallbiznis/carbonledger/internal/migration"
	"github.com/smallbiznis/carbonledger/internal/observability"
	"github.com/smallbiznis/carbonledger/internal/providers"
	"github.com/smallbiznis/carbonledger/internal/ratelimit"
	"github.com/smallbiznis/carbonledger/internal/reference"
	"github.com/smallbiznis/carbonledger/internal/server"
	"github.com/smallbiznis/carbonledger/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		fx.Provide(config.Load),
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		cache.Module,
		emissionfactor.Module,
		calculation.Module,
		reference.Module,
		ratelimit.Module,
		providers.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
