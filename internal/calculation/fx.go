package calculation

import (
	"github.com/smallbiznis/carbonledger/internal/calculation/resolver"
	"github.com/smallbiznis/carbonledger/internal/calculation/service"
	"go.uber.org/fx"
)

var Module = fx.Module("calculation",
	fx.Provide(resolver.NewConfigHolder),
	fx.Provide(resolver.New),
	fx.Provide(service.NewService),
)
