package emissionfactor

import (
	"github.com/smallbiznis/carbonledger/internal/emissionfactor/repository"
	"github.com/smallbiznis/carbonledger/internal/emissionfactor/service"
	"go.uber.org/fx"
)

var Module = fx.Module("emissionfactor",
	fx.Provide(repository.Provide),
	fx.Provide(service.NewService),
)
