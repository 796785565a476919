package price

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/price/repository"
	"github.com/foundrylabs/venturedash/internal/price/service"
)

var Module = fx.Module("price",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
