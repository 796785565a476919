package revenue

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/revenue/repository"
	"github.com/foundrylabs/venturedash/internal/revenue/service"
)

var Module = fx.Module("revenue",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
