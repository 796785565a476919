package portfolio

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/portfolio/service"
)

var Module = fx.Module("portfolio",
	fx.Provide(service.New),
)
