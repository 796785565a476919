package tracking

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/tracking/service"
)

var Module = fx.Module("tracking",
	fx.Provide(service.New),
)
