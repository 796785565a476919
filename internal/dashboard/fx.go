package dashboard

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/dashboard/service"
)

var Module = fx.Module("dashboard",
	fx.Provide(service.New),
)
