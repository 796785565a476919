package stripewebhook

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/stripewebhook/service"
)

var Module = fx.Module("stripewebhook",
	fx.Provide(service.New),
)
