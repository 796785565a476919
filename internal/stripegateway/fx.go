package stripegateway

import "go.uber.org/fx"

var Module = fx.Module("stripegateway",
	fx.Provide(New),
)
