package subscription

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/subscription/repository"
	"github.com/foundrylabs/venturedash/internal/subscription/service"
)

var Module = fx.Module("subscription",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
