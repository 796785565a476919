package activity

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/activity/repository"
	"github.com/foundrylabs/venturedash/internal/activity/service"
)

var Module = fx.Module("activity",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
