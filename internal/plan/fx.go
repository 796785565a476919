package plan

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/plan/repository"
	"github.com/foundrylabs/venturedash/internal/plan/service"
)

var Module = fx.Module("plan",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
