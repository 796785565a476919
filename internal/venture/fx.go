package venture

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/venture/repository"
	"github.com/foundrylabs/venturedash/internal/venture/service"
)

var Module = fx.Module("venture",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
