package signup

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/signup/repository"
	"github.com/foundrylabs/venturedash/internal/signup/service"
)

var Module = fx.Module("signup",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
