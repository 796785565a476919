package stripesync

import (
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/stripesync/service"
)

var Module = fx.Module("stripesync",
	fx.Provide(service.New),
)
