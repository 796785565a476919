package main

import (
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"

	"github.com/foundrylabs/venturedash/internal/clock"
	"github.com/foundrylabs/venturedash/internal/config"
	"github.com/foundrylabs/venturedash/internal/migration"
	"github.com/foundrylabs/venturedash/internal/observability"
	"github.com/foundrylabs/venturedash/internal/scheduler"
	"github.com/foundrylabs/venturedash/internal/server"
	"github.com/foundrylabs/venturedash/pkg/db"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,

		server.Module,
		scheduler.Module,
	)

	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
