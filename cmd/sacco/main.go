package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/kilimo-labs/sacco/internal/clock"
	"github.com/kilimo-labs/sacco/internal/config"
	"github.com/kilimo-labs/sacco/internal/logger"
	"github.com/kilimo-labs/sacco/internal/migration"
	"github.com/kilimo-labs/sacco/internal/scheduler"
	"github.com/kilimo-labs/sacco/internal/server"
	"github.com/kilimo-labs/sacco/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		server.Module,
		scheduler.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
