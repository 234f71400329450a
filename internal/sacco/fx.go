package sacco

import (
	"github.com/kilimo-labs/sacco/internal/sacco/repository"
	"github.com/kilimo-labs/sacco/internal/sacco/service"
	"go.uber.org/fx"
)

var Module = fx.Module("sacco.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
