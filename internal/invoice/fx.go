package invoice

import (
	"github.com/kilimo-labs/sacco/internal/invoice/repository"
	"github.com/kilimo-labs/sacco/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
