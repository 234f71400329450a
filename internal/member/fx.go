package member

import (
	"github.com/kilimo-labs/sacco/internal/member/repository"
	"github.com/kilimo-labs/sacco/internal/member/service"
	"go.uber.org/fx"
)

var Module = fx.Module("member.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
