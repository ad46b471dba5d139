package organization

import (
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/repository"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization/service"
	"go.uber.org/fx"
)

var Module = fx.Module("organization.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(service.NewService),
)
