package invoice

import (
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/render"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/repository"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice/service"
	"go.uber.org/fx"
)

var Module = fx.Module("invoice.service",
	fx.Provide(repository.NewRepository),
	fx.Provide(render.NewRenderer),
	fx.Provide(service.NewService),
)
