package invoicetemplate

import (
	"github.com/smallbiznis/uemoa-invoicer/internal/invoicetemplate/repository"
	"go.uber.org/fx"
)

var Module = fx.Module("invoicetemplate.repository",
	fx.Provide(repository.Provide),
)
