package providers

import (
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/email"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers/pdf"
	"go.uber.org/fx"
)

var Module = fx.Module("providers",
	email.Module,
	pdf.Module,
)
