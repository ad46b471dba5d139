package pdf

import (
	"context"
	"time"

	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("providers.pdf",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) Provider {
	if cfg.PDF.Engine != config.PDFEngineChromium {
		return NewMaroto()
	}

	p := NewChromium(ChromiumConfig{
		RemoteURL: cfg.PDF.ChromeRemoteURL,
		NoSandbox: cfg.PDF.ChromeNoSandbox,
		Timeout:   time.Duration(cfg.PDF.TimeoutSeconds) * time.Second,
	}, log)
	lc.Append(fx.Hook{
		OnStop: func(context.Context) error {
			return p.Close()
		},
	})
	return p
}
