package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/uemoa-invoicer/internal/clock"
	"github.com/smallbiznis/uemoa-invoicer/internal/config"
	"github.com/smallbiznis/uemoa-invoicer/internal/customer"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoice"
	"github.com/smallbiznis/uemoa-invoicer/internal/invoicetemplate"
	"github.com/smallbiznis/uemoa-invoicer/internal/migration"
	"github.com/smallbiznis/uemoa-invoicer/internal/observability"
	"github.com/smallbiznis/uemoa-invoicer/internal/organization"
	"github.com/smallbiznis/uemoa-invoicer/internal/providers"
	"github.com/smallbiznis/uemoa-invoicer/internal/ratelimit"
	"github.com/smallbiznis/uemoa-invoicer/internal/server"
	"github.com/smallbiznis/uemoa-invoicer/internal/tax"
	"github.com/smallbiznis/uemoa-invoicer/internal/tenant"
	"github.com/smallbiznis/uemoa-invoicer/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		ratelimit.Module,
		providers.Module,

		// Functional Domains
		organization.Module,
		tenant.Module,
		customer.Module,
		tax.Module,
		invoicetemplate.Module,
		invoice.Module,

		server.Module,
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
