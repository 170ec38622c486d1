package http

import (
	"github.com/nats-io/nats.go"
	"github.com/shopwindow/shopwindow/internal/adapters/postgres"
	"github.com/shopwindow/shopwindow/internal/adapters/valkey"
	"github.com/shopwindow/shopwindow/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Centers *usecases.CenterService
	Tenants *usecases.TenantService
	Stats   *usecases.StatsService
	NATS    *nats.Conn
	DB      *postgres.DB
	Cache   *valkey.Cache
}
