package http

import (
	"github.com/nats-io/nats.go"

	"github.com/jfkcannabis/storefront/internal/adapters/postgres"
	"github.com/jfkcannabis/storefront/internal/adapters/valkey"
	"github.com/jfkcannabis/storefront/internal/core/ports"
	"github.com/jfkcannabis/storefront/internal/core/usecases"
)

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Delivery    *usecases.DeliveryService
	Businesses  *usecases.BusinessService
	Content     *usecases.ContentService
	// Publisher runs publishing through the workflow engine; nil publishes inline.
	Publisher   ports.ContentPublisher
	NATS        *nats.Conn
	DB          *postgres.DB
	Cache       *valkey.Cache
	// CORSOrigins is a comma-separated allow list; empty disables CORS.
	CORSOrigins string
}
