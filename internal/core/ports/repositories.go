package ports

import (
	"context"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// ZoneRepository provides the configured delivery zones, in configuration order.
type ZoneRepository interface {
	List(ctx context.Context) ([]domain.DeliveryZone, error)
}

// BusinessRepository persists the partner business directory.
type BusinessRepository interface {
	Upsert(ctx context.Context, b *domain.BusinessLocation) error
	UpsertBatch(ctx context.Context, bs []domain.BusinessLocation) error
	GetByID(ctx context.Context, id string) (*domain.BusinessLocation, error)
}

// ContentRepository persists content documents.
type ContentRepository interface {
	Create(ctx context.Context, doc *domain.ContentDocument) error
	Update(ctx context.Context, doc *domain.ContentDocument) error
	GetByID(ctx context.Context, id string) (*domain.ContentDocument, error)
	GetBySlug(ctx context.Context, slug string) (*domain.ContentDocument, error)
	List(ctx context.Context, kind domain.ContentKind) ([]domain.ContentDocument, error)
	SetStatus(ctx context.Context, id string, status domain.ContentStatus) (*domain.ContentDocument, error)
}
