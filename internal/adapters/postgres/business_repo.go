package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

const metersPerMile = 1609.344

// BusinessRepo implements ports.BusinessRepository and ports.PlacesProvider with pgx.
type BusinessRepo struct {
	db *DB
}

// NewBusinessRepo creates a new BusinessRepo.
func NewBusinessRepo(db *DB) *BusinessRepo {
	return &BusinessRepo{db: db}
}

const upsertBusinessSQL = `
	INSERT INTO businesses (id, name, address, type, location, accepts_delivery, image_url)
	VALUES ($1, $2, $3, $4, ST_SetSRID(ST_MakePoint($5, $6), 4326)::geography, $7, NULLIF($8, ''))
	ON CONFLICT (id) DO UPDATE
	SET name = EXCLUDED.name, address = EXCLUDED.address, type = EXCLUDED.type,
	    location = EXCLUDED.location, accepts_delivery = EXCLUDED.accepts_delivery,
	    image_url = EXCLUDED.image_url, updated_at = now()
`

// Upsert inserts or updates a single business.
func (r *BusinessRepo) Upsert(ctx context.Context, b *domain.BusinessLocation) error {
	_, err := r.db.Pool.Exec(ctx, upsertBusinessSQL,
		b.ID, b.Name, b.Address, string(b.Type),
		b.Coordinate.Longitude, b.Coordinate.Latitude,
		b.AcceptsDelivery, b.ImageURL)
	return mapErr(err)
}

// UpsertBatch inserts many businesses using pgx.Batch.
func (r *BusinessRepo) UpsertBatch(ctx context.Context, bs []domain.BusinessLocation) error {
	if len(bs) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for _, b := range bs {
		batch.Queue(upsertBusinessSQL,
			b.ID, b.Name, b.Address, string(b.Type),
			b.Coordinate.Longitude, b.Coordinate.Latitude,
			b.AcceptsDelivery, b.ImageURL)
	}
	br := r.db.Pool.SendBatch(ctx, batch)
	defer br.Close()
	for range bs {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("batch exec: %w", mapErr(err))
		}
	}
	return nil
}

// GetByID returns a business by ID.
func (r *BusinessRepo) GetByID(ctx context.Context, id string) (*domain.BusinessLocation, error) {
	var b domain.BusinessLocation
	var typ string
	err := r.db.Pool.QueryRow(ctx, `
		SELECT id, name, address, type,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lon,
		       accepts_delivery, COALESCE(image_url, '')
		FROM businesses WHERE id = $1
	`, id).Scan(
		&b.ID, &b.Name, &b.Address, &typ,
		&b.Coordinate.Latitude, &b.Coordinate.Longitude,
		&b.AcceptsDelivery, &b.ImageURL,
	)
	if err != nil {
		return nil, mapErr(err)
	}
	b.Type = domain.BusinessType(typ)
	return &b, nil
}

// Nearby returns businesses within radiusMiles using PostGIS ST_DWithin,
// nearest first.
func (r *BusinessRepo) Nearby(ctx context.Context, point domain.Coordinate, radiusMiles float64, limit int) ([]domain.BusinessLocation, error) {
	rows, err := r.db.Pool.Query(ctx, `
		SELECT id, name, address, type,
		       ST_Y(location::geometry) AS lat,
		       ST_X(location::geometry) AS lon,
		       accepts_delivery, COALESCE(image_url, '')
		FROM businesses
		WHERE ST_DWithin(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography, $3)
		ORDER BY ST_Distance(location, ST_SetSRID(ST_MakePoint($1, $2), 4326)::geography), id
		LIMIT $4
	`, point.Longitude, point.Latitude, radiusMiles*metersPerMile, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.BusinessLocation, 0)
	for rows.Next() {
		var b domain.BusinessLocation
		var typ string
		if err := rows.Scan(
			&b.ID, &b.Name, &b.Address, &typ,
			&b.Coordinate.Latitude, &b.Coordinate.Longitude,
			&b.AcceptsDelivery, &b.ImageURL,
		); err != nil {
			return nil, err
		}
		b.Type = domain.BusinessType(typ)
		out = append(out, b)
	}
	return out, rows.Err()
}
