// Package zones serves delivery zones loaded from configuration.
package zones

import (
	"context"
	"errors"
	"fmt"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// Repo implements ports.ZoneRepository over a fixed, ordered zone list.
type Repo struct {
	zones []domain.DeliveryZone
}

// New validates zones and returns a Repo serving them in the given order.
func New(zones []domain.DeliveryZone) (*Repo, error) {
	var errs []error
	seen := make(map[string]bool, len(zones))
	for i, z := range zones {
		if z.ID == "" {
			errs = append(errs, fmt.Errorf("zone %d: id is required", i))
		} else if seen[z.ID] {
			errs = append(errs, fmt.Errorf("zone %d: duplicate id %q", i, z.ID))
		}
		seen[z.ID] = true
		if err := z.Center.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("zone %q: %w", z.ID, err))
		}
		if z.RadiusMiles <= 0 {
			errs = append(errs, fmt.Errorf("zone %q: radius must be positive", z.ID))
		}
		if z.DeliveryFee < 0 || z.MinFreeDeliveryOrder < 0 {
			errs = append(errs, fmt.Errorf("zone %q: fees must not be negative", z.ID))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	cp := make([]domain.DeliveryZone, len(zones))
	copy(cp, zones)
	return &Repo{zones: cp}, nil
}

// List returns a copy of the zones.
func (r *Repo) List(ctx context.Context) ([]domain.DeliveryZone, error) {
	out := make([]domain.DeliveryZone, len(r.zones))
	copy(out, r.zones)
	return out, nil
}
