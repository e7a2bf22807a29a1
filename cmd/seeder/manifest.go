package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/gosimple/slug"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// Manifest lists partner directories to load, grouped by where they came from.
type Manifest struct {
	Sources []Source `json:"sources"`
}

// Source is one partner list, e.g. a hotel group or a local business association.
type Source struct {
	Name       string          `json:"name"`
	Businesses []BusinessEntry `json:"businesses"`
}

type BusinessEntry struct {
	ID              string  `json:"id,omitempty"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Type            string  `json:"type"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	AcceptsDelivery bool    `json:"accepts_delivery"`
	ImageURL        string  `json:"image_url,omitempty"`
}

var businessTypes = map[domain.BusinessType]bool{
	domain.BusinessHotel:     true,
	domain.BusinessCafe:      true,
	domain.BusinessLounge:    true,
	domain.BusinessGym:       true,
	domain.BusinessSmokeShop: true,
}

func loadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	return &m, nil
}

// toDomain validates an entry. Entries without an id get "biz-<slug of name>".
func (e BusinessEntry) toDomain() (domain.BusinessLocation, error) {
	name := strings.TrimSpace(e.Name)
	if name == "" {
		return domain.BusinessLocation{}, fmt.Errorf("business without name")
	}

	id := strings.TrimSpace(e.ID)
	if id == "" {
		id = "biz-" + slug.Make(name)
	}

	t := domain.BusinessType(strings.ToLower(strings.TrimSpace(e.Type)))
	if !businessTypes[t] {
		return domain.BusinessLocation{}, fmt.Errorf("%s: unknown type %q", id, e.Type)
	}

	coord := domain.Coordinate{Latitude: e.Latitude, Longitude: e.Longitude}
	if err := coord.Validate(); err != nil {
		return domain.BusinessLocation{}, fmt.Errorf("%s: %w", id, err)
	}
	if coord.Latitude == 0 && coord.Longitude == 0 {
		return domain.BusinessLocation{}, fmt.Errorf("%s: missing coordinates", id)
	}

	return domain.BusinessLocation{
		ID:              id,
		Name:            name,
		Address:         strings.TrimSpace(e.Address),
		Type:            t,
		Coordinate:      coord,
		AcceptsDelivery: e.AcceptsDelivery,
		ImageURL:        strings.TrimSpace(e.ImageURL),
	}, nil
}

// businesses converts every entry of the source. Invalid entries are
// returned as errors and skipped; duplicate ids keep the last entry.
func (s Source) businesses() ([]domain.BusinessLocation, []error) {
	var (
		out  []domain.BusinessLocation
		errs []error
		seen = map[string]int{}
	)
	for _, e := range s.Businesses {
		b, err := e.toDomain()
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if i, ok := seen[b.ID]; ok {
			out[i] = b
			continue
		}
		seen[b.ID] = len(out)
		out = append(out, b)
	}
	return out, errs
}
