package domain

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned by repositories when a record does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCoordinate marks a latitude/longitude outside the valid range.
	ErrInvalidCoordinate = errors.New("invalid coordinate")
	// ErrInvalidContent marks a content document that failed validation.
	ErrInvalidContent = errors.New("invalid content")
	// ErrAddressNotFound is returned by geocoders that cannot resolve an address.
	ErrAddressNotFound = errors.New("address not found")
	// ErrMissingLocation is returned when a delivery check has neither address nor point.
	ErrMissingLocation = errors.New("address or point is required")
	// ErrConflict is returned by repositories on a unique constraint violation.
	ErrConflict = errors.New("conflict")
)

// DeliveryCheckRequest asks whether a location can be delivered to.
// Either Address or Point must be set; Point wins when both are.
type DeliveryCheckRequest struct {
	Address    string      `json:"address,omitempty"`
	Point      *Coordinate `json:"point,omitempty"`
	OrderTotal float64     `json:"order_total"`
}

// DeliveryQuote is the outcome of a delivery check.
type DeliveryQuote struct {
	Point                Coordinate    `json:"point"`
	Zone                 *DeliveryZone `json:"zone,omitempty"`
	Deliverable          bool          `json:"deliverable"`
	DistanceMiles        float64       `json:"distance_miles"` // to zone center
	DeliveryFee          float64       `json:"delivery_fee"`
	FreeDelivery         bool          `json:"free_delivery"`
	AmountToFreeDelivery float64       `json:"amount_to_free_delivery"`
	EstimatedTime        string        `json:"estimated_time,omitempty"`
}

// DeliveryCheckedEvent is published after every delivery check.
type DeliveryCheckedEvent struct {
	Time        time.Time  `json:"time"`
	Point       Coordinate `json:"point"`
	ZoneID      string     `json:"zone_id,omitempty"`
	Deliverable bool       `json:"deliverable"`
	OrderTotal  float64    `json:"order_total"`
}

// ContentKind is the kind of a managed content document.
type ContentKind string

const (
	ContentPage   ContentKind = "page"
	ContentPost   ContentKind = "post"
	ContentBanner ContentKind = "banner"
)

// Valid reports whether k is a known kind.
func (k ContentKind) Valid() bool {
	switch k {
	case ContentPage, ContentPost, ContentBanner:
		return true
	}
	return false
}

// ContentStatus is the publication state of a document.
type ContentStatus string

const (
	StatusDraft     ContentStatus = "draft"
	StatusPublished ContentStatus = "published"
)

// ContentDocument is a page, blog post or banner authored in markdown.
type ContentDocument struct {
	ID           string        `json:"id"`
	Kind         ContentKind   `json:"kind"`
	Slug         string        `json:"slug"`
	Title        string        `json:"title"`
	BodyMarkdown string        `json:"body_markdown"`
	BodyHTML     string        `json:"body_html"`
	Status       ContentStatus `json:"status"`
	PublishedAt  *time.Time    `json:"published_at,omitempty"`
	CreatedAt    time.Time     `json:"created_at"`
	UpdatedAt    time.Time     `json:"updated_at"`
}

// ContentEvent is published when a document changes publication state.
type ContentEvent struct {
	Time   time.Time     `json:"time"`
	ID     string        `json:"id"`
	Slug   string        `json:"slug"`
	Kind   ContentKind   `json:"kind"`
	Status ContentStatus `json:"status"`
}
