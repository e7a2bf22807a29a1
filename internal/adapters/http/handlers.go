package http

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// queryPoint reads lat/lng query parameters. Both are required and must
// parse as numbers; 0 is a valid value. A non-empty problem means the
// request is invalid.
func queryPoint(c *fiber.Ctx) (p domain.Coordinate, problem string) {
	latStr, lngStr := c.Query("lat"), c.Query("lng")
	if latStr == "" || lngStr == "" {
		return p, "lat and lng are required"
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return p, "lat must be a number"
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return p, "lng must be a number"
	}
	p = domain.Coordinate{Latitude: lat, Longitude: lng}
	if err := p.Validate(); err != nil {
		return p, err.Error()
	}
	return p, ""
}

// ListZonesHandler returns the configured delivery zones in priority order.
func ListZonesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		zones, err := deps.Delivery.Zones(c.UserContext())
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Cache-Control", "public, max-age=3600")
		return c.JSON(zones)
	}
}

// ZoneLookupHandler returns the zone containing lat/lng.
func ZoneLookupHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, problem := queryPoint(c)
		if problem != "" {
			return errBadRequest(c, problem)
		}
		zone, err := deps.Delivery.ZoneAt(c.UserContext(), p)
		if err != nil {
			return errFromDomain(c, err)
		}
		if zone == nil {
			return errNotFound(c, "location is outside all delivery zones")
		}
		return c.JSON(zone)
	}
}

// DeliveryCheckHandler quotes delivery for an address or point.
func DeliveryCheckHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		problems, err := validateBody(deliveryCheckSchema, body)
		if err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(problems) > 0 {
			return errBadRequest(c, "invalid delivery check", problems...)
		}

		var req domain.DeliveryCheckRequest
		if err := json.Unmarshal(body, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		req.Address = strings.TrimSpace(req.Address)

		quote, err := deps.Delivery.Check(c.UserContext(), req)
		if err != nil {
			return errFromDomain(c, err)
		}
		c.Set("Cache-Control", "no-store")
		return c.JSON(quote)
	}
}

// businessView adds the display label to a ranked business.
type businessView struct {
	domain.RankedBusiness
	DistanceLabel string `json:"distance_label"`
}

// NearbyBusinessesHandler returns partner businesses ranked by distance.
func NearbyBusinessesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, problem := queryPoint(c)
		if problem != "" {
			return errBadRequest(c, problem)
		}
		limit := c.QueryInt("limit", 10)
		if limit <= 0 || limit > 50 {
			return errBadRequest(c, "limit must be between 1 and 50")
		}

		ranked, err := deps.Businesses.Nearby(c.UserContext(), p, limit)
		if err != nil {
			return errFromDomain(c, err)
		}

		out := make([]businessView, 0, len(ranked))
		for _, r := range ranked {
			out = append(out, businessView{RankedBusiness: r, DistanceLabel: r.DistanceLabel()})
		}
		c.Set("Cache-Control", "public, max-age=300")
		return c.JSON(out)
	}
}

// MarkdownPreviewHandler renders markdown without storing it.
func MarkdownPreviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		problems, err := validateBody(markdownPreviewSchema, body)
		if err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(problems) > 0 {
			return errBadRequest(c, "invalid preview request", problems...)
		}

		var req struct {
			Markdown string `json:"markdown"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		return c.JSON(fiber.Map{"html": deps.Content.Preview("http", req.Markdown)})
	}
}

// ListContentHandler returns content documents, optionally filtered by kind.
func ListContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		docs, err := deps.Content.List(c.UserContext(), domain.ContentKind(c.Query("kind")))
		if err != nil {
			return errFromDomain(c, err)
		}

		resp := page(docs, pageParams(c))
		SetLinkHeaders(c, resp.Pagination)
		return c.JSON(resp)
	}
}

// GetContentHandler returns one document by slug.
func GetContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := deps.Content.Get(c.UserContext(), c.Params("slug"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(doc)
	}
}

// SaveContentHandler creates a document, or updates it when the body carries an id.
func SaveContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		problems, err := validateBody(contentSchema, body)
		if err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if len(problems) > 0 {
			return errBadRequest(c, "invalid content document", problems...)
		}

		var doc domain.ContentDocument
		if err := json.Unmarshal(body, &doc); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		creating := doc.ID == ""

		saved, err := deps.Content.Save(c.UserContext(), &doc)
		if err != nil {
			return errFromDomain(c, err)
		}
		if creating {
			c.Location("/v1/content/" + saved.Slug)
			return c.Status(201).JSON(saved)
		}
		return c.JSON(saved)
	}
}

// PublishContentHandler publishes a document. With a workflow publisher the
// pipeline runs asynchronously and the response is 202.
func PublishContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if deps.Publisher == nil {
			doc, err := deps.Content.Publish(c.UserContext(), id)
			if err != nil {
				return errFromDomain(c, err)
			}
			return c.JSON(doc)
		}

		if _, err := deps.Content.GetByID(c.UserContext(), id); err != nil {
			return errFromDomain(c, err)
		}
		runID, err := deps.Publisher.StartPublish(c.UserContext(), id)
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.Status(202).JSON(fiber.Map{
			"content_id": id,
			"run_id":     runID,
			"status":     "publishing",
		})
	}
}

// UnpublishContentHandler moves a document back to draft.
func UnpublishContentHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		doc, err := deps.Content.Unpublish(c.UserContext(), c.Params("id"))
		if err != nil {
			return errFromDomain(c, err)
		}
		return c.JSON(doc)
	}
}
