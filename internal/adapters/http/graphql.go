package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/graphql-go/graphql"

	"github.com/jfkcannabis/storefront/internal/core/domain"
)

// buildSchema creates the GraphQL schema wired to our services.
func buildSchema(deps *Dependencies) (graphql.Schema, error) {
	coordinateType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Coordinate",
		Fields: graphql.Fields{
			"latitude":  &graphql.Field{Type: graphql.Float},
			"longitude": &graphql.Field{Type: graphql.Float},
		},
	})

	zoneType := graphql.NewObject(graphql.ObjectConfig{
		Name: "DeliveryZone",
		Fields: graphql.Fields{
			"id":                      &graphql.Field{Type: graphql.String},
			"name":                    &graphql.Field{Type: graphql.String},
			"center":                  &graphql.Field{Type: coordinateType},
			"radius_miles":            &graphql.Field{Type: graphql.Float},
			"delivery_fee":            &graphql.Field{Type: graphql.Float},
			"min_free_delivery_order": &graphql.Field{Type: graphql.Float},
			"estimated_time_label":    &graphql.Field{Type: graphql.String},
		},
	})

	businessType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Business",
		Fields: graphql.Fields{
			"id":               &graphql.Field{Type: graphql.String},
			"name":             &graphql.Field{Type: graphql.String},
			"address":          &graphql.Field{Type: graphql.String},
			"type":             &graphql.Field{Type: graphql.String},
			"coordinate":       &graphql.Field{Type: coordinateType},
			"accepts_delivery": &graphql.Field{Type: graphql.Boolean},
			"image_url":        &graphql.Field{Type: graphql.String},
			"distance_miles":   &graphql.Field{Type: graphql.Float},
			"distance_label":   &graphql.Field{Type: graphql.String},
		},
	})

	contentType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Content",
		Fields: graphql.Fields{
			"id":            &graphql.Field{Type: graphql.String},
			"kind":          &graphql.Field{Type: graphql.String},
			"slug":          &graphql.Field{Type: graphql.String},
			"title":         &graphql.Field{Type: graphql.String},
			"body_markdown": &graphql.Field{Type: graphql.String},
			"body_html":     &graphql.Field{Type: graphql.String},
			"status":        &graphql.Field{Type: graphql.String},
			"published_at":  &graphql.Field{Type: graphql.DateTime},
			"created_at":    &graphql.Field{Type: graphql.DateTime},
			"updated_at":    &graphql.Field{Type: graphql.DateTime},
		},
	})

	pointArgs := graphql.FieldConfigArgument{
		"lat": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
		"lng": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.Float)},
	}
	pointFrom := func(p graphql.ResolveParams) (domain.Coordinate, error) {
		pt := domain.Coordinate{
			Latitude:  p.Args["lat"].(float64),
			Longitude: p.Args["lng"].(float64),
		}
		return pt, pt.Validate()
	}

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"zones": &graphql.Field{
				Type:        graphql.NewList(zoneType),
				Description: "Delivery zones in priority order",
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Delivery.Zones(p.Context)
				},
			},
			"zoneAt": &graphql.Field{
				Type:        zoneType,
				Description: "First zone containing a point, or null",
				Args:        pointArgs,
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt, err := pointFrom(p)
					if err != nil {
						return nil, err
					}
					zone, err := deps.Delivery.ZoneAt(p.Context, pt)
					if err != nil || zone == nil {
						return nil, err
					}
					return zone, nil
				},
			},
			"nearbyBusinesses": &graphql.Field{
				Type:        graphql.NewList(businessType),
				Description: "Partner businesses ranked by distance",
				Args: graphql.FieldConfigArgument{
					"lat":   pointArgs["lat"],
					"lng":   pointArgs["lng"],
					"limit": &graphql.ArgumentConfig{Type: graphql.Int, DefaultValue: 10},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					pt, err := pointFrom(p)
					if err != nil {
						return nil, err
					}
					ranked, err := deps.Businesses.Nearby(p.Context, pt, p.Args["limit"].(int))
					if err != nil {
						return nil, err
					}
					// graphql-go does not resolve promoted fields of embedded structs
					result := make([]map[string]interface{}, 0, len(ranked))
					for _, r := range ranked {
						result = append(result, map[string]interface{}{
							"id":               r.ID,
							"name":             r.Name,
							"address":          r.Address,
							"type":             string(r.Type),
							"coordinate":       r.Coordinate,
							"accepts_delivery": r.AcceptsDelivery,
							"image_url":        r.ImageURL,
							"distance_miles":   r.DistanceMiles,
							"distance_label":   r.DistanceLabel(),
						})
					}
					return result, nil
				},
			},
			"renderMarkdown": &graphql.Field{
				Type:        graphql.String,
				Description: "Render markdown to sanitized HTML",
				Args: graphql.FieldConfigArgument{
					"markdown": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Content.Preview("graphql", p.Args["markdown"].(string)), nil
				},
			},
			"content": &graphql.Field{
				Type:        contentType,
				Description: "Content document by slug",
				Args: graphql.FieldConfigArgument{
					"slug": &graphql.ArgumentConfig{Type: graphql.NewNonNull(graphql.String)},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Content.Get(p.Context, p.Args["slug"].(string))
				},
			},
			"contents": &graphql.Field{
				Type:        graphql.NewList(contentType),
				Description: "Content documents, newest first",
				Args: graphql.FieldConfigArgument{
					"kind": &graphql.ArgumentConfig{Type: graphql.String, DefaultValue: ""},
				},
				Resolve: func(p graphql.ResolveParams) (interface{}, error) {
					return deps.Content.List(p.Context, domain.ContentKind(p.Args["kind"].(string)))
				},
			},
		},
	})

	return graphql.NewSchema(graphql.SchemaConfig{
		Query: queryType,
	})
}

// GraphQLHandler serves the GraphQL endpoint.
func GraphQLHandler(deps *Dependencies) fiber.Handler {
	schema, err := buildSchema(deps)
	if err != nil {
		// This would be a programming error in the schema definition
		panic("graphql schema build: " + err.Error())
	}

	type gqlRequest struct {
		Query         string                 `json:"query"`
		OperationName string                 `json:"operationName"`
		Variables     map[string]interface{} `json:"variables"`
	}

	return func(c *fiber.Ctx) error {
		var req gqlRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Query == "" {
			return errBadRequest(c, "query is required")
		}

		result := graphql.Do(graphql.Params{
			Schema:         schema,
			RequestString:  req.Query,
			VariableValues: req.Variables,
			OperationName:  req.OperationName,
			Context:        c.UserContext(),
		})

		return c.JSON(result)
	}
}
