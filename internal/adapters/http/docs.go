package http

import (
	"context"
	"log/slog"
	"os"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"
)

const openAPIPath = "api/openapi.yaml"

const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>JFK Cannabis Storefront API | Swagger UI</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    SwaggerUIBundle({ url: '/docs/openapi.json', dom_id: '#swagger-ui', deepLinking: true });
  </script>
</body>
</html>`

// apiDoc is the parsed API description, loaded on first request.
type apiDoc struct {
	once sync.Once
	path string
	raw  []byte
	doc  *openapi3.T
	err  error
}

func (d *apiDoc) load() ([]byte, *openapi3.T, error) {
	d.once.Do(func() {
		d.raw, d.err = os.ReadFile(d.path)
		if d.err != nil {
			return
		}
		loader := &openapi3.Loader{IsExternalRefsAllowed: false}
		d.doc, d.err = loader.LoadFromData(d.raw)
		if d.err != nil {
			return
		}
		if err := d.doc.Validate(context.Background()); err != nil {
			slog.Warn("openapi document does not validate", "path", d.path, "error", err)
		}
	})
	return d.raw, d.doc, d.err
}

// SetupDocs registers Swagger UI at /docs and the API description at
// /docs/openapi.yaml and /docs/openapi.json.
func SetupDocs(app *fiber.App) {
	spec := &apiDoc{path: openAPIPath}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set("Content-Type", "text/html; charset=utf-8")
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		raw, _, err := spec.load()
		if err != nil {
			return errNotFound(c, "api description unavailable")
		}
		c.Set("Content-Type", "application/yaml")
		return c.Send(raw)
	})

	app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
		_, doc, err := spec.load()
		if err != nil {
			return errNotFound(c, "api description unavailable")
		}
		return c.JSON(doc)
	})
}
