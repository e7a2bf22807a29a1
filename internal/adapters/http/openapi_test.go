package http_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

// findOpenAPISpec locates api/openapi.yaml by walking up from the test directory.
func findOpenAPISpec(t *testing.T) string {
	t.Helper()
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		candidate := filepath.Join(dir, "api", "openapi.yaml")
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		dir = filepath.Dir(dir)
	}

	t.Fatalf("could not find api/openapi.yaml")
	return ""
}

func loadSpec(t *testing.T) *openapi3.T {
	t.Helper()
	data, err := os.ReadFile(findOpenAPISpec(t))
	if err != nil {
		t.Fatalf("failed to read openapi.yaml: %v", err)
	}
	loader := &openapi3.Loader{IsExternalRefsAllowed: false}
	spec, err := loader.LoadFromData(data)
	if err != nil {
		t.Fatalf("failed to parse OpenAPI spec: %v", err)
	}
	return spec
}

// TestOpenAPISpec validates the document and checks it covers every route.
func TestOpenAPISpec(t *testing.T) {
	spec := loadSpec(t)

	if err := spec.Validate(context.Background()); err != nil {
		t.Fatalf("OpenAPI spec validation failed: %v", err)
	}

	expectedPaths := []string{
		"/v1/health",
		"/v1/ready",
		"/v1/zones",
		"/v1/zones/lookup",
		"/v1/delivery/check",
		"/v1/businesses/nearby",
		"/v1/markdown/preview",
		"/v1/content",
		"/v1/content/{slug}",
		"/v1/content/{id}/publish",
		"/v1/content/{id}/unpublish",
		"/graphql",
	}
	for _, path := range expectedPaths {
		if item := spec.Paths.Find(path); item == nil {
			t.Errorf("expected path %s not found in spec", path)
		}
	}

	expectedSchemas := []string{
		"Coordinate",
		"DeliveryZone",
		"DeliveryCheckRequest",
		"DeliveryQuote",
		"BusinessLocation",
		"RankedBusiness",
		"ContentDocument",
		"ContentInput",
		"APIError",
		"Pagination",
	}
	for _, schema := range expectedSchemas {
		if spec.Components.Schemas[schema] == nil {
			t.Errorf("expected schema %s not found", schema)
		}
	}

	t.Logf("OpenAPI spec valid: %d paths, %d schemas", len(spec.Paths.Map()), len(spec.Components.Schemas))
}

// TestOpenAPIInfo verifies spec metadata.
func TestOpenAPIInfo(t *testing.T) {
	spec := loadSpec(t)

	if spec.Info.Title != "JFK Cannabis Storefront API" {
		t.Errorf("unexpected title %q", spec.Info.Title)
	}
	if spec.Info.Version != "1.0.0" {
		t.Errorf("expected version 1.0.0, got %q", spec.Info.Version)
	}
	if spec.Info.Description == "" {
		t.Error("expected non-empty description")
	}
	if len(spec.Servers) == 0 {
		t.Fatal("expected at least one server")
	}
}

// TestOpenAPI_ContentKindsMatchDomain keeps the documented enum in sync with the API.
func TestOpenAPI_ContentKindsMatchDomain(t *testing.T) {
	spec := loadSpec(t)

	kind := spec.Components.Schemas["ContentKind"]
	if kind == nil || kind.Value == nil {
		t.Fatal("ContentKind schema missing")
	}
	got := map[string]bool{}
	for _, v := range kind.Value.Enum {
		got[v.(string)] = true
	}
	for _, want := range []string{"page", "post", "banner"} {
		if !got[want] {
			t.Errorf("ContentKind enum missing %q", want)
		}
	}
}

func TestDocs_SwaggerUI(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := do(t, app, "GET", "/docs", "")
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(string(readBody(t, resp.Body)), "/docs/openapi.json") {
		t.Error("swagger UI should point at the JSON description")
	}
}

// Tests run from the package directory, where api/openapi.yaml is not reachable.
func TestDocs_DescriptionUnavailable(t *testing.T) {
	app := setupApp(makeDeps(t))

	resp := do(t, app, "GET", "/docs/openapi.json", "")
	if resp.StatusCode != 404 {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
	if e := decodeError(t, resp); e.Code != "not_found" {
		t.Errorf("expected not_found envelope, got %+v", e)
	}
}
