package http

import (
	"context"
	"errors"
	"runtime/debug"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
)

const readyTimeout = 3 * time.Second

var errNotConfigured = errors.New("not configured")

// probe is one readiness dependency. Required probes gate readiness;
// optional ones only degrade it.
type probe struct {
	name     string
	required bool
	check    func(ctx context.Context) error
}

// Readiness is the /v1/ready response body.
type Readiness struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}

func buildVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()
	version := buildVersion()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).Round(time.Second).String(),
			"version": version,
		})
	}
}

func readinessProbes(deps *Dependencies) []probe {
	return []probe{
		{name: "database", required: true, check: func(ctx context.Context) error {
			if deps.DB == nil {
				return errNotConfigured
			}
			return deps.DB.Ping(ctx)
		}},
		{name: "zones", required: true, check: func(ctx context.Context) error {
			zones, err := deps.Delivery.Zones(ctx)
			if err != nil {
				return err
			}
			if len(zones) == 0 {
				return errors.New("no delivery zones configured")
			}
			return nil
		}},
		{name: "nats", check: func(ctx context.Context) error {
			if deps.NATS == nil {
				return errNotConfigured
			}
			if !deps.NATS.IsConnected() {
				return errors.New("disconnected")
			}
			return nil
		}},
		{name: "cache", check: func(ctx context.Context) error {
			if deps.Cache == nil {
				return errNotConfigured
			}
			return deps.Cache.Ping(ctx)
		}},
	}
}

// ReadyHandler runs every probe concurrently. A failing required probe
// answers 503; a failing optional one reports "degraded" with 200.
// Optional dependencies that are not configured do not degrade.
func ReadyHandler(deps *Dependencies) fiber.Handler {
	probes := readinessProbes(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		results := make([]error, len(probes))
		var wg sync.WaitGroup
		for i, p := range probes {
			wg.Add(1)
			go func() {
				defer wg.Done()
				results[i] = p.check(ctx)
			}()
		}
		wg.Wait()

		out := Readiness{Status: "ready", Checks: make(map[string]string, len(probes))}
		code := fiber.StatusOK
		for i, p := range probes {
			err := results[i]
			switch {
			case err == nil:
				out.Checks[p.name] = "ok"
				continue
			case errors.Is(err, errNotConfigured):
				out.Checks[p.name] = "not configured"
			default:
				out.Checks[p.name] = "error: " + err.Error()
			}

			if p.required {
				out.Status = "not ready"
				code = fiber.StatusServiceUnavailable
			} else if out.Status == "ready" && !errors.Is(err, errNotConfigured) {
				out.Status = "degraded"
			}
		}

		return c.Status(code).JSON(out)
	}
}
