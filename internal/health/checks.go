package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/storefront/internal/config"
	"github.com/hellofresh/health-go/v5"
	healthHttp "github.com/hellofresh/health-go/v5/checks/http"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type Endpoints struct {
	// Stripe is checked only when direct checkout verification is on.
	Stripe Pinger
}

// Checks lists the probes for the configured back ends: the session store,
// the shop API and, when used, Stripe.
func Checks(cfg *config.Config, endpoints *Endpoints) []health.Config {
	checks := []health.Config{
		{
			Name:      "shop-api",
			Timeout:   5 * time.Second,
			SkipOnErr: false,
			Check: healthHttp.New(healthHttp.Config{
				URL:            cfg.Upstream.BaseURL,
				RequestTimeout: 5 * time.Second,
			}),
		},
	}

	switch cfg.Session.Driver {
	case "redis":
		checks = append(checks, health.Config{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		})
	case "postgres":
		checks = append(checks, health.Config{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		})
	}

	if endpoints != nil && endpoints.Stripe != nil {
		checks = append(checks, health.Config{
			Name:      "stripe",
			Timeout:   5 * time.Second,
			SkipOnErr: true,
			Check:     endpoints.Stripe.Ping,
		})
	}

	return checks
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: "1.0.0",
		}),
		health.WithSystemInfo(),
		health.WithChecks(Checks(cfg, endpoints)...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}
