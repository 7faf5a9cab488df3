package health

import (
	"context"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/config"
	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/events"
	"github.com/hellofresh/health-go/v5"
	"github.com/hellofresh/health-go/v5/checks/postgres"
	healthRedis "github.com/hellofresh/health-go/v5/checks/redis"
)

const componentVersion = "1.0.0"

type Endpoints struct {
	// Marker is the durable inventory last-update marker. A nil marker skips the check.
	Marker events.Marker
}

func NewHealthHandler(cfg *config.Config, endpoints *Endpoints) (*health.Health, error) {
	checks := []health.Config{
		{
			Name:      "database",
			Timeout:   3 * time.Second,
			SkipOnErr: false,
			Check: postgres.New(postgres.Config{
				DSN: cfg.Database.GetDSN(),
			}),
		},
		{
			Name:      "redis",
			Timeout:   2 * time.Second,
			SkipOnErr: false,
			Check: healthRedis.New(healthRedis.Config{
				DSN: cfg.RedisConnect.GetDSN(),
			}),
		},
	}

	if endpoints != nil && endpoints.Marker != nil {
		checks = append(checks, health.Config{
			Name:      "inventory-marker",
			Timeout:   2 * time.Second,
			SkipOnErr: true,
			Check:     MarkerCheck(endpoints.Marker),
		})
	}

	h, err := health.New(
		health.WithComponent(health.Component{
			Name:    cfg.Otel.ServiceName,
			Version: componentVersion,
		}),
		health.WithSystemInfo(),
		health.WithChecks(checks...),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create health instance: %w", err)
	}

	return h, nil
}

// MarkerCheck fails when the last-update marker cannot be read. A degraded
// marker only disables inventory caching, so the check is non-fatal.
func MarkerCheck(marker events.Marker) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		if _, err := marker.LastUpdate(ctx); err != nil {
			return fmt.Errorf("failed to read inventory marker: %w", err)
		}

		return nil
	}
}
