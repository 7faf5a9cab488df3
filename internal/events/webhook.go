package events

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aaravmahajanofficial/dealer-incentive-platform/internal/metrics"
	"github.com/go-resty/resty/v2"
	"github.com/sony/gobreaker"
)

// WebhookNotifier posts inventory events to external subscribers. Each target
// has its own circuit breaker so one dead endpoint does not slow the others.
type WebhookNotifier struct {
	client   *resty.Client
	targets  []string
	breakers map[string]*gobreaker.CircuitBreaker
}

func NewWebhookNotifier(targets []string, timeout time.Duration) *WebhookNotifier {
	n := &WebhookNotifier{
		client:   resty.New().SetTimeout(timeout).SetRetryCount(0).SetHeader("Content-Type", "application/json"),
		targets:  targets,
		breakers: make(map[string]*gobreaker.CircuitBreaker, len(targets)),
	}

	for _, target := range targets {
		n.breakers[target] = newBreaker(target)
		metrics.SetCircuitState(target, 0)
	}

	return n
}

func newBreaker(target string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        target,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			state := 0.0
			switch to {
			case gobreaker.StateOpen:
				state = 1
			case gobreaker.StateHalfOpen:
				state = 2
			}

			metrics.SetCircuitState(name, state)
			slog.Info("Webhook circuit changed", slog.String("target", name), slog.String("from", from.String()), slog.String("to", to.String()))
		},
	})
}

// Notify delivers the event to every target and joins the failures.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	var errs []error

	for _, target := range n.targets {
		_, err := n.breakers[target].Execute(func() (any, error) {
			resp, err := n.client.R().SetContext(ctx).SetBody(event).Post(target)
			if err != nil {
				return nil, err
			}

			if resp.StatusCode() >= http.StatusBadRequest {
				return nil, fmt.Errorf("webhook %s answered %d", target, resp.StatusCode())
			}

			return nil, nil
		})
		if err != nil {
			metrics.RecordEvent("webhook", "error")
			errs = append(errs, fmt.Errorf("webhook %s: %w", target, err))

			continue
		}

		metrics.RecordEvent("webhook", "ok")
	}

	return errors.Join(errs...)
}

// Publish hands the event to the webhooks in the background so the caller's
// request is not held up by slow receivers.
func (n *WebhookNotifier) Publish(ctx context.Context, event Event) error {
	if len(n.targets) == 0 {
		return nil
	}

	detached := context.WithoutCancel(ctx)

	go func() {
		notifyCtx, cancel := context.WithTimeout(detached, time.Duration(len(n.targets))*n.client.GetClient().Timeout+time.Second)
		defer cancel()

		if err := n.Notify(notifyCtx, event); err != nil {
			slog.Warn("Inventory webhook delivery failed", slog.Any("error", err))
		}
	}()

	return nil
}
