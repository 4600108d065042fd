package tour

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/solterra-dev/solterra/api/internal/logger"
)

// ErrDiscoveryTimeout is returned when the external viewer never became
// ready within the configured attempt budget. Reconciliation never starts
// in that case.
var ErrDiscoveryTimeout = errors.New("viewer discovery timed out")

// ViewerProvider is one strategy for locating the external viewer: the
// globally registered instance list, a well-known container id, and so on.
// Probe returns an error while the viewer is absent or half-initialized;
// providers are ordered by priority.
type ViewerProvider interface {
	// Name identifies the strategy in logs.
	Name() string

	// Probe attempts to locate the viewer right now.
	Probe(ctx context.Context) (Viewer, error)
}

// Discoverer polls a prioritized provider chain until one of them yields a
// usable viewer or the attempt budget runs out. A candidate counts as
// usable only once a property read succeeds: presence in the page is not
// proof of initialization.
type Discoverer struct {
	log         *logger.Logger
	providers   []ViewerProvider
	interval    time.Duration
	maxAttempts int
}

// NewDiscoverer creates a Discoverer over the given provider chain.
func NewDiscoverer(providers []ViewerProvider, interval time.Duration, maxAttempts int, log *logger.Logger) *Discoverer {
	return &Discoverer{
		log:         log,
		providers:   providers,
		interval:    interval,
		maxAttempts: maxAttempts,
	}
}

// AwaitViewer probes at a fixed interval until a provider yields a
// validated viewer, the attempts are exhausted, or the context is
// cancelled. The polling ticker is owned entirely by this call and is
// stopped on every exit path.
func (d *Discoverer) AwaitViewer(ctx context.Context) (Viewer, error) {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if viewer := d.probeAll(ctx); viewer != nil {
			d.log.Info("Viewer ready", map[string]interface{}{
				"attempt": attempt,
			})
			return viewer, nil
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("viewer discovery cancelled: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	d.log.Error("Viewer never became ready", ErrDiscoveryTimeout, map[string]interface{}{
		"attempts": d.maxAttempts,
		"interval": d.interval.String(),
	})
	return nil, ErrDiscoveryTimeout
}

// probeAll tries every provider in priority order and returns the first
// candidate that passes validation.
func (d *Discoverer) probeAll(ctx context.Context) Viewer {
	for _, provider := range d.providers {
		viewer, err := provider.Probe(ctx)
		if err != nil || viewer == nil {
			continue
		}

		// Accept the candidate only if a property read works. A container
		// can exist in the DOM long before the runtime inside it is live.
		if _, err := viewer.Get("version"); err != nil {
			d.log.Debug("Viewer candidate not yet readable", map[string]interface{}{
				"provider": provider.Name(),
				"error":    err.Error(),
			})
			continue
		}

		d.log.Info("Viewer located", map[string]interface{}{
			"provider": provider.Name(),
		})
		return viewer
	}
	return nil
}
