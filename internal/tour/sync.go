package tour

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/solterra-dev/solterra/api/internal/logger"
)

// ErrAlreadyStarted is returned by Run when the session loop was started
// before. At most one live periodic timer may exist per session.
var ErrAlreadyStarted = errors.New("sync session already started")

// Session owns one reconciliation lifecycle: the discovered viewer handle,
// the last applied inventory fingerprint, and the periodic sync loop.
// These are explicit fields rather than ambient globals so the whole
// engine is testable with fake viewers.
type Session struct {
	log        *logger.Logger
	inventory  *InventoryClient
	state      StateSource
	correlator *Correlator
	overlays   *OverlayManager
	discoverer *Discoverer

	syncInterval time.Duration

	viewer          Viewer
	lastFingerprint uint64
	applied         bool
	started         atomic.Bool
}

// NewSession wires the engine components into one session.
func NewSession(
	inventory *InventoryClient,
	state StateSource,
	correlator *Correlator,
	overlays *OverlayManager,
	discoverer *Discoverer,
	syncInterval time.Duration,
	log *logger.Logger,
) *Session {
	return &Session{
		log:          log,
		inventory:    inventory,
		state:        state,
		correlator:   correlator,
		overlays:     overlays,
		discoverer:   discoverer,
		syncInterval: syncInterval,
	}
}

// Run drives the full lifecycle: await the viewer, reconcile once, then
// poll inventory until the context is cancelled. It may be started at most
// once per session. Nothing that happens inside the loop propagates as a
// failure; every error degrades to "leave affected regions native" and a
// log line. Run itself only fails on startup (double start, discovery
// timeout) or context cancellation.
func (s *Session) Run(ctx context.Context) error {
	if !s.started.CompareAndSwap(false, true) {
		return ErrAlreadyStarted
	}

	viewer, err := s.discoverer.AwaitViewer(ctx)
	if err != nil {
		return fmt.Errorf("sync session not started: %w", err)
	}
	s.viewer = viewer

	// First pass runs immediately; the ticker only paces the re-fetches.
	s.SyncOnce(ctx)

	ticker := time.NewTicker(s.syncInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Sync session stopped", nil)
			return ctx.Err()
		case <-ticker.C:
			s.SyncOnce(ctx)
		}
	}
}

// SyncOnce performs one tick of the loop: fetch a fresh snapshot, compare
// fingerprints, and reconcile only when the data actually changed. On
// fetch failure the previously applied snapshot stays authoritative and
// the failure is logged, never propagated.
func (s *Session) SyncOnce(ctx context.Context) {
	snapshot, err := s.inventory.FetchSnapshot(ctx)
	if err != nil {
		s.log.Error("Inventory fetch failed, keeping last applied state", err, nil)
		return
	}

	if s.applied && snapshot.Fingerprint == s.lastFingerprint {
		s.log.Debug("Inventory unchanged, skipping reconciliation", map[string]interface{}{
			"fingerprint": snapshot.Fingerprint,
		})
		return
	}

	s.reconcile(ctx, snapshot)
}

// reconcile runs one full pass: re-extract authored hotspots, correlate
// every live region, and apply overlays. Regions are processed strictly in
// enumeration order; one region's failure never aborts the rest. The new
// fingerprint is stored as last-applied even when individual regions
// failed, since retrying them with identical data would fail identically.
func (s *Session) reconcile(ctx context.Context, snapshot *Snapshot) {
	authored := s.extractAuthored(ctx)

	if err := s.overlays.DefineStyles(s.viewer); err != nil {
		s.log.Error("Failed to define overlay styles, skipping pass", err, nil)
		return
	}

	correlations := s.correlator.Reconcile(s.viewer, authored, snapshot)

	applied := 0
	for _, correlation := range correlations {
		if err := s.overlays.Apply(s.viewer, correlation.RegionName, correlation.Lot); err != nil {
			s.log.Error("Overlay update failed for region", err, map[string]interface{}{
				"region": correlation.RegionName,
				"slug":   correlation.Lot.Slug,
			})
			continue
		}
		applied++
	}

	// Nudge the viewer to repaint with the new properties.
	if err := s.viewer.Call("updatescreen();"); err != nil {
		s.log.Warn("Screen refresh failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	s.lastFingerprint = snapshot.Fingerprint
	s.applied = true

	s.log.Info("Reconciliation pass completed", map[string]interface{}{
		"lots":        len(snapshot.Lots),
		"correlated":  len(correlations),
		"applied":     applied,
		"fingerprint": snapshot.Fingerprint,
	})
}

// extractAuthored re-reads the embedded page state. Extraction failures
// are treated as zero authored hotspots; correlation then falls back to
// native region links.
func (s *Session) extractAuthored(ctx context.Context) []AuthoredHotspot {
	if s.state == nil {
		return nil
	}

	payload, err := s.state.PageState(ctx)
	if err != nil {
		s.log.Warn("Failed to read embedded page state", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	return ExtractAuthoredHotspots(payload, s.log)
}
