// Package tour implements the hotspot reconciliation engine that keeps the
// embedded 360° tour viewer in sync with lot inventory. The external viewer
// does not expose a supported styling or event-override API, so the engine
// overlays synthetic "shadow" regions on top of the authored ones and
// re-applies their styling on every pass.
package tour

import "errors"

// Viewer is the narrow interface to the external map viewer runtime. The
// real viewer is an opaque scripting engine addressed by dotted/bracketed
// property paths ("hotspot[3].name", "hotspot[lote_7].fillcolor") plus a
// mini-language for style and event definitions. Everything in this
// package depends only on these three operations so tests can run against
// a fully scripted fake.
type Viewer interface {
	// Get reads a property by path. Unset properties come back as the
	// empty string or the literal "null", depending on the runtime.
	Get(path string) (string, error)

	// Set writes a property by path.
	Set(path, value string) error

	// Call executes a script fragment in the viewer's action language.
	Call(script string) error
}

// ErrViewerGone is returned by viewer implementations when the underlying
// runtime has been torn down mid-operation (page navigated away, instance
// disposed). Per-region handling treats it like any other viewer failure:
// log and move on.
var ErrViewerGone = errors.New("viewer no longer available")
