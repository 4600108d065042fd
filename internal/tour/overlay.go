package tour

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/models"
)

// ShadowPrefix prefixes every synthetic overlay region's name. The shadow
// for region "lote_7_zone" is "shadow_lote_7_zone"; at most one shadow
// exists per original region name.
const ShadowPrefix = "shadow_"

// StyleClass is one of the four fixed overlay styles.
type StyleClass struct {
	Name       string
	Color      uint32
	Alpha      float64
	HoverAlpha float64
}

// styleTable maps lot status to overlay styling. DEFAULT is intentionally
// conspicuous (purple) so unmapped statuses are visible at a glance
// instead of silently blending in.
var styleTable = map[models.LotStatus]StyleClass{
	models.StatusAvailable: {Name: "lot_style_AVAILABLE", Color: 0x28a745, Alpha: 0.4, HoverAlpha: 0.7},
	models.StatusReserved:  {Name: "lot_style_RESERVED", Color: 0xffa500, Alpha: 0.6, HoverAlpha: 0.8},
	models.StatusSold:      {Name: "lot_style_SOLD", Color: 0xff0000, Alpha: 0.5, HoverAlpha: 0.5},
}

// defaultStyle is the fallback for statuses outside the modeled set.
var defaultStyle = StyleClass{Name: "lot_style_DEFAULT", Color: 0x800080, Alpha: 0.5, HoverAlpha: 0.8}

// StyleFor resolves the style class for a status, case-normalized, falling
// back to the DEFAULT class for anything unrecognized.
func StyleFor(status models.LotStatus) StyleClass {
	if style, ok := styleTable[status.Normalize()]; ok {
		return style
	}
	return defaultStyle
}

// CardScriptFunc builds the viewer-language click binding that opens the
// in-process lot card for a slug. The card renders as an overlay panel
// from already-fetched data; the binding never navigates the page.
type CardScriptFunc func(slug string) string

// DefaultCardScript invokes the page's global open-card entry point, the
// only inbound interface the engine exposes to the rest of the page.
func DefaultCardScript(slug string) string {
	return fmt.Sprintf("js(solterraOpenLotCard(%q));", slug)
}

// OverlayManager creates and refreshes shadow overlay regions. Apply is
// idempotent: geometry is copied exactly once at shadow creation, while
// styling and the click binding are re-pushed on every call because the
// external viewer resets properties on its own style-change events.
type OverlayManager struct {
	log        *logger.Logger
	cardScript CardScriptFunc
}

// NewOverlayManager creates an OverlayManager. cardScript may be nil, in
// which case DefaultCardScript is used.
func NewOverlayManager(cardScript CardScriptFunc, log *logger.Logger) *OverlayManager {
	if cardScript == nil {
		cardScript = DefaultCardScript
	}
	return &OverlayManager{
		log:        log,
		cardScript: cardScript,
	}
}

// DefineStyles registers the four fixed style classes with the viewer.
// Registering an existing style is a no-op in the viewer runtime, so this
// runs at the start of every reconciliation pass.
func (m *OverlayManager) DefineStyles(viewer Viewer) error {
	classes := make([]StyleClass, 0, len(styleTable)+1)
	for _, status := range []models.LotStatus{models.StatusAvailable, models.StatusReserved, models.StatusSold} {
		classes = append(classes, styleTable[status])
	}
	classes = append(classes, defaultStyle)

	for _, class := range classes {
		color := colorHex(class.Color)
		alpha := formatAlpha(class.Alpha)
		hover := formatAlpha(class.HoverAlpha)

		var b strings.Builder
		fmt.Fprintf(&b, "addstyle(%s);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].fillcolor, %s);", class.Name, color)
		fmt.Fprintf(&b, "set(style[%s].fillalpha, %s);", class.Name, alpha)
		fmt.Fprintf(&b, "set(style[%s].borderwidth, 3);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].borderalpha, 0.0);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].enabled, true);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].capture, true);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].handcursor, true);", class.Name)
		fmt.Fprintf(&b, "set(style[%s].onover, set(fillalpha, %s); set(fillcolor, %s); );", class.Name, hover, color)
		fmt.Fprintf(&b, "set(style[%s].onout, set(fillalpha, %s); set(fillcolor, %s); );", class.Name, alpha, color)

		if err := viewer.Call(b.String()); err != nil {
			return fmt.Errorf("failed to define style %s: %w", class.Name, err)
		}
	}

	return nil
}

// Apply overlays one correlated region with its shadow. Safe to call
// repeatedly with the same region: exactly one shadow ever exists per
// original name, and only the creation step is skipped on later calls.
//
// Geometry is copied from the original region once, at creation. If the
// viewer ever rewrites a region's points afterwards (scene reload), the
// shadow silently desyncs; that is a known limitation, not defended
// against here.
func (m *OverlayManager) Apply(viewer Viewer, regionName string, lot LotRecord) error {
	shadowName := ShadowPrefix + regionName

	// The original region stays hidden and inert no matter what. The
	// viewer re-enables regions on some of its internal events, so this
	// runs on every pass, not just the first.
	if err := viewer.Set(regionPath(regionName, "visible"), "false"); err != nil {
		return fmt.Errorf("failed to hide region %s: %w", regionName, err)
	}
	if err := viewer.Set(regionPath(regionName, "enabled"), "false"); err != nil {
		return fmt.Errorf("failed to disable region %s: %w", regionName, err)
	}

	existing, err := viewer.Get(regionPath(shadowName, "name"))
	if err != nil {
		return fmt.Errorf("failed to probe shadow %s: %w", shadowName, err)
	}

	if existing == "" || existing == "null" {
		if err := m.createShadow(viewer, regionName, shadowName); err != nil {
			return err
		}
	}

	style := StyleFor(lot.Status)
	if err := m.pushStyle(viewer, shadowName, style); err != nil {
		return err
	}

	if err := viewer.Set(regionPath(shadowName, "onclick"), m.cardScript(lot.Slug)); err != nil {
		return fmt.Errorf("failed to bind click on %s: %w", shadowName, err)
	}

	m.log.Debug("Shadow overlay applied", map[string]interface{}{
		"region": regionName,
		"slug":   lot.Slug,
		"status": lot.Status,
		"style":  style.Name,
	})

	return nil
}

// createShadow adds the shadow region, copies the original's point
// geometry, and forces its draw order above all native content.
func (m *OverlayManager) createShadow(viewer Viewer, regionName, shadowName string) error {
	if err := viewer.Call(fmt.Sprintf("addhotspot(%s);", shadowName)); err != nil {
		return fmt.Errorf("failed to create shadow %s: %w", shadowName, err)
	}

	countRaw, err := viewer.Get(regionPath(regionName, "point.count"))
	if err != nil {
		return fmt.Errorf("failed to read geometry of %s: %w", regionName, err)
	}
	count, err := strconv.Atoi(strings.TrimSpace(countRaw))
	if err != nil {
		count = 0
	}

	for i := 0; i < count; i++ {
		point := fmt.Sprintf("point[%d]", i)
		ath, err := viewer.Get(regionPath(regionName, point+".ath"))
		if err != nil {
			return fmt.Errorf("failed to read point %d of %s: %w", i, regionName, err)
		}
		atv, err := viewer.Get(regionPath(regionName, point+".atv"))
		if err != nil {
			return fmt.Errorf("failed to read point %d of %s: %w", i, regionName, err)
		}
		if err := viewer.Set(regionPath(shadowName, point+".ath"), ath); err != nil {
			return fmt.Errorf("failed to copy point %d to %s: %w", i, shadowName, err)
		}
		if err := viewer.Set(regionPath(shadowName, point+".atv"), atv); err != nil {
			return fmt.Errorf("failed to copy point %d to %s: %w", i, shadowName, err)
		}
	}

	if err := viewer.Set(regionPath(shadowName, "zorder"), "9999"); err != nil {
		return fmt.Errorf("failed to raise %s: %w", shadowName, err)
	}

	m.log.Info("Shadow overlay created", map[string]interface{}{
		"region": regionName,
		"shadow": shadowName,
		"points": count,
	})

	return nil
}

// pushStyle unconditionally re-pushes every visual property and hover
// handler. The re-push is what makes Apply self-healing against the
// viewer resetting properties between passes.
func (m *OverlayManager) pushStyle(viewer Viewer, shadowName string, style StyleClass) error {
	color := colorHex(style.Color)
	alpha := formatAlpha(style.Alpha)
	hover := formatAlpha(style.HoverAlpha)

	sets := [][2]string{
		{"style", style.Name},
		{"fillcolor", color},
		{"fillalpha", alpha},
		{"borderwidth", "3"},
		{"borderalpha", "0.0"},
		{"onover", fmt.Sprintf("set(fillalpha, %s); set(fillcolor, %s);", hover, color)},
		{"onout", fmt.Sprintf("set(fillalpha, %s); set(fillcolor, %s);", alpha, color)},
	}

	for _, kv := range sets {
		if err := viewer.Set(regionPath(shadowName, kv[0]), kv[1]); err != nil {
			return fmt.Errorf("failed to style %s (%s): %w", shadowName, kv[0], err)
		}
	}

	return nil
}

// regionPath builds a name-addressed property path.
func regionPath(name, property string) string {
	return "hotspot[" + name + "]." + property
}

// colorHex renders a color in the viewer's 0xRRGGBB notation.
func colorHex(color uint32) string {
	return fmt.Sprintf("0x%06X", color)
}

// formatAlpha renders an alpha value without trailing zeros.
func formatAlpha(alpha float64) string {
	return strconv.FormatFloat(alpha, 'g', -1, 64)
}
