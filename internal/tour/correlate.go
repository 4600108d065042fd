package tour

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/solterra-dev/solterra/api/internal/logger"
)

// Correlation pairs a live viewer region with the lot record it renders.
type Correlation struct {
	RegionName string
	Lot        LotRecord
}

// cardSlugPattern extracts the lot slug from a /card/<slug> link,
// ignoring any query string.
var cardSlugPattern = regexp.MustCompile(`/card/([^?]+)`)

// Correlator resolves which lot record, if any, each currently-rendered
// viewer region represents. Matching runs through a prioritized fallback
// chain: declared overrides, authored-hotspot cross-referencing via the
// embedded page state, and URL pattern extraction from the region's native
// link. It mutates nothing; its only side effect is logging.
type Correlator struct {
	log *logger.Logger

	// overrides maps a misauthored region name or extracted slug to the
	// correct lot slug.
	overrides map[string]string

	// origin is the serving origin ("http://localhost:3000" during local
	// development). Authored links carrying productionDomain are rewritten
	// onto it so slugs resolve without leaving the local environment.
	origin           *url.URL
	productionDomain string
}

// NewCorrelator creates a Correlator. origin may be nil when the serving
// origin is unknown; domain rewriting is skipped in that case.
func NewCorrelator(overrides map[string]string, origin *url.URL, productionDomain string, log *logger.Logger) *Correlator {
	if overrides == nil {
		overrides = map[string]string{}
	}
	return &Correlator{
		log:              log,
		overrides:        overrides,
		origin:           origin,
		productionDomain: productionDomain,
	}
}

// Reconcile determines the lot record behind every live region and returns
// the resolved pairs. Regions are enumerated by index but resolved to
// their names immediately: shadow creation changes the live region count,
// so names, not indices, are the stable identity across passes. Regions
// that resolve to no lot are skipped and left fully native.
func (c *Correlator) Reconcile(viewer Viewer, authored []AuthoredHotspot, snapshot *Snapshot) []Correlation {
	countRaw, err := viewer.Get("hotspot.count")
	if err != nil {
		c.log.Warn("Failed to read region count", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}
	count, err := strconv.Atoi(strings.TrimSpace(countRaw))
	if err != nil {
		c.log.Warn("Region count is not numeric", map[string]interface{}{
			"value": countRaw,
		})
		return nil
	}

	// Resolve every index to a name up front, before any overlay work can
	// reorder the live list.
	names := make([]string, 0, count)
	for i := 0; i < count; i++ {
		name, err := viewer.Get("hotspot[" + strconv.Itoa(i) + "].name")
		if err != nil {
			c.log.Warn("Failed to read region name", map[string]interface{}{
				"index": i,
				"error": err.Error(),
			})
			continue
		}
		if name == "" || name == "null" {
			continue
		}
		// Shadow regions are ours; reconciling them again would stack
		// shadows on shadows.
		if strings.HasPrefix(name, ShadowPrefix) {
			continue
		}
		names = append(names, name)
	}

	var correlations []Correlation
	for _, name := range names {
		slug, ok := c.resolveSlug(viewer, name, authored)
		if !ok {
			continue
		}

		lot := snapshot.Lookup(slug)
		if lot == nil {
			c.log.Warn("Region resolves to unknown slug", map[string]interface{}{
				"region": name,
				"slug":   slug,
			})
			continue
		}

		correlations = append(correlations, Correlation{
			RegionName: name,
			Lot:        *lot,
		})
	}

	return correlations
}

// resolveSlug runs the fallback chain for one region.
func (c *Correlator) resolveSlug(viewer Viewer, name string, authored []AuthoredHotspot) (string, bool) {
	// 1. Declared override on the region name itself.
	if slug, ok := c.overrides[name]; ok {
		c.log.Info("Region matched by name override", map[string]interface{}{
			"region": name,
			"slug":   slug,
		})
		return slug, true
	}

	// 2. Authored hotspot cross-reference, falling back to the region's
	// native link when the page state has nothing for it.
	candidateURL := ""
	if match := matchAuthoredHotspot(name, authored); match != nil {
		candidateURL = match.LinkURL
	}
	if candidateURL == "" {
		candidateURL = c.nativeLink(viewer, name)
	}
	if candidateURL == "" {
		return "", false
	}

	candidateURL = c.rewriteLocalDomain(candidateURL)

	// 3. URL pattern extraction.
	m := cardSlugPattern.FindStringSubmatch(candidateURL)
	if m == nil {
		return "", false
	}
	slug := m[1]

	// A slug-level override corrects links authored against stale slugs.
	if corrected, ok := c.overrides[slug]; ok {
		c.log.Info("Slug corrected by override", map[string]interface{}{
			"region": name,
			"from":   slug,
			"to":     corrected,
		})
		slug = corrected
	}

	return slug, true
}

// matchAuthoredHotspot finds the authored hotspot whose id is a substring
// of the region name. This is a heuristic, not a key: authoring tools
// derive region names from hotspot ids with added suffixes. When several
// authored ids are substrings of the same name, the lowest-index entry
// wins; that tie-break is inherited behavior, not a deliberate rule, and
// is pinned by test so it can be replaced with an exact map later.
func matchAuthoredHotspot(regionName string, authored []AuthoredHotspot) *AuthoredHotspot {
	for i := range authored {
		if authored[i].ID == "" {
			continue
		}
		if strings.Contains(regionName, authored[i].ID) {
			return &authored[i]
		}
	}
	return nil
}

// nativeLink reads the region's own outbound link, trying the standard
// property first and then the flat variant some authoring versions use.
func (c *Correlator) nativeLink(viewer Viewer, name string) string {
	for _, prop := range []string{".link.url", ".url"} {
		value, err := viewer.Get("hotspot[" + name + "]" + prop)
		if err == nil && value != "" && value != "null" {
			return value
		}
	}
	return ""
}

// rewriteLocalDomain rewrites the candidate URL onto the serving origin
// when running on a local development host and the URL carries the known
// production domain. This is a deployment-environment normalization only;
// all other URLs pass through untouched.
func (c *Correlator) rewriteLocalDomain(candidate string) string {
	if c.origin == nil || c.productionDomain == "" {
		return candidate
	}

	host := c.origin.Hostname()
	if host != "localhost" && host != "127.0.0.1" {
		return candidate
	}

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Host != c.productionDomain {
		return candidate
	}

	parsed.Scheme = c.origin.Scheme
	parsed.Host = c.origin.Host
	return parsed.String()
}
