package tour

import (
	"context"
	"encoding/json"

	"github.com/solterra-dev/solterra/api/internal/logger"
)

// AuthoredHotspot is a hotspot's declared authoring metadata, recovered
// from the host page's embedded initial-state payload. The viewer itself
// never exposes these through its query interface, which is why the
// payload is the source of truth for hotspot links.
type AuthoredHotspot struct {
	ID      string
	LinkURL string
}

// StateSource provides the host page's embedded state payload as raw JSON.
// The browser bridge reads it out of the live page; tests supply fixtures.
type StateSource interface {
	PageState(ctx context.Context) ([]byte, error)
}

// ExtractAuthoredHotspots reads the well-known nested path in the embedded
// state payload and flattens every scene's hotspot list into one sequence,
// preserving source order. It never fails: any absent or malformed segment
// yields an empty result and a warning. The shape of the payload is
// assumed but not guaranteed stable.
func ExtractAuthoredHotspots(payload []byte, log *logger.Logger) []AuthoredHotspot {
	if len(payload) == 0 {
		return nil
	}

	var doc struct {
		Props struct {
			PageProps struct {
				InitialState struct {
					App struct {
						ListScene []struct {
							Hotspots []struct {
								ID   string `json:"id"`
								Link struct {
									URL string `json:"url"`
								} `json:"link"`
								Config struct {
									Link struct {
										URL string `json:"url"`
									} `json:"link"`
								} `json:"config"`
							} `json:"hotspots"`
						} `json:"listScene"`
					} `json:"app"`
				} `json:"initialState"`
			} `json:"pageProps"`
		} `json:"props"`
	}

	if err := json.Unmarshal(payload, &doc); err != nil {
		log.Warn("Failed to parse embedded page state", map[string]interface{}{
			"error": err.Error(),
		})
		return nil
	}

	var hotspots []AuthoredHotspot
	for _, scene := range doc.Props.PageProps.InitialState.App.ListScene {
		for _, hs := range scene.Hotspots {
			if hs.ID == "" {
				continue
			}
			// The authoring tool writes the link either directly or nested
			// under config, depending on tool version.
			link := hs.Config.Link.URL
			if link == "" {
				link = hs.Link.URL
			}
			hotspots = append(hotspots, AuthoredHotspot{
				ID:      hs.ID,
				LinkURL: link,
			})
		}
	}

	return hotspots
}
