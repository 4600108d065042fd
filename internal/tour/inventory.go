package tour

import (
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/solterra-dev/solterra/api/internal/models"
)

// LotRecord is the engine's view of one lot, as served by the inventory
// endpoint. It deliberately mirrors the public API payload rather than the
// database model: the engine is a consumer of the endpoint, not of the
// store behind it.
type LotRecord struct {
	Slug        string           `json:"slug"`
	Number      string           `json:"number"`
	Status      models.LotStatus `json:"status"`
	Currency    string           `json:"currency"`
	Dimensions  string           `json:"dimensions"`
	Description string           `json:"description,omitempty"`
	Price       float64          `json:"price"`
	Area        float64          `json:"area"`
}

// Snapshot is one fetched inventory state: an ordered record list plus a
// fingerprint of its serialized form. Snapshots are replaced wholesale on
// each successful fetch and never mutated in place.
type Snapshot struct {
	FetchedAt   time.Time
	Lots        []LotRecord
	Fingerprint uint64
}

// Lookup returns the record with the given slug, or nil. Slug equality is
// exact; slugs are the only correlation key.
func (s *Snapshot) Lookup(slug string) *LotRecord {
	for i := range s.Lots {
		if s.Lots[i].Slug == slug {
			return &s.Lots[i]
		}
	}
	return nil
}

// InventoryClient fetches lot inventory snapshots from the public lots
// endpoint. The endpoint may be cached upstream for up to ~60s, which
// bounds how quickly the engine observes status changes regardless of its
// own poll interval.
type InventoryClient struct {
	httpClient *http.Client
	log        *logger.Logger
	url        string
}

// NewInventoryClient creates an InventoryClient for the given endpoint.
func NewInventoryClient(url string, log *logger.Logger) *InventoryClient {
	return &InventoryClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		log:        log,
		url:        url,
	}
}

// FetchSnapshot performs one GET against the inventory endpoint and
// returns the decoded snapshot with its fingerprint. Callers in the sync
// loop retain the previous snapshot on failure; no retry happens here
// beyond the periodic schedule.
func (c *InventoryClient) FetchSnapshot(ctx context.Context) (*Snapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build inventory request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("inventory fetch failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("inventory fetch failed: unexpected status %d", resp.StatusCode)
	}

	var lots []LotRecord
	if err := json.NewDecoder(resp.Body).Decode(&lots); err != nil {
		return nil, fmt.Errorf("failed to decode inventory payload: %w", err)
	}

	snapshot := &Snapshot{
		FetchedAt:   time.Now(),
		Lots:        lots,
		Fingerprint: fingerprintLots(lots),
	}

	c.log.Debug("Inventory fetched", map[string]interface{}{
		"count":       len(lots),
		"fingerprint": snapshot.Fingerprint,
	})

	return snapshot, nil
}

// fingerprintLots computes a cheap, order-sensitive FNV-1a hash over every
// field of every record. Equal fingerprints mean the sync loop skips
// reconciliation, so the serialization must be deterministic; it does not
// need to be cryptographic.
func fingerprintLots(lots []LotRecord) uint64 {
	h := fnv.New64a()

	var fieldSep = []byte{0x1f}
	var recordSep = []byte{0x1e}

	writeField := func(value string) {
		h.Write([]byte(value))
		h.Write(fieldSep)
	}

	for i := range lots {
		lot := &lots[i]
		writeField(lot.Slug)
		writeField(lot.Number)
		writeField(string(lot.Status))
		writeField(strconv.FormatFloat(lot.Price, 'g', -1, 64))
		writeField(lot.Currency)
		writeField(lot.Dimensions)
		writeField(strconv.FormatFloat(lot.Area, 'g', -1, 64))
		writeField(lot.Description)
		h.Write(recordSep)
	}

	return h.Sum64()
}
