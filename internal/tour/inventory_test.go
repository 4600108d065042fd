package tour

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/solterra-dev/solterra/api/internal/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleLots() []LotRecord {
	return []LotRecord{
		{Slug: "lote-1", Number: "1", Status: "AVAILABLE", Price: 15000, Currency: "USD", Dimensions: "10m x 30m", Area: 300},
		{Slug: "lote-2", Number: "2", Status: "RESERVED", Price: 18000, Currency: "USD", Dimensions: "12m x 30m", Area: 360},
	}
}

func TestFingerprint_IdenticalContentMatches(t *testing.T) {
	a := fingerprintLots(sampleLots())
	b := fingerprintLots(sampleLots())

	assert.Equal(t, a, b)
}

func TestFingerprint_FieldChangeDiffers(t *testing.T) {
	base := fingerprintLots(sampleLots())

	changed := sampleLots()
	changed[1].Status = "SOLD"

	assert.NotEqual(t, base, fingerprintLots(changed))
}

func TestFingerprint_PriceChangeDiffers(t *testing.T) {
	base := fingerprintLots(sampleLots())

	changed := sampleLots()
	changed[0].Price = 15001

	assert.NotEqual(t, base, fingerprintLots(changed))
}

func TestFingerprint_OrderSensitive(t *testing.T) {
	lots := sampleLots()
	base := fingerprintLots(lots)

	swapped := []LotRecord{lots[1], lots[0]}

	assert.NotEqual(t, base, fingerprintLots(swapped))
}

func TestFingerprint_FieldBoundariesMatter(t *testing.T) {
	// "ab"+"c" must not collide with "a"+"bc".
	a := fingerprintLots([]LotRecord{{Slug: "ab", Number: "c"}})
	b := fingerprintLots([]LotRecord{{Slug: "a", Number: "bc"}})

	assert.NotEqual(t, a, b)
}

func TestFetchSnapshot_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[
			{"slug":"lote-1","number":"1","status":"AVAILABLE","price":15000,"currency":"USD","dimensions":"10m x 30m","area":300},
			{"slug":"lote-2","number":"2","status":"RESERVED","price":18000,"currency":"USD","dimensions":"12m x 30m","area":360}
		]`))
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, logger.NewNop())
	snapshot, err := client.FetchSnapshot(context.Background())

	require.NoError(t, err)
	require.Len(t, snapshot.Lots, 2)
	assert.Equal(t, "lote-1", snapshot.Lots[0].Slug)
	assert.Equal(t, fingerprintLots(snapshot.Lots), snapshot.Fingerprint)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

func TestFetchSnapshot_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, logger.NewNop())
	snapshot, err := client.FetchSnapshot(context.Background())

	assert.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestFetchSnapshot_MalformedPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not":"an array"}`))
	}))
	defer server.Close()

	client := NewInventoryClient(server.URL, logger.NewNop())
	snapshot, err := client.FetchSnapshot(context.Background())

	assert.Error(t, err)
	assert.Nil(t, snapshot)
}

func TestSnapshotLookup(t *testing.T) {
	snapshot := &Snapshot{Lots: sampleLots()}

	found := snapshot.Lookup("lote-2")
	require.NotNil(t, found)
	assert.Equal(t, "2", found.Number)

	assert.Nil(t, snapshot.Lookup("lote-404"))
	// Lookup is exact, not prefix-based.
	assert.Nil(t, snapshot.Lookup("lote"))
}
