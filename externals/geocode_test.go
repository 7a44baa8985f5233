package externals

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGeocodeDestination(t *testing.T) {
	t.Setenv("GEOCODING_API_KEY", "test-key")

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Lisbon", r.URL.Query().Get("address"))
		assert.Equal(t, "test-key", r.URL.Query().Get("key"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"status": "OK",
			"results": [{"geometry": {"location": {"lat": 38.7223, "lng": -9.1393}}}]
		}`))
	}))
	defer mockServer.Close()

	oldURL := GeocodeBaseURL
	GeocodeBaseURL = mockServer.URL
	defer func() { GeocodeBaseURL = oldURL }()

	lat, lng, ok := GeocodeDestination("Lisbon")
	assert.True(t, ok)
	assert.InDelta(t, 38.7223, lat, 0.0001)
	assert.InDelta(t, -9.1393, lng, 0.0001)
}

func TestGeocodeDestinationZeroResults(t *testing.T) {
	t.Setenv("GEOCODING_API_KEY", "test-key")

	mockServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "ZERO_RESULTS", "results": []}`))
	}))
	defer mockServer.Close()

	oldURL := GeocodeBaseURL
	GeocodeBaseURL = mockServer.URL
	defer func() { GeocodeBaseURL = oldURL }()

	_, _, ok := GeocodeDestination("Nowhereville")
	assert.False(t, ok)
}

func TestGeocodeDestinationWithoutAPIKey(t *testing.T) {
	t.Setenv("GEOCODING_API_KEY", "")

	_, _, ok := GeocodeDestination("Lisbon")
	assert.False(t, ok)
}
