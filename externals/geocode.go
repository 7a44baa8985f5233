package externals

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"travelbuddy-server/utils/log"
)

// GeocodeBaseURL is overridable in tests to point at a mock server.
var GeocodeBaseURL = "https://maps.googleapis.com/maps/api/geocode/json"

var geocodeClient = &http.Client{Timeout: 10 * time.Second}

type geocodeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type geocodeResult struct {
	Geometry struct {
		Location geocodeLocation `json:"location"`
	} `json:"geometry"`
}

type geocodeResponse struct {
	Status  string          `json:"status"`
	Results []geocodeResult `json:"results"`
}

// GeocodeDestination resolves a free-form destination string to
// coordinates. Returns ok=false on any failure; callers treat
// coordinates as best effort and never fail the request over them.
func GeocodeDestination(destination string) (lat, lng float64, ok bool) {
	apiKey := os.Getenv("GEOCODING_API_KEY")
	if apiKey == "" || destination == "" {
		return 0, 0, false
	}

	reqURL := fmt.Sprintf("%s?address=%s&key=%s", GeocodeBaseURL, url.QueryEscape(destination), apiKey)
	resp, err := geocodeClient.Get(reqURL)
	if err != nil {
		log.Log.WithError(err).Warn("geocoding request failed")
		return 0, 0, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Log.Warnf("geocoding returned status %d", resp.StatusCode)
		return 0, 0, false
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		log.Log.WithError(err).Warn("geocoding response decode failed")
		return 0, 0, false
	}
	if decoded.Status != "OK" || len(decoded.Results) == 0 {
		return 0, 0, false
	}

	loc := decoded.Results[0].Geometry.Location
	return loc.Lat, loc.Lng, true
}
