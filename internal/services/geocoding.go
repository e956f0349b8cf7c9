package services

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"
)

var geocodeClient = &http.Client{Timeout: 10 * time.Second}

// GeocodingResult is a single candidate location
type GeocodingResult struct {
	DisplayName string  `json:"displayName"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
}

type nominatimResult struct {
	DisplayName string `json:"display_name"`
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
}

func geocodeBaseURL() string {
	base := os.Getenv("GEOCODING_BASE_URL")
	if base == "" {
		base = "https://nominatim.openstreetmap.org"
	}
	return base
}

func geocodeGet(endpoint string, params url.Values) ([]byte, error) {
	req, err := http.NewRequest("GET", geocodeBaseURL()+endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}
	// Nominatim usage policy requires an identifying User-Agent
	req.Header.Set("User-Agent", "GreenFleet-Backend/1.0")

	resp, err := geocodeClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("geocoding service returned status %d", resp.StatusCode)
	}

	return io.ReadAll(resp.Body)
}

// SearchAddress resolves a free-form address to candidate coordinates.
// Failures degrade to an empty result set.
func SearchAddress(query string) []GeocodingResult {
	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "json")
	params.Set("limit", "5")

	body, err := geocodeGet("/search", params)
	if err != nil {
		log.Printf("Geocoding search failed: %v", err)
		return []GeocodingResult{}
	}

	var raw []nominatimResult
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("Error parsing geocoding response: %v", err)
		return []GeocodingResult{}
	}

	results := make([]GeocodingResult, 0, len(raw))
	for _, r := range raw {
		lat, err1 := strconv.ParseFloat(r.Lat, 64)
		lng, err2 := strconv.ParseFloat(r.Lon, 64)
		if err1 != nil || err2 != nil {
			continue
		}
		results = append(results, GeocodingResult{
			DisplayName: r.DisplayName,
			Lat:         lat,
			Lng:         lng,
		})
	}
	return results
}

// ReverseGeocode resolves coordinates to an address.
// Failures degrade to an empty string.
func ReverseGeocode(lat, lng float64) string {
	params := url.Values{}
	params.Set("lat", strconv.FormatFloat(lat, 'f', 6, 64))
	params.Set("lon", strconv.FormatFloat(lng, 'f', 6, 64))
	params.Set("format", "json")

	body, err := geocodeGet("/reverse", params)
	if err != nil {
		log.Printf("Reverse geocoding failed: %v", err)
		return ""
	}

	var raw nominatimResult
	if err := json.Unmarshal(body, &raw); err != nil {
		log.Printf("Error parsing reverse geocoding response: %v", err)
		return ""
	}
	return raw.DisplayName
}
