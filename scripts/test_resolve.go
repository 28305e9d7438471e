//go:build ignore
// +build ignore

package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type resolveRequest struct {
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	RadiusKm  float64 `json:"radius_km,omitempty"`
	Name      string  `json:"name,omitempty"`
	QueryType string  `json:"query_type,omitempty"`
}

func main() {
	baseURL := flag.String("url", "http://localhost:8080", "Base URL of the running service")
	account := flag.String("account", "test-account", "Account ID header value")
	lat := flag.Float64("lat", 55.7558, "Latitude")
	lon := flag.Float64("lon", 37.6173, "Longitude")
	radius := flag.Float64("radius", 2.0, "Radius in km")
	queryType := flag.String("query-type", "", "Overpass query type (empty = default)")
	flag.Parse()

	client := &http.Client{Timeout: 120 * time.Second}

	body, err := json.Marshal(resolveRequest{
		Lat:       *lat,
		Lon:       *lon,
		RadiusKm:  *radius,
		QueryType: *queryType,
	})
	if err != nil {
		log.Fatalf("Failed to marshal request: %v", err)
	}

	req, err := http.NewRequest(http.MethodPost, *baseURL+"/api/v1/places/resolve", bytes.NewReader(body))
	if err != nil {
		log.Fatalf("Failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Account-ID", *account)

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		log.Fatalf("Resolve request failed: %v", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Fatalf("Failed to read response: %v", err)
	}

	fmt.Printf("Status: %s (%.2fs)\n", resp.Status, time.Since(start).Seconds())

	var pretty bytes.Buffer
	if err := json.Indent(&pretty, raw, "", "  "); err != nil {
		fmt.Println(string(raw))
		return
	}
	fmt.Println(pretty.String())

	// Вытащим ID локации и дёрнем первую страницу объектов
	var parsed struct {
		Data struct {
			Location struct {
				ID int64 `json:"id"`
			} `json:"location"`
			CacheHit bool `json:"cache_hit"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil || parsed.Data.Location.ID == 0 {
		return
	}

	fmt.Printf("\nLocation %d (cache_hit=%v), fetching first feature page...\n",
		parsed.Data.Location.ID, parsed.Data.CacheHit)

	featURL := fmt.Sprintf("%s/api/v1/places/locations/%d/features?limit=5", *baseURL, parsed.Data.Location.ID)
	featReq, err := http.NewRequest(http.MethodGet, featURL, nil)
	if err != nil {
		log.Fatalf("Failed to build features request: %v", err)
	}
	featReq.Header.Set("X-Account-ID", *account)

	featResp, err := client.Do(featReq)
	if err != nil {
		log.Fatalf("Features request failed: %v", err)
	}
	defer featResp.Body.Close()

	featRaw, err := io.ReadAll(featResp.Body)
	if err != nil {
		log.Fatalf("Failed to read features response: %v", err)
	}

	pretty.Reset()
	if err := json.Indent(&pretty, featRaw, "", "  "); err != nil {
		fmt.Println(string(featRaw))
		return
	}
	fmt.Println(pretty.String())
}
