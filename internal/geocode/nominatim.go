package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/find-teacher-training/search/internal/metrics"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org"
	defaultCountryCodes = "gb"
	resultTTL           = 24 * time.Hour
)

type NominatimGeocoder struct {
	BaseURL      string
	UserAgent    string
	CountryCodes string
	MinInterval  time.Duration
	Client       *http.Client

	mu        sync.Mutex
	lastReqAt time.Time
	cache     *gocache.Cache
}

type nominatimItem struct {
	Lat         string  `json:"lat"`
	Lon         string  `json:"lon"`
	DisplayName string  `json:"display_name"`
	Importance  float64 `json:"importance"`
}

func NewNominatim(baseURL, userAgent string, minInterval time.Duration) *NominatimGeocoder {
	return &NominatimGeocoder{
		BaseURL:     strings.TrimRight(baseURL, "/"),
		UserAgent:   userAgent,
		MinInterval: minInterval,
	}
}

func (g *NominatimGeocoder) init() {
	if g.Client == nil {
		g.Client = &http.Client{Timeout: 10 * time.Second}
	}
	if g.BaseURL == "" {
		g.BaseURL = defaultNominatimURL
	}
	if g.UserAgent == "" {
		g.UserAgent = "find-teacher-training-search"
	}
	if g.CountryCodes == "" {
		g.CountryCodes = defaultCountryCodes
	}
	if g.MinInterval <= 0 {
		g.MinInterval = time.Second
	}
	if g.cache == nil {
		g.cache = gocache.New(resultTTL, time.Hour)
	}
}

func (g *NominatimGeocoder) Geocode(ctx context.Context, query string) (Result, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Result{}, ErrNotFound
	}
	key := strings.ToLower(query)

	g.mu.Lock()
	g.init()
	if cached, ok := g.cache.Get(key); ok {
		g.mu.Unlock()
		metrics.CacheLookups.WithLabelValues("geocode", "hit").Inc()
		return cached.(Result), nil
	}
	metrics.CacheLookups.WithLabelValues("geocode", "miss").Inc()
	sleepFor := time.Until(g.lastReqAt.Add(g.MinInterval))
	g.lastReqAt = time.Now().Add(max(sleepFor, 0))
	g.mu.Unlock()

	if sleepFor > 0 {
		timer := time.NewTimer(sleepFor)
		select {
		case <-ctx.Done():
			timer.Stop()
			return Result{}, ctx.Err()
		case <-timer.C:
		}
	}

	q := url.Values{
		"q":              {query},
		"format":         {"json"},
		"addressdetails": {"1"},
		"limit":          {"1"},
		"countrycodes":   {g.CountryCodes},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, g.BaseURL+"/search?"+q.Encode(), nil)
	if err != nil {
		return Result{}, err
	}
	req.Header.Set("User-Agent", g.UserAgent)

	start := time.Now()
	resp, err := g.Client.Do(req)
	metrics.UpstreamDuration.WithLabelValues("geocode").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("geocode", "error").Inc()
		return Result{}, fmt.Errorf("%w: nominatim request: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.UpstreamRequests.WithLabelValues("geocode", "http_error").Inc()
		return Result{}, fmt.Errorf("%w: nominatim http error: %s", ErrUnavailable, resp.Status)
	}

	var items []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		metrics.UpstreamRequests.WithLabelValues("geocode", "malformed").Inc()
		return Result{}, fmt.Errorf("%w: nominatim decode: %v", ErrUnavailable, err)
	}
	metrics.UpstreamRequests.WithLabelValues("geocode", "ok").Inc()

	result, err := parseNominatimItems(items)
	if err != nil {
		return Result{}, err
	}
	g.cache.SetDefault(key, result)
	return result, nil
}

func parseNominatimItems(items []nominatimItem) (Result, error) {
	if len(items) == 0 {
		return Result{}, ErrNotFound
	}
	lat, err := strconv.ParseFloat(items[0].Lat, 64)
	if err != nil {
		return Result{}, fmt.Errorf("nominatim lat: %w", err)
	}
	lng, err := strconv.ParseFloat(items[0].Lon, 64)
	if err != nil {
		return Result{}, fmt.Errorf("nominatim lon: %w", err)
	}
	if lat == 0 && lng == 0 && items[0].DisplayName == "" {
		return Result{}, ErrNotFound
	}
	return Result{
		Lat:         lat,
		Lng:         lng,
		DisplayName: items[0].DisplayName,
		Confidence:  items[0].Importance,
	}, nil
}
