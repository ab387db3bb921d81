package maps

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"stakeholder_map_backend/platform/config"
	"stakeholder_map_backend/platform/logger"
	"stakeholder_map_backend/platform/metrics"

	"golang.org/x/sync/singleflight"
	"golang.org/x/text/cases"
	"golang.org/x/time/rate"
)

const (
	defaultNominatimURL = "https://nominatim.openstreetmap.org/search"
	defaultUserAgent    = "StakeholderMap/1.0"
	suggestionLimit     = 5
	geocodeLimit        = 5
)

// ErrThrottled is returned when the outbound rate limit could not be honored
// within the lookup timeout.
var ErrThrottled = errors.New("geocoder rate limit exceeded")

// Options configures a Service.
type Options struct {
	BaseURL       string
	UserAgent     string
	CountryCodes  string
	Timeout       time.Duration
	RatePerSecond float64
	Cache         Cache
	CacheTTL      time.Duration
	HTTPClient    *http.Client
	Metrics       *metrics.Metrics
}

type Service struct {
	client       *http.Client
	baseURL      string
	userAgent    string
	countryCodes string
	timeout      time.Duration
	limiter      *rate.Limiter
	group        singleflight.Group
	cache        Cache
	cacheTTL     time.Duration
	metrics      *metrics.Metrics
	log          *logger.Logger
}

func NewService(opts Options, log *logger.Logger) *Service {
	if opts.BaseURL == "" {
		opts.BaseURL = defaultNominatimURL
	}
	if opts.UserAgent == "" {
		opts.UserAgent = defaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 5 * time.Second
	}
	if opts.RatePerSecond <= 0 {
		opts.RatePerSecond = 1
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Cache == nil {
		opts.Cache = NewMemoryCache(opts.CacheTTL)
	}
	if log == nil {
		log = logger.Discard()
	}

	return &Service{
		client:       opts.HTTPClient,
		baseURL:      opts.BaseURL,
		userAgent:    opts.UserAgent,
		countryCodes: opts.CountryCodes,
		timeout:      opts.Timeout,
		limiter:      rate.NewLimiter(rate.Limit(opts.RatePerSecond), 1),
		cache:        opts.Cache,
		cacheTTL:     opts.CacheTTL,
		metrics:      opts.Metrics,
		log:          log,
	}
}

// NewServiceFromConfig builds a Service from the geocoder and cache settings.
func NewServiceFromConfig(cfg config.GeocoderConfig, ttl time.Duration, cache Cache, m *metrics.Metrics, log *logger.Logger) *Service {
	return NewService(Options{
		BaseURL:       cfg.GetGeocoderURL(),
		UserAgent:     cfg.GetGeocoderUserAgent(),
		CountryCodes:  cfg.GetGeocoderCountryCodes(),
		Timeout:       cfg.GetGeocoderTimeout(),
		RatePerSecond: cfg.GetGeocoderRatePerSecond(),
		Cache:         cache,
		CacheTTL:      ttl,
		Metrics:       m,
	}, log)
}

// Geocode returns every candidate for query in provider order. An empty slice
// means the address was not found.
func (s *Service) Geocode(ctx context.Context, query string) ([]Candidate, error) {
	results, cached, err := s.lookup(ctx, "geocode", query, geocodeLimit, false)
	if err != nil {
		if errors.Is(err, ErrThrottled) {
			s.metrics.GeocodeLookup(metrics.GeocodeThrottle)
		} else if ctx.Err() == nil {
			s.metrics.GeocodeLookup(metrics.GeocodeError)
		}
		return nil, err
	}

	candidates := make([]Candidate, 0, len(results))
	for _, raw := range results {
		if raw.Lat == "" || raw.Lon == "" {
			continue
		}
		candidates = append(candidates, Candidate{Lat: raw.Lat, Lon: raw.Lon, DisplayName: raw.DisplayName})
	}

	switch {
	case cached:
		s.metrics.GeocodeLookup(metrics.GeocodeCached)
	case len(candidates) == 0:
		s.metrics.GeocodeLookup(metrics.GeocodeMiss)
	default:
		s.metrics.GeocodeLookup(metrics.GeocodeHit)
	}
	return candidates, nil
}

// SearchAddress returns structured suggestions for address autocomplete.
func (s *Service) SearchAddress(ctx context.Context, query string) ([]AddressSuggestion, error) {
	results, _, err := s.lookup(ctx, "suggest", query, suggestionLimit, true)
	if err != nil {
		return nil, err
	}

	suggestions := make([]AddressSuggestion, 0, len(results))
	for _, raw := range results {
		suggestion, ok := buildSuggestion(raw)
		if !ok {
			continue
		}
		suggestions = append(suggestions, suggestion)
	}

	return suggestions, nil
}

// lookup serves query from the cache or from one shared upstream call. The
// caller's context bounds only its own wait; a cancelled caller does not fail
// the others waiting on the same key.
func (s *Service) lookup(ctx context.Context, kind, query string, limit int, details bool) ([]nominatimResponse, bool, error) {
	key := kind + ":" + cacheKey(query)

	if raw, ok, err := s.cache.Get(ctx, key); err != nil {
		s.log.Warn("geocode cache read failed", "error", err)
	} else if ok {
		var results []nominatimResponse
		if err := json.Unmarshal(raw, &results); err == nil {
			return results, true, nil
		}
	}

	ch := s.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.timeout)
		defer cancel()

		results, err := s.fetch(fetchCtx, query, limit, details)
		if err != nil {
			return nil, err
		}
		if raw, err := json.Marshal(results); err == nil {
			if err := s.cache.Set(fetchCtx, key, raw, s.cacheTTL); err != nil {
				s.log.Warn("geocode cache write failed", "error", err)
			}
		}
		return results, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.([]nominatimResponse), false, nil
	}
}

func (s *Service) fetch(ctx context.Context, query string, limit int, details bool) ([]nominatimResponse, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrThrottled, err)
	}

	params := url.Values{}
	params.Add("q", query)
	params.Add("format", "json")
	params.Add("limit", strconv.Itoa(limit))
	if details {
		params.Add("addressdetails", "1")
	}
	if s.countryCodes != "" {
		params.Add("countrycodes", s.countryCodes)
	}

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		s.log.Error("nominatim request failed", "error", err)
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		s.log.Error("nominatim upstream error", "status", resp.StatusCode)
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var results []nominatimResponse
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		s.log.Error("failed to decode nominatim payload", "error", err)
		return nil, err
	}

	return results, nil
}

// cacheKey folds case and whitespace so trivially different spellings share
// one entry.
func cacheKey(query string) string {
	return strings.Join(strings.Fields(cases.Fold().String(query)), " ")
}

func buildSuggestion(raw nominatimResponse) (AddressSuggestion, bool) {
	if raw.Address.Road == "" {
		return AddressSuggestion{}, false
	}

	city := pickCity(raw.Address)
	if city == "" {
		return AddressSuggestion{}, false
	}

	suggestion := AddressSuggestion{
		Street:      raw.Address.Road,
		HouseNumber: raw.Address.HouseNumber,
		ZipCode:     raw.Address.Postcode,
		City:        city,
		Lat:         raw.Lat,
		Lon:         raw.Lon,
	}

	suggestion.Label = buildLabel(suggestion)

	return suggestion, true
}

func pickCity(address nominatimAddress) string {
	for _, candidate := range []string{address.City, address.Town, address.Village, address.Municipality, address.Hamlet} {
		if candidate != "" {
			return candidate
		}
	}
	return ""
}

func buildLabel(suggestion AddressSuggestion) string {
	street := strings.TrimSpace(suggestion.Street + " " + suggestion.HouseNumber)
	place := strings.TrimSpace(suggestion.ZipCode + " " + suggestion.City)
	return street + ", " + place
}
