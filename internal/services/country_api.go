package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"countries_app_echo/internal/countries"
	"countries_app_echo/internal/models"
)

// CountryService reads the country collection from the configured endpoint.
type CountryService struct {
	url    string
	client *http.Client
	log    *zap.Logger
}

// NewCountryService creates a client for url. A zero timeout means the
// request is bounded only by the caller's context.
func NewCountryService(url string, timeout time.Duration, log *zap.Logger) *CountryService {
	if log == nil {
		log = zap.NewNop()
	}
	return &CountryService{
		url:    url,
		client: &http.Client{Timeout: timeout},
		log:    log.Named("countries"),
	}
}

// FetchCountries issues one GET to the endpoint. Failures are logged and
// returned as a FetchFailure result with an empty collection.
func (s *CountryService) FetchCountries(ctx context.Context) countries.FetchResult {
	list, err := s.fetch(ctx)
	if err != nil {
		s.log.Warn("Error fetching countries", zap.String("url", s.url), zap.Error(err))
		return countries.Failed(err)
	}
	s.log.Debug("Fetched countries", zap.Int("count", len(list)))
	return countries.Succeeded(list)
}

func (s *CountryService) fetch(ctx context.Context) ([]models.Country, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}

	return decodeCountries(resp.Body)
}

// countryRecord uses pointers so missing fields can be told apart from empty ones.
type countryRecord struct {
	Name   *string `json:"name"`
	Region *string `json:"region"`
	Flag   *string `json:"flag"`
}

func decodeCountries(r io.Reader) ([]models.Country, error) {
	var records []*countryRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, fmt.Errorf("failed to decode countries: %w", err)
	}

	list := make([]models.Country, 0, len(records))
	for i, rec := range records {
		if rec == nil || rec.Name == nil || rec.Region == nil || rec.Flag == nil {
			return nil, fmt.Errorf("failed to decode countries: record %d lacks name, region or flag", i)
		}
		list = append(list, models.Country{Name: *rec.Name, Region: *rec.Region, Flag: *rec.Flag})
	}
	return list, nil
}
