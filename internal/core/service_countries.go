package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/logging"
)

// CountriesService implements country management and bulk import.
type CountriesService struct {
	repo     CountriesRepository
	limiter  *ImportLimiter
	recorder Recorder
}

// CountriesOption configures a CountriesService.
type CountriesOption func(*CountriesService)

// WithImportLimiter bounds concurrent imports. Without it imports are not limited.
func WithImportLimiter(l *ImportLimiter) CountriesOption {
	return func(s *CountriesService) { s.limiter = l }
}

// WithCountriesRecorder reports country events to r.
func WithCountriesRecorder(r Recorder) CountriesOption {
	return func(s *CountriesService) { s.recorder = r }
}

// NewCountriesService creates a CountriesService over repo.
func NewCountriesService(repo CountriesRepository, opts ...CountriesOption) *CountriesService {
	s := &CountriesService{repo: repo, recorder: nopRecorder{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddCountry validates and stores a new country with a fresh ID.
func (s *CountriesService) AddCountry(ctx context.Context, req *CountryAddRequest) (CountryResponse, error) {
	if req == nil {
		return CountryResponse{}, ErrNilRequest
	}
	if errs := req.Validate(); len(errs) > 0 {
		return CountryResponse{}, errs
	}

	country := req.ToCountry()
	existing, err := s.repo.GetCountryByCountryName(ctx, country.CountryName)
	if err != nil {
		return CountryResponse{}, fmt.Errorf("look up country %q: %w", country.CountryName, err)
	}
	if existing != nil {
		return CountryResponse{}, ErrDuplicateCountry
	}

	country.CountryID = uuid.New()
	stored, err := s.repo.AddCountry(ctx, country)
	if err != nil {
		return CountryResponse{}, fmt.Errorf("add country: %w", err)
	}

	s.recorder.CountryAdded()
	logging.FromContext(ctx).Info("country added", "country_id", stored.CountryID, "country_name", stored.CountryName)
	return stored.ToCountryResponse(), nil
}

// GetAllCountries returns every country ordered by name.
func (s *CountriesService) GetAllCountries(ctx context.Context) ([]CountryResponse, error) {
	countries, err := s.repo.GetAllCountries(ctx)
	if err != nil {
		return nil, fmt.Errorf("list countries: %w", err)
	}

	out := make([]CountryResponse, len(countries))
	for i, c := range countries {
		out[i] = c.ToCountryResponse()
	}
	return out, nil
}

// GetCountryByCountryID returns nil, nil for a nil or unknown id.
func (s *CountriesService) GetCountryByCountryID(ctx context.Context, id *uuid.UUID) (*CountryResponse, error) {
	if id == nil {
		return nil, nil
	}
	country, err := s.repo.GetCountryByCountryID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", id, err)
	}
	if country == nil {
		return nil, nil
	}
	resp := country.ToCountryResponse()
	return &resp, nil
}

// importNames inserts every new name and returns how many were added.
// Blank names and names already known (stored or earlier in names) are skipped.
func (s *CountriesService) importNames(ctx context.Context, source string, names []string) (int, error) {
	if s.limiter != nil {
		if err := s.limiter.Acquire(ctx); err != nil {
			return 0, err
		}
		defer s.limiter.Release()
	}

	logger := logging.WithFields(ctx, "source", source)
	seen := make(map[string]bool, len(names))
	inserted := 0

	for _, raw := range names {
		if err := ctx.Err(); err != nil {
			return inserted, err
		}

		name := CleanCell(raw)
		key := strings.ToLower(name)
		if name == "" || seen[key] {
			continue
		}
		seen[key] = true

		req := CountryAddRequest{CountryName: name}
		if errs := req.Validate(); len(errs) > 0 {
			logger.Warn("skipping invalid country name", "country_name", name, "error", errs)
			continue
		}

		existing, err := s.repo.GetCountryByCountryName(ctx, name)
		if err != nil {
			return inserted, fmt.Errorf("look up country %q: %w", name, err)
		}
		if existing != nil {
			continue
		}

		if _, err := s.repo.AddCountry(ctx, Country{CountryID: uuid.New(), CountryName: name}); err != nil {
			return inserted, fmt.Errorf("add country %q: %w", name, err)
		}
		inserted++
	}

	s.recorder.CountriesImported(inserted)
	logger.Info("countries imported", "rows", len(names), "inserted", inserted)
	return inserted, nil
}
