package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/logging"
)

// PersonsService implements person management, search and export.
type PersonsService struct {
	persons   PersonsRepository
	countries CountriesRepository
	recorder  Recorder
	now       func() time.Time
}

// PersonsOption configures a PersonsService.
type PersonsOption func(*PersonsService)

// WithClock replaces time.Now when computing ages.
func WithClock(now func() time.Time) PersonsOption {
	return func(s *PersonsService) { s.now = now }
}

// WithPersonsRecorder reports person events to r.
func WithPersonsRecorder(r Recorder) PersonsOption {
	return func(s *PersonsService) { s.recorder = r }
}

// NewPersonsService creates a PersonsService. countries resolves country
// names for responses to writes.
func NewPersonsService(persons PersonsRepository, countries CountriesRepository, opts ...PersonsOption) *PersonsService {
	s := &PersonsService{
		persons:   persons,
		countries: countries,
		recorder:  nopRecorder{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// AddPerson validates req and stores it under a new ID.
func (s *PersonsService) AddPerson(ctx context.Context, req *PersonAddRequest) (PersonResponse, error) {
	if req == nil {
		return PersonResponse{}, ErrNilRequest
	}
	if errs := req.Validate(); len(errs) > 0 {
		return PersonResponse{}, errs
	}

	person := req.ToPerson()
	person.PersonID = uuid.New()
	country, err := s.lookupCountry(ctx, person.CountryID)
	if err != nil {
		return PersonResponse{}, err
	}

	stored, err := s.persons.AddPerson(ctx, person)
	if err != nil {
		return PersonResponse{}, fmt.Errorf("add person: %w", err)
	}
	stored.Country = country

	s.recorder.PersonAdded()
	logging.FromContext(ctx).Info("person added", "person_id", stored.PersonID)
	return stored.ToPersonResponse(s.now()), nil
}

// GetAllPersons returns every person.
func (s *PersonsService) GetAllPersons(ctx context.Context) ([]PersonResponse, error) {
	persons, err := s.persons.GetAllPersons(ctx)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	return s.toResponses(persons), nil
}

// GetPersonByPersonID returns nil, nil for a nil or unknown id.
func (s *PersonsService) GetPersonByPersonID(ctx context.Context, id *uuid.UUID) (*PersonResponse, error) {
	if id == nil {
		return nil, nil
	}
	person, err := s.persons.GetPersonByPersonID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("get person %s: %w", id, err)
	}
	if person == nil {
		return nil, nil
	}
	resp := person.ToPersonResponse(s.now())
	return &resp, nil
}

// UpdatePerson replaces every mutable field of an existing person.
func (s *PersonsService) UpdatePerson(ctx context.Context, req *PersonUpdateRequest) (PersonResponse, error) {
	if req == nil {
		return PersonResponse{}, ErrNilRequest
	}
	if errs := req.Validate(); len(errs) > 0 {
		return PersonResponse{}, errs
	}

	existing, err := s.persons.GetPersonByPersonID(ctx, req.PersonID)
	if err != nil {
		return PersonResponse{}, fmt.Errorf("get person %s: %w", req.PersonID, err)
	}
	if existing == nil {
		return PersonResponse{}, ErrInvalidPersonID
	}

	person := req.ToPerson()
	country, err := s.lookupCountry(ctx, person.CountryID)
	if err != nil {
		return PersonResponse{}, err
	}

	updated, err := s.persons.UpdatePerson(ctx, person)
	if err != nil {
		if errors.Is(err, ErrInvalidPersonID) {
			return PersonResponse{}, ErrInvalidPersonID
		}
		return PersonResponse{}, fmt.Errorf("update person %s: %w", req.PersonID, err)
	}
	updated.Country = country

	s.recorder.PersonUpdated()
	logging.FromContext(ctx).Info("person updated", "person_id", updated.PersonID)
	return updated.ToPersonResponse(s.now()), nil
}

// DeletePerson reports whether a person was removed. A nil or unknown id
// returns false.
func (s *PersonsService) DeletePerson(ctx context.Context, id *uuid.UUID) (bool, error) {
	if id == nil {
		return false, nil
	}
	deleted, err := s.persons.DeletePersonByPersonID(ctx, *id)
	if err != nil {
		return false, fmt.Errorf("delete person %s: %w", id, err)
	}
	if deleted {
		s.recorder.PersonDeleted()
		logging.FromContext(ctx).Info("person deleted", "person_id", *id)
	}
	return deleted, nil
}

// lookupCountry returns the referenced country, nil for no reference and
// ErrUnknownCountry for a dangling one.
func (s *PersonsService) lookupCountry(ctx context.Context, id *uuid.UUID) (*Country, error) {
	if id == nil {
		return nil, nil
	}
	country, err := s.countries.GetCountryByCountryID(ctx, *id)
	if err != nil {
		return nil, fmt.Errorf("get country %s: %w", id, err)
	}
	if country == nil {
		return nil, ErrUnknownCountry
	}
	return country, nil
}

func (s *PersonsService) toResponses(persons []Person) []PersonResponse {
	now := s.now()
	out := make([]PersonResponse, len(persons))
	for i, p := range persons {
		out[i] = p.ToPersonResponse(now)
	}
	return out
}
