package core

import (
	"context"

	"github.com/google/uuid"
)

// CountriesRepository stores countries. Lookups return nil, nil when the
// country does not exist.
type CountriesRepository interface {
	AddCountry(ctx context.Context, country Country) (Country, error)
	GetAllCountries(ctx context.Context) ([]Country, error)
	GetCountryByCountryID(ctx context.Context, id uuid.UUID) (*Country, error)
	GetCountryByCountryName(ctx context.Context, name string) (*Country, error)
}

// PersonsRepository stores persons. Reads populate Person.Country.
type PersonsRepository interface {
	AddPerson(ctx context.Context, person Person) (Person, error)
	GetAllPersons(ctx context.Context) ([]Person, error)
	GetPersonByPersonID(ctx context.Context, id uuid.UUID) (*Person, error)
	GetFilteredPersons(ctx context.Context, filter PersonFilter) ([]Person, error)

	// DeletePersonByPersonID reports whether a row was removed.
	DeletePersonByPersonID(ctx context.Context, id uuid.UUID) (bool, error)

	// UpdatePerson returns ErrInvalidPersonID when no row matches.
	UpdatePerson(ctx context.Context, person Person) (Person, error)
}

// Recorder receives domain events, typically for metrics.
type Recorder interface {
	PersonAdded()
	PersonUpdated()
	PersonDeleted()
	CountryAdded()
	CountriesImported(n int)
	PersonsExported(format string)
}

type nopRecorder struct{}

func (nopRecorder) PersonAdded()           {}
func (nopRecorder) PersonUpdated()         {}
func (nopRecorder) PersonDeleted()         {}
func (nopRecorder) CountryAdded()          {}
func (nopRecorder) CountriesImported(int)  {}
func (nopRecorder) PersonsExported(string) {}
