package repository

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
)

// MemoryStore keeps countries and persons in process memory. It implements
// both core.CountriesRepository and core.PersonsRepository and is safe for
// concurrent use. Persons keep insertion order.
type MemoryStore struct {
	mu        sync.RWMutex
	countries []core.Country
	persons   []core.Person
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// ==================== Countries ====================

func (m *MemoryStore) AddCountry(_ context.Context, country core.Country) (core.Country, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, c := range m.countries {
		if strings.EqualFold(c.CountryName, country.CountryName) {
			return core.Country{}, core.ErrDuplicateCountry
		}
	}
	m.countries = append(m.countries, country)
	return country, nil
}

func (m *MemoryStore) GetAllCountries(context.Context) ([]core.Country, error) {
	m.mu.RLock()
	out := slices.Clone(m.countries)
	m.mu.RUnlock()

	slices.SortStableFunc(out, func(a, b core.Country) int {
		return strings.Compare(strings.ToLower(a.CountryName), strings.ToLower(b.CountryName))
	})
	return out, nil
}

func (m *MemoryStore) GetCountryByCountryID(_ context.Context, id uuid.UUID) (*core.Country, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.countryByID(id), nil
}

func (m *MemoryStore) GetCountryByCountryName(_ context.Context, name string) (*core.Country, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	name = strings.TrimSpace(name)
	for _, c := range m.countries {
		if strings.EqualFold(c.CountryName, name) {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

// countryByID must be called with mu held.
func (m *MemoryStore) countryByID(id uuid.UUID) *core.Country {
	for _, c := range m.countries {
		if c.CountryID == id {
			c := c
			return &c
		}
	}
	return nil
}

// ==================== Persons ====================

func (m *MemoryStore) AddPerson(_ context.Context, person core.Person) (core.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	person.Country = nil
	m.persons = append(m.persons, person)
	return m.withCountry(person), nil
}

func (m *MemoryStore) GetAllPersons(ctx context.Context) ([]core.Person, error) {
	return m.GetFilteredPersons(ctx, core.PersonFilter{})
}

func (m *MemoryStore) GetPersonByPersonID(_ context.Context, id uuid.UUID) (*core.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if i := m.personIndex(id); i >= 0 {
		p := m.withCountry(m.persons[i])
		return &p, nil
	}
	return nil, nil
}

func (m *MemoryStore) GetFilteredPersons(_ context.Context, filter core.PersonFilter) ([]core.Person, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]core.Person, 0, len(m.persons))
	for _, p := range m.persons {
		p = m.withCountry(p)
		if filter.Match(p) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *MemoryStore) DeletePersonByPersonID(_ context.Context, id uuid.UUID) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.personIndex(id)
	if i < 0 {
		return false, nil
	}
	m.persons = slices.Delete(m.persons, i, i+1)
	return true, nil
}

func (m *MemoryStore) UpdatePerson(_ context.Context, person core.Person) (core.Person, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.personIndex(person.PersonID)
	if i < 0 {
		return core.Person{}, core.ErrInvalidPersonID
	}
	person.Country = nil
	m.persons[i] = person
	return m.withCountry(person), nil
}

// personIndex must be called with mu held.
func (m *MemoryStore) personIndex(id uuid.UUID) int {
	return slices.IndexFunc(m.persons, func(p core.Person) bool { return p.PersonID == id })
}

// withCountry must be called with mu held.
func (m *MemoryStore) withCountry(p core.Person) core.Person {
	if p.CountryID != nil {
		p.Country = m.countryByID(*p.CountryID)
	}
	return p
}
