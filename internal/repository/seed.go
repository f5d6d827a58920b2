package repository

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/logging"
)

//go:embed seed/countries.json seed/persons.json
var seedFS embed.FS

type seedCountry struct {
	CountryID   uuid.UUID `json:"CountryID"`
	CountryName string    `json:"CountryName"`
}

type seedPerson struct {
	PersonID           uuid.UUID  `json:"PersonID"`
	PersonName         string     `json:"PersonName"`
	Email              string     `json:"Email"`
	DateOfBirth        string     `json:"DateOfBirth"`
	Gender             string     `json:"Gender"`
	CountryID          *uuid.UUID `json:"CountryID"`
	Address            string     `json:"Address"`
	ReceiveNewsLetters bool       `json:"ReceiveNewsLetters"`
}

// SeedResult counts the rows Seed inserted.
type SeedResult struct {
	Countries int
	Persons   int
}

// LoadSeed decodes the bundled sample countries and persons.
func LoadSeed() ([]core.Country, []core.Person, error) {
	var rawCountries []seedCountry
	if err := decodeSeed("seed/countries.json", &rawCountries); err != nil {
		return nil, nil, err
	}
	var rawPersons []seedPerson
	if err := decodeSeed("seed/persons.json", &rawPersons); err != nil {
		return nil, nil, err
	}

	countries := make([]core.Country, len(rawCountries))
	for i, c := range rawCountries {
		countries[i] = core.Country{CountryID: c.CountryID, CountryName: c.CountryName}
	}

	persons := make([]core.Person, len(rawPersons))
	for i, p := range rawPersons {
		dob, ok := core.ParseDate(p.DateOfBirth)
		if !ok {
			return nil, nil, fmt.Errorf("seed person %s: invalid date %q", p.PersonID, p.DateOfBirth)
		}
		persons[i] = core.Person{
			PersonID:           p.PersonID,
			PersonName:         p.PersonName,
			Email:              p.Email,
			DateOfBirth:        dob,
			Gender:             p.Gender,
			CountryID:          p.CountryID,
			Address:            p.Address,
			ReceiveNewsLetters: p.ReceiveNewsLetters,
		}
	}
	return countries, persons, nil
}

func decodeSeed(name string, v any) error {
	data, err := seedFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode %s: %w", name, err)
	}
	return nil
}

// Seed inserts the bundled sample data. Rows whose ID already exists are
// skipped, so running it twice is harmless.
func Seed(ctx context.Context, countries core.CountriesRepository, persons core.PersonsRepository) (SeedResult, error) {
	seedCountries, seedPersons, err := LoadSeed()
	if err != nil {
		return SeedResult{}, err
	}

	var res SeedResult
	for _, c := range seedCountries {
		existing, err := countries.GetCountryByCountryID(ctx, c.CountryID)
		if err != nil {
			return res, fmt.Errorf("seed country %s: %w", c.CountryName, err)
		}
		if existing != nil {
			continue
		}
		if _, err := countries.AddCountry(ctx, c); err != nil {
			return res, fmt.Errorf("seed country %s: %w", c.CountryName, err)
		}
		res.Countries++
	}

	for _, p := range seedPersons {
		existing, err := persons.GetPersonByPersonID(ctx, p.PersonID)
		if err != nil {
			return res, fmt.Errorf("seed person %s: %w", p.PersonID, err)
		}
		if existing != nil {
			continue
		}
		if _, err := persons.AddPerson(ctx, p); err != nil {
			return res, fmt.Errorf("seed person %s: %w", p.PersonID, err)
		}
		res.Persons++
	}

	logging.FromContext(ctx).Info("seed data applied", "countries", res.Countries, "persons", res.Persons)
	return res, nil
}
