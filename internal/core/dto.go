package core

import (
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
)

// CountryAddRequest is the input for adding a country.
type CountryAddRequest struct {
	CountryName string `json:"CountryName"`
}

// ToCountry builds a Country without an ID.
func (r CountryAddRequest) ToCountry() Country {
	return Country{CountryName: strings.TrimSpace(r.CountryName)}
}

// CountryResponse is the outward view of a Country.
type CountryResponse struct {
	CountryID   uuid.UUID `json:"CountryID"`
	CountryName string    `json:"CountryName"`
}

// ToCountryResponse projects c.
func (c Country) ToCountryResponse() CountryResponse {
	return CountryResponse{CountryID: c.CountryID, CountryName: c.CountryName}
}

// PersonAddRequest is the input for adding a person.
type PersonAddRequest struct {
	PersonName         string        `json:"PersonName"`
	Email              string        `json:"Email"`
	DateOfBirth        *time.Time    `json:"DateOfBirth,omitempty"`
	Gender             GenderOptions `json:"Gender"`
	CountryID          *uuid.UUID    `json:"CountryID,omitempty"`
	Address            string        `json:"Address"`
	ReceiveNewsLetters bool          `json:"ReceiveNewsLetters"`
}

// ToPerson builds a Person without an ID.
func (r PersonAddRequest) ToPerson() Person {
	return newPerson(uuid.Nil, r.PersonName, r.Email, r.DateOfBirth, r.Gender, r.CountryID, r.Address, r.ReceiveNewsLetters)
}

// PersonUpdateRequest is the input for updating an existing person.
type PersonUpdateRequest struct {
	PersonID           uuid.UUID     `json:"PersonID"`
	PersonName         string        `json:"PersonName"`
	Email              string        `json:"Email"`
	DateOfBirth        *time.Time    `json:"DateOfBirth,omitempty"`
	Gender             GenderOptions `json:"Gender"`
	CountryID          *uuid.UUID    `json:"CountryID,omitempty"`
	Address            string        `json:"Address"`
	ReceiveNewsLetters bool          `json:"ReceiveNewsLetters"`
}

// ToPerson builds the Person the update should leave behind.
func (r PersonUpdateRequest) ToPerson() Person {
	return newPerson(r.PersonID, r.PersonName, r.Email, r.DateOfBirth, r.Gender, r.CountryID, r.Address, r.ReceiveNewsLetters)
}

func newPerson(id uuid.UUID, name, email string, dob *time.Time, gender GenderOptions, countryID *uuid.UUID, address string, news bool) Person {
	g, _ := ParseGender(string(gender))
	if countryID != nil && *countryID == uuid.Nil {
		countryID = nil
	}
	return Person{
		PersonID:           id,
		PersonName:         strings.TrimSpace(name),
		Email:              strings.TrimSpace(email),
		DateOfBirth:        dob,
		Gender:             string(g),
		CountryID:          countryID,
		Address:            strings.TrimSpace(address),
		ReceiveNewsLetters: news,
	}
}

// PersonResponse is the outward view of a Person with derived fields.
type PersonResponse struct {
	PersonID           uuid.UUID  `json:"PersonID"`
	PersonName         string     `json:"PersonName"`
	Email              string     `json:"Email"`
	DateOfBirth        *time.Time `json:"DateOfBirth,omitempty"`
	Gender             string     `json:"Gender"`
	CountryID          *uuid.UUID `json:"CountryID,omitempty"`
	Country            string     `json:"Country"`
	Address            string     `json:"Address"`
	ReceiveNewsLetters bool       `json:"ReceiveNewsLetters"`
	Age                *int       `json:"Age,omitempty"`
}

// ToPersonResponse projects p, computing Age relative to now.
func (p Person) ToPersonResponse(now time.Time) PersonResponse {
	resp := PersonResponse{
		PersonID:           p.PersonID,
		PersonName:         p.PersonName,
		Email:              p.Email,
		DateOfBirth:        p.DateOfBirth,
		Gender:             p.Gender,
		CountryID:          p.CountryID,
		Address:            p.Address,
		ReceiveNewsLetters: p.ReceiveNewsLetters,
	}
	if p.Country != nil {
		resp.Country = p.Country.CountryName
	}
	if p.DateOfBirth != nil {
		age := AgeAt(*p.DateOfBirth, now)
		resp.Age = &age
	}
	return resp
}

// AgeAt returns whole years between dob and now, counting a year as 365.25
// days and rounding to the nearest integer.
func AgeAt(dob, now time.Time) int {
	days := now.Sub(dob).Hours() / 24
	return int(math.Round(days / 365.25))
}

// Equal compares every stored field. Age and Country are derived and ignored.
func (p PersonResponse) Equal(o PersonResponse) bool {
	return p.PersonID == o.PersonID &&
		p.PersonName == o.PersonName &&
		p.Email == o.Email &&
		equalDate(p.DateOfBirth, o.DateOfBirth) &&
		p.Gender == o.Gender &&
		equalUUID(p.CountryID, o.CountryID) &&
		p.Address == o.Address &&
		p.ReceiveNewsLetters == o.ReceiveNewsLetters
}

// ToPersonUpdateRequest converts the response back into an edit request.
func (p PersonResponse) ToPersonUpdateRequest() PersonUpdateRequest {
	g, _ := ParseGender(p.Gender)
	return PersonUpdateRequest{
		PersonID:           p.PersonID,
		PersonName:         p.PersonName,
		Email:              p.Email,
		DateOfBirth:        p.DateOfBirth,
		Gender:             g,
		CountryID:          p.CountryID,
		Address:            p.Address,
		ReceiveNewsLetters: p.ReceiveNewsLetters,
	}
}

func equalDate(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func equalUUID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
