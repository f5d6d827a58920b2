package core

// search.go holds the field-keyed dispatch tables behind person filtering
// and sorting. Repositories, handlers and services all look fields up here.

import (
	"cmp"
	"slices"
	"strings"
	"time"
)

// SearchField names a person property that can be searched.
type SearchField string

const (
	SearchPersonName  SearchField = "PersonName"
	SearchEmail       SearchField = "Email"
	SearchDateOfBirth SearchField = "DateOfBirth"
	SearchGender      SearchField = "Gender"
	SearchCountry     SearchField = "CountryID"
	SearchAddress     SearchField = "Address"
)

// SearchOption pairs a field with its label for the search dropdown.
type SearchOption struct {
	Field SearchField
	Label string
}

// SearchOptions lists the searchable fields in display order.
var SearchOptions = []SearchOption{
	{SearchPersonName, "Person Name"},
	{SearchEmail, "Email"},
	{SearchDateOfBirth, "Date of Birth"},
	{SearchGender, "Gender"},
	{SearchCountry, "Country"},
	{SearchAddress, "Address"},
}

var searchAccessors = map[SearchField]func(Person) string{
	SearchPersonName: func(p Person) string { return p.PersonName },
	SearchEmail:      func(p Person) string { return p.Email },
	SearchDateOfBirth: func(p Person) string {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format(DateLayoutSearch)
	},
	SearchGender: func(p Person) string { return p.Gender },
	SearchCountry: func(p Person) string {
		if p.Country == nil {
			return ""
		}
		return p.Country.CountryName
	},
	SearchAddress: func(p Person) string { return p.Address },
}

// IsSearchField reports whether s names a searchable field.
func IsSearchField(s string) bool {
	_, ok := searchAccessors[SearchField(s)]
	return ok
}

// PersonFilter is a case-insensitive substring search on one field.
type PersonFilter struct {
	Field SearchField
	Term  string
}

// Active reports whether the filter restricts anything. Unknown fields and
// empty terms select every person.
func (f PersonFilter) Active() bool {
	return f.Term != "" && IsSearchField(string(f.Field))
}

// Match reports whether p satisfies the filter.
func (f PersonFilter) Match(p Person) bool {
	if !f.Active() {
		return true
	}
	value := searchAccessors[f.Field](p)
	return strings.Contains(strings.ToLower(value), strings.ToLower(f.Term))
}

// SortField names a person property the list can be ordered by.
type SortField string

const (
	SortPersonName         SortField = "PersonName"
	SortEmail              SortField = "Email"
	SortDateOfBirth        SortField = "DateOfBirth"
	SortAge                SortField = "Age"
	SortGender             SortField = "Gender"
	SortCountry            SortField = "Country"
	SortAddress            SortField = "Address"
	SortReceiveNewsLetters SortField = "ReceiveNewsLetters"
)

var personComparators = map[SortField]func(a, b PersonResponse) int{
	SortPersonName: func(a, b PersonResponse) int { return compareFold(a.PersonName, b.PersonName) },
	SortEmail:      func(a, b PersonResponse) int { return compareFold(a.Email, b.Email) },
	SortDateOfBirth: func(a, b PersonResponse) int {
		return comparePtr(a.DateOfBirth, b.DateOfBirth, time.Time.Compare)
	},
	SortAge: func(a, b PersonResponse) int {
		return comparePtr(a.Age, b.Age, cmp.Compare[int])
	},
	SortGender:  func(a, b PersonResponse) int { return compareFold(a.Gender, b.Gender) },
	SortCountry: func(a, b PersonResponse) int { return compareFold(a.Country, b.Country) },
	SortAddress: func(a, b PersonResponse) int { return compareFold(a.Address, b.Address) },
	SortReceiveNewsLetters: func(a, b PersonResponse) int {
		return cmp.Compare(boolRank(a.ReceiveNewsLetters), boolRank(b.ReceiveNewsLetters))
	},
}

// IsSortField reports whether s names a sortable field.
func IsSortField(s string) bool {
	_, ok := personComparators[SortField(s)]
	return ok
}

// SortPersons returns a stably sorted copy of persons. An unknown field
// returns persons unchanged.
func SortPersons(persons []PersonResponse, sortBy string, order SortOrder) []PersonResponse {
	compare, ok := personComparators[SortField(sortBy)]
	if !ok {
		return persons
	}

	sorted := slices.Clone(persons)
	slices.SortStableFunc(sorted, func(a, b PersonResponse) int {
		if order == SortDesc {
			return compare(b, a)
		}
		return compare(a, b)
	})
	return sorted
}

func compareFold(a, b string) int {
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// comparePtr orders nil before any value.
func comparePtr[T any](a, b *T, compare func(x, y T) int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return compare(*a, *b)
}

func boolRank(b bool) int {
	if b {
		return 1
	}
	return 0
}
