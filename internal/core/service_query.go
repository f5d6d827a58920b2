package core

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/contacts/internal/logging"
)

// GetFilteredPersons returns persons whose searchBy field contains
// searchString, ignoring case. An unknown field or empty input returns
// every person.
func (s *PersonsService) GetFilteredPersons(ctx context.Context, searchBy, searchString string) ([]PersonResponse, error) {
	filter := PersonFilter{Field: SearchField(searchBy), Term: searchString}
	if !filter.Active() {
		return s.GetAllPersons(ctx)
	}

	done := logging.Timed(ctx, "filter persons", "search_by", searchBy)
	persons, err := s.persons.GetFilteredPersons(ctx, filter)
	done(err)
	if err != nil {
		return nil, fmt.Errorf("filter persons by %s: %w", searchBy, err)
	}
	return s.toResponses(persons), nil
}

// GetSortedPersons orders persons by sortBy. Strings compare
// case-insensitively and missing values sort first in ascending order.
// An unknown field returns persons unchanged.
func (s *PersonsService) GetSortedPersons(persons []PersonResponse, sortBy string, order SortOrder) []PersonResponse {
	return SortPersons(persons, sortBy, order)
}
