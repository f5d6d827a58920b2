package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
)

// PersonsListResponse is the body of GET /api/persons.
type PersonsListResponse struct {
	Persons      []core.PersonResponse `json:"persons"`
	Count        int                   `json:"count"`
	SearchBy     string                `json:"searchBy,omitempty"`
	SearchString string                `json:"searchString,omitempty"`
	SortBy       string                `json:"sortBy"`
	SortOrder    core.SortOrder        `json:"sortOrder"`
}

// handleAPIPersons lists persons with the same query parameters as the
// HTML list.
func (s *Server) handleAPIPersons(w http.ResponseWriter, r *http.Request) {
	lq := parseListQuery(r)
	persons, err := s.listPersons(r, lq)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if persons == nil {
		persons = []core.PersonResponse{}
	}

	writeJSON(w, http.StatusOK, PersonsListResponse{
		Persons:      persons,
		Count:        len(persons),
		SearchBy:     lq.SearchBy,
		SearchString: lq.SearchString,
		SortBy:       lq.SortBy,
		SortOrder:    lq.SortOrder,
	})
}

func (s *Server) handleAPIPerson(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "personID"))
	if err != nil {
		s.respondError(w, r, core.ErrInvalidPersonIDFormat, http.StatusBadRequest)
		return
	}

	person, err := s.persons.GetPersonByPersonID(r.Context(), &id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if person == nil {
		s.respondError(w, r, core.ErrInvalidPersonID, http.StatusNotFound)
		return
	}
	writeJSON(w, http.StatusOK, person)
}

func (s *Server) handleAPICountries(w http.ResponseWriter, r *http.Request) {
	countries, err := s.countries.GetAllCountries(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if countries == nil {
		countries = []core.CountryResponse{}
	}
	writeJSON(w, http.StatusOK, countries)
}
