package web

// filters.go holds the request-shaping steps that run around the person
// handlers: list parameter normalization and create/edit form binding.

import (
	"html"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/web/templates"
)

// listQuery is the normalized person list request.
type listQuery struct {
	SearchBy     string
	SearchString string
	SortBy       string
	SortOrder    core.SortOrder
}

// parseListQuery reads searchBy, searchString, sortBy and sortOrder.
// A non-empty unknown searchBy falls back to PersonName; an unknown sortBy
// falls back to PersonName in ascending order.
func parseListQuery(r *http.Request) listQuery {
	q := r.URL.Query()
	lq := listQuery{
		SearchBy:     strings.TrimSpace(q.Get("searchBy")),
		SearchString: strings.TrimSpace(q.Get("searchString")),
		SortBy:       strings.TrimSpace(q.Get("sortBy")),
		SortOrder:    core.ParseSortOrder(q.Get("sortOrder")),
	}

	if lq.SearchBy != "" && !core.IsSearchField(lq.SearchBy) {
		logging.FromContext(r.Context()).Info("searchBy reset", "actual", lq.SearchBy, "updated", core.SearchPersonName)
		lq.SearchBy = string(core.SearchPersonName)
	}
	if !core.IsSortField(lq.SortBy) {
		lq.SortBy = string(core.SortPersonName)
	}
	return lq
}

// bindPersonForm parses the submitted person fields. Markup is stripped from
// free-text fields. Parse failures are collected rather than returned so the
// form can show them alongside validation errors.
func (s *Server) bindPersonForm(r *http.Request) (core.PersonUpdateRequest, templates.PersonFormValues, []string) {
	var errs []string
	if err := r.ParseForm(); err != nil {
		errs = append(errs, "The form could not be read")
	}

	v := templates.PersonFormValues{
		PersonID:           strings.TrimSpace(r.PostFormValue("PersonID")),
		PersonName:         s.sanitize(r.PostFormValue("PersonName")),
		Email:              s.sanitize(r.PostFormValue("Email")),
		DateOfBirth:        strings.TrimSpace(r.PostFormValue("DateOfBirth")),
		Gender:             strings.TrimSpace(r.PostFormValue("Gender")),
		CountryID:          strings.TrimSpace(r.PostFormValue("CountryID")),
		Address:            s.sanitize(r.PostFormValue("Address")),
		ReceiveNewsLetters: core.ParseBool(r.PostFormValue("ReceiveNewsLetters")),
	}

	req := core.PersonUpdateRequest{
		PersonName:         v.PersonName,
		Email:              v.Email,
		Gender:             core.GenderOptions(v.Gender),
		Address:            v.Address,
		ReceiveNewsLetters: v.ReceiveNewsLetters,
	}

	if id, err := uuid.Parse(v.PersonID); err == nil {
		req.PersonID = id
	}
	if dob, ok := core.ParseDate(v.DateOfBirth); ok {
		req.DateOfBirth = dob
	} else {
		errs = append(errs, "Date of Birth is an invalid date")
	}
	if v.CountryID != "" {
		id, err := uuid.Parse(v.CountryID)
		if err != nil {
			errs = append(errs, "Country is an unknown country")
		} else {
			req.CountryID = &id
		}
	}

	errs = append(errs, req.Validate().Messages()...)
	return req, v, errs
}

// sanitize strips markup and surrounding whitespace, leaving plain text.
func (s *Server) sanitize(value string) string {
	return strings.TrimSpace(html.UnescapeString(s.sanitizer.Sanitize(value)))
}

// renderPersonForm re-renders a create/edit form with its errors. Invalid
// submissions answer 422 with the countries list reloaded.
func (s *Server) renderPersonForm(w http.ResponseWriter, r *http.Request, view templates.PersonFormView, status int) {
	countries, err := s.countries.GetAllCountries(r.Context())
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	view.Countries = countries
	if len(view.Errors) > 0 {
		logging.FromContext(r.Context()).Info("person form rejected", "errors", len(view.Errors))
	}
	renderPage(w, r, status, templates.PersonForm(view))
}
