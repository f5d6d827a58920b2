package web

import (
	"net/http"

	"github.com/a-h/templ"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/web/templates"
)

const personsIndexPath = "/persons/index"

// renderPage writes an HTML component with the given status.
func renderPage(w http.ResponseWriter, r *http.Request, status int, c templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := c.Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render page", "error", err)
	}
}

func redirectToIndex(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, personsIndexPath, http.StatusFound)
}

// listPersons runs the search then the sort for a normalized list query.
func (s *Server) listPersons(r *http.Request, lq listQuery) ([]core.PersonResponse, error) {
	persons, err := s.persons.GetFilteredPersons(r.Context(), lq.SearchBy, lq.SearchString)
	if err != nil {
		return nil, err
	}
	return s.persons.GetSortedPersons(persons, lq.SortBy, lq.SortOrder), nil
}

// handlePersonsIndex renders the searchable, sortable person list.
func (s *Server) handlePersonsIndex(w http.ResponseWriter, r *http.Request) {
	lq := parseListQuery(r)
	logging.FromContext(r.Context()).Debug("persons index",
		"search_by", lq.SearchBy,
		"search_string", lq.SearchString,
		"sort_by", lq.SortBy,
		"sort_order", lq.SortOrder,
	)

	persons, err := s.listPersons(r, lq)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	renderPage(w, r, http.StatusOK, templates.PersonsIndex(templates.PersonsListView{
		Persons:      persons,
		SearchBy:     lq.SearchBy,
		SearchString: lq.SearchString,
		SortBy:       lq.SortBy,
		SortOrder:    lq.SortOrder,
		PDFEnabled:   s.cfg.Features.PDFExport,
	}))
}

func createView(values templates.PersonFormValues, errs []string) templates.PersonFormView {
	return templates.PersonFormView{
		Title:  "Create Person",
		Action: "/persons/create",
		Submit: "Create",
		Values: values,
		Errors: errs,
	}
}

func editView(values templates.PersonFormValues, errs []string) templates.PersonFormView {
	return templates.PersonFormView{
		Title:  "Edit Person",
		Action: "/persons/edit/" + values.PersonID,
		Submit: "Update",
		Values: values,
		Errors: errs,
	}
}

func (s *Server) handlePersonCreateForm(w http.ResponseWriter, r *http.Request) {
	s.renderPersonForm(w, r, createView(templates.PersonFormValues{}, nil), http.StatusOK)
}

func (s *Server) handlePersonCreate(w http.ResponseWriter, r *http.Request) {
	req, values, errs := s.bindPersonForm(r)
	if len(errs) > 0 {
		s.renderPersonForm(w, r, createView(values, errs), http.StatusUnprocessableEntity)
		return
	}

	add := core.PersonAddRequest{
		PersonName:         req.PersonName,
		Email:              req.Email,
		DateOfBirth:        req.DateOfBirth,
		Gender:             req.Gender,
		CountryID:          req.CountryID,
		Address:            req.Address,
		ReceiveNewsLetters: req.ReceiveNewsLetters,
	}
	if _, err := s.persons.AddPerson(r.Context(), &add); err != nil {
		if status := statusFor(err); status < http.StatusInternalServerError {
			s.renderPersonForm(w, r, createView(values, []string{core.FormatUserError(err)}), http.StatusUnprocessableEntity)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	redirectToIndex(w, r)
}

// personFromURL loads the person named by the personID path parameter.
// A malformed or unknown ID yields nil.
func (s *Server) personFromURL(r *http.Request) (*core.PersonResponse, error) {
	id, err := uuid.Parse(chi.URLParam(r, "personID"))
	if err != nil {
		return nil, nil
	}
	return s.persons.GetPersonByPersonID(r.Context(), &id)
}

func (s *Server) handlePersonEditForm(w http.ResponseWriter, r *http.Request) {
	person, err := s.personFromURL(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if person == nil {
		redirectToIndex(w, r)
		return
	}
	s.renderPersonForm(w, r, editView(templates.FormValuesFromPerson(*person), nil), http.StatusOK)
}

func (s *Server) handlePersonEdit(w http.ResponseWriter, r *http.Request) {
	person, err := s.personFromURL(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if person == nil {
		redirectToIndex(w, r)
		return
	}

	req, values, errs := s.bindPersonForm(r)
	req.PersonID = person.PersonID
	values.PersonID = person.PersonID.String()
	if len(errs) > 0 {
		s.renderPersonForm(w, r, editView(values, errs), http.StatusUnprocessableEntity)
		return
	}

	if _, err := s.persons.UpdatePerson(r.Context(), &req); err != nil {
		if status := statusFor(err); status < http.StatusInternalServerError {
			s.renderPersonForm(w, r, editView(values, []string{core.FormatUserError(err)}), http.StatusUnprocessableEntity)
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	redirectToIndex(w, r)
}

func (s *Server) handlePersonDeleteForm(w http.ResponseWriter, r *http.Request) {
	person, err := s.personFromURL(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if person == nil {
		redirectToIndex(w, r)
		return
	}
	renderPage(w, r, http.StatusOK, templates.PersonDelete(*person))
}

func (s *Server) handlePersonDelete(w http.ResponseWriter, r *http.Request) {
	person, err := s.personFromURL(r)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if person != nil {
		if _, err := s.persons.DeletePerson(r.Context(), &person.PersonID); err != nil {
			s.respondError(w, r, err, statusFor(err))
			return
		}
	}
	redirectToIndex(w, r)
}
