package templates

import (
	"context"
	"net/url"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/contacts/internal/core"
)

// PersonsListView is the state of the person list page.
type PersonsListView struct {
	Persons      []core.PersonResponse
	SearchBy     string
	SearchString string
	SortBy       string
	SortOrder    core.SortOrder
	PDFEnabled   bool
}

// query returns the list parameters, optionally overriding the sort.
func (v PersonsListView) query(sortBy string, order core.SortOrder) url.Values {
	q := url.Values{}
	if v.SearchBy != "" {
		q.Set("searchBy", v.SearchBy)
	}
	if v.SearchString != "" {
		q.Set("searchString", v.SearchString)
	}
	q.Set("sortBy", sortBy)
	q.Set("sortOrder", string(order))
	return q
}

type listColumn struct {
	sort  core.SortField
	title string
}

var listColumns = []listColumn{
	{core.SortPersonName, "Person Name"},
	{core.SortEmail, "Email"},
	{core.SortDateOfBirth, "Date of Birth"},
	{core.SortAge, "Age"},
	{core.SortGender, "Gender"},
	{core.SortCountry, "Country"},
	{core.SortAddress, "Address"},
	{core.SortReceiveNewsLetters, "Receive News Letters"},
}

// PersonsIndex renders the searchable, sortable person table.
func PersonsIndex(v PersonsListView) templ.Component {
	return Layout("Persons", component(func(ctx context.Context, h *html) {
		h.raw(`<div class="actions"><a href="/persons/create">Create Person</a>`,
			`<a href="/persons/personscsv">Download as CSV</a>`,
			`<a href="/persons/personsexcel">Download as Excel</a>`)
		if v.PDFEnabled {
			h.raw(`<a href="/persons/personspdf">Download as PDF</a>`)
		}
		h.raw(`</div>`)

		h.raw(`<form class="inline" method="get" action="/persons/index">`,
			`<select name="searchBy" aria-label="Search by">`)
		for _, opt := range core.SearchOptions {
			h.raw(`<option value="`)
			h.text(string(opt.Field))
			h.raw(`"`)
			if string(opt.Field) == v.SearchBy {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(opt.Label)
			h.raw(`</option>`)
		}
		h.raw(`</select><input type="search" name="searchString" placeholder="Search" value="`)
		h.text(v.SearchString)
		h.raw(`"><input type="hidden" name="sortBy" value="`)
		h.text(v.SortBy)
		h.raw(`"><input type="hidden" name="sortOrder" value="`)
		h.text(string(v.SortOrder))
		h.raw(`"><button type="submit">Search</button>`,
			`<a href="/persons/index">Clear all</a></form>`)

		h.raw(`<table class="persons"><thead><tr>`)
		for _, col := range listColumns {
			order := core.SortAsc
			marker := ""
			if string(col.sort) == v.SortBy {
				if v.SortOrder == core.SortAsc {
					order = core.SortDesc
					marker = " &#9650;"
				} else {
					marker = " &#9660;"
				}
			}
			h.raw(`<th><a href="`)
			h.href(withQuery("/persons/index", v.query(string(col.sort), order)))
			h.raw(`">`)
			h.text(col.title)
			h.raw(marker, `</a></th>`)
		}
		h.raw(`<th>Options</th></tr></thead><tbody>`)

		if len(v.Persons) == 0 {
			h.raw(`<tr><td colspan="9" class="muted">No persons found</td></tr>`)
		}
		for _, p := range v.Persons {
			personRow(h, p)
		}
		h.raw(`</tbody></table>`)
	}))
}

func personRow(h *html, p core.PersonResponse) {
	id := p.PersonID.String()
	h.raw(`<tr><td>`)
	h.text(p.PersonName)
	h.raw(`</td><td>`)
	h.text(p.Email)
	h.raw(`</td><td>`)
	if p.DateOfBirth != nil {
		h.text(p.DateOfBirth.Format(core.DateLayoutDisplay))
	}
	h.raw(`</td><td>`)
	if p.Age != nil {
		h.text(strconv.Itoa(*p.Age))
	}
	h.raw(`</td><td>`)
	h.text(p.Gender)
	h.raw(`</td><td>`)
	h.text(p.Country)
	h.raw(`</td><td>`)
	h.text(p.Address)
	h.raw(`</td><td>`)
	h.text(strconv.FormatBool(p.ReceiveNewsLetters))
	h.raw(`</td><td><a href="/persons/edit/`, id, `">Edit</a> <a href="/persons/delete/`, id, `">Delete</a></td></tr>`)
}

// PersonDelete asks for confirmation before a person is removed.
func PersonDelete(p core.PersonResponse) templ.Component {
	return Layout("Delete Person", component(func(ctx context.Context, h *html) {
		h.raw(`<p>Are you sure you want to delete <strong>`)
		h.text(p.PersonName)
		h.raw(`</strong>?</p><form method="post" action="/persons/delete/`, p.PersonID.String(), `">`,
			`<input type="hidden" name="PersonID" value="`, p.PersonID.String(), `">`,
			`<button type="submit">Delete</button> <a href="/persons/index">Cancel</a></form>`)
	}))
}
