package templates

import (
	"context"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/contacts/internal/core"
)

// PersonFormValues holds submitted form fields as text so an invalid
// submission can be shown back unchanged.
type PersonFormValues struct {
	PersonID           string
	PersonName         string
	Email              string
	DateOfBirth        string
	Gender             string
	CountryID          string
	Address            string
	ReceiveNewsLetters bool
}

// FormValuesFromPerson fills the edit form from a stored person.
func FormValuesFromPerson(p core.PersonResponse) PersonFormValues {
	v := PersonFormValues{
		PersonID:           p.PersonID.String(),
		PersonName:         p.PersonName,
		Email:              p.Email,
		Gender:             p.Gender,
		Address:            p.Address,
		ReceiveNewsLetters: p.ReceiveNewsLetters,
	}
	if p.DateOfBirth != nil {
		v.DateOfBirth = p.DateOfBirth.Format(core.DateLayoutISO)
	}
	if p.CountryID != nil {
		v.CountryID = p.CountryID.String()
	}
	return v
}

// PersonFormView drives both the create and the edit page.
type PersonFormView struct {
	Title     string
	Action    string
	Submit    string
	Values    PersonFormValues
	Countries []core.CountryResponse
	Errors    []string
}

// PersonForm renders the create/edit form with any validation errors.
func PersonForm(v PersonFormView) templ.Component {
	return Layout(v.Title, component(func(ctx context.Context, h *html) {
		h.errorList(v.Errors)

		h.raw(`<form method="post" action="`)
		h.href(v.Action)
		h.raw(`">`)
		if v.Values.PersonID != "" {
			h.raw(`<input type="hidden" name="PersonID" value="`)
			h.text(v.Values.PersonID)
			h.raw(`">`)
		}

		textInput(h, "PersonName", "Person Name", "text", v.Values.PersonName)
		textInput(h, "Email", "Email", "email", v.Values.Email)
		textInput(h, "DateOfBirth", "Date of Birth", "date", v.Values.DateOfBirth)

		h.raw(`<div class="form-row"><span>Gender</span>`)
		for _, g := range core.Genders {
			h.raw(`<label><input type="radio" name="Gender" value="`)
			h.text(string(g))
			h.raw(`"`)
			if string(g) == v.Values.Gender {
				h.raw(` checked`)
			}
			h.raw(`> `)
			h.text(string(g))
			h.raw(`</label>`)
		}
		h.raw(`</div>`)

		h.raw(`<div class="form-row"><label for="CountryID">Country</label>`,
			`<select id="CountryID" name="CountryID"><option value="">Please Select</option>`)
		for _, c := range v.Countries {
			id := c.CountryID.String()
			h.raw(`<option value="`, id, `"`)
			if id == v.Values.CountryID {
				h.raw(` selected`)
			}
			h.raw(`>`)
			h.text(c.CountryName)
			h.raw(`</option>`)
		}
		h.raw(`</select></div>`)

		h.raw(`<div class="form-row"><label for="Address">Address</label>`,
			`<textarea id="Address" name="Address">`)
		h.text(v.Values.Address)
		h.raw(`</textarea></div>`)

		h.raw(`<div class="form-row"><label><input type="checkbox" name="ReceiveNewsLetters" value="true"`)
		if v.Values.ReceiveNewsLetters {
			h.raw(` checked`)
		}
		h.raw(`> Receive News Letters</label></div>`)

		h.raw(`<button type="submit">`)
		h.text(v.Submit)
		h.raw(`</button> <a href="/persons/index">Back to Persons List</a></form>`)
	}))
}

func textInput(h *html, name, label, kind, value string) {
	h.raw(`<div class="form-row"><label for="`, name, `">`)
	h.text(label)
	h.raw(`</label><input id="`, name, `" name="`, name, `" type="`, kind, `" value="`)
	h.text(value)
	h.raw(`"></div>`)
}

// UploadView is the state of the country upload page.
type UploadView struct {
	Message string
	Error   string
}

// UploadCountries renders the country workbook upload form.
func UploadCountries(v UploadView) templ.Component {
	return Layout("Upload Countries", component(func(ctx context.Context, h *html) {
		if v.Error != "" {
			h.errorList([]string{v.Error})
		}
		if v.Message != "" {
			h.raw(`<div class="alert alert-info" role="status">`)
			h.text(v.Message)
			h.raw(`</div>`)
		}
		h.raw(`<form method="post" action="/countries/uploadfromexcel" enctype="multipart/form-data">`,
			`<div class="form-row"><label for="excelFile">Select an xlsx file</label>`,
			`<input id="excelFile" type="file" name="excelFile" accept=".xlsx,.csv"></div>`,
			`<button type="submit">Upload</button></form>`,
			`<p class="muted">The first column of the Countries worksheet is read. Existing names are skipped.</p>`)
	}))
}
