package templates

import (
	"context"

	"github.com/a-h/templ"
)

const styles = `body{font-family:system-ui,sans-serif;margin:0;color:#222}
header{background:#2b3a55;color:#fff;padding:.75rem 2rem;display:flex;gap:1.5rem;align-items:center}
header a{color:#fff;text-decoration:none}
main{padding:1.5rem 2rem}
table{border-collapse:collapse;width:100%}
th,td{border:1px solid #ccc;padding:.4rem .6rem;text-align:left}
th{background:#eee}
th a{color:inherit}
form.inline{display:flex;gap:.5rem;margin-bottom:1rem;flex-wrap:wrap}
.form-row{margin-bottom:.75rem}
.form-row label{display:block;font-weight:600;margin-bottom:.2rem}
.alert{padding:.75rem 1rem;border-radius:4px;margin-bottom:1rem}
.alert-error{background:#fde8e8;border:1px solid #f5b5b5}
.alert-info{background:#e8f1fd;border:1px solid #b5cdf5}
.actions{display:flex;gap:.75rem;margin-bottom:1rem}
.muted{color:#777}`

// Layout wraps body in the page chrome with the navigation bar.
func Layout(title string, body templ.Component) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<!DOCTYPE html><html lang="en"><head><meta charset="utf-8">`,
			`<meta name="viewport" content="width=device-width, initial-scale=1">`,
			`<title>`)
		h.text(title)
		h.raw(` | Contacts Manager</title><style>`, styles, `</style></head><body>`,
			`<header><strong>Contacts Manager</strong>`,
			`<a href="/persons/index">Persons</a>`,
			`<a href="/persons/create">Create Person</a>`,
			`<a href="/countries/uploadfromexcel">Upload Countries</a>`,
			`</header><main><h1>`)
		h.text(title)
		h.raw(`</h1>`)
		h.component(ctx, body)
		h.raw(`</main></body></html>`)
	})
}
