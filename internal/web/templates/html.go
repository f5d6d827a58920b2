// Package templates renders the contacts manager's HTML pages as templ
// components.
package templates

import (
	"context"
	"io"
	"net/url"

	"github.com/a-h/templ"
)

// html accumulates output and keeps the first write error.
type html struct {
	w   io.Writer
	err error
}

func (h *html) raw(parts ...string) {
	for _, s := range parts {
		if h.err != nil {
			return
		}
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

// href writes an escaped attribute value for a URL, replacing unsafe
// schemes with templ's failure marker.
func (h *html) href(u string) {
	h.text(string(templ.URL(u)))
}

func (h *html) component(ctx context.Context, c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(ctx, h.w)
	}
}

func (h *html) errorList(errs []string) {
	if len(errs) == 0 {
		return
	}
	h.raw(`<div class="alert alert-error" role="alert"><ul>`)
	for _, e := range errs {
		h.raw(`<li>`)
		h.text(e)
		h.raw(`</li>`)
	}
	h.raw(`</ul></div>`)
}

func component(fn func(ctx context.Context, h *html)) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := &html{w: w}
		fn(ctx, h)
		return h.err
	})
}

func withQuery(path string, q url.Values) string {
	if enc := q.Encode(); enc != "" {
		return path + "?" + enc
	}
	return path
}
