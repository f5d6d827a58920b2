package templates

import (
	"context"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/JonMunkholm/contacts/internal/core"
)

// ErrorAlert renders msg as an inline alert.
func ErrorAlert(msg core.UserMessage) templ.Component {
	return component(func(ctx context.Context, h *html) {
		h.raw(`<div class="alert alert-error" role="alert"><strong>`)
		h.text(msg.Message)
		h.raw(`</strong>`)
		if msg.Action != "" {
			h.raw(`<p>`)
			h.text(msg.Action)
			h.raw(`</p>`)
		}
		if msg.Code != "" {
			h.raw(`<p class="muted">Error code: `)
			h.text(msg.Code)
			h.raw(`</p>`)
		}
		h.raw(`</div>`)
	})
}

// ErrorPage renders a full page for a failed request.
func ErrorPage(status int, msg core.UserMessage, requestID string) templ.Component {
	title := strconv.Itoa(status) + " " + http.StatusText(status)
	return Layout(title, component(func(ctx context.Context, h *html) {
		h.component(ctx, ErrorAlert(msg))
		if requestID != "" {
			h.raw(`<p class="muted">Request ID: `)
			h.text(requestID)
			h.raw(`</p>`)
		}
		h.raw(`<a href="/persons/index">Back to Persons List</a>`)
	}))
}
