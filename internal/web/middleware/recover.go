package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/JonMunkholm/contacts/internal/logging"
)

// ErrorResponder writes an error response for a failed request.
type ErrorResponder func(w http.ResponseWriter, r *http.Request, status int, err error)

// Recover turns a panic into a logged error and a 500 written by respond.
// The log entry names the panic value's type and message.
func Recover(respond ErrorResponder) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}

				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				logging.FromContext(r.Context()).Error("panic recovered",
					"type", fmt.Sprintf("%T", rec),
					"message", err.Error(),
					"path", r.URL.Path,
					"stack", string(debug.Stack()),
				)
				respond(w, r, http.StatusInternalServerError, errors.Join(errPanic, err))
			}()
			next.ServeHTTP(w, r)
		})
	}
}

var errPanic = errors.New("internal error")
