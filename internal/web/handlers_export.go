package web

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/JonMunkholm/contacts/internal/core"
)

const (
	contentTypeCSV   = "text/csv; charset=utf-8"
	contentTypeExcel = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF   = "application/pdf"
)

// exportFilename returns a timestamped download name such as
// persons_20240115_143022.csv.
func exportFilename(ext string, now time.Time) string {
	return fmt.Sprintf("persons_%s.%s", now.Format("20060102_150405"), ext)
}

// serveExport renders into a buffer first so a failure can still be
// reported as an error page instead of a truncated file.
func (s *Server) serveExport(w http.ResponseWriter, r *http.Request, ext, contentType string, write func(context.Context, io.Writer) error) {
	var buf bytes.Buffer
	if err := write(r.Context(), &buf); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, exportFilename(ext, time.Now())))
	_, _ = buf.WriteTo(w)
}

func (s *Server) handlePersonsCSV(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, core.FormatCSV, contentTypeCSV, s.persons.WritePersonsCSV)
}

func (s *Server) handlePersonsExcel(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, core.FormatExcel, contentTypeExcel, s.persons.WritePersonsExcel)
}

func (s *Server) handlePersonsPDF(w http.ResponseWriter, r *http.Request) {
	s.serveExport(w, r, core.FormatPDF, contentTypePDF, s.persons.WritePersonsPDF)
}
