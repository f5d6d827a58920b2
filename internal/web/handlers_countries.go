package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/logging"
	"github.com/JonMunkholm/contacts/internal/web/templates"
)

const (
	uploadField        = "excelFile"
	msgSelectFile      = "Please select an xlsx file"
	msgUnsupportedFile = "Unsupported file. 'xlsx' expected"
)

func (s *Server) handleCountriesUploadForm(w http.ResponseWriter, r *http.Request) {
	renderPage(w, r, http.StatusOK, templates.UploadCountries(templates.UploadView{}))
}

// handleCountriesUpload imports countries from an uploaded .xlsx workbook
// or .csv file. Form problems are shown on the upload page itself.
func (s *Server) handleCountriesUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.Upload.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) || strings.Contains(err.Error(), "request body too large") {
			s.renderUpload(w, r, http.StatusRequestEntityTooLarge, templates.UploadView{Error: core.FormatUserError(err)})
			return
		}
		s.renderUpload(w, r, http.StatusBadRequest, templates.UploadView{Error: msgSelectFile})
		return
	}

	file, header, err := r.FormFile(uploadField)
	if err != nil || header.Size == 0 {
		if file != nil {
			file.Close()
		}
		s.renderUpload(w, r, http.StatusBadRequest, templates.UploadView{Error: msgSelectFile})
		return
	}
	defer file.Close()

	upload := s.countries.UploadCountriesFromExcelFile
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".xlsx":
	case ".csv":
		upload = s.countries.UploadCountriesFromCSV
	default:
		s.renderUpload(w, r, http.StatusUnsupportedMediaType, templates.UploadView{Error: msgUnsupportedFile})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.cfg.Upload.Timeout)
	defer cancel()

	logger := logging.FromContext(ctx)
	logger.Info("countries upload started", "filename", header.Filename, "size", header.Size)

	inserted, err := upload(ctx, file)
	if err != nil {
		status := statusFor(err)
		logger.Warn("countries upload failed", "filename", header.Filename, "status", status, "error", err)
		s.renderUpload(w, r, status, templates.UploadView{Error: core.FormatUserError(err)})
		return
	}

	logger.Info("countries upload finished", "filename", header.Filename, "inserted", inserted)
	s.renderUpload(w, r, http.StatusOK, templates.UploadView{Message: fmt.Sprintf("%d Countries Uploaded.", inserted)})
}

func (s *Server) renderUpload(w http.ResponseWriter, r *http.Request, status int, view templates.UploadView) {
	renderPage(w, r, status, templates.UploadCountries(view))
}
