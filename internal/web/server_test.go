package web

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/contacts/internal/config"
	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/metrics"
	"github.com/JonMunkholm/contacts/internal/repository"
	"github.com/JonMunkholm/contacts/internal/web/middleware"
)

type testEnv struct {
	server    *Server
	store     *repository.MemoryStore
	persons   *core.PersonsService
	countries *core.CountriesService
	denmark   core.CountryResponse
}

func newTestEnv(t *testing.T, env map[string]string) *testEnv {
	t.Helper()
	t.Setenv("DB_DRIVER", "memory")
	t.Setenv("RATE_LIMIT_ENABLED", "false")
	for k, v := range env {
		t.Setenv(k, v)
	}
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load() error = %v", err)
	}

	store := repository.NewMemoryStore()
	now := func() time.Time { return time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC) }
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector(reg)

	persons := core.NewPersonsService(store, store, core.WithClock(now), core.WithPersonsRecorder(collector))
	countries := core.NewCountriesService(store, core.WithCountriesRecorder(collector),
		core.WithImportLimiter(core.NewImportLimiter(cfg.Upload.MaxConcurrent, cfg.Upload.MaxWaitTime)))

	denmark, err := countries.AddCountry(context.Background(), &core.CountryAddRequest{CountryName: "Denmark"})
	if err != nil {
		t.Fatalf("AddCountry() error = %v", err)
	}

	srv := NewServer(persons, countries, cfg, collector, reg)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	return &testEnv{server: srv, store: store, persons: persons, countries: countries, denmark: denmark}
}

func (e *testEnv) addPerson(t *testing.T, name, email string) core.PersonResponse {
	t.Helper()
	dob := time.Date(1990, 3, 4, 0, 0, 0, 0, time.UTC)
	p, err := e.persons.AddPerson(context.Background(), &core.PersonAddRequest{
		PersonName:  name,
		Email:       email,
		DateOfBirth: &dob,
		Gender:      core.GenderFemale,
		CountryID:   &e.denmark.CountryID,
	})
	if err != nil {
		t.Fatalf("AddPerson() error = %v", err)
	}
	return p
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.server.Router().ServeHTTP(rec, req)
	return rec
}

func postForm(path string, form url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

// =============================================================================
// List
// =============================================================================

func TestParseListQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  listQuery
	}{
		{"defaults", "", listQuery{SortBy: "PersonName", SortOrder: core.SortAsc}},
		{"unknown searchBy resets", "searchBy=Bogus&searchString=ann",
			listQuery{SearchBy: "PersonName", SearchString: "ann", SortBy: "PersonName", SortOrder: core.SortAsc}},
		{"valid values kept", "searchBy=Email&searchString=x&sortBy=Age&sortOrder=DESC",
			listQuery{SearchBy: "Email", SearchString: "x", SortBy: "Age", SortOrder: core.SortDesc}},
		{"unknown sortBy", "sortBy=Height&sortOrder=desc",
			listQuery{SortBy: "PersonName", SortOrder: core.SortDesc}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/persons/index?"+tt.query, nil)
			if got := parseListQuery(req); got != tt.want {
				t.Errorf("parseListQuery() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestPersonsIndex_FiltersAndSetsHeader(t *testing.T) {
	e := newTestEnv(t, nil)
	e.addPerson(t, "Marianne", "marianne@example.com")
	e.addPerson(t, "Bob", "bob@example.com")

	for _, path := range []string{"/", "/persons", "/persons/index"} {
		rec := e.do(httptest.NewRequest(http.MethodGet, path+"?searchBy=PersonName&searchString=MAR", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
		body := rec.Body.String()
		if !strings.Contains(body, "Marianne") || strings.Contains(body, "Bob") {
			t.Errorf("GET %s did not filter by name", path)
		}
		if got := rec.Header().Get("X-Contacts-Key"); got != "Contacts-Manager" {
			t.Errorf("GET %s X-Contacts-Key = %q, want Contacts-Manager", path, got)
		}
	}
}

func TestUnknownRoute(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "WEB001") {
		t.Errorf("error page missing code: %q", rec.Body.String())
	}
}

// =============================================================================
// Create / edit / delete
// =============================================================================

func TestPersonCreate(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(postForm("/persons/create", url.Values{
		"PersonName":         {"<b>Ann</b> & Co"},
		"Email":              {"ann@example.com"},
		"DateOfBirth":        {"1990-05-01"},
		"Gender":             {"Female"},
		"CountryID":          {e.denmark.CountryID.String()},
		"Address":            {"Main St 1"},
		"ReceiveNewsLetters": {"true"},
	}))
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != personsIndexPath {
		t.Fatalf("status = %d location = %q, want 302 to %s", rec.Code, rec.Header().Get("Location"), personsIndexPath)
	}

	all, _ := e.persons.GetAllPersons(context.Background())
	if len(all) != 1 {
		t.Fatalf("persons = %d, want 1", len(all))
	}
	got := all[0]
	if got.PersonName != "Ann & Co" {
		t.Errorf("PersonName = %q, want %q", got.PersonName, "Ann & Co")
	}
	if got.Country != "Denmark" || !got.ReceiveNewsLetters {
		t.Errorf("Country = %q ReceiveNewsLetters = %v", got.Country, got.ReceiveNewsLetters)
	}
}

func TestPersonCreate_InvalidRerendersForm(t *testing.T) {
	e := newTestEnv(t, nil)

	rec := e.do(postForm("/persons/create", url.Values{
		"PersonName":  {""},
		"Email":       {"not-an-email"},
		"DateOfBirth": {"yesterday"},
	}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	body := rec.Body.String()
	for _, want := range []string{"Person Name can", "valid email", "invalid date", "Denmark", `value="not-an-email"`} {
		if !strings.Contains(body, want) {
			t.Errorf("form missing %q", want)
		}
	}
	if all, _ := e.persons.GetAllPersons(context.Background()); len(all) != 0 {
		t.Errorf("persons = %d, want 0", len(all))
	}
}

func TestPersonCreate_UnknownCountry(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(postForm("/persons/create", url.Values{
		"PersonName": {"Ann"},
		"CountryID":  {uuid.NewString()},
	}))
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "CTY002") {
		t.Error("missing unknown country message")
	}
}

func TestPersonEdit(t *testing.T) {
	e := newTestEnv(t, nil)
	p := e.addPerson(t, "Ann", "ann@example.com")
	path := "/persons/edit/" + p.PersonID.String()

	rec := e.do(httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `value="ann@example.com"`) {
		t.Fatalf("GET edit status = %d, form not prefilled", rec.Code)
	}

	rec = e.do(postForm(path, url.Values{"PersonName": {"Anna"}, "Email": {"anna@example.com"}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("POST edit status = %d, want 302", rec.Code)
	}
	got, _ := e.persons.GetPersonByPersonID(context.Background(), &p.PersonID)
	if got == nil || got.PersonName != "Anna" || got.CountryID != nil {
		t.Errorf("after edit = %+v", got)
	}
}

func TestPersonEdit_UnknownRedirects(t *testing.T) {
	e := newTestEnv(t, nil)
	for _, id := range []string{uuid.NewString(), "not-a-uuid"} {
		rec := e.do(httptest.NewRequest(http.MethodGet, "/persons/edit/"+id, nil))
		if rec.Code != http.StatusFound {
			t.Errorf("GET edit %s status = %d, want 302", id, rec.Code)
		}
	}
}

func TestPersonEdit_RequiresToken(t *testing.T) {
	e := newTestEnv(t, map[string]string{"EDIT_TOKEN": "A100"})
	p := e.addPerson(t, "Ann", "")
	path := "/persons/edit/" + p.PersonID.String()

	get := e.do(httptest.NewRequest(http.MethodGet, path, nil))
	cookies := get.Result().Cookies()
	if len(cookies) != 1 || cookies[0].Name != middleware.EditTokenCookie {
		t.Fatalf("edit form cookies = %+v", cookies)
	}

	rec := e.do(postForm(path, url.Values{"PersonName": {"Anna"}}))
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("POST without cookie status = %d, want 401", rec.Code)
	}

	req := postForm(path, url.Values{"PersonName": {"Anna"}})
	req.AddCookie(cookies[0])
	if rec := e.do(req); rec.Code != http.StatusFound {
		t.Errorf("POST with cookie status = %d, want 302", rec.Code)
	}
}

func TestPersonDelete(t *testing.T) {
	e := newTestEnv(t, nil)
	p := e.addPerson(t, "Ann", "")
	path := "/persons/delete/" + p.PersonID.String()

	rec := e.do(httptest.NewRequest(http.MethodGet, path, nil))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "Ann") {
		t.Fatalf("GET delete status = %d", rec.Code)
	}

	rec = e.do(postForm(path, url.Values{"PersonID": {p.PersonID.String()}}))
	if rec.Code != http.StatusFound {
		t.Fatalf("POST delete status = %d, want 302", rec.Code)
	}
	if got, _ := e.persons.GetPersonByPersonID(context.Background(), &p.PersonID); got != nil {
		t.Error("person still present after delete")
	}
}

// =============================================================================
// Export
// =============================================================================

func TestExportCSV(t *testing.T) {
	e := newTestEnv(t, nil)
	e.addPerson(t, "Ann", "ann@example.com")

	rec := e.do(httptest.NewRequest(http.MethodGet, "/persons/personscsv", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	cd := rec.Header().Get("Content-Disposition")
	if !strings.HasPrefix(cd, `attachment; filename="persons_`) || !strings.HasSuffix(cd, `.csv"`) {
		t.Errorf("Content-Disposition = %q", cd)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "PersonName,") {
		t.Errorf("csv = %q", rec.Body.String())
	}
}

func TestExportExcel(t *testing.T) {
	e := newTestEnv(t, nil)
	e.addPerson(t, "Ann", "ann@example.com")

	rec := e.do(httptest.NewRequest(http.MethodGet, "/persons/personsexcel", nil))
	if rec.Code != http.StatusOK || rec.Header().Get("Content-Type") != contentTypeExcel {
		t.Fatalf("status = %d content-type = %q", rec.Code, rec.Header().Get("Content-Type"))
	}
	f, err := excelize.OpenReader(rec.Body)
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(core.PersonsSheet)
	if err != nil || len(rows) != 2 {
		t.Errorf("rows = %d, err = %v, want 2", len(rows), err)
	}
}

func TestExportPDF_FeatureToggle(t *testing.T) {
	e := newTestEnv(t, map[string]string{"FEATURE_PDF_EXPORT": "false"})
	rec := e.do(httptest.NewRequest(http.MethodGet, "/persons/personspdf", nil))
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}

	e = newTestEnv(t, map[string]string{"FEATURE_PDF_EXPORT": "true"})
	e.addPerson(t, "Ann", "")
	rec = e.do(httptest.NewRequest(http.MethodGet, "/persons/personspdf", nil))
	if rec.Code != http.StatusOK || !bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")) {
		t.Errorf("status = %d, body prefix = %q", rec.Code, rec.Body.Bytes()[:min(4, rec.Body.Len())])
	}
}

// =============================================================================
// Countries upload
// =============================================================================

func multipartUpload(t *testing.T, filename string, content []byte) *http.Request {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	if filename != "" {
		fw, err := mw.CreateFormFile(uploadField, filename)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = fw.Write(content)
	}
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/countries/uploadfromexcel", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func countriesWorkbook(t *testing.T, names ...string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", core.CountriesSheet); err != nil {
		t.Fatal(err)
	}
	_ = f.SetCellValue(core.CountriesSheet, "A1", "CountryName")
	for i, n := range names {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(core.CountriesSheet, cell, n)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestCountriesUpload(t *testing.T) {
	tests := []struct {
		name       string
		filename   string
		content    []byte
		wantStatus int
		wantText   string
	}{
		{"no file", "", nil, http.StatusBadRequest, "Please select an xlsx file"},
		{"empty file", "countries.xlsx", nil, http.StatusBadRequest, "Please select an xlsx file"},
		{"wrong extension", "countries.txt", []byte("x"), http.StatusUnsupportedMediaType, "Unsupported file. &#39;xlsx&#39; expected"},
		{"csv", "countries.csv", []byte("CountryName\nNorway\nSweden\ndenmark\n"), http.StatusOK, "2 Countries Uploaded."},
		{"corrupt xlsx", "countries.xlsx", []byte("not a zip"), http.StatusUnsupportedMediaType, "FILE002"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEnv(t, nil)
			rec := e.do(multipartUpload(t, tt.filename, tt.content))
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			if !strings.Contains(rec.Body.String(), tt.wantText) {
				t.Errorf("body missing %q", tt.wantText)
			}
		})
	}
}

func TestCountriesUpload_Workbook(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(multipartUpload(t, "Countries.XLSX", countriesWorkbook(t, "Norway", "", "Denmark", "Japan")))
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "2 Countries Uploaded.") {
		t.Fatalf("status = %d body = %q", rec.Code, rec.Body.String())
	}
	all, _ := e.countries.GetAllCountries(context.Background())
	if len(all) != 3 {
		t.Errorf("countries = %d, want 3", len(all))
	}
}

func TestCountriesUpload_TooLarge(t *testing.T) {
	e := newTestEnv(t, map[string]string{"UPLOAD_MAX_FILE_SIZE": "64"})
	rec := e.do(multipartUpload(t, "countries.csv", bytes.Repeat([]byte("Norway\n"), 100)))
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

// =============================================================================
// JSON API and operations
// =============================================================================

func TestAPIPersons(t *testing.T) {
	e := newTestEnv(t, nil)
	e.addPerson(t, "Zed", "")
	e.addPerson(t, "Amy", "")

	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/persons?sortBy=PersonName&sortOrder=DESC", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got PersonsListResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if got.Count != 2 || got.Persons[0].PersonName != "Zed" {
		t.Errorf("response = %+v", got)
	}
	if got.Persons[0].Age == nil || *got.Persons[0].Age != 36 {
		t.Errorf("Age = %v, want 36", got.Persons[0].Age)
	}
}

func TestAPIPerson(t *testing.T) {
	e := newTestEnv(t, nil)
	p := e.addPerson(t, "Ann", "")

	tests := []struct {
		id       string
		want     int
		wantCode string
	}{
		{p.PersonID.String(), http.StatusOK, ""},
		{uuid.NewString(), http.StatusNotFound, "PER001"},
		{"nope", http.StatusBadRequest, "PER002"},
	}
	for _, tt := range tests {
		rec := e.do(httptest.NewRequest(http.MethodGet, "/api/persons/"+tt.id, nil))
		if rec.Code != tt.want {
			t.Errorf("GET %s status = %d, want %d", tt.id, rec.Code, tt.want)
			continue
		}
		if tt.wantCode == "" {
			continue
		}
		var er ErrorResponse
		if err := json.NewDecoder(rec.Body).Decode(&er); err != nil || er.Code != tt.wantCode {
			t.Errorf("GET %s code = %q (err %v), want %s", tt.id, er.Code, err, tt.wantCode)
		}
	}
}

func TestAPICountries(t *testing.T) {
	e := newTestEnv(t, nil)
	rec := e.do(httptest.NewRequest(http.MethodGet, "/api/countries", nil))
	var got []core.CountryResponse
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].CountryName != "Denmark" {
		t.Errorf("countries = %+v", got)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	e := newTestEnv(t, nil)
	if rec := e.do(httptest.NewRequest(http.MethodGet, "/healthz", nil)); rec.Code != http.StatusOK {
		t.Errorf("healthz status = %d", rec.Code)
	}

	e.do(httptest.NewRequest(http.MethodGet, "/persons/index", nil))
	rec := e.do(httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	if !strings.Contains(string(body), "contacts_http_requests_total") {
		t.Error("metrics output missing request counter")
	}
	if !strings.Contains(string(body), "contacts_countries_added_total 1") {
		t.Error("metrics output missing country counter")
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{core.ValidationErrors{{Message: "x"}}, http.StatusUnprocessableEntity},
		{core.ErrInvalidPersonID, http.StatusNotFound},
		{core.ErrDuplicateCountry, http.StatusBadRequest},
		{core.ErrNilRequest, http.StatusBadRequest},
		{core.ErrUnsupportedFile, http.StatusUnsupportedMediaType},
		{core.ErrTooManyImports, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{io.ErrUnexpectedEOF, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
