package core_test

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/contacts/internal/core"
	"github.com/JonMunkholm/contacts/internal/repository"
)

var fixedNow = time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)

type countingRecorder struct {
	added, updated, deleted, countries, imported int
	exports                                      []string
}

func (r *countingRecorder) PersonAdded() { r.added++ }
func (r *countingRecorder) PersonUpdated() { r.updated++ }
func (r *countingRecorder) PersonDeleted() { r.deleted++ }
func (r *countingRecorder) CountryAdded() { r.countries++ }
func (r *countingRecorder) CountriesImported(n int) { r.imported += n }
func (r *countingRecorder) PersonsExported(format string) { r.exports = append(r.exports, format) }

type fixture struct {
	ctx       context.Context
	countries *core.CountriesService
	persons   *core.PersonsService
	recorder  *countingRecorder
}

func newFixture() *fixture {
	store := repository.NewMemoryStore()
	rec := &countingRecorder{}
	return &fixture{
		ctx:       context.Background(),
		countries: core.NewCountriesService(store, core.WithCountriesRecorder(rec)),
		persons: core.NewPersonsService(store, store,
			core.WithClock(func() time.Time { return fixedNow }),
			core.WithPersonsRecorder(rec)),
		recorder: rec,
	}
}

func (f *fixture) country(t *testing.T, name string) core.CountryResponse {
	t.Helper()
	c, err := f.countries.AddCountry(f.ctx, &core.CountryAddRequest{CountryName: name})
	if err != nil {
		t.Fatalf("AddCountry(%q) error = %v", name, err)
	}
	return c
}

func (f *fixture) person(t *testing.T, req core.PersonAddRequest) core.PersonResponse {
	t.Helper()
	p, err := f.persons.AddPerson(f.ctx, &req)
	if err != nil {
		t.Fatalf("AddPerson(%q) error = %v", req.PersonName, err)
	}
	return p
}

func dob(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

// =============================================================================
// CountriesService
// =============================================================================

func TestAddCountry(t *testing.T) {
	f := newFixture()

	if _, err := f.countries.AddCountry(f.ctx, nil); !errors.Is(err, core.ErrNilRequest) {
		t.Errorf("nil request error = %v, want ErrNilRequest", err)
	}
	if _, err := f.countries.AddCountry(f.ctx, &core.CountryAddRequest{CountryName: " "}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("blank name error = %v, want ErrInvalidArgument", err)
	}

	c := f.country(t, "Denmark")
	if c.CountryID == uuid.Nil || c.CountryName != "Denmark" {
		t.Errorf("AddCountry() = %+v", c)
	}

	if _, err := f.countries.AddCountry(f.ctx, &core.CountryAddRequest{CountryName: "DENMARK"}); !errors.Is(err, core.ErrDuplicateCountry) {
		t.Errorf("duplicate error = %v, want ErrDuplicateCountry", err)
	}
	if f.recorder.countries != 1 {
		t.Errorf("CountryAdded calls = %d, want 1", f.recorder.countries)
	}
}

func TestGetCountryByCountryID(t *testing.T) {
	f := newFixture()
	c := f.country(t, "Norway")

	got, err := f.countries.GetCountryByCountryID(f.ctx, &c.CountryID)
	if err != nil || got == nil || *got != c {
		t.Errorf("GetCountryByCountryID() = %v, %v, want %v", got, err, c)
	}

	for _, id := range []*uuid.UUID{nil, func() *uuid.UUID { u := uuid.New(); return &u }()} {
		got, err := f.countries.GetCountryByCountryID(f.ctx, id)
		if err != nil || got != nil {
			t.Errorf("GetCountryByCountryID(%v) = %v, %v, want nil, nil", id, got, err)
		}
	}
}

func TestGetAllCountries(t *testing.T) {
	f := newFixture()
	if all, _ := f.countries.GetAllCountries(f.ctx); len(all) != 0 {
		t.Errorf("empty store returned %d countries", len(all))
	}
	f.country(t, "Sweden")
	f.country(t, "Denmark")
	all, err := f.countries.GetAllCountries(f.ctx)
	if err != nil || len(all) != 2 {
		t.Fatalf("GetAllCountries() = %v, %v", all, err)
	}
}

// =============================================================================
// Country import
// =============================================================================

func workbook(t *testing.T, sheet string, cells ...string) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			t.Fatal(err)
		}
	}
	_ = f.SetCellValue(sheet, "A1", "CountryName")
	for i, c := range cells {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		_ = f.SetCellValue(sheet, cell, c)
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatal(err)
	}
	return buf
}

func TestUploadCountriesFromExcelFile(t *testing.T) {
	f := newFixture()
	f.country(t, "Denmark")

	n, err := f.countries.UploadCountriesFromExcelFile(f.ctx,
		workbook(t, core.CountriesSheet, "Norway", "denmark", "", "  Sweden ", "NORWAY"))
	if err != nil {
		t.Fatalf("UploadCountriesFromExcelFile() error = %v", err)
	}
	if n != 2 {
		t.Errorf("inserted = %d, want 2", n)
	}
	if f.recorder.imported != 2 {
		t.Errorf("CountriesImported total = %d, want 2", f.recorder.imported)
	}

	all, _ := f.countries.GetAllCountries(f.ctx)
	if len(all) != 3 {
		t.Errorf("countries = %d, want 3", len(all))
	}
}

func TestUploadCountriesFromExcelFile_FirstSheetFallback(t *testing.T) {
	f := newFixture()
	n, err := f.countries.UploadCountriesFromExcelFile(f.ctx, workbook(t, "Data", "Japan"))
	if err != nil || n != 1 {
		t.Errorf("UploadCountriesFromExcelFile() = %d, %v, want 1, nil", n, err)
	}
}

func TestUploadCountriesFromExcelFile_NotAWorkbook(t *testing.T) {
	f := newFixture()
	_, err := f.countries.UploadCountriesFromExcelFile(f.ctx, strings.NewReader("plain text"))
	if !errors.Is(err, core.ErrUnsupportedFile) {
		t.Errorf("error = %v, want ErrUnsupportedFile", err)
	}
}

func TestUploadCountriesFromCSV(t *testing.T) {
	tests := []struct {
		name string
		data string
		want int
	}{
		{"named column", "Code,CountryName\nNO,Norway\nSE,Sweden\n", 2},
		{"first column fallback", "Name\nNorway\n\nNorway\n", 1},
		{"bom and formula", "\xEF\xBB\xBFCountry\n=\"Japan\"\n", 1},
		{"empty", "", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			n, err := f.countries.UploadCountriesFromCSV(f.ctx, strings.NewReader(tt.data))
			if err != nil || n != tt.want {
				t.Errorf("UploadCountriesFromCSV() = %d, %v, want %d", n, err, tt.want)
			}
		})
	}
}

func TestUpload_LimiterExhausted(t *testing.T) {
	store := repository.NewMemoryStore()
	limiter := core.NewImportLimiter(1, 10*time.Millisecond)
	svc := core.NewCountriesService(store, core.WithImportLimiter(limiter))

	if err := limiter.Acquire(context.Background()); err != nil {
		t.Fatal(err)
	}
	defer limiter.Release()

	_, err := svc.UploadCountriesFromCSV(context.Background(), strings.NewReader("Country\nPeru\n"))
	if !errors.Is(err, core.ErrTooManyImports) {
		t.Errorf("error = %v, want ErrTooManyImports", err)
	}
}

// =============================================================================
// PersonsService
// =============================================================================

func TestAddPerson(t *testing.T) {
	f := newFixture()
	dk := f.country(t, "Denmark")

	if _, err := f.persons.AddPerson(f.ctx, nil); !errors.Is(err, core.ErrNilRequest) {
		t.Errorf("nil request error = %v", err)
	}
	if _, err := f.persons.AddPerson(f.ctx, &core.PersonAddRequest{}); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("blank name error = %v", err)
	}

	missing := uuid.New()
	if _, err := f.persons.AddPerson(f.ctx, &core.PersonAddRequest{PersonName: "Ann", CountryID: &missing}); !errors.Is(err, core.ErrUnknownCountry) {
		t.Errorf("dangling country error = %v, want ErrUnknownCountry", err)
	}

	p := f.person(t, core.PersonAddRequest{
		PersonName:  "Ann",
		Email:       "ann@example.com",
		DateOfBirth: dob(2000, time.January, 1),
		Gender:      core.GenderFemale,
		CountryID:   &dk.CountryID,
	})
	if p.PersonID == uuid.Nil || p.Country != "Denmark" {
		t.Errorf("AddPerson() = %+v", p)
	}
	if p.Age == nil || *p.Age != 26 {
		t.Errorf("Age = %v, want 26", p.Age)
	}

	all, _ := f.persons.GetAllPersons(f.ctx)
	if len(all) != 1 || !all[0].Equal(p) {
		t.Errorf("GetAllPersons() = %+v, want [%+v]", all, p)
	}
	if f.recorder.added != 1 {
		t.Errorf("PersonAdded calls = %d, want 1", f.recorder.added)
	}
}

func TestGetPersonByPersonID(t *testing.T) {
	f := newFixture()
	p := f.person(t, core.PersonAddRequest{PersonName: "Ann"})

	got, err := f.persons.GetPersonByPersonID(f.ctx, &p.PersonID)
	if err != nil || got == nil || !got.Equal(p) {
		t.Errorf("GetPersonByPersonID() = %v, %v", got, err)
	}
	if got, err := f.persons.GetPersonByPersonID(f.ctx, nil); got != nil || err != nil {
		t.Errorf("nil id = %v, %v, want nil, nil", got, err)
	}
	other := uuid.New()
	if got, err := f.persons.GetPersonByPersonID(f.ctx, &other); got != nil || err != nil {
		t.Errorf("unknown id = %v, %v, want nil, nil", got, err)
	}
}

func TestUpdatePerson(t *testing.T) {
	f := newFixture()
	dk := f.country(t, "Denmark")
	p := f.person(t, core.PersonAddRequest{PersonName: "Ann", Email: "ann@example.com"})

	if _, err := f.persons.UpdatePerson(f.ctx, nil); !errors.Is(err, core.ErrNilRequest) {
		t.Errorf("nil request error = %v", err)
	}

	unknown := p.ToPersonUpdateRequest()
	unknown.PersonID = uuid.New()
	if _, err := f.persons.UpdatePerson(f.ctx, &unknown); !errors.Is(err, core.ErrInvalidPersonID) {
		t.Errorf("unknown person error = %v, want ErrInvalidPersonID", err)
	}

	req := p.ToPersonUpdateRequest()
	req.PersonName = "Anna"
	req.CountryID = &dk.CountryID
	req.ReceiveNewsLetters = true
	updated, err := f.persons.UpdatePerson(f.ctx, &req)
	if err != nil {
		t.Fatalf("UpdatePerson() error = %v", err)
	}
	if updated.PersonName != "Anna" || updated.Country != "Denmark" || !updated.ReceiveNewsLetters {
		t.Errorf("UpdatePerson() = %+v", updated)
	}

	got, _ := f.persons.GetPersonByPersonID(f.ctx, &p.PersonID)
	if got == nil || !got.Equal(updated) {
		t.Errorf("stored = %+v, want %+v", got, updated)
	}

	bad := req
	bad.Email = "nope"
	if _, err := f.persons.UpdatePerson(f.ctx, &bad); !errors.Is(err, core.ErrInvalidArgument) {
		t.Errorf("invalid update error = %v", err)
	}
}

func TestDeletePerson(t *testing.T) {
	f := newFixture()
	p := f.person(t, core.PersonAddRequest{PersonName: "Ann"})

	if ok, err := f.persons.DeletePerson(f.ctx, nil); ok || err != nil {
		t.Errorf("nil id = %v, %v", ok, err)
	}
	if ok, err := f.persons.DeletePerson(f.ctx, &p.PersonID); !ok || err != nil {
		t.Errorf("delete = %v, %v, want true", ok, err)
	}
	if ok, _ := f.persons.DeletePerson(f.ctx, &p.PersonID); ok {
		t.Error("second delete should report false")
	}
	if f.recorder.deleted != 1 {
		t.Errorf("PersonDeleted calls = %d, want 1", f.recorder.deleted)
	}
}

func TestGetFilteredPersons(t *testing.T) {
	f := newFixture()
	dk := f.country(t, "Denmark")
	f.person(t, core.PersonAddRequest{PersonName: "Mary", CountryID: &dk.CountryID})
	f.person(t, core.PersonAddRequest{PersonName: "Mahesh"})
	f.person(t, core.PersonAddRequest{PersonName: "Bob"})

	tests := []struct {
		searchBy, term string
		want           int
	}{
		{"PersonName", "ma", 2},
		{"PersonName", "MA", 2},
		{"CountryID", "den", 1},
		{"PersonName", "", 3},
		{"Bogus", "ma", 3},
		{"", "", 3},
	}
	for _, tt := range tests {
		got, err := f.persons.GetFilteredPersons(f.ctx, tt.searchBy, tt.term)
		if err != nil || len(got) != tt.want {
			t.Errorf("GetFilteredPersons(%q, %q) = %d, %v, want %d", tt.searchBy, tt.term, len(got), err, tt.want)
		}
	}
}

// =============================================================================
// Export
// =============================================================================

func exportFixture(t *testing.T) *fixture {
	f := newFixture()
	dk := f.country(t, "Denmark")
	f.person(t, core.PersonAddRequest{PersonName: "Ann", Email: "ann@example.com", DateOfBirth: dob(1990, time.May, 1), CountryID: &dk.CountryID, ReceiveNewsLetters: true})
	f.person(t, core.PersonAddRequest{PersonName: "Bob, Jr.", Gender: core.GenderMale})
	return f
}

func TestWritePersonsCSV(t *testing.T) {
	f := exportFixture(t)
	var buf bytes.Buffer
	if err := f.persons.WritePersonsCSV(f.ctx, &buf); err != nil {
		t.Fatalf("WritePersonsCSV() error = %v", err)
	}

	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("records = %d, want 3", len(records))
	}
	wantHeader := []string{"PersonName", "Email", "DateOfBirth", "Age", "Gender", "Country", "Address", "ReceiveNewsLetters"}
	for i, h := range wantHeader {
		if records[0][i] != h {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], h)
		}
	}
	if records[1][2] != "1990-05-01" || records[1][5] != "Denmark" || records[1][7] != "true" {
		t.Errorf("row = %v", records[1])
	}
	if records[2][0] != "Bob, Jr." || records[2][3] != "" {
		t.Errorf("row = %v", records[2])
	}
	if len(f.recorder.exports) != 1 || f.recorder.exports[0] != core.FormatCSV {
		t.Errorf("exports = %v", f.recorder.exports)
	}
}

func TestWritePersonsExcel(t *testing.T) {
	f := exportFixture(t)
	var buf bytes.Buffer
	if err := f.persons.WritePersonsExcel(f.ctx, &buf); err != nil {
		t.Fatalf("WritePersonsExcel() error = %v", err)
	}

	wb, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatal(err)
	}
	defer wb.Close()

	rows, err := wb.GetRows(core.PersonsSheet)
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(rows))
	}
	if rows[0][0] != "Person Name" || rows[1][2] != "01-05-1990" {
		t.Errorf("rows = %v", rows[:2])
	}
}

func TestWritePersonsPDF(t *testing.T) {
	f := exportFixture(t)
	var buf bytes.Buffer
	if err := f.persons.WritePersonsPDF(f.ctx, &buf); err != nil {
		t.Fatalf("WritePersonsPDF() error = %v", err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")) {
		t.Errorf("output does not start with a PDF header")
	}
}
