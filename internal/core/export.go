package core

// export.go writes the person list as CSV, an Excel workbook or a PDF table.
// All three formats share the column table below.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/go-pdf/fpdf"
	"github.com/xuri/excelize/v2"
)

// PersonsSheet is the worksheet name of the Excel export.
const PersonsSheet = "PersonsSheet"

// Export formats, as reported to the Recorder.
const (
	FormatCSV   = "csv"
	FormatExcel = "xlsx"
	FormatPDF   = "pdf"
)

type exportColumn struct {
	key   string  // CSV header
	title string  // Excel and PDF header
	width float64 // PDF column width in mm
	value func(p PersonResponse, dateLayout string) any
}

var exportColumns = []exportColumn{
	{"PersonName", "Person Name", 38, func(p PersonResponse, _ string) any { return p.PersonName }},
	{"Email", "Email", 50, func(p PersonResponse, _ string) any { return p.Email }},
	{"DateOfBirth", "Date of Birth", 24, func(p PersonResponse, layout string) any {
		if p.DateOfBirth == nil {
			return ""
		}
		return p.DateOfBirth.Format(layout)
	}},
	{"Age", "Age", 12, func(p PersonResponse, _ string) any {
		if p.Age == nil {
			return ""
		}
		return *p.Age
	}},
	{"Gender", "Gender", 17, func(p PersonResponse, _ string) any { return p.Gender }},
	{"Country", "Country", 30, func(p PersonResponse, _ string) any { return p.Country }},
	{"Address", "Address", 60, func(p PersonResponse, _ string) any { return p.Address }},
	{"ReceiveNewsLetters", "Receive News Letters", 26, func(p PersonResponse, _ string) any { return p.ReceiveNewsLetters }},
}

// WritePersonsCSV writes every person as CSV with a header row.
func (s *PersonsService) WritePersonsCSV(ctx context.Context, w io.Writer) error {
	persons, err := s.GetAllPersons(ctx)
	if err != nil {
		return err
	}

	cw := csv.NewWriter(w)
	header := make([]string, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c.key
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	record := make([]string, len(exportColumns))
	for _, p := range persons {
		for i, c := range exportColumns {
			record[i] = fmt.Sprint(c.value(p, DateLayoutISO))
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	s.recorder.PersonsExported(FormatCSV)
	return nil
}

// WritePersonsExcel writes every person to the PersonsSheet worksheet of a
// new workbook with a bold, shaded header row.
func (s *PersonsService) WritePersonsExcel(ctx context.Context, w io.Writer) error {
	persons, err := s.GetAllPersons(ctx)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), PersonsSheet); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}

	widths := make([]int, len(exportColumns))
	header := make([]any, len(exportColumns))
	for i, c := range exportColumns {
		header[i] = c.title
		widths[i] = utf8.RuneCountInString(c.title)
	}
	if err := f.SetSheetRow(PersonsSheet, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(exportColumns), 1)
	if err := f.SetCellStyle(PersonsSheet, "A1", lastHeader, style); err != nil {
		return fmt.Errorf("style header row: %w", err)
	}

	for r, p := range persons {
		row := make([]any, len(exportColumns))
		for i, c := range exportColumns {
			row[i] = c.value(p, DateLayoutExcel)
			if n := utf8.RuneCountInString(fmt.Sprint(row[i])); n > widths[i] {
				widths[i] = n
			}
		}
		cell, _ := excelize.CoordinatesToCellName(1, r+2)
		if err := f.SetSheetRow(PersonsSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", r+2, err)
		}
	}

	// excelize has no autofit; size columns to their longest value.
	for i, width := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(PersonsSheet, col, col, float64(min(width, 80)+2)); err != nil {
			return fmt.Errorf("size column %s: %w", col, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	s.recorder.PersonsExported(FormatExcel)
	return nil
}

// WritePersonsPDF renders every person as a table on landscape A4 pages
// with 20 mm margins.
func (s *PersonsService) WritePersonsPDF(ctx context.Context, w io.Writer) error {
	persons, err := s.GetAllPersons(ctx)
	if err != nil {
		return err
	}

	const margin, rowHeight = 20.0, 7.0

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	header := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(211, 211, 211)
		for _, c := range exportColumns {
			pdf.CellFormat(c.width, rowHeight, c.title, "1", 0, "L", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Helvetica", "", 9)
	}
	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() > 1 {
			header()
		}
	})

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Persons", "", 1, "L", false, 0, "")
	pdf.Ln(2)
	header()

	for _, p := range persons {
		for _, c := range exportColumns {
			text := tr(fmt.Sprint(c.value(p, DateLayoutDisplay)))
			pdf.CellFormat(c.width, rowHeight, fitText(pdf, text, c.width-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write PDF: %w", err)
	}
	s.recorder.PersonsExported(FormatPDF)
	return nil
}

// fitText shortens s with a trailing ".." until it fits width.
func fitText(pdf *fpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"..") > width {
		s = s[:len(s)-1]
	}
	return s + ".."
}
