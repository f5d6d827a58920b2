package core

// import.go reads country names out of uploaded workbooks and CSV files.

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// CountriesSheet is the worksheet read by UploadCountriesFromExcelFile.
// Workbooks without it are read from their first sheet.
const CountriesSheet = "Countries"

// UploadCountriesFromExcelFile imports column A of the Countries worksheet,
// starting at row 2, and returns the number of countries inserted.
func (s *CountriesService) UploadCountriesFromExcelFile(ctx context.Context, r io.Reader) (int, error) {
	names, err := readWorkbookColumn(r)
	if err != nil {
		return 0, err
	}
	return s.importNames(ctx, "xlsx", names)
}

// UploadCountriesFromCSV imports the CountryName column of a CSV file, or
// its first column when no such header exists.
func (s *CountriesService) UploadCountriesFromCSV(ctx context.Context, r io.Reader) (int, error) {
	names, err := readCSVColumn(r)
	if err != nil {
		return 0, err
	}
	return s.importNames(ctx, "csv", names)
}

func readWorkbookColumn(r io.Reader) ([]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open workbook: %v", ErrUnsupportedFile, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%w: workbook has no worksheets", ErrUnsupportedFile)
	}
	sheet := sheets[0]
	if idx, err := f.GetSheetIndex(CountriesSheet); err == nil && idx >= 0 {
		sheet = CountriesSheet
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read worksheet %q: %w", sheet, err)
	}

	var names []string
	for i, row := range rows {
		if i == 0 || len(row) == 0 {
			continue
		}
		names = append(names, row[0])
	}
	return names, nil
}

func readCSVColumn(r io.Reader) ([]string, error) {
	cr := csv.NewReader(SkipBOM(r))
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read CSV header: %v", ErrUnsupportedFile, err)
	}

	col, ok := MakeHeaderIndex(header).Lookup("CountryName", "Country Name", "Country")
	if !ok {
		col = 0
	}

	var names []string
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV: %w", err)
		}
		if col < len(rec) {
			names = append(names, rec[col])
		}
	}
	return names, nil
}
