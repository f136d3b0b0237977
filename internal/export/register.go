package export

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/reporting"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

var (
	ErrUnsupportedFileType = errors.New("unsupported file type, expected .xlsx, .xls or .csv")
	ErrMissingFileNoColumn = errors.New("register has no File No column")
	ErrEmptyRegister       = errors.New("register must have a header and at least one data row")
)

// Register column titles, matched case-insensitively.
const (
	ColFileNo           = "file no"
	ColApplicant        = "applicant"
	ColApplicationType  = "application type"
	ColConstituency     = "constituency"
	ColFileStatus       = "file status"
	ColRemittanceDate   = "remittance date"
	ColRemittanceAmount = "remittance amount"
	ColRemittedAccount  = "remitted account"
	ColSiteName         = "site name"
	ColPurpose          = "purpose"
	ColDiameter         = "diameter"
	ColWorkStatus       = "work status"
	ColCompletionDate   = "completion date"
	ColTotalExpenditure = "total expenditure"
)

// ReadRegister parses an uploaded register sheet into file entries. The
// format is picked by the file extension. Rows sharing a File No are merged
// into one entry; repeated remittance cells on those rows count once.
func ReadRegister(filename string, r io.Reader) ([]reporting.FileEntry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	var rows [][]string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		rows, err = parseExcelFile(data)
	case ".xls":
		rows, err = parseXLSFile(data)
	case ".csv":
		rows, err = parseCSVFile(data)
	default:
		return nil, ErrUnsupportedFileType
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	return entriesFromRows(rows)
}

func parseExcelFile(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	// Raw values keep date cells as serial numbers instead of text rendered
	// through the cell's number format.
	return f.GetRows(f.GetSheetName(0), excelize.Options{RawCellValue: true})
}

func parseXLSFile(data []byte) ([][]string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, err
	}
	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("no sheets found")
	}
	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, nil
}

func parseCSVFile(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	return r.ReadAll()
}

type columnIndex map[string]int

func newColumnIndex(header []string) columnIndex {
	idx := make(columnIndex, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.Join(strings.Fields(h), " "))
		if _, dup := idx[key]; !dup && key != "" {
			idx[key] = i
		}
	}
	return idx
}

func (c columnIndex) get(row []string, col string) string {
	i, ok := c[col]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

type remittanceKey struct {
	date, amount, account string
}

func entriesFromRows(rows [][]string) ([]reporting.FileEntry, error) {
	if len(rows) < 2 {
		return nil, ErrEmptyRegister
	}
	cols := newColumnIndex(rows[0])
	if _, ok := cols[ColFileNo]; !ok {
		return nil, ErrMissingFileNoColumn
	}

	var order []string
	entries := make(map[string]*reporting.FileEntry)
	seenRemittance := make(map[string]map[remittanceKey]bool)

	for _, row := range rows[1:] {
		fileNo := cols.get(row, ColFileNo)
		if fileNo == "" {
			continue
		}
		e, ok := entries[fileNo]
		if !ok {
			e = &reporting.FileEntry{FileNo: fileNo}
			entries[fileNo] = e
			seenRemittance[fileNo] = make(map[remittanceKey]bool)
			order = append(order, fileNo)
		}
		fillIfEmpty(&e.ApplicantName, cols.get(row, ColApplicant))
		if e.ApplicationType == "" {
			e.ApplicationType = reporting.ApplicationType(cols.get(row, ColApplicationType))
		}
		fillIfEmpty(&e.Constituency, cols.get(row, ColConstituency))
		fillIfEmpty(&e.FileStatus, cols.get(row, ColFileStatus))

		rk := remittanceKey{
			date:    cols.get(row, ColRemittanceDate),
			amount:  cols.get(row, ColRemittanceAmount),
			account: cols.get(row, ColRemittedAccount),
		}
		if (rk.date != "" || rk.amount != "") && !seenRemittance[fileNo][rk] {
			seenRemittance[fileNo][rk] = true
			e.RemittanceDetails = append(e.RemittanceDetails, reporting.RemittanceDetail{
				AmountRemitted:   reporting.AmountFromDecimal(reporting.ToDecimal(rk.amount)),
				DateOfRemittance: cellDate(rk.date),
				RemittedAccount:  reporting.Account(rk.account),
			})
		}

		name, purpose := cols.get(row, ColSiteName), reporting.Purpose(cols.get(row, ColPurpose))
		if name == "" && purpose == "" {
			continue
		}
		e.SiteDetails = append(e.SiteDetails, reporting.SiteDetail{
			NameOfSite:       name,
			Purpose:          purpose,
			WorkStatus:       reporting.WorkStatus(cols.get(row, ColWorkStatus)),
			DateOfCompletion: cellDate(cols.get(row, ColCompletionDate)),
			Diameter:         normalizeDiameter(purpose, cols.get(row, ColDiameter)),
			TotalExpenditure: reporting.AmountFromDecimal(reporting.ToDecimal(cols.get(row, ColTotalExpenditure))),
		})
	}

	out := make([]reporting.FileEntry, 0, len(order))
	for _, no := range order {
		out = append(out, entries[no].Recompute())
	}
	return out, nil
}

func fillIfEmpty(dst *string, v string) {
	if *dst == "" {
		*dst = v
	}
}

// maxExcelSerial is the serial of 9999-12-31, the last date Excel can hold.
const maxExcelSerial = 2958465

// cellDate stores a parsed cell date in ISO form so the entry round-trips
// through JSON. A bare number is read as an Excel date serial. Unparseable
// text is kept as-is and reads back as unknown.
func cellDate(v string) interface{} {
	if v == "" {
		return nil
	}
	if serial, err := strconv.ParseFloat(v, 64); err == nil && serial > 0 && serial <= maxExcelSerial {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return t.Format(config.ISODateFormat)
		}
	}
	if t := reporting.NormalizeDate(v); t != nil {
		return t.Format(config.ISODateFormat)
	}
	return v
}

// normalizeDiameter maps a bare millimetre figure to the canonical label.
func normalizeDiameter(p reporting.Purpose, v string) string {
	if v == "" {
		return ""
	}
	digits := strings.TrimLeftFunc(v, func(r rune) bool { return r < '0' || r > '9' })
	if end := strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }); end > 0 {
		digits = digits[:end]
	}
	if digits == "" {
		return v
	}
	for _, d := range reporting.WellDiameters[p] {
		if strings.HasPrefix(d, digits+" ") {
			return d
		}
	}
	return v
}
