package reporting

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

// FormatAmount renders an amount with Indian digit grouping and two decimals.
func FormatAmount(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return amountPrinter.Sprint(number.Decimal(f, number.Scale(2)))
}

// ReportRow is the flat row contract of the generic report and export views.
// Numbers and dates are already formatted for display.
type ReportRow struct {
	FileNo               string `json:"fileNo"`
	ApplicantName        string `json:"applicantName"`
	DateOfRemittance     string `json:"dateOfRemittance"`
	SitePurpose          string `json:"sitePurpose"`
	FileStatus           string `json:"fileStatus"`
	SiteName             string `json:"siteName"`
	SiteWorkStatus       string `json:"siteWorkStatus"`
	SiteTotalExpenditure string `json:"siteTotalExpenditure"`
}

// ReportRowHeaders are the column titles matching ReportRow's field order.
var ReportRowHeaders = []string{
	"File No", "Applicant Name", "Date of Remittance", "Purpose",
	"File Status", "Site Name", "Work Status", "Total Expenditure",
}

// Values returns the row's cells in header order.
func (r ReportRow) Values() []string {
	return []string{
		r.FileNo, r.ApplicantName, r.DateOfRemittance, r.SitePurpose,
		r.FileStatus, r.SiteName, r.SiteWorkStatus, r.SiteTotalExpenditure,
	}
}

// BuildRows formats site records into display rows, one per record.
func BuildRows(records []SiteRecord) []ReportRow {
	rows := make([]ReportRow, len(records))
	for i, r := range records {
		rows[i] = ReportRow{
			FileNo:               r.FileNo,
			ApplicantName:        r.ApplicantName,
			DateOfRemittance:     FormatDisplayDate(r.FileFirstRemittanceDate),
			SitePurpose:          string(r.Purpose),
			FileStatus:           r.FileStatus,
			SiteName:             r.NameOfSite,
			SiteWorkStatus:       string(r.WorkStatus),
			SiteTotalExpenditure: FormatAmount(r.TotalExpenditure.Decimal),
		}
	}
	return rows
}
