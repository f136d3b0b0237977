package reporting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d := NormalizeDate(s)
	require.NotNil(t, d, "fixture date %q did not parse", s)
	return *d
}

func period(t *testing.T, start, end string) Period {
	t.Helper()
	return NewPeriod(day(t, start), day(t, end))
}

func site(name string, purpose Purpose, status WorkStatus, completion interface{}) SiteDetail {
	s := SiteDetail{NameOfSite: name, Purpose: purpose, WorkStatus: status, DateOfCompletion: completion}
	if purpose.RequiresDiameter() {
		s.Diameter = Diameter150mm
	}
	return s
}

func remittance(date interface{}, amount float64, account Account) RemittanceDetail {
	return RemittanceDetail{DateOfRemittance: date, AmountRemitted: NewAmount(amount), RemittedAccount: account}
}

func fileEntry(fileNo string, appType ApplicationType, remittances []RemittanceDetail, sites ...SiteDetail) FileEntry {
	return FileEntry{
		FileNo:            fileNo,
		ApplicantName:     "Applicant " + fileNo,
		ApplicationType:   appType,
		RemittanceDetails: remittances,
		SiteDetails:       sites,
	}
}

// scenarioFile is the single completed private BWC file used across tests.
func scenarioFile() FileEntry {
	s := site("Site A", PurposeBWC, StatusWorkCompleted, "2024-02-15")
	s.TotalExpenditure = NewAmount(45000)
	return fileEntry("F1", PrivateDomestic,
		[]RemittanceDetail{remittance("2024-01-10", 50000, AccountBank)},
		s,
	)
}
