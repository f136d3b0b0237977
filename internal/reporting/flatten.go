package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// SiteRecord is a site carrying the identifying fields of its parent file.
// Dates are normalized once here; later stages read only the normalized
// fields, never SiteDetail.DateOfCompletion.
type SiteRecord struct {
	SiteDetail

	FileNo          string          `json:"fileNo"`
	ApplicantName   string          `json:"applicantName"`
	ApplicationType ApplicationType `json:"applicationType,omitempty"`
	Constituency    string          `json:"constituency,omitempty"`
	FileStatus      string          `json:"fileStatus,omitempty"`

	FileFirstRemittanceDate   *time.Time      `json:"fileFirstRemittanceDate"`
	FileFirstRemittanceAmount decimal.Decimal `json:"fileFirstRemittanceAmount"`
	CompletionDate            *time.Time      `json:"completionDate"`
}

// siteKey identifies a site within a file for deduplication.
type siteKey struct {
	fileNo string
	site   string
}

func (r SiteRecord) key() siteKey { return siteKey{r.FileNo, r.NameOfSite} }

// Flatten expands every file's sites into SiteRecords, preserving input
// order. Sites still awaiting additional administrative sanction are left
// out of all progress accounting.
func Flatten(entries []FileEntry) []SiteRecord {
	records := make([]SiteRecord, 0, len(entries))
	for _, e := range entries {
		var firstDate *time.Time
		firstAmount := decimal.Zero
		if len(e.RemittanceDetails) > 0 {
			first := e.RemittanceDetails[0]
			firstDate = NormalizeDate(first.DateOfRemittance)
			firstAmount = first.AmountRemitted.Decimal
		}
		for _, s := range e.SiteDetails {
			if s.WorkStatus == StatusAddlASAwaited {
				continue
			}
			records = append(records, SiteRecord{
				SiteDetail:                s,
				FileNo:                    e.FileNo,
				ApplicantName:             e.ApplicantName,
				ApplicationType:           e.ApplicationType,
				Constituency:              e.Constituency,
				FileStatus:                e.FileStatus,
				FileFirstRemittanceDate:   firstDate,
				FileFirstRemittanceAmount: firstAmount,
				CompletionDate:            NormalizeDate(s.DateOfCompletion),
			})
		}
	}
	return records
}
