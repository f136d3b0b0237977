package reporting

import (
	"github.com/shopspring/decimal"
)

// FinancialSummary is the per-purpose money view of a report period.
// Application counts are per file; completion totals are per site.
type FinancialSummary struct {
	TotalApplications int             `json:"totalApplications"`
	TotalRemittance   decimal.Decimal `json:"totalRemittance"`
	TotalCompleted    int             `json:"totalCompleted"`
	TotalPayment      decimal.Decimal `json:"totalPayment"`

	ApplicationData []SiteRecord `json:"applicationData"`
	RemittanceData  []SiteRecord `json:"remittanceData"`
	CompletedData   []SiteRecord `json:"completedData"`
	PaymentData     []SiteRecord `json:"paymentData"`
}

// FinancialReport holds one summary per purpose, listed in Purposes order.
type FinancialReport struct {
	Purposes  []Purpose                    `json:"purposes"`
	Summaries map[Purpose]FinancialSummary `json:"summaries"`
}

// Get returns the summary for p, or an empty summary.
func (r FinancialReport) Get(p Purpose) FinancialSummary {
	return r.Summaries[p]
}

// Total adds every purpose's summary together.
func (r FinancialReport) Total() FinancialSummary {
	total := FinancialSummary{TotalRemittance: decimal.Zero, TotalPayment: decimal.Zero}
	for _, p := range r.Purposes {
		s := r.Summaries[p]
		total.TotalApplications += s.TotalApplications
		total.TotalRemittance = total.TotalRemittance.Add(s.TotalRemittance)
		total.TotalCompleted += s.TotalCompleted
		total.TotalPayment = total.TotalPayment.Add(s.TotalPayment)
		total.ApplicationData = append(total.ApplicationData, s.ApplicationData...)
		total.RemittanceData = append(total.RemittanceData, s.RemittanceData...)
		total.CompletedData = append(total.CompletedData, s.CompletedData...)
		total.PaymentData = append(total.PaymentData, s.PaymentData...)
	}
	return total
}

type filePurposeKey struct {
	fileNo  string
	purpose Purpose
}

type completedSiteKey struct {
	fileNo  string
	site    string
	purpose Purpose
}

// SummarizeFinancials builds per-purpose financial summaries for the records
// whose application type is accepted by include. Records without a purpose
// or an application type are skipped.
//
// A file counts once per purpose it touches: its first remittance amount is
// attributed to each such purpose once, however many sites share it.
// Completion totals come from unique completed sites and their own expenditure.
func SummarizeFinancials(items []Classified, include func(ApplicationType) bool, purposes ...Purpose) FinancialReport {
	if len(purposes) == 0 {
		purposes = Purposes
	}
	building := make(map[Purpose]*FinancialSummary, len(purposes))
	order := make([]Purpose, 0, len(purposes))
	summary := func(p Purpose) *FinancialSummary {
		s, ok := building[p]
		if !ok {
			s = &FinancialSummary{TotalRemittance: decimal.Zero, TotalPayment: decimal.Zero}
			building[p] = s
			order = append(order, p)
		}
		return s
	}
	for _, p := range purposes {
		summary(p)
	}

	appSeen := make(map[filePurposeKey]bool)
	for _, c := range items {
		r := c.Record
		if r.Purpose == "" || r.ApplicationType == "" || !include(r.ApplicationType) || !c.Class.IsCurrent {
			continue
		}
		k := filePurposeKey{r.FileNo, r.Purpose}
		if appSeen[k] {
			continue
		}
		appSeen[k] = true
		s := summary(r.Purpose)
		s.ApplicationData = append(s.ApplicationData, r)
		s.RemittanceData = append(s.RemittanceData, r)
		s.TotalRemittance = s.TotalRemittance.Add(r.FileFirstRemittanceAmount)
	}

	siteSeen := make(map[completedSiteKey]bool)
	for _, c := range items {
		r := c.Record
		if r.Purpose == "" || r.ApplicationType == "" || !include(r.ApplicationType) || !c.Class.IsCompletedInPeriod {
			continue
		}
		k := completedSiteKey{r.FileNo, r.NameOfSite, r.Purpose}
		if siteSeen[k] {
			continue
		}
		siteSeen[k] = true
		s := summary(r.Purpose)
		s.CompletedData = append(s.CompletedData, r)
		s.PaymentData = append(s.PaymentData, r)
		s.TotalCompleted++
		s.TotalPayment = s.TotalPayment.Add(r.TotalExpenditure.Decimal)
	}

	report := FinancialReport{Purposes: order, Summaries: make(map[Purpose]FinancialSummary, len(order))}
	for _, p := range order {
		s := building[p]
		s.TotalApplications = countFiles(s.ApplicationData)
		report.Summaries[p] = *s
	}
	return report
}

func countFiles(records []SiteRecord) int {
	files := make(map[string]struct{}, len(records))
	for _, r := range records {
		files[r.FileNo] = struct{}{}
	}
	return len(files)
}

// PrivateOnly accepts private application types.
func PrivateOnly(t ApplicationType) bool { return t.IsPrivate() }

// GovernmentOnly accepts every application type outside the private group.
func GovernmentOnly(t ApplicationType) bool { return !t.IsPrivate() }
