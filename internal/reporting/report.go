package reporting

import (
	"time"

	"GroundwaterDash/internal/config"
)

// ReportFilters are the caller's selections for one report run. Empty
// slices select everything. Start and End bound the report period; when
// either is missing the period defaults to the financial year containing Now
// and the account rollup runs in all-time mode.
type ReportFilters struct {
	Start            *time.Time        `json:"start,omitempty"`
	End              *time.Time        `json:"end,omitempty"`
	ApplicationTypes []ApplicationType `json:"applicationTypes,omitempty"`
	ServicePurposes  []Purpose         `json:"servicePurposes,omitempty"`
	Constituencies   []string          `json:"constituencies,omitempty"`
	Now              time.Time         `json:"-"`
}

// HasWindow reports whether both period bounds were supplied.
func (f ReportFilters) HasWindow() bool { return f.Start != nil && f.End != nil }

// Period returns the report period the filters select.
func (f ReportFilters) Period() Period {
	if f.HasWindow() {
		return NewPeriod(*f.Start, *f.End)
	}
	return FinancialYear(f.now())
}

func (f ReportFilters) now() time.Time {
	if f.Now.IsZero() {
		return time.Now()
	}
	return f.Now
}

func (f ReportFilters) acceptsEntry(e FileEntry) bool {
	return containsOrEmpty(f.ApplicationTypes, e.ApplicationType) && containsOrEmpty(f.Constituencies, e.Constituency)
}

func (f ReportFilters) acceptsSite(r SiteRecord) bool {
	return containsOrEmpty(f.ServicePurposes, r.Purpose)
}

func containsOrEmpty[T comparable](set []T, v T) bool {
	if len(set) == 0 {
		return true
	}
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

// WellTypeTotal is the all-diameter rollup of one well type for one application type.
type WellTypeTotal struct {
	Purpose         Purpose         `json:"purpose"`
	ApplicationType ApplicationType `json:"applicationType"`
	Stats           ProgressStats   `json:"stats"`
}

// ReportViewModel is everything the presentation and export layers render.
type ReportViewModel struct {
	Title       string    `json:"title"`
	GeneratedAt time.Time `json:"generatedAt"`
	Period      Period    `json:"period"`

	Progress        ProgressTable   `json:"progress"`
	ProgressTotal   ProgressStats   `json:"progressTotal"`
	WellDiameter    ProgressTable   `json:"wellDiameter"`
	WellTypeTotals  []WellTypeTotal `json:"wellTypeTotals"`
	Private         FinancialReport `json:"private"`
	Government      FinancialReport `json:"government"`
	Accounts        AccountRollup   `json:"accounts"`
	AllTimeAccounts AccountRollup   `json:"allTimeAccounts"`
	Rows            []ReportRow     `json:"rows"`
}

// ComputeReport derives the full report for a snapshot. The snapshot is only
// read; every call builds fresh output.
func ComputeReport(snapshot []FileEntry, filters ReportFilters) ReportViewModel {
	now := filters.now()
	period := filters.Period()

	entries := make([]FileEntry, 0, len(snapshot))
	for _, e := range snapshot {
		if filters.acceptsEntry(e) {
			entries = append(entries, e)
		}
	}

	var records []SiteRecord
	for _, r := range Flatten(entries) {
		if filters.acceptsSite(r) {
			records = append(records, r)
		}
	}
	classified := ClassifyAll(records, period)

	progress := Aggregate(classified, ByPurpose, purposeSeed(filters)...)
	diameter := Aggregate(classified, ByWellDiameter, diameterSeed(filters)...)

	vm := ReportViewModel{
		Title:         reportTitle(period, now),
		GeneratedAt:   now,
		Period:        period,
		Progress:      progress,
		ProgressTotal: SumStats(progress.Filter(func(BucketKey) bool { return true })...),
		WellDiameter:  diameter,
		Private:       SummarizeFinancials(classified, PrivateOnly),
		Government:    SummarizeFinancials(classified, GovernmentOnly),
		Rows:          BuildRows(records),
	}
	vm.WellTypeTotals = wellTypeTotals(diameter)

	vm.AllTimeAccounts = Rollup(entries, nil)
	if filters.HasWindow() {
		vm.Accounts = Rollup(entries, &period)
	} else {
		vm.Accounts = vm.AllTimeAccounts
	}
	return vm
}

func reportTitle(p Period, now time.Time) string {
	return "Progress Report for the period " + p.Start.Format(config.DisplayDateFormat) +
		" to " + p.End.Format(config.DisplayDateFormat) +
		" as on " + now.In(reportLocation).Format(config.TitleDateFormat)
}

func purposeSeed(f ReportFilters) []BucketKey {
	purposes := Purposes
	if len(f.ServicePurposes) > 0 {
		purposes = f.ServicePurposes
	}
	keys := make([]BucketKey, len(purposes))
	for i, p := range purposes {
		keys[i] = BucketKey{Purpose: p}
	}
	return keys
}

func diameterSeed(f ReportFilters) []BucketKey {
	types := ApplicationTypes
	if len(f.ApplicationTypes) > 0 {
		types = f.ApplicationTypes
	}
	var keys []BucketKey
	for _, p := range []Purpose{PurposeBWC, PurposeTWC} {
		if !containsOrEmpty(f.ServicePurposes, p) {
			continue
		}
		for _, t := range types {
			for _, d := range WellDiameters[p] {
				keys = append(keys, BucketKey{Purpose: p, ApplicationType: t, Diameter: d})
			}
		}
	}
	return keys
}

// wellTypeTotals sums each (purpose, application type) across diameters, in
// the order the pairs first appear in the table.
func wellTypeTotals(t ProgressTable) []WellTypeTotal {
	type pair struct {
		p Purpose
		a ApplicationType
	}
	var order []pair
	seen := make(map[pair]bool)
	for _, b := range t.Buckets {
		k := pair{b.Key.Purpose, b.Key.ApplicationType}
		if !seen[k] {
			seen[k] = true
			order = append(order, k)
		}
	}
	totals := make([]WellTypeTotal, len(order))
	for i, k := range order {
		totals[i] = WellTypeTotal{
			Purpose:         k.p,
			ApplicationType: k.a,
			Stats: SumStats(t.Filter(func(b BucketKey) bool {
				return b.Purpose == k.p && b.ApplicationType == k.a
			})...),
		}
	}
	return totals
}
