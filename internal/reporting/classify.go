package reporting

import (
	"time"

	"GroundwaterDash/internal/config"
)

// Period is an inclusive report window at day granularity.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// NewPeriod widens start and end to the start and end of their days.
func NewPeriod(start, end time.Time) Period {
	return Period{Start: StartOfDay(start), End: EndOfDay(end)}
}

// FinancialYear returns the April to March year containing t.
func FinancialYear(t time.Time) Period {
	local := t.In(reportLocation)
	year := local.Year()
	if int(local.Month()) < config.FinancialYearStartMonth {
		year--
	}
	start := time.Date(year, time.Month(config.FinancialYearStartMonth), 1, 0, 0, 0, 0, reportLocation)
	return NewPeriod(start, start.AddDate(1, 0, -1))
}

// Contains reports whether t falls inside the window. A nil t never does.
func (p Period) Contains(t *time.Time) bool {
	return t != nil && !t.Before(p.Start) && !t.After(p.End)
}

// Classification records which period sets a site belongs to. The flags are
// independent; a site may be in several.
type Classification struct {
	IsPreviousBalance   bool `json:"isPreviousBalance"`
	IsCurrent           bool `json:"isCurrent"`
	IsCompletedInPeriod bool `json:"isCompletedInPeriod"`
	IsToBeRefunded      bool `json:"isToBeRefunded"`
}

// Classify decides period membership for one site. Any rule that needs a date
// the record does not have evaluates to false.
func Classify(r SiteRecord, p Period) Classification {
	remitted := r.FileFirstRemittanceDate
	completed := r.CompletionDate

	var c Classification
	c.IsCurrent = p.Contains(remitted)
	if remitted != nil && remitted.Before(p.Start) {
		c.IsPreviousBalance = completed == nil || !completed.Before(p.Start)
	}
	c.IsCompletedInPeriod = p.Contains(completed)
	// Refund candidates have no lower bound: anything remitted up to the end
	// of the window counts.
	c.IsToBeRefunded = r.WorkStatus == StatusToBeRefunded && remitted != nil && !remitted.After(p.End)
	return c
}

// Classified pairs a site with its classification for one period.
type Classified struct {
	Record SiteRecord     `json:"record"`
	Class  Classification `json:"class"`
}

// ClassifyAll classifies every record against p, preserving order.
func ClassifyAll(records []SiteRecord, p Period) []Classified {
	out := make([]Classified, len(records))
	for i, r := range records {
		out[i] = Classified{Record: r, Class: Classify(r, p)}
	}
	return out
}
