package reporting

// ProgressStats holds the six progress counters of one bucket, each with the
// exact records behind it.
type ProgressStats struct {
	PreviousBalance     int `json:"previousBalance"`
	CurrentApplications int `json:"currentApplications"`
	ToBeRefunded        int `json:"toBeRefunded"`
	TotalApplications   int `json:"totalApplications"`
	Completed           int `json:"completed"`
	Balance             int `json:"balance"`

	PreviousBalanceData     []SiteRecord `json:"previousBalanceData"`
	CurrentApplicationsData []SiteRecord `json:"currentApplicationsData"`
	ToBeRefundedData        []SiteRecord `json:"toBeRefundedData"`
	TotalApplicationsData   []SiteRecord `json:"totalApplicationsData"`
	CompletedData           []SiteRecord `json:"completedData"`
	BalanceData             []SiteRecord `json:"balanceData"`
}

// add folds one classified record into the stats.
func (s *ProgressStats) add(c Classified) {
	if c.Class.IsPreviousBalance {
		s.PreviousBalance++
		s.PreviousBalanceData = append(s.PreviousBalanceData, c.Record)
	}
	if c.Class.IsCurrent {
		s.CurrentApplications++
		s.CurrentApplicationsData = append(s.CurrentApplicationsData, c.Record)
	}
	if c.Class.IsToBeRefunded {
		s.ToBeRefunded++
		s.ToBeRefundedData = append(s.ToBeRefundedData, c.Record)
	}
	if c.Class.IsCompletedInPeriod {
		s.Completed++
		s.CompletedData = append(s.CompletedData, c.Record)
	}
}

// finalize derives the total and balance counters and their backing lists.
func (s *ProgressStats) finalize() {
	s.TotalApplications = s.PreviousBalance + s.CurrentApplications - s.ToBeRefunded
	s.Balance = s.TotalApplications - s.Completed

	refunded := keySet(s.ToBeRefundedData)
	completed := keySet(s.CompletedData)
	seen := make(map[siteKey]bool)

	s.TotalApplicationsData = nil
	s.BalanceData = nil
	for _, list := range [][]SiteRecord{s.PreviousBalanceData, s.CurrentApplicationsData} {
		for _, r := range list {
			k := r.key()
			if seen[k] || refunded[k] {
				continue
			}
			seen[k] = true
			s.TotalApplicationsData = append(s.TotalApplicationsData, r)
			if !completed[k] {
				s.BalanceData = append(s.BalanceData, r)
			}
		}
	}
}

func keySet(records []SiteRecord) map[siteKey]bool {
	set := make(map[siteKey]bool, len(records))
	for _, r := range records {
		set[r.key()] = true
	}
	return set
}

// SumStats adds counters and concatenates backing lists across buckets. Lists
// are not deduplicated so a rollup shows every contributing record.
func SumStats(stats ...ProgressStats) ProgressStats {
	var total ProgressStats
	for _, s := range stats {
		total.PreviousBalance += s.PreviousBalance
		total.CurrentApplications += s.CurrentApplications
		total.ToBeRefunded += s.ToBeRefunded
		total.TotalApplications += s.TotalApplications
		total.Completed += s.Completed
		total.Balance += s.Balance

		total.PreviousBalanceData = append(total.PreviousBalanceData, s.PreviousBalanceData...)
		total.CurrentApplicationsData = append(total.CurrentApplicationsData, s.CurrentApplicationsData...)
		total.ToBeRefundedData = append(total.ToBeRefundedData, s.ToBeRefundedData...)
		total.TotalApplicationsData = append(total.TotalApplicationsData, s.TotalApplicationsData...)
		total.CompletedData = append(total.CompletedData, s.CompletedData...)
		total.BalanceData = append(total.BalanceData, s.BalanceData...)
	}
	return total
}

// BucketKey names a progress bucket. Flat purpose buckets leave
// ApplicationType and Diameter empty.
type BucketKey struct {
	Purpose         Purpose         `json:"purpose"`
	ApplicationType ApplicationType `json:"applicationType,omitempty"`
	Diameter        string          `json:"diameter,omitempty"`
}

// BucketKeyFunc maps a record to its bucket, or reports false when the
// record lacks a field the bucketing needs.
type BucketKeyFunc func(SiteRecord) (BucketKey, bool)

// ByPurpose buckets records by service purpose alone.
func ByPurpose(r SiteRecord) (BucketKey, bool) {
	if r.Purpose == "" {
		return BucketKey{}, false
	}
	return BucketKey{Purpose: r.Purpose}, true
}

// ByWellDiameter buckets well-construction records by purpose, application
// type and diameter. Other purposes are not bucketed.
func ByWellDiameter(r SiteRecord) (BucketKey, bool) {
	if _, ok := WellDiameters[r.Purpose]; !ok {
		return BucketKey{}, false
	}
	if r.ApplicationType == "" || r.Diameter == "" {
		return BucketKey{}, false
	}
	return BucketKey{Purpose: r.Purpose, ApplicationType: r.ApplicationType, Diameter: r.Diameter}, true
}

// ProgressBucket is one row of a progress table.
type ProgressBucket struct {
	Key   BucketKey     `json:"key"`
	Stats ProgressStats `json:"stats"`
}

// ProgressTable is an ordered set of buckets: seeded keys first, then keys
// in order of first appearance in the input.
type ProgressTable struct {
	Buckets []ProgressBucket `json:"buckets"`
}

// Get returns the stats of the bucket with the given key.
func (t ProgressTable) Get(key BucketKey) (ProgressStats, bool) {
	for _, b := range t.Buckets {
		if b.Key == key {
			return b.Stats, true
		}
	}
	return ProgressStats{}, false
}

// Filter returns the stats of every bucket accepted by keep, in table order.
func (t ProgressTable) Filter(keep func(BucketKey) bool) []ProgressStats {
	var out []ProgressStats
	for _, b := range t.Buckets {
		if keep(b.Key) {
			out = append(out, b.Stats)
		}
	}
	return out
}

// Aggregate folds classified records into per-bucket progress stats and
// finalizes the derived counters. It never modifies its input.
func Aggregate(items []Classified, keyFn BucketKeyFunc, seed ...BucketKey) ProgressTable {
	index := make(map[BucketKey]int, len(seed))
	var buckets []ProgressBucket
	bucket := func(k BucketKey) *ProgressStats {
		i, ok := index[k]
		if !ok {
			i = len(buckets)
			index[k] = i
			buckets = append(buckets, ProgressBucket{Key: k})
		}
		return &buckets[i].Stats
	}
	for _, k := range seed {
		bucket(k)
	}
	for _, c := range items {
		k, ok := keyFn(c.Record)
		if !ok {
			continue
		}
		bucket(k).add(c)
	}
	for i := range buckets {
		buckets[i].Stats.finalize()
	}
	return ProgressTable{Buckets: buckets}
}
