package reporting

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	records := Flatten([]FileEntry{scenarioFile()})
	require.Len(t, records, 1)
	rec := records[0]

	tests := []struct {
		name   string
		period Period
		want   Classification
	}{
		{
			name:   "february report sees a previous balance completed in period",
			period: period(t, "2024-02-01", "2024-02-28"),
			want:   Classification{IsPreviousBalance: true, IsCompletedInPeriod: true},
		},
		{
			name:   "january report sees a current application not yet completed",
			period: period(t, "2024-01-01", "2024-01-31"),
			want:   Classification{IsCurrent: true},
		},
		{
			name:   "march report sees nothing once completed before the window",
			period: period(t, "2024-03-01", "2024-03-31"),
			want:   Classification{},
		},
		{
			name:   "report before the remittance sees nothing",
			period: period(t, "2023-12-01", "2023-12-31"),
			want:   Classification{},
		},
		{
			name:   "remittance on the first day of the window is current",
			period: period(t, "2024-01-10", "2024-01-31"),
			want:   Classification{IsCurrent: true},
		},
		{
			name:   "completion on the last day of the window counts",
			period: period(t, "2024-02-01", "2024-02-15"),
			want:   Classification{IsPreviousBalance: true, IsCompletedInPeriod: true},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(rec, tt.period))
		})
	}
}

func TestClassifyUnparseableCompletionIsPreviousBalance(t *testing.T) {
	e := fileEntry("F2", PrivateDomestic,
		[]RemittanceDetail{remittance("2023-06-01", 1000, AccountBank)},
		site("S", PurposeBWC, StatusWorkCompleted, "sometime in march"),
	)
	rec := Flatten([]FileEntry{e})[0]
	require.Nil(t, rec.CompletionDate)

	for _, p := range []Period{
		period(t, "2023-07-01", "2023-07-31"),
		period(t, "2024-01-01", "2024-12-31"),
		period(t, "2030-01-01", "2030-01-31"),
	} {
		c := Classify(rec, p)
		assert.True(t, c.IsPreviousBalance)
		assert.False(t, c.IsCompletedInPeriod)
	}
}

func TestClassifyMissingRemittanceDate(t *testing.T) {
	e := fileEntry("F3", PrivateDomestic,
		[]RemittanceDetail{remittance("??", 1000, AccountBank)},
		site("S", PurposeBWC, StatusToBeRefunded, nil),
	)
	rec := Flatten([]FileEntry{e})[0]
	assert.Equal(t, Classification{}, Classify(rec, period(t, "2024-01-01", "2024-12-31")))
}

func TestClassifyToBeRefunded(t *testing.T) {
	e := fileEntry("F4", PrivateIrrigation,
		[]RemittanceDetail{remittance("2024-03-10", 2000, AccountBank)},
		site("S", PurposeBWC, StatusToBeRefunded, nil),
	)
	rec := Flatten([]FileEntry{e})[0]

	tests := []struct {
		name   string
		period Period
		want   bool
	}{
		{"window ending on the remittance day counts", period(t, "2024-03-01", "2024-03-10"), true},
		{"window starting long after still counts", period(t, "2025-01-01", "2025-01-31"), true},
		{"window entirely before the remittance does not count", period(t, "2024-01-01", "2024-03-09"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(rec, tt.period).IsToBeRefunded)
		})
	}
}

func TestFlattenSkipsAddlASAwaitedAndKeepsFirstRemittance(t *testing.T) {
	e := fileEntry("F5", GovernmentInstitution,
		[]RemittanceDetail{
			remittance("2024-01-05", 100, AccountBank),
			remittance("2024-06-05", 900, AccountBank),
		},
		site("A", PurposeMWSS, StatusWorkInProgress, nil),
		site("B", PurposeMWSS, StatusAddlASAwaited, nil),
		site("C", PurposeARS, StatusUnderProcess, nil),
	)
	records := Flatten([]FileEntry{e})
	require.Len(t, records, 2)
	assert.Equal(t, "A", records[0].NameOfSite)
	assert.Equal(t, "C", records[1].NameOfSite)
	for _, r := range records {
		assert.Equal(t, "F5", r.FileNo)
		assert.Equal(t, GovernmentInstitution, r.ApplicationType)
		assert.True(t, day(t, "2024-01-05").Equal(*r.FileFirstRemittanceDate))
		assert.Equal(t, "100", r.FileFirstRemittanceAmount.String())
	}
}

func TestFlattenFileWithoutRemittance(t *testing.T) {
	e := fileEntry("F6", PrivateDomestic, nil, site("A", PurposeFPW, StatusUnderProcess, nil))
	records := Flatten([]FileEntry{e})
	require.Len(t, records, 1)
	assert.Nil(t, records[0].FileFirstRemittanceDate)
	assert.True(t, records[0].FileFirstRemittanceAmount.IsZero())
}
