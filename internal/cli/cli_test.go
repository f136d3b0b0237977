package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"GroundwaterDash/internal/reporting"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const registerCSV = "File No,Applicant,Application Type,Remittance Date,Remittance Amount,Remitted Account,Site Name,Purpose,Diameter,Work Status,Completion Date,Total Expenditure\n" +
	"GW/1,Ravi,Private_Domestic,10/01/2024,50000,Bank,Well A,BWC,150,Work Completed,15/02/2024,45000\n" +
	"GW/2,Panchayat,Government_LSGD,05/02/2024,120000,STSB,Tank,MWSS,,Work Initiated,,\n"

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestImportThenReport(t *testing.T) {
	register := writeFile(t, "register.csv", registerCSV)
	snapshot := filepath.Join(t.TempDir(), "entries.json")

	root := RootCommand()
	root.SetArgs([]string{"import", "--file", register, "--out", snapshot})
	require.NoError(t, root.Execute())

	var entries []reporting.FileEntry
	data, err := os.ReadFile(snapshot)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "GW/2", entries[1].FileNo)

	var out bytes.Buffer
	root = RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--snapshot", snapshot, "--start", "01/02/2024", "--end", "29/02/2024"})
	require.NoError(t, root.Execute())

	var vm reporting.ReportViewModel
	require.NoError(t, json.Unmarshal(out.Bytes(), &vm))
	bwc, ok := vm.Progress.Get(reporting.BucketKey{Purpose: reporting.PurposeBWC})
	require.True(t, ok)
	assert.Equal(t, 1, bwc.Completed)
	mwss, ok := vm.Progress.Get(reporting.BucketKey{Purpose: reporting.PurposeMWSS})
	require.True(t, ok)
	assert.Equal(t, 1, mwss.CurrentApplications)
	assert.Equal(t, "120000", vm.Accounts.TreasuryCredit.String())
}

func TestReportFileNoFilter(t *testing.T) {
	snapshot := filepath.Join(t.TempDir(), "entries.json")
	root := RootCommand()
	root.SetArgs([]string{"import", "--file", writeFile(t, "register.csv", registerCSV), "--out", snapshot})
	require.NoError(t, root.Execute())

	var out bytes.Buffer
	root = RootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"report", "--snapshot", snapshot, "--file-no", "GW/2", "--start", "01/02/2024", "--end", "29/02/2024"})
	require.NoError(t, root.Execute())

	var vm reporting.ReportViewModel
	require.NoError(t, json.Unmarshal(out.Bytes(), &vm))
	assert.True(t, vm.AllTimeAccounts.BankCredit.IsZero(), "GW/1 is left out")
	assert.Equal(t, "120000", vm.Accounts.TreasuryCredit.String())
}

func TestRunReportXLSX(t *testing.T) {
	entries := []reporting.FileEntry{{FileNo: "GW/1", ApplicationType: reporting.PrivateDomestic}}
	var out bytes.Buffer
	require.NoError(t, runReport(entries, reportOptions{format: "xlsx"}, time.Now(), &out))

	f, err := excelize.OpenReader(&out)
	require.NoError(t, err)
	defer f.Close()
	assert.Len(t, f.GetSheetList(), 5)
}

func TestRunReportRejectsBadOptions(t *testing.T) {
	var out bytes.Buffer
	now := time.Now()
	assert.Error(t, runReport(nil, reportOptions{format: "pdf"}, now, &out))
	assert.Error(t, runReport(nil, reportOptions{start: "yesterday"}, now, &out))
	assert.Error(t, runReport(nil, reportOptions{start: "2024-03-01", end: "2024-02-01"}, now, &out))
	assert.ErrorContains(t, runReport(nil, reportOptions{start: "2024-02-01"}, now, &out), "together")
	assert.ErrorContains(t, runReport(nil, reportOptions{end: "2024-02-29"}, now, &out), "together")
}

type fakeSaver struct {
	saved []string
	err   error
}

func (f *fakeSaver) SaveFileEntry(ctx context.Context, e reporting.FileEntry) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, e.FileNo)
	return nil
}

func TestSaveEntries(t *testing.T) {
	entries, err := readRegisterFile(writeFile(t, "register.csv", registerCSV))
	require.NoError(t, err)

	var log bytes.Buffer
	saver := &fakeSaver{}
	require.NoError(t, saveEntries(context.Background(), saver, entries, &log))
	assert.Equal(t, []string{"GW/1", "GW/2"}, saver.saved)
	assert.Equal(t, "saved 2 file entries\n", log.String())

	saver.err = errors.New("conflict")
	assert.ErrorContains(t, saveEntries(context.Background(), saver, entries, &log), "GW/1")
}

func TestImportRequiresFile(t *testing.T) {
	root := RootCommand()
	root.SetArgs([]string{"import"})
	assert.Error(t, root.Execute())
}
