package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"GroundwaterDash/internal/config"
	"GroundwaterDash/internal/reporting"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDocument = `{
	"fileNo": "GW/KLM/001",
	"applicantName": "Ravi",
	"applicationType": "Private_Domestic",
	"remittanceDetails": [{"amountRemitted": "50000", "dateOfRemittance": {"seconds": 1704844800, "nanoseconds": 0}, "remittedAccount": "Bank"}],
	"siteDetails": [{"nameOfSite": "Home", "purpose": "BWC", "diameter": "150 mm (6”)", "workStatus": "Work Completed", "dateOfCompletion": "15/02/2024", "totalExpenditure": 45000}]
}`

func TestSQLStoreListFileEntries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"file_no", "document"}).
		AddRow("GW/KLM/001", []byte(sampleDocument)).
		AddRow("GW/KLM/002", []byte(`{not json`)).
		AddRow("GW/KLM/003", []byte(`{"applicantName": "Mini"}`))
	mock.ExpectQuery(regexp.QuoteMeta(listDocumentsQuery)).WillReturnRows(rows)

	entries, err := NewSQLStore(db).ListFileEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	e := entries[0]
	assert.Equal(t, "GW/KLM/001", e.FileNo)
	assert.Equal(t, reporting.PrivateDomestic, e.ApplicationType)
	require.Len(t, e.SiteDetails, 1)
	assert.Equal(t, "45000", e.SiteDetails[0].TotalExpenditure.String())
	assert.NotNil(t, reporting.NormalizeDate(e.RemittanceDetails[0].DateOfRemittance))

	assert.Equal(t, "GW/KLM/003", entries[1].FileNo, "file number falls back to the row key")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreGetFileEntry(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewSQLStore(db)

	mock.ExpectQuery(regexp.QuoteMeta(getDocumentQuery)).
		WithArgs("GW/KLM/001").
		WillReturnRows(sqlmock.NewRows([]string{"file_no", "document"}).AddRow("GW/KLM/001", []byte(sampleDocument)))
	e, err := store.GetFileEntry(context.Background(), "GW/KLM/001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", e.ApplicantName)

	mock.ExpectQuery(regexp.QuoteMeta(getDocumentQuery)).
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"file_no", "document"}))
	_, err = store.GetFileEntry(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreListByFileNos(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	fileNos := []string{"GW/KLM/001"}
	mock.ExpectQuery(regexp.QuoteMeta(listByFileNosQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"file_no", "document"}).AddRow("GW/KLM/001", []byte(sampleDocument)))

	entries, err := NewSQLStore(db).ListByFileNos(context.Background(), fileNos)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLStoreSaveFileEntryRecomputesTotals(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	entry := reporting.FileEntry{
		FileNo: "GW/KLM/009",
		RemittanceDetails: []reporting.RemittanceDetail{
			{AmountRemitted: reporting.NewAmount(1000), DateOfRemittance: "2024-01-01", RemittedAccount: reporting.AccountBank},
		},
	}
	mock.ExpectExec(regexp.QuoteMeta(upsertQuery)).
		WithArgs("GW/KLM/009", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, NewSQLStore(db).SaveFileEntry(context.Background(), entry))
	assert.NoError(t, mock.ExpectationsWereMet())

	body, err := marshalEntry(entry)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"totalRemittance":1000.00`)
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	require.NoError(t, os.WriteFile(path, []byte("["+sampleDocument+"]"), 0644))
	fs := NewFileStore(path)

	entries, err := fs.ListFileEntries(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = fs.GetFileEntry(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrNotFound)

	e, err := fs.GetFileEntry(context.Background(), "GW/KLM/001")
	require.NoError(t, err)
	assert.Equal(t, "Ravi", e.ApplicantName)

	selected, err := fs.ListByFileNos(context.Background(), []string{"GW/KLM/001", "GW/KLM/404"})
	require.NoError(t, err)
	require.Len(t, selected, 1)
	assert.Equal(t, "GW/KLM/001", selected[0].FileNo)

	_, err = NewFileStore(filepath.Join(t.TempDir(), "missing.json")).ListFileEntries(context.Background())
	assert.Error(t, err)
}

// listOnly hides the Selector of the wrapped source.
type listOnly struct{ Source }

func TestSelect(t *testing.T) {
	path := filepath.Join(t.TempDir(), "entries.json")
	body := `[{"fileNo": "A"}, {"fileNo": "B"}, {"fileNo": "C"}]`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	fs := NewFileStore(path)
	ctx := context.Background()

	all, err := Select(ctx, fs, nil)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	for _, src := range []Source{fs, listOnly{fs}} {
		picked, err := Select(ctx, src, []string{"C", "A"})
		require.NoError(t, err)
		require.Len(t, picked, 2)
		assert.Equal(t, "A", picked[0].FileNo)
		assert.Equal(t, "C", picked[1].FileNo)
	}
}

func TestSelectUsesArrayQuery(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(regexp.QuoteMeta(listByFileNosQuery)).
		WithArgs(sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"file_no", "document"}).AddRow("GW/KLM/001", []byte(sampleDocument)))

	entries, err := Select(context.Background(), NewSQLStore(db), []string{"GW/KLM/001"})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestOpenSelectsStore(t *testing.T) {
	src, err := Open(context.Background(), config.StoreConfig{Type: config.StoreFile, SnapshotPath: "x.json"}, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, src)

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	src, err = Open(context.Background(), config.StoreConfig{Type: config.StorePostgres}, db)
	require.NoError(t, err)
	assert.IsType(t, &SQLStore{}, src)

	_, err = Open(context.Background(), config.StoreConfig{Type: "carrier-pigeon"}, nil)
	assert.ErrorIs(t, err, ErrUnknownStoreType)
}
