package reports

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"GroundwaterDash/api"
	"GroundwaterDash/api/constants"
	"GroundwaterDash/internal/export"
	"GroundwaterDash/internal/logger"
	"GroundwaterDash/internal/reporting"
	"GroundwaterDash/internal/store"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const defaultMaxUploadMB = 20

// SnapshotSource hands out the current file entry snapshot.
type SnapshotSource interface {
	Snapshot() ([]reporting.FileEntry, time.Time, int)
}

// Refresher reloads the snapshot on demand.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Handler serves the report endpoints over a snapshot source.
type Handler struct {
	snapshots      SnapshotSource
	refresher      Refresher
	lookup         store.Lookup
	now            func() time.Time
	maxUploadBytes int64
	refreshTimeout time.Duration
}

func NewHandler(snapshots SnapshotSource, refresher Refresher) *Handler {
	return &Handler{
		snapshots:      snapshots,
		refresher:      refresher,
		now:            time.Now,
		maxUploadBytes: defaultMaxUploadMB << 20,
		refreshTimeout: time.Minute,
	}
}

// WithLookup makes file drill-downs read through l instead of the snapshot.
func (h *Handler) WithLookup(l store.Lookup) *Handler {
	h.lookup = l
	return h
}

// NewRouter wires the report endpoints.
func NewRouter(h *Handler) *mux.Router {
	r := mux.NewRouter()
	s := r.PathPrefix("/reports").Subrouter()
	s.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	s.HandleFunc("/compute", h.section(func(vm reporting.ReportViewModel) interface{} { return vm })).Methods(http.MethodPost)
	s.HandleFunc("/progress", h.section(progressSection)).Methods(http.MethodPost)
	s.HandleFunc("/financial", h.section(financialSection)).Methods(http.MethodPost)
	s.HandleFunc("/accounts", h.section(accountsSection)).Methods(http.MethodPost)
	s.HandleFunc("/rows", h.section(func(vm reporting.ReportViewModel) interface{} { return vm.Rows })).Methods(http.MethodPost)
	s.HandleFunc("/export", h.Export).Methods(http.MethodPost)
	s.HandleFunc("/upload", h.Upload).Methods(http.MethodPost)
	s.HandleFunc("/refresh", h.Refresh).Methods(http.MethodPost)
	s.HandleFunc("/files/{fileNo:.+}", h.FileEntry).Methods(http.MethodGet)
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		api.RespondWithError(w, http.StatusMethodNotAllowed, constants.ErrMethodNotAllowed)
	})
	return r
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	entries, loadedAt, version := h.snapshots.Snapshot()
	payload := map[string]interface{}{
		"fileEntries": len(entries),
		"version":     version,
	}
	if version > 0 {
		payload["loadedAt"] = loadedAt.Format(time.RFC3339)
	}
	if fp, ok := h.snapshots.(interface{ Fingerprint() string }); ok {
		payload["fingerprint"] = fp.Fingerprint()
	}
	api.RespondWithPayload(w, true, "", payload)
}

// compute runs a report over the current snapshot, writing the error
// response itself when it returns false.
func (h *Handler) compute(w http.ResponseWriter, r *http.Request) (reporting.ReportViewModel, bool) {
	req, err := decodeRequest(r.Body)
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return reporting.ReportViewModel{}, false
	}
	filters, err := req.filters(h.now())
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return reporting.ReportViewModel{}, false
	}
	entries, loadedAt, version := h.snapshots.Snapshot()
	if version == 0 {
		api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrSnapshotNotLoaded)
		return reporting.ReportViewModel{}, false
	}

	runID := uuid.NewString()
	start := time.Now()
	vm := reporting.ComputeReport(entries, filters)
	api.LogInfo("report %s over %d file entries (snapshot v%d) took %s", runID, len(entries), version, time.Since(start).Round(time.Millisecond))

	w.Header().Set(constants.HeaderReportRunID, runID)
	w.Header().Set(constants.HeaderSnapshotLoaded, loadedAt.Format(time.RFC3339))
	return vm, true
}

func (h *Handler) section(pick func(reporting.ReportViewModel) interface{}) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		vm, ok := h.compute(w, r)
		if !ok {
			return
		}
		api.RespondWithPayload(w, true, "", pick(vm))
	}
}

func progressSection(vm reporting.ReportViewModel) interface{} {
	return map[string]interface{}{
		"title":          vm.Title,
		"period":         vm.Period,
		"progress":       vm.Progress,
		"progressTotal":  vm.ProgressTotal,
		"wellDiameter":   vm.WellDiameter,
		"wellTypeTotals": vm.WellTypeTotals,
	}
}

func financialSection(vm reporting.ReportViewModel) interface{} {
	return map[string]interface{}{
		"title":           vm.Title,
		"period":          vm.Period,
		"private":         vm.Private,
		"privateTotal":    vm.Private.Total(),
		"government":      vm.Government,
		"governmentTotal": vm.Government.Total(),
	}
}

func accountsSection(vm reporting.ReportViewModel) interface{} {
	return map[string]interface{}{
		"period":          vm.Period,
		"accounts":        vm.Accounts,
		"bankBalance":     vm.Accounts.BankBalance(),
		"treasuryBalance": vm.Accounts.TreasuryBalance(),
		"allTimeAccounts": vm.AllTimeAccounts,
	}
}

// Export renders the report as an xlsx download.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	vm, ok := h.compute(w, r)
	if !ok {
		return
	}
	writeWorkbook(w, vm)
}

func writeWorkbook(w http.ResponseWriter, vm reporting.ReportViewModel) {
	var buf bytes.Buffer
	if err := export.WriteWorkbook(vm, &buf); err != nil {
		api.LogError("export failed: %v", err)
		api.RespondWithError(w, http.StatusInternalServerError, constants.ErrExportFailed)
		return
	}
	name := fmt.Sprintf("progress_report_%s_%s.xlsx", vm.GeneratedAt.Format("20060102"), uuid.NewString()[:8])
	w.Header().Set(constants.ContentTypeText, export.WorkbookContentType)
	w.Header().Set(constants.ContentDisposition, fmt.Sprintf("attachment; filename=%q", name))
	w.Header().Set("Content-Length", fmt.Sprint(buf.Len()))
	w.Write(buf.Bytes())
}

// Upload computes a report over an uploaded register only. The cached
// snapshot is left untouched. Form fields: file, optional filters (JSON)
// and format ("json" or "xlsx").
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			api.RespondWithError(w, http.StatusRequestEntityTooLarge, constants.FormatError(constants.ErrFileTooLarge, h.maxUploadBytes>>20))
			return
		}
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrFileRequired)
		return
	}
	defer file.Close()

	var req reportRequest
	if raw := r.FormValue("filters"); raw != "" {
		if req, err = decodeRequest(strings.NewReader(raw)); err != nil {
			api.RespondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	filters, err := req.filters(h.now())
	if err != nil {
		api.RespondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := export.ReadRegister(header.Filename, file)
	switch {
	case errors.Is(err, export.ErrUnsupportedFileType):
		api.RespondWithError(w, http.StatusBadRequest, constants.ErrUnsupportedFile)
		return
	case err != nil:
		api.RespondWithError(w, http.StatusBadRequest, constants.FormatError(constants.ErrRegisterParseFailed, err.Error()))
		return
	}
	logger.Audit("register %s uploaded with %d file entries", header.Filename, len(entries))

	vm := reporting.ComputeReport(entries, filters)
	if r.FormValue("format") == "xlsx" {
		writeWorkbook(w, vm)
		return
	}
	api.RespondWithPayload(w, true, "", map[string]interface{}{
		"message": constants.FormatError(constants.SuccessUploaded, len(entries)),
		"report":  vm,
	})
}

// Refresh reloads the snapshot from the store.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	if h.refresher == nil {
		api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrSnapshotNotLoaded)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.refreshTimeout)
	defer cancel()
	if err := h.refresher.Refresh(ctx); err != nil {
		api.RespondWithError(w, http.StatusBadGateway, constants.FormatError(constants.ErrSnapshotRefreshBad, err.Error()))
		return
	}
	logger.Audit("snapshot refreshed on request from %s", r.RemoteAddr)
	api.RespondWithResult(w, true, "")
}

// FileEntry returns one file entry with its display rows. File numbers may
// contain slashes.
func (h *Handler) FileEntry(w http.ResponseWriter, r *http.Request) {
	fileNo := mux.Vars(r)["fileNo"]
	var (
		e   reporting.FileEntry
		err error
	)
	if h.lookup != nil {
		ctx, cancel := context.WithTimeout(r.Context(), h.refreshTimeout)
		defer cancel()
		e, err = h.lookup.GetFileEntry(ctx, fileNo)
	} else {
		entries, _, version := h.snapshots.Snapshot()
		if version == 0 {
			api.RespondWithError(w, http.StatusServiceUnavailable, constants.ErrSnapshotNotLoaded)
			return
		}
		e, err = findEntry(entries, fileNo)
	}
	switch {
	case errors.Is(err, store.ErrNotFound):
		api.RespondWithError(w, http.StatusNotFound, constants.FormatError(constants.ErrFileEntryNotFound, fileNo))
		return
	case err != nil:
		api.LogError("lookup %s failed: %v", fileNo, err)
		api.RespondWithError(w, http.StatusBadGateway, constants.FormatError(constants.ErrFileEntryLookup, fileNo))
		return
	}

	e = e.Recompute()
	api.RespondWithPayload(w, true, "", map[string]interface{}{
		"entry": e,
		"sites": reporting.BuildRows(reporting.Flatten([]reporting.FileEntry{e})),
	})
}

func findEntry(entries []reporting.FileEntry, fileNo string) (reporting.FileEntry, error) {
	for _, e := range entries {
		if e.FileNo == fileNo {
			return e, nil
		}
	}
	return reporting.FileEntry{}, fmt.Errorf("%s: %w", fileNo, store.ErrNotFound)
}
