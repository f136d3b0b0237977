package export

import (
	"fmt"
	"io"

	"GroundwaterDash/internal/reporting"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetRows      = "Rows"
	SheetProgress  = "Progress"
	SheetDiameter  = "Diameter"
	SheetFinancial = "Financial"
	SheetAccounts  = "Accounts"
)

// WorkbookContentType is the MIME type of the exported workbook.
const WorkbookContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var progressHeaders = []string{
	"Previous Balance", "Current Applications", "To be Refunded",
	"Total Applications", "Completed", "Balance",
}

var headLabels = map[reporting.RollupHead]string{
	reporting.HeadBankCredit:              "Bank Credit",
	reporting.HeadBankDebit:               "Bank Debit",
	reporting.HeadTreasuryCredit:          "STSB Credit",
	reporting.HeadTreasuryDebit:           "STSB Debit",
	reporting.HeadRevenueHeadCredit:       "Revenue Head Credit",
	reporting.HeadPlanFundSanctioned:      "Plan Fund Sanctioned",
	reporting.HeadCollectorFundSanctioned: "Collector Fund Sanctioned",
	reporting.HeadPlanFundSpent:           "Plan Fund Spent",
	reporting.HeadCollectorFundSpent:      "Collector Fund Spent",
}

type sheetWriter struct {
	f     *excelize.File
	name  string
	row   int
	style int
}

func (w *sheetWriter) header(cells ...string) error {
	if err := w.append(stringsToCells(cells)...); err != nil {
		return err
	}
	return w.f.SetRowStyle(w.name, w.row, w.row, w.style)
}

func (w *sheetWriter) append(cells ...interface{}) error {
	w.row++
	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		return err
	}
	return w.f.SetSheetRow(w.name, cell, &cells)
}

func stringsToCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}
	return cells
}

func money(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

func statsCells(s reporting.ProgressStats) []interface{} {
	return []interface{}{s.PreviousBalance, s.CurrentApplications, s.ToBeRefunded, s.TotalApplications, s.Completed, s.Balance}
}

// BuildWorkbook renders a report into a workbook with one sheet per view.
// The caller owns the returned file and must close it.
func BuildWorkbook(vm reporting.ReportViewModel) (*excelize.File, error) {
	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, err
	}
	if err := f.SetSheetName("Sheet1", SheetRows); err != nil {
		f.Close()
		return nil, err
	}
	for _, name := range []string{SheetProgress, SheetDiameter, SheetFinancial, SheetAccounts} {
		if _, err := f.NewSheet(name); err != nil {
			f.Close()
			return nil, err
		}
	}
	if err := f.SetDocProps(&excelize.DocProperties{Title: vm.Title, Creator: "GroundwaterDash"}); err != nil {
		f.Close()
		return nil, err
	}

	writers := []func(*excelize.File, int, reporting.ReportViewModel) error{
		writeRows, writeProgress, writeDiameter, writeFinancial, writeAccounts,
	}
	for _, write := range writers {
		if err := write(f, bold, vm); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

// WriteWorkbook renders the report and writes the xlsx bytes to w.
func WriteWorkbook(vm reporting.ReportViewModel, w io.Writer) error {
	f, err := BuildWorkbook(vm)
	if err != nil {
		return fmt.Errorf("build workbook: %w", err)
	}
	defer f.Close()
	return f.Write(w)
}

func writeRows(f *excelize.File, style int, vm reporting.ReportViewModel) error {
	w := &sheetWriter{f: f, name: SheetRows, style: style}
	if err := w.header(reporting.ReportRowHeaders...); err != nil {
		return err
	}
	for _, r := range vm.Rows {
		if err := w.append(stringsToCells(r.Values())...); err != nil {
			return err
		}
	}
	return f.SetColWidth(SheetRows, "A", "H", 20)
}

func writeProgress(f *excelize.File, style int, vm reporting.ReportViewModel) error {
	w := &sheetWriter{f: f, name: SheetProgress, style: style}
	if err := w.append(vm.Title); err != nil {
		return err
	}
	if err := w.header(append([]string{"Purpose"}, progressHeaders...)...); err != nil {
		return err
	}
	for _, b := range vm.Progress.Buckets {
		if err := w.append(append([]interface{}{string(b.Key.Purpose)}, statsCells(b.Stats)...)...); err != nil {
			return err
		}
	}
	return w.append(append([]interface{}{"Total"}, statsCells(vm.ProgressTotal)...)...)
}

func writeDiameter(f *excelize.File, style int, vm reporting.ReportViewModel) error {
	w := &sheetWriter{f: f, name: SheetDiameter, style: style}
	if err := w.header(append([]string{"Purpose", "Application Type", "Diameter"}, progressHeaders...)...); err != nil {
		return err
	}
	for _, b := range vm.WellDiameter.Buckets {
		cells := []interface{}{string(b.Key.Purpose), string(b.Key.ApplicationType), b.Key.Diameter}
		if err := w.append(append(cells, statsCells(b.Stats)...)...); err != nil {
			return err
		}
	}
	for _, t := range vm.WellTypeTotals {
		cells := []interface{}{string(t.Purpose), string(t.ApplicationType), "Total"}
		if err := w.append(append(cells, statsCells(t.Stats)...)...); err != nil {
			return err
		}
	}
	return nil
}

func writeFinancial(f *excelize.File, style int, vm reporting.ReportViewModel) error {
	w := &sheetWriter{f: f, name: SheetFinancial, style: style}
	if err := w.header("View", "Purpose", "Applications", "Remittance", "Completed", "Payment"); err != nil {
		return err
	}
	views := []struct {
		label  string
		report reporting.FinancialReport
	}{
		{"Private", vm.Private},
		{"Government", vm.Government},
	}
	for _, v := range views {
		for _, p := range v.report.Purposes {
			s := v.report.Get(p)
			if err := w.append(v.label, string(p), s.TotalApplications, money(s.TotalRemittance), s.TotalCompleted, money(s.TotalPayment)); err != nil {
				return err
			}
		}
		t := v.report.Total()
		if err := w.append(v.label, "Total", t.TotalApplications, money(t.TotalRemittance), t.TotalCompleted, money(t.TotalPayment)); err != nil {
			return err
		}
	}
	return nil
}

func writeAccounts(f *excelize.File, style int, vm reporting.ReportViewModel) error {
	w := &sheetWriter{f: f, name: SheetAccounts, style: style}
	if err := w.header("Head", "Period", "All Time"); err != nil {
		return err
	}
	for _, h := range reporting.RollupHeads {
		if err := w.append(headLabels[h], money(vm.Accounts.Amount(h)), money(vm.AllTimeAccounts.Amount(h))); err != nil {
			return err
		}
	}
	if err := w.append("Bank Balance", money(vm.Accounts.BankBalance()), money(vm.AllTimeAccounts.BankBalance())); err != nil {
		return err
	}
	return w.append("STSB Balance", money(vm.Accounts.TreasuryBalance()), money(vm.AllTimeAccounts.TreasuryBalance()))
}
