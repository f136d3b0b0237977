package reporting

import (
	"time"

	"github.com/shopspring/decimal"
)

// RollupHead names one balance of the account rollup.
type RollupHead string

const (
	HeadBankCredit              RollupHead = "bankCredit"
	HeadBankDebit               RollupHead = "bankDebit"
	HeadTreasuryCredit          RollupHead = "treasuryCredit"
	HeadTreasuryDebit           RollupHead = "treasuryDebit"
	HeadRevenueHeadCredit       RollupHead = "revenueHeadCredit"
	HeadPlanFundSanctioned      RollupHead = "planFundSanctioned"
	HeadCollectorFundSanctioned RollupHead = "collectorFundSanctioned"
	HeadPlanFundSpent           RollupHead = "planFundSpent"
	HeadCollectorFundSpent      RollupHead = "collectorFundSpent"
)

// RollupHeads lists the heads in display order.
var RollupHeads = []RollupHead{
	HeadBankCredit, HeadBankDebit, HeadTreasuryCredit, HeadTreasuryDebit, HeadRevenueHeadCredit,
	HeadPlanFundSanctioned, HeadCollectorFundSanctioned, HeadPlanFundSpent, HeadCollectorFundSpent,
}

// LedgerLine is one remittance or payment contributing to a rollup head.
type LedgerLine struct {
	Head            RollupHead      `json:"head"`
	FileNo          string          `json:"fileNo"`
	ApplicantName   string          `json:"applicantName"`
	ApplicationType ApplicationType `json:"applicationType,omitempty"`
	Date            *time.Time      `json:"date"`
	Account         Account         `json:"account,omitempty"`
	Amount          decimal.Decimal `json:"amount"`
}

// AccountRollup holds the operational, sanction and revenue head balances.
type AccountRollup struct {
	BankCredit              decimal.Decimal `json:"bankCredit"`
	BankDebit               decimal.Decimal `json:"bankDebit"`
	TreasuryCredit          decimal.Decimal `json:"treasuryCredit"`
	TreasuryDebit           decimal.Decimal `json:"treasuryDebit"`
	RevenueHeadCredit       decimal.Decimal `json:"revenueHeadCredit"`
	PlanFundSanctioned      decimal.Decimal `json:"planFundSanctioned"`
	CollectorFundSanctioned decimal.Decimal `json:"collectorFundSanctioned"`
	PlanFundSpent           decimal.Decimal `json:"planFundSpent"`
	CollectorFundSpent      decimal.Decimal `json:"collectorFundSpent"`

	// Window is nil in all-time mode.
	Window *Period      `json:"window"`
	Lines  []LedgerLine `json:"lines"`
}

// BankBalance is bank credit less bank debit.
func (a AccountRollup) BankBalance() decimal.Decimal { return a.BankCredit.Sub(a.BankDebit) }

// TreasuryBalance is treasury credit less treasury debit.
func (a AccountRollup) TreasuryBalance() decimal.Decimal {
	return a.TreasuryCredit.Sub(a.TreasuryDebit)
}

// LinesFor returns the ledger lines behind one head, in input order.
func (a AccountRollup) LinesFor(head RollupHead) []LedgerLine {
	var out []LedgerLine
	for _, l := range a.Lines {
		if l.Head == head {
			out = append(out, l)
		}
	}
	return out
}

// Amount returns the total of one head.
func (a AccountRollup) Amount(head RollupHead) decimal.Decimal {
	switch head {
	case HeadBankCredit:
		return a.BankCredit
	case HeadBankDebit:
		return a.BankDebit
	case HeadTreasuryCredit:
		return a.TreasuryCredit
	case HeadTreasuryDebit:
		return a.TreasuryDebit
	case HeadRevenueHeadCredit:
		return a.RevenueHeadCredit
	case HeadPlanFundSanctioned:
		return a.PlanFundSanctioned
	case HeadCollectorFundSanctioned:
		return a.CollectorFundSanctioned
	case HeadPlanFundSpent:
		return a.PlanFundSpent
	case HeadCollectorFundSpent:
		return a.CollectorFundSpent
	}
	return decimal.Zero
}

func (a *AccountRollup) post(head RollupHead, line LedgerLine) {
	line.Head = head
	a.Lines = append(a.Lines, line)
	switch head {
	case HeadBankCredit:
		a.BankCredit = a.BankCredit.Add(line.Amount)
	case HeadBankDebit:
		a.BankDebit = a.BankDebit.Add(line.Amount)
	case HeadTreasuryCredit:
		a.TreasuryCredit = a.TreasuryCredit.Add(line.Amount)
	case HeadTreasuryDebit:
		a.TreasuryDebit = a.TreasuryDebit.Add(line.Amount)
	case HeadRevenueHeadCredit:
		a.RevenueHeadCredit = a.RevenueHeadCredit.Add(line.Amount)
	case HeadPlanFundSanctioned:
		a.PlanFundSanctioned = a.PlanFundSanctioned.Add(line.Amount)
	case HeadCollectorFundSanctioned:
		a.CollectorFundSanctioned = a.CollectorFundSanctioned.Add(line.Amount)
	case HeadPlanFundSpent:
		a.PlanFundSpent = a.PlanFundSpent.Add(line.Amount)
	case HeadCollectorFundSpent:
		a.CollectorFundSpent = a.CollectorFundSpent.Add(line.Amount)
	}
}

// inWindow gates a date on the optional window. Without a window every
// record passes, including ones with unknown dates.
func inWindow(window *Period, t *time.Time) bool {
	if window == nil {
		return true
	}
	return window.Contains(t)
}

func emptyRollup(window *Period) AccountRollup {
	z := decimal.Zero
	return AccountRollup{
		BankCredit: z, BankDebit: z, TreasuryCredit: z, TreasuryDebit: z, RevenueHeadCredit: z,
		PlanFundSanctioned: z, CollectorFundSanctioned: z, PlanFundSpent: z, CollectorFundSpent: z,
		Window: window,
	}
}

// Rollup aggregates file-level remittances and payments into account
// balances. Operational entries (private, public deposit, untyped) feed the
// bank and treasury heads; collector and plan fund entries feed the sanction
// heads. Revenue head credit is collected from every entry regardless of
// partition. A nil window selects all-time mode.
func Rollup(entries []FileEntry, window *Period) AccountRollup {
	acc := emptyRollup(window)
	for _, e := range entries {
		sanctioned := e.ApplicationType.IsSanctioned()
		planFund := e.ApplicationType.Group() == GroupPlanFund
		base := LedgerLine{FileNo: e.FileNo, ApplicantName: e.ApplicantName, ApplicationType: e.ApplicationType}

		for _, r := range e.RemittanceDetails {
			date := NormalizeDate(r.DateOfRemittance)
			if !inWindow(window, date) {
				continue
			}
			line := base
			line.Date, line.Account, line.Amount = date, r.RemittedAccount, r.AmountRemitted.Decimal

			if r.RemittedAccount == AccountRevenueHead {
				acc.post(HeadRevenueHeadCredit, line)
			}
			switch {
			case sanctioned && planFund:
				acc.post(HeadPlanFundSanctioned, line)
			case sanctioned:
				acc.post(HeadCollectorFundSanctioned, line)
			case r.RemittedAccount == AccountBank:
				acc.post(HeadBankCredit, line)
			case r.RemittedAccount == AccountSTSB:
				acc.post(HeadTreasuryCredit, line)
			}
		}

		for _, p := range e.PaymentDetails {
			date := NormalizeDate(p.DateOfPayment)
			if !inWindow(window, date) {
				continue
			}
			line := base
			line.Date, line.Account = date, p.PaymentAccount

			if !p.RevenueHead.IsZero() {
				rh := line
				rh.Amount = p.RevenueHead.Decimal
				acc.post(HeadRevenueHeadCredit, rh)
			}
			line.Amount = p.Total()
			switch {
			case sanctioned && planFund:
				acc.post(HeadPlanFundSpent, line)
			case sanctioned:
				acc.post(HeadCollectorFundSpent, line)
			case p.PaymentAccount == AccountBank:
				acc.post(HeadBankDebit, line)
			case p.PaymentAccount == AccountSTSB:
				acc.post(HeadTreasuryDebit, line)
			}
		}
	}
	return acc
}
