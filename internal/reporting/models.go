package reporting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// FileEntry is one application/case and everything recorded against it.
// Date fields hold whatever the store delivered; they are only ever read
// through NormalizeDate.
type FileEntry struct {
	FileNo            string             `json:"fileNo"`
	ApplicantName     string             `json:"applicantName"`
	ApplicationType   ApplicationType    `json:"applicationType,omitempty"`
	Constituency      string             `json:"constituency,omitempty"`
	FileStatus        string             `json:"fileStatus,omitempty"`
	Remarks           string             `json:"remarks,omitempty"`
	RemittanceDetails []RemittanceDetail `json:"remittanceDetails"`
	PaymentDetails    []PaymentDetail    `json:"paymentDetails"`
	SiteDetails       []SiteDetail       `json:"siteDetails"`

	// Cached totals, recomputed by Recompute. Reports never read them.
	TotalRemittance        Amount `json:"totalRemittance"`
	TotalPaymentAllEntries Amount `json:"totalPaymentAllEntries"`
	OverallBalance         Amount `json:"overallBalance"`
}

type RemittanceDetail struct {
	AmountRemitted    Amount      `json:"amountRemitted"`
	DateOfRemittance  interface{} `json:"dateOfRemittance"`
	RemittedAccount   Account     `json:"remittedAccount,omitempty"`
	RemittanceRemarks string      `json:"remittanceRemarks,omitempty"`
}

type PaymentDetail struct {
	DateOfPayment      interface{} `json:"dateOfPayment"`
	PaymentAccount     Account     `json:"paymentAccount,omitempty"`
	RevenueHead        Amount      `json:"revenueHead"`
	ContractorsPayment Amount      `json:"contractorsPayment"`
	GST                Amount      `json:"gst"`
	IncomeTax          Amount      `json:"incomeTax"`
	KBCWB              Amount      `json:"kbcwb"`
	RefundToParty      Amount      `json:"refundToParty"`
	PaymentRemarks     string      `json:"paymentRemarks,omitempty"`
}

// Total is the sum of the payment's component amounts.
func (p PaymentDetail) Total() decimal.Decimal {
	return sumAmounts(p.RevenueHead, p.ContractorsPayment, p.GST, p.IncomeTax, p.KBCWB, p.RefundToParty)
}

// SiteDetail is one work location. Which technical block is meaningful
// depends on the purpose category; at most one of Drilling, Scheme and
// Recharge is set.
type SiteDetail struct {
	NameOfSite       string      `json:"nameOfSite"`
	Purpose          Purpose     `json:"purpose,omitempty"`
	WorkStatus       WorkStatus  `json:"workStatus,omitempty"`
	DateOfCompletion interface{} `json:"dateOfCompletion,omitempty"`
	Diameter         string      `json:"diameter,omitempty"`
	TotalExpenditure Amount      `json:"totalExpenditure"`
	EstimateAmount   Amount      `json:"estimateAmount"`
	Remarks          string      `json:"workRemarks,omitempty"`

	Drilling *DrillingSpec `json:"drilling,omitempty"`
	Scheme   *SchemeSpec   `json:"scheme,omitempty"`
	Recharge *RechargeSpec `json:"recharge,omitempty"`
}

// DrillingSpec holds the well construction fields of drilling and development purposes.
type DrillingSpec struct {
	TotalDepth       Amount `json:"totalDepth"`
	CasingPipeUsed   string `json:"casingPipeUsed,omitempty"`
	OuterCasingPipe  string `json:"outerCasingPipe,omitempty"`
	InnerCasingPipe  string `json:"innerCasingPipe,omitempty"`
	YieldDischarge   Amount `json:"yieldDischarge"`
	ZoneDetails      string `json:"zoneDetails,omitempty"`
	WaterLevel       Amount `json:"waterLevel"`
	DrillingRemarks  string `json:"drillingRemarks,omitempty"`
	DevelopingHours  Amount `json:"developingHours"`
	PumpingLineLevel Amount `json:"pumpingLineLevel"`
}

// SchemeSpec holds the supply scheme fields.
type SchemeSpec struct {
	PumpDetails        string `json:"pumpDetails,omitempty"`
	WaterTankCapacity  string `json:"waterTankCapacity,omitempty"`
	NoOfTapConnections int    `json:"noOfTapConnections,omitempty"`
	NoOfBeneficiaries  int    `json:"noOfBeneficiaries,omitempty"`
}

// RechargeSpec holds the artificial recharge structure counts.
type RechargeSpec struct {
	NoOfRechargePits    int `json:"noOfRechargePits,omitempty"`
	NoOfCheckDams       int `json:"noOfCheckDams,omitempty"`
	NoOfSubSurfaceDykes int `json:"noOfSubSurfaceDykes,omitempty"`
	NoOfPondRenovations int `json:"noOfPondRenovations,omitempty"`
}

var (
	ErrCompletionDateRequired   = errors.New("date of completion is required for completed or failed work")
	ErrCompletionDateNotAllowed = errors.New("date of completion is only allowed for completed or failed work")
	ErrDiameterRequired         = errors.New("diameter is required for drilling and development purposes")
	ErrDiameterNotAllowed       = errors.New("diameter is only allowed for drilling and development purposes")
	ErrSpecMismatch             = errors.New("technical details do not match the site purpose")
	ErrEmptyPayment             = errors.New("payment needs at least one amount or a remark")
	ErrRemittanceDateRequired   = errors.New("date of remittance is required")
)

// Validate checks the gating rules the data-entry layer enforces on a site.
// Reports tolerate sites that fail it.
func (s SiteDetail) Validate() error {
	hasDate := NormalizeDate(s.DateOfCompletion) != nil
	switch {
	case s.WorkStatus.IsTerminal() && !hasDate:
		return fmt.Errorf("site %q: %w", s.NameOfSite, ErrCompletionDateRequired)
	case !s.WorkStatus.IsTerminal() && hasDate:
		return fmt.Errorf("site %q: %w", s.NameOfSite, ErrCompletionDateNotAllowed)
	}
	hasDiameter := strings.TrimSpace(s.Diameter) != ""
	switch {
	case s.Purpose.RequiresDiameter() && !hasDiameter:
		return fmt.Errorf("site %q: %w", s.NameOfSite, ErrDiameterRequired)
	case !s.Purpose.RequiresDiameter() && hasDiameter:
		return fmt.Errorf("site %q: %w", s.NameOfSite, ErrDiameterNotAllowed)
	}
	cat := s.Purpose.Category()
	if (s.Drilling != nil && cat != CategoryDrilling) ||
		(s.Scheme != nil && cat != CategoryScheme) ||
		(s.Recharge != nil && cat != CategoryRecharge) {
		return fmt.Errorf("site %q: %w", s.NameOfSite, ErrSpecMismatch)
	}
	return nil
}

func (p PaymentDetail) Validate() error {
	if p.Total().IsZero() && strings.TrimSpace(p.PaymentRemarks) == "" {
		return ErrEmptyPayment
	}
	return nil
}

func (r RemittanceDetail) Validate() error {
	anySet := !r.AmountRemitted.IsZero() || r.RemittedAccount != "" || strings.TrimSpace(r.RemittanceRemarks) != ""
	if anySet && NormalizeDate(r.DateOfRemittance) == nil {
		return ErrRemittanceDateRequired
	}
	return nil
}

// Validate runs the detail validators and joins their errors.
func (f FileEntry) Validate() error {
	var errs []error
	for i, r := range f.RemittanceDetails {
		if err := r.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("remittance %d: %w", i+1, err))
		}
	}
	for i, p := range f.PaymentDetails {
		if err := p.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("payment %d: %w", i+1, err))
		}
	}
	for _, s := range f.SiteDetails {
		if err := s.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Recompute returns a copy of the entry with its cached totals derived from
// the remittance and payment details.
func (f FileEntry) Recompute() FileEntry {
	remitted := decimal.Zero
	for _, r := range f.RemittanceDetails {
		remitted = remitted.Add(r.AmountRemitted.Decimal)
	}
	paid := decimal.Zero
	for _, p := range f.PaymentDetails {
		paid = paid.Add(p.Total())
	}
	f.TotalRemittance = Amount{remitted}
	f.TotalPaymentAllEntries = Amount{paid}
	f.OverallBalance = Amount{remitted.Sub(paid)}
	return f
}
