package reporting

// ApplicationType identifies who applied and how the work is funded.
type ApplicationType string

// ApplicationTypeGroup is the funding partition an application type belongs to.
type ApplicationTypeGroup string

const (
	GroupNone          ApplicationTypeGroup = ""
	GroupPrivate       ApplicationTypeGroup = "Private"
	GroupPublicDeposit ApplicationTypeGroup = "Deposit Work"
	GroupCollectorFund ApplicationTypeGroup = "Collector Fund"
	GroupPlanFund      ApplicationTypeGroup = "Plan Fund"
)

const (
	PrivateDomestic    ApplicationType = "Private_Domestic"
	PrivateIrrigation  ApplicationType = "Private_Irrigation"
	PrivateInstitution ApplicationType = "Private_Institution"
	PrivateIndustry    ApplicationType = "Private_Industry"

	GovernmentInstitution    ApplicationType = "Government_Institution"
	GovernmentWaterAuthority ApplicationType = "Government_Water_Authority"
	GovernmentPMKSY          ApplicationType = "Government_PMKSY"
	GovernmentLSGD           ApplicationType = "Government_LSGD"
	GovernmentOthers         ApplicationType = "Government_Others"

	CollectorMPLAD       ApplicationType = "Collector_MPLAD"
	CollectorMLASDF      ApplicationType = "Collector_MLASDF"
	CollectorDroughtFund ApplicationType = "Collector_DroughtFund"
	CollectorOthers      ApplicationType = "Collector_Others"

	PlanFundGWBDWW       ApplicationType = "GWBDWW"
	PlanFundGWBDWWOthers ApplicationType = "GWBDWW_Others"
)

var applicationTypeGroups = map[ApplicationType]ApplicationTypeGroup{
	PrivateDomestic:    GroupPrivate,
	PrivateIrrigation:  GroupPrivate,
	PrivateInstitution: GroupPrivate,
	PrivateIndustry:    GroupPrivate,

	GovernmentInstitution:    GroupPublicDeposit,
	GovernmentWaterAuthority: GroupPublicDeposit,
	GovernmentPMKSY:          GroupPublicDeposit,
	GovernmentLSGD:           GroupPublicDeposit,
	GovernmentOthers:         GroupPublicDeposit,

	CollectorMPLAD:       GroupCollectorFund,
	CollectorMLASDF:      GroupCollectorFund,
	CollectorDroughtFund: GroupCollectorFund,
	CollectorOthers:      GroupCollectorFund,

	PlanFundGWBDWW:       GroupPlanFund,
	PlanFundGWBDWWOthers: GroupPlanFund,
}

// ApplicationTypes lists the known application types in display order.
var ApplicationTypes = []ApplicationType{
	PrivateDomestic, PrivateIrrigation, PrivateInstitution, PrivateIndustry,
	GovernmentInstitution, GovernmentWaterAuthority, GovernmentPMKSY, GovernmentLSGD, GovernmentOthers,
	CollectorMPLAD, CollectorMLASDF, CollectorDroughtFund, CollectorOthers,
	PlanFundGWBDWW, PlanFundGWBDWWOthers,
}

// Group returns the funding group of the application type. Unknown types
// fall back to public deposit so they still reach the operational accounts.
func (t ApplicationType) Group() ApplicationTypeGroup {
	if t == "" {
		return GroupNone
	}
	if g, ok := applicationTypeGroups[t]; ok {
		return g
	}
	return GroupPublicDeposit
}

func (t ApplicationType) IsPrivate() bool { return t.Group() == GroupPrivate }

// IsSanctioned reports whether the application is funded by administrative sanction.
func (t ApplicationType) IsSanctioned() bool {
	g := t.Group()
	return g == GroupCollectorFund || g == GroupPlanFund
}

// Purpose is the kind of work carried out at a site.
type Purpose string

// PurposeCategory groups purposes by which technical fields apply.
type PurposeCategory string

const (
	CategoryUnknown       PurposeCategory = ""
	CategoryDrilling      PurposeCategory = "drilling"
	CategoryScheme        PurposeCategory = "scheme"
	CategoryRecharge      PurposeCategory = "recharge"
	CategoryInvestigation PurposeCategory = "investigation"
)

const (
	PurposeBWC   Purpose = "BWC"
	PurposeTWC   Purpose = "TWC"
	PurposeFPW   Purpose = "FPW"
	PurposeBWDev Purpose = "BW Dev"
	PurposeTWDev Purpose = "TW Dev"

	PurposeMWSS          Purpose = "MWSS"
	PurposeMWSSExt       Purpose = "MWSS Ext"
	PurposePumpingScheme Purpose = "Pumping Scheme"
	PurposeMWSSRejuv     Purpose = "MWSS Rejuv"

	PurposeARS     Purpose = "ARS"
	PurposeSujalam Purpose = "Sujalam"

	PurposePumpingTest Purpose = "Pumping Test"
	PurposeGeological  Purpose = "Geological"
	PurposeGeophysical Purpose = "Geophysical"
)

var purposeCategories = map[Purpose]PurposeCategory{
	PurposeBWC:           CategoryDrilling,
	PurposeTWC:           CategoryDrilling,
	PurposeFPW:           CategoryDrilling,
	PurposeBWDev:         CategoryDrilling,
	PurposeTWDev:         CategoryDrilling,
	PurposeMWSS:          CategoryScheme,
	PurposeMWSSExt:       CategoryScheme,
	PurposePumpingScheme: CategoryScheme,
	PurposeMWSSRejuv:     CategoryScheme,
	PurposeARS:           CategoryRecharge,
	PurposeSujalam:       CategoryRecharge,
	PurposePumpingTest:   CategoryInvestigation,
	PurposeGeological:    CategoryInvestigation,
	PurposeGeophysical:   CategoryInvestigation,
}

// Purposes lists the known purposes in report row order.
var Purposes = []Purpose{
	PurposeBWC, PurposeTWC, PurposeFPW, PurposeBWDev, PurposeTWDev,
	PurposeMWSS, PurposeMWSSExt, PurposePumpingScheme, PurposeMWSSRejuv,
	PurposeARS, PurposeSujalam,
	PurposePumpingTest, PurposeGeological, PurposeGeophysical,
}

func (p Purpose) Category() PurposeCategory { return purposeCategories[p] }

// RequiresDiameter reports whether sites of this purpose must record a well diameter.
func (p Purpose) RequiresDiameter() bool { return p.Category() == CategoryDrilling }

// Well diameters recorded against drilling and development purposes.
const (
	Diameter110mm = "110 mm (4.5”)"
	Diameter150mm = "150 mm (6”)"
	Diameter200mm = "200 mm (8”)"
)

// WellDiameters lists the diameter columns reported for each well type.
var WellDiameters = map[Purpose][]string{
	PurposeBWC: {Diameter110mm, Diameter150mm},
	PurposeTWC: {Diameter150mm, Diameter200mm},
}

// WorkStatus is the lifecycle state of a site.
type WorkStatus string

const (
	StatusUnderProcess       WorkStatus = "Under Process"
	StatusAddlASAwaited      WorkStatus = "Addl. AS Awaited"
	StatusToBeRefunded       WorkStatus = "To be Refunded"
	StatusAwaitingDeptRig    WorkStatus = "Awaiting Dept. Rig"
	StatusTenderProcess      WorkStatus = "Tender Process"
	StatusWorkOrderIssued    WorkStatus = "Work Order Issued"
	StatusWorkInitiated      WorkStatus = "Work Initiated"
	StatusWorkInProgress     WorkStatus = "Work in Progress"
	StatusBillPrepared       WorkStatus = "Bill Prepared"
	StatusPaymentForBill     WorkStatus = "Payment for Bill"
	StatusWorkCompleted      WorkStatus = "Work Completed"
	StatusWorkFailed         WorkStatus = "Work Failed"
	StatusAwaitingAS         WorkStatus = "Awaiting AS"
	StatusAwaitingDeposit    WorkStatus = "Awaiting Deposit"
	StatusAwaitingSiteReport WorkStatus = "Awaiting Site Report"
)

// IsTerminal reports whether the work has finished, successfully or not.
func (s WorkStatus) IsTerminal() bool {
	return s == StatusWorkCompleted || s == StatusWorkFailed
}

// Account is the account a remittance is credited to or a payment is drawn from.
type Account string

const (
	AccountBank        Account = "Bank"
	AccountSTSB        Account = "STSB"
	AccountRevenueHead Account = "Revenue Head"
	AccountPlanFund    Account = "Plan Fund"
)
