package models

import "time"

// CashflowEntry is one (period, amount) pair of a cash-flow series
type CashflowEntry struct {
	Period int     `json:"period"`
	Amount float64 `json:"amount"`
}

// CashflowSeries is an ordered cash-flow series. Period 0 is always the
// acquisition outlay.
type CashflowSeries []CashflowEntry

// Amounts returns the bare amounts in period order
func (s CashflowSeries) Amounts() []float64 {
	out := make([]float64, len(s))
	for i, e := range s {
		out[i] = e.Amount
	}
	return out
}

// NewCashflowSeries numbers amounts from period 0
func NewCashflowSeries(amounts []float64) CashflowSeries {
	s := make(CashflowSeries, len(amounts))
	for i, a := range amounts {
		s[i] = CashflowEntry{Period: i, Amount: a}
	}
	return s
}

// OperatingPeriod is the income statement of one projection period
type OperatingPeriod struct {
	Period               int     `json:"period"`
	GrossRent            float64 `json:"gross_rent"`
	Recoveries           float64 `json:"recoveries"`
	EffectiveGrossIncome float64 `json:"effective_gross_income"`
	OperatingExpenses    float64 `json:"operating_expenses"`
	ManagementFee        float64 `json:"management_fee"`
	RealEstateTaxes      float64 `json:"real_estate_taxes"`
	Utilities            float64 `json:"utilities"`
	NOI                  float64 `json:"noi"`
}

// IRRResult is a solved internal rate of return. MultipleRoots is set when
// the series changes sign more than once, in which case RatePct is one of
// possibly several valid rates.
type IRRResult struct {
	RatePct       float64 `json:"rate_pct"`
	Iterations    int     `json:"iterations"`
	SignChanges   int     `json:"sign_changes"`
	MultipleRoots bool    `json:"multiple_roots"`
}

type LoanSummary struct {
	MonthlyPayment    float64   `json:"monthly_payment"`
	AnnualDebtService float64   `json:"annual_debt_service"`
	BalloonBalance    float64   `json:"balloon_balance"`
	ClosingFees       float64   `json:"closing_fees"`
	MaxLoanByLTV      float64   `json:"max_loan_by_ltv"`
	ExceedsMaxLTV     bool      `json:"exceeds_max_ltv"`
	DSCR              []float64 `json:"dscr"`
	MinDSCRBreached   bool      `json:"min_dscr_breached"`
}

// AnalysisInput bundles every entity of one analysis run
type AnalysisInput struct {
	Name              string                 `json:"name"`
	StartDate         time.Time              `json:"start_date"`
	HoldingYears      int                    `json:"holding_years"`
	Property          PropertyOperatingTerms `json:"property"`
	Leases            []LeaseTerms           `json:"leases"`
	Market            *MarketLeasingProfile  `json:"market,omitempty"`
	MarketProfileName string                 `json:"market_profile_name,omitempty"`
	Acquisition       AcquisitionTerms       `json:"acquisition"`
	Loan              *LoanTerms             `json:"loan,omitempty"`
	Refinancing       *RefinancingTerms      `json:"refinancing,omitempty"`
	Disposition       DispositionTerms       `json:"disposition"`
	TargetIRR         *float64               `json:"target_irr,omitempty"`
}

// AnalysisRequest is a queued analysis awaiting batch valuation
type AnalysisRequest struct {
	ID    string        `json:"id"`
	Input AnalysisInput `json:"input"`
}

type AnalysisResult struct {
	Name                string            `json:"name"`
	HoldingYears        int               `json:"holding_years"`
	Operating           []OperatingPeriod `json:"operating"`
	NOI                 []float64         `json:"noi"`
	DebtService         []float64         `json:"debt_service"`
	Loan                *LoanSummary      `json:"loan,omitempty"`
	AcquisitionCashflow float64           `json:"acquisition_cashflow"`
	RefinancingProceeds *float64          `json:"refinancing_proceeds,omitempty"`
	DispositionProceeds float64           `json:"disposition_proceeds"`
	Unlevered           CashflowSeries    `json:"unlevered"`
	Levered             CashflowSeries    `json:"levered"`
	UnleveredIRR        IRRResult         `json:"unlevered_irr"`
	LeveredIRR          IRRResult         `json:"levered_irr"`
	TargetIRRMet        *bool             `json:"target_irr_met,omitempty"`
}

const (
	AnalysisStatusCompleted = "completed"
	AnalysisStatusFailed    = "failed"
)

// AnalysisRecord is the stored outcome of one analysis run
type AnalysisRecord struct {
	ID            string          `gorm:"primaryKey" json:"id"`
	Name          string          `gorm:"index" json:"name"`
	Status        string          `json:"status"`
	Error         string          `json:"error,omitempty"`
	HoldingYears  int             `json:"holding_years"`
	UnleveredIRR  *float64        `json:"unlevered_irr"`
	LeveredIRR    *float64        `json:"levered_irr"`
	MultipleRoots bool            `json:"multiple_roots"`
	Input         AnalysisInput   `gorm:"serializer:json" json:"input"`
	Result        *AnalysisResult `gorm:"serializer:json" json:"result,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// NewAnalysisRecord captures the outcome of an analysis run for storage. A
// failed run keeps its input and error message but no result.
func NewAnalysisRecord(id string, input AnalysisInput, result *AnalysisResult, err error) *AnalysisRecord {
	record := &AnalysisRecord{
		ID:           id,
		Name:         input.Name,
		HoldingYears: input.HoldingYears,
		Input:        input,
	}
	if err != nil {
		record.Status = AnalysisStatusFailed
		record.Error = err.Error()
		return record
	}

	unlevered := result.UnleveredIRR.RatePct
	levered := result.LeveredIRR.RatePct
	record.Status = AnalysisStatusCompleted
	record.Result = result
	record.UnleveredIRR = &unlevered
	record.LeveredIRR = &levered
	record.MultipleRoots = result.UnleveredIRR.MultipleRoots || result.LeveredIRR.MultipleRoots
	return record
}
