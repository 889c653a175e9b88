package models

// LoanTerms describes the acquisition loan. Rates and ratios are percentages
// except MinDSCR, which is a plain multiple.
type LoanTerms struct {
	Principal           float64 `json:"principal"`
	InterestRate        float64 `json:"interest_rate"`
	AmortizationYears   int     `json:"amortization_years"`
	TermYears           int     `json:"term_years"`
	MaxLTV              float64 `json:"max_ltv"`
	MinDSCR             float64 `json:"min_dscr"`
	ClosingFeePct       float64 `json:"closing_fee_pct"`
	PrepaymentPenaltyYr int     `json:"prepayment_penalty_years"`
}

// RefinancingTerms triggers a refinancing at the end of holding year Year
type RefinancingTerms struct {
	Year          int     `json:"year"`
	CapRate       float64 `json:"cap_rate"`
	MaxLTV        float64 `json:"max_ltv"`
	ClosingFeePct float64 `json:"closing_fee_pct"`
}
