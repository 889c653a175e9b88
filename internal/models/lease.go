package models

import "time"

// RentMethod selects how a lease's initial monthly rent is derived
type RentMethod string

const (
	RentMethodFixed   RentMethod = "fixed"
	RentMethodPerArea RentMethod = "per_area"
)

// EscalationMethod is the rule governing periodic rent increases
type EscalationMethod string

const (
	EscalationFixed EscalationMethod = "fixed"
	EscalationIndex EscalationMethod = "index"
)

// IndexCheckpoint is when an index-linked rent is re-evaluated
type IndexCheckpoint string

const (
	CheckpointLeaseYear    IndexCheckpoint = "lease_year"
	CheckpointCalendarYear IndexCheckpoint = "calendar_year"
	CheckpointMidLease     IndexCheckpoint = "mid_lease"
)

// ExpirationPolicy decides what happens to the space when a lease runs out
type ExpirationPolicy string

const (
	ExpirationMarket   ExpirationPolicy = "market"
	ExpirationReabsorb ExpirationPolicy = "reabsorb"
	ExpirationRenew    ExpirationPolicy = "renew"
	ExpirationVacate   ExpirationPolicy = "vacate"
	ExpirationOption   ExpirationPolicy = "option"
)

// RenewalRateOption picks the successor rent of a renewed lease
type RenewalRateOption string

const (
	RenewalMarket    RenewalRateOption = "market"
	RenewalPrior     RenewalRateOption = "prior"
	RenewalLesserOf  RenewalRateOption = "lesser_of"
	RenewalGreaterOf RenewalRateOption = "greater_of"
)

// LeaseTerms holds one tenant's rent terms. Rent amounts are monthly.
type LeaseTerms struct {
	TenantName        string            `json:"tenant_name"`
	LeasedArea        float64           `json:"leased_area"`
	InitialRentMethod RentMethod        `json:"initial_rent_method"`
	InitialRent       float64           `json:"initial_rent"`
	EscalationMethod  EscalationMethod  `json:"escalation_method"`
	EscalationPct     float64           `json:"escalation_pct"`
	IndexCheckpoint   IndexCheckpoint   `json:"index_checkpoint"`
	IndexRatePct      float64           `json:"index_rate_pct"`
	RentFreePeriods   int               `json:"rent_free_periods"`
	StartDate         time.Time         `json:"start_date"`
	EndDate           time.Time         `json:"end_date"`
	ExpirationPolicy  ExpirationPolicy  `json:"expiration_policy"`
	RenewalRateOption RenewalRateOption `json:"renewal_rate_option"`

	// OptionRent is the pre-negotiated monthly rent used when the tenant
	// exercises an option. Zero keeps the prior rent.
	OptionRent float64 `json:"option_rent"`

	CAMCharges           float64 `json:"cam_charges"`
	TaxesPassThrough     bool    `json:"taxes_pass_through"`
	UtilitiesPassThrough bool    `json:"utilities_pass_through"`
}

// BaseRent returns the monthly rent before escalation
func (l LeaseTerms) BaseRent() float64 {
	if l.InitialRentMethod == RentMethodPerArea {
		return l.InitialRent * l.LeasedArea
	}
	return l.InitialRent
}

// MarketLeasingProfile describes prevailing market terms for re-leasing space
type MarketLeasingProfile struct {
	Name string `json:"name"`

	// MarketRent is the monthly rent per unit of area
	MarketRent          float64 `json:"market_rent"`
	MarketRentGrowthPct float64 `json:"market_rent_growth_pct"`
	LeaseUpMonths       int     `json:"lease_up_months"`
	LeaseTermMonths     int     `json:"lease_term_months"`
}
