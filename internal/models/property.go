package models

// PropertyOperatingTerms holds the property-level operating assumptions.
// Rates are percentages; expenses, taxes and utilities are annual amounts.
type PropertyOperatingTerms struct {
	Name               string  `json:"name"`
	GrossArea          float64 `json:"gross_area"`
	NetRentableArea    float64 `json:"net_rentable_area"`
	OccupancyRate      float64 `json:"occupancy_rate"`
	VacancyRate        float64 `json:"vacancy_rate"`
	OperatingExpenses  float64 `json:"operating_expenses"`
	ExpenseGrowthPct   float64 `json:"expense_growth_pct"`
	ManagementFeePct   float64 `json:"management_fee_pct"`
	RealEstateTaxes    float64 `json:"real_estate_taxes"`
	Utilities          float64 `json:"utilities"`
	InPlaceRentPerArea float64 `json:"in_place_rent_per_area"`
	RentGrowthPct      float64 `json:"rent_growth_pct"`
}

// RentableArea is the area rent is charged on
func (p PropertyOperatingTerms) RentableArea() float64 {
	if p.NetRentableArea > 0 {
		return p.NetRentableArea
	}
	return p.GrossArea
}

type AcquisitionTerms struct {
	PricePerUnit float64 `json:"price_per_unit"`
	Units        int     `json:"units"`
	ClosingCosts float64 `json:"closing_costs"`
}

// PurchasePrice excludes closing costs
func (a AcquisitionTerms) PurchasePrice() float64 {
	return a.PricePerUnit * float64(a.Units)
}

type DispositionTerms struct {
	GoingOutCapRate float64 `json:"going_out_cap_rate"`
	Fees            float64 `json:"fees"`
}
