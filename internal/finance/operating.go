package finance

import (
	"math"

	"nogus/server/internal/models"
)

// OperatingProjection is a property's monthly income statement
type OperatingProjection struct {
	Periods []models.OperatingPeriod
}

// NOI returns the net operating income of every period
func (o OperatingProjection) NOI() []float64 {
	out := make([]float64, len(o.Periods))
	for i, p := range o.Periods {
		out[i] = p.NOI
	}
	return out
}

// Annual rolls the monthly periods up into holding years
func (o OperatingProjection) Annual() []models.OperatingPeriod {
	years := make([]models.OperatingPeriod, (len(o.Periods)+11)/12)
	for _, p := range o.Periods {
		y := &years[p.Period/12]
		y.Period = p.Period/12 + 1
		y.GrossRent += p.GrossRent
		y.Recoveries += p.Recoveries
		y.EffectiveGrossIncome += p.EffectiveGrossIncome
		y.OperatingExpenses += p.OperatingExpenses
		y.ManagementFee += p.ManagementFee
		y.RealEstateTaxes += p.RealEstateTaxes
		y.Utilities += p.Utilities
		y.NOI += p.NOI
	}
	return years
}

// OperatingProjector aggregates leases and operating costs into NOI
type OperatingProjector struct {
	leases *LeaseProjector
}

func NewOperatingProjector(leases *LeaseProjector) *OperatingProjector {
	return &OperatingProjector{leases: leases}
}

type projectedLease struct {
	terms models.LeaseTerms
	proj  LeaseProjection
}

// Project computes NOI for periodCount months. Periods before any lease has
// started fall back to property-level income (in-place rent adjusted for
// occupancy and stabilized vacancy). Once a lease schedule exists, vacancy
// is carried by the leases themselves and no property-level vacancy is
// applied on top.
func (o *OperatingProjector) Project(property models.PropertyOperatingTerms, leases []models.LeaseTerms, periodCount int) (OperatingProjection, error) {
	if periodCount < 0 {
		return OperatingProjection{}, domainErr("operating projection", "period count must not be negative, got %d", periodCount)
	}

	detailFrom := math.MaxInt
	projected := make([]projectedLease, 0, len(leases))
	for _, lease := range leases {
		if start := -monthsBetween(lease.StartDate, o.leases.Start); start < detailFrom {
			detailFrom = start
		}
		pl, err := o.projectWithReabsorption(lease, periodCount)
		if err != nil {
			return OperatingProjection{}, err
		}
		projected = append(projected, pl...)
	}

	rentable := property.RentableArea()
	periods := make([]models.OperatingPeriod, periodCount)
	for period := range periods {
		year := float64(period / 12)
		op := models.OperatingPeriod{Period: period}

		if period >= detailFrom {
			for _, pl := range projected {
				op.GrossRent += pl.proj.Rents[period]
				if pl.proj.Occupied[period] {
					op.Recoveries += recoveries(pl.terms, property, rentable)
				}
			}
			op.EffectiveGrossIncome = op.GrossRent + op.Recoveries
		} else {
			op.GrossRent = property.InPlaceRentPerArea * rentable * math.Pow(1+property.RentGrowthPct/100, year)
			op.EffectiveGrossIncome = op.GrossRent * (property.OccupancyRate - property.VacancyRate) / 100
		}

		op.OperatingExpenses = property.OperatingExpenses / 12 * math.Pow(1+property.ExpenseGrowthPct/100, year)
		op.ManagementFee = property.ManagementFeePct / 100 * op.EffectiveGrossIncome
		op.RealEstateTaxes = property.RealEstateTaxes / 12
		op.Utilities = property.Utilities / 12
		op.NOI = op.EffectiveGrossIncome - op.OperatingExpenses - op.ManagementFee - op.RealEstateTaxes - op.Utilities

		periods[period] = op
	}
	return OperatingProjection{Periods: periods}, nil
}

// projectWithReabsorption projects a lease and, when its space is
// reabsorbed, the synthetic market lease that re-lets it
func (o *OperatingProjector) projectWithReabsorption(lease models.LeaseTerms, periodCount int) ([]projectedLease, error) {
	var out []projectedLease
	for {
		proj, err := o.leases.Project(lease, periodCount)
		if err != nil {
			return nil, err
		}
		out = append(out, projectedLease{terms: lease, proj: proj})
		if proj.Reabsorbed == nil {
			return out, nil
		}
		if lease, err = o.leases.SyntheticLease(*proj.Reabsorbed); err != nil {
			return nil, err
		}
	}
}

// recoveries is a tenant's monthly reimbursement of CAM and its pro-rata
// share of passed-through taxes and utilities
func recoveries(lease models.LeaseTerms, property models.PropertyOperatingTerms, rentable float64) float64 {
	total := lease.CAMCharges
	if rentable <= 0 {
		return total
	}
	share := lease.LeasedArea / rentable
	if lease.TaxesPassThrough {
		total += share * property.RealEstateTaxes / 12
	}
	if lease.UtilitiesPassThrough {
		total += share * property.Utilities / 12
	}
	return total
}
