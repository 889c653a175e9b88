package finance

import (
	"math"
	"time"

	"nogus/server/internal/models"
)

const defaultSyntheticLeaseMonths = 60

// rentState is the tenancy state of a lease's space in a given period
type rentState int

const (
	stateActive rentState = iota
	stateRevertToMarket
	stateReabsorbed
	stateRenewed
	stateVacated
	stateOptionExercised
)

func (s rentState) occupied() bool {
	return s != stateReabsorbed && s != stateVacated
}

// LeaseProjection is one lease's monthly rent over the projection horizon
type LeaseProjection struct {
	Rents    []float64
	Occupied []bool

	// Reabsorbed is set when the space returned to the property's pool
	Reabsorbed *ReabsorbedSpace
}

// ReabsorbedSpace is leased area handed back for re-leasing from period
// AvailableFrom onwards
type ReabsorbedSpace struct {
	Lease         models.LeaseTerms
	AvailableFrom int
}

// LeaseProjector projects lease rents in monthly periods counted from Start
type LeaseProjector struct {
	Start  time.Time
	Market *models.MarketLeasingProfile
}

func NewLeaseProjector(start time.Time, market *models.MarketLeasingProfile) *LeaseProjector {
	return &LeaseProjector{Start: start, Market: market}
}

// Project returns the lease's rent for each of periodCount months
func (p *LeaseProjector) Project(lease models.LeaseTerms, periodCount int) (LeaseProjection, error) {
	if periodCount < 0 {
		return LeaseProjection{}, domainErr("lease projection", "period count must not be negative, got %d", periodCount)
	}

	proj := LeaseProjection{
		Rents:    make([]float64, periodCount),
		Occupied: make([]bool, periodCount),
	}

	offset := monthsBetween(lease.StartDate, p.Start)
	term := leaseTermMonths(lease)

	var (
		state         = stateActive
		successorBase float64
	)
	for period := 0; period < periodCount; period++ {
		m := period + offset
		if m < 0 {
			continue
		}

		if m < term {
			proj.Occupied[period] = true
			proj.Rents[period] = p.activeRent(lease, m, term)
			continue
		}

		if state == stateActive {
			next, base, err := p.expire(lease, term, period)
			if err != nil {
				return LeaseProjection{}, err
			}
			state, successorBase = next, base
			if state == stateReabsorbed {
				proj.Reabsorbed = &ReabsorbedSpace{Lease: lease, AvailableFrom: period}
			}
		}

		proj.Occupied[period] = state.occupied()
		if state.occupied() {
			proj.Rents[period] = successorBase * successorEscalation(lease, m-term)
		}
	}
	return proj, nil
}

// activeRent is the in-term rent at month m since lease start. Rent-free
// months still advance the escalation clock.
func (p *LeaseProjector) activeRent(lease models.LeaseTerms, m, term int) float64 {
	if m < lease.RentFreePeriods {
		return 0
	}
	return lease.BaseRent() * escalationFactor(lease, m, term)
}

// expire applies the expiration policy at the period the lease runs out and
// returns the successor state with its starting monthly rent
func (p *LeaseProjector) expire(lease models.LeaseTerms, term, period int) (rentState, float64, error) {
	prior := p.activeRent(lease, term-1, term)

	switch lease.ExpirationPolicy {
	case models.ExpirationVacate:
		return stateVacated, 0, nil

	case models.ExpirationReabsorb:
		if p.Market == nil {
			return stateReabsorbed, 0, &MissingDependencyError{Dependency: "market leasing profile for reabsorbed space", Lease: lease.TenantName}
		}
		return stateReabsorbed, 0, nil

	case models.ExpirationOption:
		if lease.OptionRent > 0 {
			return stateOptionExercised, lease.OptionRent, nil
		}
		return stateOptionExercised, prior, nil

	case models.ExpirationRenew:
		if lease.RenewalRateOption == models.RenewalPrior {
			return stateRenewed, prior, nil
		}
		market, err := p.marketRent(lease, period)
		if err != nil {
			return stateRenewed, 0, err
		}
		switch lease.RenewalRateOption {
		case models.RenewalLesserOf:
			return stateRenewed, math.Min(market, prior), nil
		case models.RenewalGreaterOf:
			return stateRenewed, math.Max(market, prior), nil
		default:
			return stateRenewed, market, nil
		}

	default:
		market, err := p.marketRent(lease, period)
		if err != nil {
			return stateRevertToMarket, 0, err
		}
		return stateRevertToMarket, market, nil
	}
}

// marketRent is the profile's monthly rent for the lease's area, grown
// annually from the projection start
func (p *LeaseProjector) marketRent(lease models.LeaseTerms, period int) (float64, error) {
	if p.Market == nil {
		return 0, &MissingDependencyError{Dependency: "market leasing profile", Lease: lease.TenantName}
	}
	growth := math.Pow(1+p.Market.MarketRentGrowthPct/100, float64(period/12))
	return p.Market.MarketRent * lease.LeasedArea * growth, nil
}

// SyntheticLease models re-leasing a reabsorbed space at market terms once
// the profile's lease-up delay has passed
func (p *LeaseProjector) SyntheticLease(space ReabsorbedSpace) (models.LeaseTerms, error) {
	if p.Market == nil {
		return models.LeaseTerms{}, &MissingDependencyError{Dependency: "market leasing profile for reabsorbed space", Lease: space.Lease.TenantName}
	}

	startPeriod := space.AvailableFrom + p.Market.LeaseUpMonths
	months := p.Market.LeaseTermMonths
	if months <= 0 {
		months = defaultSyntheticLeaseMonths
	}
	start := firstOfMonth(p.Start).AddDate(0, startPeriod, 0)
	growth := math.Pow(1+p.Market.MarketRentGrowthPct/100, float64(startPeriod/12))

	return models.LeaseTerms{
		TenantName:           space.Lease.TenantName + " (re-leased)",
		LeasedArea:           space.Lease.LeasedArea,
		InitialRentMethod:    models.RentMethodPerArea,
		InitialRent:          p.Market.MarketRent * growth,
		EscalationMethod:     models.EscalationFixed,
		EscalationPct:        p.Market.MarketRentGrowthPct,
		StartDate:            start,
		EndDate:              start.AddDate(0, months, -1),
		ExpirationPolicy:     models.ExpirationMarket,
		CAMCharges:           space.Lease.CAMCharges,
		TaxesPassThrough:     space.Lease.TaxesPassThrough,
		UtilitiesPassThrough: space.Lease.UtilitiesPassThrough,
	}, nil
}

// escalationFactor is the cumulative escalation at month m of a lease term
func escalationFactor(lease models.LeaseTerms, m, term int) float64 {
	if lease.EscalationMethod != models.EscalationIndex {
		return math.Pow(1+lease.EscalationPct/100, float64(m/12))
	}

	idx := 1 + lease.IndexRatePct/100
	switch lease.IndexCheckpoint {
	case models.CheckpointCalendarYear:
		// January boundaries crossed since the lease began
		crossed := (int(lease.StartDate.Month()) - 1 + m) / 12
		return math.Pow(idx, float64(crossed))
	case models.CheckpointMidLease:
		mid := term / 2
		if m < mid {
			return 1
		}
		return math.Pow(idx, float64(mid)/12)
	default:
		return math.Pow(idx, float64(m/12))
	}
}

// successorEscalation escalates a successor tenancy k months after it began.
// Index-linked leases re-evaluate on successor lease-year anniversaries.
func successorEscalation(lease models.LeaseTerms, k int) float64 {
	pct := lease.EscalationPct
	if lease.EscalationMethod == models.EscalationIndex {
		pct = lease.IndexRatePct
	}
	return math.Pow(1+pct/100, float64(k/12))
}

// leaseTermMonths counts whole months from start up to and including the
// end date
func leaseTermMonths(lease models.LeaseTerms) int {
	return monthsBetween(lease.StartDate, lease.EndDate.AddDate(0, 0, 1))
}

func monthsBetween(from, to time.Time) int {
	return (to.Year()-from.Year())*12 + int(to.Month()) - int(from.Month())
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}
