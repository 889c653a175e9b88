package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nogus/server/internal/models"
)

func testProperty() models.PropertyOperatingTerms {
	return models.PropertyOperatingTerms{
		Name:               "Franklin's Tower",
		GrossArea:          1200,
		NetRentableArea:    1000,
		OccupancyRate:      95,
		VacancyRate:        5,
		OperatingExpenses:  12000,
		ManagementFeePct:   5,
		RealEstateTaxes:    2400,
		Utilities:          1200,
		InPlaceRentPerArea: 2,
	}
}

func TestOperatingProjector_PropertyLevelFallback(t *testing.T) {
	property := testProperty()
	property.ExpenseGrowthPct = 10

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(property, nil, 24)
	require.NoError(t, err)
	require.Len(t, proj.Periods, 24)

	first := proj.Periods[0]
	assert.InDelta(t, 2000.0, first.GrossRent, 1e-9)
	assert.InDelta(t, 1800.0, first.EffectiveGrossIncome, 1e-9)
	assert.InDelta(t, 1000.0, first.OperatingExpenses, 1e-9)
	assert.InDelta(t, 90.0, first.ManagementFee, 1e-9)
	assert.InDelta(t, 200.0, first.RealEstateTaxes, 1e-9)
	assert.InDelta(t, 100.0, first.Utilities, 1e-9)
	assert.InDelta(t, 410.0, first.NOI, 1e-9)

	// second year: expenses grow 10%
	assert.InDelta(t, 1100.0, proj.Periods[12].OperatingExpenses, 1e-9)
	assert.InDelta(t, 310.0, proj.Periods[12].NOI, 1e-9)
}

func TestOperatingProjector_LeaseLevelSkipsPropertyVacancy(t *testing.T) {
	property := testProperty()
	property.OccupancyRate = 50
	property.VacancyRate = 10
	property.ManagementFeePct = 0

	lease := baseLease()
	lease.EndDate = date(2028, 12, 31)

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(property, []models.LeaseTerms{lease}, 12)
	require.NoError(t, err)

	p := proj.Periods[0]
	assert.Equal(t, 1000.0, p.GrossRent)
	assert.Equal(t, 1000.0, p.EffectiveGrossIncome)
	assert.InDelta(t, 1000.0-1000-200-100, p.NOI, 1e-9)
}

func TestOperatingProjector_LeaseDetailFromFirstLeaseStart(t *testing.T) {
	property := testProperty()
	lease := baseLease()
	lease.StartDate = date(2024, 7, 1)
	lease.EndDate = date(2028, 6, 30)

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(property, []models.LeaseTerms{lease}, 12)
	require.NoError(t, err)

	for m := 0; m < 6; m++ {
		assert.InDelta(t, 1800.0, proj.Periods[m].EffectiveGrossIncome, 1e-9, "period %d", m)
	}
	for m := 6; m < 12; m++ {
		assert.InDelta(t, 1000.0, proj.Periods[m].EffectiveGrossIncome, 1e-9, "period %d", m)
	}
}

func TestOperatingProjector_Recoveries(t *testing.T) {
	property := testProperty()
	lease := baseLease()
	lease.LeasedArea = 500
	lease.CAMCharges = 50
	lease.TaxesPassThrough = true
	lease.UtilitiesPassThrough = true

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(property, []models.LeaseTerms{lease}, 24)
	require.NoError(t, err)

	// CAM 50 + half of 200 taxes + half of 100 utilities
	assert.InDelta(t, 200.0, proj.Periods[0].Recoveries, 1e-9)
	assert.InDelta(t, 1200.0, proj.Periods[0].EffectiveGrossIncome, 1e-9)

	// vacated space recovers nothing
	assert.Equal(t, 0.0, proj.Periods[12].Recoveries)
	assert.Equal(t, 0.0, proj.Periods[12].EffectiveGrossIncome)
}

func TestOperatingProjector_NegativeNOIIsKept(t *testing.T) {
	property := testProperty()
	property.OperatingExpenses = 120000

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(property, nil, 12)
	require.NoError(t, err)
	for _, noi := range proj.NOI() {
		assert.Less(t, noi, 0.0)
	}
}

func TestOperatingProjector_ReabsorbedSpaceIsReleased(t *testing.T) {
	property := testProperty()
	property.ManagementFeePct = 0
	lease := baseLease()
	lease.ExpirationPolicy = models.ExpirationReabsorb

	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), market(3, 0))).Project(property, []models.LeaseTerms{lease}, 24)
	require.NoError(t, err)

	assert.Equal(t, 1000.0, proj.Periods[11].GrossRent)
	for m := 12; m < 15; m++ {
		assert.Equal(t, 0.0, proj.Periods[m].GrossRent, "lease-up period %d", m)
	}
	assert.InDelta(t, 1200.0, proj.Periods[15].GrossRent, 1e-9)
}

func TestOperatingProjector_MissingMarketPropagates(t *testing.T) {
	lease := baseLease()
	lease.ExpirationPolicy = models.ExpirationMarket

	_, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(testProperty(), []models.LeaseTerms{lease}, 24)
	var missing *MissingDependencyError
	assert.ErrorAs(t, err, &missing)
}

func TestOperatingProjection_Annual(t *testing.T) {
	proj, err := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), nil)).Project(testProperty(), nil, 24)
	require.NoError(t, err)

	annual := proj.Annual()
	require.Len(t, annual, 2)
	assert.Equal(t, 1, annual[0].Period)
	assert.Equal(t, 2, annual[1].Period)
	assert.InDelta(t, 410.0*12, annual[0].NOI, 1e-6)
	assert.InDelta(t, 12000.0, annual[0].OperatingExpenses, 1e-6)
}

func TestOperatingProjector_Idempotent(t *testing.T) {
	lease := baseLease()
	lease.EscalationPct = 3
	lease.ExpirationPolicy = models.ExpirationReabsorb
	projector := NewOperatingProjector(NewLeaseProjector(date(2024, 1, 1), market(3, 2)))
	leases := []models.LeaseTerms{lease}

	first, err := projector.Project(testProperty(), leases, 60)
	require.NoError(t, err)
	second, err := projector.Project(testProperty(), leases, 60)
	require.NoError(t, err)
	assert.Equal(t, first.NOI(), second.NOI())
}
