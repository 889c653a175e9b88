package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssemble_SeriesLengths(t *testing.T) {
	refi := 500.0
	tests := []struct {
		name        string
		noi         []float64
		debtService []float64
		refinancing *float64
		wantLevered int
	}{
		{name: "no refinancing", noi: []float64{10, 10, 10}, debtService: []float64{4, 4, 4}, wantLevered: 5},
		{name: "with refinancing", noi: []float64{10, 10, 10}, debtService: []float64{4, 4, 4}, refinancing: &refi, wantLevered: 6},
		{name: "unlevered deal", noi: []float64{10, 10}, wantLevered: 4},
		{name: "no operating periods", noi: nil, wantLevered: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			unlevered, levered, err := Assemble(-100, tt.noi, tt.debtService, tt.refinancing, 150)
			require.NoError(t, err)
			assert.Len(t, unlevered, len(tt.noi)+2)
			assert.Len(t, levered, tt.wantLevered)

			for i, e := range unlevered {
				assert.Equal(t, i, e.Period)
			}
			assert.Equal(t, -100.0, unlevered[0].Amount)
			assert.Equal(t, 150.0, unlevered[len(unlevered)-1].Amount)
			assert.Equal(t, -100.0, levered[0].Amount)
			assert.Equal(t, 150.0, levered[len(levered)-1].Amount)
		})
	}
}

func TestAssemble_Values(t *testing.T) {
	refi := 500.0
	unlevered, levered, err := Assemble(-1000, []float64{100, 110, 120}, []float64{30, 30, 30}, &refi, 1200)
	require.NoError(t, err)

	assert.Equal(t, []float64{-1000, 100, 110, 120, 1200}, unlevered.Amounts())
	assert.Equal(t, []float64{-1000, 70, 80, 90, 500, 1200}, levered.Amounts())
}

func TestAssemble_ShortDebtServiceIsPadded(t *testing.T) {
	_, levered, err := Assemble(-1000, []float64{100, 100, 100}, []float64{40}, nil, 900)
	require.NoError(t, err)
	assert.Equal(t, []float64{-1000, 60, 100, 100, 900}, levered.Amounts())
}

func TestAssemble_LongDebtServiceIsRejected(t *testing.T) {
	_, _, err := Assemble(-1000, []float64{100}, []float64{40, 40}, nil, 900)
	var domainErr *DomainError
	assert.ErrorAs(t, err, &domainErr)
}
