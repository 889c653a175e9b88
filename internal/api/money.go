package api

import (
	"github.com/shopspring/decimal"

	"nogus/server/internal/models"
)

// roundCents rounds a money amount half away from zero to two decimals
func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}

func roundAll(values []float64) []float64 {
	if values == nil {
		return nil
	}
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = roundCents(v)
	}
	return out
}

func roundSeries(series models.CashflowSeries) models.CashflowSeries {
	if series == nil {
		return nil
	}
	out := make(models.CashflowSeries, len(series))
	for i, e := range series {
		out[i] = models.CashflowEntry{Period: e.Period, Amount: roundCents(e.Amount)}
	}
	return out
}

// roundResult returns a copy of the result with every money amount rounded
// to cents. Rates and ratios are left alone.
func roundResult(result *models.AnalysisResult) *models.AnalysisResult {
	if result == nil {
		return nil
	}
	out := *result

	out.Operating = make([]models.OperatingPeriod, len(result.Operating))
	for i, p := range result.Operating {
		out.Operating[i] = models.OperatingPeriod{
			Period:               p.Period,
			GrossRent:            roundCents(p.GrossRent),
			Recoveries:           roundCents(p.Recoveries),
			EffectiveGrossIncome: roundCents(p.EffectiveGrossIncome),
			OperatingExpenses:    roundCents(p.OperatingExpenses),
			ManagementFee:        roundCents(p.ManagementFee),
			RealEstateTaxes:      roundCents(p.RealEstateTaxes),
			Utilities:            roundCents(p.Utilities),
			NOI:                  roundCents(p.NOI),
		}
	}
	out.NOI = roundAll(result.NOI)
	out.DebtService = roundAll(result.DebtService)
	out.AcquisitionCashflow = roundCents(result.AcquisitionCashflow)
	out.DispositionProceeds = roundCents(result.DispositionProceeds)
	out.Unlevered = roundSeries(result.Unlevered)
	out.Levered = roundSeries(result.Levered)

	if result.RefinancingProceeds != nil {
		proceeds := roundCents(*result.RefinancingProceeds)
		out.RefinancingProceeds = &proceeds
	}
	if result.Loan != nil {
		loan := *result.Loan
		loan.MonthlyPayment = roundCents(loan.MonthlyPayment)
		loan.AnnualDebtService = roundCents(loan.AnnualDebtService)
		loan.BalloonBalance = roundCents(loan.BalloonBalance)
		loan.ClosingFees = roundCents(loan.ClosingFees)
		loan.MaxLoanByLTV = roundCents(loan.MaxLoanByLTV)
		out.Loan = &loan
	}
	return &out
}

// roundRecord prepares a stored record for display
func roundRecord(record models.AnalysisRecord) models.AnalysisRecord {
	record.Result = roundResult(record.Result)
	return record
}
