package finance

import (
	"math"

	"nogus/server/internal/models"
)

// MonthlyPayment returns the constant annuity payment that fully amortizes
// principal over amortizationYears.
func MonthlyPayment(principal, annualRatePct float64, amortizationYears int) (float64, error) {
	if annualRatePct == 0 {
		return 0, domainErr("amortization", "annual rate is zero, use InterestFreeSchedule")
	}
	if amortizationYears <= 0 {
		return 0, domainErr("amortization", "amortization period must be positive, got %d years", amortizationYears)
	}

	r := annualRatePct / 100 / 12
	n := float64(amortizationYears * 12)
	return principal * r / (1 - math.Pow(1+r, -n)), nil
}

// DebtSchedule returns the monthly debt service over the loan term. The
// schedule stops at the term, so a loan amortizing over a longer period
// leaves a balloon balance (see RemainingBalance).
func DebtSchedule(principal, annualRatePct float64, amortizationYears, termYears int) ([]float64, error) {
	if termYears <= 0 {
		return nil, domainErr("amortization", "loan term must be positive, got %d years", termYears)
	}
	payment, err := MonthlyPayment(principal, annualRatePct, amortizationYears)
	if err != nil {
		return nil, err
	}

	schedule := make([]float64, termYears*12)
	for i := range schedule {
		schedule[i] = payment
	}
	return schedule, nil
}

// InterestFreeSchedule spreads principal evenly over the amortization
// period and returns the payments falling within the term.
func InterestFreeSchedule(principal float64, amortizationYears, termYears int) ([]float64, error) {
	if amortizationYears <= 0 || termYears <= 0 {
		return nil, domainErr("amortization", "amortization period and term must be positive, got %d and %d years", amortizationYears, termYears)
	}

	payment := principal / float64(amortizationYears*12)
	schedule := make([]float64, termYears*12)
	for i := range schedule {
		schedule[i] = payment
	}
	return schedule, nil
}

// LoanDebtSchedule picks the annuity or interest-free schedule for a loan
func LoanDebtSchedule(loan models.LoanTerms) ([]float64, error) {
	if loan.InterestRate == 0 {
		return InterestFreeSchedule(loan.Principal, loan.AmortizationYears, loan.TermYears)
	}
	return DebtSchedule(loan.Principal, loan.InterestRate, loan.AmortizationYears, loan.TermYears)
}

// RemainingBalance is the outstanding principal after paidMonths payments
func RemainingBalance(principal, annualRatePct float64, amortizationYears, paidMonths int) (float64, error) {
	n := amortizationYears * 12
	if amortizationYears <= 0 {
		return 0, domainErr("amortization", "amortization period must be positive, got %d years", amortizationYears)
	}
	if paidMonths >= n {
		return 0, nil
	}
	if annualRatePct == 0 {
		return principal * float64(n-paidMonths) / float64(n), nil
	}

	payment, err := MonthlyPayment(principal, annualRatePct, amortizationYears)
	if err != nil {
		return 0, err
	}
	r := annualRatePct / 100 / 12
	growth := math.Pow(1+r, float64(paidMonths))
	return principal*growth - payment*(growth-1)/r, nil
}

// AnnualTotals sums a monthly series into years. A trailing partial year is
// kept as its own entry.
func AnnualTotals(monthly []float64) []float64 {
	years := (len(monthly) + 11) / 12
	out := make([]float64, years)
	for i, v := range monthly {
		out[i/12] += v
	}
	return out
}
