package finance

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"nogus/server/internal/models"
)

// Engine runs complete analyses: monthly projections rolled up to holding
// years, discrete events, assembled series and both IRRs.
type Engine struct {
	solver *IRRSolver
	logger *logrus.Logger
}

func NewEngine(solver *IRRSolver, logger *logrus.Logger) *Engine {
	if solver == nil {
		solver = NewIRRSolver()
	}
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	return &Engine{solver: solver, logger: logger}
}

// Solver exposes the engine's IRR solver
func (e *Engine) Solver() *IRRSolver {
	return e.solver
}

// Analyze values one investment over its holding period
func (e *Engine) Analyze(input models.AnalysisInput) (*models.AnalysisResult, error) {
	if input.HoldingYears <= 0 {
		return nil, domainErr("analysis", "holding period must be positive, got %d years", input.HoldingYears)
	}
	periods := input.HoldingYears * 12

	leases := NewLeaseProjector(input.StartDate, input.Market)
	operating, err := NewOperatingProjector(leases).Project(input.Property, input.Leases, periods)
	if err != nil {
		return nil, fmt.Errorf("failed to project operations: %w", err)
	}
	noi := AnnualTotals(operating.NOI())

	result := &models.AnalysisResult{
		Name:                input.Name,
		HoldingYears:        input.HoldingYears,
		Operating:           operating.Annual(),
		NOI:                 noi,
		AcquisitionCashflow: AcquisitionCashflow(input.Acquisition),
	}

	if input.Loan != nil {
		monthly, err := LoanDebtSchedule(*input.Loan)
		if err != nil {
			return nil, fmt.Errorf("failed to build debt schedule: %w", err)
		}
		// the loan is repaid from sale proceeds, so service stops at the hold
		if len(monthly) > periods {
			monthly = monthly[:periods]
		}
		result.DebtService = AnnualTotals(monthly)
		if result.Loan, err = loanSummary(*input.Loan, input.Acquisition, noi, result.DebtService); err != nil {
			return nil, err
		}
	}

	if r := input.Refinancing; r != nil {
		if r.Year < 1 || r.Year > input.HoldingYears {
			return nil, domainErr("refinancing", "year %d is outside the %d-year hold", r.Year, input.HoldingYears)
		}
		proceeds, err := RefinancingProceeds(noi[r.Year-1], *r)
		if err != nil {
			return nil, err
		}
		result.RefinancingProceeds = &proceeds
	}

	if result.DispositionProceeds, err = DispositionProceeds(noi[len(noi)-1], input.Disposition); err != nil {
		return nil, err
	}

	result.Unlevered, result.Levered, err = Assemble(result.AcquisitionCashflow, noi, result.DebtService, result.RefinancingProceeds, result.DispositionProceeds)
	if err != nil {
		return nil, err
	}

	if result.UnleveredIRR, err = e.solver.Solve(result.Unlevered.Amounts()); err != nil {
		return nil, fmt.Errorf("unlevered irr: %w", err)
	}
	if result.LeveredIRR, err = e.solver.Solve(result.Levered.Amounts()); err != nil {
		return nil, fmt.Errorf("levered irr: %w", err)
	}

	if input.TargetIRR != nil {
		met := result.LeveredIRR.RatePct >= *input.TargetIRR
		result.TargetIRRMet = &met
	}

	entry := e.logger.WithFields(logrus.Fields{
		"analysis":      input.Name,
		"holding_years": input.HoldingYears,
		"unlevered_irr": result.UnleveredIRR.RatePct,
		"levered_irr":   result.LeveredIRR.RatePct,
	})
	if result.UnleveredIRR.MultipleRoots || result.LeveredIRR.MultipleRoots {
		entry.Warn("Cash flows change sign more than once, IRR may not be unique")
	} else {
		entry.Debug("Analysis completed")
	}
	return result, nil
}

func loanSummary(loan models.LoanTerms, acq models.AcquisitionTerms, noi, debtService []float64) (*models.LoanSummary, error) {
	summary := &models.LoanSummary{
		ClosingFees:  loan.Principal * loan.ClosingFeePct / 100,
		MaxLoanByLTV: acq.PurchasePrice() * loan.MaxLTV / 100,
		DSCR:         make([]float64, len(debtService)),
	}
	summary.ExceedsMaxLTV = loan.MaxLTV > 0 && loan.Principal > summary.MaxLoanByLTV

	schedule, err := LoanDebtSchedule(loan)
	if err != nil {
		return nil, err
	}
	if len(schedule) > 0 {
		summary.MonthlyPayment = schedule[0]
		summary.AnnualDebtService = schedule[0] * 12
	}
	if summary.BalloonBalance, err = RemainingBalance(loan.Principal, loan.InterestRate, loan.AmortizationYears, loan.TermYears*12); err != nil {
		return nil, err
	}

	for i, ds := range debtService {
		if ds == 0 {
			continue
		}
		summary.DSCR[i] = noi[i] / ds
		if loan.MinDSCR > 0 && summary.DSCR[i] < loan.MinDSCR {
			summary.MinDSCRBreached = true
		}
	}
	return summary, nil
}

// PortfolioOutcome is the result of one analysis in a portfolio run
type PortfolioOutcome struct {
	Input  models.AnalysisInput
	Result *models.AnalysisResult
	Err    error
}

// AnalyzePortfolio values independent analyses in parallel. A failed
// analysis is reported in its outcome and does not stop the others; only
// context cancellation aborts the run.
func (e *Engine) AnalyzePortfolio(ctx context.Context, inputs []models.AnalysisInput, workers int) ([]PortfolioOutcome, error) {
	outcomes := make([]PortfolioOutcome, len(inputs))

	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}
	for i, input := range inputs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := e.Analyze(input)
			outcomes[i] = PortfolioOutcome{Input: input, Result: result, Err: err}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}
