package finance

import "nogus/server/internal/models"

// AcquisitionCashflow is the signed purchase outlay including closing costs
func AcquisitionCashflow(a models.AcquisitionTerms) float64 {
	return -(a.PricePerUnit*float64(a.Units) + a.ClosingCosts)
}

// RefinancingProceeds sizes a new loan against the property value implied
// by annual NOI at the refinancing cap rate, net of closing fees.
func RefinancingProceeds(noi float64, r models.RefinancingTerms) (float64, error) {
	if r.CapRate <= 0 {
		return 0, domainErr("refinancing", "cap rate must be positive, got %g", r.CapRate)
	}
	value := noi / (r.CapRate / 100)
	amount := value * r.MaxLTV / 100
	return amount * (1 - r.ClosingFeePct/100), nil
}

// DispositionProceeds values the property on annual NOI at the going-out cap
// rate and deducts disposal fees.
func DispositionProceeds(noi float64, d models.DispositionTerms) (float64, error) {
	if d.GoingOutCapRate <= 0 {
		return 0, domainErr("disposition", "going-out cap rate must be positive, got %g", d.GoingOutCapRate)
	}
	return noi/(d.GoingOutCapRate/100) - d.Fees, nil
}
