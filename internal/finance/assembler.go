package finance

import "nogus/server/internal/models"

// Assemble merges the recurring NOI and debt-service streams with the
// discrete events. The unlevered series omits refinancing, which is a
// financing event. Debt service shorter than NOI (a loan maturing before
// the hold ends) is padded with zeros; longer debt service is rejected.
func Assemble(acquisition float64, noi, debtService []float64, refinancing *float64, disposition float64) (unlevered, levered models.CashflowSeries, err error) {
	if len(debtService) > len(noi) {
		return nil, nil, domainErr("assemble", "debt service covers %d periods but NOI only %d", len(debtService), len(noi))
	}

	u := make([]float64, 0, len(noi)+2)
	u = append(u, acquisition)
	u = append(u, noi...)
	u = append(u, disposition)

	l := make([]float64, 0, len(noi)+3)
	l = append(l, acquisition)
	for i, v := range noi {
		if i < len(debtService) {
			v -= debtService[i]
		}
		l = append(l, v)
	}
	if refinancing != nil {
		l = append(l, *refinancing)
	}
	l = append(l, disposition)

	return models.NewCashflowSeries(u), models.NewCashflowSeries(l), nil
}
