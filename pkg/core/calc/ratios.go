package calc

import "math"

// SafeDiv returns 0 when the denominator is 0. The predefined ratios keep
// this convention; the formula engine's own division follows float64
// semantics instead, since custom formulas treat Inf/NaN as meaningful.
func SafeDiv(numerator, denominator float64) float64 {
	if denominator == 0 {
		return 0
	}
	return numerator / denominator
}

// WorkingCapital = Current Assets - Current Liabilities.
func WorkingCapital(currentAssets, currentLiabilities float64) float64 {
	return currentAssets - currentLiabilities
}

func CurrentRatio(currentAssets, currentLiabilities float64) float64 {
	return SafeDiv(currentAssets, currentLiabilities)
}

func QuickRatio(cash, stInvestments, accountsReceivable, currentLiabilities float64) float64 {
	return SafeDiv(cash+stInvestments+accountsReceivable, currentLiabilities)
}

func GrossMargin(grossProfit, revenue float64) float64 {
	return SafeDiv(grossProfit, revenue)
}

func OperatingMargin(operatingIncome, revenue float64) float64 {
	return SafeDiv(operatingIncome, revenue)
}

func NetMargin(netIncome, revenue float64) float64 {
	return SafeDiv(netIncome, revenue)
}

func DebtToEquity(totalLiabilities, totalEquity float64) float64 {
	return SafeDiv(totalLiabilities, totalEquity)
}

func InterestCoverageRatio(operatingIncome, interestExpense float64) float64 {
	return SafeDiv(operatingIncome+math.Abs(interestExpense), math.Abs(interestExpense))
}

// GrowthRate = (current - prior) / |prior|, 0 when there is no prior.
func GrowthRate(current, prior float64) float64 {
	if prior == 0 {
		return 0
	}
	return (current - prior) / math.Abs(prior)
}

// CAGR is the compound annual growth rate over the given number of years.
func CAGR(endingValue, beginningValue float64, years int) float64 {
	if beginningValue == 0 || years == 0 {
		return 0
	}
	return math.Pow(endingValue/beginningValue, 1.0/float64(years)) - 1
}

// DuPontResult carries the three-factor ROE decomposition.
type DuPontResult struct {
	ProfitMargin      float64
	AssetTurnover     float64
	FinancialLeverage float64
	ROE               float64
}

// DuPontROE decomposes ROE into margin, turnover and leverage.
func DuPontROE(netIncome, revenue, avgAssets, avgEquity float64) DuPontResult {
	pm := SafeDiv(netIncome, revenue)
	at := SafeDiv(revenue, avgAssets)
	fl := SafeDiv(avgAssets, avgEquity)
	return DuPontResult{
		ProfitMargin:      pm,
		AssetTurnover:     at,
		FinancialLeverage: fl,
		ROE:               pm * at * fl,
	}
}

// AltmanZScore (manufacturing form).
// Z = 1.2A + 1.4B + 3.3C + 0.6D + 1.0E
// A = Working Capital / Total Assets
// B = Retained Earnings / Total Assets
// C = EBIT / Total Assets
// D = Market Value of Equity / Total Liabilities
// E = Sales / Total Assets
func AltmanZScore(wc, re, ebit, mve, sales, ta, tl float64) float64 {
	if ta == 0 || tl == 0 {
		return 0
	}
	a := wc / ta
	b := re / ta
	c := ebit / ta
	d := mve / tl
	e := sales / ta
	return 1.2*a + 1.4*b + 3.3*c + 0.6*d + 1.0*e
}
