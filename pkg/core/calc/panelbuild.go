package calc

import (
	"fmt"

	"fincalc/pkg/core/panel"
)

// Panel field names for raw statement line items and the standard ratios.
// Names never contain formula operator characters; that is the declared
// naming constraint that keeps the tokenizer's operand splitting sound.
const (
	FieldRevenue            = "Revenue"
	FieldCOGS               = "COGS"
	FieldGrossProfit        = "Gross Profit"
	FieldSGAExpense         = "SGA Expense"
	FieldRDExpense          = "RD Expense"
	FieldOperatingIncome    = "Operating Income"
	FieldInterestExpense    = "Interest Expense"
	FieldNetIncome          = "Net Income"
	FieldCash               = "Cash"
	FieldAccountsReceivable = "Accounts Receivable"
	FieldInventories        = "Inventories"
	FieldCurrentAssets      = "Total Current Assets"
	FieldTotalAssets        = "Total Assets"
	FieldCurrentLiabilities = "Total Current Liabilities"
	FieldLongTermDebt       = "Long Term Debt"
	FieldTotalLiabilities   = "Total Liabilities"
	FieldRetainedEarnings   = "Retained Earnings"
	FieldTotalEquity        = "Total Equity"
	FieldCashFromOperations = "Cash From Operations"
	FieldCapEx              = "CapEx"
	FieldSharesOutstanding  = "Shares Outstanding"
	FieldSharePrice         = "Share Price"

	FieldWorkingCapital   = "Working Capital"
	FieldCurrentRatio     = "Current Ratio"
	FieldQuickRatio       = "Quick Ratio"
	FieldGrossMargin      = "Gross Margin"
	FieldOperatingMargin  = "Operating Margin"
	FieldNetMargin        = "Net Margin"
	FieldDebtToEquity     = "Debt To Equity"
	FieldInterestCoverage = "Interest Coverage"
	FieldRevenueGrowth    = "Revenue Growth"
	FieldNetIncomeGrowth  = "Net Income Growth"
)

// BuildPanel loads entity histories into a panel: one row per statement line
// item plus the standard ratio rows. All histories must share the same
// period axis; entity order follows the slice order.
func BuildPanel(histories []History) (*panel.Panel, error) {
	if len(histories) == 0 {
		return nil, fmt.Errorf("no entity histories supplied")
	}

	periods := make([]string, 0, len(histories[0].Periods))
	for _, s := range histories[0].Periods {
		periods = append(periods, s.Period)
	}
	entities := make([]string, 0, len(histories))
	for _, h := range histories {
		if len(h.Periods) != len(periods) {
			return nil, fmt.Errorf("entity %s has %d periods, expected %d", h.Entity, len(h.Periods), len(periods))
		}
		for i, s := range h.Periods {
			if s.Period != periods[i] {
				return nil, fmt.Errorf("entity %s period %q does not match shared axis %q", h.Entity, s.Period, periods[i])
			}
		}
		entities = append(entities, h.Entity)
	}

	p := panel.New(entities, periods)
	for _, h := range histories {
		for i, s := range h.Periods {
			var prior *Statements
			if i > 0 {
				prior = &h.Periods[i-1]
			}
			for field, value := range periodRows(s, prior) {
				row, _ := p.GetEntity(field, h.Entity)
				if row == nil {
					row = make(panel.Series, len(periods))
				}
				row[i] = value
				p.SetEntity(field, h.Entity, row)
			}
		}
	}
	return p, nil
}

// periodRows maps one period's statements to panel rows: the raw line items
// and the standard ratios derived from them.
func periodRows(s Statements, prior *Statements) map[string]float64 {
	bs, is, cf, sup := s.BalanceSheet, s.Income, s.CashFlow, s.Supplemental

	rows := map[string]float64{
		FieldRevenue:            is.Revenue,
		FieldCOGS:               is.COGS,
		FieldGrossProfit:        is.GrossProfit,
		FieldSGAExpense:         is.SGAExpense,
		FieldRDExpense:          is.RDExpense,
		FieldOperatingIncome:    is.OperatingIncome,
		FieldInterestExpense:    is.InterestExpense,
		FieldNetIncome:          is.NetIncome,
		FieldCash:               bs.Cash,
		FieldAccountsReceivable: bs.AccountsReceivable,
		FieldInventories:        bs.Inventories,
		FieldCurrentAssets:      bs.TotalCurrentAssets,
		FieldTotalAssets:        bs.TotalAssets,
		FieldCurrentLiabilities: bs.TotalCurrentLiabilities,
		FieldLongTermDebt:       bs.LongTermDebt,
		FieldTotalLiabilities:   bs.TotalLiabilities,
		FieldRetainedEarnings:   bs.RetainedEarnings,
		FieldTotalEquity:        bs.TotalEquity,
		FieldCashFromOperations: cf.CashFromOperations,
		FieldCapEx:              cf.CapEx,
		FieldSharesOutstanding:  sup.SharesOutstanding,
		FieldSharePrice:         sup.SharePrice,

		FieldWorkingCapital:   WorkingCapital(bs.TotalCurrentAssets, bs.TotalCurrentLiabilities),
		FieldCurrentRatio:     CurrentRatio(bs.TotalCurrentAssets, bs.TotalCurrentLiabilities),
		FieldQuickRatio:       QuickRatio(bs.Cash, bs.ShortTermInvest, bs.AccountsReceivable, bs.TotalCurrentLiabilities),
		FieldGrossMargin:      GrossMargin(is.GrossProfit, is.Revenue),
		FieldOperatingMargin:  OperatingMargin(is.OperatingIncome, is.Revenue),
		FieldNetMargin:        NetMargin(is.NetIncome, is.Revenue),
		FieldDebtToEquity:     DebtToEquity(bs.TotalLiabilities, bs.TotalEquity),
		FieldInterestCoverage: InterestCoverageRatio(is.OperatingIncome, is.InterestExpense),
	}

	if prior != nil {
		rows[FieldRevenueGrowth] = GrowthRate(is.Revenue, prior.Income.Revenue)
		rows[FieldNetIncomeGrowth] = GrowthRate(is.NetIncome, prior.Income.NetIncome)
	} else {
		rows[FieldRevenueGrowth] = 0
		rows[FieldNetIncomeGrowth] = 0
	}
	return rows
}
