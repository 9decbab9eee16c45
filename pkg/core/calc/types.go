// Package calc supplies the statement model and the standard ratio formulas
// that pre-populate a panel. The formula engine treats these rows as
// read-only inputs; custom formulas may reference any of them by field name.
package calc

// BalanceSheet represents balance sheet line items for one period.
type BalanceSheet struct {
	Cash                    float64 `json:"cash" yaml:"cash"`
	ShortTermInvest         float64 `json:"short_term_invest" yaml:"short_term_invest"`
	AccountsReceivable      float64 `json:"accounts_receivable" yaml:"accounts_receivable"`
	Inventories             float64 `json:"inventories" yaml:"inventories"`
	TotalCurrentAssets      float64 `json:"total_current_assets" yaml:"total_current_assets"`
	PPENet                  float64 `json:"ppe_net" yaml:"ppe_net"`
	Goodwill                float64 `json:"goodwill" yaml:"goodwill"`
	TotalAssets             float64 `json:"total_assets" yaml:"total_assets"`
	AccountsPayable         float64 `json:"accounts_payable" yaml:"accounts_payable"`
	ShortTermDebt           float64 `json:"short_term_debt" yaml:"short_term_debt"`
	TotalCurrentLiabilities float64 `json:"total_current_liabilities" yaml:"total_current_liabilities"`
	LongTermDebt            float64 `json:"long_term_debt" yaml:"long_term_debt"`
	TotalLiabilities        float64 `json:"total_liabilities" yaml:"total_liabilities"`
	RetainedEarnings        float64 `json:"retained_earnings" yaml:"retained_earnings"`
	TotalEquity             float64 `json:"total_equity" yaml:"total_equity"`
}

// IncomeStatement represents income statement line items for one period.
// Costs are positive magnitudes.
type IncomeStatement struct {
	Revenue          float64 `json:"revenue" yaml:"revenue"`
	COGS             float64 `json:"cogs" yaml:"cogs"`
	GrossProfit      float64 `json:"gross_profit" yaml:"gross_profit"`
	SGAExpense       float64 `json:"sga_expense" yaml:"sga_expense"`
	RDExpense        float64 `json:"rd_expense" yaml:"rd_expense"`
	OperatingIncome  float64 `json:"operating_income" yaml:"operating_income"`
	InterestExpense  float64 `json:"interest_expense" yaml:"interest_expense"`
	IncomeBeforeTax  float64 `json:"income_before_tax" yaml:"income_before_tax"`
	IncomeTaxExpense float64 `json:"income_tax_expense" yaml:"income_tax_expense"`
	NetIncome        float64 `json:"net_income" yaml:"net_income"`
}

// CashFlowStatement represents cash flow line items for one period.
type CashFlowStatement struct {
	CashFromOperations float64 `json:"cash_from_operations" yaml:"cash_from_operations"`
	CapEx              float64 `json:"capex" yaml:"capex"`
	CashFromInvesting  float64 `json:"cash_from_investing" yaml:"cash_from_investing"`
	CashFromFinancing  float64 `json:"cash_from_financing" yaml:"cash_from_financing"`
	DividendsPaid      float64 `json:"dividends_paid" yaml:"dividends_paid"`
}

// SupplementalData holds market inputs that are not statement line items.
type SupplementalData struct {
	SharesOutstanding float64 `json:"shares_outstanding" yaml:"shares_outstanding"`
	SharePrice        float64 `json:"share_price" yaml:"share_price"`
	EffectiveTaxRate  float64 `json:"effective_tax_rate" yaml:"effective_tax_rate"`
}

// Statements is one entity's complete statement set for one period.
type Statements struct {
	Period       string            `json:"period" yaml:"period"`
	BalanceSheet BalanceSheet      `json:"balance_sheet" yaml:"balance_sheet"`
	Income       IncomeStatement   `json:"income_statement" yaml:"income_statement"`
	CashFlow     CashFlowStatement `json:"cash_flow" yaml:"cash_flow"`
	Supplemental SupplementalData  `json:"supplemental" yaml:"supplemental"`
}

// History is one entity's statement sets ordered oldest to newest. Every
// entity in a panel shares the same period axis.
type History struct {
	Entity  string       `json:"entity" yaml:"entity"`
	Periods []Statements `json:"periods" yaml:"periods"`
}
