package dashboard

import "github.com/shopspring/decimal"

// Stats is the headline dashboard block: sales are validated orders
// only, profit is sales minus expenses for the same window.
type Stats struct {
	DaySales      decimal.Decimal `json:"day_sales"`
	MonthSales    decimal.Decimal `json:"month_sales"`
	YearSales     decimal.Decimal `json:"year_sales"`
	DayExpenses   decimal.Decimal `json:"day_expenses"`
	MonthExpenses decimal.Decimal `json:"month_expenses"`
	YearExpenses  decimal.Decimal `json:"year_expenses"`
	DayProfit     decimal.Decimal `json:"day_profit"`
	MonthProfit   decimal.Decimal `json:"month_profit"`
	YearProfit    decimal.Decimal `json:"year_profit"`
	DayOrders     int             `json:"day_orders"`
	MonthOrders   int             `json:"month_orders"`
	YearOrders    int             `json:"year_orders"`
	OpenOrders    int             `json:"open_orders"`
}

type TopProduct struct {
	ProductID int64           `json:"product_id"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

type TopEmployee struct {
	EmployeeID int64           `json:"employee_id"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Total      decimal.Decimal `json:"total"`
}

type TopDriver struct {
	DriverID   int64           `json:"driver_id"`
	Name       string          `json:"name"`
	Deliveries int             `json:"deliveries"`
	Total      decimal.Decimal `json:"total"`
}

// SeriesPoint is one bucket of a time series: a day of the current week
// or month, or a month of the sales evolution.
type SeriesPoint struct {
	Label string          `json:"label"`
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
}

type EmployeeStats struct {
	EmployeeID      int64           `json:"employee_id"`
	Name            string          `json:"name"`
	Orders          int             `json:"orders"`
	ValidatedOrders int             `json:"validated_orders"`
	CancelledOrders int             `json:"cancelled_orders"`
	Total           decimal.Decimal `json:"total"`
}
