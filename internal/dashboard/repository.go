package dashboard

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	apperrors "biosen/internal/errors"
)

// Period selects the aggregation window for the top-N queries.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodYear  Period = "year"
)

func (p Period) valid() bool {
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodYear:
		return true
	}
	return false
}

// condition returns the SQL window predicate for the given date column.
func (p Period) condition(column string) string {
	switch p {
	case PeriodDay:
		return fmt.Sprintf("DATE(%s) = CURDATE()", column)
	case PeriodWeek:
		return fmt.Sprintf("YEARWEEK(%s, 1) = YEARWEEK(CURDATE(), 1)", column)
	case PeriodMonth:
		return fmt.Sprintf("MONTH(%s) = MONTH(CURDATE()) AND YEAR(%s) = YEAR(CURDATE())", column, column)
	default:
		return fmt.Sprintf("YEAR(%s) = YEAR(CURDATE())", column)
	}
}

type MySQLRepository struct {
	db *sql.DB
}

func NewMySQLRepository(db *sql.DB) *MySQLRepository {
	return &MySQLRepository{db: db}
}

func shopCond(shopID *int64, column string) (string, []interface{}) {
	if shopID == nil {
		return "", nil
	}
	return " AND " + column + " = ?", []interface{}{*shopID}
}

func (r *MySQLRepository) Stats(ctx context.Context, shopID *int64) (*Stats, error) {
	var s Stats

	cond, args := shopCond(shopID, "shop_id")
	var daySales, monthSales, yearSales string
	err := r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN DATE(validated_at) = CURDATE() THEN total ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN MONTH(validated_at) = MONTH(CURDATE()) AND YEAR(validated_at) = YEAR(CURDATE()) THEN total ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN YEAR(validated_at) = YEAR(CURDATE()) THEN total ELSE 0 END), 0),
		       COALESCE(SUM(DATE(validated_at) = CURDATE()), 0),
		       COALESCE(SUM(MONTH(validated_at) = MONTH(CURDATE()) AND YEAR(validated_at) = YEAR(CURDATE())), 0),
		       COALESCE(SUM(YEAR(validated_at) = YEAR(CURDATE())), 0)
		FROM orders
		WHERE status = 'validated'`+cond,
		args...).Scan(&daySales, &monthSales, &yearSales, &s.DayOrders, &s.MonthOrders, &s.YearOrders)
	if err != nil {
		return nil, fmt.Errorf("querying sales stats: %w", err)
	}

	if s.DaySales, err = decimal.NewFromString(daySales); err != nil {
		return nil, fmt.Errorf("parsing day sales: %w", err)
	}
	if s.MonthSales, err = decimal.NewFromString(monthSales); err != nil {
		return nil, fmt.Errorf("parsing month sales: %w", err)
	}
	if s.YearSales, err = decimal.NewFromString(yearSales); err != nil {
		return nil, fmt.Errorf("parsing year sales: %w", err)
	}

	var dayExp, monthExp, yearExp string
	err = r.db.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN spent_on = CURDATE() THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN MONTH(spent_on) = MONTH(CURDATE()) AND YEAR(spent_on) = YEAR(CURDATE()) THEN amount ELSE 0 END), 0),
		       COALESCE(SUM(CASE WHEN YEAR(spent_on) = YEAR(CURDATE()) THEN amount ELSE 0 END), 0)
		FROM expenses
		WHERE 1=1`+cond,
		args...).Scan(&dayExp, &monthExp, &yearExp)
	if err != nil {
		return nil, fmt.Errorf("querying expense stats: %w", err)
	}

	if s.DayExpenses, err = decimal.NewFromString(dayExp); err != nil {
		return nil, fmt.Errorf("parsing day expenses: %w", err)
	}
	if s.MonthExpenses, err = decimal.NewFromString(monthExp); err != nil {
		return nil, fmt.Errorf("parsing month expenses: %w", err)
	}
	if s.YearExpenses, err = decimal.NewFromString(yearExp); err != nil {
		return nil, fmt.Errorf("parsing year expenses: %w", err)
	}

	err = r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM orders WHERE status = 'open'`+cond, args...).Scan(&s.OpenOrders)
	if err != nil {
		return nil, fmt.Errorf("querying open order count: %w", err)
	}

	s.DayProfit = s.DaySales.Sub(s.DayExpenses)
	s.MonthProfit = s.MonthSales.Sub(s.MonthExpenses)
	s.YearProfit = s.YearSales.Sub(s.YearExpenses)
	return &s, nil
}

func (r *MySQLRepository) TopProducts(ctx context.Context, shopID *int64, period Period, limit int) ([]TopProduct, error) {
	if !period.valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "period",
			Message: "period must be day, week, month or year",
		})
	}

	cond, args := shopCond(shopID, "o.shop_id")
	query := fmt.Sprintf(`
		SELECT p.id, p.name, SUM(l.quantity), COALESCE(SUM(l.subtotal), 0)
		FROM order_lines l
		JOIN orders o ON o.id = l.order_id
		JOIN products p ON p.id = l.product_id
		WHERE o.status = 'validated' AND %s%s
		GROUP BY p.id, p.name
		ORDER BY SUM(l.quantity) DESC
		LIMIT ?`, period.condition("o.validated_at"), cond)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top products: %w", err)
	}
	defer rows.Close()

	var top []TopProduct
	for rows.Next() {
		var t TopProduct
		var total string
		if err := rows.Scan(&t.ProductID, &t.Name, &t.Quantity, &total); err != nil {
			return nil, fmt.Errorf("scanning top product row: %w", err)
		}
		if t.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing top product total: %w", err)
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top product rows: %w", err)
	}
	return top, nil
}

func (r *MySQLRepository) TopEmployees(ctx context.Context, shopID *int64, period Period, limit int) ([]TopEmployee, error) {
	if !period.valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "period",
			Message: "period must be day, week, month or year",
		})
	}

	cond, args := shopCond(shopID, "o.shop_id")
	query := fmt.Sprintf(`
		SELECT e.id, e.name, COUNT(*), COALESCE(SUM(o.total), 0)
		FROM orders o
		JOIN employees e ON e.id = o.employee_id
		WHERE o.status = 'validated' AND %s%s
		GROUP BY e.id, e.name
		ORDER BY SUM(o.total) DESC
		LIMIT ?`, period.condition("o.validated_at"), cond)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top employees: %w", err)
	}
	defer rows.Close()

	var top []TopEmployee
	for rows.Next() {
		var t TopEmployee
		var total string
		if err := rows.Scan(&t.EmployeeID, &t.Name, &t.Orders, &total); err != nil {
			return nil, fmt.Errorf("scanning top employee row: %w", err)
		}
		if t.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing top employee total: %w", err)
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top employee rows: %w", err)
	}
	return top, nil
}

func (r *MySQLRepository) TopDrivers(ctx context.Context, shopID *int64, period Period, limit int) ([]TopDriver, error) {
	if !period.valid() {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "period",
			Message: "period must be day, week, month or year",
		})
	}

	cond, args := shopCond(shopID, "o.shop_id")
	query := fmt.Sprintf(`
		SELECT d.id, d.name, COUNT(*), COALESCE(SUM(o.total), 0)
		FROM orders o
		JOIN drivers d ON d.id = o.driver_id
		WHERE o.status = 'validated' AND o.type = 'delivery' AND %s%s
		GROUP BY d.id, d.name
		ORDER BY COUNT(*) DESC
		LIMIT ?`, period.condition("o.validated_at"), cond)
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying top drivers: %w", err)
	}
	defer rows.Close()

	var top []TopDriver
	for rows.Next() {
		var t TopDriver
		var total string
		if err := rows.Scan(&t.DriverID, &t.Name, &t.Deliveries, &total); err != nil {
			return nil, fmt.Errorf("scanning top driver row: %w", err)
		}
		if t.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing top driver total: %w", err)
		}
		top = append(top, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating top driver rows: %w", err)
	}
	return top, nil
}

// OrdersSeries buckets the current week or month by day.
func (r *MySQLRepository) OrdersSeries(ctx context.Context, shopID *int64, period Period) ([]SeriesPoint, error) {
	if period != PeriodWeek && period != PeriodMonth {
		return nil, apperrors.NewValidationError("validation failed", apperrors.ValidationDetail{
			Field:   "period",
			Message: "period must be week or month",
		})
	}

	cond, args := shopCond(shopID, "shop_id")
	query := fmt.Sprintf(`
		SELECT DATE(order_date), COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE %s%s
		GROUP BY DATE(order_date)
		ORDER BY DATE(order_date)`, period.condition("order_date"), cond)

	return r.series(ctx, query, args)
}

// SalesEvolution returns twelve months of validated sales ending now.
func (r *MySQLRepository) SalesEvolution(ctx context.Context, shopID *int64) ([]SeriesPoint, error) {
	cond, args := shopCond(shopID, "shop_id")
	query := `
		SELECT DATE_FORMAT(validated_at, '%Y-%m'), COUNT(*), COALESCE(SUM(total), 0)
		FROM orders
		WHERE status = 'validated'
		  AND validated_at >= DATE_SUB(CURDATE(), INTERVAL 12 MONTH)` + cond + `
		GROUP BY DATE_FORMAT(validated_at, '%Y-%m')
		ORDER BY DATE_FORMAT(validated_at, '%Y-%m')`

	return r.series(ctx, query, args)
}

func (r *MySQLRepository) series(ctx context.Context, query string, args []interface{}) ([]SeriesPoint, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying series: %w", err)
	}
	defer rows.Close()

	var points []SeriesPoint
	for rows.Next() {
		var p SeriesPoint
		var total string
		if err := rows.Scan(&p.Label, &p.Count, &total); err != nil {
			return nil, fmt.Errorf("scanning series row: %w", err)
		}
		if p.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing series total: %w", err)
		}
		points = append(points, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating series rows: %w", err)
	}
	return points, nil
}

func (r *MySQLRepository) EmployeeStats(ctx context.Context, shopID *int64) ([]EmployeeStats, error) {
	cond, args := shopCond(shopID, "e.shop_id")
	query := `
		SELECT e.id, e.name,
		       COUNT(o.id),
		       COALESCE(SUM(o.status = 'validated'), 0),
		       COALESCE(SUM(o.status = 'cancelled'), 0),
		       COALESCE(SUM(CASE WHEN o.status = 'validated' THEN o.total ELSE 0 END), 0)
		FROM employees e
		LEFT JOIN orders o ON o.employee_id = e.id
		WHERE e.active = 1` + cond + `
		GROUP BY e.id, e.name
		ORDER BY e.name`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying employee stats: %w", err)
	}
	defer rows.Close()

	var stats []EmployeeStats
	for rows.Next() {
		var s EmployeeStats
		var total string
		if err := rows.Scan(&s.EmployeeID, &s.Name, &s.Orders, &s.ValidatedOrders, &s.CancelledOrders, &total); err != nil {
			return nil, fmt.Errorf("scanning employee stats row: %w", err)
		}
		if s.Total, err = decimal.NewFromString(total); err != nil {
			return nil, fmt.Errorf("parsing employee stats total: %w", err)
		}
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating employee stats rows: %w", err)
	}
	return stats, nil
}
