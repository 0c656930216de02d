package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"biosen/internal/commons"
	"biosen/internal/domain"
	apperrors "biosen/internal/errors"
	"biosen/internal/order/dto"
)

type ListFilter struct {
	ShopID *int64
	Status string
	Date   *time.Time
	Search string
	Page   commons.Page
}

type MySQLOrderRepository struct {
	db *sql.DB
}

func NewMySQLOrderRepository(db *sql.DB) *MySQLOrderRepository {
	return &MySQLOrderRepository{db: db}
}

const orderColumns = `o.id, o.number, o.shop_id, o.client_id, o.employee_id, o.driver_id,
	o.type, o.status, o.total, o.order_date, o.validated_at, o.cancelled_at,
	o.cancel_reason, o.cancelled_by, o.notes, o.created_at, o.updated_at`

func scanOrder(row interface{ Scan(...interface{}) error }) (domain.Order, error) {
	var o domain.Order
	var total string
	err := row.Scan(&o.ID, &o.Number, &o.ShopID, &o.ClientID, &o.EmployeeID, &o.DriverID,
		&o.Type, &o.Status, &total, &o.OrderDate, &o.ValidatedAt, &o.CancelledAt,
		&o.CancelReason, &o.CancelledBy, &o.Notes, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return o, err
	}
	o.Total, err = decimal.NewFromString(total)
	return o, err
}

func buildWhere(f ListFilter) (string, []interface{}) {
	where := "WHERE 1=1"
	args := []interface{}{}

	if f.ShopID != nil {
		where += " AND o.shop_id = ?"
		args = append(args, *f.ShopID)
	}
	if f.Status != "" {
		where += " AND o.status = ?"
		args = append(args, f.Status)
	}
	if f.Date != nil {
		where += " AND o.order_date = ?"
		args = append(args, f.Date.Format("2006-01-02"))
	}
	if f.Search != "" {
		where += ` AND (o.number LIKE ? OR o.client_id IN (
			SELECT id FROM clients WHERE full_name LIKE ? OR phone LIKE ?))`
		like := "%" + f.Search + "%"
		args = append(args, like, like, like)
	}

	return where, args
}

func (r *MySQLOrderRepository) List(ctx context.Context, f ListFilter) ([]domain.Order, int, error) {
	where, args := buildWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM orders o "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM orders o %s ORDER BY o.created_at DESC LIMIT ? OFFSET ?",
		orderColumns, where)
	args = append(args, f.Page.Limit(), f.Page.Offset())

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}
	defer rows.Close()

	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning order row: %w", err)
		}
		orders = append(orders, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating order rows: %w", err)
	}

	return orders, total, nil
}

// DaySummary aggregates a single day's orders for the history view.
func (r *MySQLOrderRepository) DaySummary(ctx context.Context, shopID *int64, date time.Time) (*dto.DaySummary, error) {
	where := "WHERE o.order_date = ?"
	args := []interface{}{date.Format("2006-01-02")}
	if shopID != nil {
		where += " AND o.shop_id = ?"
		args = append(args, *shopID)
	}

	var s dto.DaySummary
	var total, validatedTotal string
	err := r.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(o.total), 0),
		       COALESCE(SUM(CASE WHEN o.status = 'validated' THEN o.total ELSE 0 END), 0),
		       COALESCE(SUM(o.status = 'open'), 0),
		       COALESCE(SUM(o.status = 'cancelled'), 0)
		FROM orders o `+where,
		args...).Scan(&s.Count, &total, &validatedTotal, &s.OpenCount, &s.CancelledCount)
	if err != nil {
		return nil, fmt.Errorf("querying day summary: %w", err)
	}

	s.Date = date.Format("2006-01-02")
	if s.Total, err = decimal.NewFromString(total); err != nil {
		return nil, fmt.Errorf("parsing day total: %w", err)
	}
	if s.ValidatedTotal, err = decimal.NewFromString(validatedTotal); err != nil {
		return nil, fmt.Errorf("parsing validated day total: %w", err)
	}
	return &s, nil
}

func (r *MySQLOrderRepository) FindByID(ctx context.Context, id int64) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders o WHERE o.id = ?", orderColumns)

	o, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id: %w", err)
	}

	o.Lines, err = findLines(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// FindByIDForUpdate locks the order row inside the transaction so
// concurrent lifecycle transitions serialize on it.
func (r *MySQLOrderRepository) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id int64) (*domain.Order, error) {
	query := fmt.Sprintf("SELECT %s FROM orders o WHERE o.id = ? FOR UPDATE", orderColumns)

	o, err := scanOrder(tx.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", id))
	}
	if err != nil {
		return nil, fmt.Errorf("querying order by id for update: %w", err)
	}

	o.Lines, err = findLines(ctx, tx, id)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func findLines(ctx context.Context, q querier, orderID int64) ([]domain.OrderLine, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, order_id, product_id, quantity, unit_price, subtotal
		FROM order_lines WHERE order_id = ? ORDER BY id`, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order lines: %w", err)
	}
	defer rows.Close()

	var lines []domain.OrderLine
	for rows.Next() {
		var line domain.OrderLine
		var unitPrice, subtotal string
		if err := rows.Scan(&line.ID, &line.OrderID, &line.ProductID, &line.Quantity, &unitPrice, &subtotal); err != nil {
			return nil, fmt.Errorf("scanning order line row: %w", err)
		}
		if line.UnitPrice, err = decimal.NewFromString(unitPrice); err != nil {
			return nil, fmt.Errorf("parsing line unit price: %w", err)
		}
		if line.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
			return nil, fmt.Errorf("parsing line subtotal: %w", err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating order line rows: %w", err)
	}
	return lines, nil
}

func (r *MySQLOrderRepository) Insert(ctx context.Context, tx *sql.Tx, o domain.Order) (int64, error) {
	result, err := tx.ExecContext(ctx, `
		INSERT INTO orders (number, shop_id, client_id, employee_id, driver_id, type, status,
		                    total, order_date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, NOW(), NOW())`,
		o.Number, o.ShopID, o.ClientID, o.EmployeeID, o.DriverID, o.Type, o.Status,
		o.Total.String(), o.OrderDate.Format("2006-01-02"), o.Notes)
	if err != nil {
		return 0, fmt.Errorf("inserting order: %w", err)
	}
	return result.LastInsertId()
}

func (r *MySQLOrderRepository) InsertLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error {
	for _, line := range lines {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO order_lines (order_id, product_id, quantity, unit_price, subtotal)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, line.ProductID, line.Quantity, line.UnitPrice.String(), line.Subtotal.String())
		if err != nil {
			return fmt.Errorf("inserting order line: %w", err)
		}
	}
	return nil
}

func (r *MySQLOrderRepository) UpdateHeader(ctx context.Context, tx *sql.Tx, o domain.Order) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET client_id = ?, employee_id = ?, driver_id = ?, type = ?,
		       total = ?, order_date = ?, notes = ?, updated_at = NOW()
		WHERE id = ?`,
		o.ClientID, o.EmployeeID, o.DriverID, o.Type,
		o.Total.String(), o.OrderDate.Format("2006-01-02"), o.Notes, o.ID)
	if err != nil {
		return fmt.Errorf("updating order header: %w", err)
	}

	if _, err := result.RowsAffected(); err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	return nil
}

func (r *MySQLOrderRepository) ReplaceLines(ctx context.Context, tx *sql.Tx, orderID int64, lines []domain.OrderLine) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("clearing order lines: %w", err)
	}
	return r.InsertLines(ctx, tx, orderID, lines)
}

func (r *MySQLOrderRepository) Delete(ctx context.Context, tx *sql.Tx, orderID int64) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM order_lines WHERE order_id = ?`, orderID); err != nil {
		return fmt.Errorf("deleting order lines: %w", err)
	}

	result, err := tx.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, orderID)
	if err != nil {
		return fmt.Errorf("deleting order: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", orderID))
	}
	return nil
}

func (r *MySQLOrderRepository) MarkValidated(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = ?, validated_at = ?, updated_at = NOW() WHERE id = ?`,
		domain.OrderStatusValidated, at, orderID)
	if err != nil {
		return fmt.Errorf("marking order validated: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", orderID))
	}
	return nil
}

func (r *MySQLOrderRepository) MarkCancelled(ctx context.Context, tx *sql.Tx, orderID int64, at time.Time, reason string, cancelledBy int64) error {
	result, err := tx.ExecContext(ctx, `
		UPDATE orders SET status = ?, cancelled_at = ?, cancel_reason = ?, cancelled_by = ?, updated_at = NOW()
		WHERE id = ?`,
		domain.OrderStatusCancelled, at, reason, cancelledBy, orderID)
	if err != nil {
		return fmt.Errorf("marking order cancelled: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("getting rows affected: %w", err)
	}
	if affected == 0 {
		return apperrors.NewNotFoundError(fmt.Sprintf("order with id %d not found", orderID))
	}
	return nil
}

// Names resolves the display names joined into order DTOs.
func (r *MySQLOrderRepository) Names(ctx context.Context, orders ...domain.Order) (map[int64]dto.OrderNames, error) {
	names := make(map[int64]dto.OrderNames, len(orders))
	if len(orders) == 0 {
		return names, nil
	}

	clientIDs := map[int64]bool{}
	employeeIDs := map[int64]bool{}
	driverIDs := map[int64]bool{}
	productIDs := map[int64]bool{}
	for _, o := range orders {
		if o.ClientID != nil {
			clientIDs[*o.ClientID] = true
		}
		employeeIDs[o.EmployeeID] = true
		if o.DriverID != nil {
			driverIDs[*o.DriverID] = true
		}
		for _, line := range o.Lines {
			productIDs[line.ProductID] = true
		}
	}

	clients, err := r.nameMap(ctx, "clients", "full_name", clientIDs)
	if err != nil {
		return nil, err
	}
	employees, err := r.nameMap(ctx, "employees", "name", employeeIDs)
	if err != nil {
		return nil, err
	}
	drivers, err := r.nameMap(ctx, "drivers", "name", driverIDs)
	if err != nil {
		return nil, err
	}
	products, err := r.nameMap(ctx, "products", "name", productIDs)
	if err != nil {
		return nil, err
	}

	for _, o := range orders {
		n := dto.OrderNames{
			Employee: employees[o.EmployeeID],
			Products: products,
		}
		if o.ClientID != nil {
			if name, ok := clients[*o.ClientID]; ok {
				n.Client = &name
			}
		}
		if o.DriverID != nil {
			if name, ok := drivers[*o.DriverID]; ok {
				n.Driver = &name
			}
		}
		names[o.ID] = n
	}

	return names, nil
}

func (r *MySQLOrderRepository) ShopName(ctx context.Context, id int64) (string, error) {
	var name string
	err := r.db.QueryRowContext(ctx, `SELECT name FROM shops WHERE id = ?`, id).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("querying shop name: %w", err)
	}
	return name, nil
}

func (r *MySQLOrderRepository) nameMap(ctx context.Context, table, column string, idSet map[int64]bool) (map[int64]string, error) {
	names := make(map[int64]string, len(idSet))
	if len(idSet) == 0 {
		return names, nil
	}

	placeholders := make([]string, 0, len(idSet))
	args := make([]interface{}, 0, len(idSet))
	for id := range idSet {
		placeholders = append(placeholders, "?")
		args = append(args, id)
	}

	query := fmt.Sprintf("SELECT id, %s FROM %s WHERE id IN (%s)",
		column, table, strings.Join(placeholders, ", "))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying %s names: %w", table, err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int64
		var name string
		if err := rows.Scan(&id, &name); err != nil {
			return nil, fmt.Errorf("scanning %s name row: %w", table, err)
		}
		names[id] = name
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating %s name rows: %w", table, err)
	}
	return names, nil
}
