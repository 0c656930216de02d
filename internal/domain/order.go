package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	OrderStatusOpen      = "open"
	OrderStatusValidated = "validated"
	OrderStatusCancelled = "cancelled"
)

const (
	OrderTypeInStore  = "in_store"
	OrderTypeDelivery = "delivery"
)

type Order struct {
	ID           int64
	Number       string
	ShopID       int64
	ClientID     *int64
	EmployeeID   int64
	DriverID     *int64
	Type         string
	Status       string
	Total        decimal.Decimal
	OrderDate    time.Time
	ValidatedAt  *time.Time
	CancelledAt  *time.Time
	CancelReason *string
	CancelledBy  *int64
	Notes        *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	Lines []OrderLine
}

type OrderLine struct {
	ID        int64
	OrderID   int64
	ProductID int64
	Quantity  int
	UnitPrice decimal.Decimal
	Subtotal  decimal.Decimal
}

// CanValidate: only open orders move to validated.
func (o Order) CanValidate() bool {
	return o.Status == OrderStatusOpen
}

// CanCancel: cancellation is reachable from open or validated, never from
// cancelled itself.
func (o Order) CanCancel() bool {
	return o.Status == OrderStatusOpen || o.Status == OrderStatusValidated
}

// Mutable reports whether the order header and lines may still be edited
// or the order deleted.
func (o Order) Mutable() bool {
	return o.Status == OrderStatusOpen
}

// ComputeTotal sums line subtotals. The stored total must always equal
// this value.
func ComputeTotal(lines []OrderLine) decimal.Decimal {
	total := decimal.Zero
	for _, line := range lines {
		total = total.Add(line.Subtotal)
	}
	return total
}
