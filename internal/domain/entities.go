package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Category struct {
	ID          int64
	ShopID      int64
	Name        string
	Description *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Employee struct {
	ID        int64
	ShopID    int64
	Name      string
	Phone     *string
	RoleTitle *string
	Photo     *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Driver struct {
	ID        int64
	ShopID    int64
	Name      string
	Phone     *string
	Available bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Client struct {
	ID        int64
	ShopID    int64
	FullName  string
	Phone     string
	Address   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Expense struct {
	ID          int64
	ShopID      int64
	Description string
	Amount      decimal.Decimal
	Category    *string
	SpentOn     time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Bundle is a named kit of products with fixed quantities.
type Bundle struct {
	ID          int64
	ShopID      int64
	Name        string
	Description *string
	Active      bool
	CreatedAt   time.Time
	UpdatedAt   time.Time

	Products []BundleProduct
}

type BundleProduct struct {
	ProductID int64
	Quantity  int
}

// IntakeOrder is the legacy lightweight order-intake row: free-text
// products, no pricing, no lifecycle.
type IntakeOrder struct {
	ID          int64
	Phone       string
	ClientName  string
	Address     *string
	Salesperson string
	Products    string
	EnteredBy   int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
