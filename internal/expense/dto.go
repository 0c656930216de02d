package expense

import (
	"time"

	"github.com/shopspring/decimal"

	"biosen/internal/domain"
)

type ExpenseDTO struct {
	ID          int64           `json:"id"`
	ShopID      int64           `json:"shop_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Category    *string         `json:"category"`
	SpentOn     string          `json:"spent_on"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewExpenseDTO(e domain.Expense) ExpenseDTO {
	return ExpenseDTO{
		ID:          e.ID,
		ShopID:      e.ShopID,
		Description: e.Description,
		Amount:      e.Amount,
		Category:    e.Category,
		SpentOn:     e.SpentOn.Format("2006-01-02"),
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

type CreateRequest struct {
	ShopID      int64   `json:"shop_id"`
	Description string  `json:"description"`
	Amount      string  `json:"amount"`
	Category    *string `json:"category"`
	SpentOn     string  `json:"spent_on"`
}

type UpdateRequest struct {
	Description *string `json:"description"`
	Amount      *string `json:"amount"`
	Category    *string `json:"category"`
	SpentOn     *string `json:"spent_on"`
}
