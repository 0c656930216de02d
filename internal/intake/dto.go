package intake

import (
	"time"

	"biosen/internal/domain"
)

type IntakeOrderDTO struct {
	ID          int64     `json:"id"`
	Phone       string    `json:"phone"`
	ClientName  string    `json:"client_name"`
	Address     *string   `json:"address"`
	Salesperson string    `json:"salesperson"`
	Products    string    `json:"products"`
	EnteredBy   int64     `json:"entered_by"`
	EnteredName string    `json:"entered_by_name,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewIntakeOrderDTO(o domain.IntakeOrder, enteredName string) IntakeOrderDTO {
	return IntakeOrderDTO{
		ID:          o.ID,
		Phone:       o.Phone,
		ClientName:  o.ClientName,
		Address:     o.Address,
		Salesperson: o.Salesperson,
		Products:    o.Products,
		EnteredBy:   o.EnteredBy,
		EnteredName: enteredName,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

type CreateRequest struct {
	Phone       string  `json:"phone"`
	ClientName  string  `json:"client_name"`
	Address     *string `json:"address"`
	Salesperson string  `json:"salesperson"`
	Products    string  `json:"products"`
}

type UpdateRequest struct {
	Phone       *string `json:"phone"`
	ClientName  *string `json:"client_name"`
	Address     *string `json:"address"`
	Salesperson *string `json:"salesperson"`
	Products    *string `json:"products"`
}

// Summary aggregates the listing that matches the current filter.
type Summary struct {
	Count int `json:"count"`
}

// Stats is the standalone reporting payload.
type Stats struct {
	Total     int            `json:"total"`
	Today     int            `json:"today"`
	ThisMonth int            `json:"this_month"`
	ByEnterer []EntererCount `json:"by_enterer"`
}

type EntererCount struct {
	UserID int64  `json:"user_id"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}
