package domain

import "time"

type Shop struct {
	ID        int64
	Name      string
	Address   *string
	Phone     *string
	Logo      *string
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
