package domain

import "time"

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleClerk   = "clerk"
)

type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	ShopID       *int64
	Photo        *string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) IsManager() bool {
	return u.Role == RoleManager
}

func (u User) IsClerk() bool {
	return u.Role == RoleClerk
}
