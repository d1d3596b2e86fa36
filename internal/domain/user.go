package domain

import "github.com/google/uuid"

const (
	RoleAdmin  = "admin"
	RoleClient = "client"
)

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         string // admin|client
	Audit
}
