package user

import (
	"context"
)

// Repository define as operações de persistência para usuários do painel
type Repository interface {
	// Create persiste um novo usuário
	Create(ctx context.Context, u *User) error

	// FindByID busca um usuário pelo ID
	FindByID(ctx context.Context, id string) (*User, error)

	// FindByEmail busca um usuário pelo email
	FindByEmail(ctx context.Context, email string) (*User, error)
}
