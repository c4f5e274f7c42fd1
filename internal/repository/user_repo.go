package repository

import (
	"context"
	"errors"

	"account-service/internal/domain"
)

// Errores sentinela del directorio de usuarios.
var (
	ErrNotFound   = errors.New("user not found")
	ErrEmailTaken = errors.New("email already taken")
)

// UserDirectory define el contrato de persistencia para usuarios.
// Create es atómico sobre el email: dos inserciones concurrentes con el
// mismo email nunca pasan ambas.
type UserDirectory interface {
	Create(ctx context.Context, user domain.User) error
	GetByID(ctx context.Context, id string) (domain.User, error)
	GetByEmail(ctx context.Context, email string) (domain.User, error)
	Update(ctx context.Context, user domain.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}
