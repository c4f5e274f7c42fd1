package service

import "golang.org/x/crypto/bcrypt"

// PasswordHasher encapsula el hashing y la verificación de contraseñas.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher crea un hasher bcrypt con el costo indicado.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash deriva un digest bcrypt con sal del texto plano.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// Verify compara texto plano contra un digest almacenado. Un digest
// malformado se trata como no coincidente, nunca como panic.
func (h *PasswordHasher) Verify(password, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(password)) == nil
}
