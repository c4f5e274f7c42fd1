package repository

import (
	"context"
	"sort"
	"sync"

	"account-service/internal/domain"
)

// MemoryUserDirectory implementa UserDirectory en memoria.
// Un solo RWMutex protege el mapa y el índice de emails, de modo que el
// check de unicidad y la escritura son una sola sección crítica.
type MemoryUserDirectory struct {
	mu      sync.RWMutex
	byID    map[string]domain.User
	byEmail map[string]string
}

func NewMemoryUserDirectory() *MemoryUserDirectory {
	return &MemoryUserDirectory{
		byID:    make(map[string]domain.User),
		byEmail: make(map[string]string),
	}
}

func (d *MemoryUserDirectory) Create(_ context.Context, user domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, taken := d.byEmail[user.Email]; taken {
		return ErrEmailTaken
	}
	d.byID[user.ID] = user
	d.byEmail[user.Email] = user.ID
	return nil
}

func (d *MemoryUserDirectory) GetByID(_ context.Context, id string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	user, ok := d.byID[id]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return user, nil
}

func (d *MemoryUserDirectory) GetByEmail(_ context.Context, email string) (domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	id, ok := d.byEmail[email]
	if !ok {
		return domain.User{}, ErrNotFound
	}
	return d.byID[id], nil
}

func (d *MemoryUserDirectory) Update(_ context.Context, user domain.User) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	current, ok := d.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	if user.Email != current.Email {
		if _, taken := d.byEmail[user.Email]; taken {
			return ErrEmailTaken
		}
		delete(d.byEmail, current.Email)
		d.byEmail[user.Email] = user.ID
	}
	d.byID[user.ID] = user
	return nil
}

func (d *MemoryUserDirectory) Delete(_ context.Context, id string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	user, ok := d.byID[id]
	if !ok {
		return ErrNotFound
	}
	delete(d.byID, id)
	delete(d.byEmail, user.Email)
	return nil
}

func (d *MemoryUserDirectory) List(_ context.Context) ([]domain.User, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	users := make([]domain.User, 0, len(d.byID))
	for _, user := range d.byID {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.Before(users[j].CreatedAt)
	})
	return users, nil
}
