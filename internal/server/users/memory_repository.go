package users

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrijs2005/authdialog/internal/common"
)

// MemoryRepository keeps users in process memory. Stored values are copied
// on the way in and out so callers never share state with the store.
type MemoryRepository struct {
	mu    sync.RWMutex
	users map[string]*User
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]*User)}
}

func (r *MemoryRepository) Create(ctx context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if strings.EqualFold(u.UserName, user.UserName) {
			return nil, common.ErrorAlreadyExists
		}
	}

	stored := user.clone()
	stored.ID = uuid.NewString()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now()
	}
	r.users[stored.ID] = stored

	return stored.clone(), nil
}

func (r *MemoryRepository) GetUserByLogin(ctx context.Context, login string) (*User, error) {
	return r.find(func(u *User) bool { return strings.EqualFold(u.UserName, login) })
}

func (r *MemoryRepository) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	if email == "" {
		return nil, common.ErrorNotFound
	}
	return r.find(func(u *User) bool { return strings.EqualFold(u.Email, email) })
}

func (r *MemoryRepository) GetUserByID(ctx context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return u.clone(), nil
}

func (r *MemoryRepository) Update(ctx context.Context, user *User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[user.ID]; !ok {
		return common.ErrorNotFound
	}
	r.users[user.ID] = user.clone()
	return nil
}

func (r *MemoryRepository) find(match func(*User) bool) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, u := range r.users {
		if match(u) {
			return u.clone(), nil
		}
	}
	return nil, common.ErrorNotFound
}
