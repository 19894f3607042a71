package store

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/findash/internal/user"
)

type Memory struct {
	mu      sync.RWMutex
	byID    map[string]*user.User
	byEmail map[string]string
}

func NewMemory() *Memory {
	return &Memory{
		byID:    map[string]*user.User{},
		byEmail: map[string]string{},
	}
}

func (m *Memory) CreateUser(_ context.Context, u *user.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := strings.ToLower(u.Email)
	if _, taken := m.byEmail[key]; taken {
		return user.ErrEmailTaken
	}

	u.ID = uuid.NewString()
	u.CreatedAt = time.Now().UTC()

	cp := *u
	m.byID[u.ID] = &cp
	m.byEmail[key] = u.ID

	return nil
}

func (m *Memory) GetUser(_ context.Context, id string) (*user.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.byID[id]
	if !ok {
		return nil, user.ErrNotFound
	}

	cp := *u

	return &cp, nil
}

func (m *Memory) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	m.mu.RLock()
	id, ok := m.byEmail[strings.ToLower(email)]
	m.mu.RUnlock()

	if !ok {
		return nil, user.ErrNotFound
	}

	return m.GetUser(ctx, id)
}
