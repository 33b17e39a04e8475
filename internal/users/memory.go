package users

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devconnect/profile-service/internal/models"
)

// MemoryUserRepository keeps users in process; used by tests and when the
// service runs without MongoDB.
type MemoryUserRepository struct {
	mu    sync.RWMutex
	seq   int
	store map[string]*models.User
}

func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{store: make(map[string]*models.User)}
}

func (m *MemoryUserRepository) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := time.Now().UTC()
	cur, ok := m.store[u.Sub]
	if !ok {
		m.seq++
		cur = &models.User{ID: fmt.Sprintf("user_%d", m.seq), Sub: u.Sub, Avatar: u.Avatar, CreatedAt: now}
		m.store[u.Sub] = cur
	}
	cur.Email = u.Email
	cur.Name = u.Name
	cur.UpdatedAt = now
	out := *cur
	return &out, nil
}

func (m *MemoryUserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.store[sub]
	if !ok {
		return nil, nil
	}
	out := *u
	return &out, nil
}

func (m *MemoryUserRepository) FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]*models.User, len(subs))
	for _, sub := range subs {
		if u, ok := m.store[sub]; ok {
			cp := *u
			out[sub] = &cp
		}
	}
	return out, nil
}

func (m *MemoryUserRepository) SetAvatar(ctx context.Context, sub, avatar string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.store[sub]
	if !ok {
		return ErrUserNotFound
	}
	u.Avatar = avatar
	u.UpdatedAt = time.Now().UTC()
	return nil
}
