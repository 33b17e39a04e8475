package repository

import (
	"context"
	"sync"
	"time"

	"github.com/devconnect/profile-service/internal/profile"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-process repository used by unit tests and when the
// service runs without MongoDB. Callers always receive copies.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	store map[primitive.ObjectID]*profile.Profile
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[primitive.ObjectID]*profile.Profile)}
}

func (m *MemoryRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*profile.Profile, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.store[id].Clone())
	}
	return out, nil
}

func (m *MemoryRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[oid]; ok {
		return p.Clone(), nil
	}
	return nil, nil
}

func (m *MemoryRepo) FindOne(ctx context.Context, f profile.Filter) (*profile.Profile, error) {
	if f.IsZero() {
		return nil, nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p := m.find(f); p != nil {
		return p.Clone(), nil
	}
	return nil, nil
}

// find returns the stored pointer; callers hold the lock.
func (m *MemoryRepo) find(f profile.Filter) *profile.Profile {
	for _, id := range m.order {
		p := m.store[id]
		if f.Owner != "" && p.User.ID != f.Owner {
			continue
		}
		if f.Handle != "" && p.Handle != f.Handle {
			continue
		}
		return p
	}
	return nil
}

func (m *MemoryRepo) Create(ctx context.Context, p *profile.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	m.store[p.ID] = p.Clone()
	m.order = append(m.order, p.ID)
	return nil
}

func (m *MemoryRepo) UpdateByOwner(ctx context.Context, owner string, f profile.Fields) (*profile.Profile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := m.find(profile.Filter{Owner: owner})
	if p == nil {
		return nil, nil
	}
	f.Apply(p)
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func (m *MemoryRepo) PrependExperience(ctx context.Context, id string, e profile.Experience) (*profile.Profile, error) {
	return m.mutate(id, func(p *profile.Profile) {
		p.Experience = append([]profile.Experience{e}, p.Experience...)
	})
}

func (m *MemoryRepo) PrependEducation(ctx context.Context, id string, e profile.Education) (*profile.Profile, error) {
	return m.mutate(id, func(p *profile.Profile) {
		p.Education = append([]profile.Education{e}, p.Education...)
	})
}

func (m *MemoryRepo) mutate(id string, fn func(p *profile.Profile)) (*profile.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.store[oid]
	if !ok {
		return nil, nil
	}
	fn(p)
	p.UpdatedAt = time.Now().UTC()
	return p.Clone(), nil
}

func (m *MemoryRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[oid]; !ok {
		return nil
	}
	delete(m.store, oid)
	for i, v := range m.order {
		if v == oid {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return nil
}
