package service

import (
	"context"
	"errors"

	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/internal/profile"
	"github.com/devconnect/profile-service/internal/profile/repository"
	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/devconnect/profile-service/pkg/logger"
	"github.com/devconnect/profile-service/pkg/metrics"
)

// Service defines the profile operations used by the handler layer.
type Service interface {
	List(ctx context.Context) ([]*profile.Profile, error)
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	GetByOwner(ctx context.Context, owner string) (*profile.Profile, error)
	GetByHandle(ctx context.Context, handle string) (*profile.Profile, error)
	Upsert(ctx context.Context, owner string, f profile.Fields) (*profile.Profile, error)
	AddExperience(ctx context.Context, owner string, e profile.Experience) (*profile.Profile, error)
	AddEducation(ctx context.Context, owner string, e profile.Education) (*profile.Profile, error)
	Delete(ctx context.Context, id string) error
}

// OwnerResolver looks up the public user fields used to populate profile owners.
type OwnerResolver interface {
	FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error)
}

type profileService struct {
	repo   repository.Repository
	owners OwnerResolver
}

// New returns a Service on repo. owners may be nil, in which case owners are
// always returned as bare ids.
func New(repo repository.Repository, owners OwnerResolver) Service {
	return &profileService{repo: repo, owners: owners}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService(owners OwnerResolver) Service {
	return New(repository.NewMemoryRepo(), owners)
}

func (s *profileService) List(ctx context.Context) ([]*profile.Profile, error) {
	list, err := s.repo.List(ctx)
	if err != nil {
		return nil, s.fail("list", err)
	}
	s.resolveOwners(ctx, list...)
	record("list", "ok")
	return list, nil
}

func (s *profileService) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, s.fail("get", err)
	}
	record("get", found(p))
	return p, nil
}

func (s *profileService) GetByOwner(ctx context.Context, owner string) (*profile.Profile, error) {
	p, err := s.repo.FindOne(ctx, profile.Filter{Owner: owner})
	if err != nil {
		return nil, s.fail("get_by_owner", err)
	}
	record("get_by_owner", found(p))
	return p, nil
}

func (s *profileService) GetByHandle(ctx context.Context, handle string) (*profile.Profile, error) {
	p, err := s.repo.FindOne(ctx, profile.Filter{Handle: handle})
	if err != nil {
		return nil, s.fail("get_by_handle", err)
	}
	record("get_by_handle", found(p))
	return p, nil
}

// Upsert updates the owner's profile when one exists, otherwise creates it.
// The handle is only checked for collisions on create. The lookup and the
// write are separate calls, so two concurrent first upserts by one owner can
// both create.
func (s *profileService) Upsert(ctx context.Context, owner string, f profile.Fields) (*profile.Profile, error) {
	existing, err := s.repo.FindOne(ctx, profile.Filter{Owner: owner})
	if err != nil {
		return nil, s.fail("upsert", err)
	}
	if existing != nil {
		p, err := s.repo.UpdateByOwner(ctx, owner, f)
		if err != nil {
			return nil, s.fail("upsert", err)
		}
		if p == nil {
			// removed between the lookup and the update
			record("upsert", "not_found")
			return nil, apperror.NewNotFound("noprofile", "there is no profile for this user")
		}
		s.resolveOwners(ctx, p)
		record("upsert", "updated")
		return p, nil
	}

	if f.Handle != nil {
		taken, err := s.repo.FindOne(ctx, profile.Filter{Handle: *f.Handle})
		if err != nil {
			return nil, s.fail("upsert", err)
		}
		if taken != nil {
			record("upsert", "conflict")
			return nil, apperror.NewConflict("handle", "that handle already exists")
		}
	}

	p := profile.New(owner, f)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, s.fail("upsert", err)
	}
	s.resolveOwners(ctx, p)
	record("upsert", "created")
	return p, nil
}

func (s *profileService) AddExperience(ctx context.Context, owner string, e profile.Experience) (*profile.Profile, error) {
	return s.prepend(ctx, "add_experience", owner, func(id string) (*profile.Profile, error) {
		return s.repo.PrependExperience(ctx, id, e)
	})
}

func (s *profileService) AddEducation(ctx context.Context, owner string, e profile.Education) (*profile.Profile, error) {
	return s.prepend(ctx, "add_education", owner, func(id string) (*profile.Profile, error) {
		return s.repo.PrependEducation(ctx, id, e)
	})
}

func (s *profileService) prepend(ctx context.Context, op, owner string, push func(id string) (*profile.Profile, error)) (*profile.Profile, error) {
	p, err := s.repo.FindOne(ctx, profile.Filter{Owner: owner})
	if err != nil {
		return nil, s.fail(op, err)
	}
	if p != nil {
		p, err = push(p.ID.Hex())
		if err != nil {
			return nil, s.fail(op, err)
		}
	}
	if p == nil {
		record(op, "not_found")
		return nil, apperror.NewNotFound("noprofile", "there is no profile for this user")
	}
	record(op, "ok")
	return p, nil
}

// Delete removes the profile with id. Deleting an unknown id succeeds.
func (s *profileService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return s.fail("delete", err)
	}
	record("delete", "ok")
	return nil
}

// resolveOwners attaches name and avatar from the users collection. Lookup
// failures leave owners as bare ids.
func (s *profileService) resolveOwners(ctx context.Context, list ...*profile.Profile) {
	if s.owners == nil || len(list) == 0 {
		return
	}
	seen := make(map[string]bool, len(list))
	subs := make([]string, 0, len(list))
	for _, p := range list {
		if !seen[p.User.ID] {
			seen[p.User.ID] = true
			subs = append(subs, p.User.ID)
		}
	}
	users, err := s.owners.FindBySubs(ctx, subs)
	if err != nil {
		logger.Warnf("profile owner lookup failed: %v", err)
		return
	}
	for _, p := range list {
		if u, ok := users[p.User.ID]; ok {
			p.User.Resolve(u.Name, u.Avatar)
		}
	}
}

// fail counts the failure and wraps infrastructure errors; errors that
// already carry a kind pass through.
func (s *profileService) fail(op string, err error) error {
	record(op, "error")
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return err
	}
	return apperror.NewInternal(op+" failed", err)
}

func found(p *profile.Profile) string {
	if p == nil {
		return "not_found"
	}
	return "ok"
}

func record(op, result string) {
	metrics.ProfileOperations.WithLabelValues(op, result).Inc()
}
