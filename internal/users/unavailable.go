package users

import (
	"context"

	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/pkg/apperror"
)

// UnavailableRepository is used when MongoDB was configured but unreachable.
type UnavailableRepository struct {
	Cause error
}

func (r UnavailableRepository) err() error {
	return apperror.NewUnavailable("user store unavailable", r.Cause)
}

func (r UnavailableRepository) UpsertBySub(context.Context, *models.User) (*models.User, error) {
	return nil, r.err()
}

func (r UnavailableRepository) GetBySub(context.Context, string) (*models.User, error) {
	return nil, r.err()
}

func (r UnavailableRepository) FindBySubs(context.Context, []string) (map[string]*models.User, error) {
	return nil, r.err()
}

func (r UnavailableRepository) SetAvatar(context.Context, string, string) error { return r.err() }
