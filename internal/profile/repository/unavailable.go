package repository

import (
	"context"

	"github.com/devconnect/profile-service/internal/profile"
	"github.com/devconnect/profile-service/pkg/apperror"
)

// Unavailable stands in when MongoDB was configured but could not be reached
// at startup. Every call fails with apperror.ErrUnavailable so routes fail
// individually while the process keeps serving.
type Unavailable struct {
	Cause error
}

func (u Unavailable) err() error {
	return apperror.NewUnavailable("profile store unavailable", u.Cause)
}

func (u Unavailable) List(context.Context) ([]*profile.Profile, error) { return nil, u.err() }

func (u Unavailable) GetByID(context.Context, string) (*profile.Profile, error) {
	return nil, u.err()
}

func (u Unavailable) FindOne(context.Context, profile.Filter) (*profile.Profile, error) {
	return nil, u.err()
}

func (u Unavailable) Create(context.Context, *profile.Profile) error { return u.err() }

func (u Unavailable) UpdateByOwner(context.Context, string, profile.Fields) (*profile.Profile, error) {
	return nil, u.err()
}

func (u Unavailable) PrependExperience(context.Context, string, profile.Experience) (*profile.Profile, error) {
	return nil, u.err()
}

func (u Unavailable) PrependEducation(context.Context, string, profile.Education) (*profile.Profile, error) {
	return nil, u.err()
}

func (u Unavailable) Delete(context.Context, string) error { return u.err() }
