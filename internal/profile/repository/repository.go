package repository

import (
	"context"

	"github.com/devconnect/profile-service/internal/profile"
)

// Repository is the persistence accessor for the profiles collection.
// Lookups return (nil, nil) when nothing matches; only infrastructure
// failures are reported as errors.
type Repository interface {
	List(ctx context.Context) ([]*profile.Profile, error)
	GetByID(ctx context.Context, id string) (*profile.Profile, error)
	FindOne(ctx context.Context, f profile.Filter) (*profile.Profile, error)
	Create(ctx context.Context, p *profile.Profile) error
	UpdateByOwner(ctx context.Context, owner string, f profile.Fields) (*profile.Profile, error)
	PrependExperience(ctx context.Context, id string, e profile.Experience) (*profile.Profile, error)
	PrependEducation(ctx context.Context, id string, e profile.Education) (*profile.Profile, error)
	// Delete succeeds whether or not a document matched.
	Delete(ctx context.Context, id string) error
}
