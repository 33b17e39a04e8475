package users

import (
	"context"

	"github.com/devconnect/profile-service/internal/models"
)

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// UpsertFromClaims creates or updates a user from verified token claims.
// Returns nil when the claims carry no subject.
func (s *Service) UpsertFromClaims(ctx context.Context, claims map[string]interface{}) (*models.User, error) {
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, nil
	}
	email, _ := claims["email"].(string)
	name, _ := claims["name"].(string)
	if name == "" {
		name, _ = claims["preferred_username"].(string)
	}
	picture, _ := claims["picture"].(string)
	u := &models.User{
		Sub:    sub,
		Email:  email,
		Name:   name,
		Avatar: picture,
	}
	return s.repo.UpsertBySub(ctx, u)
}

func (s *Service) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return s.repo.GetBySub(ctx, sub)
}

// FindBySubs returns the users known for subs keyed by sub; unknown subs are absent.
func (s *Service) FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error) {
	return s.repo.FindBySubs(ctx, subs)
}

func (s *Service) SetAvatar(ctx context.Context, sub, avatar string) error {
	return s.repo.SetAvatar(ctx, sub, avatar)
}
