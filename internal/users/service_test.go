package users

import (
	"context"
	"testing"
	"time"

	"github.com/devconnect/profile-service/internal/models"
	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	lastUpsert *models.User
	upsertErr  error
}

func (f *fakeRepo) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	f.lastUpsert = u
	ret := *u
	ret.ID = "abcd1234"
	ret.CreatedAt = time.Now().UTC()
	ret.UpdatedAt = ret.CreatedAt
	return &ret, f.upsertErr
}

func (f *fakeRepo) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	return nil, nil
}

func (f *fakeRepo) FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error) {
	return map[string]*models.User{}, nil
}

func (f *fakeRepo) SetAvatar(ctx context.Context, sub, avatar string) error { return nil }

func TestUpsertFromClaims(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	claims := map[string]interface{}{
		"sub":     "sub-123",
		"email":   "x@example.com",
		"name":    "X User",
		"picture": "https://img.example.com/x.png",
	}

	u, err := svc.UpsertFromClaims(ctx, claims)
	require.NoError(t, err)
	require.NotNil(t, u)
	require.Equal(t, "sub-123", u.Sub)
	require.Equal(t, "x@example.com", u.Email)
	require.Equal(t, "X User", u.Name)
	require.Equal(t, "https://img.example.com/x.png", repo.lastUpsert.Avatar)
	require.NotEmpty(t, u.ID, "expected returned user to have an ID set by repo")

	// missing sub => nil without touching the repository
	repo.lastUpsert = nil
	u2, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"email": "y@e.com"})
	require.NoError(t, err)
	require.Nil(t, u2)
	require.Nil(t, repo.lastUpsert)
}

func TestUpsertFromClaims_PreferredUsernameFallback(t *testing.T) {
	repo := &fakeRepo{}
	svc := NewService(repo)
	u, err := svc.UpsertFromClaims(context.Background(), map[string]interface{}{"sub": "s", "preferred_username": "alice"})
	require.NoError(t, err)
	require.Equal(t, "alice", u.Name)
}

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	svc := NewService(NewMemoryUserRepository())

	first, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "U1", "name": "Alice", "picture": "a.png"})
	require.NoError(t, err)
	require.Equal(t, "a.png", first.Avatar)

	// avatar from later claims does not overwrite the stored one
	second, err := svc.UpsertFromClaims(ctx, map[string]interface{}{"sub": "U1", "name": "Alice B", "picture": "b.png"})
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, "Alice B", second.Name)
	require.Equal(t, "a.png", second.Avatar)

	require.NoError(t, svc.SetAvatar(ctx, "U1", "/users/U1/avatar"))
	got, err := svc.GetBySub(ctx, "U1")
	require.NoError(t, err)
	require.Equal(t, "/users/U1/avatar", got.Avatar)

	require.ErrorIs(t, svc.SetAvatar(ctx, "nobody", "x"), ErrUserNotFound)

	found, err := svc.FindBySubs(ctx, []string{"U1", "U2"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	require.Equal(t, "Alice B", found["U1"].Name)

	missing, err := svc.GetBySub(ctx, "U2")
	require.NoError(t, err)
	require.Nil(t, missing)
}

func TestUnavailableRepository(t *testing.T) {
	svc := NewService(UnavailableRepository{})
	_, err := svc.UpsertFromClaims(context.Background(), map[string]interface{}{"sub": "U1"})
	require.ErrorIs(t, err, apperror.ErrUnavailable)
	_, err = svc.FindBySubs(context.Background(), []string{"U1"})
	require.ErrorIs(t, err, apperror.ErrUnavailable)
}
