package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/devconnect/profile-service/internal/profile"
	"github.com/devconnect/profile-service/pkg/apperror"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestSetDocOnlyIncludesPresentFields(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	set := setDoc(profile.Fields{Status: strPtr("dev"), Bio: strPtr("")}, now)
	require.Equal(t, bson.M{"updatedAt": now, "status": "dev", "bio": ""}, set)

	set = setDoc(profile.Fields{SkillsSet: true}, now)
	require.Equal(t, []string{}, set["skills"])
}

func TestPrependDocUsesPositionZero(t *testing.T) {
	now := time.Now()
	doc := prependDoc("experience", "entry", now)
	push := doc["$push"].(bson.M)["experience"].(bson.M)
	require.Equal(t, 0, push["$position"])
	require.Equal(t, bson.A{"entry"}, push["$each"])
}

func TestFilterDoc(t *testing.T) {
	require.Equal(t, bson.M{"user": "U1"}, filterDoc(profile.Filter{Owner: "U1"}))
	require.Equal(t, bson.M{"handle": "alice"}, filterDoc(profile.Filter{Handle: "alice"}))
}

func TestUnavailableRepo(t *testing.T) {
	r := Unavailable{Cause: errors.New("dial tcp: refused")}
	_, err := r.List(context.Background())
	require.ErrorIs(t, err, apperror.ErrUnavailable)
	require.ErrorIs(t, r.Delete(context.Background(), "x"), apperror.ErrUnavailable)
}

// Runs against a live server when MONGODB_TEST_URI is set.
func TestMongoRepoIntegration(t *testing.T) {
	uri := os.Getenv("MONGODB_TEST_URI")
	if uri == "" {
		t.Skip("MONGODB_TEST_URI not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	require.NoError(t, err)
	defer client.Disconnect(context.Background())

	col := client.Database("profiles_test").Collection("profiles_" + primitive.NewObjectID().Hex())
	defer col.Drop(context.Background())

	r := NewMongoRepo(col)
	require.NoError(t, r.EnsureIndexes(ctx))

	p := profile.New("U1", profile.Fields{Handle: strPtr("alice"), Status: strPtr("dev")})
	require.NoError(t, r.Create(ctx, p))

	got, err := r.FindOne(ctx, profile.Filter{Handle: "alice"})
	require.NoError(t, err)
	require.Equal(t, "U1", got.User.ID)

	updated, err := r.UpdateByOwner(ctx, "U1", profile.Fields{Status: strPtr("lead")})
	require.NoError(t, err)
	require.Equal(t, "lead", updated.Status)

	from := time.Date(2019, 1, 1, 0, 0, 0, 0, time.UTC)
	_, err = r.PrependExperience(ctx, p.ID.Hex(), profile.Experience{Title: "first", Company: "A", From: from})
	require.NoError(t, err)
	withExp, err := r.PrependExperience(ctx, p.ID.Hex(), profile.Experience{Title: "second", Company: "B", From: from})
	require.NoError(t, err)
	require.Equal(t, "second", withExp.Experience[0].Title)

	require.NoError(t, r.Delete(ctx, p.ID.Hex()))
	gone, err := r.GetByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	require.Nil(t, gone)
}
