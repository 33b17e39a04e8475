package users

import (
	"context"
	"errors"
	"time"

	"github.com/devconnect/profile-service/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository defines persistence operations for users
type UserRepository interface {
	UpsertBySub(ctx context.Context, u *models.User) (*models.User, error)
	GetBySub(ctx context.Context, sub string) (*models.User, error)
	FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error)
	SetAvatar(ctx context.Context, sub, avatar string) error
}

// MongoUserRepository implements UserRepository using MongoDB
type MongoUserRepository struct {
	col *mongo.Collection
}

// NewMongoUserRepository creates a new repository for the given collection
func NewMongoUserRepository(col *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{col: col}
}

// EnsureIndexes creates the unique index on sub.
func (r *MongoUserRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "sub", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

func (r *MongoUserRepository) UpsertBySub(ctx context.Context, u *models.User) (*models.User, error) {
	now := time.Now().UTC()
	onInsert := bson.M{"createdAt": now}
	// avatar from claims only seeds new accounts; uploads own it afterwards
	if u.Avatar != "" {
		onInsert["avatar"] = u.Avatar
	}
	update := bson.M{
		"$set": bson.M{
			"email":     u.Email,
			"name":      u.Name,
			"updatedAt": now,
		},
		"$setOnInsert": onInsert,
	}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var updated models.User
	if err := r.col.FindOneAndUpdate(ctx, bson.M{"sub": u.Sub}, update, opts).Decode(&updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

func (r *MongoUserRepository) GetBySub(ctx context.Context, sub string) (*models.User, error) {
	var u models.User
	if err := r.col.FindOne(ctx, bson.M{"sub": sub}).Decode(&u); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}

// FindBySubs loads every user whose sub is in subs with a single $in query.
func (r *MongoUserRepository) FindBySubs(ctx context.Context, subs []string) (map[string]*models.User, error) {
	out := make(map[string]*models.User, len(subs))
	if len(subs) == 0 {
		return out, nil
	}
	opts := options.Find().SetProjection(bson.M{"sub": 1, "name": 1, "avatar": 1})
	cur, err := r.col.Find(ctx, bson.M{"sub": bson.M{"$in": subs}}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	for cur.Next(ctx) {
		var u models.User
		if err := cur.Decode(&u); err != nil {
			return nil, err
		}
		out[u.Sub] = &u
	}
	return out, cur.Err()
}

func (r *MongoUserRepository) SetAvatar(ctx context.Context, sub, avatar string) error {
	res, err := r.col.UpdateOne(ctx, bson.M{"sub": sub}, bson.M{"$set": bson.M{"avatar": avatar, "updatedAt": time.Now().UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrUserNotFound
	}
	return nil
}
