package repository

import (
	"context"
	"errors"
	"time"

	"github.com/devconnect/profile-service/internal/profile"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on a MongoDB collection. Documents use
// ObjectID _ids and store the owner as its bare sub under "user".
type MongoRepo struct {
	col *mongo.Collection
}

func NewMongoRepo(col *mongo.Collection) *MongoRepo {
	return &MongoRepo{col: col}
}

// EnsureIndexes creates lookup indexes on user and handle. Neither is unique:
// one-profile-per-user and handle uniqueness are only checked by the service.
func (m *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := m.col.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "user", Value: 1}}},
		{Keys: bson.D{{Key: "handle", Value: 1}}, Options: options.Index().SetSparse(true)},
	})
	return err
}

func (m *MongoRepo) List(ctx context.Context) ([]*profile.Profile, error) {
	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*profile.Profile{}
	for cur.Next(ctx) {
		var p profile.Profile
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) GetByID(ctx context.Context, id string) (*profile.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return m.findOne(ctx, bson.M{"_id": oid})
}

func (m *MongoRepo) FindOne(ctx context.Context, f profile.Filter) (*profile.Profile, error) {
	if f.IsZero() {
		return nil, nil
	}
	return m.findOne(ctx, filterDoc(f))
}

func (m *MongoRepo) findOne(ctx context.Context, filter bson.M) (*profile.Profile, error) {
	var p profile.Profile
	if err := m.col.FindOne(ctx, filter).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Create(ctx context.Context, p *profile.Profile) error {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := m.col.InsertOne(ctx, p)
	return err
}

func (m *MongoRepo) UpdateByOwner(ctx context.Context, owner string, f profile.Fields) (*profile.Profile, error) {
	update := bson.M{"$set": setDoc(f, time.Now().UTC())}
	return m.findOneAndUpdate(ctx, bson.M{"user": owner}, update)
}

func (m *MongoRepo) PrependExperience(ctx context.Context, id string, e profile.Experience) (*profile.Profile, error) {
	return m.prepend(ctx, id, "experience", e)
}

func (m *MongoRepo) PrependEducation(ctx context.Context, id string, e profile.Education) (*profile.Profile, error) {
	return m.prepend(ctx, id, "education", e)
}

func (m *MongoRepo) prepend(ctx context.Context, id, field string, entry interface{}) (*profile.Profile, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, nil
	}
	return m.findOneAndUpdate(ctx, bson.M{"_id": oid}, prependDoc(field, entry, time.Now().UTC()))
}

func (m *MongoRepo) findOneAndUpdate(ctx context.Context, filter, update bson.M) (*profile.Profile, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var p profile.Profile
	if err := m.col.FindOneAndUpdate(ctx, filter, update, opts).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	_, err = m.col.DeleteOne(ctx, bson.M{"_id": oid})
	return err
}

func filterDoc(f profile.Filter) bson.M {
	filter := bson.M{}
	if f.Owner != "" {
		filter["user"] = f.Owner
	}
	if f.Handle != "" {
		filter["handle"] = f.Handle
	}
	return filter
}

// setDoc builds the $set document for the fields present in f.
func setDoc(f profile.Fields, now time.Time) bson.M {
	set := bson.M{"updatedAt": now}
	add := func(key string, v *string) {
		if v != nil {
			set[key] = *v
		}
	}
	add("handle", f.Handle)
	add("company", f.Company)
	add("website", f.Website)
	add("location", f.Location)
	add("bio", f.Bio)
	add("status", f.Status)
	add("githubusername", f.GitHubUsername)
	if f.SkillsSet {
		skills := f.Skills
		if skills == nil {
			skills = []string{}
		}
		set["skills"] = skills
	}
	return set
}

// prependDoc pushes entry to the front of the array at field.
func prependDoc(field string, entry interface{}, now time.Time) bson.M {
	return bson.M{
		"$push": bson.M{field: bson.M{"$each": bson.A{entry}, "$position": 0}},
		"$set":  bson.M{"updatedAt": now},
	}
}
