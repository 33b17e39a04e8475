package profile

import (
	"encoding/json"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Owner references the user (by sub) that owns a profile. Stored as the bare
// id; once resolved against the users collection it serializes as
// {"_id","name","avatar"}, otherwise as the id string.
type Owner struct {
	ID       string
	Name     string
	Avatar   string
	resolved bool
}

func OwnerRef(id string) Owner { return Owner{ID: id} }

// Resolve attaches the owner's public fields.
func (o *Owner) Resolve(name, avatar string) {
	o.Name = name
	o.Avatar = avatar
	o.resolved = true
}

func (o Owner) Resolved() bool { return o.resolved }

type ownerJSON struct {
	ID     string `json:"_id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (o Owner) MarshalJSON() ([]byte, error) {
	if !o.resolved {
		return json.Marshal(o.ID)
	}
	return json.Marshal(ownerJSON{ID: o.ID, Name: o.Name, Avatar: o.Avatar})
}

func (o *Owner) UnmarshalJSON(b []byte) error {
	var id string
	if err := json.Unmarshal(b, &id); err == nil {
		*o = Owner{ID: id}
		return nil
	}
	var oj ownerJSON
	if err := json.Unmarshal(b, &oj); err != nil {
		return fmt.Errorf("profile owner: %w", err)
	}
	*o = Owner{ID: oj.ID}
	o.Resolve(oj.Name, oj.Avatar)
	return nil
}

func (o Owner) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(o.ID)
}

func (o *Owner) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	id, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("profile owner: unexpected bson type %s", t)
	}
	*o = Owner{ID: id}
	return nil
}
