package model

import (
	"google.golang.org/protobuf/types/known/structpb"
	"slices"
)

// DefaultRankName is held by every new player. It does not need a rank row.
const DefaultRankName = "Default"

type Rank struct {
	Name            string   `bson:"_id" json:"name"`
	Parent          *string  `bson:"parent,omitempty" json:"parent,omitempty"`
	DisplayTemplate *string  `bson:"displayTemplate,omitempty" json:"displayTemplate,omitempty"`
	Description     *string  `bson:"description,omitempty" json:"description,omitempty"`
	Color           *string  `bson:"color,omitempty" json:"color,omitempty"`
	Permissions     []string `bson:"permissions" json:"permissions"`
}

// Clone returns a deep copy so callers can't mutate indexed ranks.
func (r *Rank) Clone() *Rank {
	c := *r
	c.Parent = clonePointer(r.Parent)
	c.DisplayTemplate = clonePointer(r.DisplayTemplate)
	c.Description = clonePointer(r.Description)
	c.Color = clonePointer(r.Color)
	c.Permissions = slices.Clone(r.Permissions)
	return &c
}

func (r *Rank) HasPermission(permission string) bool {
	return slices.Contains(r.Permissions, permission)
}

// ToStruct converts the rank to the wire shape used by the gRPC API and the
// change notifications. Unset optional fields are omitted.
func (r *Rank) ToStruct() *structpb.Struct {
	fields := map[string]*structpb.Value{
		"name":        structpb.NewStringValue(r.Name),
		"permissions": StringList(r.Permissions),
	}
	if r.Parent != nil {
		fields["parent"] = structpb.NewStringValue(*r.Parent)
	}
	if r.DisplayTemplate != nil {
		fields["displayTemplate"] = structpb.NewStringValue(*r.DisplayTemplate)
	}
	if r.Description != nil {
		fields["description"] = structpb.NewStringValue(*r.Description)
	}
	if r.Color != nil {
		fields["color"] = structpb.NewStringValue(*r.Color)
	}

	return &structpb.Struct{Fields: fields}
}

// Player is the persisted form of a player's session profile.
type Player struct {
	Name        string   `bson:"_id" json:"name"`
	Ranks       []string `bson:"ranks" json:"ranks"`
	Permissions []string `bson:"permissions" json:"permissions"`
	ChatColor   string   `bson:"chatColor" json:"chatColor"`
	Tags        []string `bson:"tags" json:"tags"`
	DisplayTags []string `bson:"displayTags" json:"displayTags"`
}

func StringList(values []string) *structpb.Value {
	return structpb.NewListValue(&structpb.ListValue{Values: stringValues(values)})
}

func stringValues(values []string) []*structpb.Value {
	out := make([]*structpb.Value, len(values))
	for i, v := range values {
		out[i] = structpb.NewStringValue(v)
	}
	return out
}

func clonePointer(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
