package model

import "time"

type User struct {
	ID        string         `json:"_id,omitempty" bson:"_id,omitempty"`
	Email     string         `json:"email" bson:"email"`
	Role      string         `json:"role,omitempty" bson:"role,omitempty"`
	Name      string         `json:"name,omitempty" bson:"name,omitempty"`
	Profile   map[string]any `json:"profile,omitempty" bson:",inline"`
	UpdatedAt time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// UpsertResult mirrors the update acknowledgement returned by PUT /api/user/:email.
type UpsertResult struct {
	Acknowledged  bool   `json:"acknowledged"`
	MatchedCount  int64  `json:"matchedCount"`
	ModifiedCount int64  `json:"modifiedCount"`
	UpsertedCount int64  `json:"upsertedCount"`
	UpsertedID    string `json:"upsertedId,omitempty"`
}

type UserUpsertResponse struct {
	Result UpsertResult `json:"result"`
	Token  string       `json:"token"`
}

type AdminStatus struct {
	Admin bool `json:"admin"`
}
