package model

import "time"

const CollectionName = "families"

// Family is owned by the surrounding CRUD application; this subsystem
// only ever reads the membership list.
type Family struct {
	FamilyID  string    `bson:"family_id" json:"familyId"`
	Name      string    `bson:"name" json:"name"`
	OwnerID   string    `bson:"owner_id" json:"ownerId"`
	MemberIDs []string  `bson:"member_ids" json:"memberIds"`
	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
}
