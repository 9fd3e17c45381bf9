package store

import (
	"context"

	"FamilyHub/module/family/model"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MembershipStore answers the one question the domain channels ask
// before a room join. Checked at join time only; membership changes
// mid-session are not reconciled until the next connect.
type MembershipStore interface {
	IsMember(ctx context.Context, userID, familyID string) (bool, error)
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) MembershipStore {
	return &mongoStore{coll: db.Collection(model.CollectionName)}
}

func (s *mongoStore) IsMember(ctx context.Context, userID, familyID string) (bool, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{
		"family_id":  familyID,
		"member_ids": userID,
	})
	if err != nil {
		return false, errors.Wrap(err, "membership lookup")
	}
	return n > 0, nil
}
