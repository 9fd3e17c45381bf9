package store

import (
	"context"

	"FamilyHub/module/notification/model"
	"FamilyHub/tools/errs"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the notification persistence collaborator. The service layer
// only sees this interface; tests run on the in-memory fake.
type Store interface {
	Insert(ctx context.Context, n *model.Notification) error
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByUser(ctx context.Context, userID string, limit, offset int64) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID string) (int64, error)
	MarkRead(ctx context.Context, id string) error
	MarkAllRead(ctx context.Context, userID string) (int64, error)
	Delete(ctx context.Context, id string) error
}

type mongoStore struct {
	coll *mongo.Collection
}

func NewMongoStore(db *mongo.Database) Store {
	return &mongoStore{coll: db.Collection(model.CollectionName)}
}

func (s *mongoStore) Insert(ctx context.Context, n *model.Notification) error {
	if _, err := s.coll.InsertOne(ctx, n); err != nil {
		return errors.Wrap(err, "insert notification")
	}
	return nil
}

func (s *mongoStore) FindByID(ctx context.Context, id string) (*model.Notification, error) {
	var n model.Notification
	err := s.coll.FindOne(ctx, bson.M{"notification_id": id}).Decode(&n)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, errs.ErrRecordNotFound.WrapMsg("notification", "id", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "find notification")
	}
	return &n, nil
}

func (s *mongoStore) FindByUser(ctx context.Context, userID string, limit, offset int64) ([]*model.Notification, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)
	cur, err := s.coll.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, errors.Wrap(err, "find notifications")
	}
	defer cur.Close(ctx)

	out := make([]*model.Notification, 0, limit)
	if err := cur.All(ctx, &out); err != nil {
		return nil, errors.Wrap(err, "decode notifications")
	}
	return out, nil
}

func (s *mongoStore) CountUnread(ctx context.Context, userID string) (int64, error) {
	n, err := s.coll.CountDocuments(ctx, bson.M{"user_id": userID, "is_read": false})
	if err != nil {
		return 0, errors.Wrap(err, "count unread")
	}
	return n, nil
}

func (s *mongoStore) MarkRead(ctx context.Context, id string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"notification_id": id},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return errors.Wrap(err, "mark read")
	}
	if res.MatchedCount == 0 {
		return errs.ErrRecordNotFound.WrapMsg("notification", "id", id)
	}
	return nil
}

func (s *mongoStore) MarkAllRead(ctx context.Context, userID string) (int64, error) {
	res, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "is_read": false},
		bson.M{"$set": bson.M{"is_read": true}},
	)
	if err != nil {
		return 0, errors.Wrap(err, "mark all read")
	}
	return res.ModifiedCount, nil
}

func (s *mongoStore) Delete(ctx context.Context, id string) error {
	res, err := s.coll.DeleteOne(ctx, bson.M{"notification_id": id})
	if err != nil {
		return errors.Wrap(err, "delete notification")
	}
	if res.DeletedCount == 0 {
		return errs.ErrRecordNotFound.WrapMsg("notification", "id", id)
	}
	return nil
}
