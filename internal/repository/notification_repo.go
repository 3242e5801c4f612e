package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type NotificationRepo struct {
	coll *mongo.Collection
}

func NewNotificationRepo(coll *mongo.Collection) *NotificationRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "recipient_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("recipient_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &NotificationRepo{coll: coll}
}

func (r *NotificationRepo) Insert(ctx context.Context, n *models.Notification) error {
	n.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, n)
	return err
}

func (r *NotificationRepo) List(ctx context.Context, recipientID string, limit int64, before time.Time) ([]*models.Notification, error) {
	filter := bson.M{"recipient_id": recipientID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Notification{}
	for cur.Next(ctx) {
		var n models.Notification
		if err := cur.Decode(&n); err != nil {
			return nil, err
		}
		out = append(out, &n)
	}
	return out, cur.Err()
}

func (r *NotificationRepo) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"recipient_id": recipientID, "read": false})
}

// MarkRead marks the given notifications read; with no ids, all of them.
func (r *NotificationRepo) MarkRead(ctx context.Context, recipientID string, ids []string) error {
	filter := bson.M{"recipient_id": recipientID, "read": false}
	if len(ids) > 0 {
		filter["_id"] = bson.M{"$in": ids}
	}
	_, err := r.coll.UpdateMany(ctx, filter, bson.M{"$set": bson.M{"read": true}})
	return err
}
