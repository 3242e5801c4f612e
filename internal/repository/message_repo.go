package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type MessageRepo struct {
	coll *mongo.Collection
}

func NewMessageRepo(coll *mongo.Collection) *MessageRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "thread_id", Value: 1}, {Key: "created_at", Value: -1}},
		Options: options.Index().SetName("thread_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MessageRepo{coll: coll}
}

func (r *MessageRepo) Insert(ctx context.Context, m *models.Message) error {
	m.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

// List returns up to limit messages of one thread in chronological order,
// optionally only those created before the cursor.
func (r *MessageRepo) List(ctx context.Context, threadID string, limit int64, before time.Time) ([]*models.Message, error) {
	filter := bson.M{"thread_id": threadID}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Message{}
	for cur.Next(ctx) {
		var m models.Message
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out = append(out, &m)
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	// newest-first from Mongo, chronological for the client
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}
