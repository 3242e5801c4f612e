package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type ThreadRepo struct {
	coll *mongo.Collection
}

func NewThreadRepo(coll *mongo.Collection) *ThreadRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "members", Value: 1}, {Key: "updated_at", Value: -1}},
		Options: options.Index().SetName("members_updated_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &ThreadRepo{coll: coll}
}

func (r *ThreadRepo) Insert(ctx context.Context, t *models.Thread) error {
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, t)
	return err
}

func (r *ThreadRepo) FindByID(ctx context.Context, id string) (*models.Thread, error) {
	var t models.Thread
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// FindDirect returns the existing 1:1 thread between two users, if any.
func (r *ThreadRepo) FindDirect(ctx context.Context, a, b string) (*models.Thread, error) {
	filter := bson.M{
		"kind":    models.ThreadDirect,
		"members": bson.M{"$all": bson.A{a, b}, "$size": 2},
	}
	var t models.Thread
	if err := r.coll.FindOne(ctx, filter).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// ListForUser returns the user's visible threads, most recently active first.
func (r *ThreadRepo) ListForUser(ctx context.Context, userID string) ([]*models.Thread, error) {
	filter := bson.M{
		"members": userID,
		"left_by": bson.M{"$ne": userID},
	}
	opts := options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}})
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Thread{}
	for cur.Next(ctx) {
		var t models.Thread
		if err := cur.Decode(&t); err != nil {
			return nil, err
		}
		out = append(out, &t)
	}
	return out, cur.Err()
}

// RecordMessage stores the last-message summary, bumps recency and increments
// every member's unread counter except the sender's.
func (r *ThreadRepo) RecordMessage(ctx context.Context, t *models.Thread, m *models.Message) error {
	inc := bson.M{}
	for _, member := range t.Members {
		if member != m.SenderID {
			inc["unread."+member] = 1
		}
	}
	update := bson.M{
		"$set": bson.M{
			"last_message": m,
			"updated_at":   time.Now().UTC(),
		},
	}
	if len(inc) > 0 {
		update["$inc"] = inc
	}
	_, err := r.coll.UpdateByID(ctx, t.ID, update)
	return err
}

// ResetUnread zeroes the caller's unread counter. Nothing else touches it.
func (r *ThreadRepo) ResetUnread(ctx context.Context, threadID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, threadID, bson.M{
		"$set": bson.M{"unread." + userID: 0},
	})
	return err
}

// MarkLeft hides the thread from one member without touching anyone else's
// view of it.
func (r *ThreadRepo) MarkLeft(ctx context.Context, threadID, userID string) error {
	_, err := r.coll.UpdateByID(ctx, threadID, bson.M{
		"$addToSet": bson.M{"left_by": userID},
	})
	return err
}
