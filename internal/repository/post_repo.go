package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type PostRepo struct {
	coll *mongo.Collection
}

func NewPostRepo(coll *mongo.Collection) *PostRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "created_at", Value: -1}},
		Options: options.Index().SetName("created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &PostRepo{coll: coll}
}

func (r *PostRepo) Insert(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	_, err := r.coll.InsertOne(ctx, p)
	return err
}

func (r *PostRepo) FindByID(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List pages the feed newest-first with a created_at cursor. Private posts of
// other authors are excluded at the query level; finer gating happens in the
// service.
func (r *PostRepo) List(ctx context.Context, viewerID string, limit int64, before time.Time) ([]*models.Post, error) {
	filter := bson.M{
		"$or": bson.A{
			bson.M{"visibility": bson.M{"$ne": models.VisibilityPrivate}},
			bson.M{"author_id": viewerID},
		},
	}
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}}).SetLimit(limit)
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Post{}
	for cur.Next(ctx) {
		var p models.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

// FindByMediaID returns the post a media object is attached to, if any.
func (r *PostRepo) FindByMediaID(ctx context.Context, mediaID string) (*models.Post, error) {
	var p models.Post
	if err := r.coll.FindOne(ctx, bson.M{"media_id": mediaID}).Decode(&p); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// IncCounter atomically adjusts like_count, save_count or comment_count.
func (r *PostRepo) IncCounter(ctx context.Context, postID, field string, delta int64) error {
	_, err := r.coll.UpdateByID(ctx, postID, bson.M{"$inc": bson.M{field: delta}})
	return err
}

func (r *PostRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
