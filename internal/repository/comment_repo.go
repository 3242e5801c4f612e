package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type CommentRepo struct {
	coll *mongo.Collection
}

func NewCommentRepo(coll *mongo.Collection) *CommentRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "parent_id", Value: 1}, {Key: "created_at", Value: 1}},
		Options: options.Index().SetName("post_parent_created_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &CommentRepo{coll: coll}
}

func (r *CommentRepo) Insert(ctx context.Context, c *models.Comment) error {
	c.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, c)
	return err
}

func (r *CommentRepo) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	var c models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListTop returns a post's top-level comments, oldest first.
func (r *CommentRepo) ListTop(ctx context.Context, postID string, limit int64, before time.Time) ([]*models.Comment, error) {
	filter := bson.M{"post_id": postID, "parent_id": bson.M{"$in": bson.A{nil, ""}}}
	return r.list(ctx, filter, limit, before)
}

// ListReplies returns one comment's direct replies, oldest first. Deeper
// levels are fetched lazily by walking down.
func (r *CommentRepo) ListReplies(ctx context.Context, parentID string, limit int64, before time.Time) ([]*models.Comment, error) {
	return r.list(ctx, bson.M{"parent_id": parentID}, limit, before)
}

func (r *CommentRepo) list(ctx context.Context, filter bson.M, limit int64, before time.Time) ([]*models.Comment, error) {
	if !before.IsZero() {
		filter["created_at"] = bson.M{"$lt": before}
	}
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.Comment{}
	for cur.Next(ctx) {
		var c models.Comment
		if err := cur.Decode(&c); err != nil {
			return nil, err
		}
		out = append(out, &c)
	}
	return out, cur.Err()
}

func (r *CommentRepo) UpdateBody(ctx context.Context, id, body string) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{"body": body, "edited_at": now}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepo) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *CommentRepo) IncReplyCount(ctx context.Context, id string, delta int64) error {
	_, err := r.coll.UpdateByID(ctx, id, bson.M{"$inc": bson.M{"reply_count": delta}})
	return err
}
