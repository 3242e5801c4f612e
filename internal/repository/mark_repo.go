package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mark kinds. A mark is one user's like or save on one post.
const (
	MarkLike = "like"
	MarkSave = "save"
)

type mark struct {
	ID        string    `bson:"_id"`
	PostID    string    `bson:"post_id"`
	UserID    string    `bson:"user_id"`
	Kind      string    `bson:"kind"`
	CreatedAt time.Time `bson:"created_at"`
}

// MarkRepo stores like/save toggles keyed by (post, user, kind) so toggling
// is idempotent under double-submits.
type MarkRepo struct {
	coll *mongo.Collection
}

func NewMarkRepo(coll *mongo.Collection) *MarkRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "post_id", Value: 1}, {Key: "user_id", Value: 1}, {Key: "kind", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("post_user_kind_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &MarkRepo{coll: coll}
}

func markID(postID, userID, kind string) string {
	return postID + ":" + userID + ":" + kind
}

// Add sets the mark and reports whether it was newly created.
func (r *MarkRepo) Add(ctx context.Context, postID, userID, kind string) (bool, error) {
	m := mark{
		ID:        markID(postID, userID, kind),
		PostID:    postID,
		UserID:    userID,
		Kind:      kind,
		CreatedAt: time.Now().UTC(),
	}
	res, err := r.coll.UpdateByID(ctx, m.ID,
		bson.M{"$setOnInsert": m},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// Remove clears the mark and reports whether it existed.
func (r *MarkRepo) Remove(ctx context.Context, postID, userID, kind string) (bool, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": markID(postID, userID, kind)})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (r *MarkRepo) Exists(ctx context.Context, postID, userID, kind string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"_id": markID(postID, userID, kind)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ForPosts returns which of the given posts the user has marked with kind.
func (r *MarkRepo) ForPosts(ctx context.Context, postIDs []string, userID, kind string) (map[string]bool, error) {
	filter := bson.M{"post_id": bson.M{"$in": postIDs}, "user_id": userID, "kind": kind}
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := map[string]bool{}
	for cur.Next(ctx) {
		var m mark
		if err := cur.Decode(&m); err != nil {
			return nil, err
		}
		out[m.PostID] = true
	}
	return out, cur.Err()
}
