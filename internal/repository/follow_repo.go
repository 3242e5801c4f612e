package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type FollowRepo struct {
	coll *mongo.Collection
}

func NewFollowRepo(coll *mongo.Collection) *FollowRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "follower_id", Value: 1}, {Key: "followee_id", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("edge_unique_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &FollowRepo{coll: coll}
}

func edgeID(followerID, followeeID string) string {
	return followerID + ":" + followeeID
}

// Add creates the edge; reports whether it was new.
func (r *FollowRepo) Add(ctx context.Context, followerID, followeeID string) (bool, error) {
	f := models.Follow{
		ID:         edgeID(followerID, followeeID),
		FollowerID: followerID,
		FolloweeID: followeeID,
		CreatedAt:  time.Now().UTC(),
	}
	res, err := r.coll.UpdateByID(ctx, f.ID,
		bson.M{"$setOnInsert": f},
		options.Update().SetUpsert(true))
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *FollowRepo) Remove(ctx context.Context, followerID, followeeID string) error {
	_, err := r.coll.DeleteOne(ctx, bson.M{"_id": edgeID(followerID, followeeID)})
	return err
}

func (r *FollowRepo) Exists(ctx context.Context, followerID, followeeID string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{"_id": edgeID(followerID, followeeID)}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *FollowRepo) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx, bson.M{"followee_id": userID}, "follower_id")
}

func (r *FollowRepo) ListFollowing(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx, bson.M{"follower_id": userID}, "followee_id")
}

func (r *FollowRepo) listIDs(ctx context.Context, filter bson.M, field string) ([]string, error) {
	cur, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []string{}
	for cur.Next(ctx) {
		var f models.Follow
		if err := cur.Decode(&f); err != nil {
			return nil, err
		}
		if field == "follower_id" {
			out = append(out, f.FollowerID)
		} else {
			out = append(out, f.FolloweeID)
		}
	}
	return out, cur.Err()
}
