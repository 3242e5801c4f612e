package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type AccessRepo struct {
	coll *mongo.Collection
}

func NewAccessRepo(coll *mongo.Collection) *AccessRepo {
	ix := mongo.IndexModel{
		Keys:    bson.D{{Key: "media_id", Value: 1}, {Key: "requester_id", Value: 1}},
		Options: options.Index().SetName("media_requester_idx"),
	}
	_, _ = coll.Indexes().CreateOne(context.Background(), ix)
	return &AccessRepo{coll: coll}
}

func (r *AccessRepo) Insert(ctx context.Context, a *models.AccessRequest) error {
	a.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, a)
	return err
}

func (r *AccessRepo) FindByID(ctx context.Context, id string) (*models.AccessRequest, error) {
	var a models.AccessRequest
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&a); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Find returns the latest request by one requester for one media, any status.
func (r *AccessRepo) Find(ctx context.Context, mediaID, requesterID string) (*models.AccessRequest, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})
	var a models.AccessRequest
	err := r.coll.FindOne(ctx, bson.M{"media_id": mediaID, "requester_id": requesterID}, opts).Decode(&a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &a, nil
}

// HasApproved reports whether the requester holds an approved grant.
func (r *AccessRepo) HasApproved(ctx context.Context, mediaID, requesterID string) (bool, error) {
	err := r.coll.FindOne(ctx, bson.M{
		"media_id":     mediaID,
		"requester_id": requesterID,
		"status":       models.AccessApproved,
	}).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *AccessRepo) SetStatus(ctx context.Context, id, status string) error {
	now := time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":     status,
		"decided_at": now,
	}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// ListForOwner returns pending requests awaiting the owner's decision.
func (r *AccessRepo) ListForOwner(ctx context.Context, ownerID string) ([]*models.AccessRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := r.coll.Find(ctx, bson.M{"owner_id": ownerID, "status": models.AccessPending}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*models.AccessRequest{}
	for cur.Next(ctx) {
		var a models.AccessRequest
		if err := cur.Decode(&a); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, cur.Err()
}
