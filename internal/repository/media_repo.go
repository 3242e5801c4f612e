package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/gcolon75/Project-Valine-sub011/internal/models"
)

type MediaRepo struct {
	coll *mongo.Collection
}

func NewMediaRepo(coll *mongo.Collection) *MediaRepo {
	return &MediaRepo{coll: coll}
}

func (r *MediaRepo) Insert(ctx context.Context, m *models.Media) error {
	m.CreatedAt = time.Now().UTC()
	_, err := r.coll.InsertOne(ctx, m)
	return err
}

func (r *MediaRepo) FindByID(ctx context.Context, id string) (*models.Media, error) {
	var m models.Media
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}
