package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"tripwise/models"
	"tripwise/store"
)

type PreferenceStore struct {
	coll *mongo.Collection
}

var _ store.PreferenceStore = (*PreferenceStore)(nil)

func NewPreferenceStore(db *Database) *PreferenceStore {
	return &PreferenceStore{coll: db.PreferencesCollection}
}

func (s *PreferenceStore) GetByUserID(ctx context.Context, userID string) (*models.Preference, error) {
	return findOne[models.Preference](ctx, s.coll, bson.M{"userid": userID})
}

func (s *PreferenceStore) Add(ctx context.Context, p *models.Preference) error {
	_, err := s.coll.InsertOne(ctx, p)
	return err
}

func (s *PreferenceStore) Update(ctx context.Context, p *models.Preference) error {
	return replaceOne(ctx, s.coll, bson.M{"preferenceid": p.PreferenceID}, p)
}
