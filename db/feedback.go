package db

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwise/models"
	"tripwise/store"
)

type FeedbackStore struct {
	coll *mongo.Collection
}

var _ store.FeedbackStore = (*FeedbackStore)(nil)

func NewFeedbackStore(db *Database) *FeedbackStore {
	return &FeedbackStore{coll: db.FeedbackCollection}
}

var newestFirst = options.Find().SetSort(bson.D{{Key: "submitted_at", Value: -1}})

func (s *FeedbackStore) Add(ctx context.Context, f *models.Feedback) error {
	_, err := s.coll.InsertOne(ctx, f)
	return err
}

func (s *FeedbackStore) GetByItinerary(ctx context.Context, itineraryID string) ([]models.Feedback, error) {
	return findAll[models.Feedback](ctx, s.coll, bson.M{"itineraryid": itineraryID}, newestFirst)
}

func (s *FeedbackStore) GetByDestination(ctx context.Context, destinationID string) ([]models.Feedback, error) {
	return findAll[models.Feedback](ctx, s.coll, bson.M{"destinationid": destinationID}, newestFirst)
}

func (s *FeedbackStore) GetByUser(ctx context.Context, userID string) ([]models.Feedback, error) {
	return findAll[models.Feedback](ctx, s.coll, bson.M{"userid": userID}, newestFirst)
}
