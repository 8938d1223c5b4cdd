package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwise/models"
	"tripwise/store"
)

// ItineraryStore keeps itineraries and their items in two collections.
type ItineraryStore struct {
	coll  *mongo.Collection
	items *mongo.Collection
}

var _ store.ItineraryStore = (*ItineraryStore)(nil)

func NewItineraryStore(db *Database) *ItineraryStore {
	return &ItineraryStore{coll: db.ItinerariesCollection, items: db.ItemsCollection}
}

var itemOrder = options.Find().SetSort(bson.D{{Key: "day_number", Value: 1}, {Key: "order_in_day", Value: 1}})

func (s *ItineraryStore) GetByID(ctx context.Context, id string) (*models.Itinerary, error) {
	return findOne[models.Itinerary](ctx, s.coll, bson.M{"itineraryid": id})
}

func (s *ItineraryStore) GetWithItems(ctx context.Context, id string) (*models.Itinerary, error) {
	it, err := s.GetByID(ctx, id)
	if err != nil || it == nil {
		return it, err
	}
	items, err := findAll[models.ItineraryItem](ctx, s.items, bson.M{"itineraryid": id}, itemOrder)
	if err != nil {
		return nil, fmt.Errorf("load items: %w", err)
	}
	it.Items = items
	return it, nil
}

// Add inserts it together with any items it carries.
func (s *ItineraryStore) Add(ctx context.Context, it *models.Itinerary) error {
	if _, err := s.coll.InsertOne(ctx, it); err != nil {
		return err
	}
	if len(it.Items) == 0 {
		return nil
	}
	docs := make([]any, len(it.Items))
	for i := range it.Items {
		docs[i] = it.Items[i]
	}
	if _, err := s.items.InsertMany(ctx, docs); err != nil {
		// keep the pair consistent
		_, _ = s.coll.DeleteOne(ctx, bson.M{"itineraryid": it.ItineraryID})
		return fmt.Errorf("insert items: %w", err)
	}
	return nil
}

func (s *ItineraryStore) Update(ctx context.Context, it *models.Itinerary) error {
	return replaceOne(ctx, s.coll, bson.M{"itineraryid": it.ItineraryID}, it)
}

// Remove deletes the itinerary and its items.
func (s *ItineraryStore) Remove(ctx context.Context, id string) (bool, error) {
	res, err := s.coll.DeleteOne(ctx, bson.M{"itineraryid": id})
	if err != nil {
		return false, err
	}
	if _, err := s.items.DeleteMany(ctx, bson.M{"itineraryid": id}); err != nil {
		return res.DeletedCount > 0, fmt.Errorf("delete items: %w", err)
	}
	return res.DeletedCount > 0, nil
}

func (s *ItineraryStore) GetAll(ctx context.Context) ([]models.Itinerary, error) {
	return findAll[models.Itinerary](ctx, s.coll, bson.M{})
}

func (s *ItineraryStore) GetByUserID(ctx context.Context, userID string) ([]models.Itinerary, error) {
	return findAll[models.Itinerary](ctx, s.coll, bson.M{"userid": userID},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: -1}}))
}

// GetByDestination matches the primary destination ignoring case.
func (s *ItineraryStore) GetByDestination(ctx context.Context, destination string) ([]models.Itinerary, error) {
	opts := options.Find().SetCollation(&options.Collation{Locale: "en", Strength: 2})
	return findAll[models.Itinerary](ctx, s.coll, bson.M{"primary_destination": destination}, opts)
}

func (s *ItineraryStore) GetTemplates(ctx context.Context) ([]models.Itinerary, error) {
	return findAll[models.Itinerary](ctx, s.coll, bson.M{"is_template": true})
}

// GetAllVersions returns the itineraries derived from originalID, oldest first.
func (s *ItineraryStore) GetAllVersions(ctx context.Context, originalID string) ([]models.Itinerary, error) {
	return findAll[models.Itinerary](ctx, s.coll, bson.M{"original_itinerary_id": originalID},
		options.Find().SetSort(bson.D{{Key: "version", Value: 1}}))
}

func (s *ItineraryStore) AddItem(ctx context.Context, item *models.ItineraryItem) error {
	_, err := s.items.InsertOne(ctx, item)
	return err
}
