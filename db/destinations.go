package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tripwise/geo"
	"tripwise/models"
	"tripwise/store"
)

type DestinationStore struct {
	coll *mongo.Collection
}

var _ store.DestinationStore = (*DestinationStore)(nil)

func NewDestinationStore(db *Database) *DestinationStore {
	return &DestinationStore{coll: db.DestinationsCollection}
}

func (s *DestinationStore) GetAll(ctx context.Context) ([]models.Destination, error) {
	return findAll[models.Destination](ctx, s.coll, bson.M{})
}

func (s *DestinationStore) GetByID(ctx context.Context, id string) (*models.Destination, error) {
	return findOne[models.Destination](ctx, s.coll, bson.M{"destinationid": id})
}

// nearFilter matches points within radiusKm of (lat, lon) on the sphere.
func nearFilter(lat, lon, radiusKm float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$geoWithin": bson.M{
				"$centerSphere": bson.A{bson.A{lon, lat}, radiusKm / geo.EarthRadiusKm},
			},
		},
	}
}

func (s *DestinationStore) GetNearLocation(ctx context.Context, lat, lon, radiusKm float64) ([]models.Destination, error) {
	return findAll[models.Destination](ctx, s.coll, nearFilter(lat, lon, radiusKm))
}

func (s *DestinationStore) GetTopRated(ctx context.Context, count int) ([]models.Destination, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "average_rating", Value: -1}, {Key: "ratings_count", Value: -1}}).
		SetLimit(int64(count))
	return findAll[models.Destination](ctx, s.coll, bson.M{}, opts)
}

func (s *DestinationStore) GetByRecommendedSeason(ctx context.Context, season models.Season) ([]models.Destination, error) {
	return findAll[models.Destination](ctx, s.coll, bson.M{"recommended_seasons": season})
}

// Upsert validates d, fills its GeoJSON location and stores it by id.
func (s *DestinationStore) Upsert(ctx context.Context, d *models.Destination) error {
	if err := d.Validate(); err != nil {
		return err
	}
	d.Location = models.NewGeoPoint(d.Latitude, d.Longitude)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"destinationid": d.DestinationID}, d, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("upsert destination %s: %w", d.DestinationID, err)
	}
	return nil
}
