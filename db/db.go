// Package db implements the store contracts on MongoDB.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	DestinationsColl = "destinations"
	UsersColl        = "users"
	PreferencesColl  = "preferences"
	ItinerariesColl  = "itineraries"
	ItemsColl        = "itinerary_items"
	FeedbackColl     = "feedback"
)

// Database holds the client and the collections the stores use.
type Database struct {
	Client *mongo.Client

	DestinationsCollection *mongo.Collection
	UsersCollection        *mongo.Collection
	PreferencesCollection  *mongo.Collection
	ItinerariesCollection  *mongo.Collection
	ItemsCollection        *mongo.Collection
	FeedbackCollection     *mongo.Collection
}

// Connect dials MongoDB, pings it and binds the collections of dbName.
func Connect(ctx context.Context, uri, dbName string) (*Database, error) {
	clientOptions := options.Client().ApplyURI(uri).SetServerSelectionTimeout(10 * time.Second)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	d := client.Database(dbName)
	return &Database{
		Client:                 client,
		DestinationsCollection: d.Collection(DestinationsColl),
		UsersCollection:        d.Collection(UsersColl),
		PreferencesCollection:  d.Collection(PreferencesColl),
		ItinerariesCollection:  d.Collection(ItinerariesColl),
		ItemsCollection:        d.Collection(ItemsColl),
		FeedbackCollection:     d.Collection(FeedbackColl),
	}, nil
}

func (db *Database) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

func index(keys bson.D, name string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetName(name)}
}

func uniqueIndex(keys bson.D, name string) mongo.IndexModel {
	return mongo.IndexModel{Keys: keys, Options: options.Index().SetUnique(true).SetName(name)}
}

// EnsureIndexes creates the indexes every store query relies on.
func (db *Database) EnsureIndexes(ctx context.Context) error {
	plan := map[*mongo.Collection][]mongo.IndexModel{
		db.DestinationsCollection: {
			uniqueIndex(bson.D{{Key: "destinationid", Value: 1}}, "unique_destinationid"),
			index(bson.D{{Key: "location", Value: "2dsphere"}}, "geo_location"),
			index(bson.D{{Key: "average_rating", Value: -1}}, "rating_desc"),
			index(bson.D{{Key: "recommended_seasons", Value: 1}}, "seasons"),
		},
		db.UsersCollection: {
			uniqueIndex(bson.D{{Key: "userid", Value: 1}}, "unique_userid"),
			uniqueIndex(bson.D{{Key: "email", Value: 1}}, "unique_email"),
			uniqueIndex(bson.D{{Key: "username", Value: 1}}, "unique_username"),
		},
		db.PreferencesCollection: {
			uniqueIndex(bson.D{{Key: "userid", Value: 1}}, "unique_pref_userid"),
		},
		db.ItinerariesCollection: {
			uniqueIndex(bson.D{{Key: "itineraryid", Value: 1}}, "unique_itineraryid"),
			index(bson.D{{Key: "userid", Value: 1}}, "owner"),
			index(bson.D{{Key: "primary_destination", Value: 1}}, "destination"),
			index(bson.D{{Key: "original_itinerary_id", Value: 1}, {Key: "version", Value: 1}}, "version_chain"),
			index(bson.D{{Key: "is_template", Value: 1}}, "templates"),
		},
		db.ItemsCollection: {
			uniqueIndex(bson.D{{Key: "itemid", Value: 1}}, "unique_itemid"),
			index(bson.D{{Key: "itineraryid", Value: 1}, {Key: "day_number", Value: 1}, {Key: "order_in_day", Value: 1}}, "itinerary_order"),
		},
		db.FeedbackCollection: {
			index(bson.D{{Key: "itineraryid", Value: 1}}, "fb_itinerary"),
			index(bson.D{{Key: "destinationid", Value: 1}}, "fb_destination"),
			index(bson.D{{Key: "userid", Value: 1}}, "fb_user"),
		},
	}
	for coll, idxs := range plan {
		if _, err := coll.Indexes().CreateMany(ctx, idxs); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll.Name(), err)
		}
	}
	return nil
}

// findOne decodes the single match of filter, or returns nil when absent.
func findOne[T any](ctx context.Context, coll *mongo.Collection, filter any) (*T, error) {
	var out T
	err := coll.FindOne(ctx, filter).Decode(&out)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// findAll decodes every match of filter; the result is never nil.
func findAll[T any](ctx context.Context, coll *mongo.Collection, filter any, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// replaceOne overwrites the document matching filter and reports a missing
// document as an error.
func replaceOne(ctx context.Context, coll *mongo.Collection, filter, doc any) error {
	res, err := coll.ReplaceOne(ctx, filter, doc)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotStored
	}
	return nil
}

// ErrNotStored is returned when an update targets a document that does not exist.
var ErrNotStored = errors.New("document not stored")
