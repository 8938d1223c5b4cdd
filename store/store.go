// Package store declares the persistence contracts the services depend on.
//
// Lookups by id return (nil, nil) when the record does not exist; callers
// decide whether absence is an error.
package store

import (
	"context"

	"tripwise/models"
)

type DestinationStore interface {
	GetAll(ctx context.Context) ([]models.Destination, error)
	GetByID(ctx context.Context, id string) (*models.Destination, error)
	GetNearLocation(ctx context.Context, lat, lon, radiusKm float64) ([]models.Destination, error)
	GetTopRated(ctx context.Context, count int) ([]models.Destination, error)
	GetByRecommendedSeason(ctx context.Context, season models.Season) ([]models.Destination, error)
}

type UserStore interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	Add(ctx context.Context, u *models.User) error
	Update(ctx context.Context, u *models.User) error
}

type PreferenceStore interface {
	GetByUserID(ctx context.Context, userID string) (*models.Preference, error)
	Add(ctx context.Context, p *models.Preference) error
	Update(ctx context.Context, p *models.Preference) error
}

type ItineraryStore interface {
	GetByID(ctx context.Context, id string) (*models.Itinerary, error)
	GetWithItems(ctx context.Context, id string) (*models.Itinerary, error)
	Add(ctx context.Context, it *models.Itinerary) error
	Update(ctx context.Context, it *models.Itinerary) error
	Remove(ctx context.Context, id string) (bool, error)
	GetAll(ctx context.Context) ([]models.Itinerary, error)
	GetByUserID(ctx context.Context, userID string) ([]models.Itinerary, error)
	GetByDestination(ctx context.Context, destination string) ([]models.Itinerary, error)
	GetTemplates(ctx context.Context) ([]models.Itinerary, error)
	GetAllVersions(ctx context.Context, originalID string) ([]models.Itinerary, error)
	AddItem(ctx context.Context, item *models.ItineraryItem) error
}

type FeedbackStore interface {
	Add(ctx context.Context, f *models.Feedback) error
	GetByItinerary(ctx context.Context, itineraryID string) ([]models.Feedback, error)
	GetByDestination(ctx context.Context, destinationID string) ([]models.Feedback, error)
	GetByUser(ctx context.Context, userID string) ([]models.Feedback, error)
}
