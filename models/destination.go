package models

import (
	"strings"
	"time"

	"tripwise/apperr"
	"tripwise/geo"
)

// GeoPoint is a GeoJSON point, stored for the 2dsphere index.
type GeoPoint struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"` // [lon, lat]
}

func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Type: "Point", Coordinates: []float64{lon, lat}}
}

type Destination struct {
	DestinationID       string              `json:"destinationid" bson:"destinationid"`
	Name                string              `json:"name" bson:"name"`
	Description         string              `json:"description" bson:"description"`
	Type                DestinationType     `json:"type" bson:"type"`
	Category            DestinationCategory `json:"category" bson:"category"`
	Country             string              `json:"country" bson:"country"`
	Region              string              `json:"region,omitempty" bson:"region,omitempty"`
	City                string              `json:"city,omitempty" bson:"city,omitempty"`
	Address             string              `json:"address,omitempty" bson:"address,omitempty"`
	Latitude            float64             `json:"latitude" bson:"latitude"`
	Longitude           float64             `json:"longitude" bson:"longitude"`
	Location            GeoPoint            `json:"-" bson:"location"`
	ImageURLs           []string            `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	MainImageURL        string              `json:"main_image_url,omitempty" bson:"main_image_url,omitempty"`
	WebsiteURL          string              `json:"website_url,omitempty" bson:"website_url,omitempty"`
	OpeningHours        string              `json:"opening_hours,omitempty" bson:"opening_hours,omitempty"`
	Tags                []string            `json:"tags" bson:"tags"`
	CostLevel           CostLevel           `json:"cost_level" bson:"cost_level"`
	AverageRating       float64             `json:"average_rating" bson:"average_rating"`
	RatingsCount        int                 `json:"ratings_count" bson:"ratings_count"`
	RecommendedSeasons  []Season            `json:"recommended_seasons" bson:"recommended_seasons"`
	Climate             Climate             `json:"climate" bson:"climate"`
	IsAccessible        bool                `json:"is_accessible" bson:"is_accessible"`
	AccessibilityFeats  Accessibility       `json:"accessibility_features" bson:"accessibility_features"`
	IsChildFriendly     bool                `json:"is_child_friendly" bson:"is_child_friendly"`
	IsMustVisit         bool                `json:"is_must_visit" bson:"is_must_visit"`
	TypicalVisitMinutes int                 `json:"typical_visit_minutes" bson:"typical_visit_minutes"`
	NearbyIDs           []string            `json:"nearby_destination_ids,omitempty" bson:"nearby_destination_ids,omitempty"`
	TravelAdvisories    string              `json:"travel_advisories,omitempty" bson:"travel_advisories,omitempty"`
	PracticalInfo       string              `json:"practical_info,omitempty" bson:"practical_info,omitempty"`
	BestActivities      []string            `json:"best_activities,omitempty" bson:"best_activities,omitempty"`
	LocalTransportation string              `json:"local_transportation,omitempty" bson:"local_transportation,omitempty"`
	CreatedAt           time.Time           `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time           `json:"updated_at" bson:"updated_at"`
}

// DefaultVisitMinutes is used when a destination does not state a visit duration.
const DefaultVisitMinutes = 120

func (d *Destination) Validate() error {
	switch {
	case strings.TrimSpace(d.Name) == "":
		return apperr.InvalidArgument("name", "destination name cannot be empty")
	case strings.TrimSpace(d.Description) == "":
		return apperr.InvalidArgument("description", "destination description cannot be empty")
	case strings.TrimSpace(d.Country) == "":
		return apperr.InvalidArgument("country", "destination country cannot be empty")
	case !geo.ValidLatitude(d.Latitude):
		return apperr.InvalidArgument("latitude", "latitude must be between -90 and 90")
	case !geo.ValidLongitude(d.Longitude):
		return apperr.InvalidArgument("longitude", "longitude must be between -180 and 180")
	case d.AverageRating < 0 || d.AverageRating > 5:
		return apperr.InvalidArgument("average_rating", "average rating must be between 0 and 5")
	case d.RatingsCount < 0:
		return apperr.InvalidArgument("ratings_count", "ratings count cannot be negative")
	case d.TypicalVisitMinutes < 0:
		return apperr.InvalidArgument("typical_visit_minutes", "typical visit duration cannot be negative")
	}
	return nil
}

// HasTagContaining reports whether any tag contains one of the needles, ignoring case.
func (d *Destination) HasTagContaining(needles ...string) bool {
	for _, t := range d.Tags {
		lt := strings.ToLower(t)
		for _, n := range needles {
			if strings.Contains(lt, strings.ToLower(n)) {
				return true
			}
		}
	}
	return false
}

func (d *Destination) HasSeason(s Season) bool {
	for _, v := range d.RecommendedSeasons {
		if v == s {
			return true
		}
	}
	return false
}
