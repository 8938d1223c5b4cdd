package models

import (
	"slices"
	"time"

	"tripwise/apperr"
)

type Preference struct {
	PreferenceID           string            `json:"preferenceid" bson:"preferenceid"`
	UserID                 string            `json:"userid" bson:"userid"`
	Interests              Interest          `json:"interests" bson:"interests"`
	BudgetLevel            BudgetLevel       `json:"budget_level" bson:"budget_level"`
	CustomBudgetMin        *float64          `json:"custom_budget_min,omitempty" bson:"custom_budget_min,omitempty"`
	CustomBudgetMax        *float64          `json:"custom_budget_max,omitempty" bson:"custom_budget_max,omitempty"`
	Pace                   TravelPace        `json:"pace" bson:"pace"`
	PreferredAccommodation AccommodationType `json:"preferred_accommodation" bson:"preferred_accommodation"`
	Accessibility          Accessibility     `json:"accessibility_requirements" bson:"accessibility_requirements"`
	PreferredTransport     TransportMode     `json:"preferred_transportation" bson:"preferred_transportation"`
	AvoidCrowds            bool              `json:"avoid_crowds" bson:"avoid_crowds"`
	ChildFriendly          bool              `json:"child_friendly" bson:"child_friendly"`
	Dietary                Dietary           `json:"dietary_preferences" bson:"dietary_preferences"`
	PreferredClimates      Climate           `json:"preferred_climates" bson:"preferred_climates"`
	PreferredTripDuration  TripDuration      `json:"preferred_trip_duration" bson:"preferred_trip_duration"`
	VisitedDestinations    []string          `json:"visited_destinations" bson:"visited_destinations"`
	WishlistDestinations   []string          `json:"wishlist_destinations" bson:"wishlist_destinations"`
	OpenToSurprises        bool              `json:"open_to_surprises" bson:"open_to_surprises"`
	CreatedAt              time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt              time.Time         `json:"updated_at" bson:"updated_at"`
}

// NewPreference returns the default preference for a freshly registered user.
func NewPreference(id, userID string, now time.Time) *Preference {
	return &Preference{
		PreferenceID:           id,
		UserID:                 userID,
		BudgetLevel:            BudgetMedium,
		Pace:                   PaceModerate,
		PreferredAccommodation: AccommodationHotel,
		PreferredTripDuration:  TripMedium,
		VisitedDestinations:    []string{},
		WishlistDestinations:   []string{},
		OpenToSurprises:        true,
		CreatedAt:              now,
		UpdatedAt:              now,
	}
}

func (p *Preference) Validate() error {
	if p.CustomBudgetMin != nil && *p.CustomBudgetMin < 0 {
		return apperr.InvalidArgument("custom_budget_min", "custom budget minimum cannot be negative")
	}
	if p.CustomBudgetMax != nil && *p.CustomBudgetMax < 0 {
		return apperr.InvalidArgument("custom_budget_max", "custom budget maximum cannot be negative")
	}
	if p.CustomBudgetMin != nil && p.CustomBudgetMax != nil && *p.CustomBudgetMax < *p.CustomBudgetMin {
		return apperr.InvalidArgument("custom_budget_max", "custom budget maximum must be greater than or equal to minimum")
	}
	return nil
}

func (p *Preference) HasVisited(destinationID string) bool {
	return slices.Contains(p.VisitedDestinations, destinationID)
}

func (p *Preference) InWishlist(destinationID string) bool {
	return slices.Contains(p.WishlistDestinations, destinationID)
}

// DailyBudgetRange returns the per-day spend range implied by the budget
// level. Custom bounds override the table when set.
func (p *Preference) DailyBudgetRange() (lo, hi float64) {
	if p.CustomBudgetMin != nil && p.CustomBudgetMax != nil {
		return *p.CustomBudgetMin, *p.CustomBudgetMax
	}
	switch p.BudgetLevel {
	case BudgetLow:
		return 25, 75
	case BudgetMedium:
		return 75, 150
	case BudgetLuxury:
		return 150, 500
	case BudgetUltraLuxury:
		return 500, 2000
	default:
		return 50, 150
	}
}
