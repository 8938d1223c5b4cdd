package models

import (
	"time"

	"tripwise/apperr"
)

// Feedback is a rating attached to an itinerary, an item, or a destination.
type Feedback struct {
	FeedbackID     string                 `json:"feedbackid" bson:"feedbackid"`
	UserID         string                 `json:"userid" bson:"userid"`
	Type           FeedbackType           `json:"type" bson:"type"`
	ItineraryID    string                 `json:"itineraryid,omitempty" bson:"itineraryid,omitempty"`
	ItemID         string                 `json:"itemid,omitempty" bson:"itemid,omitempty"`
	DestinationID  string                 `json:"destinationid,omitempty" bson:"destinationid,omitempty"`
	Rating         int                    `json:"rating" bson:"rating"`
	Comment        string                 `json:"comment,omitempty" bson:"comment,omitempty"`
	AspectRatings  map[FeedbackAspect]int `json:"aspect_ratings,omitempty" bson:"aspect_ratings,omitempty"`
	IsAIFeedback   bool                   `json:"is_ai_feedback" bson:"is_ai_feedback"`
	IsPublic       bool                   `json:"is_public" bson:"is_public"`
	Suggestions    string                 `json:"suggestions,omitempty" bson:"suggestions,omitempty"`
	WouldRecommend *bool                  `json:"would_recommend,omitempty" bson:"would_recommend,omitempty"`
	ImageURLs      []string               `json:"image_urls,omitempty" bson:"image_urls,omitempty"`
	SubmittedAt    time.Time              `json:"submitted_at" bson:"submitted_at"`
}

func (f *Feedback) Validate() error {
	if f.UserID == "" {
		return apperr.InvalidArgument("userid", "feedback must belong to a user")
	}
	if f.ItineraryID == "" && f.ItemID == "" && f.DestinationID == "" {
		return apperr.InvalidArgument("target", "feedback must reference an itinerary, an itinerary item, or a destination")
	}
	if f.Rating < 1 || f.Rating > 5 {
		return apperr.InvalidArgument("rating", "rating must be between 1 and 5")
	}
	for aspect, r := range f.AspectRatings {
		if r < 1 || r > 5 {
			return apperr.InvalidArgument("aspect_ratings", "rating for aspect "+string(aspect)+" must be between 1 and 5")
		}
	}
	return nil
}

// AverageAspectRating is the mean of the aspect ratings, or 0 when none are set.
func (f *Feedback) AverageAspectRating() float64 {
	if len(f.AspectRatings) == 0 {
		return 0
	}
	sum := 0
	for _, r := range f.AspectRatings {
		sum += r
	}
	return float64(sum) / float64(len(f.AspectRatings))
}

// GenerationRequest carries the parameters forwarded to the itinerary generator.
type GenerationRequest struct {
	UserID            string            `json:"userid"`
	Destination       string            `json:"destination" validate:"required"`
	StartDate         time.Time         `json:"start_date" validate:"required"`
	EndDate           time.Time         `json:"end_date" validate:"required,gtefield=StartDate"`
	Budget            float64           `json:"budget" validate:"gte=0"`
	Interests         []string          `json:"interests,omitempty"`
	Pace              TravelPace        `json:"pace,omitempty"`
	AccommodationType AccommodationType `json:"accommodation_type,omitempty"`
	SurpriseMe        bool              `json:"surprise_me"`
	Name              string            `json:"name,omitempty"`
}
