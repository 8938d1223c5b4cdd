// Package feedback collects ratings on itineraries, their items and
// destinations, and summarises them.
package feedback

import (
	"context"
	"fmt"
	"slices"
	"time"

	"tripwise/apperr"
	"tripwise/models"
	"tripwise/store"
	"tripwise/utils"
)

type Service struct {
	feedback     store.FeedbackStore
	itineraries  store.ItineraryStore
	destinations store.DestinationStore

	newID func() string
	now   func() time.Time
}

func NewService(fb store.FeedbackStore, its store.ItineraryStore, dests store.DestinationStore) *Service {
	return &Service{
		feedback:     fb,
		itineraries:  its,
		destinations: dests,
		newID:        utils.GetUUID,
		now:          func() time.Time { return time.Now().UTC() },
	}
}

// Summary aggregates a set of feedback entries.
type Summary struct {
	Count          int                               `json:"count"`
	AverageRating  float64                           `json:"average_rating"`
	Distribution   map[int]int                       `json:"distribution"`
	AspectAverages map[models.FeedbackAspect]float64 `json:"aspect_averages,omitempty"`
	RecommendRate  *float64                          `json:"recommend_rate,omitempty"`
}

func inferType(f *models.Feedback) models.FeedbackType {
	switch {
	case f.Type != "":
		return f.Type
	case f.ItemID != "":
		return models.FeedbackItineraryItemReview
	case f.ItineraryID != "":
		return models.FeedbackItineraryRating
	default:
		return models.FeedbackDestinationReview
	}
}

// Submit validates f, checks that what it references exists and stores it.
func (s *Service) Submit(ctx context.Context, f models.Feedback) (*models.Feedback, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}

	if f.ItineraryID != "" {
		it, err := s.itineraries.GetByID(ctx, f.ItineraryID)
		if err != nil {
			return nil, fmt.Errorf("load itinerary %s: %w", f.ItineraryID, err)
		}
		if it == nil {
			return nil, apperr.NotFound("Itinerary", f.ItineraryID)
		}
		if f.ItemID != "" && !slices.Contains(it.ItemIDs, f.ItemID) {
			return nil, apperr.NotFound("ItineraryItem", f.ItemID)
		}
	}
	if f.DestinationID != "" {
		d, err := s.destinations.GetByID(ctx, f.DestinationID)
		if err != nil {
			return nil, fmt.Errorf("load destination %s: %w", f.DestinationID, err)
		}
		if d == nil {
			return nil, apperr.NotFound("Destination", f.DestinationID)
		}
	}

	f.FeedbackID = s.newID()
	f.Type = inferType(&f)
	f.SubmittedAt = s.now()
	if err := s.feedback.Add(ctx, &f); err != nil {
		return nil, fmt.Errorf("store feedback: %w", err)
	}
	return &f, nil
}

// Entity kinds accepted by List.
const (
	EntityItinerary   = "itinerary"
	EntityDestination = "destination"
	EntityUser        = "user"
)

// List returns feedback for one entity. Only the author sees their private
// entries on itineraries and destinations.
func (s *Service) List(ctx context.Context, entity, id, callerID string) ([]models.Feedback, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("id", "id cannot be empty")
	}
	var (
		out []models.Feedback
		err error
	)
	switch entity {
	case EntityItinerary:
		out, err = s.feedback.GetByItinerary(ctx, id)
	case EntityDestination:
		out, err = s.feedback.GetByDestination(ctx, id)
	case EntityUser:
		if id != callerID {
			return nil, apperr.Unauthorized("GetUserFeedback", "feedback history is only visible to its author")
		}
		out, err = s.feedback.GetByUser(ctx, id)
	default:
		return nil, apperr.InvalidArgument("entity", "unknown entity type "+entity)
	}
	if err != nil {
		return nil, fmt.Errorf("load %s feedback %s: %w", entity, id, err)
	}
	if entity == EntityUser {
		return out, nil
	}
	return slices.DeleteFunc(out, func(f models.Feedback) bool {
		return !f.IsPublic && f.UserID != callerID
	}), nil
}

// Summarize computes the aggregate over every entry in fs.
func Summarize(fs []models.Feedback) Summary {
	sum := Summary{Distribution: map[int]int{}}
	if len(fs) == 0 {
		return sum
	}
	var (
		total        int
		aspectTotals = map[models.FeedbackAspect]int{}
		aspectCounts = map[models.FeedbackAspect]int{}
		answered     int
		recommended  int
	)
	for _, f := range fs {
		total += f.Rating
		sum.Distribution[f.Rating]++
		for a, r := range f.AspectRatings {
			aspectTotals[a] += r
			aspectCounts[a]++
		}
		if f.WouldRecommend != nil {
			answered++
			if *f.WouldRecommend {
				recommended++
			}
		}
	}
	sum.Count = len(fs)
	sum.AverageRating = float64(total) / float64(len(fs))
	if len(aspectTotals) > 0 {
		sum.AspectAverages = make(map[models.FeedbackAspect]float64, len(aspectTotals))
		for a, t := range aspectTotals {
			sum.AspectAverages[a] = float64(t) / float64(aspectCounts[a])
		}
	}
	if answered > 0 {
		rate := float64(recommended) / float64(answered)
		sum.RecommendRate = &rate
	}
	return sum
}

// Summary aggregates the feedback of an itinerary or destination.
func (s *Service) Summary(ctx context.Context, entity, id, callerID string) (Summary, error) {
	if entity == EntityUser {
		return Summary{}, apperr.InvalidArgument("entity", "summaries are available for itineraries and destinations")
	}
	fs, err := s.List(ctx, entity, id, callerID)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(fs), nil
}
