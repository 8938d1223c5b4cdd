package models

import (
	"slices"
	"sort"
	"time"
)

// Itinerary is a trip plan. Items live in their own collection and are
// referenced by ItemIDs; Items is only populated when loaded with them.
type Itinerary struct {
	ItineraryID         string          `json:"itineraryid" bson:"itineraryid"`
	UserID              string          `json:"userid" bson:"userid"`
	Name                string          `json:"name" bson:"name"`
	Description         string          `json:"description" bson:"description"`
	StartDate           time.Time       `json:"start_date" bson:"start_date"`
	EndDate             time.Time       `json:"end_date" bson:"end_date"`
	PrimaryDestination  string          `json:"primary_destination" bson:"primary_destination"`
	TotalBudget         float64         `json:"total_budget" bson:"total_budget"`
	Tags                []string        `json:"tags" bson:"tags"`
	ItemIDs             []string        `json:"item_ids" bson:"item_ids"`
	Items               []ItineraryItem `json:"items,omitempty" bson:"-"`
	IsDraft             bool            `json:"is_draft" bson:"is_draft"`
	IsAIGenerated       bool            `json:"is_ai_generated" bson:"is_ai_generated"`
	IsTemplate          bool            `json:"is_template" bson:"is_template"`
	Version             int             `json:"version" bson:"version"`
	OriginalItineraryID string          `json:"original_itinerary_id,omitempty" bson:"original_itinerary_id,omitempty"`
	VersionNotes        string          `json:"version_notes,omitempty" bson:"version_notes,omitempty"`
	FeedbackIDs         []string        `json:"feedback_ids,omitempty" bson:"feedback_ids,omitempty"`
	CreatedAt           time.Time       `json:"created_at" bson:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at" bson:"updated_at"`
}

// RootID is the id of the first itinerary in this one's version chain.
func (it *Itinerary) RootID() string {
	if it.OriginalItineraryID != "" {
		return it.OriginalItineraryID
	}
	return it.ItineraryID
}

// NewVersion copies the trip-level fields and items into a new draft whose
// origin pointer names the root of the chain.
func (it *Itinerary) NewVersion(newID func() string, notes string, now time.Time) *Itinerary {
	next := it.duplicate(newID, now)
	next.Version = it.Version + 1
	next.OriginalItineraryID = it.RootID()
	next.VersionNotes = notes
	next.IsDraft = true
	next.IsTemplate = it.IsTemplate
	next.IsAIGenerated = it.IsAIGenerated
	return next
}

// AsTemplate copies the itinerary into a standalone template.
func (it *Itinerary) AsTemplate(newID func() string, now time.Time) *Itinerary {
	tpl := it.duplicate(newID, now)
	tpl.Version = 1
	tpl.IsTemplate = true
	tpl.IsDraft = false
	tpl.IsAIGenerated = it.IsAIGenerated
	return tpl
}

func (it *Itinerary) duplicate(newID func() string, now time.Time) *Itinerary {
	cp := &Itinerary{
		ItineraryID:        newID(),
		UserID:             it.UserID,
		Name:               it.Name,
		Description:        it.Description,
		StartDate:          it.StartDate,
		EndDate:            it.EndDate,
		PrimaryDestination: it.PrimaryDestination,
		TotalBudget:        it.TotalBudget,
		Tags:               slices.Clone(it.Tags),
		ItemIDs:            make([]string, 0, len(it.Items)),
		Items:              make([]ItineraryItem, 0, len(it.Items)),
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	for _, item := range it.Items {
		item.ItemID = newID()
		item.ItineraryID = cp.ItineraryID
		item.CreatedAt = now
		item.UpdatedAt = now
		cp.Items = append(cp.Items, item)
		cp.ItemIDs = append(cp.ItemIDs, item.ItemID)
	}
	if cp.Tags == nil {
		cp.Tags = []string{}
	}
	return cp
}

// SortItems orders items by (DayNumber, OrderInDay).
func SortItems(items []ItineraryItem) {
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].DayNumber != items[j].DayNumber {
			return items[i].DayNumber < items[j].DayNumber
		}
		return items[i].OrderInDay < items[j].OrderInDay
	})
}

// NextOrderInDay returns the order slot after the last item on day.
func NextOrderInDay(items []ItineraryItem, day int) int {
	next := 0
	for _, item := range items {
		if item.DayNumber == day && item.OrderInDay >= next {
			next = item.OrderInDay + 1
		}
	}
	return next
}
