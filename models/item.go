package models

import (
	"strings"
	"time"

	"tripwise/apperr"
)

type ItineraryItem struct {
	ItemID           string        `json:"itemid" bson:"itemid"`
	ItineraryID      string        `json:"itineraryid" bson:"itineraryid"`
	Title            string        `json:"title" bson:"title"`
	Description      string        `json:"description,omitempty" bson:"description,omitempty"`
	Type             ItemType      `json:"type" bson:"type"`
	StartTime        time.Time     `json:"start_time" bson:"start_time"`
	EndTime          time.Time     `json:"end_time" bson:"end_time"`
	DayNumber        int           `json:"day_number" bson:"day_number"`
	OrderInDay       int           `json:"order_in_day" bson:"order_in_day"`
	LocationName     string        `json:"location_name" bson:"location_name"`
	DestinationID    string        `json:"destinationid,omitempty" bson:"destinationid,omitempty"`
	Address          string        `json:"address,omitempty" bson:"address,omitempty"`
	Latitude         *float64      `json:"latitude,omitempty" bson:"latitude,omitempty"`
	Longitude        *float64      `json:"longitude,omitempty" bson:"longitude,omitempty"`
	Cost             *float64      `json:"cost,omitempty" bson:"cost,omitempty"`
	BookingReference string        `json:"booking_reference,omitempty" bson:"booking_reference,omitempty"`
	URL              string        `json:"url,omitempty" bson:"url,omitempty"`
	Notes            string        `json:"notes,omitempty" bson:"notes,omitempty"`
	IsMustDo         bool          `json:"is_must_do" bson:"is_must_do"`
	IsConfirmed      bool          `json:"is_confirmed" bson:"is_confirmed"`
	IsFlexible       bool          `json:"is_flexible" bson:"is_flexible"`
	WeatherForecast  string        `json:"weather_forecast,omitempty" bson:"weather_forecast,omitempty"`
	IsTransportation bool          `json:"is_transportation" bson:"is_transportation"`
	TransportMode    TransportMode `json:"transportation_mode,omitempty" bson:"transportation_mode,omitempty"`
	TransportSource  string        `json:"transport_source,omitempty" bson:"transport_source,omitempty"`
	TransportTarget  string        `json:"transport_destination,omitempty" bson:"transport_destination,omitempty"`
	DurationMinutes  int           `json:"duration_minutes,omitempty" bson:"duration_minutes,omitempty"`
	CreatedAt        time.Time     `json:"created_at" bson:"created_at"`
	UpdatedAt        time.Time     `json:"updated_at" bson:"updated_at"`
}

func (i *ItineraryItem) Validate() error {
	switch {
	case strings.TrimSpace(i.Title) == "":
		return apperr.InvalidArgument("title", "item title cannot be empty")
	case i.EndTime.Before(i.StartTime):
		return apperr.InvalidArgument("end_time", "end time must be after or equal to start time")
	case i.DayNumber < 1:
		return apperr.InvalidArgument("day_number", "day number must be at least 1")
	case i.OrderInDay < 0:
		return apperr.InvalidArgument("order_in_day", "order in day cannot be negative")
	case strings.TrimSpace(i.LocationName) == "":
		return apperr.InvalidArgument("location_name", "location name cannot be empty")
	case i.Cost != nil && *i.Cost < 0:
		return apperr.InvalidArgument("cost", "cost cannot be negative")
	}
	if i.IsTransportation {
		switch {
		case i.TransportMode == 0:
			return apperr.InvalidArgument("transportation_mode", "transportation mode is required for transportation items")
		case strings.TrimSpace(i.TransportSource) == "":
			return apperr.InvalidArgument("transport_source", "source is required for transportation items")
		case strings.TrimSpace(i.TransportTarget) == "":
			return apperr.InvalidArgument("transport_destination", "destination is required for transportation items")
		case i.DurationMinutes <= 0:
			return apperr.InvalidArgument("duration_minutes", "duration is required for transportation items")
		}
	}
	return nil
}
