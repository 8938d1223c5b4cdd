package mq

import (
	"context"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/redis/go-redis/v9"

	"tripwise/logging"
	"tripwise/metrics"
)

// Channel carries itinerary lifecycle events.
const Channel = "itinerary-events"

const (
	ItineraryCreated   = "itinerary.created"
	ItineraryUpdated   = "itinerary.updated"
	ItineraryDeleted   = "itinerary.deleted"
	ItineraryVersioned = "itinerary.versioned"
	ItineraryTemplated = "itinerary.templated"
	ItineraryGenerated = "itinerary.generated"
	ItineraryOptimized = "itinerary.optimized"
	ItemAdded          = "itinerary.item_added"
)

// Event is one lifecycle change of an itinerary.
type Event struct {
	Type        string    `json:"type"`
	UserID      string    `json:"userid"`
	ItineraryID string    `json:"itineraryid"`
	Version     int       `json:"version,omitempty"`
	At          time.Time `json:"at"`
}

type Emitter struct {
	conn *redis.Client
}

func NewEmitter(conn *redis.Client) *Emitter {
	return &Emitter{conn: conn}
}

// Emit publishes ev to Redis.
func (e *Emitter) Emit(ctx context.Context, ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := e.conn.Publish(ctx, Channel, data).Err(); err != nil {
		return fmt.Errorf("publish %s: %w", ev.Type, err)
	}
	metrics.EventsPublished.WithLabelValues(ev.Type).Inc()
	return nil
}

// EmitAsync publishes in the background; failures are only logged.
func (e *Emitter) EmitAsync(ev Event) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := e.Emit(ctx, ev); err != nil {
			logging.Warn().Err(err).Str("type", ev.Type).Str("itineraryid", ev.ItineraryID).Msg("[Emit] event not published")
		}
	}()
}

// Listen delivers decoded events to handle until ctx is cancelled.
func Listen(ctx context.Context, conn *redis.Client, handle func(Event)) error {
	sub := conn.Subscribe(ctx, Channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", Channel, err)
	}
	ch := sub.Channel()
	logging.Info().Str("channel", Channel).Msg("listening for itinerary events")

	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			var ev Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				logging.Warn().Err(err).Msg("failed to parse itinerary event")
				continue
			}
			handle(ev)
		}
	}
}
