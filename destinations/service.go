package destinations

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"tripwise/apperr"
	"tripwise/geo"
	"tripwise/models"
	"tripwise/scoring"
	"tripwise/store"
)

// FlightThresholdKm is the distance above which a flight is offered.
const FlightThresholdKm = 100.0

// Service answers read-only questions about the destination catalog.
type Service struct {
	destinations store.DestinationStore
	users        store.UserStore
	preferences  store.PreferenceStore
}

func NewService(d store.DestinationStore, u store.UserStore, p store.PreferenceStore) *Service {
	return &Service{destinations: d, users: u, preferences: p}
}

// SearchQuery holds the optional filters of a catalog search. Nil pointers
// and empty strings mean "no filter".
type SearchQuery struct {
	Term          string
	Type          models.DestinationType
	Category      models.DestinationCategory
	Country       string
	City          string
	Region        string
	Tags          []string
	MinRating     *float64
	CostLevel     *models.CostLevel
	Accessible    bool
	ChildFriendly bool
	Season        models.Season
	Page          int
	PageSize      int
}

type Page struct {
	Destinations []models.Destination `json:"destinations"`
	TotalCount   int                  `json:"total_count"`
	Page         int                  `json:"page"`
	PageSize     int                  `json:"page_size"`
}

type TransportOption struct {
	Mode        string `json:"mode"`
	Description string `json:"description"`
}

func validatePaging(page, size int) error {
	if size <= 0 {
		return apperr.InvalidArgument("page_size", "page size must be positive")
	}
	if page <= 0 {
		return apperr.InvalidArgument("page", "page number must be positive")
	}
	return nil
}

// maxCount caps how many destinations a single listing returns.
const maxCount = 100

func validateCount(count int) error {
	if count <= 0 {
		return apperr.InvalidArgument("count", "count must be positive")
	}
	return nil
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperr.InvalidArgument(field, "destination ID cannot be empty")
	}
	return nil
}

func paginate[T any](items []T, page, size int) []T {
	start := (page - 1) * size
	if start >= len(items) {
		return []T{}
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}

func filter(in []models.Destination, keep func(*models.Destination) bool) []models.Destination {
	out := in[:0:0]
	for i := range in {
		if keep(&in[i]) {
			out = append(out, in[i])
		}
	}
	return out
}

func take(in []models.Destination, n int) []models.Destination {
	if len(in) > n {
		return in[:n]
	}
	return in
}

func matchesTerm(d *models.Destination, term string) bool {
	term = strings.ToLower(term)
	if strings.Contains(strings.ToLower(d.Name), term) || strings.Contains(strings.ToLower(d.Description), term) {
		return true
	}
	return d.HasTagContaining(term)
}

func anyTagIn(d *models.Destination, tags []string) bool {
	for _, want := range tags {
		for _, have := range d.Tags {
			if strings.EqualFold(want, have) {
				return true
			}
		}
	}
	return false
}

func (s *Service) Search(ctx context.Context, q SearchQuery) (*Page, error) {
	if err := validatePaging(q.Page, q.PageSize); err != nil {
		return nil, err
	}

	all, err := s.destinations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}

	results := all
	if t := strings.TrimSpace(q.Term); t != "" {
		results = filter(results, func(d *models.Destination) bool { return matchesTerm(d, t) })
	}
	if q.Type != "" {
		results = filter(results, func(d *models.Destination) bool { return d.Type == q.Type })
	}
	if q.Category != "" {
		results = filter(results, func(d *models.Destination) bool { return d.Category == q.Category })
	}
	if q.Country != "" {
		results = filter(results, func(d *models.Destination) bool { return strings.EqualFold(d.Country, q.Country) })
	}
	if q.City != "" {
		results = filter(results, func(d *models.Destination) bool { return strings.EqualFold(d.City, q.City) })
	}
	if q.Region != "" {
		results = filter(results, func(d *models.Destination) bool { return strings.EqualFold(d.Region, q.Region) })
	}
	if len(q.Tags) > 0 {
		results = filter(results, func(d *models.Destination) bool { return anyTagIn(d, q.Tags) })
	}
	if q.MinRating != nil {
		results = filter(results, func(d *models.Destination) bool { return d.AverageRating >= *q.MinRating })
	}
	if q.CostLevel != nil {
		results = filter(results, func(d *models.Destination) bool { return d.CostLevel == *q.CostLevel })
	}
	if q.Accessible {
		results = filter(results, func(d *models.Destination) bool { return d.IsAccessible })
	}
	if q.ChildFriendly {
		results = filter(results, func(d *models.Destination) bool { return d.IsChildFriendly })
	}
	if q.Season != "" {
		results = filter(results, func(d *models.Destination) bool { return d.HasSeason(q.Season) })
	}

	return &Page{
		Destinations: paginate(results, q.Page, q.PageSize),
		TotalCount:   len(results),
		Page:         q.Page,
		PageSize:     q.PageSize,
	}, nil
}

func (s *Service) Nearby(ctx context.Context, lat, lon, radiusKm float64, typ models.DestinationType, cat models.DestinationCategory, page, size int) (*Page, error) {
	switch {
	case !geo.ValidLatitude(lat):
		return nil, apperr.InvalidArgument("latitude", "latitude must be between -90 and 90")
	case !geo.ValidLongitude(lon):
		return nil, apperr.InvalidArgument("longitude", "longitude must be between -180 and 180")
	case radiusKm <= 0:
		return nil, apperr.InvalidArgument("radius_km", "radius must be positive")
	}
	if err := validatePaging(page, size); err != nil {
		return nil, err
	}

	near, err := s.destinations.GetNearLocation(ctx, lat, lon, radiusKm)
	if err != nil {
		return nil, fmt.Errorf("load nearby destinations: %w", err)
	}
	if typ != "" {
		near = filter(near, func(d *models.Destination) bool { return d.Type == typ })
	}
	if cat != "" {
		near = filter(near, func(d *models.Destination) bool { return d.Category == cat })
	}

	return &Page{
		Destinations: paginate(near, page, size),
		TotalCount:   len(near),
		Page:         page,
		PageSize:     size,
	}, nil
}

func (s *Service) Details(ctx context.Context, id string) (*models.Destination, error) {
	if err := requireID("destination_id", id); err != nil {
		return nil, err
	}
	return s.mustGet(ctx, id)
}

func (s *Service) mustGet(ctx context.Context, id string) (*models.Destination, error) {
	d, err := s.destinations.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load destination %s: %w", id, err)
	}
	if d == nil {
		return nil, apperr.NotFound("Destination", id)
	}
	return d, nil
}

// Popular over-fetches twice the count from the top-rated list so the
// optional filters still leave enough candidates.
func (s *Service) Popular(ctx context.Context, count int, cat models.DestinationCategory, typ models.DestinationType) ([]models.Destination, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	count = min(count, maxCount)
	top, err := s.destinations.GetTopRated(ctx, count*2)
	if err != nil {
		return nil, fmt.Errorf("load top rated destinations: %w", err)
	}
	if cat != "" {
		top = filter(top, func(d *models.Destination) bool { return d.Category == cat })
	}
	if typ != "" {
		top = filter(top, func(d *models.Destination) bool { return d.Type == typ })
	}
	return take(top, count), nil
}

func (s *Service) Seasonal(ctx context.Context, season models.Season, count int) ([]models.Destination, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	if season == "" {
		return nil, apperr.InvalidArgument("season", "season is required")
	}
	ds, err := s.destinations.GetByRecommendedSeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("load seasonal destinations: %w", err)
	}
	return take(ds, count), nil
}

type scored struct {
	d     models.Destination
	score float64
}

func rank(in []scored, count int) []models.Destination {
	sort.SliceStable(in, func(i, j int) bool { return in[i].score > in[j].score })
	out := make([]models.Destination, 0, min(count, len(in)))
	for i := 0; i < len(in) && i < count; i++ {
		out = append(out, in[i].d)
	}
	return out
}

// RecommendedForUser scores the whole catalog, so cost grows with catalog size.
func (s *Service) RecommendedForUser(ctx context.Context, userID string, count int) ([]models.Destination, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, apperr.InvalidArgument("user_id", "user ID cannot be empty")
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", userID, err)
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}
	pref, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preferences of %s: %w", userID, err)
	}
	if pref == nil {
		return nil, apperr.NotFound("Preference", userID)
	}

	all, err := s.destinations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}
	candidates := make([]scored, len(all))
	for i := range all {
		candidates[i] = scored{d: all[i], score: scoring.Score(&all[i], pref)}
	}
	return rank(candidates, count), nil
}

func (s *Service) Similar(ctx context.Context, id string, count int) ([]models.Destination, error) {
	if err := requireID("destination_id", id); err != nil {
		return nil, err
	}
	if err := validateCount(count); err != nil {
		return nil, err
	}

	ref, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	all, err := s.destinations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}
	candidates := make([]scored, 0, len(all))
	for i := range all {
		if all[i].DestinationID == id {
			continue
		}
		candidates = append(candidates, scored{d: all[i], score: scoring.Similarity(ref, &all[i])})
	}
	return rank(candidates, count), nil
}

// OffTheBeatenPath returns well-rated places with few ratings, least visited first.
func (s *Service) OffTheBeatenPath(ctx context.Context, region string, count int) ([]models.Destination, error) {
	if err := validateCount(count); err != nil {
		return nil, err
	}
	all, err := s.destinations.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("load destinations: %w", err)
	}
	if r := strings.TrimSpace(region); r != "" {
		all = filter(all, func(d *models.Destination) bool { return strings.EqualFold(d.Region, r) })
	}
	picks := filter(all, func(d *models.Destination) bool {
		return d.RatingsCount < 100 && d.AverageRating >= 3.5
	})
	sort.SliceStable(picks, func(i, j int) bool { return picks[i].RatingsCount < picks[j].RatingsCount })
	return take(picks, count), nil
}

// TransportationOptions is a fixed placeholder list; no transport provider is queried.
func (s *Service) TransportationOptions(ctx context.Context, fromID, toID string) ([]TransportOption, error) {
	if err := requireID("from", fromID); err != nil {
		return nil, err
	}
	if err := requireID("to", toID); err != nil {
		return nil, err
	}
	from, err := s.mustGet(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := s.mustGet(ctx, toID)
	if err != nil {
		return nil, err
	}

	modes := []struct{ mode, label string }{
		{"Taxi", "Taxi"},
		{"Bus", "Bus"},
		{"Train", "Train"},
		{"RentalCar", "Rental car"},
	}
	if geo.DistanceKm(from.Latitude, from.Longitude, to.Latitude, to.Longitude) > FlightThresholdKm {
		modes = append(modes, struct{ mode, label string }{"Flight", "Flight"})
	}

	opts := make([]TransportOption, 0, len(modes))
	for _, m := range modes {
		opts = append(opts, TransportOption{
			Mode:        m.mode,
			Description: fmt.Sprintf("%s from %s to %s", m.label, from.Name, to.Name),
		})
	}
	return opts, nil
}

func (s *Service) TravelAdvisories(ctx context.Context, id string) (string, error) {
	if err := requireID("destination_id", id); err != nil {
		return "", err
	}
	d, err := s.mustGet(ctx, id)
	if err != nil {
		return "", err
	}
	return d.TravelAdvisories, nil
}

// WeatherForecast is a placeholder until a weather provider is wired in.
func (s *Service) WeatherForecast(ctx context.Context, id string, date time.Time) (string, error) {
	if err := requireID("destination_id", id); err != nil {
		return "", err
	}
	d, err := s.mustGet(ctx, id)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("Weather forecast for %s on %s is not available yet.", d.Name, date.Format("2006-01-02")), nil
}
