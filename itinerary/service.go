package itinerary

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"tripwise/apperr"
	"tripwise/models"
	"tripwise/store"
	"tripwise/utils"
)

// Generator is the external itinerary generation and optimization service.
type Generator interface {
	Generate(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error)
	Optimize(ctx context.Context, itineraryID string) (*models.Itinerary, error)
}

// Service manages the itinerary lifecycle. It does not log or retry; store
// errors are returned to the caller as they are.
type Service struct {
	itineraries store.ItineraryStore
	users       store.UserStore
	generator   Generator

	newID func() string
	now   func() time.Time
}

func NewService(its store.ItineraryStore, users store.UserStore, gen Generator) *Service {
	return &Service{
		itineraries: its,
		users:       users,
		generator:   gen,
		newID:       utils.GetUUID,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type NewItinerary struct {
	UserID             string
	Name               string
	Description        string
	StartDate          time.Time
	EndDate            time.Time
	PrimaryDestination string
	TotalBudget        float64
	Tags               []string
}

// Patch lists the fields an update may change. Nil means untouched.
type Patch struct {
	Name               *string
	Description        *string
	StartDate          *time.Time
	EndDate            *time.Time
	PrimaryDestination *string
	TotalBudget        *float64
	Tags               []string
	IsDraft            *bool
	VersionNotes       *string
}

type SearchCriteria struct {
	UserID        string
	Destination   string
	TemplatesOnly bool
	Term          string
	StartFrom     *time.Time
	EndBy         *time.Time
	Tags          []string
	AIGenerated   *bool
}

func authorize(it *models.Itinerary, callerID, op string) error {
	if it.UserID != callerID {
		return apperr.Unauthorized(op, fmt.Sprintf("User %s does not own itinerary %s", callerID, it.ItineraryID))
	}
	return nil
}

func requireNonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return apperr.InvalidArgument(field, field+" cannot be empty")
	}
	return nil
}

func (s *Service) load(ctx context.Context, id string, withItems bool) (*models.Itinerary, error) {
	var (
		it  *models.Itinerary
		err error
	)
	if withItems {
		it, err = s.itineraries.GetWithItems(ctx, id)
	} else {
		it, err = s.itineraries.GetByID(ctx, id)
	}
	if err != nil {
		return nil, fmt.Errorf("load itinerary %s: %w", id, err)
	}
	if it == nil {
		return nil, apperr.NotFound("Itinerary", id)
	}
	return it, nil
}

// loadOwned loads an itinerary and applies the ownership guard for op.
func (s *Service) loadOwned(ctx context.Context, id, callerID, op string, withItems bool) (*models.Itinerary, error) {
	if err := requireNonEmpty("itinerary_id", id); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("user_id", callerID); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, id, withItems)
	if err != nil {
		return nil, err
	}
	if err := authorize(it, callerID, op); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) getUser(ctx context.Context, id string) (*models.User, error) {
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	return u, nil
}

// persistForUser stores it and links it to the owner's itinerary list. When
// the owner cannot be updated the new itinerary is removed again.
func (s *Service) persistForUser(ctx context.Context, it *models.Itinerary, user *models.User) error {
	if err := s.itineraries.Add(ctx, it); err != nil {
		return fmt.Errorf("store itinerary: %w", err)
	}
	if user == nil {
		return nil
	}
	user.AddItinerary(it.ItineraryID)
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		if _, rmErr := s.itineraries.Remove(ctx, it.ItineraryID); rmErr != nil {
			err = errors.Join(err, fmt.Errorf("remove orphaned itinerary %s: %w", it.ItineraryID, rmErr))
		}
		return fmt.Errorf("link itinerary to user %s: %w", user.UserID, err)
	}
	return nil
}

func requireDates(start, end time.Time) error {
	if start.IsZero() {
		return apperr.InvalidArgument("start_date", "start date is required")
	}
	if end.IsZero() {
		return apperr.InvalidArgument("end_date", "end date is required")
	}
	return nil
}

func validateNew(in NewItinerary) error {
	if err := requireNonEmpty("user_id", in.UserID); err != nil {
		return err
	}
	if strings.TrimSpace(in.Name) == "" {
		return apperr.InvalidArgument("name", "itinerary name cannot be empty")
	}
	if err := requireDates(in.StartDate, in.EndDate); err != nil {
		return err
	}
	if in.EndDate.Before(in.StartDate) {
		return apperr.InvalidArgument("end_date", "end date must be after or equal to start date")
	}
	if strings.TrimSpace(in.PrimaryDestination) == "" {
		return apperr.InvalidArgument("primary_destination", "primary destination cannot be empty")
	}
	if in.TotalBudget < 0 {
		return apperr.InvalidArgument("total_budget", "budget cannot be negative")
	}
	return nil
}

func (s *Service) Create(ctx context.Context, in NewItinerary) (*models.Itinerary, error) {
	if err := validateNew(in); err != nil {
		return nil, err
	}

	user, err := s.getUser(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", in.UserID)
	}

	now := s.now()
	tags := slices.Clone(in.Tags)
	if tags == nil {
		tags = []string{}
	}
	it := &models.Itinerary{
		ItineraryID:        s.newID(),
		UserID:             in.UserID,
		Name:               strings.TrimSpace(in.Name),
		Description:        in.Description,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		PrimaryDestination: strings.TrimSpace(in.PrimaryDestination),
		TotalBudget:        in.TotalBudget,
		Tags:               tags,
		ItemIDs:            []string{},
		IsDraft:            true,
		Version:            1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	if err := s.persistForUser(ctx, it, user); err != nil {
		return nil, err
	}
	return it, nil
}

func (s *Service) Get(ctx context.Context, id string, withItems bool) (*models.Itinerary, error) {
	if err := requireNonEmpty("itinerary_id", id); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, id, withItems)
	if err != nil {
		return nil, err
	}
	if withItems {
		models.SortItems(it.Items)
	}
	return it, nil
}

func validatePatch(p Patch) error {
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return apperr.InvalidArgument("name", "itinerary name cannot be empty")
	}
	if p.PrimaryDestination != nil && strings.TrimSpace(*p.PrimaryDestination) == "" {
		return apperr.InvalidArgument("primary_destination", "primary destination cannot be empty")
	}
	if p.TotalBudget != nil && *p.TotalBudget < 0 {
		return apperr.InvalidArgument("total_budget", "budget cannot be negative")
	}
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return apperr.InvalidArgument("end_date", "end date must be after or equal to start date")
	}
	return nil
}

// Update applies the supplied fields of p. Only the owner may update.
func (s *Service) Update(ctx context.Context, id, callerID string, p Patch) (*models.Itinerary, error) {
	if err := validatePatch(p); err != nil {
		return nil, err
	}
	current, err := s.loadOwned(ctx, id, callerID, "UpdateItinerary", false)
	if err != nil {
		return nil, err
	}

	next := *current
	if p.Name != nil {
		next.Name = strings.TrimSpace(*p.Name)
	}
	if p.Description != nil {
		next.Description = *p.Description
	}
	if p.StartDate != nil {
		next.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		next.EndDate = *p.EndDate
	}
	if (p.StartDate != nil || p.EndDate != nil) && next.EndDate.Before(next.StartDate) {
		return nil, apperr.InvalidArgument("end_date", "end date must be after or equal to start date")
	}
	if p.PrimaryDestination != nil {
		next.PrimaryDestination = strings.TrimSpace(*p.PrimaryDestination)
	}
	if p.TotalBudget != nil {
		next.TotalBudget = *p.TotalBudget
	}
	if p.Tags != nil {
		next.Tags = slices.Clone(p.Tags)
	}
	if p.IsDraft != nil {
		next.IsDraft = *p.IsDraft
	}
	if p.VersionNotes != nil {
		next.VersionNotes = *p.VersionNotes
	}
	next.UpdatedAt = s.now()

	if err := s.itineraries.Update(ctx, &next); err != nil {
		return nil, fmt.Errorf("update itinerary %s: %w", id, err)
	}
	return &next, nil
}

// Delete removes the itinerary and unlinks it from its owner when the owner
// still exists.
func (s *Service) Delete(ctx context.Context, id, callerID string) (bool, error) {
	it, err := s.loadOwned(ctx, id, callerID, "DeleteItinerary", false)
	if err != nil {
		return false, err
	}

	user, err := s.getUser(ctx, it.UserID)
	if err != nil {
		return false, err
	}
	if user != nil && user.RemoveItinerary(id) {
		user.UpdatedAt = s.now()
		if err := s.users.Update(ctx, user); err != nil {
			return false, fmt.Errorf("unlink itinerary from user %s: %w", user.UserID, err)
		}
	}

	removed, err := s.itineraries.Remove(ctx, id)
	if err != nil {
		return false, fmt.Errorf("remove itinerary %s: %w", id, err)
	}
	return removed, nil
}

func (s *Service) NewVersion(ctx context.Context, id, callerID, notes string) (*models.Itinerary, error) {
	src, err := s.loadOwned(ctx, id, callerID, "CreateNewVersion", true)
	if err != nil {
		return nil, err
	}
	next := src.NewVersion(s.newID, notes, s.now())

	user, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.persistForUser(ctx, next, user); err != nil {
		return nil, err
	}
	return next, nil
}

func (s *Service) CreateTemplate(ctx context.Context, id, callerID string) (*models.Itinerary, error) {
	src, err := s.loadOwned(ctx, id, callerID, "CreateTemplate", true)
	if err != nil {
		return nil, err
	}
	tpl := src.AsTemplate(s.newID, s.now())

	user, err := s.getUser(ctx, callerID)
	if err != nil {
		return nil, err
	}
	if err := s.persistForUser(ctx, tpl, user); err != nil {
		return nil, err
	}
	return tpl, nil
}

func (s *Service) ListTemplates(ctx context.Context) ([]models.Itinerary, error) {
	tpls, err := s.itineraries.GetTemplates(ctx)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}
	return tpls, nil
}

// ListVersions returns the whole chain id belongs to, root first and ordered
// by version. The caller must own the root.
func (s *Service) ListVersions(ctx context.Context, id, callerID string) ([]models.Itinerary, error) {
	if err := requireNonEmpty("itinerary_id", id); err != nil {
		return nil, err
	}
	if err := requireNonEmpty("user_id", callerID); err != nil {
		return nil, err
	}
	it, err := s.load(ctx, id, false)
	if err != nil {
		return nil, err
	}
	root := it
	if rootID := it.RootID(); rootID != it.ItineraryID {
		r, err := s.itineraries.GetByID(ctx, rootID)
		if err != nil {
			return nil, fmt.Errorf("load itinerary %s: %w", rootID, err)
		}
		if r != nil {
			root = r
		}
	}
	if err := authorize(root, callerID, "GetAllVersions"); err != nil {
		return nil, err
	}

	versions, err := s.itineraries.GetAllVersions(ctx, it.RootID())
	if err != nil {
		return nil, fmt.Errorf("load versions of %s: %w", it.RootID(), err)
	}
	chain := make([]models.Itinerary, 0, len(versions)+1)
	seen := make(map[string]bool, len(versions)+1)
	if root.ItineraryID == it.RootID() {
		chain = append(chain, *root)
		seen[root.ItineraryID] = true
	}
	for _, v := range versions {
		if !seen[v.ItineraryID] {
			seen[v.ItineraryID] = true
			chain = append(chain, v)
		}
	}
	sort.SliceStable(chain, func(i, j int) bool { return chain[i].Version < chain[j].Version })
	return chain, nil
}

// Search picks one base set (owner, then destination, then templates, then
// everything) and narrows it with the remaining criteria.
func (s *Service) Search(ctx context.Context, c SearchCriteria) ([]models.Itinerary, error) {
	var (
		base []models.Itinerary
		err  error
	)
	switch {
	case strings.TrimSpace(c.UserID) != "":
		base, err = s.itineraries.GetByUserID(ctx, c.UserID)
	case strings.TrimSpace(c.Destination) != "":
		base, err = s.itineraries.GetByDestination(ctx, c.Destination)
	case c.TemplatesOnly:
		base, err = s.itineraries.GetTemplates(ctx)
	default:
		base, err = s.itineraries.GetAll(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("load itineraries: %w", err)
	}

	term := strings.ToLower(strings.TrimSpace(c.Term))
	out := make([]models.Itinerary, 0, len(base))
	for _, it := range base {
		if term != "" &&
			!strings.Contains(strings.ToLower(it.Name), term) &&
			!strings.Contains(strings.ToLower(it.Description), term) &&
			!strings.Contains(strings.ToLower(it.PrimaryDestination), term) {
			continue
		}
		if c.StartFrom != nil && it.StartDate.Before(*c.StartFrom) {
			continue
		}
		if c.EndBy != nil && it.EndDate.After(*c.EndBy) {
			continue
		}
		if len(c.Tags) > 0 && !tagsIntersect(it.Tags, c.Tags) {
			continue
		}
		if c.AIGenerated != nil && it.IsAIGenerated != *c.AIGenerated {
			continue
		}
		out = append(out, it)
	}
	return out, nil
}

func tagsIntersect(have, want []string) bool {
	for _, w := range want {
		for _, h := range have {
			if strings.EqualFold(h, w) {
				return true
			}
		}
	}
	return false
}

// Generate asks the generator for a plan, names it and stores it for the user.
func (s *Service) Generate(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error) {
	if err := requireNonEmpty("user_id", req.UserID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Destination) == "" {
		return nil, apperr.InvalidArgument("destination", "destination cannot be empty")
	}
	if err := requireDates(req.StartDate, req.EndDate); err != nil {
		return nil, err
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, apperr.InvalidArgument("end_date", "end date must be after or equal to start date")
	}
	if req.Budget < 0 {
		return nil, apperr.InvalidArgument("budget", "budget cannot be negative")
	}

	user, err := s.getUser(ctx, req.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", req.UserID)
	}

	it, err := s.generator.Generate(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("generate itinerary: %w", err)
	}
	if it == nil {
		return nil, fmt.Errorf("generate itinerary: generator returned no itinerary")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		name = "Trip to " + req.Destination
	}
	now := s.now()
	it.Name = name
	it.UserID = req.UserID
	it.IsAIGenerated = true
	if it.ItineraryID == "" {
		it.ItineraryID = s.newID()
	}
	if it.Version == 0 {
		it.Version = 1
	}
	if it.Tags == nil {
		it.Tags = []string{}
	}
	it.ItemIDs = make([]string, 0, len(it.Items))
	for i := range it.Items {
		if it.Items[i].ItemID == "" {
			it.Items[i].ItemID = s.newID()
		}
		it.Items[i].ItineraryID = it.ItineraryID
		it.ItemIDs = append(it.ItemIDs, it.Items[i].ItemID)
	}
	it.CreatedAt, it.UpdatedAt = now, now

	if err := s.persistForUser(ctx, it, user); err != nil {
		return nil, err
	}
	return it, nil
}

// Optimize hands the itinerary to the generator and returns its answer as is.
func (s *Service) Optimize(ctx context.Context, id, callerID string) (*models.Itinerary, error) {
	if _, err := s.loadOwned(ctx, id, callerID, "OptimizeItinerary", false); err != nil {
		return nil, err
	}
	it, err := s.generator.Optimize(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("optimize itinerary %s: %w", id, err)
	}
	return it, nil
}

// AddItem appends item after the last item already planned for its day.
func (s *Service) AddItem(ctx context.Context, itineraryID, callerID string, item models.ItineraryItem) (*models.ItineraryItem, error) {
	item.OrderInDay = 0
	if err := item.Validate(); err != nil {
		return nil, err
	}
	it, err := s.loadOwned(ctx, itineraryID, callerID, "AddItineraryItem", true)
	if err != nil {
		return nil, err
	}

	now := s.now()
	item.ItemID = s.newID()
	item.ItineraryID = it.ItineraryID
	item.OrderInDay = models.NextOrderInDay(it.Items, item.DayNumber)
	item.CreatedAt, item.UpdatedAt = now, now
	if err := s.itineraries.AddItem(ctx, &item); err != nil {
		return nil, fmt.Errorf("store itinerary item: %w", err)
	}

	it.ItemIDs = append(it.ItemIDs, item.ItemID)
	it.Items = nil
	it.UpdatedAt = now
	if err := s.itineraries.Update(ctx, it); err != nil {
		return nil, fmt.Errorf("update itinerary %s: %w", itineraryID, err)
	}
	return &item, nil
}

func (s *Service) ListForUser(ctx context.Context, userID string) ([]models.Itinerary, error) {
	if err := requireNonEmpty("user_id", userID); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.NotFound("User", userID)
	}
	its, err := s.itineraries.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load itineraries of %s: %w", userID, err)
	}
	return its, nil
}
