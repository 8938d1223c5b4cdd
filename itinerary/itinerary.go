package itinerary

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/julienschmidt/httprouter"

	"tripwise/models"
	"tripwise/mq"
	"tripwise/utils"
)

const requestTimeout = 5 * time.Second

// Generation waits on the external generator, so it gets longer.
const generateTimeout = 45 * time.Second

// Events publishes itinerary lifecycle changes.
type Events interface {
	EmitAsync(ev mq.Event)
}

type Handler struct {
	svc       *Service
	events    Events
	shareBase string
}

func NewHandler(svc *Service, events Events, shareBase string) *Handler {
	return &Handler{svc: svc, events: events, shareBase: shareBase}
}

func (h *Handler) emit(typ string, it *models.Itinerary) {
	if h.events == nil || it == nil {
		return
	}
	h.events.EmitAsync(mq.Event{Type: typ, UserID: it.UserID, ItineraryID: it.ItineraryID, Version: it.Version})
}

// date accepts YYYY-MM-DD as well as RFC 3339 timestamps.
type date struct{ time.Time }

func (d *date) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	t, err := utils.ParseDate(strings.TrimSpace(s))
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d *date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	return &d.Time
}

type createRequest struct {
	Name               string   `json:"name" validate:"required,max=200"`
	Description        string   `json:"description" validate:"max=4000"`
	StartDate          *date    `json:"start_date" validate:"required"`
	EndDate            *date    `json:"end_date" validate:"required"`
	PrimaryDestination string   `json:"primary_destination" validate:"required,max=200"`
	TotalBudget        float64  `json:"total_budget" validate:"gte=0"`
	Tags               []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
}

type updateRequest struct {
	Name               *string  `json:"name" validate:"omitempty,max=200"`
	Description        *string  `json:"description" validate:"omitempty,max=4000"`
	StartDate          *date    `json:"start_date"`
	EndDate            *date    `json:"end_date"`
	PrimaryDestination *string  `json:"primary_destination" validate:"omitempty,max=200"`
	TotalBudget        *float64 `json:"total_budget"`
	Tags               []string `json:"tags" validate:"omitempty,max=20,dive,max=50"`
	IsDraft            *bool    `json:"is_draft"`
	VersionNotes       *string  `json:"version_notes" validate:"omitempty,max=1000"`
}

type versionRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type generateRequest struct {
	Destination       string                   `json:"destination" validate:"required,max=200"`
	StartDate         *date                    `json:"start_date" validate:"required"`
	EndDate           *date                    `json:"end_date" validate:"required"`
	Budget            float64                  `json:"budget" validate:"gte=0"`
	Interests         []string                 `json:"interests" validate:"omitempty,max=20"`
	Pace              models.TravelPace        `json:"pace"`
	AccommodationType models.AccommodationType `json:"accommodation_type"`
	SurpriseMe        bool                     `json:"surprise_me"`
	Name              string                   `json:"name" validate:"max=200"`
}

// decode reads and validates the body, writing the error response itself.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := utils.DecodeJSON(r, dst); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return false
	}
	if err := utils.Validate(dst); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return false
	}
	return true
}

// POST /api/itineraries
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in createRequest
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	it, err := h.svc.Create(ctx, NewItinerary{
		UserID:             utils.GetUserIDFromRequest(r),
		Name:               in.Name,
		Description:        in.Description,
		StartDate:          in.StartDate.Time,
		EndDate:            in.EndDate.Time,
		PrimaryDestination: in.PrimaryDestination,
		TotalBudget:        in.TotalBudget,
		Tags:               in.Tags,
	})
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryCreated, it)
	utils.RespondCreated(w, it, "Itinerary created")
}

// GET /api/itineraries/i/:id?items=true
func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	withItems := false
	if b := utils.QueryBool(r, "items"); b != nil {
		withItems = *b
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	it, err := h.svc.Get(ctx, ps.ByName("id"), withItems)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, it)
}

// PUT /api/itineraries/i/:id
func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in updateRequest
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	it, err := h.svc.Update(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r), Patch{
		Name:               in.Name,
		Description:        in.Description,
		StartDate:          in.StartDate.ptr(),
		EndDate:            in.EndDate.ptr(),
		PrimaryDestination: in.PrimaryDestination,
		TotalBudget:        in.TotalBudget,
		Tags:               in.Tags,
		IsDraft:            in.IsDraft,
		VersionNotes:       in.VersionNotes,
	})
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryUpdated, it)
	utils.RespondOK(w, it)
}

// DELETE /api/itineraries/i/:id
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	id := ps.ByName("id")
	removed, err := h.svc.Delete(ctx, id, userID)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	if removed {
		h.emit(mq.ItineraryDeleted, &models.Itinerary{ItineraryID: id, UserID: userID})
	}
	utils.RespondOK(w, utils.M{"deleted": removed})
}

// POST /api/itineraries/i/:id/versions
func (h *Handler) NewVersion(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in versionRequest
	if r.ContentLength != 0 && !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	it, err := h.svc.NewVersion(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r), in.Notes)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryVersioned, it)
	utils.RespondCreated(w, it, "Version created")
}

// GET /api/itineraries/i/:id/versions
func (h *Handler) Versions(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	chain, err := h.svc.ListVersions(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, chain)
}

// POST /api/itineraries/i/:id/template
func (h *Handler) CreateTemplate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tpl, err := h.svc.CreateTemplate(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryTemplated, tpl)
	utils.RespondCreated(w, tpl, "Template created")
}

// GET /api/itineraries/templates
func (h *Handler) Templates(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	tpls, err := h.svc.ListTemplates(ctx)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, tpls)
}

// GET /api/itineraries/mine
func (h *Handler) Mine(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	its, err := h.svc.ListForUser(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, its)
}

// GET /api/itineraries/search
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	from, err := utils.QueryDate(r, "start_from")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	until, err := utils.QueryDate(r, "end_by")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	templatesOnly, _ := strconv.ParseBool(q.Get("templates"))

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	its, err := h.svc.Search(ctx, SearchCriteria{
		UserID:        q.Get("userid"),
		Destination:   q.Get("destination"),
		TemplatesOnly: templatesOnly,
		Term:          q.Get("q"),
		StartFrom:     from,
		EndBy:         until,
		Tags:          utils.SplitTags(q.Get("tags")),
		AIGenerated:   utils.QueryBool(r, "ai_generated"),
	})
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, its)
}

// POST /api/itineraries/generate
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in generateRequest
	if !decode(w, r, &in) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	it, err := h.svc.Generate(ctx, models.GenerationRequest{
		UserID:            utils.GetUserIDFromRequest(r),
		Destination:       in.Destination,
		StartDate:         in.StartDate.Time,
		EndDate:           in.EndDate.Time,
		Budget:            in.Budget,
		Interests:         in.Interests,
		Pace:              in.Pace,
		AccommodationType: in.AccommodationType,
		SurpriseMe:        in.SurpriseMe,
		Name:              in.Name,
	})
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryGenerated, it)
	utils.RespondCreated(w, it, "Itinerary generated")
}

// POST /api/itineraries/i/:id/optimize
func (h *Handler) Optimize(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), generateTimeout)
	defer cancel()

	it, err := h.svc.Optimize(ctx, ps.ByName("id"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItineraryOptimized, it)
	utils.RespondOK(w, it)
}

// POST /api/itineraries/i/:id/items
func (h *Handler) AddItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.ItineraryItem
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	item, err := h.svc.AddItem(ctx, ps.ByName("id"), userID, in)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	h.emit(mq.ItemAdded, &models.Itinerary{ItineraryID: item.ItineraryID, UserID: userID})
	utils.RespondCreated(w, item, "Item added")
}

// GET /api/itineraries/i/:id/export
func (h *Handler) Export(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	id := ps.ByName("id")
	pdf, err := h.svc.Export(ctx, id, utils.GetUserIDFromRequest(r), h.shareBase)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="itinerary-`+id+`.pdf"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
