package destinations

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"

	"tripwise/apperr"
	"tripwise/models"
	"tripwise/utils"
)

const requestTimeout = 5 * time.Second

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func parseSeason(raw string) (models.Season, error) {
	if raw == "" {
		return "", nil
	}
	s, ok := models.ParseSeason(raw)
	if !ok {
		return "", apperr.InvalidArgument("season", "unknown season "+raw)
	}
	return s, nil
}

// GET /api/destinations
func (h *Handler) Search(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()
	opts, err := utils.ParseQueryOptions(r)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	minRating, err := utils.QueryOptionalFloat(r, "min_rating")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	season, err := parseSeason(q.Get("season"))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	query := SearchQuery{
		Term:      q.Get("q"),
		Type:      models.DestinationType(q.Get("type")),
		Category:  models.DestinationCategory(q.Get("category")),
		Country:   q.Get("country"),
		City:      q.Get("city"),
		Region:    q.Get("region"),
		Tags:      utils.SplitTags(q.Get("tags")),
		MinRating: minRating,
		Season:    season,
		Page:      opts.Page,
		PageSize:  opts.Limit,
	}
	if raw := q.Get("cost_level"); raw != "" {
		c, ok := models.ParseCostLevel(raw)
		if !ok {
			utils.RespondWithDomainError(w, r, apperr.InvalidArgument("cost_level", "unknown cost level "+raw))
			return
		}
		query.CostLevel = &c
	}
	if b := utils.QueryBool(r, "accessible"); b != nil {
		query.Accessible = *b
	}
	if b := utils.QueryBool(r, "child_friendly"); b != nil {
		query.ChildFriendly = *b
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := h.svc.Search(ctx, query)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, page)
}

// GET /api/destinations/nearby?lat=&lon=&radius=
func (h *Handler) Nearby(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	lat, err := utils.QueryFloat(r, "lat")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	lon, err := utils.QueryFloat(r, "lon")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	radius, err := utils.QueryFloat(r, "radius")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	opts, err := utils.ParseQueryOptions(r)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	page, err := h.svc.Nearby(ctx, lat, lon, radius,
		models.DestinationType(q.Get("type")), models.DestinationCategory(q.Get("category")),
		opts.Page, opts.Limit)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, page)
}

// GET /api/destinations/d/:id
func (h *Handler) Details(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	d, err := h.svc.Details(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, d)
}

// GET /api/destinations/popular
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := utils.QueryInt(r, "count", 10)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.svc.Popular(ctx, count, models.DestinationCategory(q.Get("category")), models.DestinationType(q.Get("type")))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, ds)
}

// GET /api/destinations/seasonal/:season
func (h *Handler) Seasonal(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	season, err := parseSeason(ps.ByName("season"))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	count, err := utils.QueryInt(r, "count", 10)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.svc.Seasonal(ctx, season, count)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, ds)
}

// GET /api/destinations/recommended
func (h *Handler) Recommended(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	userID := utils.GetUserIDFromRequest(r)
	if userID == "" {
		utils.RespondWithError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	count, err := utils.QueryInt(r, "count", 10)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.svc.RecommendedForUser(ctx, userID, count)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, ds)
}

// GET /api/destinations/d/:id/similar
func (h *Handler) Similar(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	count, err := utils.QueryInt(r, "count", 5)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.svc.Similar(ctx, ps.ByName("id"), count)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, ds)
}

// GET /api/destinations/offbeat
func (h *Handler) OffTheBeatenPath(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := utils.QueryInt(r, "count", 5)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	ds, err := h.svc.OffTheBeatenPath(ctx, r.URL.Query().Get("region"), count)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, ds)
}

// GET /api/destinations/transport?from=&to=
func (h *Handler) Transportation(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	q := r.URL.Query()

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	opts, err := h.svc.TransportationOptions(ctx, strings.TrimSpace(q.Get("from")), strings.TrimSpace(q.Get("to")))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, opts)
}

// GET /api/destinations/d/:id/advisories
func (h *Handler) Advisories(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	text, err := h.svc.TravelAdvisories(ctx, ps.ByName("id"))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, map[string]string{"advisories": text})
}

// GET /api/destinations/d/:id/weather?date=
func (h *Handler) Weather(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	date, err := utils.QueryDate(r, "date")
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	when := time.Now()
	if date != nil {
		when = *date
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	text, err := h.svc.WeatherForecast(ctx, ps.ByName("id"), when)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, map[string]string{"forecast": text})
}
