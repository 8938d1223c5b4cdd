package feedback

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

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

type submitRequest struct {
	Type           models.FeedbackType           `json:"type"`
	ItineraryID    string                        `json:"itineraryid"`
	ItemID         string                        `json:"itemid"`
	DestinationID  string                        `json:"destinationid"`
	Rating         int                           `json:"rating" validate:"required,min=1,max=5"`
	Comment        string                        `json:"comment" validate:"max=2000"`
	AspectRatings  map[models.FeedbackAspect]int `json:"aspect_ratings" validate:"omitempty,dive,min=1,max=5"`
	IsPublic       bool                          `json:"is_public"`
	Suggestions    string                        `json:"suggestions" validate:"max=2000"`
	WouldRecommend *bool                         `json:"would_recommend"`
	ImageURLs      []string                      `json:"image_urls" validate:"omitempty,max=10,dive,url"`
}

// POST /api/feedback
func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in submitRequest
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	if err := utils.Validate(in); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	f, err := h.svc.Submit(ctx, models.Feedback{
		UserID:         utils.GetUserIDFromRequest(r),
		Type:           in.Type,
		ItineraryID:    in.ItineraryID,
		ItemID:         in.ItemID,
		DestinationID:  in.DestinationID,
		Rating:         in.Rating,
		Comment:        in.Comment,
		AspectRatings:  in.AspectRatings,
		IsPublic:       in.IsPublic,
		Suggestions:    in.Suggestions,
		WouldRecommend: in.WouldRecommend,
		ImageURLs:      in.ImageURLs,
	})
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondCreated(w, f, "Feedback submitted")
}

// GET /api/feedback/:entityType/:entityId
func (h *Handler) List(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	fs, err := h.svc.List(ctx, ps.ByName("entityType"), ps.ByName("entityId"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, fs)
}

// GET /api/feedback/:entityType/:entityId/summary
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	sum, err := h.svc.Summary(ctx, ps.ByName("entityType"), ps.ByName("entityId"), utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, sum)
}
