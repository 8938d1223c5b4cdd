package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"

	"tripwise/logging"
	"tripwise/models"
	"tripwise/utils"
)

const requestTimeout = 5 * time.Second

// TokenIssuer signs access tokens for authenticated users.
type TokenIssuer interface {
	IssueToken(userID, username string) (string, time.Time, error)
}

type Handler struct {
	svc    *Service
	tokens TokenIssuer
}

func NewHandler(svc *Service, tokens TokenIssuer) *Handler {
	return &Handler{svc: svc, tokens: tokens}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}

type passwordChange struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// POST /api/auth/register
func (h *Handler) Register(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in Registration
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

	user, err := h.svc.Register(ctx, in)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	logging.Info().Str("userid", user.UserID).Msg("user registered")
	utils.RespondCreated(w, user, "Registration successful")
}

// POST /api/auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in loginRequest
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

	user, err := h.svc.Authenticate(ctx, in.Email, in.Password)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	token, exp, err := h.tokens.IssueToken(user.UserID, user.Username)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, loginResponse{Token: token, ExpiresAt: exp, User: user})
}

// GET /api/users/me
func (h *Handler) Me(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.Profile(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, user)
}

// PUT /api/users/me
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var p ProfilePatch
	if err := utils.DecodeJSON(r, &p); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	if err := utils.Validate(p); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	user, err := h.svc.UpdateProfile(ctx, utils.GetUserIDFromRequest(r), p)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, user)
}

// PUT /api/users/me/password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in passwordChange
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

	ok, err := h.svc.ChangePassword(ctx, utils.GetUserIDFromRequest(r), in.CurrentPassword, in.NewPassword)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	if !ok {
		utils.RespondWithError(w, http.StatusUnauthorized, "Current password is incorrect")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Success: true, Message: "Password changed"})
}

// GET /api/users/me/preferences
func (h *Handler) GetPreferences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	pref, err := h.svc.Preferences(ctx, utils.GetUserIDFromRequest(r))
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	lo, hi := pref.DailyBudgetRange()
	utils.RespondOK(w, utils.M{
		"preference":   pref,
		"daily_budget": utils.M{"min": lo, "max": hi},
	})
}

// PUT /api/users/me/preferences
func (h *Handler) UpdatePreferences(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Preference
	if err := utils.DecodeJSON(r, &in); err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	pref, err := h.svc.UpdatePreferences(ctx, utils.GetUserIDFromRequest(r), in)
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	utils.RespondOK(w, pref)
}

// POST /api/users/me/deactivate
func (h *Handler) Deactivate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.setActive(w, r, false)
}

// POST /api/users/me/reactivate
func (h *Handler) Reactivate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	h.setActive(w, r, true)
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	ctx, cancel := context.WithTimeout(r.Context(), requestTimeout)
	defer cancel()

	userID := utils.GetUserIDFromRequest(r)
	var err error
	msg := "Account reactivated"
	if active {
		err = h.svc.Reactivate(ctx, userID)
	} else {
		err = h.svc.Deactivate(ctx, userID)
		msg = "Account deactivated"
	}
	if err != nil {
		utils.RespondWithDomainError(w, r, err)
		return
	}
	logging.Info().Str("userid", userID).Bool("active", active).Msg("account status changed")
	utils.RespondWithJSON(w, http.StatusOK, utils.Response{Success: true, Message: msg})
}
