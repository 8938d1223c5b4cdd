// Package auth handles accounts: registration, login, profile and the
// traveller's stored preferences.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"tripwise/apperr"
	"tripwise/models"
	"tripwise/store"
	"tripwise/utils"
)

type Service struct {
	users       store.UserStore
	preferences store.PreferenceStore

	cost  int
	newID func() string
	now   func() time.Time
}

func NewService(users store.UserStore, prefs store.PreferenceStore) *Service {
	return &Service{
		users:       users,
		preferences: prefs,
		cost:        bcrypt.DefaultCost,
		newID:       utils.GetUUID,
		now:         func() time.Time { return time.Now().UTC() },
	}
}

type Registration struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=8,max=72"`
	FirstName string `json:"first_name" validate:"max=100"`
	LastName  string `json:"last_name" validate:"max=100"`
}

// ProfilePatch holds optional profile fields; nil leaves a field unchanged.
type ProfilePatch struct {
	FirstName         *string `json:"first_name" validate:"omitempty,max=100"`
	LastName          *string `json:"last_name" validate:"omitempty,max=100"`
	ProfilePictureURL *string `json:"profile_picture_url" validate:"omitempty,url"`
	Locale            *string `json:"locale" validate:"omitempty,max=10"`
	TimeZone          *string `json:"time_zone" validate:"omitempty,max=64"`
}

func (s *Service) getUser(ctx context.Context, id string) (*models.User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, apperr.InvalidArgument("user_id", "user id cannot be empty")
	}
	u, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load user %s: %w", id, err)
	}
	if u == nil {
		return nil, apperr.NotFound("User", id)
	}
	return u, nil
}

// bcrypt rejects input longer than 72 bytes.
const maxPasswordBytes = 72

func checkPasswordLength(field, pw string) error {
	if len(pw) > maxPasswordBytes {
		return apperr.InvalidArgument(field, fmt.Sprintf("password cannot exceed %d bytes", maxPasswordBytes))
	}
	return nil
}

// Register creates an active account with a default preference record.
func (s *Service) Register(ctx context.Context, in Registration) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	username := strings.TrimSpace(in.Username)
	switch {
	case email == "":
		return nil, apperr.InvalidArgument("email", "email cannot be empty")
	case username == "":
		return nil, apperr.InvalidArgument("username", "username cannot be empty")
	case in.Password == "":
		return nil, apperr.InvalidArgument("password", "password cannot be empty")
	}
	if err := checkPasswordLength("password", in.Password); err != nil {
		return nil, err
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperr.Conflict(apperr.CodeEmailAlreadyExists, "Email already in use")
	}
	exists, err = s.users.UsernameExists(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("check username: %w", err)
	}
	if exists {
		return nil, apperr.Conflict(apperr.CodeUsernameAlreadyExists, "Username already taken")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	user := &models.User{
		UserID:           s.newID(),
		Email:            email,
		Username:         username,
		FirstName:        strings.TrimSpace(in.FirstName),
		LastName:         strings.TrimSpace(in.LastName),
		PasswordHash:     string(hash),
		RegistrationDate: now,
		IsActive:         true,
		Locale:           "en-US",
		TimeZone:         "UTC",
		ItineraryIDs:     []string{},
		UpdatedAt:        now,
	}
	if err := s.users.Add(ctx, user); err != nil {
		return nil, fmt.Errorf("store user: %w", err)
	}

	pref := models.NewPreference(s.newID(), user.UserID, now)
	if err := s.preferences.Add(ctx, pref); err != nil {
		return nil, fmt.Errorf("store default preference: %w", err)
	}
	user.PreferenceID = pref.PreferenceID
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("link preference: %w", err)
	}
	return user, nil
}

var errBadCredentials = apperr.Unauthorized("Authentication", "Invalid email or password")

// Authenticate checks credentials and records the login time. Unknown
// emails and wrong passwords fail the same way.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, apperr.InvalidArgument("email", "email cannot be empty")
	}
	if password == "" {
		return nil, apperr.InvalidArgument("password", "password cannot be empty")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load user by email: %w", err)
	}
	if user == nil {
		return nil, errBadCredentials
	}
	if !user.IsActive {
		return nil, &apperr.Error{Kind: apperr.ErrUnauthorized, Code: apperr.CodeUserDeactivated, Op: "Authentication", Message: "Account is deactivated"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, errBadCredentials
		}
		return nil, fmt.Errorf("compare password: %w", err)
	}

	user.LastLogin = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}
	return user, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*models.User, error) {
	return s.getUser(ctx, userID)
}

func (s *Service) UpdateProfile(ctx context.Context, userID string, p ProfilePatch) (*models.User, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p.FirstName != nil {
		user.FirstName = strings.TrimSpace(*p.FirstName)
	}
	if p.LastName != nil {
		user.LastName = strings.TrimSpace(*p.LastName)
	}
	if p.ProfilePictureURL != nil {
		user.ProfilePictureURL = *p.ProfilePictureURL
	}
	if p.Locale != nil {
		user.Locale = *p.Locale
	}
	if p.TimeZone != nil {
		if _, err := time.LoadLocation(*p.TimeZone); err != nil {
			return nil, apperr.InvalidArgument("time_zone", "unknown time zone "+*p.TimeZone)
		}
		user.TimeZone = *p.TimeZone
	}
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("update user %s: %w", userID, err)
	}
	return user, nil
}

// ChangePassword reports false when current does not match.
func (s *Service) ChangePassword(ctx context.Context, userID, current, next string) (bool, error) {
	if len(next) < 8 {
		return false, apperr.InvalidArgument("new_password", "password must be at least 8 characters")
	}
	if err := checkPasswordLength("new_password", next); err != nil {
		return false, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return false, err
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(current)) != nil {
		return false, nil
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(next), s.cost)
	if err != nil {
		return false, fmt.Errorf("hash password: %w", err)
	}
	user.PasswordHash = string(hash)
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return false, fmt.Errorf("update user %s: %w", userID, err)
	}
	return true, nil
}

// Preferences returns the user's preference, creating the default one when
// none is stored yet.
func (s *Service) Preferences(ctx context.Context, userID string) (*models.Preference, error) {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	pref, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preference of %s: %w", userID, err)
	}
	if pref != nil {
		return pref, nil
	}

	pref = models.NewPreference(s.newID(), userID, s.now())
	if err := s.preferences.Add(ctx, pref); err != nil {
		return nil, fmt.Errorf("store default preference: %w", err)
	}
	user.PreferenceID = pref.PreferenceID
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("link preference: %w", err)
	}
	return pref, nil
}

// UpdatePreferences replaces every preference field with in.
func (s *Service) UpdatePreferences(ctx context.Context, userID string, in models.Preference) (*models.Preference, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	existing, err := s.preferences.GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load preference of %s: %w", userID, err)
	}

	now := s.now()
	in.UserID = userID
	in.UpdatedAt = now
	if in.VisitedDestinations == nil {
		in.VisitedDestinations = []string{}
	}
	if in.WishlistDestinations == nil {
		in.WishlistDestinations = []string{}
	}

	if existing == nil {
		in.PreferenceID = s.newID()
		in.CreatedAt = now
		if err := s.preferences.Add(ctx, &in); err != nil {
			return nil, fmt.Errorf("store preference: %w", err)
		}
		user.PreferenceID = in.PreferenceID
		user.UpdatedAt = now
		if err := s.users.Update(ctx, user); err != nil {
			return nil, fmt.Errorf("link preference: %w", err)
		}
		return &in, nil
	}

	in.PreferenceID = existing.PreferenceID
	in.CreatedAt = existing.CreatedAt
	if err := s.preferences.Update(ctx, &in); err != nil {
		return nil, fmt.Errorf("update preference: %w", err)
	}
	return &in, nil
}

// BudgetRange is the daily spend band implied by the user's preference.
func (s *Service) BudgetRange(ctx context.Context, userID string) (lo, hi float64, err error) {
	pref, err := s.Preferences(ctx, userID)
	if err != nil {
		return 0, 0, err
	}
	lo, hi = pref.DailyBudgetRange()
	return lo, hi, nil
}

func (s *Service) setActive(ctx context.Context, userID string, active bool) error {
	user, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	user.IsActive = active
	user.UpdatedAt = s.now()
	if err := s.users.Update(ctx, user); err != nil {
		return fmt.Errorf("update user %s: %w", userID, err)
	}
	return nil
}

func (s *Service) Deactivate(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, false)
}

func (s *Service) Reactivate(ctx context.Context, userID string) error {
	return s.setActive(ctx, userID, true)
}
