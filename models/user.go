package models

import (
	"slices"
	"time"
)

type User struct {
	UserID            string    `json:"userid" bson:"userid"`
	Email             string    `json:"email" bson:"email"`
	Username          string    `json:"username" bson:"username"`
	FirstName         string    `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName          string    `json:"last_name,omitempty" bson:"last_name,omitempty"`
	PasswordHash      string    `json:"-" bson:"password_hash"`
	RegistrationDate  time.Time `json:"registration_date" bson:"registration_date"`
	LastLogin         time.Time `json:"last_login" bson:"last_login"`
	ProfilePictureURL string    `json:"profile_picture_url,omitempty" bson:"profile_picture_url,omitempty"`
	IsEmailVerified   bool      `json:"is_email_verified" bson:"is_email_verified"`
	IsActive          bool      `json:"is_active" bson:"is_active"`
	Locale            string    `json:"locale" bson:"locale"`
	TimeZone          string    `json:"time_zone" bson:"time_zone"`
	PreferenceID      string    `json:"preferenceid,omitempty" bson:"preferenceid,omitempty"`
	ItineraryIDs      []string  `json:"itinerary_ids" bson:"itinerary_ids"`
	UpdatedAt         time.Time `json:"updated_at" bson:"updated_at"`
}

// AddItinerary appends id unless it is already referenced.
func (u *User) AddItinerary(id string) {
	if !slices.Contains(u.ItineraryIDs, id) {
		u.ItineraryIDs = append(u.ItineraryIDs, id)
	}
}

// RemoveItinerary drops id and reports whether it was present.
func (u *User) RemoveItinerary(id string) bool {
	i := slices.Index(u.ItineraryIDs, id)
	if i < 0 {
		return false
	}
	u.ItineraryIDs = slices.Delete(u.ItineraryIDs, i, i+1)
	return true
}

// FullName joins first and last name, falling back to the username.
func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return u.Username
	}
}
