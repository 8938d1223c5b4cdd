package utils

import (
	"context"
	"net/http"

	"tripwise/globals"
)

func GetUserIDFromRequest(r *http.Request) string {
	return UserIDFromContext(r.Context())
}

func UserIDFromContext(ctx context.Context) string {
	requestingUserID, ok := ctx.Value(globals.UserIDKey).(string)
	if !ok || requestingUserID == "" {
		return ""
	}
	return requestingUserID
}

func GetUsernameFromRequest(r *http.Request) string {
	username, _ := r.Context().Value(globals.UsernameKey).(string)
	return username
}
