package controllers

import (
	"net/http"

	"virtualevents/internal/delivery/http/helpers"
	"virtualevents/internal/delivery/http/middleware"
)

// UserIDOr401 extracts the authenticated user id from the request context.
// An absent id means the handler was mounted without the auth wrapper; the
// caller gets a 401 and the handler must return.
func UserIDOr401(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "authentication required")
		return "", false
	}
	return userID, true
}
