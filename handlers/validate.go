package handlers

import (
	"encoding/json"
	"net/http"
	"regexp"
)

var emailRegexp = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

func validEmail(email string) bool {
	return emailRegexp.MatchString(email)
}

// decodeBody parses a JSON request body into dst. On failure it writes the
// BAD_REQUEST envelope and returns false.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body")
		return false
	}
	return true
}

// validate runs a request's Validate method and writes the field-level
// BAD_REQUEST envelope when anything is violated. Returns true when the
// request is clean.
func validate(w http.ResponseWriter, req interface{ Validate() []FieldError }) bool {
	if details := req.Validate(); len(details) > 0 {
		writeValidationError(w, details)
		return false
	}
	return true
}
