package httputil

import (
	"encoding/json"
	"maps"
	"net/http"
	"strconv"

	"marketplace/internal/domain"
)

const problemContentType = "application/problem+json"

// problemTypes maps the statuses the API emits to RFC 7807 type URIs.
// Anything else is reported as about:blank.
var problemTypes = map[int]string{
	http.StatusBadRequest:            "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.1",
	http.StatusUnauthorized:          "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.2",
	http.StatusForbidden:             "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.4",
	http.StatusNotFound:              "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.5",
	http.StatusConflict:              "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.10",
	http.StatusRequestEntityTooLarge: "https://datatracker.ietf.org/doc/html/rfc9110#section-15.5.14",
	http.StatusTooManyRequests:       "https://datatracker.ietf.org/doc/html/rfc6585#section-4",
	http.StatusInternalServerError:   "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.1",
	http.StatusServiceUnavailable:    "https://datatracker.ietf.org/doc/html/rfc9110#section-15.6.4",
}

// RespondJSON writes data as JSON. The payload is encoded before any header
// is written, so an encoding failure still yields a clean 500.
func RespondJSON(w http.ResponseWriter, status int, data any) {
	payload, err := json.Marshal(data)
	if err != nil {
		RespondError(w, http.StatusInternalServerError, "failed to encode response")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(payload)
}

// Problem is an RFC 7807 problem document. Extra members are flattened
// next to the standard ones.
type Problem struct {
	Type   string
	Title  string
	Status int
	Detail string
	Extra  map[string]any
}

// NewProblem builds the problem document for status.
func NewProblem(status int, detail string) Problem {
	typ, ok := problemTypes[status]
	if !ok {
		typ = "about:blank"
	}
	return Problem{Type: typ, Title: http.StatusText(status), Status: status, Detail: detail}
}

func (p Problem) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(p.Extra)+4)
	maps.Copy(m, p.Extra)
	m["type"] = p.Type
	m["title"] = p.Title
	m["status"] = p.Status
	if p.Detail != "" {
		m["detail"] = p.Detail
	}
	return json.Marshal(m)
}

// Write sends the problem with its status code.
func (p Problem) Write(w http.ResponseWriter) {
	payload, err := json.Marshal(p)
	if err != nil {
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", problemContentType)
	w.WriteHeader(p.Status)
	w.Write(payload)
}

// RespondError writes a problem document with no extra members.
func RespondError(w http.ResponseWriter, status int, detail string) {
	NewProblem(status, detail).Write(w)
}

// RespondErrorWithExtras writes a problem document carrying extras, such as
// the rejected field of a validation failure.
func RespondErrorWithExtras(w http.ResponseWriter, status int, detail string, extras map[string]any) {
	p := NewProblem(status, detail)
	p.Extra = extras
	p.Write(w)
}

// RespondRateLimited writes a 429 with Retry-After in seconds and the
// remaining window in whole minutes.
func RespondRateLimited(w http.ResponseWriter, err *domain.RateLimitedError) {
	minutes := err.RetryAfterMinutes()
	w.Header().Set("Retry-After", strconv.Itoa(minutes*60))
	RespondErrorWithExtras(w, http.StatusTooManyRequests, err.Error(), map[string]any{
		"retry_after_minutes": minutes,
	})
}
