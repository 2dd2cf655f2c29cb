package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"studynotes/internal/config"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is capped slightly above the note content ceiling so oversized
// payloads fail fast with 413 instead of being buffered whole.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest any) error {
	r.Body = http.MaxBytesReader(w, r.Body, config.MaxNoteContentBytes+64*1024)

	decoder := json.NewDecoder(r.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	return nil
}

// QueryInt reads an integer query parameter, falling back to def when the
// parameter is absent or malformed.
func QueryInt(r *http.Request, name string, def int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return value
}

// Pagination reads limit/offset query parameters with the service-wide
// defaults and bounds applied.
func Pagination(r *http.Request) (limit, offset int) {
	limit = QueryInt(r, "limit", config.DefaultPageSize)
	if limit <= 0 {
		limit = config.DefaultPageSize
	}
	if limit > config.MaxPageSize {
		limit = config.MaxPageSize
	}
	offset = QueryInt(r, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
