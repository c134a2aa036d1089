package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/iho/agroledger/internal/adapter/http/dto"
	"github.com/iho/agroledger/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError writes err with the status mapDomainError picks for it.
// Validation failures carry their field errors.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	resp := dto.ErrorResponse{Error: message, Message: err.Error()}

	var verr *dto.ValidationError
	if errors.As(err, &verr) {
		resp.Details = verr.Fields
	}

	writeJSON(w, mapDomainError(err), resp)
}

// writeFile writes a binary attachment.
func writeFile(w http.ResponseWriter, contentType, filename string, data []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// decodeJSON decodes the request body into dst.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: %w", dto.ErrInvalidRequest, err)
	}
	return nil
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, dto.ErrInvalidRequest):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidAmount):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidTransactionType):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConcurrentModification):
		return http.StatusConflict
	case errors.Is(err, domain.ErrLedgerCorruption):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyPosted):
		return http.StatusConflict
	case errors.Is(err, domain.ErrExceedsLimit):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrExceedsOutstanding):
		return http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// parseDateQuery parses an optional date query parameter.
func parseDateQuery(r *http.Request, key string) (*time.Time, error) {
	val := r.URL.Query().Get(key)
	if val == "" {
		return nil, nil
	}
	t, err := dto.ParseDate(key, val)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// pageQuery slices entries by ?limit and ?offset; without either, entries are returned whole.
func pageQuery(r *http.Request, entries []*domain.LedgerEntry) ([]*domain.LedgerEntry, error) {
	q := r.URL.Query()
	if q.Get("limit") == "" && q.Get("offset") == "" {
		return entries, nil
	}

	limit, err := intQuery(q.Get("limit"))
	if err != nil {
		return nil, fmt.Errorf("%w: limit: %w", dto.ErrInvalidRequest, err)
	}
	offset, err := intQuery(q.Get("offset"))
	if err != nil {
		return nil, fmt.Errorf("%w: offset: %w", dto.ErrInvalidRequest, err)
	}

	limit, offset, err = domain.ValidatePagination(limit, offset)
	if err != nil {
		return nil, err
	}
	if offset >= len(entries) {
		return []*domain.LedgerEntry{}, nil
	}
	end := min(offset+limit, len(entries))
	return entries[offset:end], nil
}

func intQuery(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}
