package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"

	"github.com/Cyber-shmuck/Dutch/internal/storage"
)

// Error codes of the JSON error envelope.
const (
	codeValidation   = "validation"
	codeNotFound     = "not_found"
	codeNotPersisted = "not_persisted"
	codeUnauthorized = "unauthorized"
	codeConflict     = "conflict"
	codeInternal     = "internal"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: errorBody{Message: message, Code: code}})
}

func respondFieldError(w http.ResponseWriter, field, message string) {
	respondJSON(w, http.StatusBadRequest, errorResponse{Error: errorBody{
		Message: message,
		Code:    codeValidation,
		Field:   field,
	}})
}

// handleStoreError checks for common store errors and writes the appropriate
// response. Returns true if an error was handled (caller should return).
func (s *Server) handleStoreError(w http.ResponseWriter, err error, entity string) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, storage.ErrNotFound) {
		respondError(w, http.StatusNotFound, codeNotFound, entity+" not found")
		return true
	}
	s.logger.Error("store error", "error", err, "entity", entity)
	respondError(w, http.StatusInternalServerError, codeInternal, "internal error")
	return true
}

// decode reads a JSON body into dst and validates it. On failure the
// response has been written and false is returned.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		respondError(w, http.StatusBadRequest, codeValidation, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			respondFieldError(w, fe.Field(), validationMessage(fe))
			return false
		}
		respondError(w, http.StatusBadRequest, codeValidation, err.Error())
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fe.Field() + " is required"
	case "email":
		return fe.Field() + " must be a valid email address"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", fe.Field(), fe.Param())
	}
	return fmt.Sprintf("%s failed %s validation", fe.Field(), fe.Tag())
}

// pathID parses the {id} path value. On failure the response has been written.
func pathID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		respondFieldError(w, "id", "invalid id")
		return 0, false
	}
	return id, true
}
