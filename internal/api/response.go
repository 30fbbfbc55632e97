package api

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"

	"github.com/vaidashi/backoffice-api/pkg/errors"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// Envelope is the body of every API response
type Envelope struct {
	Success bool                `json:"success"`
	Code    string              `json:"code"`
	Message string              `json:"message,omitempty"`
	Data    interface{}         `json:"data,omitempty"`
	Errors  []errors.FieldError `json:"errors,omitempty"`
}

// respondWithJSON sends a JSON response
func (s *Server) respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		s.logger.Error("Failed to marshal response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(response); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}

func (s *Server) ok(w http.ResponseWriter, data interface{}) {
	s.respondWithJSON(w, http.StatusOK, Envelope{Success: true, Code: errors.CodeOK, Data: data})
}

func (s *Server) okMessage(w http.ResponseWriter, message string, data interface{}) {
	s.respondWithJSON(w, http.StatusOK, Envelope{Success: true, Code: errors.CodeOK, Message: message, Data: data})
}

func (s *Server) created(w http.ResponseWriter, message string, data interface{}) {
	s.respondWithJSON(w, http.StatusCreated, Envelope{Success: true, Code: errors.CodeCreated, Message: message, Data: data})
}

// respondWithError maps err onto the envelope. Anything that is not an
// AppError is logged and reported as INTERNAL_ERROR.
func (s *Server) respondWithError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		s.logger.Error("Unhandled error",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
		appErr = errors.NewInternalError("internal server error")
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "error", appErr.Err, "code", appErr.Code, "path", r.URL.Path)
	}

	s.respondWithJSON(w, appErr.StatusCode, Envelope{
		Success: false,
		Code:    appErr.Code,
		Message: appErr.Error(),
		Errors:  appErr.Fields,
	})
}

// decodeJSON reads the request body into dst. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst interface{}) error {
	defer r.Body.Close()

	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.NewValidationError(fmt.Sprintf("invalid request payload: %v", err))
	}
	return nil
}
