package server

import (
	"encoding/json"
	"errors"
	"net/http"
)

var (
	// ErrServiceRequired indicates New was called without a service.
	ErrServiceRequired = errors.New("service is required")

	// ErrResumeDirRequired indicates New was called without a resume directory.
	ErrResumeDirRequired = errors.New("resume directory is required")
)

// errorHandler writes the response for err and reports whether it did.
type errorHandler func(w http.ResponseWriter, err error) bool

// sentinelHandler matches a single sentinel error. An empty message sends
// the error text itself.
func sentinelHandler(sentinel error, status int, message string) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		msg := message
		if msg == "" {
			msg = err.Error()
		}
		writeError(w, status, msg)
		return true
	}
}

func (s *Server) handleServiceError(w http.ResponseWriter, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			s.logger.Warn("request rejected", "err", err)
			return
		}
	}
	s.logger.Error("internal error", "err", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
