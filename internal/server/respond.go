package server

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/boxtree-io/boxtree/pkg/errors"
	"github.com/boxtree-io/boxtree/pkg/store"
)

type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("write response", "error", err)
	}
}

func (s *Server) respondError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	status := statusFor(code, err)
	if status >= 500 {
		s.logger.Error("request failed", "code", code, "error", err)
	}
	s.respondJSON(w, status, errorResponse{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func statusFor(code errors.Code, err error) int {
	if stderrors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidAlgorithm,
		errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidDiagram,
		errors.ErrCodeInvalidConfig:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeDiagramNotFound,
		errors.ErrCodeRectangleNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeUnsupported:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
