package rest

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/drivenpass/internal/common"
)

// errorResponse is the body of every non-2xx answer.
type errorResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// statusFor maps service errors to an HTTP status and error name. Anything
// unrecognised, including undecryptable stored data, is an internal error.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, "ValidationError"
	case errors.Is(err, common.ErrDuplicatedEmail):
		return http.StatusConflict, "DuplicatedEmailError"
	case errors.Is(err, common.ErrDuplicatedTitle):
		return http.StatusConflict, "DuplicatedTitleError"
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, "InvalidCredentialsError"
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, "Unauthenticated"
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, "NotFoundError"
	default:
		return http.StatusInternalServerError, "InternalError"
	}
}

func writeError(w http.ResponseWriter, status int, name, msg string) {
	writeJSON(w, status, errorResponse{Name: name, Message: msg})
}

// respondError writes the mapped error. Internal errors are logged and
// their details withheld from the client.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status, name := statusFor(err)
	if status == http.StatusInternalServerError {
		s.logger.Error(r.Context(), "request failed", "error", err, "path", r.URL.Path)
		writeError(w, status, name, "internal error")
		return
	}
	writeError(w, status, name, err.Error())
}
