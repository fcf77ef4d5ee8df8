package rest

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/drivenpass/internal/common"
	"github.com/dmitrijs2005/drivenpass/internal/logging"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type ctxKey string

const (
	userIDKey ctxKey = "userID"
	tokenKey  ctxKey = "token"
)

const traceIDHeader = "X-Trace-ID"

// Reasons reported to the auth_failures_total metric.
const (
	reasonMissingHeader = "missing_header"
	reasonMalformed     = "malformed_header"
	reasonInvalidToken  = "invalid_token"
	reasonNoSession     = "no_session"
)

func userIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(userIDKey).(int64)
	return id, ok
}

func tokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenKey).(string)
	return token, ok
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is matched case-insensitively.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, common.BearerScheme) {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// authenticate admits requests carrying a valid token with a live session
// and stores the user id and token in the request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		header := r.Header.Get(common.AuthorizationHeaderName)
		if header == "" {
			s.rejectAuth(w, r, reasonMissingHeader, "missing authorization header")
			return
		}

		token, ok := bearerToken(header)
		if !ok {
			s.rejectAuth(w, r, reasonMalformed, "malformed authorization header")
			return
		}

		userID, err := s.users.Authenticate(ctx, token)
		if err != nil {
			switch {
			case errors.Is(err, common.ErrSessionNotFound):
				s.rejectAuth(w, r, reasonNoSession, "session not found")
			case errors.Is(err, common.ErrorUnauthorized):
				s.rejectAuth(w, r, reasonInvalidToken, "invalid token")
			default:
				s.logger.Error(ctx, "session lookup failed", "error", err)
				writeError(w, http.StatusInternalServerError, "InternalError", "internal error")
			}
			return
		}

		ctx = context.WithValue(ctx, userIDKey, userID)
		ctx = context.WithValue(ctx, tokenKey, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) rejectAuth(w http.ResponseWriter, r *http.Request, reason, msg string) {
	s.metrics.AuthFailure(reason)
	s.logger.Warn(r.Context(), "authentication failed", "reason", reason, "path", r.URL.Path)
	writeError(w, http.StatusUnauthorized, "Unauthenticated", msg)
}

// requestLogger assigns a trace id to every request (reusing a valid
// incoming X-Trace-ID), echoes it back and logs the outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := r.Header.Get(traceIDHeader)
		if _, err := uuid.Parse(traceID); err != nil {
			traceID = uuid.NewString()
		}
		w.Header().Set(traceIDHeader, traceID)

		ctx := logging.WithTraceID(r.Context(), traceID)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		s.logger.Info(ctx, "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).String(),
		)
	})
}
