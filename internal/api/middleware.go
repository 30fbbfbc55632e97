package api

import (
	"net/http"

	"github.com/vaidashi/backoffice-api/internal/auth"
	"github.com/vaidashi/backoffice-api/internal/service"
	"github.com/vaidashi/backoffice-api/pkg/errors"
)

// authenticate rejects requests without a valid bearer token and stores the
// caller's claims in the request context
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r)
		if !ok {
			s.respondWithError(w, r, errors.NewUnauthorizedError(errors.CodeUnauthorized, "authentication required"))
			return
		}

		claims, err := s.authService.Authenticate(r.Context(), token)
		if err != nil {
			s.respondWithError(w, r, err)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), claims)))
	})
}

// require lets the request through when the caller's role may perform action on resource
func (s *Server) require(resource, action string, next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := auth.PrincipalFrom(r.Context())
		if !ok {
			s.respondWithError(w, r, errors.NewUnauthorizedError(errors.CodeUnauthorized, "authentication required"))
			return
		}

		allowed, err := s.authorizer.Allowed(claims.Role, resource, action)
		if err != nil {
			s.respondWithError(w, r, err)
			return
		}
		if !allowed {
			s.logger.Warn("Permission denied",
				"user_id", claims.UserID,
				"role", claims.Role,
				"resource", resource,
				"action", action)
			s.respondWithError(w, r, errors.NewForbiddenError(errors.CodeForbidden, "you do not have permission to perform this action"))
			return
		}

		next(w, r)
	})
}

// actorFrom returns the authenticated administrator of the request
func actorFrom(r *http.Request) service.Actor {
	claims, _ := auth.PrincipalFrom(r.Context())
	if claims == nil {
		return service.Actor{}
	}
	return service.Actor{
		ID:    claims.UserID,
		Name:  claims.Name,
		Email: claims.Email,
		Role:  claims.Role,
	}
}
