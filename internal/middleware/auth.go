package middleware

import (
	"context"
	"net/http"

	"github.com/2beens/gymsession/internal/auth"
	"github.com/2beens/gymsession/internal/telemetry/tracing"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:generate mockgen -source=$GOFILE -destination=auth_mocks_test.go -package=middleware_test

type clientChecker interface {
	IsAuthorized(ctx context.Context, token string) (bool, error)
}

type AuthMiddlewareHandler struct {
	checker      clientChecker
	allowedPaths map[string]bool
}

func NewAuthMiddlewareHandler(checker clientChecker) *AuthMiddlewareHandler {
	return &AuthMiddlewareHandler{
		checker: checker,
		allowedPaths: map[string]bool{
			"/":        true,
			"/health":  true,
			"/version": true,
		},
	}
}

// AuthCheck lets through requests carrying a valid client token and an owner id.
// The owner id is put into the request context for the handlers.
func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()

			if r.Method == http.MethodOptions {
				w.Header().Add("Allow", "GET, POST, DELETE, OPTIONS")
				w.WriteHeader(http.StatusOK)
				span.SetStatus(codes.Ok, "options-ok")
				return
			}

			if h.allowedPaths[r.URL.Path] {
				span.SetStatus(codes.Ok, "ok")
				next.ServeHTTP(w, r)
				return
			}

			token := r.Header.Get(auth.ClientTokenHeader)
			if token == "" {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			authorized, err := h.checker.IsAuthorized(ctx, token)
			if err != nil {
				log.Errorf("[failed auth check] => %s: %s", r.URL.Path, err)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "check-token-err")
				span.RecordError(err)
				return
			}
			if !authorized {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				http.Error(w, "no can do", http.StatusUnauthorized)
				span.SetStatus(codes.Error, "invalid-token")
				return
			}

			ownerID, err := auth.ParseOwnerID(r.Header.Get(auth.OwnerIDHeader))
			if err != nil {
				http.Error(w, "missing owner", http.StatusBadRequest)
				span.SetStatus(codes.Error, "missing-owner")
				return
			}
			span.SetAttributes(attribute.Int64("owner.id", ownerID))

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(auth.ContextWithOwnerID(ctx, ownerID)))
		})
	}
}
