package middleware

import (
	"errors"
	"net/http"
	"strings"

	"carrental/pkg/auth"
	apperrors "carrental/pkg/errors"
	httputil "carrental/pkg/http"
	"carrental/pkg/logger"
	"carrental/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Gate authenticates bearer tokens and authorizes capabilities per route.
type Gate struct {
	tokens auth.TokenMaker
	log    *logger.Logger
}

func NewGate(tokens auth.TokenMaker, log *logger.Logger) *Gate {
	return &Gate{tokens: tokens, log: log}
}

// Authenticate rejects requests without a valid token with 401 and attaches
// the caller identity to the context otherwise.
func (g *Gate) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			_ = httputil.WriteError(w, apperrors.Unauthorized("No token, authorization denied"))
			return
		}

		claims, err := g.tokens.Verify(strings.TrimSpace(token))
		if err != nil {
			msg := "Token is not valid"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Token has expired"
			}
			g.log.Warn("Token verification failed",
				"request_id", GetRequestID(r.Context()),
				"path", r.URL.Path,
				"error", err,
			)
			_ = httputil.WriteError(w, apperrors.Unauthorized(msg))
			return
		}

		ctx := auth.WithIdentity(r.Context(), &auth.Identity{
			UserID:   claims.UserID,
			Username: claims.Username,
			Role:     claims.Role,
		})
		next(w, r.WithContext(ctx), ps)
	}
}

// Require authenticates and then checks that the caller's role grants c.
func (g *Gate) Require(c model.Capability, next httprouter.Handle) httprouter.Handle {
	return g.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, _ := auth.IdentityFrom(r.Context())
		if !id.Role.Can(c) {
			g.log.Warn("Access denied",
				"request_id", GetRequestID(r.Context()),
				"user_id", id.UserID,
				"role", id.Role,
				"capability", c,
			)
			_ = httputil.WriteError(w, apperrors.Forbidden("Access denied"))
			return
		}
		next(w, r, ps)
	})
}

// RequireRole is Require for routes that are tied to a role rather than a capability.
func (g *Gate) RequireRole(role model.Role, next httprouter.Handle) httprouter.Handle {
	return g.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		id, _ := auth.IdentityFrom(r.Context())
		if id.Role != role {
			_ = httputil.WriteError(w, apperrors.Forbidden("Access denied"))
			return
		}
		next(w, r, ps)
	})
}
