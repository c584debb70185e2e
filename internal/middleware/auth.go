package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/nasiyabro/nasiya-backend/internal/domain"
	"github.com/nasiyabro/nasiya-backend/pkg/response"
)

type contextKey string

const actorKey contextKey = "actor"

// Claims carried in access tokens. Tokens are issued elsewhere; this
// service only verifies them and extracts the actor.
type Claims struct {
	Role       string `json:"role"`
	MagazineID string `json:"magazine_id,omitempty"`
	ManagerID  string `json:"manager_id,omitempty"`
	jwt.RegisteredClaims
}

// Auth verifies the bearer token and stores the actor in the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				response.Unauthorized(w, "missing or malformed authorization header")
				return
			}

			claims := &Claims{}
			token, err := jwt.ParseWithClaims(
				strings.TrimPrefix(header, "Bearer "),
				claims,
				func(t *jwt.Token) (interface{}, error) {
					if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
						return nil, jwt.ErrSignatureInvalid
					}
					return []byte(secret), nil
				},
			)
			if err != nil || !token.Valid {
				response.Unauthorized(w, "invalid token")
				return
			}

			userID, err := uuid.Parse(claims.Subject)
			if err != nil {
				response.Unauthorized(w, "invalid token subject")
				return
			}

			actor := domain.Actor{
				UserID: userID,
				Role:   claims.Role,
			}
			if id, err := uuid.Parse(claims.MagazineID); err == nil {
				actor.MagazineID = id
			}
			if id, err := uuid.Parse(claims.ManagerID); err == nil {
				actor.ManagerID = id
			}

			next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), actor)))
		})
	}
}

// WithActor stores an actor in the context the same way Auth does.
func WithActor(ctx context.Context, actor domain.Actor) context.Context {
	return context.WithValue(ctx, actorKey, actor)
}

// ActorFrom returns the authenticated actor stored by Auth.
func ActorFrom(ctx context.Context) (domain.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(domain.Actor)
	return actor, ok
}
