package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/render"
	"github.com/golang-jwt/jwt/v5"

	"github.com/chatlinehq/chatline/internal/models"
)

const actorKey contextKey = "actor"

// Verifier checks a bearer token and returns the calling identity. The
// concrete implementation wraps the identity service's signed tokens; tests
// substitute their own.
type Verifier interface {
	Verify(token string) (models.Actor, error)
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier verifies HMAC-signed tokens carrying `sub` and `role`
// claims.
func NewJWTVerifier(secret string) Verifier {
	return &jwtVerifier{secret: []byte(secret)}
}

type actorClaims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

func (v *jwtVerifier) Verify(tokenString string) (models.Actor, error) {
	claims := &actorClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return v.secret, nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return models.Actor{}, jwt.ErrTokenUnverifiable
	}

	role := models.RoleUser
	if claims.Role == string(models.RoleAdmin) {
		role = models.RoleAdmin
	}

	return models.Actor{ID: claims.Subject, Role: role}, nil
}

// Auth rejects requests without a valid bearer token and stores the actor in
// the request context.
func Auth(verifier Verifier) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token := strings.TrimPrefix(header, "Bearer ")
			if header == "" || token == header {
				unauthorized(w, r)
				return
			}

			actor, err := verifier.Verify(token)
			if err != nil {
				unauthorized(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), actorKey, actor)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusUnauthorized)
	render.JSON(w, r, map[string]interface{}{
		"error":   ErrorCodeUnauthorized,
		"message": ErrorMessageUnauthorized,
	})
}

// GetActor returns the authenticated caller stored by Auth.
func GetActor(ctx context.Context) (models.Actor, bool) {
	actor, ok := ctx.Value(actorKey).(models.Actor)
	return actor, ok
}
