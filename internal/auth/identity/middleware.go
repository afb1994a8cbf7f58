// Package identity resolves the bearer token of an inbound request to a live
// user record and attaches it to the request context. A request either reaches
// the wrapped handler carrying a fully loaded user, or is rejected with 401
// before any handler code runs.
package identity

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	commonerrors "github.com/mzhdanov/bloglist/internal/common/errors"
	commonhttp "github.com/mzhdanov/bloglist/internal/common/http"
	"github.com/mzhdanov/bloglist/internal/common/logger"
	"github.com/mzhdanov/bloglist/internal/observability/metrics"
	userdomain "github.com/mzhdanov/bloglist/internal/user/domain"
	userrepo "github.com/mzhdanov/bloglist/internal/user/repository"
)

const bearerPrefix = "Bearer "

type contextKey string

const userKey contextKey = "authenticated_user"

// Resolver verifies bearer tokens against the injected secret and loads the
// token subject from the user repository.
type Resolver struct {
	secret []byte
	users  userrepo.Repository
	errors *commonhttp.ErrorHandler
	log    *logger.Logger
}

func NewResolver(secret string, users userrepo.Repository, log *logger.Logger) *Resolver {
	return &Resolver{
		secret: []byte(secret),
		users:  users,
		errors: commonhttp.NewErrorHandler(log),
		log:    log,
	}
}

// RequireUser gates a handler behind token verification and user resolution.
// The scheme prefix check is case-sensitive, matching the issuing side.
func (res *Resolver) RequireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := r.Header.Get("Authorization")
		if !strings.HasPrefix(raw, bearerPrefix) {
			res.reject(w, r, "missing_header", commonerrors.ErrMissingAuthorization)
			return
		}

		tokenString := raw[len(bearerPrefix):]
		claims, err := parseToken(tokenString, res.secret)
		if err != nil {
			res.reject(w, r, "invalid_token", commonerrors.ErrInvalidToken.WithCause(err))
			return
		}

		if claims.UserID == "" {
			res.reject(w, r, "missing_subject", commonerrors.ErrMissingTokenClaims)
			return
		}

		user, err := res.users.FindByID(r.Context(), userdomain.ID(claims.UserID))
		if err != nil {
			if errors.Is(err, userrepo.ErrUserNotFound) {
				res.reject(w, r, "user_not_found", commonerrors.ErrTokenUserNotFound)
				return
			}
			res.log.WithFields(r.Context(), logger.Fields{
				"action": "identity_lookup_failed",
			}).Errorf("identity resolution failed: %v", err)
			res.errors.HandleError(w, r, commonerrors.ErrInternalError.WithCause(err))
			return
		}

		ctx := context.WithValue(r.Context(), userKey, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (res *Resolver) reject(w http.ResponseWriter, r *http.Request, reason string, err commonerrors.DomainError) {
	metrics.AuthRejectionsTotal.WithLabelValues(reason).Inc()
	res.log.WithFields(r.Context(), logger.Fields{
		"path":   r.URL.Path,
		"reason": reason,
		"action": "auth_rejected",
	}).Warnf("request rejected: %s", err.Message())
	res.errors.HandleError(w, r, err)
}

// UserFromContext returns the user attached by RequireUser.
func UserFromContext(ctx context.Context) (userdomain.User, bool) {
	user, ok := ctx.Value(userKey).(userdomain.User)
	return user, ok
}

type claims struct {
	UserID   string
	Username string
}

func parseToken(tokenString string, secret []byte) (claims, error) {
	metrics.JWTValidationsTotal.Inc()

	parsed, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !parsed.Valid {
		metrics.JWTValidationsFailed.Inc()
		if err == nil {
			err = errors.New("token is not valid")
		}
		return claims{}, err
	}

	mapClaims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		metrics.JWTValidationsFailed.Inc()
		return claims{}, errors.New("invalid claims type")
	}

	sub, _ := mapClaims["sub"].(string)
	username, _ := mapClaims["usr"].(string)

	return claims{
		UserID:   sub,
		Username: username,
	}, nil
}
