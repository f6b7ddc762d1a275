package middleware

import (
	"context"
	"net/http"
	apperrors "railbook/pkg/errors"
	httputil "railbook/pkg/http"
	"railbook/pkg/logger"
	"railbook/pkg/model"
	"railbook/pkg/sealer"
	"strconv"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
)

const sessionKey contextKey = "session"

// Principal is the caller identity carried by a session token.
type Principal struct {
	UserID    int64
	Role      string
	ExpiresAt time.Time
}

func (p *Principal) IsAdmin() bool {
	return p.Role == model.RoleAdmin
}

// Authenticator issues and verifies sealed session tokens.
type Authenticator struct {
	sealer *sealer.Sealer
	ttl    time.Duration
	log    *logger.Logger
	now    func() time.Time
}

func NewAuthenticator(s *sealer.Sealer, ttl time.Duration, log *logger.Logger) *Authenticator {
	return &Authenticator{
		sealer: s,
		ttl:    ttl,
		log:    log,
		now:    time.Now,
	}
}

func (a *Authenticator) Issue(userID int64, role string) (*model.Session, error) {
	expiresAt := a.now().Add(a.ttl).UTC().Truncate(time.Second)

	token, err := a.sealer.Seal(
		strconv.FormatInt(userID, 10),
		role,
		strconv.FormatInt(expiresAt.Unix(), 10),
	)
	if err != nil {
		return nil, err
	}

	return &model.Session{
		Token:     token,
		UserID:    userID,
		Role:      role,
		ExpiresAt: expiresAt,
	}, nil
}

func (a *Authenticator) Verify(token string) (*Principal, error) {
	parts, err := a.sealer.Open(token, 3)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid session token")
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid session token")
	}
	expiresUnix, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return nil, apperrors.Unauthorized("Invalid session token")
	}

	expiresAt := time.Unix(expiresUnix, 0).UTC()
	if !a.now().Before(expiresAt) {
		return nil, apperrors.Unauthorized("Session expired")
	}

	return &Principal{UserID: userID, Role: parts[1], ExpiresAt: expiresAt}, nil
}

// Authenticate requires a valid bearer token and stores the principal in the
// request context.
func (a *Authenticator) Authenticate(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		token, ok := bearerToken(r)
		if !ok {
			a.reject(w, r, apperrors.Unauthorized("Missing bearer token"))
			return
		}

		principal, err := a.Verify(token)
		if err != nil {
			a.reject(w, r, err)
			return
		}

		next(w, r.WithContext(WithPrincipal(r.Context(), principal)), ps)
	}
}

// RequireRole authenticates and then checks the principal's role.
func (a *Authenticator) RequireRole(role string, next httprouter.Handle) httprouter.Handle {
	return a.Authenticate(func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		principal, _ := PrincipalFromContext(r.Context())
		if principal.Role != role {
			a.reject(w, r, apperrors.Forbidden("Insufficient role"))
			return
		}
		next(w, r, ps)
	})
}

func (a *Authenticator) reject(w http.ResponseWriter, r *http.Request, err error) {
	a.log.Warn("Request authentication failed",
		"request_id", RequestIDFromContext(r.Context()),
		"path", r.URL.Path,
		"reason", err.Error(),
	)
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		a.log.Error("failed to write error response", "operation", "WriteError", "error", writeErr)
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || strings.TrimSpace(token) == "" {
		return "", false
	}
	return strings.TrimSpace(token), true
}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, sessionKey, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(sessionKey).(*Principal)
	return p, ok && p != nil
}
