package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"taskboard/internal/auth"
	"taskboard/internal/cache"
	"taskboard/internal/model"
	"taskboard/internal/store"
)

var (
	// ErrUnauthorized covers every credential failure: malformed token,
	// bad signature, missing or expired session, identity mismatch. The
	// causes are deliberately not distinguished to callers.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrInternal is returned when the session store itself fails.
	ErrInternal = errors.New("internal error")
)

// Identity is the result of a successful authentication: the user id plus
// denormalized profile fields so fan-out filtering needs no store lookup.
type Identity struct {
	UserID string
	Name   string
	Email  string
}

// Authenticator validates a bearer token against the signed-token scheme
// and the session store before a connection or request is admitted.
type Authenticator struct {
	Sessions    store.SessionStore
	Users       store.UserStore
	TokenConfig auth.TokenConfig
	Logger      *slog.Logger

	// Cache, when set, short-circuits the session lookup. Logout deletes
	// the cached entry alongside the store row.
	Cache    *cache.Cache
	CacheTTL time.Duration

	// now is injected by tests.
	now func() time.Time
}

func NewAuthenticator(sessions store.SessionStore, users store.UserStore, cfg auth.TokenConfig, logger *slog.Logger) *Authenticator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Authenticator{
		Sessions:    sessions,
		Users:       users,
		TokenConfig: cfg,
		Logger:      logger,
		now:         time.Now,
	}
}

// Authenticate verifies token integrity and expiry, loads the session the
// token belongs to, and checks that the session is active and owned by
// the identity encoded in the token.
func (a *Authenticator) Authenticate(ctx context.Context, token string) (Identity, error) {
	if token == "" {
		return Identity{}, ErrUnauthorized
	}

	claims, err := auth.VerifyToken(token, a.TokenConfig)
	if err != nil || claims.UserID == "" {
		return Identity{}, ErrUnauthorized
	}

	session, err := a.lookupSession(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Identity{}, ErrUnauthorized
		}
		a.Logger.Error("session lookup failed", "error", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if session.Expired(a.now()) || session.UserID != claims.UserID {
		return Identity{}, ErrUnauthorized
	}

	user, err := a.Users.GetUserByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return Identity{}, ErrUnauthorized
		}
		a.Logger.Error("user lookup failed", "error", err)
		return Identity{}, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	return Identity{UserID: user.ID, Name: user.Name, Email: user.Email}, nil
}

func (a *Authenticator) lookupSession(ctx context.Context, token string) (model.Session, error) {
	key := "session:" + token
	if a.Cache != nil {
		if cached, ok := a.Cache.Get(key); ok {
			if session, ok := cached.(model.Session); ok {
				return session, nil
			}
		}
	}

	session, err := a.Sessions.GetSessionByToken(ctx, token)
	if err != nil {
		return model.Session{}, err
	}
	if a.Cache != nil && a.CacheTTL > 0 {
		a.Cache.Set(key, session, a.CacheTTL)
	}
	return session, nil
}
