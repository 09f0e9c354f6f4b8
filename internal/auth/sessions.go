package auth

import (
	"database/sql"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/kaamkrao/kaamkrao/internal/config"
	"github.com/kaamkrao/kaamkrao/internal/entities"
)

// SessionKeyUserID is the session payload: just the owning user's id. The
// full user record is reloaded from the database on every request.
const SessionKeyUserID = "user_id"

// SessionManager wraps scs.SessionManager with application-specific methods.
// Sessions are persisted in SQLite so login state survives process restarts.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a configured session manager backed by the given
// database. The sqlDB parameter should be the underlying *sql.DB from GORM.
func NewSessionManager(sqlDB *sql.DB, cfg config.Auth) (*SessionManager, error) {
	// Create the sessions table sqlite3store expects
	_, err := sqlDB.Exec(`CREATE TABLE IF NOT EXISTS sessions (
		token TEXT PRIMARY KEY,
		data BLOB NOT NULL,
		expiry REAL NOT NULL
	);
	CREATE INDEX IF NOT EXISTS sessions_expiry_idx ON sessions(expiry);`)
	if err != nil {
		return nil, err
	}

	sm := scs.New()
	sm.Store = sqlite3store.New(sqlDB)

	// Fixed TTL from creation. IdleTimeout stays zero: activity does not
	// extend a session.
	sm.Lifetime = cfg.SessionLifetime

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// CreateSession issues a session for a user after successful signup or
// login. The token is renewed first to prevent session fixation.
func (sm *SessionManager) CreateSession(r *http.Request, user *entities.User) error {
	if err := sm.RenewToken(r.Context()); err != nil {
		return err
	}
	sm.Put(r.Context(), SessionKeyUserID, int(user.ID))
	return nil
}

// DestroySession removes all session data and invalidates the token.
// Revocation is terminal; the token never resolves again.
func (sm *SessionManager) DestroySession(r *http.Request) error {
	return sm.Destroy(r.Context())
}

// ResolveUserID returns the user id the request's session names, or 0 when
// the request carries no live session.
func (sm *SessionManager) ResolveUserID(r *http.Request) uint {
	return uint(sm.GetInt(r.Context(), SessionKeyUserID))
}
