package auth

import (
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/http"

	"github.com/alexedwards/scs/sqlite3store"
	"github.com/alexedwards/scs/v2"

	"github.com/mrlokans/bookgallery/internal/config"
)

// Session data keys
const (
	SessionKeyNonceSalt = "nonce_salt"
)

// SessionManager wraps scs.SessionManager with application-specific methods.
type SessionManager struct {
	*scs.SessionManager
}

// NewSessionManager creates a session manager backed by the sessions table
// of the given SQLite database (the *sql.DB underneath GORM).
func NewSessionManager(sqlDB *sql.DB, cfg config.Session) (*SessionManager, error) {
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

	sm.Lifetime = cfg.Lifetime
	sm.IdleTimeout = cfg.Lifetime / 2

	sm.Cookie.Name = "session"
	sm.Cookie.HttpOnly = true
	sm.Cookie.Secure = cfg.SecureCookies
	sm.Cookie.SameSite = http.SameSiteLaxMode // Lax so the gallery works when linked from other sites
	sm.Cookie.Path = "/"

	return &SessionManager{SessionManager: sm}, nil
}

// NewMemorySessionManager creates a session manager with the in-memory store.
// Sessions do not survive restarts; used by tests and the seed command.
func NewMemorySessionManager() *SessionManager {
	return &SessionManager{SessionManager: scs.New()}
}

// GenerateSecret returns 32 random bytes, hex encoded.
func GenerateSecret() (string, error) {
	bytes := make([]byte, 32)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

// DecodeSecret turns a configured secret into key bytes. Hex strings are
// decoded; anything else is used verbatim.
func DecodeSecret(secret string) []byte {
	if key, err := hex.DecodeString(secret); err == nil && len(key) > 0 {
		return key
	}
	return []byte(secret)
}
