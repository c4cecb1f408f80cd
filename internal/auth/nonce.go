package auth

import (
	"context"
	"crypto/subtle"
	"errors"
	"time"

	"github.com/gorilla/securecookie"
)

// ErrNoSession is returned when a nonce is requested outside a loaded session.
var ErrNoSession = errors.New("auth: no session in context")

// NonceManager issues and verifies per-form tokens. A nonce is bound to an
// action name and to a random salt kept in the caller's session, and expires
// after the configured lifetime.
type NonceManager struct {
	sessions *SessionManager
	codec    *securecookie.SecureCookie
}

type noncePayload struct {
	Action string `json:"a"`
	Salt   string `json:"s"`
}

// NewNonceManager creates a nonce manager signing with secret.
func NewNonceManager(sessions *SessionManager, secret []byte, lifetime time.Duration) *NonceManager {
	codec := securecookie.New(secret, nil)
	codec.SetSerializer(securecookie.JSONEncoder{})
	if lifetime > 0 {
		codec.MaxAge(int(lifetime.Seconds()))
	}
	return &NonceManager{sessions: sessions, codec: codec}
}

// Create returns a nonce for action, creating the session salt on first use.
func (n *NonceManager) Create(ctx context.Context, action string) (nonce string, err error) {
	defer func() {
		// scs panics when the context carries no session data
		if r := recover(); r != nil {
			nonce, err = "", ErrNoSession
		}
	}()

	salt := n.sessions.GetString(ctx, SessionKeyNonceSalt)
	if salt == "" {
		salt, err = GenerateSecret()
		if err != nil {
			return "", err
		}
		n.sessions.Put(ctx, SessionKeyNonceSalt, salt)
	}

	return n.codec.Encode(action, noncePayload{Action: action, Salt: salt})
}

// Verify reports whether nonce was issued for action in the current session.
// It never modifies the session.
func (n *NonceManager) Verify(ctx context.Context, action, nonce string) (ok bool) {
	if nonce == "" {
		return false
	}
	defer func() {
		if r := recover(); r != nil {
			ok = false
		}
	}()

	var payload noncePayload
	if err := n.codec.Decode(action, nonce, &payload); err != nil {
		return false
	}

	salt := n.sessions.GetString(ctx, SessionKeyNonceSalt)
	if salt == "" || payload.Action != action {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(salt), []byte(payload.Salt)) == 1
}
