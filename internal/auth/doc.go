// Package auth provides session handling and request forgery protection.
//
// Authentication itself is out of scope: the admin area is expected to sit
// behind whatever the deployment uses (reverse proxy auth, VPN, ...). What
// this package does own:
//
//   - SessionManager: scs sessions stored in the SQLite database
//   - NonceManager: per-form tokens bound to an action and the session
//   - CSRFMiddleware: gorilla/csrf protection for the admin forms
//   - SecurityHeadersMiddleware: response hardening headers
//
// Nonces are used where a failed check must be silent (the gallery meta box),
// gorilla/csrf where a failed check should reject the whole request.
//
//	sessions, _ := auth.NewSessionManager(sqlDB, cfg.Session)
//	nonces := auth.NewNonceManager(sessions, secret, cfg.Session.NonceLifetime)
//	nonce, _ := nonces.Create(ctx, "book_gallery_meta_box")
//	ok := nonces.Verify(ctx, "book_gallery_meta_box", nonce)
package auth
