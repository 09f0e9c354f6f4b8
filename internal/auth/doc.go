// Package auth provides authentication and authorization for the API.
//
// Credentials are email + bcrypt-hashed password. A successful signup or
// login issues an opaque session token, persisted server-side in SQLite so
// login state survives restarts, and delivered to the browser as an
// HTTP-only cookie with a fixed 24-hour lifetime.
//
// # Configuration
//
//	AUTH_SESSION_LIFETIME=24h   # Fixed session TTL, no sliding expiration
//	AUTH_BCRYPT_COST=12         # bcrypt cost factor
//	AUTH_SECURE_COOKIES=true    # HTTPS-only cookies
//	AUTH_CSRF_SECRET=<32 bytes> # Enables CSRF protection when set
//
// # Usage
//
// Wire the pieces in entrypoint:
//
//	svc := auth.NewService(userRepo, cfg.Auth)
//	sm, _ := auth.NewSessionManager(sqlDB, cfg.Auth)
//	router.Use(sm.SessionLoadSave())
//
// Guard routes and extract the caller in handlers:
//
//	protected.Use(auth.RequireAuth(svc, sm))
//	provider.Use(auth.RequireRole(entities.UserRoleProvider))
//	user := auth.CurrentUser(c)
package auth
