// Package middleware provides HTTP middleware for the telemetry server.
//
// Middleware stack includes:
//   - CORS: cross-origin resource sharing with configurable origins
//   - Recovery: panic recovery with graceful error responses (via Gin)
//
// CORS Configuration:
//   - AllowOrigins: permitted origin domains
//   - AllowMethods: HTTP methods (GET, OPTIONS)
//   - AllowHeaders: request headers
//   - MaxAge: preflight cache duration
//
// Example Usage:
//
//	router.Use(middleware.CORS(middleware.DefaultCORSConfig()))
package middleware
