// Package middleware provides route middleware for observability.
//
// Both middlewares wrap every render of a route table, whether it comes
// from a full page request or from a live session:
//
//	m := middleware.NewMetrics(middleware.WithNamespace("myapp"))
//	srv.Use(m.Middleware(), middleware.OpenTelemetry())
//
// Live session counts are recorded through the server hooks:
//
//	cfg.OnSessionStart = m.SessionStarted
//	cfg.OnSessionEnd = m.SessionEnded
package middleware
