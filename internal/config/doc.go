// Package config loads typedroute.yaml, the configuration of the typedroute
// server.
//
//	server:
//	  address: ":8080"
//	  websocket_path: /_live
//	  heartbeat_interval: 30s
//	  max_sessions: 1000
//	metrics:
//	  enabled: true
//	tracing:
//	  enabled: true
//	manifest: routes.yaml
//
// Unset values take the defaults of New. Invalid files report E160.
package config
