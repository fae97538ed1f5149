// Package server serves a route table over HTTP and keeps live sessions in
// sync with the browser location over a WebSocket.
//
// # Sessions
//
// Each WebSocket connection gets a Session. The client reports every
// location change with a location frame; the session resolves the href,
// renders the matching route and answers with a render frame. A client may
// also ask for a navigation by route name and untyped arguments.
//
// A Session implements router.History, so typed route actions can be bound
// to it:
//
//	route.Actions(sess).Push(userArgs{ID: 7})
//
// A server-side Push or Replace sends a navigate frame, updates the session
// location and renders the target.
//
// # Lifecycle
//
// The session runs two goroutines:
//   - ReadLoop: reads frames and dispatches them
//   - WriteLoop: sends heartbeat pings until the session closes
//
// Writes to the connection are serialized by the session mutex.
package server
