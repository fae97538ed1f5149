// Package protocol defines the JSON frames exchanged by a live navigation
// session over a WebSocket.
//
// Every message is one text frame holding a JSON envelope:
//
//	{"type": "location", "seq": 3, "payload": {...}}
//
// # Frame Types
//
//   - handshake: server → client, once after the upgrade, carries the session id
//   - location:  client → server, the browser location changed (link click,
//     back/forward, hash change); the server re-renders
//   - navigate:  client → server asks for a typed navigation to a named route;
//     server → client tells the browser to push or replace an href
//   - render:    server → client, the HTML of the current route
//   - error:     server → client, a failure; fatal errors close the session
//   - ping/pong: keepalive
//
// Payloads are decoded lazily with Frame.Decode so a session only pays for
// the payloads it handles.
package protocol
