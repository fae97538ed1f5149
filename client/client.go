// Package client embeds the browser script of live sessions.
//
// The script connects to the WebSocket path it is served under, reports
// the location on connect, on data-link clicks and on popstate, and
// applies render and navigate frames.
package client

import (
	"bytes"
	_ "embed"
	"net/http"
	"time"
)

// JS is the live client script.
//
//go:embed typedroute.js
var JS []byte

// FileName is the name the script is served under, below the WebSocket
// path.
const FileName = "client.js"

// Path returns the script URL for a WebSocket path.
func Path(websocketPath string) string {
	if len(websocketPath) > 0 && websocketPath[len(websocketPath)-1] == '/' {
		return websocketPath + FileName
	}
	return websocketPath + "/" + FileName
}

var modTime = time.Now()

// Handler serves the script.
func Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/javascript; charset=utf-8")
		w.Header().Set("Cache-Control", "no-cache")
		http.ServeContent(w, r, FileName, modTime, bytes.NewReader(JS))
	})
}
