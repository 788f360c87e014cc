// Package httpapi holds the small HTTP-layer concerns the demo server
// wraps around the wsrpc core: CORS for the browser-facing endpoints
// (the demo mounts only the WebSocket endpoint), grouped the way the teacher's cmd/app/main.go wires its own
// "handler chain with CORS middleware".
package httpapi

import "net/http"

// CORSMiddleware allows any origin to reach every route of the wrapped
// handler (in the demo, the WebSocket endpoint), matching the teacher's permissive upgrader CheckOrigin and its
// own "Create handler chain with CORS middleware" comment in cmd/app/main.go.
func CORSMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
