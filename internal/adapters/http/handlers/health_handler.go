package handlers

import "net/http"

// Health reports liveness. It sits outside the rate limited subtree so
// probes never consume a client's budget.
func Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
