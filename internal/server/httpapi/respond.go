package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/weesnerdevelopment/authkit/internal/envelope"
)

// respond writes payload wrapped in the double-encoded response envelope.
// The transport status code mirrors the envelope status.
func respond(w http.ResponseWriter, status int, payload any) {
	env, err := envelope.Seal(status, payload)
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(env)
}

// respondReason writes an error envelope whose payload carries the
// machine-readable reason code, e.g. {"status":401,"message":"{\"reasonCode\":2}"}.
func respondReason(w http.ResponseWriter, status int, reason envelope.Reason) {
	respond(w, status, map[string]int{"reasonCode": int(reason)})
}
