package mcp

import (
	"encoding/json"
	"io"
	"net/http"
)

// ServeHTTP answers one JSON-RPC message per POST request
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "Failed to read request", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	response := c.mcpServer.HandleMessage(r.Context(), body)

	w.Header().Set("Content-Type", "application/json")
	if response == nil {
		// Notifications have no reply
		w.WriteHeader(http.StatusAccepted)
		return
	}

	responseData, err := json.Marshal(response)
	if err != nil {
		http.Error(w, "Failed to marshal response", http.StatusInternalServerError)
		return
	}
	w.Write(responseData)
}
