package controllers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trailmate_server/services"
)

// DiscoveryController serves the ranked candidate feed
type DiscoveryController struct {
	DiscoveryService *services.DiscoveryService
}

// NewDiscoveryController creates a new DiscoveryController instance
func NewDiscoveryController(discoveryService *services.DiscoveryService) *DiscoveryController {
	return &DiscoveryController{DiscoveryService: discoveryService}
}

// GetCandidates returns eligible profiles ordered by compatibility, with
// the prune counts the client uses to explain an empty feed. A missing
// requester profile is 404 so the client can redirect to profile creation.
func (c *DiscoveryController) GetCandidates(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")

	candidates, diagnostics, err := c.DiscoveryService.GetCandidates(r.Context(), userID)
	if errors.Is(err, services.ErrNoProfile) {
		http.Error(w, `{"error": "Profile required before browsing candidates"}`, http.StatusNotFound)
		return
	}
	if err != nil {
		log.Printf("Failed to fetch candidates for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch candidates"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"candidates":  candidates,
		"diagnostics": diagnostics,
	})
}
