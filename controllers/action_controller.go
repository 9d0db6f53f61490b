package controllers

import (
	"encoding/json"
	"log"
	"net/http"

	"trailmate_server/services"
)

// ActionController handles like/pass/unmatch/reset requests
type ActionController struct {
	MatchService *services.MatchService
}

// NewActionController creates a new ActionController instance
func NewActionController(matchService *services.MatchService) *ActionController {
	return &ActionController{MatchService: matchService}
}

type pairRequest struct {
	UserID       string `json:"userId"`
	TargetUserID string `json:"targetUserId"`
}

func decodePairRequest(w http.ResponseWriter, r *http.Request) (*pairRequest, bool) {
	var request pairRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return nil, false
	}
	if request.UserID == "" || request.TargetUserID == "" {
		http.Error(w, `{"error": "userId and targetUserId are required"}`, http.StatusBadRequest)
		return nil, false
	}
	return &request, true
}

// HandleLike records a like and reports whether it completed a match
func (c *ActionController) HandleLike(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePairRequest(w, r)
	if !ok {
		return
	}

	matched, err := c.MatchService.Like(r.Context(), request.UserID, request.TargetUserID)
	if err != nil {
		log.Printf("Error processing like: %v", err)
		http.Error(w, `{"error": "Failed to process like"}`, http.StatusInternalServerError)
		return
	}

	response := map[string]interface{}{"matched": matched}
	if matched {
		response["message"] = "It's a match!"
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(response)
}

// HandlePass records a one-sided pass
func (c *ActionController) HandlePass(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePairRequest(w, r)
	if !ok {
		return
	}

	if err := c.MatchService.Pass(r.Context(), request.UserID, request.TargetUserID); err != nil {
		log.Printf("Error processing pass: %v", err)
		http.Error(w, `{"error": "Failed to process pass"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "User passed"})
}

// HandleUnmatch dissolves an existing match and purges its chat
func (c *ActionController) HandleUnmatch(w http.ResponseWriter, r *http.Request) {
	request, ok := decodePairRequest(w, r)
	if !ok {
		return
	}

	if err := c.MatchService.Unmatch(r.Context(), request.UserID, request.TargetUserID); err != nil {
		log.Printf("Error processing unmatch: %v", err)
		http.Error(w, `{"error": "Failed to process unmatch"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Unmatched"})
}

// HandleReset clears the caller's interaction history
func (c *ActionController) HandleReset(w http.ResponseWriter, r *http.Request) {
	var request struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if request.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	if err := c.MatchService.ResetInteractions(r.Context(), request.UserID); err != nil {
		log.Printf("Error resetting interactions: %v", err)
		http.Error(w, `{"error": "Failed to reset interactions"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Interactions reset"})
}
