package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"trailmate_server/models"
	"trailmate_server/services"
)

// TripController handles itinerary generation and trip persistence
type TripController struct {
	ItineraryService *services.ItineraryService
}

// NewTripController creates a new TripController instance
func NewTripController(itineraryService *services.ItineraryService) *TripController {
	return &TripController{ItineraryService: itineraryService}
}

type generateRequest struct {
	Location  string   `json:"location"`
	GroupSize int      `json:"groupSize"`
	Budget    string   `json:"budget"`
	Hints     []string `json:"interestHints"`
}

func (g generateRequest) params() services.TripParams {
	return services.TripParams{
		Location:  g.Location,
		GroupSize: g.GroupSize,
		Budget:    g.Budget,
		Hints:     g.Hints,
	}
}

// writePipelineError maps itinerary pipeline failures to a retryable
// client message
func writePipelineError(w http.ResponseWriter, err error) {
	var genErr *services.GenerationError
	var parseErr *services.ParseError
	switch {
	case errors.As(err, &genErr), errors.As(err, &parseErr):
		log.Printf("Itinerary pipeline failed: %v", err)
		http.Error(w, `{"error": "Could not generate an itinerary, please try again"}`, http.StatusBadGateway)
	default:
		log.Printf("Itinerary request failed: %v", err)
		http.Error(w, `{"error": "Failed to generate itinerary"}`, http.StatusInternalServerError)
	}
}

// HandleGenerate generates a full three-slot itinerary
func (c *TripController) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var request generateRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if request.Location == "" || request.GroupSize <= 0 || request.Budget == "" {
		http.Error(w, `{"error": "location, groupSize and budget are required"}`, http.StatusBadRequest)
		return
	}

	activities, err := c.ItineraryService.Generate(r.Context(), request.params())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"activities": activities})
}

// HandleRegenerateSlot replaces a single time slot's activity
func (c *TripController) HandleRegenerateSlot(w http.ResponseWriter, r *http.Request) {
	var request struct {
		generateRequest
		Slot string `json:"slot"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if !validSlot(request.Slot) {
		http.Error(w, `{"error": "slot must be Morning, Afternoon or Evening"}`, http.StatusBadRequest)
		return
	}

	activity, err := c.ItineraryService.RegenerateSlot(r.Context(), request.Slot, request.params())
	if err != nil {
		writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"activity": activity})
}

// HandleRefresh regenerates the whole itinerary under the diversity
// policy: the new set is accepted only once most of it differs from the
// current one
func (c *TripController) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	var request struct {
		generateRequest
		Current []models.Activity `json:"current"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}

	activities, err := services.DefaultDiversityPolicy.Regenerate(r.Context(), request.Current,
		func(ctx context.Context) ([]models.Activity, error) {
			return c.ItineraryService.Generate(ctx, request.params())
		})
	if err != nil {
		writePipelineError(w, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"activities": activities})
}

// HandleSaveTrip persists a generated itinerary for its owner
func (c *TripController) HandleSaveTrip(w http.ResponseWriter, r *http.Request) {
	var trip models.Trip
	if err := json.NewDecoder(r.Body).Decode(&trip); err != nil {
		http.Error(w, `{"error": "Invalid request payload"}`, http.StatusBadRequest)
		return
	}
	if trip.UserID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	saved, err := c.ItineraryService.SaveTrip(r.Context(), &trip)
	if err != nil {
		log.Printf("Failed to save trip: %v", err)
		http.Error(w, `{"error": "Failed to save trip"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Trip saved successfully",
		"trip":    saved,
	})
}

// HandleListTrips returns the caller's saved trips
func (c *TripController) HandleListTrips(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		http.Error(w, `{"error": "userId is required"}`, http.StatusBadRequest)
		return
	}

	trips, err := c.ItineraryService.ListTrips(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to list trips for %s: %v", userID, err)
		http.Error(w, `{"error": "Failed to fetch trips"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"trips": trips})
}

func validSlot(slot string) bool {
	for _, s := range models.TimeSlots {
		if slot == s {
			return true
		}
	}
	return false
}
