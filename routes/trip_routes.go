package routes

import (
	"trailmate_server/controllers"
	"trailmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterTripRoutes sets up routes for itinerary operations under /api/trips
func RegisterTripRoutes(r *mux.Router, itineraryService *services.ItineraryService) {
	controller := controllers.NewTripController(itineraryService)

	tripRouter := r.PathPrefix("/api/trips").Subrouter()

	tripRouter.HandleFunc("/generate", controller.HandleGenerate).Methods("POST")
	tripRouter.HandleFunc("/regenerateSlot", controller.HandleRegenerateSlot).Methods("POST")
	tripRouter.HandleFunc("/refresh", controller.HandleRefresh).Methods("POST")
	tripRouter.HandleFunc("", controller.HandleSaveTrip).Methods("POST")
	tripRouter.HandleFunc("", controller.HandleListTrips).Methods("GET")
}
