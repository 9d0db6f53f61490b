package routes

import (
	"trailmate_server/controllers"
	"trailmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterDiscoveryRoutes sets up routes for the candidate feed under /api/discovery
func RegisterDiscoveryRoutes(r *mux.Router, discoveryService *services.DiscoveryService) {
	controller := controllers.NewDiscoveryController(discoveryService)

	discoveryRouter := r.PathPrefix("/api/discovery").Subrouter()

	discoveryRouter.HandleFunc("/candidates", controller.GetCandidates).Methods("GET")
}
