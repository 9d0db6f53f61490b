package routes

import (
	"trailmate_server/controllers"
	"trailmate_server/services"

	"github.com/gorilla/mux"
)

// RegisterActionRoutes sets up routes for matchmaking actions under /api/action
func RegisterActionRoutes(r *mux.Router, matchService *services.MatchService) {
	controller := controllers.NewActionController(matchService)

	actionRouter := r.PathPrefix("/api/action").Subrouter()

	actionRouter.HandleFunc("/like", controller.HandleLike).Methods("POST")
	actionRouter.HandleFunc("/pass", controller.HandlePass).Methods("POST")
	actionRouter.HandleFunc("/unmatch", controller.HandleUnmatch).Methods("POST")
	actionRouter.HandleFunc("/reset", controller.HandleReset).Methods("POST")
}
