package controllers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"trailmate_server/models"
	"trailmate_server/services"
)

// ChatController struct
type ChatController struct {
	ChatService *services.ChatService
}

// NewChatController initializes the chat controller
func NewChatController(service *services.ChatService) *ChatController {
	return &ChatController{ChatService: service}
}

// HandleSendMessage appends a text message to a chat
func (c *ChatController) HandleSendMessage(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID   string `json:"chatId"`
		SenderID string `json:"senderId"`
		Text     string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.SenderID == "" || request.Text == "" {
		http.Error(w, `{"error": "Missing required fields: chatId, senderId, or text"}`, http.StatusBadRequest)
		return
	}

	message, err := c.ChatService.SendMessage(r.Context(), request.ChatID, request.SenderID, request.Text)
	if err != nil {
		log.Printf("❌ Failed to send message: %v", err)
		http.Error(w, `{"error": "Failed to send message"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

// HandleShareItinerary appends a shared-itinerary message to a chat
func (c *ChatController) HandleShareItinerary(w http.ResponseWriter, r *http.Request) {
	var request struct {
		ChatID     string            `json:"chatId"`
		SenderID   string            `json:"senderId"`
		Activities []models.Activity `json:"activities"`
	}
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		http.Error(w, `{"error": "Invalid request body"}`, http.StatusBadRequest)
		return
	}
	if request.ChatID == "" || request.SenderID == "" || len(request.Activities) == 0 {
		http.Error(w, `{"error": "Missing required fields: chatId, senderId, or activities"}`, http.StatusBadRequest)
		return
	}

	message, err := c.ChatService.SendItinerary(r.Context(), request.ChatID, request.SenderID, request.Activities)
	if err != nil {
		log.Printf("❌ Failed to share itinerary: %v", err)
		http.Error(w, `{"error": "Failed to share itinerary"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "success",
		"message": message,
	})
}

// HandleGetMessages fetches a chat's messages ascending by timestamp
func (c *ChatController) HandleGetMessages(w http.ResponseWriter, r *http.Request) {
	chatID := r.URL.Query().Get("chatId")
	if chatID == "" {
		http.Error(w, `{"error": "chatId is required"}`, http.StatusBadRequest)
		return
	}

	limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || limit <= 0 {
		limit = 50
	}

	messages, err := c.ChatService.GetMessages(r.Context(), chatID, limit)
	if err != nil {
		log.Printf("❌ Error fetching messages: %v", err)
		http.Error(w, `{"error": "Failed to fetch messages"}`, http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(messages)
}
