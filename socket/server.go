package socket

import (
	"context"
	"log"

	"trailmate_server/services"

	socketio "github.com/googollee/go-socket.io"
)

// NewSocketServer initializes a Socket.IO server that relays chat traffic.
// Messages received over the socket are persisted through the chat service
// before being broadcast to the chat room.
func NewSocketServer(chatService *services.ChatService) *socketio.Server {
	server := socketio.NewServer(nil)

	server.OnConnect("/", func(s socketio.Conn) error {
		log.Println("✅ Socket connected:", s.ID())
		return nil
	})

	server.OnEvent("/", "join", func(s socketio.Conn, data map[string]string) {
		chatID := data["chatId"]
		if chatID == "" {
			log.Println("❌ Invalid chatId in join request")
			return
		}
		log.Printf("👥 Socket %s joined chat %s\n", s.ID(), chatID)
		s.Join(chatID)
	})

	server.OnEvent("/", "sendMessage", func(s socketio.Conn, data map[string]string) {
		chatID := data["chatId"]
		senderID := data["senderId"]
		text := data["text"]
		if chatID == "" || senderID == "" {
			log.Println("❌ Invalid sendMessage payload, dropping")
			return
		}

		message, err := chatService.SendMessage(context.Background(), chatID, senderID, text)
		if err != nil {
			log.Printf("❌ Failed to persist socket message for chat %s: %v\n", chatID, err)
			return
		}

		log.Printf("📩 New message for chat %s from %s\n", chatID, senderID)
		server.BroadcastToRoom("/", chatID, "newMessage", message)
	})

	server.OnDisconnect("/", func(s socketio.Conn, reason string) {
		log.Println("❌ Socket disconnected:", s.ID(), reason)
	})

	return server
}
