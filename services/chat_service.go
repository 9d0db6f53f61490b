package services

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"trailmate_server/models"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/google/uuid"
)

// messageTimeLayout is fixed-width so timestamps order lexicographically
// as sort keys.
const messageTimeLayout = "2006-01-02T15:04:05.000000000Z"

// ChatService appends messages with server-assigned monotonic timestamps
// and fans them out to in-process subscribers. A write failure propagates
// to the caller; nothing is published unless the store accepted it.
type ChatService struct {
	Dynamo DataStore

	mu        sync.Mutex
	lastStamp time.Time
	subs      map[string]map[int]chan models.Message
	nextSubID int
}

func NewChatService(dynamo DataStore) *ChatService {
	return &ChatService{
		Dynamo: dynamo,
		subs:   make(map[string]map[int]chan models.Message),
	}
}

// nextTimestamp returns a strictly increasing stamp even when the clock
// reads the same nanosecond twice.
func (s *ChatService) nextTimestamp() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	if !now.After(s.lastStamp) {
		now = s.lastStamp.Add(time.Nanosecond)
	}
	s.lastStamp = now
	return now.Format(messageTimeLayout)
}

// SendMessage appends a text message to a chat. Signed-out senders are a
// soft no-op returning no message.
func (s *ChatService) SendMessage(ctx context.Context, chatID, senderID, text string) (*models.Message, error) {
	return s.send(ctx, chatID, senderID, text, nil)
}

// SendItinerary appends a shared-itinerary message to a chat.
func (s *ChatService) SendItinerary(ctx context.Context, chatID, senderID string, activities []models.Activity) (*models.Message, error) {
	return s.send(ctx, chatID, senderID, "", activities)
}

func (s *ChatService) send(ctx context.Context, chatID, senderID, text string, itinerary []models.Activity) (*models.Message, error) {
	if chatID == "" || senderID == "" {
		return nil, nil
	}

	message := models.Message{
		ChatID:    chatID,
		CreatedAt: s.nextTimestamp(),
		MessageID: uuid.NewString(),
		SenderID:  senderID,
		Text:      text,
		Itinerary: itinerary,
	}

	if err := s.Dynamo.PutItem(ctx, models.MessagesTable, message); err != nil {
		log.Printf("❌ Failed to store message for chat %s: %v", chatID, err)
		return nil, fmt.Errorf("failed to store message: %w", err)
	}

	s.publish(message)
	return &message, nil
}

// GetMessages fetches a chat's messages ascending by timestamp.
// limit <= 0 fetches all.
func (s *ChatService) GetMessages(ctx context.Context, chatID string, limit int) ([]models.Message, error) {
	items, err := s.Dynamo.QueryByPartition(ctx, models.MessagesTable, "chatId", chatID, int32(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to fetch messages: %w", err)
	}
	sortByAttribute(items, "createdAt")

	var messages []models.Message
	if err := attributevalue.UnmarshalListOfMaps(items, &messages); err != nil {
		return nil, fmt.Errorf("failed to parse messages: %w", err)
	}
	return messages, nil
}

// Subscribe registers a live stream of new messages for a chat. The
// returned cancel func stops delivery deterministically: once it returns,
// no further message is sent and the channel is closed.
func (s *ChatService) Subscribe(chatID string) (<-chan models.Message, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.subs[chatID] == nil {
		s.subs[chatID] = make(map[int]chan models.Message)
	}
	id := s.nextSubID
	s.nextSubID++

	ch := make(chan models.Message, 16)
	s.subs[chatID][id] = ch

	cancel := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if sub, ok := s.subs[chatID][id]; ok {
			delete(s.subs[chatID], id)
			close(sub)
		}
	}
	return ch, cancel
}

// publish fans a stored message out to subscribers. Slow subscribers drop
// messages rather than block the sender; they can refetch history.
func (s *ChatService) publish(message models.Message) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, ch := range s.subs[message.ChatID] {
		select {
		case ch <- message:
		default:
			log.Printf("⚠️ Subscriber of chat %s is lagging, dropping message", message.ChatID)
		}
	}
}
