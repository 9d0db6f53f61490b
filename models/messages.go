package models

// Message is an append-only chat entry ordered by CreatedAt. Either Text
// or Itinerary is set; Itinerary carries a shared-itinerary payload.
type Message struct {
	ChatID    string     `dynamodbav:"chatId" json:"chatId"`
	CreatedAt string     `dynamodbav:"createdAt" json:"createdAt"` // sort key, strictly increasing
	MessageID string     `dynamodbav:"messageId" json:"messageId"`
	SenderID  string     `dynamodbav:"senderId" json:"senderId"`
	Text      string     `dynamodbav:"text,omitempty" json:"text,omitempty"`
	Itinerary []Activity `dynamodbav:"itinerary,omitempty" json:"itinerary,omitempty"`
}
