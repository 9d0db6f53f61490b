package models

// Chat is the conversation document created when a match forms. Its id is
// deterministic (sorted participant ids joined with "_"), so either
// participant can address it without a lookup.
type Chat struct {
	ChatID       string   `dynamodbav:"chatId" json:"chatId"`
	Participants []string `dynamodbav:"participants" json:"participants"`
	CreatedAt    string   `dynamodbav:"createdAt" json:"createdAt"`
}
