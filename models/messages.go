package models

// Message is one chat line inside a match conversation.
type Message struct {
	MessageID string `json:"message_id"`
	MatchID   string `json:"match_id,omitempty"`
	SenderID  string `json:"sender_id"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}
