package models

// Match pairs a match id with the other user's profile snapshot
type Match struct {
	MatchID   string    `json:"match_id"`
	OtherUser Candidate `json:"other_user"`
	CreatedAt string    `json:"created_at,omitempty"`
}
