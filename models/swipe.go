package models

import (
	"encoding/json"

	"tradermatch_client/utils"
)

// SwipeDecision is the body of POST /api/swipe
type SwipeDecision struct {
	SwiperID string `json:"swiper_id" validate:"required"`
	TargetID string `json:"target_id" validate:"required"`
	Action   string `json:"action" validate:"required,oneof=like pass"`
}

// SwipeResult is the backend verdict for one swipe
type SwipeResult struct {
	Matched bool   `json:"matched"`
	MatchID string `json:"match_id,omitempty"`
}

// UnmarshalJSON tolerates "matched" sent as a string and numeric match ids.
func (r *SwipeResult) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	r.Matched = utils.ExtractBool(raw, "matched")
	r.MatchID = utils.ExtractString(raw, "match_id")
	return nil
}
