package models

import (
	"encoding/json"

	"tradermatch_client/utils"
)

// Candidate is a profile snapshot offered by a discovery queue. It is
// immutable once fetched.
type Candidate struct {
	UserProfile
	AICompatibility *Compatibility `json:"ai_compatibility,omitempty"`
}

// IsActive reports whether the candidate is currently online.
func (c Candidate) IsActive() bool {
	return c.Status == StatusActive
}

// Compatibility is the AI ranking attached to /api/ai-matches entries.
type Compatibility struct {
	Percentage float64            `json:"percentage"`
	Breakdown  map[string]float64 `json:"breakdown,omitempty"`
}

// UnmarshalJSON accepts percentages and breakdown scores sent either as
// numbers or as strings such as "87%".
func (c *Compatibility) UnmarshalJSON(data []byte) error {
	var raw map[string]interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	c.Percentage = utils.ExtractFloat(raw, "percentage")
	c.Breakdown = nil
	if breakdown, ok := raw["breakdown"].(map[string]interface{}); ok {
		c.Breakdown = make(map[string]float64, len(breakdown))
		for key := range breakdown {
			c.Breakdown[key] = utils.ExtractFloat(breakdown, key)
		}
	}
	return nil
}
