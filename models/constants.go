package models

// User statuses reported by /api/user-status and carried on candidates
const (
	StatusActive  = "active"
	StatusOffline = "offline"
)

// Swipe actions accepted by POST /api/swipe
const (
	ActionLike = "like"
	ActionPass = "pass"
)

// DiscoveryMode selects which candidate queue is driving the swipe deck.
type DiscoveryMode string

const (
	ModeBrowse DiscoveryMode = "browse"
	ModeAI     DiscoveryMode = "ai"
)

// Realtime frame types exchanged over /api/ws/{user_id}
const (
	FrameNewMatch    = "new_match"
	FrameChatMessage = "chat_message"
)

// Subscription plans
const (
	PlanFree    = "free"
	PlanPremium = "premium"
	PlanVIP     = "vip"
)

// FeatureRewind is the premium capability that would allow undoing a swipe.
const FeatureRewind = "rewind"
