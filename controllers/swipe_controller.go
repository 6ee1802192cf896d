package controllers

import (
	"context"
	"errors"
	"sync"

	"tradermatch_client/models"
	"tradermatch_client/services"
	"tradermatch_client/utils"
)

var (
	// ErrQueueExhausted is returned by Decide when no candidate is waiting.
	ErrQueueExhausted = errors.New("discovery queue exhausted")
	// ErrNoSession is returned when an operation needs a signed-in user.
	ErrNoSession = errors.New("no active session")
	// ErrRewindUnavailable means the plan does not include rewind.
	ErrRewindUnavailable = errors.New("rewind requires a premium plan")
	// ErrRewindNotSupported means the plan includes rewind but the client
	// cannot undo a submitted decision yet.
	ErrRewindNotSupported = errors.New("rewind is not supported")
)

// CandidateFetcher loads one page of candidates for a mode.
type CandidateFetcher interface {
	Fetch(ctx context.Context, userID string, mode models.DiscoveryMode) ([]models.Candidate, error)
}

// SwipeSubmitter records one decision.
type SwipeSubmitter interface {
	Swipe(ctx context.Context, decision models.SwipeDecision) (models.SwipeResult, error)
}

// SubscriptionReader answers plan capability checks.
type SubscriptionReader interface {
	GetSubscription(ctx context.Context, userID string) (*models.Subscription, error)
}

// SwipePolicy controls what happens to the cursor when a submit fails.
type SwipePolicy struct {
	// AdvanceOnError advances before submitting and swallows submit
	// failures. When false the cursor only moves after the server accepted
	// the decision.
	AdvanceOnError bool
}

// DefaultSwipePolicy advances optimistically.
var DefaultSwipePolicy = SwipePolicy{AdvanceOnError: true}

// Celebration is the match overlay shown after a mutual like.
type Celebration struct {
	MatchID   string            `json:"match_id,omitempty"`
	Candidate *models.Candidate `json:"candidate,omitempty"`
}

// DecisionOutcome describes what Decide did.
type DecisionOutcome struct {
	Candidate models.Candidate `json:"candidate"`
	Action    string           `json:"action"`
	Advanced  bool             `json:"advanced"`
	Delivered bool             `json:"delivered"`
	Matched   bool             `json:"matched"`
	MatchID   string           `json:"match_id,omitempty"`
}

// QueueView is a read-only projection of the queue driving the deck.
type QueueView struct {
	Mode      models.DiscoveryMode `json:"mode"`
	State     string               `json:"state"`
	Cursor    int                  `json:"cursor"`
	Length    int                  `json:"length"`
	Current   *models.Candidate    `json:"current,omitempty"`
	Refilling bool                 `json:"refilling"`
	Loaded    bool                 `json:"loaded"`
}

type queueSlot struct {
	queue      DiscoveryQueue
	generation uint64
	loaded     bool
	refilling  bool
}

// SwipeController drives the browse and ai decks for the signed-in user.
type SwipeController struct {
	Fetcher       CandidateFetcher
	Actions       SwipeSubmitter
	Subscriptions SubscriptionReader
	Policy        SwipePolicy
	Logger        utils.ILogger

	// OnMatch runs after a decision produced a match.
	OnMatch func(candidate models.Candidate, result models.SwipeResult)
	// OnChange runs after any state change, outside the lock.
	OnChange func()

	decideMu sync.Mutex

	mu          sync.Mutex
	userID      string
	mode        models.DiscoveryMode
	activeOnly  bool
	slots       map[models.DiscoveryMode]*queueSlot
	nextGen     uint64
	celebration *Celebration

	wg sync.WaitGroup
}

// NewSwipeController creates a controller in browse mode with no session.
func NewSwipeController(fetcher CandidateFetcher, actions SwipeSubmitter, policy SwipePolicy, logger utils.ILogger) *SwipeController {
	c := &SwipeController{
		Fetcher: fetcher,
		Actions: actions,
		Policy:  policy,
		Logger:  logger,
	}
	c.resetLocked("", false)
	return c
}

func (c *SwipeController) resetLocked(userID string, activeOnly bool) {
	c.userID = userID
	c.activeOnly = activeOnly
	c.mode = models.ModeBrowse
	c.celebration = nil
	c.slots = map[models.DiscoveryMode]*queueSlot{
		models.ModeBrowse: c.newSlotLocked(),
		models.ModeAI:     c.newSlotLocked(),
	}
}

func (c *SwipeController) newSlotLocked() *queueSlot {
	c.nextGen++
	return &queueSlot{generation: c.nextGen}
}

// Start binds the controller to a user and loads the browse deck. Fetch
// errors are logged and returned; callers are free to ignore them.
func (c *SwipeController) Start(ctx context.Context, userID string, activeOnly bool) error {
	c.mu.Lock()
	c.resetLocked(userID, activeOnly)
	c.mu.Unlock()
	c.notify()

	return c.load(ctx, models.ModeBrowse)
}

// Reset forgets the session. In-flight fetches finish but their results are
// dropped.
func (c *SwipeController) Reset() {
	c.mu.Lock()
	c.resetLocked("", false)
	c.mu.Unlock()
	c.notify()
}

// Mode returns the mode driving the deck.
func (c *SwipeController) Mode() models.DiscoveryMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// ActiveOnly reports whether candidates are filtered to online users.
func (c *SwipeController) ActiveOnly() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.activeOnly
}

// SetMode switches decks. The first switch to a mode loads its queue; the
// other queue keeps its cursor.
func (c *SwipeController) SetMode(ctx context.Context, mode models.DiscoveryMode) error {
	c.mu.Lock()
	slot, ok := c.slots[mode]
	if !ok {
		c.mu.Unlock()
		return errors.New("unknown discovery mode: " + string(mode))
	}
	c.mode = mode
	loaded := slot.loaded
	c.mu.Unlock()
	c.notify()

	if loaded {
		return nil
	}
	return c.load(ctx, mode)
}

// SetActiveOnly changes the online filter and refetches the current deck
// once. The idle deck is filtered in place without a fetch.
func (c *SwipeController) SetActiveOnly(ctx context.Context, on bool) error {
	c.mu.Lock()
	c.activeOnly = on
	mode := c.mode
	if on {
		for m, slot := range c.slots {
			if m != mode && slot.loaded {
				slot.queue = slot.queue.FilterRemaining(models.Candidate.IsActive)
			}
		}
	}
	c.mu.Unlock()
	c.notify()

	return c.load(ctx, mode)
}

// Refresh replaces the current deck with a fresh page.
func (c *SwipeController) Refresh(ctx context.Context) error {
	return c.load(ctx, c.Mode())
}

// load replaces a mode's queue. A newer load or a reset wins over this one.
func (c *SwipeController) load(ctx context.Context, mode models.DiscoveryMode) error {
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return ErrNoSession
	}
	slot := c.newSlotLocked()
	if prev := c.slots[mode]; prev.loaded {
		slot.queue = prev.queue
		slot.loaded = true
	}
	c.slots[mode] = slot
	gen := slot.generation
	userID := c.userID
	c.mu.Unlock()

	candidates, err := c.Fetcher.Fetch(ctx, userID, mode)
	if err != nil {
		c.Logger.Warn("SwipeController", "Failed to load candidates", map[string]interface{}{
			"mode": mode, "error": err.Error(),
		})
		return err
	}

	c.mu.Lock()
	current := c.slots[mode]
	if current.generation != gen {
		c.mu.Unlock()
		c.Logger.Debug("SwipeController", "Dropping stale candidate page", map[string]interface{}{"mode": mode})
		return nil
	}
	if c.activeOnly {
		candidates = services.FilterActive(candidates)
	}
	current.queue = NewDiscoveryQueue(candidates)
	current.loaded = true
	c.mu.Unlock()

	c.Logger.Info("SwipeController", "Candidates loaded", map[string]interface{}{
		"mode": mode, "count": len(candidates),
	})
	c.notify()
	return nil
}

// Current returns the head candidate of the active deck.
func (c *SwipeController) Current() (models.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.slots[c.mode].queue.Current()
}

// Queue returns the active deck's queue value.
func (c *SwipeController) Queue() DiscoveryQueue {
	return c.QueueFor(c.Mode())
}

// QueueFor returns the queue value of a mode.
func (c *SwipeController) QueueFor(mode models.DiscoveryMode) DiscoveryQueue {
	c.mu.Lock()
	defer c.mu.Unlock()
	if slot, ok := c.slots[mode]; ok {
		return slot.queue
	}
	return DiscoveryQueue{}
}

// View projects the active deck.
func (c *SwipeController) View() QueueView {
	c.mu.Lock()
	defer c.mu.Unlock()

	slot := c.slots[c.mode]
	view := QueueView{
		Mode:      c.mode,
		State:     slot.queue.State().String(),
		Cursor:    slot.queue.Cursor(),
		Length:    slot.queue.Len(),
		Refilling: slot.refilling,
		Loaded:    slot.loaded,
	}
	if head, ok := slot.queue.Current(); ok {
		view.Current = &head
	}
	return view
}

// Decide submits a verdict for the head candidate of the active deck.
// Decisions are serialized so each one targets a distinct candidate.
func (c *SwipeController) Decide(ctx context.Context, action string) (DecisionOutcome, error) {
	c.decideMu.Lock()
	defer c.decideMu.Unlock()

	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return DecisionOutcome{}, ErrNoSession
	}
	mode := c.mode
	slot := c.slots[mode]
	candidate, ok := slot.queue.Current()
	if !ok {
		c.mu.Unlock()
		return DecisionOutcome{}, ErrQueueExhausted
	}
	gen := slot.generation
	decision := models.SwipeDecision{SwiperID: c.userID, TargetID: candidate.UserID, Action: action}
	if err := services.Validate(decision); err != nil {
		c.mu.Unlock()
		return DecisionOutcome{}, err
	}

	outcome := DecisionOutcome{Candidate: candidate, Action: action}
	if c.Policy.AdvanceOnError {
		outcome.Advanced = c.advanceLocked(mode, gen)
	}
	c.mu.Unlock()
	c.notify()

	result, err := c.Actions.Swipe(ctx, decision)
	if err != nil {
		c.Logger.Warn("SwipeController", "Swipe not delivered", map[string]interface{}{
			"target_id": candidate.UserID, "action": action, "error": err.Error(),
		})
		if c.Policy.AdvanceOnError {
			return outcome, nil
		}
		return outcome, err
	}
	outcome.Delivered = true

	c.mu.Lock()
	if !c.Policy.AdvanceOnError {
		outcome.Advanced = c.advanceLocked(mode, gen)
	}
	sameSession := c.userID == decision.SwiperID
	if result.Matched && sameSession {
		outcome.Matched = true
		outcome.MatchID = result.MatchID
		matched := candidate
		c.celebration = &Celebration{MatchID: result.MatchID, Candidate: &matched}
	}
	c.mu.Unlock()

	if outcome.Matched && c.OnMatch != nil {
		c.OnMatch(candidate, result)
	}
	c.notify()
	return outcome, nil
}

// advanceLocked moves the cursor of mode's queue if it is still the
// generation the decision was taken from, and starts a refill at the low
// water mark when none is running.
func (c *SwipeController) advanceLocked(mode models.DiscoveryMode, gen uint64) bool {
	slot := c.slots[mode]
	if slot.generation != gen {
		return false
	}
	slot.queue = slot.queue.Advance()

	if slot.queue.NeedsRefill() && !slot.refilling {
		slot.refilling = true
		c.wg.Add(1)
		go c.refill(mode, gen, c.userID)
	}
	return true
}

func (c *SwipeController) refill(mode models.DiscoveryMode, gen uint64, userID string) {
	defer c.wg.Done()

	candidates, err := c.Fetcher.Fetch(context.Background(), userID, mode)

	c.mu.Lock()
	slot := c.slots[mode]
	if slot.generation != gen {
		c.mu.Unlock()
		c.Logger.Debug("SwipeController", "Dropping refill for replaced queue", map[string]interface{}{"mode": mode})
		return
	}
	slot.refilling = false
	if err != nil {
		c.mu.Unlock()
		c.Logger.Warn("SwipeController", "Refill failed", map[string]interface{}{"mode": mode, "error": err.Error()})
		c.notify()
		return
	}
	if c.activeOnly {
		candidates = services.FilterActive(candidates)
	}
	var added int
	slot.queue, added = slot.queue.Append(candidates)
	c.mu.Unlock()

	c.Logger.Debug("SwipeController", "Queue refilled", map[string]interface{}{"mode": mode, "added": added})
	c.notify()
}

// Celebration returns the pending match overlay, if any.
func (c *SwipeController) Celebration() *Celebration {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.celebration == nil {
		return nil
	}
	cp := *c.celebration
	return &cp
}

// DismissCelebration clears the overlay.
func (c *SwipeController) DismissCelebration() {
	c.mu.Lock()
	c.celebration = nil
	c.mu.Unlock()
	c.notify()
}

// HandleFrame raises the celebration for matches pushed by the server.
func (c *SwipeController) HandleFrame(frame models.InboundFrame) {
	if _, ok := frame.(models.NewMatchFrame); !ok {
		return
	}
	c.mu.Lock()
	if c.userID == "" {
		c.mu.Unlock()
		return
	}
	if c.celebration == nil {
		c.celebration = &Celebration{}
	}
	c.mu.Unlock()
	c.notify()
}

// Rewind would undo the last decision. Only premium plans advertise it and
// the client does not implement it yet.
func (c *SwipeController) Rewind(ctx context.Context) error {
	c.mu.Lock()
	userID := c.userID
	c.mu.Unlock()
	if userID == "" {
		return ErrNoSession
	}
	if c.Subscriptions == nil {
		return ErrRewindUnavailable
	}

	sub, err := c.Subscriptions.GetSubscription(ctx, userID)
	if err != nil {
		return err
	}
	if !sub.Has(models.FeatureRewind) {
		return ErrRewindUnavailable
	}
	return ErrRewindNotSupported
}

// Wait blocks until background refills have finished.
func (c *SwipeController) Wait() {
	c.wg.Wait()
}

func (c *SwipeController) notify() {
	if c.OnChange != nil {
		c.OnChange()
	}
}
