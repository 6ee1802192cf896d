package controllers

import (
	"slices"

	"tradermatch_client/models"
)

// LowWaterMark is the number of undecided candidates at or below which a
// refill fetch is started.
const LowWaterMark = 2

// QueueState is the swipe state of one queue.
type QueueState int

const (
	// AtCandidate means a candidate is waiting for a decision.
	AtCandidate QueueState = iota
	// Exhausted means every fetched candidate has been decided.
	Exhausted
)

func (s QueueState) String() string {
	if s == Exhausted {
		return "exhausted"
	}
	return "at_candidate"
}

// DiscoveryQueue is an immutable ordered list of candidates plus a cursor.
// Every operation returns a new value; the cursor never moves backwards and
// never passes the end.
type DiscoveryQueue struct {
	items  []models.Candidate
	cursor int
}

// NewDiscoveryQueue copies candidates in fetch order.
func NewDiscoveryQueue(candidates []models.Candidate) DiscoveryQueue {
	return DiscoveryQueue{items: slices.Clone(candidates)}
}

func (q DiscoveryQueue) Len() int { return len(q.items) }

func (q DiscoveryQueue) Cursor() int { return q.cursor }

// Remaining is the number of candidates not yet decided.
func (q DiscoveryQueue) Remaining() int { return len(q.items) - q.cursor }

// Current returns the head candidate.
func (q DiscoveryQueue) Current() (models.Candidate, bool) {
	if q.cursor >= len(q.items) {
		return models.Candidate{}, false
	}
	return q.items[q.cursor], true
}

func (q DiscoveryQueue) State() QueueState {
	if q.Remaining() > 0 {
		return AtCandidate
	}
	return Exhausted
}

// NeedsRefill reports whether the queue is at or below the low-water mark.
func (q DiscoveryQueue) NeedsRefill() bool {
	return q.Remaining() <= LowWaterMark
}

// Advance consumes the head candidate. It is a no-op on an exhausted queue.
func (q DiscoveryQueue) Advance() DiscoveryQueue {
	if q.cursor < len(q.items) {
		q.cursor++
	}
	return q
}

// Append adds fetched candidates after the existing ones, skipping users that
// are already in the queue whether decided or not. It returns the number of
// candidates added.
func (q DiscoveryQueue) Append(candidates []models.Candidate) (DiscoveryQueue, int) {
	seen := make(map[string]struct{}, len(q.items))
	for _, c := range q.items {
		seen[c.UserID] = struct{}{}
	}

	items := slices.Clone(q.items)
	added := 0
	for _, c := range candidates {
		if _, dup := seen[c.UserID]; dup {
			continue
		}
		seen[c.UserID] = struct{}{}
		items = append(items, c)
		added++
	}
	q.items = items
	return q, added
}

// FilterRemaining drops undecided candidates that fail keep. Decided ones
// and the cursor are left alone.
func (q DiscoveryQueue) FilterRemaining(keep func(models.Candidate) bool) DiscoveryQueue {
	items := slices.Clone(q.items[:q.cursor])
	for _, c := range q.items[q.cursor:] {
		if keep(c) {
			items = append(items, c)
		}
	}
	q.items = items
	return q
}

// Items returns a copy of every candidate, decided ones included.
func (q DiscoveryQueue) Items() []models.Candidate {
	return slices.Clone(q.items)
}
