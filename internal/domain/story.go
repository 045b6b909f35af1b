package domain

import "time"

// Story aggregates the canonical story node data together with its author.
// Stories are immutable after creation; the author link is the story's
// single AUTHORED edge.
type Story struct {
	ID        string
	Title     string
	Content   string
	Author    UserSummary
	CreatedAt time.Time
}

// ShareEvent records a single share of a story: who shared it and when.
type ShareEvent struct {
	Sharer   UserSummary
	SharedAt time.Time
}

// StoryWithShares is the full detail view of a story including its share
// history, ordered most recent first.
type StoryWithShares struct {
	Story
	Shares []ShareEvent
}

// ShareResult captures the outcome of recording a share: the timestamps of
// the created edges and the reward derived from the path-length change
// between the story's author and the receiver.
type ShareResult struct {
	StoryID       string
	SenderID      string
	ReceiverID    string
	SharedAt      time.Time
	PathReduction int
	RewardPoints  int
}
