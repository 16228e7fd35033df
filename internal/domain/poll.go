package domain

import "time"

// Status is the lifecycle stage of a poll.
type Status string

const (
	// StatusDraft polls are never publicly visible or votable.
	StatusDraft Status = "draft"
	// StatusActive polls accept votes.
	StatusActive Status = "active"
	// StatusClosed polls stop accepting votes but remain viewable.
	StatusClosed Status = "closed"
)

// Valid reports whether s is one of the known lifecycle stages.
func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusActive, StatusClosed:
		return true
	}
	return false
}

// Option is one selectable choice within a poll. ID is the option's position
// at last write; it is not stable across edits that change the option list -
// only vote counts are carried over, matched by text.
type Option struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Votes int64  `json:"votes"`
}

// Poll is a question with an ordered list of votable options.
type Poll struct {
	ID            string
	Question      string
	Options       []Option
	Status        Status
	ShowVoteCount bool
	CreatedAt     time.Time
}

// TotalVotes sums the vote counts of all options.
func (p *Poll) TotalVotes() int64 {
	var total int64
	for _, opt := range p.Options {
		total += opt.Votes
	}
	return total
}
