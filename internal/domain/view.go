package domain

import "time"

// OptionView is the public shape of a poll option. Votes is a pointer so the
// count can be stripped from the payload entirely when the poll hides counts.
type OptionView struct {
	ID    int    `json:"id"`
	Text  string `json:"text"`
	Votes *int64 `json:"votes,omitempty"`
}

// PollView is the public projection of a poll returned to end users.
type PollView struct {
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	TotalVotes    *int64       `json:"totalVotes,omitempty"`
	HasVoted      bool         `json:"hasVoted"`
	Status        Status       `json:"status"`
	IsClosed      bool         `json:"isClosed"`
	ShowVoteCount bool         `json:"showVoteCount"`
}

// VoteReceipt is returned after a successful vote.
type VoteReceipt struct {
	Success bool        `json:"success"`
	Poll    ReceiptPoll `json:"poll"`
}

// ReceiptPoll is the trimmed poll view embedded in a vote receipt.
type ReceiptPoll struct {
	Question      string       `json:"question"`
	Options       []OptionView `json:"options"`
	TotalVotes    *int64       `json:"totalVotes,omitempty"`
	ShowVoteCount bool         `json:"showVoteCount"`
}

// AdminPollView is the admin-facing shape of a poll. Counts are always
// included; the public visibility flag never hides anything from admins.
type AdminPollView struct {
	PollID        string    `json:"pollId"`
	Question      string    `json:"question"`
	Options       []Option  `json:"options"`
	Status        Status    `json:"status"`
	ShowVoteCount bool      `json:"showVoteCount"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ProjectOptions converts options into their public shape, withholding the
// per-option counts unless showVotes is set.
func ProjectOptions(options []Option, showVotes bool) []OptionView {
	views := make([]OptionView, len(options))
	for i, opt := range options {
		views[i] = OptionView{ID: opt.ID, Text: opt.Text}
		if showVotes {
			votes := opt.Votes
			views[i].Votes = &votes
		}
	}
	return views
}

// AdminView converts a poll into its admin shape.
func AdminView(p *Poll) AdminPollView {
	return AdminPollView{
		PollID:        p.ID,
		Question:      p.Question,
		Options:       p.Options,
		Status:        p.Status,
		ShowVoteCount: p.ShowVoteCount,
		CreatedAt:     p.CreatedAt,
	}
}
