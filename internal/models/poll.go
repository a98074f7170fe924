package models

// DefaultPollQuestion is used when a poll is created without a question.
const DefaultPollQuestion = "Select a final meeting time"

// Poll is a vote between proposed time slots for a group meeting.
//
// Lifecycle: Open -> Closed, terminal. While open, each user may vote for at
// most one option across the whole poll; once closed, the winning option is
// recorded and further votes are rejected.
type Poll struct {
	// ID is the unique identifier for the poll (UUID format).
	ID string `json:"id"`

	// GroupID is the group this poll belongs to.
	GroupID string `json:"groupId"`

	// Question is the poll prompt. Defaults to DefaultPollQuestion.
	Question string `json:"question"`

	// CreatedBy is the user who created the poll. Always the group's creator.
	CreatedBy string `json:"createdBy"`

	// Options are the proposed time slots, in the order they were submitted.
	Options []PollOption `json:"options"`

	// IsClosed marks the terminal state.
	IsClosed bool `json:"isClosed"`

	// WinningOptionID is set exactly once, when the poll is closed.
	WinningOptionID string `json:"winningOptionId,omitempty"`

	// CreatedAt is the Unix timestamp when the poll was created.
	CreatedAt int64 `json:"createdAt"`
}

// PollOption is a single proposed time slot.
//
// Date is a calendar date in "2006-01-02" form; StartTime and EndTime are
// clock times in "15:04" form with StartTime strictly before EndTime.
type PollOption struct {
	// ID is the unique identifier for the option (UUID format).
	ID string `json:"id"`

	Date      string `json:"date"`
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`

	// Votes is the set of user IDs who chose this option. Membership is
	// what matters, not order. A user ID appears in at most one option's
	// Votes within the same poll.
	Votes []string `json:"votes"`
}

// OptionByID returns the option with the given ID, or nil.
func (p *Poll) OptionByID(optionID string) *PollOption {
	for i := range p.Options {
		if p.Options[i].ID == optionID {
			return &p.Options[i]
		}
	}
	return nil
}

// VotedOption returns the ID of the option the user voted for, or "" if the
// user has not voted in this poll.
func (p *Poll) VotedOption(userID string) string {
	for i := range p.Options {
		for _, v := range p.Options[i].Votes {
			if v == userID {
				return p.Options[i].ID
			}
		}
	}
	return ""
}
