// Package consensus holds the pure vote-counting rules for polls: tallying,
// winner selection, and turnout. Keeping them free of storage concerns makes
// the rules directly testable.
package consensus

import (
	"fmt"

	"github.com/kjkhy9/perfectplan/internal/models"
)

// OptionTally represents the counted result for one poll option.
type OptionTally struct {
	OptionID string
	Date     string
	Start    string
	Votes    int
}

// Result represents the full counted outcome of a poll.
type Result struct {
	WinnerID string
	Tallies  []OptionTally

	// TotalVotes is the number of distinct voters; each user holds at most
	// one vote per poll.
	TotalVotes int
}

// Count tallies the poll's options and selects the winner: the option with
// the most votes, ties broken by earliest date and then earliest start time.
// Dates are YYYY-MM-DD and times HH:MM, so lexicographic comparison is
// chronological.
func Count(options []models.PollOption) (*Result, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("poll must have at least one option")
	}

	result := &Result{Tallies: make([]OptionTally, 0, len(options))}
	best := 0
	for i, opt := range options {
		result.Tallies = append(result.Tallies, OptionTally{
			OptionID: opt.ID,
			Date:     opt.Date,
			Start:    opt.StartTime,
			Votes:    len(opt.Votes),
		})
		result.TotalVotes += len(opt.Votes)

		if i == 0 {
			continue
		}
		a, b := &options[i], &options[best]
		switch {
		case len(a.Votes) > len(b.Votes):
			best = i
		case len(a.Votes) == len(b.Votes) && earlier(a, b):
			best = i
		}
	}

	result.WinnerID = options[best].ID
	return result, nil
}

// Turnout reports how many of the eligible voters have cast a vote, as a
// fraction in [0, 1]. Eligible counts of zero yield zero rather than an
// error; a poll in an empty group simply has no turnout.
func Turnout(options []models.PollOption, eligible int) float64 {
	if eligible <= 0 {
		return 0
	}
	voted := 0
	for _, opt := range options {
		voted += len(opt.Votes)
	}
	if voted > eligible {
		voted = eligible
	}
	return float64(voted) / float64(eligible)
}

func earlier(a, b *models.PollOption) bool {
	if a.Date != b.Date {
		return a.Date < b.Date
	}
	return a.StartTime < b.StartTime
}
