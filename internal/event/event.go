// Package event reads and routes the CI trigger payload. In GitHub Actions
// the payload is a JSON file whose path is published in GITHUB_EVENT_PATH.
package event

import (
	"encoding/json"
	"fmt"
	"os"
)

// Trigger classifies how a payload's action maps onto a diff fetch strategy.
type Trigger int

const (
	// TriggerUnsupported means the run should exit cleanly with no review.
	TriggerUnsupported Trigger = iota

	// TriggerFullDiff means the whole PR diff (base..head) is reviewed.
	TriggerFullDiff

	// TriggerCompareDiff means only the Before..After commit range is
	// reviewed, bounding cost to the pushed delta.
	TriggerCompareDiff
)

func (t Trigger) String() string {
	switch t {
	case TriggerFullDiff:
		return "full_diff"
	case TriggerCompareDiff:
		return "compare_diff"
	default:
		return "unsupported"
	}
}

// Payload is the subset of the pull_request event this bot consumes.
type Payload struct {
	Action string `json:"action"`
	Number int    `json:"number"`

	// Before/After are only present on synchronize events.
	Before string `json:"before"`
	After  string `json:"after"`

	Repository struct {
		Name  string `json:"name"`
		Owner struct {
			Login string `json:"login"`
		} `json:"owner"`
	} `json:"repository"`

	PullRequest struct {
		Number int `json:"number"`
	} `json:"pull_request"`
}

// Load reads and decodes the event payload from path.
func Load(path string) (*Payload, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("event: failed to read payload at %s: %w", path, err)
	}

	var p Payload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("event: failed to decode payload: %w", err)
	}
	return &p, nil
}

// Repo returns the "owner/name" slug of the repository.
func (p *Payload) Repo() string {
	if p.Repository.Owner.Login == "" || p.Repository.Name == "" {
		return ""
	}
	return p.Repository.Owner.Login + "/" + p.Repository.Name
}

// PullNumber returns the PR number, whichever field the event carried it in.
func (p *Payload) PullNumber() int {
	if p.Number > 0 {
		return p.Number
	}
	return p.PullRequest.Number
}

// Trigger maps the event action onto a diff strategy: "opened" reviews the
// full PR, "synchronize" reviews only the pushed commit range, and every
// other action is unsupported.
func (p *Payload) Trigger() Trigger {
	switch p.Action {
	case "opened":
		return TriggerFullDiff
	case "synchronize":
		if p.Before == "" || p.After == "" {
			return TriggerUnsupported
		}
		return TriggerCompareDiff
	default:
		return TriggerUnsupported
	}
}
