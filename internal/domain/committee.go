package domain

import (
	"context"
	"errors"
	"strings"
)

// Sentinel errors for committee operations.
var (
	ErrCommitteeNotFound  = errors.New("committee not found")
	ErrCommitteeExists    = errors.New("committee already exists")
	ErrCommitteeNotEdited = errors.New("committee could not be edited")
	ErrInvalidCommittee   = errors.New("invalid committee data")
)

// Committee is a student committee, keyed by a slug derived from its title.
// swagger:model Committee
type Committee struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
	MeetingTime string `json:"meeting_time"`
	Head        string `json:"head"`
}

// CommitteeSummary is the list projection of a Committee.
// swagger:model CommitteeSummary
type CommitteeSummary struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// CommitteeList is the payload of get_committees.
// swagger:model CommitteeList
type CommitteeList struct {
	Committees []CommitteeSummary `json:"committees"`
	Count      int                `json:"count"`
}

// NewCommitteeList projects committees to summaries. The result is never nil.
func NewCommitteeList(committees []*Committee) CommitteeList {
	out := CommitteeList{Committees: make([]CommitteeSummary, 0, len(committees))}
	for _, c := range committees {
		out.Committees = append(out.Committees, CommitteeSummary{ID: c.ID, Title: c.Title})
	}
	out.Count = len(out.Committees)
	return out
}

// CommitteeID derives the committee id from a title: lowercased, spaces removed.
func CommitteeID(title string) string {
	return strings.ToLower(strings.ReplaceAll(title, " ", ""))
}

// NewCommittee returns a Committee whose ID is derived from title.
func NewCommittee(title, description, location, meetingTime, head string) *Committee {
	return &Committee{
		ID:          CommitteeID(title),
		Title:       title,
		Description: description,
		Location:    location,
		MeetingTime: meetingTime,
		Head:        head,
	}
}

// CommitteeChanges holds the fields an edit may touch. Nil means unchanged.
// ID and Title have no field here; they never change after creation.
type CommitteeChanges struct {
	Description *string
	Head        *string
	Location    *string
	MeetingTime *string
}

// IsEmpty reports whether no field is set.
func (c CommitteeChanges) IsEmpty() bool {
	return c.Description == nil && c.Head == nil && c.Location == nil && c.MeetingTime == nil
}

// Apply writes the set fields onto committee.
func (c CommitteeChanges) Apply(committee *Committee) {
	if c.Description != nil {
		committee.Description = *c.Description
	}
	if c.Head != nil {
		committee.Head = *c.Head
	}
	if c.Location != nil {
		committee.Location = *c.Location
	}
	if c.MeetingTime != nil {
		committee.MeetingTime = *c.MeetingTime
	}
}

// CreateCommitteeInput carries the fields supplied to create a committee.
// Field lengths are not limited here; a whole frame is capped by the event channel.
type CreateCommitteeInput struct {
	Title       string `validate:"required"`
	Description string
	Location    string
	MeetingTime string
	Head        string
}

// CommitteeRepository defines storage for committees. Create and Update each run in their own transaction.
type CommitteeRepository interface {
	List(ctx context.Context) ([]*Committee, error)
	// GetByID returns ErrCommitteeNotFound when no row matches.
	GetByID(ctx context.Context, id string) (*Committee, error)
	// Create inserts c; a duplicate id returns ErrCommitteeExists and nothing is written.
	Create(ctx context.Context, c *Committee) error
	// Update applies changes to the committee with the given id and rolls back on any failure.
	Update(ctx context.Context, id string, changes CommitteeChanges) error
}

// CommitteeService defines the committee use cases. Mutations take the caller's token and require an admin.
type CommitteeService interface {
	List(ctx context.Context) ([]*Committee, error)
	Get(ctx context.Context, id string) (*Committee, error)
	Create(ctx context.Context, token string, in CreateCommitteeInput) (*Committee, error)
	Edit(ctx context.Context, token, id string, changes CommitteeChanges) (*Committee, error)
}
