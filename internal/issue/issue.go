// Package issue holds the issue model, its validation rules, list queries
// and the soft delete with its audit log.
package issue

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/issuetracker/internal/user"
)

// PerPage is the page size of the issue list.
const PerPage = 5

type Status string

const (
	StatusOpen       Status = "OPEN"
	StatusInProgress Status = "IN_PROGRESS"
	StatusResolved   Status = "RESOLVED"
)

// AllStatuses returns the statuses in workflow order.
func AllStatuses() []Status {
	return []Status{StatusOpen, StatusInProgress, StatusResolved}
}

// StatusesExcept returns AllStatuses without the given ones.
func StatusesExcept(except ...Status) []Status {
	return slices.DeleteFunc(AllStatuses(), func(s Status) bool {
		return slices.Contains(except, s)
	})
}

func (s Status) Valid() bool {
	return slices.Contains(AllStatuses(), s)
}

func (s Status) String() string { return string(s) }

type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// AllPriorities returns the priorities from highest to lowest.
func AllPriorities() []Priority {
	return []Priority{PriorityHigh, PriorityMedium, PriorityLow}
}

func (p Priority) Valid() bool {
	return slices.Contains(AllPriorities(), p)
}

func (p Priority) String() string { return string(p) }

// ParseStatus upper-cases s. ok is false for unknown values.
func ParseStatus(s string) (Status, bool) {
	st := Status(strings.ToUpper(strings.TrimSpace(s)))
	return st, st.Valid()
}

// ParsePriority upper-cases p. ok is false for unknown values.
func ParsePriority(p string) (Priority, bool) {
	pr := Priority(strings.ToUpper(strings.TrimSpace(p)))
	return pr, pr.Valid()
}

// Person is the assignee or reporter of an issue.
type Person struct {
	ID    uuid.UUID
	Name  string
	Email string
}

type Issue struct {
	ID          int64
	Title       string
	Description string
	Status      Status
	Priority    Priority
	// Assignee is nil for unassigned issues.
	Assignee  *Person
	Reporter  Person
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsAssignee reports whether id is the assignee.
func (i Issue) IsAssignee(id uuid.UUID) bool {
	return i.Assignee != nil && i.Assignee.ID == id
}

func (i Issue) IsReporter(id uuid.UUID) bool {
	return i.Reporter.ID == id
}

// Actor is the user an operation runs for.
type Actor struct {
	ID   uuid.UUID
	Role user.Role
}

func (a Actor) IsAdmin() bool {
	return a.Role == user.RoleAdmin
}

// CanAccess reports whether actor may view and edit the issue: admins,
// the reporter and the assignee may.
func CanAccess(actor Actor, i Issue) bool {
	return actor.IsAdmin() || i.IsReporter(actor.ID) || i.IsAssignee(actor.ID)
}

// Deletable reports whether the issue may be deleted. Assigned and in
// progress issues may not.
func Deletable(i Issue) bool {
	return i.Status != StatusInProgress && i.Assignee == nil
}

// EditableStatuses returns the statuses the actor can pick on the edit form.
// Only the assignee of an unresolved issue and admins choose the status.
func EditableStatuses(actor Actor, i Issue) []Status {
	if actor.IsAdmin() || (i.IsAssignee(actor.ID) && i.Status != StatusResolved) {
		return AllStatuses()
	}
	return []Status{i.Status}
}

// Stats counts the issues visible to an actor.
type Stats struct {
	Total      int64
	Open       int64
	InProgress int64
	Resolved   int64
	High       int64
	Medium     int64
	Low        int64
}

// DeletionLog is one row of the deletion audit export.
type DeletionLog struct {
	ReporterName     string
	AssigneeName     string
	DeletedBy        string
	IssueTitle       string
	IssueDescription string
	IssueStatus      Status
	IssuePriority    Priority
	DeletedAt        time.Time
}
