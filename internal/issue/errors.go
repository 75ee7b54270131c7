package issue

import "errors"

var (
	ErrNotFound = errors.New("issue not found")
)

// Validation messages.
const (
	MsgInvalidStatus      = "Invalid status."
	MsgInvalidAssignee    = "Invalid assignee."
	MsgAssigneeInProgress = `Only the assignee can set the status to "IN_PROGRESS".`
	MsgAssigneeResolved   = `Only the assignee can set the status to "RESOLVED".`
)
