package issue

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/issuetracker/core/validator"
)

// UserChecker reports whether a user exists.
type UserChecker interface {
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

// CreateInput is a validated new issue form.
type CreateInput struct {
	Title       string
	Description string
	Status      Status
	Priority    Priority
	AssigneeID  *uuid.UUID
}

// UpdateInput carries the fields an edit may change. Nil fields stay as they are.
type UpdateInput struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	// SetAssignee marks AssigneeID as submitted; a nil AssigneeID unassigns.
	SetAssignee bool
	AssigneeID  *uuid.UUID
}

// Empty reports whether the update changes nothing.
func (u UpdateInput) Empty() bool {
	return u.Title == nil && u.Description == nil && u.Status == nil && u.Priority == nil && !u.SetAssignee
}

func statusValues(ss []Status) []string {
	out := make([]string, len(ss))
	for i, s := range ss {
		out[i] = string(s)
	}
	return out
}

func priorityValues() []string {
	ps := AllPriorities()
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = string(p)
	}
	return out
}

// resolveAssignee parses the submitted assignee. An absent or empty value is
// valid and means unassigned.
func resolveAssignee(ctx context.Context, users UserChecker, raw *string) (*uuid.UUID, bool, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, true, nil
	}
	id, err := uuid.Parse(strings.TrimSpace(*raw))
	if err != nil {
		return nil, false, nil
	}
	ok, err := users.ExistsByID(ctx, id)
	if err != nil || !ok {
		return nil, false, err
	}
	return &id, true, nil
}

func titleValidator(input *string) *validator.StringValidator {
	return validator.String(input).
		Trim().
		MinLength(1, "Title cannot be empty.").
		MaxLength(255, "Title cannot be longer than 255 characters.")
}

func descriptionValidator(input *string) *validator.StringValidator {
	return validator.String(input).
		Trim().
		MinLength(1, "Description cannot be empty.").
		MaxLength(1000, "Description cannot be longer than 1000 characters.")
}

func priorityValidator(input *string) *validator.StringValidator {
	return validator.String(input).
		Transform(strings.ToUpper).
		OneOf(priorityValues())
}

// ValidateCreate checks a new issue form. New issues cannot start resolved,
// and only the actor's own issue may start in progress. An absent or empty
// assignee leaves the issue unassigned.
func ValidateCreate(ctx context.Context, users UserChecker, actor Actor, form map[string][]string) (CreateInput, error) {
	in := validator.Input(form, "title", "description", "status", "priority", "assignee")

	assigneeID, assigneeOK, err := resolveAssignee(ctx, users, in["assignee"])
	if err != nil {
		return CreateInput{}, err
	}
	selfAssigned := assigneeID != nil && *assigneeID == actor.ID

	out, err := validator.Validate(map[string]*validator.StringValidator{
		"title":       titleValidator(in["title"]),
		"description": descriptionValidator(in["description"]),
		"status": validator.String(in["status"]).
			Transform(strings.ToUpper).
			OneOf(statusValues(StatusesExcept(StatusResolved)), MsgInvalidStatus).
			Custom(func(s string) bool {
				return s != string(StatusInProgress) || selfAssigned
			}, MsgAssigneeInProgress),
		"priority": priorityValidator(in["priority"]),
		"assignee": validator.String(in["assignee"], validator.Optional()).
			Custom(func(string) bool { return assigneeOK }, MsgInvalidAssignee),
	}, in)
	if err != nil {
		return CreateInput{}, err
	}

	return CreateInput{
		Title:       out["title"],
		Description: out["description"],
		Status:      Status(out["status"]),
		Priority:    Priority(out["priority"]),
		AssigneeID:  assigneeID,
	}, nil
}

// ValidateEdit checks an edit form against what the actor may change:
//   - everyone with access sets the priority;
//   - the assignee sets the status until the issue is resolved;
//   - the reporter and admins set title and description;
//   - admins set the assignee, and may only start or resolve an issue they
//     assign to themselves.
//
// Fields the actor may not change are ignored. An absent assignee keeps the
// current one and an empty assignee unassigns.
func ValidateEdit(ctx context.Context, users UserChecker, actor Actor, iss Issue, form map[string][]string) (UpdateInput, error) {
	in := validator.Input(form, "title", "description", "status", "priority", "assignee")

	fields := map[string]*validator.StringValidator{
		"priority": priorityValidator(in["priority"]),
	}

	if iss.IsAssignee(actor.ID) && iss.Status != StatusResolved {
		fields["status"] = validator.String(in["status"]).
			Transform(strings.ToUpper).
			OneOf(statusValues(AllStatuses()), MsgInvalidStatus)
	}

	if iss.IsReporter(actor.ID) || actor.IsAdmin() {
		fields["title"] = titleValidator(in["title"])
		fields["description"] = descriptionValidator(in["description"])
	}

	var assigneeID *uuid.UUID
	if actor.IsAdmin() {
		var (
			assigneeOK bool
			err        error
		)
		assigneeID, assigneeOK, err = resolveAssignee(ctx, users, in["assignee"])
		if err != nil {
			return UpdateInput{}, err
		}
		selfAssigned := assigneeID != nil && *assigneeID == actor.ID

		fields["assignee"] = validator.String(in["assignee"], validator.Optional()).
			Custom(func(string) bool { return assigneeOK }, MsgInvalidAssignee)
		fields["status"] = validator.String(in["status"]).
			Transform(strings.ToUpper).
			OneOf(statusValues(AllStatuses()), MsgInvalidStatus).
			Custom(func(s string) bool {
				return s != string(StatusInProgress) || selfAssigned
			}, MsgAssigneeInProgress).
			Custom(func(s string) bool {
				return s != string(StatusResolved) || selfAssigned
			}, MsgAssigneeResolved)
	}

	out, err := validator.Validate(fields, in)
	if err != nil {
		return UpdateInput{}, err
	}

	var upd UpdateInput
	if v, ok := out["title"]; ok {
		upd.Title = &v
	}
	if v, ok := out["description"]; ok {
		upd.Description = &v
	}
	if v, ok := out["status"]; ok {
		st := Status(v)
		upd.Status = &st
	}
	if v, ok := out["priority"]; ok {
		pr := Priority(v)
		upd.Priority = &pr
	}
	if _, ok := out["assignee"]; ok {
		upd.SetAssignee = true
		upd.AssigneeID = assigneeID
	}
	return upd, nil
}
