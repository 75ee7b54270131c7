package issue

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/issuetracker/integration/database/pg"
)

// Service reads and writes issues.
type Service struct {
	db    *pg.DB
	users UserChecker
}

func NewService(db *pg.DB, users UserChecker) *Service {
	return &Service{db: db, users: users}
}

// ValidateCreate checks a new issue form for actor.
func (s *Service) ValidateCreate(ctx context.Context, actor Actor, form map[string][]string) (CreateInput, error) {
	return ValidateCreate(ctx, s.users, actor, form)
}

// ValidateEdit checks an edit form of iss for actor.
func (s *Service) ValidateEdit(ctx context.Context, actor Actor, iss Issue, form map[string][]string) (UpdateInput, error) {
	return ValidateEdit(ctx, s.users, actor, iss, form)
}

func scanIssue(row pgx.Row) (Issue, error) {
	var (
		iss           Issue
		assigneeID    *uuid.UUID
		assigneeName  *string
		assigneeEmail *string
	)
	err := row.Scan(
		&iss.ID, &iss.Title, &iss.Description, &iss.Status, &iss.Priority,
		&assigneeID, &assigneeName, &assigneeEmail,
		&iss.Reporter.ID, &iss.Reporter.Name, &iss.Reporter.Email,
		&iss.CreatedAt, &iss.UpdatedAt,
	)
	if err != nil {
		return Issue{}, err
	}
	if assigneeID != nil {
		iss.Assignee = &Person{ID: *assigneeID}
		if assigneeName != nil {
			iss.Assignee.Name = *assigneeName
		}
		if assigneeEmail != nil {
			iss.Assignee.Email = *assigneeEmail
		}
	}
	return iss, nil
}

// Create inserts an issue reported by actor and returns its id.
func (s *Service) Create(ctx context.Context, actor Actor, in CreateInput) (int64, error) {
	var id int64
	err := s.db.QueryRow(ctx, `
		INSERT INTO issues (title, description, status, priority, assignee_id, reporter_id)
		VALUES (@title, @description, @status, @priority, @assignee_id, @reporter_id)
		RETURNING id`,
		pgx.NamedArgs{
			"title":       in.Title,
			"description": in.Description,
			"status":      string(in.Status),
			"priority":    string(in.Priority),
			"assignee_id": in.AssigneeID,
			"reporter_id": actor.ID,
		},
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("create issue: %w", err)
	}
	return id, nil
}

// Update writes the submitted fields of in.
func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) error {
	if in.Empty() {
		return nil
	}

	set := []string{"updated_at = NOW()"}
	args := pgx.NamedArgs{"id": id}
	if in.Title != nil {
		set = append(set, "title = @title")
		args["title"] = *in.Title
	}
	if in.Description != nil {
		set = append(set, "description = @description")
		args["description"] = *in.Description
	}
	if in.Status != nil {
		set = append(set, "status = @status")
		args["status"] = string(*in.Status)
	}
	if in.Priority != nil {
		set = append(set, "priority = @priority")
		args["priority"] = string(*in.Priority)
	}
	if in.SetAssignee {
		set = append(set, "assignee_id = @assignee_id")
		args["assignee_id"] = in.AssigneeID
	}

	n, err := s.db.Exec(ctx,
		`UPDATE issues SET `+strings.Join(set, ", ")+` WHERE id = @id AND NOT is_deleted`, args)
	if err != nil {
		return fmt.Errorf("update issue: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Get returns a live issue or ErrNotFound.
func (s *Service) Get(ctx context.Context, id int64) (Issue, error) {
	iss, err := scanIssue(s.db.QueryRow(ctx,
		`SELECT`+issueColumns+issueJoins+` WHERE i.id = @id AND NOT i.is_deleted`,
		pgx.NamedArgs{"id": id}))
	if errors.Is(err, pgx.ErrNoRows) {
		return Issue{}, ErrNotFound
	}
	return iss, err
}

// Count returns how many issues match o for actor.
func (s *Service) Count(ctx context.Context, actor Actor, o ListOptions) (int, error) {
	sql, args := CountQuery(actor, o)
	var n int
	if err := s.db.QueryRow(ctx, sql, args).Scan(&n); err != nil {
		return 0, fmt.Errorf("count issues: %w", err)
	}
	return n, nil
}

// List returns the issues matching o for actor.
func (s *Service) List(ctx context.Context, actor Actor, o ListOptions) ([]Issue, error) {
	sql, args := ListQuery(actor, o)
	rows, err := s.db.Query(ctx, sql, args)
	issues, err := pg.CollectRows(rows, err, func(row pgx.CollectableRow) (Issue, error) {
		return scanIssue(row)
	})
	if err != nil {
		return nil, fmt.Errorf("list issues: %w", err)
	}
	return issues, nil
}

// Stats counts the issues visible to actor by status and priority.
func (s *Service) Stats(ctx context.Context, actor Actor) (Stats, error) {
	var st Stats
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*),
			COUNT(*) FILTER (WHERE i.status = 'OPEN'),
			COUNT(*) FILTER (WHERE i.status = 'IN_PROGRESS'),
			COUNT(*) FILTER (WHERE i.status = 'RESOLVED'),
			COUNT(*) FILTER (WHERE i.priority = 'HIGH'),
			COUNT(*) FILTER (WHERE i.priority = 'MEDIUM'),
			COUNT(*) FILTER (WHERE i.priority = 'LOW')
		FROM issues AS i
		WHERE `+visibility,
		pgx.NamedArgs{"actor_id": actor.ID, "is_admin": actor.IsAdmin()},
	).Scan(&st.Total, &st.Open, &st.InProgress, &st.Resolved, &st.High, &st.Medium, &st.Low)
	if err != nil {
		return Stats{}, fmt.Errorf("issue stats: %w", err)
	}
	return st, nil
}

// Delete soft deletes the issue and records who deleted it. Both happen in
// one transaction.
func (s *Service) Delete(ctx context.Context, id int64, actor Actor) error {
	return s.db.Transaction(ctx, func(ctx context.Context, tx *pg.DB) error {
		n, err := tx.Exec(ctx,
			`UPDATE issues SET is_deleted = TRUE, updated_at = NOW() WHERE id = @id AND NOT is_deleted`,
			pgx.NamedArgs{"id": id})
		if err != nil {
			return err
		}
		if n == 0 {
			return ErrNotFound
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO issue_deletion_logs (issue_id, deleted_by) VALUES (@id, @deleted_by)`,
			pgx.NamedArgs{"id": id, "deleted_by": actor.ID})
		return err
	}, func(err error) error {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete issue %d: %w", id, err)
	})
}

// DeletionLogs returns the deletion audit, oldest first.
func (s *Service) DeletionLogs(ctx context.Context) ([]DeletionLog, error) {
	rows, err := s.db.Query(ctx, `
		SELECT COALESCE(r.name, ''), COALESCE(a.name, ''), d.name,
			i.title, i.description, i.status, i.priority, l.deleted_at
		FROM issue_deletion_logs AS l
		JOIN issues AS i ON i.id = l.issue_id
		JOIN users AS d ON d.id = l.deleted_by
		LEFT JOIN users AS a ON a.id = i.assignee_id
		LEFT JOIN users AS r ON r.id = i.reporter_id
		ORDER BY l.deleted_at, l.id`, nil)
	logs, err := pg.CollectRows(rows, err, func(row pgx.CollectableRow) (DeletionLog, error) {
		var l DeletionLog
		err := row.Scan(&l.ReporterName, &l.AssigneeName, &l.DeletedBy,
			&l.IssueTitle, &l.IssueDescription, &l.IssueStatus, &l.IssuePriority, &l.DeletedAt)
		return l, err
	})
	if err != nil {
		return nil, fmt.Errorf("deletion logs: %w", err)
	}
	return logs, nil
}
