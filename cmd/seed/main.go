// Command seed resets the database to the demo users and issues.
package main

import (
	"context"
	"fmt"
	"math/rand/v2"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrymomot/issuetracker/core/logger"
	"github.com/dmitrymomot/issuetracker/integration/database/pg"
	"github.com/dmitrymomot/issuetracker/internal/config"
	"github.com/dmitrymomot/issuetracker/internal/db/migrations"
	"github.com/dmitrymomot/issuetracker/internal/issue"
	"github.com/dmitrymomot/issuetracker/internal/user"
)

type demoUser struct {
	name, email, password string
	role                  user.Role
}

var demoUsers = []demoUser{
	{"IMS Admin", "admin@ims.com", "admin123", user.RoleAdmin},
	{"John Doe", "john@ims.com", "john123", user.RoleUser},
	{"Jane Doe", "jane@ims.com", "jane123", user.RoleUser},
	{"Alice Smith", "alice@ims.com", "alice123", user.RoleUser},
	{"Bob Johnson", "bob@ims.com", "bob123", user.RoleUser},
	{"Emily Brown", "emily@ims.com", "emily123", user.RoleUser},
	{"Michael Wilson", "michael@ims.com", "michael123", user.RoleUser},
}

// The first two issues carry markup and SQL to show that both are rendered
// and stored as plain text.
var demoIssues = []struct{ title, description string }{
	{"<script>alert('XSS attack');</script>", "Users have requested the implementation of a dark mode feature to reduce eye strain during prolonged usage. This feature will enhance user experience and align with modern design trends. <script>alert('XSS');</script>"},
	{"DROP TABLE users;--", "Users have requested the implementation of a dark mode feature to reduce eye strain during prolonged usage. This feature will enhance user experience and align with modern design trends."},
	{"Issue with email notifications", "There is an issue with email notifications not being delivered promptly. Users are not receiving important updates, impacting their ability to stay informed about changes."},
	{"Page layout broken on mobile devices", "The mobile page layout is distorted and unusable on various devices with different screen sizes. This affects the accessibility and usability of the application on mobile platforms."},
	{"Performance degradation on large datasets", "The application's performance significantly degrades when handling large datasets, resulting in slow response times and increased server load. This impacts user productivity and satisfaction."},
	{"Database connection timeout error", "Database connections are timing out intermittently, causing disruptions in service availability. This issue affects the reliability and stability of the application's backend."},
	{"Cannot upload attachments to issues", "Users are unable to upload attachments to their reported issues, hindering their ability to provide necessary context and evidence. This feature is essential for effective issue tracking."},
	{"Missing validation on user input", "There is a lack of validation on user input fields, leading to potential security vulnerabilities and data integrity issues. Implementing proper input validation is crucial for system security."},
	{"UI glitch in settings page", "A minor UI glitch has been identified in the settings page, causing elements to overlap and appear incorrectly. While not critical, this issue impacts the overall user experience."},
	{"Compatibility issue with Internet Explorer", "The application experiences compatibility issues with Internet Explorer, resulting in rendering errors and functional limitations. This affects users who rely on the IE browser."},
	{"Error when exporting data to CSV", "An error occurs when exporting data to CSV files, leading to incomplete or corrupted exports. This issue prevents users from extracting and analyzing data effectively."},
	{"Login page not redirecting properly", "After logging in, users are not redirected to the correct page, resulting in a confusing user experience. This issue affects navigation and usability."},
	{"Incorrect sorting of issues by priority", "The issues are not sorted correctly based on priority, leading to confusion and inefficiencies in issue management. Proper sorting is essential for prioritizing tasks effectively."},
	{"API endpoint returning 500 error", "An internal server error (HTTP 500) occurs when accessing a specific API endpoint, preventing users from performing critical operations. This issue requires immediate resolution."},
	{"Integration with third-party service failing", "Integration with a third-party service is failing intermittently, causing disruptions in data synchronization. This impacts data consistency and system functionality."},
	{"Issue with SSL certificate renewal", "The SSL certificate for the application has expired, leading to security warnings and potential security risks. Renewing the SSL certificate is necessary to ensure secure connections."},
	{"Emails not being sent to new users", "New users are not receiving confirmation emails after registration, preventing them from activating their accounts. This issue hinders user onboarding and engagement."},
	{"UI redesign for better user experience", "The user interface requires a redesign to improve usability and provide a more intuitive user experience. This includes enhancing navigation and visual design elements."},
	{"Crash on certain user actions", "The application crashes when users perform specific actions, such as submitting a form or clicking a button. This issue disrupts user workflow and requires investigation."},
	{"Mobile app crashing on startup", "The mobile app crashes on startup for certain devices or operating system versions, making it unusable for affected users. This issue impacts mobile user engagement."},
	{"Permission issue preventing file uploads", "Users are unable to upload files due to a permission issue, even though they have the necessary privileges. This prevents users from completing tasks that require file uploads."},
	{"User profile fields not updating correctly", "User profile fields, such as name and email, do not update correctly when users make changes. This issue affects data accuracy and user profile management."},
	{"Improper error handling in search feature", "Error messages displayed during search are unclear and do not provide helpful guidance to users. Improving error handling will enhance user experience and usability."},
	{"Memory leak in backend service", "A memory leak has been identified in the backend service, causing gradual performance degradation over time. This issue requires investigation and memory optimization."},
	{"Issue with recurring tasks not resetting", "Recurring tasks are not resetting properly after completion, leading to duplicated or missed tasks. This affects task management and productivity."},
	{"Missing documentation for API endpoints", "Documentation for certain API endpoints is missing or incomplete, making it difficult for developers to integrate with the application. Comprehensive documentation is essential for smooth integration."},
	{"Notification system not working reliably", "The notification system is not delivering messages reliably, resulting in missed notifications and delayed updates. This impacts user communication and collaboration."},
	{"Broken links in user emails", "Links included in user emails are broken, leading to error pages or inaccessible content. Fixing broken links will improve user experience and prevent frustration."},
	{"Issue with timezone conversion in reports", "There is an issue with timezone conversion in reports, causing discrepancies in displayed data. Ensuring accurate timezone handling is essential for data consistency and analysis."},
}

func main() {
	log := logger.New(logger.WithDevelopment("ims-seed"))

	cfg, err := config.Load()
	if err != nil {
		log.Error("load config", logger.Error(err))
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pg.Connect(ctx, cfg.Postgres)
	if err != nil {
		log.Error("connect to postgres", logger.Error(err))
		os.Exit(1)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, migrations.FS, cfg.Postgres, log); err != nil {
		log.Error("migrate", logger.Error(err))
		os.Exit(1)
	}

	err = pg.New(pool).Transaction(ctx, func(ctx context.Context, tx *pg.DB) error {
		ids, err := seedUsers(ctx, tx)
		if err != nil {
			return err
		}
		return seedIssues(ctx, tx, ids)
	})
	if err != nil {
		log.Error("seed database", logger.Error(err))
		os.Exit(1)
	}

	log.Info("database seeding completed",
		logger.Count("users", len(demoUsers)),
		logger.Count("issues", len(demoIssues)),
	)
}

func seedUsers(ctx context.Context, db *pg.DB) ([]uuid.UUID, error) {
	if _, err := db.Exec(ctx, `DELETE FROM users`, nil); err != nil {
		return nil, fmt.Errorf("clear users: %w", err)
	}

	users := user.NewService(db)
	ids := make([]uuid.UUID, 0, len(demoUsers))
	for _, u := range demoUsers {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		created, err := users.Create(ctx, user.CreateParams{
			Name:     u.name,
			Email:    u.email,
			Password: string(hash),
			Role:     u.role,
		})
		if err != nil {
			return nil, fmt.Errorf("create %s: %w", u.email, err)
		}
		ids = append(ids, created.ID)
	}
	return ids, nil
}

// seedIssues inserts the demo issues with random assignees, reporters and
// creation dates within the last year. Unassigned issues stay open.
func seedIssues(ctx context.Context, db *pg.DB, userIDs []uuid.UUID) error {
	if _, err := db.Exec(ctx, `DELETE FROM issues`, nil); err != nil {
		return fmt.Errorf("clear issues: %w", err)
	}

	now := time.Now()
	unresolved := issue.StatusesExcept(issue.StatusResolved)
	priorities := issue.AllPriorities()

	for i, demo := range demoIssues {
		var assignee *uuid.UUID
		if i > 1 && rand.IntN(2) == 1 {
			id := userIDs[rand.IntN(len(userIDs))]
			assignee = &id
		}

		status := issue.StatusOpen
		if assignee != nil {
			status = unresolved[rand.IntN(len(unresolved))]
		}
		priority := issue.PriorityHigh
		if i > 1 {
			priority = priorities[rand.IntN(len(priorities))]
		}
		created := now.AddDate(-1, 0, 0).Add(time.Duration(rand.Int64N(int64(365 * 24 * time.Hour))))

		_, err := db.Exec(ctx, `
			INSERT INTO issues (title, description, status, priority, assignee_id, reporter_id, created_at, updated_at)
			VALUES (@title, @description, @status, @priority, @assignee_id, @reporter_id, @created_at, @created_at)`,
			pgx.NamedArgs{
				"title":       demo.title,
				"description": demo.description,
				"status":      string(status),
				"priority":    string(priority),
				"assignee_id": assignee,
				"reporter_id": userIDs[rand.IntN(len(userIDs))],
				"created_at":  created.Truncate(24 * time.Hour),
			},
		)
		if err != nil {
			return fmt.Errorf("create issue %d: %w", i+1, err)
		}
	}
	return nil
}
