package issue

import (
	"strconv"
	"time"
)

var (
	exportHeader      = []string{"id", "title", "description", "status", "priority", "assignee", "reporter", "created_at", "updated_at"}
	deletionLogHeader = []string{"Reporter Name", "Assignee Name", "Deleted By", "Issue Title", "Issue Description", "Issue Status", "Issue Priority"}
)

// ExportRecords converts issues to rows for a spreadsheet or CSV file. The
// first row holds the field names. No issues give no rows at all.
func ExportRecords(issues []Issue) [][]string {
	if len(issues) == 0 {
		return nil
	}
	records := make([][]string, 0, len(issues)+1)
	records = append(records, exportHeader)
	for _, iss := range issues {
		assignee := ""
		if iss.Assignee != nil {
			assignee = iss.Assignee.Name
		}
		records = append(records, []string{
			strconv.FormatInt(iss.ID, 10),
			iss.Title,
			iss.Description,
			string(iss.Status),
			string(iss.Priority),
			assignee,
			iss.Reporter.Name,
			iss.CreatedAt.UTC().Format(time.DateTime),
			iss.UpdatedAt.UTC().Format(time.DateTime),
		})
	}
	return records
}

// DeletionLogRecords converts the deletion audit to rows with a header row.
// An empty audit gives no rows at all.
func DeletionLogRecords(logs []DeletionLog) [][]string {
	if len(logs) == 0 {
		return nil
	}
	records := make([][]string, 0, len(logs)+1)
	records = append(records, deletionLogHeader)
	for _, l := range logs {
		records = append(records, []string{
			l.ReporterName,
			l.AssigneeName,
			l.DeletedBy,
			l.IssueTitle,
			l.IssueDescription,
			string(l.IssueStatus),
			string(l.IssuePriority),
		})
	}
	return records
}
