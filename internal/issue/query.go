package issue

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
)

// DateLayout is the format of the start and end filters.
const DateLayout = "2006-01-02"

// Sort columns accepted by ListOptions.OrderBy.
const (
	OrderByCreatedAt = "created_at"
	OrderByStatus    = "status"
	OrderByPriority  = "priority"
	OrderByAssignee  = "assignee"
)

// ListOptions filters and sorts the issue list. Unknown or malformed filter
// values are ignored. Limit 0 returns every matching issue.
type ListOptions struct {
	Search   string
	Status   string
	Priority string
	Start    string
	End      string
	OrderBy  string
	Order    string
	Limit    int
	Offset   int
}

// ListOptionsFromQuery reads the filter and sort parameters of a request.
func ListOptionsFromQuery(q url.Values) ListOptions {
	return ListOptions{
		Search:   strings.TrimSpace(q.Get("search")),
		Status:   q.Get("status"),
		Priority: q.Get("priority"),
		Start:    q.Get("start"),
		End:      q.Get("end"),
		OrderBy:  q.Get("orderBy"),
		Order:    q.Get("order"),
	}
}

// Paginate returns a copy limited to one page.
func (o ListOptions) Paginate(limit, offset int) ListOptions {
	o.Limit = limit
	o.Offset = offset
	return o
}

// Descending reports the sort direction. A missing order or "desc" sorts
// descending and any other value ascending.
func (o ListOptions) Descending() bool {
	return o.Order == "" || strings.EqualFold(o.Order, "desc")
}

const issueColumns = `
	i.id, i.title, i.description, i.status, i.priority,
	i.assignee_id, a.name, a.email,
	i.reporter_id, r.name, r.email,
	i.created_at, i.updated_at`

const issueJoins = `
	FROM issues AS i
	LEFT JOIN users AS a ON a.id = i.assignee_id
	JOIN users AS r ON r.id = i.reporter_id`

// visibility restricts issues to those the actor reports or is assigned,
// unless the actor is an admin.
const visibility = `NOT i.is_deleted AND (i.reporter_id = @actor_id OR i.assignee_id = @actor_id OR @is_admin)`

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func whereClause(actor Actor, o ListOptions) (string, pgx.NamedArgs) {
	where := []string{visibility}
	args := pgx.NamedArgs{
		"actor_id": actor.ID,
		"is_admin": actor.IsAdmin(),
	}

	if o.Search != "" {
		where = append(where, `(LOWER(i.title) LIKE @keyword OR LOWER(a.name) LIKE @keyword)`)
		args["keyword"] = "%" + escapeLike(strings.ToLower(o.Search)) + "%"
	}
	if st, ok := ParseStatus(o.Status); ok {
		where = append(where, `i.status = @status`)
		args["status"] = string(st)
	}
	if pr, ok := ParsePriority(o.Priority); ok {
		where = append(where, `i.priority = @priority`)
		args["priority"] = string(pr)
	}

	start, startErr := time.Parse(DateLayout, o.Start)
	end, endErr := time.Parse(DateLayout, o.End)
	switch {
	case startErr == nil && endErr == nil:
		where = append(where, `i.created_at::date BETWEEN @start AND @end`)
		args["start"], args["end"] = start, end
	case startErr == nil:
		where = append(where, `i.created_at::date >= @start`)
		args["start"] = start
	case endErr == nil:
		where = append(where, `i.created_at::date <= @end`)
		args["end"] = end
	}

	return " WHERE " + strings.Join(where, " AND "), args
}

func orderClause(o ListOptions) string {
	dir := "DESC"
	if !o.Descending() {
		dir = "ASC"
	}

	var expr string
	switch o.OrderBy {
	case OrderByStatus:
		expr = `array_position(ARRAY['OPEN','IN_PROGRESS','RESOLVED']::text[], i.status::text)`
	case OrderByPriority:
		expr = `array_position(ARRAY['HIGH','MEDIUM','LOW']::text[], i.priority::text)`
	case OrderByAssignee:
		expr = `(i.assignee_id IS NULL)`
	default:
		expr = `i.created_at`
	}
	return " ORDER BY " + expr + " " + dir + ", i.id " + dir
}

// CountQuery builds the statement counting the issues matching o.
func CountQuery(actor Actor, o ListOptions) (string, pgx.NamedArgs) {
	where, args := whereClause(actor, o)
	return `SELECT COUNT(*)` + issueJoins + where, args
}

// ListQuery builds the statement listing the issues matching o.
func ListQuery(actor Actor, o ListOptions) (string, pgx.NamedArgs) {
	where, args := whereClause(actor, o)
	sql := `SELECT` + issueColumns + issueJoins + where + orderClause(o)
	if o.Limit > 0 {
		sql += ` LIMIT @limit OFFSET @offset`
		args["limit"] = o.Limit
		args["offset"] = max(o.Offset, 0)
	}
	return sql, args
}

// ParsePage reads a 1-based page number. Anything unparsable is page 1.
func ParsePage(s string) int {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 {
		return 1
	}
	return p
}
