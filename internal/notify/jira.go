package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/tidwall/gjson"
)

const (
	jiraDateLayout     = "2006-01-02"
	jiraDateTimeLayout = "2006-01-02T15:04:05.000-0700"
	jiraDueDateField   = "duedate"
)

// JIRAConfig names the target project and the fields the schedule dates
// are written to.
type JIRAConfig struct {
	ProjectKey string
	IssueType  string
	StartField string
	DueField   string
	// Tables limits which tables produce issues; empty means all.
	Tables []domain.TableID
}

// JIRAIssue is a create-issue request body.
type JIRAIssue struct {
	Fields map[string]any `json:"fields"`
}

func (i JIRAIssue) Summary() string {
	s, _ := i.Fields["summary"].(string)
	return s
}

// JIRAIssues builds one issue per schedule row. Start and due fields take
// date-times, except the built-in duedate field which only holds a date.
func JIRAIssues(result *domain.CalculationResult, project *domain.Project, cfg JIRAConfig) []JIRAIssue {
	issueType := cfg.IssueType
	if issueType == "" {
		issueType = "Task"
	}
	var issues []JIRAIssue
	for _, t := range selectTables(cfg.Tables) {
		for _, row := range result.Rows(t) {
			fields := map[string]any{
				"project":     map[string]string{"key": cfg.ProjectKey},
				"issuetype":   map[string]string{"name": issueType},
				"summary":     fmt.Sprintf("[%s] [%s] %s %s", project.DisplayID(), project.TableName(t), row.Label, row.Entry.StageName),
				"description": jiraDescription(result, project, row),
				"labels":      []string{"backplan", strings.ToLower(project.DisplayID())},
			}
			if cfg.StartField != "" {
				fields[cfg.StartField] = jiraTime(cfg.StartField, row.Entry.Start)
			}
			if cfg.DueField != "" {
				fields[cfg.DueField] = jiraTime(cfg.DueField, row.Entry.End)
			}
			issues = append(issues, JIRAIssue{Fields: fields})
		}
	}
	return issues
}

func jiraTime(field string, ts time.Time) string {
	if field == jiraDueDateField {
		return ts.Format(jiraDateLayout)
	}
	return ts.Format(jiraDateTimeLayout)
}

func jiraDescription(result *domain.CalculationResult, project *domain.Project, row domain.Row) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s) update on %s\n", project.Name, project.DisplayID(), result.AnchorDate)
	fmt.Fprintf(&b, "Stage: %s %s\n", row.Label, row.Entry.StageName)
	fmt.Fprintf(&b, "Window: %s\n", formatSpan(row.Entry))
	if row.Entry.Inverted() {
		b.WriteString("Note: the resolved end precedes the start.\n")
	}
	return b.String()
}

// JIRAClient creates issues through the JIRA REST API v2.
type JIRAClient struct {
	baseURL string
	user    string
	token   string
	http    *retryablehttp.Client
}

func NewJIRAClient(baseURL, user, token string, opts ...ClientOption) *JIRAClient {
	return &JIRAClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		user:    user,
		token:   token,
		http:    newRetryClient("jira", opts),
	}
}

// CreateIssue posts one issue and returns the created key (e.g. REL-42).
func (c *JIRAClient) CreateIssue(ctx context.Context, issue JIRAIssue) (string, error) {
	if c.baseURL == "" {
		return "", fmt.Errorf("jira base URL is not configured")
	}
	body, status, err := postJSON(ctx, c.http, c.baseURL+"/rest/api/2/issue", issue, func(r *retryablehttp.Request) {
		if c.user != "" || c.token != "" {
			r.SetBasicAuth(c.user, c.token)
		}
	})
	if err != nil {
		return "", fmt.Errorf("creating issue %q: %w", issue.Summary(), err)
	}
	if status != http.StatusCreated && status != http.StatusOK {
		return "", fmt.Errorf("creating issue %q: HTTP %d: %s", issue.Summary(), status, jiraErrorText(body))
	}

	key := gjson.GetBytes(body, "key").String()
	if key == "" {
		return "", fmt.Errorf("creating issue %q: response has no key", issue.Summary())
	}
	return key, nil
}

// jiraErrorText flattens the errorMessages array and errors object of a
// JIRA error response.
func jiraErrorText(body []byte) string {
	var parts []string
	for _, m := range gjson.GetBytes(body, "errorMessages").Array() {
		parts = append(parts, m.String())
	}
	gjson.GetBytes(body, "errors").ForEach(func(field, msg gjson.Result) bool {
		parts = append(parts, field.String()+": "+msg.String())
		return true
	})
	if len(parts) == 0 {
		return strings.TrimSpace(string(body))
	}
	return strings.Join(parts, "; ")
}
