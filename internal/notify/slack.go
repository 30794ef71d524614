package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/alexanderramin/backplan/internal/domain"
	"github.com/alexanderramin/backplan/internal/export"
	"github.com/hashicorp/go-retryablehttp"
)

// SlackMessage renders the schedule as Slack mrkdwn. Only rows of tables are
// listed; empty means every table.
func SlackMessage(result *domain.CalculationResult, project *domain.Project, tables []domain.TableID) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s %s* release schedule (update %s)\n", project.DisplayID(), slackEscape(project.Name), result.AnchorDate)

	var ms []string
	for _, m := range export.Milestones(result) {
		if m.Key == "update" {
			continue
		}
		ms = append(ms, fmt.Sprintf("%s: %s", m.Label, m.Date))
	}
	b.WriteString(strings.Join(ms, " | "))
	b.WriteString("\n")

	for _, t := range selectTables(tables) {
		rows := result.Rows(t)
		if len(rows) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n*%s*\n", slackEscape(project.TableName(t)))
		for _, row := range rows {
			bullet := "•"
			indent := ""
			if row.Child {
				bullet = "◦"
				indent = "    "
			}
			fmt.Fprintf(&b, "%s%s `%s` %s  %s\n", indent, bullet, row.Label, slackEscape(row.Entry.StageName), formatSpan(row.Entry))
		}
	}
	return b.String()
}

func slackEscape(s string) string {
	return strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;").Replace(s)
}

// SlackClient posts to an incoming webhook.
type SlackClient struct {
	webhookURL string
	http       *retryablehttp.Client
}

func NewSlackClient(webhookURL string, opts ...ClientOption) *SlackClient {
	return &SlackClient{webhookURL: webhookURL, http: newRetryClient("slack", opts)}
}

// Post sends text as a single webhook message.
func (c *SlackClient) Post(ctx context.Context, text string) error {
	if c.webhookURL == "" {
		return fmt.Errorf("slack webhook URL is not configured")
	}
	body, status, err := postJSON(ctx, c.http, c.webhookURL, map[string]any{
		"text":   text,
		"mrkdwn": true,
	}, nil)
	if err != nil {
		return fmt.Errorf("posting to slack: %w", err)
	}
	if status != http.StatusOK {
		return fmt.Errorf("posting to slack: HTTP %d: %s", status, strings.TrimSpace(string(body)))
	}
	return nil
}
