package cli

import (
	"context"

	"github.com/alexanderramin/backplan/internal/notify"
)

// IssueCreator files one JIRA issue and returns its key.
type IssueCreator interface {
	CreateIssue(ctx context.Context, issue notify.JIRAIssue) (string, error)
}

// MessagePoster delivers one chat message.
type MessagePoster interface {
	Post(ctx context.Context, text string) error
}
