package domain

import (
	"context"

	sdk "github.com/inference-gateway/sdk"
)

// IssueTracker is the remote issue tracker the repository adapter talks to
type IssueTracker interface {
	ListIssues(ctx context.Context, owner, repo string, state IssueState) ([]Issue, error)
	GetIssue(ctx context.Context, owner, repo string, number int) (*Issue, error)
	ListComments(ctx context.Context, owner, repo string, number int) ([]Comment, error)
	ListLabels(ctx context.Context, owner, repo string) ([]Label, error)
	CreateLabel(ctx context.Context, owner, repo string, label Label) (*Label, error)
	AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]Label, error)
}

// SDKClient is the subset of the gateway SDK client used for chat completions
type SDKClient interface {
	WithOptions(opts *sdk.CreateChatCompletionRequest) SDKClient
	WithMiddlewareOptions(opts *sdk.MiddlewareOptions) SDKClient
	GenerateContent(ctx context.Context, provider sdk.Provider, model string, messages []sdk.Message) (*sdk.CreateChatCompletionResponse, error)
}
