package services

import (
	"context"

	sdk "github.com/inference-gateway/sdk"
	domain "github.com/inference-gateway/triage/internal/domain"
	mock "github.com/stretchr/testify/mock"
)

type FakeIssueTracker struct {
	mock.Mock
}

func (f *FakeIssueTracker) ListIssues(ctx context.Context, owner, repo string, state domain.IssueState) ([]domain.Issue, error) {
	args := f.Called(ctx, owner, repo, state)
	issues, _ := args.Get(0).([]domain.Issue)
	return issues, args.Error(1)
}

func (f *FakeIssueTracker) GetIssue(ctx context.Context, owner, repo string, number int) (*domain.Issue, error) {
	args := f.Called(ctx, owner, repo, number)
	issue, _ := args.Get(0).(*domain.Issue)
	return issue, args.Error(1)
}

func (f *FakeIssueTracker) ListComments(ctx context.Context, owner, repo string, number int) ([]domain.Comment, error) {
	args := f.Called(ctx, owner, repo, number)
	comments, _ := args.Get(0).([]domain.Comment)
	return comments, args.Error(1)
}

func (f *FakeIssueTracker) ListLabels(ctx context.Context, owner, repo string) ([]domain.Label, error) {
	args := f.Called(ctx, owner, repo)
	labels, _ := args.Get(0).([]domain.Label)
	return labels, args.Error(1)
}

func (f *FakeIssueTracker) CreateLabel(ctx context.Context, owner, repo string, label domain.Label) (*domain.Label, error) {
	args := f.Called(ctx, owner, repo, label)
	created, _ := args.Get(0).(*domain.Label)
	return created, args.Error(1)
}

func (f *FakeIssueTracker) AddLabels(ctx context.Context, owner, repo string, number int, labels []string) ([]domain.Label, error) {
	args := f.Called(ctx, owner, repo, number, labels)
	result, _ := args.Get(0).([]domain.Label)
	return result, args.Error(1)
}

type FakeSDKClient struct {
	mock.Mock
}

func (f *FakeSDKClient) WithOptions(opts *sdk.CreateChatCompletionRequest) domain.SDKClient {
	f.Called(opts)
	return f
}

func (f *FakeSDKClient) WithMiddlewareOptions(opts *sdk.MiddlewareOptions) domain.SDKClient {
	f.Called(opts)
	return f
}

func (f *FakeSDKClient) GenerateContent(ctx context.Context, provider sdk.Provider, model string, messages []sdk.Message) (*sdk.CreateChatCompletionResponse, error) {
	args := f.Called(ctx, provider, model, messages)
	response, _ := args.Get(0).(*sdk.CreateChatCompletionResponse)
	return response, args.Error(1)
}
