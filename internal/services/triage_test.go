package services

import (
	"errors"
	"strings"
	"testing"
	"time"

	sdk "github.com/inference-gateway/sdk"
	config "github.com/inference-gateway/triage/config"
	domain "github.com/inference-gateway/triage/internal/domain"
	formatting "github.com/inference-gateway/triage/internal/formatting"
	logger "github.com/inference-gateway/triage/internal/logger"
	prompts "github.com/inference-gateway/triage/internal/prompts"
	assert "github.com/stretchr/testify/assert"
	mock "github.com/stretchr/testify/mock"
	require "github.com/stretchr/testify/require"
	rapid "pgregory.net/rapid"
)

func newTestTriageService(t *testing.T, tracker *FakeIssueTracker, client *FakeSDKClient) *TriageService {
	t.Helper()

	tmpl, err := prompts.LoadTemplates("")
	require.NoError(t, err)
	assembler, err := prompts.NewAssembler(tmpl)
	require.NoError(t, err)

	return NewTriageService(NewIssueRepository(tracker), assembler, client, config.TriageConfig{
		Model:     "openai/gpt-4o",
		MaxTokens: 512,
	})
}

func stubIssueData(tracker *FakeIssueTracker) {
	tracker.On("GetIssue", mock.Anything, "octo-org", "widgets", 42).Return(&domain.Issue{
		Number:    42,
		Title:     "Crash on launch",
		State:     domain.IssueStateOpen,
		User:      domain.GitHubUser{Login: "octocat"},
		CreatedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Body:      "The app crashes right after the splash screen.",
	}, nil)
	tracker.On("ListComments", mock.Anything, "octo-org", "widgets", 42).Return([]domain.Comment{}, nil)
	tracker.On("ListLabels", mock.Anything, "octo-org", "widgets").Return([]domain.Label{
		{Name: "bug"},
		{Name: "needs-repro"},
	}, nil)
}

func TestTriageService_EmptyRepository(t *testing.T) {
	tracker := &FakeIssueTracker{}
	tracker.On("ListIssues", mock.Anything, "octo-org", "widgets", domain.IssueState("")).Return([]domain.Issue{}, nil)

	s := newTestTriageService(t, tracker, &FakeSDKClient{})
	ctx := logger.NopContext()

	assert.Equal(t, "0", s.GetIssuesCount(ctx, "octo-org", "widgets"))
	assert.Equal(t, formatting.NoIssuesMessage, s.GetIssues(ctx, "octo-org", "widgets"))
}

func TestTriageService_GetUntriagedIssues(t *testing.T) {
	tracker := &FakeIssueTracker{}
	tracker.On("ListIssues", mock.Anything, "octo-org", "widgets", domain.IssueStateOpen).Return([]domain.Issue{
		{Number: 7, Title: "Untriaged", State: domain.IssueStateOpen, User: domain.GitHubUser{Login: "octocat"}},
		{Number: 8, Title: "Planned", State: domain.IssueStateOpen, Milestone: &domain.Milestone{Title: "v2"}},
	}, nil)

	out := newTestTriageService(t, tracker, &FakeSDKClient{}).GetUntriagedIssues(logger.NopContext(), "octo-org", "widgets")

	assert.Contains(t, out, "Untriaged")
	assert.NotContains(t, out, "Planned")
}

func TestTriageService_Counts(t *testing.T) {
	tracker := &FakeIssueTracker{}
	tracker.On("ListComments", mock.Anything, "octo-org", "widgets", 5).Return([]domain.Comment{{Body: "a"}, {Body: "b"}, {Body: "c"}}, nil)
	tracker.On("ListLabels", mock.Anything, "octo-org", "widgets").Return([]domain.Label{{Name: "bug", Color: "d73a4a"}}, nil)

	s := newTestTriageService(t, tracker, &FakeSDKClient{})
	ctx := logger.NopContext()

	assert.Equal(t, "3", s.GetCommentsCount(ctx, "octo-org", "widgets", 5))
	assert.Equal(t, "1", s.GetLabelsCount(ctx, "octo-org", "widgets"))
	assert.Contains(t, s.GetLabels(ctx, "octo-org", "widgets"), "d73a4a")
}

func TestTriageService_AddLabelsToIssue(t *testing.T) {
	labels := []string{"bug", "needs-repro"}

	tracker := &FakeIssueTracker{}
	tracker.On("AddLabels", mock.Anything, "octo-org", "widgets", 42, labels).
		Return([]domain.Label{{Name: "bug"}, {Name: "needs-repro"}}, nil)

	out := newTestTriageService(t, tracker, &FakeSDKClient{}).AddLabelsToIssue(logger.NopContext(), "octo-org", "widgets", 42, labels)

	assert.Contains(t, out, "bug")
	assert.Contains(t, out, "needs-repro")
	assert.Contains(t, out, "42")
	assert.False(t, strings.HasPrefix(out, "Error:"))
	tracker.AssertExpectations(t)
}

func TestTriageService_CreateLabel(t *testing.T) {
	tracker := &FakeIssueTracker{}
	tracker.On("CreateLabel", mock.Anything, "octo-org", "widgets", domain.Label{Name: "triage", Color: "ededed"}).
		Return(&domain.Label{Name: "triage", Color: "ededed"}, nil)

	out := newTestTriageService(t, tracker, &FakeSDKClient{}).CreateLabel(logger.NopContext(), "octo-org", "widgets", "triage", "#ededed", "")

	assert.Contains(t, out, `"triage"`)
	assert.Contains(t, out, "ededed")
}

func TestTriageService_ErrorsBecomeText(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(tracker *FakeIssueTracker)
		call    func(s *TriageService) string
		wantSub string
	}{
		{
			name: "remote failure",
			setup: func(tracker *FakeIssueTracker) {
				tracker.On("ListLabels", mock.Anything, "octo-org", "widgets").Return(nil,
					domain.RemoteFailure("list labels", &domain.RemoteError{Service: "GitHub", StatusCode: 403, Message: "Forbidden"}))
			},
			call:    func(s *TriageService) string { return s.GetLabels(logger.NopContext(), "octo-org", "widgets") },
			wantSub: "Forbidden",
		},
		{
			name:  "invalid issue number",
			setup: func(*FakeIssueTracker) {},
			call: func(s *TriageService) string {
				return s.GetCommentsCount(logger.NopContext(), "octo-org", "widgets", 0)
			},
			wantSub: "issue number must be positive",
		},
		{
			name: "missing token",
			setup: func(tracker *FakeIssueTracker) {
				tracker.On("ListIssues", mock.Anything, "octo-org", "widgets", domain.IssueState("")).Return(nil,
					domain.ConfigurationError("list issues", "GitHub token is not set"))
			},
			call:    func(s *TriageService) string { return s.GetIssuesCount(logger.NopContext(), "octo-org", "widgets") },
			wantSub: "GitHub token is not set",
		},
		{
			name: "truncated listing",
			setup: func(tracker *FakeIssueTracker) {
				tracker.On("ListLabels", mock.Anything, "octo-org", "widgets").Return(nil,
					domain.RemoteFailure("list labels", errors.New("result truncated: more than 10 pages of 100 items (raise github.max_pages)")))
			},
			call:    func(s *TriageService) string { return s.GetLabelsCount(logger.NopContext(), "octo-org", "widgets") },
			wantSub: "result truncated",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &FakeIssueTracker{}
			tt.setup(tracker)

			out := tt.call(newTestTriageService(t, tracker, &FakeSDKClient{}))

			assert.True(t, strings.HasPrefix(out, "Error: "), "got %q", out)
			assert.Contains(t, out, tt.wantSub)
		})
	}
}

func TestTriageService_BlankOwnerMakesNoCalls(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		owner := rapid.SampledFrom([]string{"", " ", "\t", "\n  "}).Draw(rt, "owner")
		number := rapid.IntRange(-5, 100).Draw(rt, "number")

		tracker := &FakeIssueTracker{}
		client := &FakeSDKClient{}
		s := newTestTriageService(t, tracker, client)
		ctx := logger.NopContext()

		outputs := []string{
			s.GetIssuesCount(ctx, owner, "widgets"),
			s.GetIssues(ctx, owner, "widgets"),
			s.GetUntriagedIssues(ctx, owner, "widgets"),
			s.GetIssue(ctx, owner, "widgets", number),
			s.GetCommentsCount(ctx, owner, "widgets", number),
			s.GetLabelsCount(ctx, owner, "widgets"),
			s.GetLabels(ctx, owner, "widgets"),
			s.CreateLabel(ctx, owner, "widgets", "bug", "d73a4a", ""),
			s.AddLabelsToIssue(ctx, owner, "widgets", number, []string{"bug"}),
			s.SummarizeIssue(ctx, owner, "widgets", number),
			s.RecommendLabels(ctx, owner, "widgets", number),
		}

		for _, out := range outputs {
			if !strings.HasPrefix(out, "Error: ") {
				rt.Fatalf("expected error text, got %q", out)
			}
		}
		if len(tracker.Calls) != 0 || len(client.Calls) != 0 {
			rt.Fatalf("expected no remote calls, got %d tracker and %d client calls", len(tracker.Calls), len(client.Calls))
		}
	})
}

func TestTriageService_SummarizeIssue(t *testing.T) {
	tracker := &FakeIssueTracker{}
	stubIssueData(tracker)

	client := &FakeSDKClient{}
	client.On("WithOptions", mock.MatchedBy(func(req *sdk.CreateChatCompletionRequest) bool {
		return req.MaxTokens != nil && *req.MaxTokens == 512
	})).Return(client)
	client.On("WithMiddlewareOptions", mock.MatchedBy(func(opts *sdk.MiddlewareOptions) bool {
		return opts.SkipMCP && opts.SkipA2A
	})).Return(client)
	client.On("GenerateContent", mock.Anything, sdk.Provider("openai"), "gpt-4o", mock.MatchedBy(func(messages []sdk.Message) bool {
		return len(messages) == 2 && messages[0].Role == sdk.System && messages[1].Role == sdk.User
	})).Return(&sdk.CreateChatCompletionResponse{
		Choices: []sdk.ChatCompletionChoice{
			{Message: sdk.Message{Role: sdk.Assistant, Content: sdk.NewMessageContent("## Issue Summary\nCrash.\n\n## Comments Summary\nNone.")}},
		},
	}, nil)

	out := newTestTriageService(t, tracker, client).SummarizeIssue(logger.NopContext(), "octo-org", "widgets", 42)

	assert.Contains(t, out, "## Issue Summary")
	assert.Contains(t, out, "## Comments Summary")
	client.AssertExpectations(t)
	tracker.AssertExpectations(t)
}

func TestTriageService_RecommendLabelsSendsLabelsAndNarrative(t *testing.T) {
	tracker := &FakeIssueTracker{}
	stubIssueData(tracker)

	var sent []sdk.Message
	client := &FakeSDKClient{}
	client.On("WithOptions", mock.Anything).Return(client)
	client.On("WithMiddlewareOptions", mock.Anything).Return(client)
	client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			sent = args.Get(3).([]sdk.Message)
		}).
		Return(&sdk.CreateChatCompletionResponse{
			Choices: []sdk.ChatCompletionChoice{
				{Message: sdk.Message{Content: sdk.NewMessageContent("## Selected Labels\n- bug")}},
			},
		}, nil)

	out := newTestTriageService(t, tracker, client).RecommendLabels(logger.NopContext(), "octo-org", "widgets", 42)
	assert.Contains(t, out, "bug")

	require.Len(t, sent, 2)
	system, err := sent[0].Content.AsMessageContent0()
	require.NoError(t, err)
	assert.Contains(t, system, "## Considered But Rejected")

	parts, err := sent[1].Content.AsMessageContent1()
	require.NoError(t, err)
	require.Len(t, parts, 3)

	labels, err := parts[1].AsTextContentPart()
	require.NoError(t, err)
	assert.Equal(t, "Repository labels: bug, needs-repro", labels.Text)

	narrative, err := parts[2].AsTextContentPart()
	require.NoError(t, err)
	assert.Contains(t, narrative.Text, "Title: Crash on launch")

	tracker.AssertNotCalled(t, "AddLabels", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestTriageService_SummarizeNoResponse(t *testing.T) {
	tests := []struct {
		name     string
		response *sdk.CreateChatCompletionResponse
	}{
		{name: "nil response", response: nil},
		{name: "no choices", response: &sdk.CreateChatCompletionResponse{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracker := &FakeIssueTracker{}
			stubIssueData(tracker)

			client := &FakeSDKClient{}
			client.On("WithOptions", mock.Anything).Return(client)
			client.On("WithMiddlewareOptions", mock.Anything).Return(client)
			client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(tt.response, nil)

			out := newTestTriageService(t, tracker, client).SummarizeIssue(logger.NopContext(), "octo-org", "widgets", 42)
			assert.Equal(t, "", out)
		})
	}
}

func TestTriageService_SummarizeModelFailure(t *testing.T) {
	tracker := &FakeIssueTracker{}
	stubIssueData(tracker)

	client := &FakeSDKClient{}
	client.On("WithOptions", mock.Anything).Return(client)
	client.On("WithMiddlewareOptions", mock.Anything).Return(client)
	client.On("GenerateContent", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil, errors.New("gateway unavailable"))

	ctx, logs := logger.TestContext()
	out := newTestTriageService(t, tracker, client).SummarizeIssue(ctx, "octo-org", "widgets", 42)

	assert.True(t, strings.HasPrefix(out, "Error: failed to summarize issue #42"))
	assert.Contains(t, out, "gateway unavailable")
	assert.Equal(t, 1, logs.FilterMessage("failed to generate content").Len())
}

func TestSplitModel(t *testing.T) {
	tests := []struct {
		model        string
		wantProvider sdk.Provider
		wantModel    string
		wantErr      bool
	}{
		{model: "openai/gpt-4o", wantProvider: "openai", wantModel: "gpt-4o"},
		{model: "groq/meta-llama/llama-4", wantProvider: "groq", wantModel: "meta-llama/llama-4"},
		{model: "gpt-4o", wantErr: true},
		{model: "/gpt-4o", wantErr: true},
		{model: "openai/", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.model, func(t *testing.T) {
			provider, model, err := splitModel(tt.model)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrConfiguration)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantProvider, provider)
			assert.Equal(t, tt.wantModel, model)
		})
	}
}
